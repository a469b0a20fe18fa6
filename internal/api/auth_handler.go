package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// AuthHandler handles registration, login, token refresh and logout.
type AuthHandler struct {
	userService service.UserService
	jwtService  auth.JWTService
	sessions    *service.SessionService
	authConfig  config.AuthConfig
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. jwtService is used by the token
// endpoints and sessions by the session endpoints; a deployment only mounts
// the routes of its configured mode, so the other may be nil.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	sessions *service.SessionService,
	authConfig config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}

	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		sessions:    sessions,
		authConfig:  authConfig,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /register/.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	}, shared.CallerFromContext(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, UserResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// authenticate decodes a LoginRequest and checks the credentials. It writes
// the error response itself and returns nil on failure.
func (h *AuthHandler) authenticate(w http.ResponseWriter, r *http.Request) *domain.User {
	var req LoginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return nil
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return nil
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return nil
	}
	return user
}

// Login handles POST /login/ and returns an access/refresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user := h.authenticate(w, r)
	if user == nil {
		return
	}

	access, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}
	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate refresh token")
		return
	}

	log.Debug("issued token pair", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, TokenPairResponse{
		Access:  access,
		Refresh: refresh,
	})
}

// RefreshToken handles POST /token/refresh/ and returns a new access token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.Refresh)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to validate refresh token")
		return
	}

	// A token outliving its account must not mint new access tokens.
	if _, err := h.userService.GetUser(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			err = auth.ErrInvalidRefreshToken
		}
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	access, err := h.jwtService.GenerateToken(r.Context(), claims.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AccessTokenResponse{Access: access})
}

// SessionLogin handles POST /session/login/ and sets the session cookie.
func (h *AuthHandler) SessionLogin(w http.ResponseWriter, r *http.Request) {
	user := h.authenticate(w, r)
	if user == nil {
		return
	}

	session, err := h.sessions.Start(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	shared.RespondWithJSON(w, r, http.StatusOK, SessionUserResponse{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsStaff,
	})
}

// Logout handles POST /logout/. In session mode it deletes the session and
// clears the cookie; tokens are stateless, so token mode only acknowledges.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.authConfig.UsesSessions() {
		if cookie, err := r.Cookie(shared.SessionCookieName); err == nil && cookie.Value != "" {
			if err := h.sessions.End(r.Context(), cookie.Value); err != nil &&
				!errors.Is(err, store.ErrSessionNotFound) {
				HandleAPIError(w, r, err, "Failed to end session")
				return
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     shared.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.authConfig.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DetailResponse{Detail: "logged out"})
}
