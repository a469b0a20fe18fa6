package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/redact"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// ErrBadCredentials marks credentials that were presented but rejected.
// Authenticators wrap it around the underlying cause.
var ErrBadCredentials = errors.New("invalid credentials")

// Authenticator resolves the caller behind a request.
//
// It returns (nil, nil) when the request carries no credentials, an error
// wrapping ErrBadCredentials when they are rejected, and any other error for
// infrastructure failures.
type Authenticator interface {
	Authenticate(r *http.Request) (*domain.Caller, error)
}

// challenger is implemented by authenticators that send a WWW-Authenticate
// header with 401 responses.
type challenger interface {
	Challenge() string
}

// UserLookup loads users by id.
type UserLookup interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// SessionResolver loads the user behind a session id.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (*domain.User, error)
}

func badCredentials(err error) error {
	return fmt.Errorf("%w: %w", ErrBadCredentials, err)
}

// TokenAuthenticator reads "Authorization: Bearer <access token>".
type TokenAuthenticator struct {
	jwtService auth.JWTService
	users      UserLookup
}

// NewTokenAuthenticator creates a TokenAuthenticator. The token's user is
// looked up on every request so deleted accounts stop authenticating.
func NewTokenAuthenticator(jwtService auth.JWTService, users UserLookup) *TokenAuthenticator {
	return &TokenAuthenticator{jwtService: jwtService, users: users}
}

// Authenticate implements Authenticator.
func (a *TokenAuthenticator) Authenticate(r *http.Request) (*domain.Caller, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, badCredentials(auth.ErrInvalidToken)
	}

	claims, err := a.jwtService.ValidateToken(r.Context(), strings.TrimSpace(token))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrExpiredToken),
			errors.Is(err, auth.ErrTokenNotYetValid),
			errors.Is(err, auth.ErrWrongTokenType):
			return nil, badCredentials(err)
		default:
			return nil, fmt.Errorf("failed to validate token: %w", err)
		}
	}

	user, err := a.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, badCredentials(err)
		}
		return nil, err
	}
	return domain.CallerFromUser(user), nil
}

// Challenge implements challenger.
func (a *TokenAuthenticator) Challenge() string {
	return `Bearer realm="api"`
}

// SessionAuthenticator reads the session cookie.
type SessionAuthenticator struct {
	sessions SessionResolver
}

// NewSessionAuthenticator creates a SessionAuthenticator.
func NewSessionAuthenticator(sessions SessionResolver) *SessionAuthenticator {
	return &SessionAuthenticator{sessions: sessions}
}

// Authenticate implements Authenticator.
func (a *SessionAuthenticator) Authenticate(r *http.Request) (*domain.Caller, error) {
	cookie, err := r.Cookie(shared.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	user, err := a.sessions.Resolve(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, badCredentials(err)
		}
		return nil, err
	}
	return domain.CallerFromUser(user), nil
}

// AuthMiddleware puts the authenticated caller into the request context.
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
	}
}

// RequireAuth rejects requests without valid credentials with 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := m.authenticator.Authenticate(r)
		switch {
		case err != nil && !errors.Is(err, ErrBadCredentials):
			m.internalError(w, r, err)
			return
		case err != nil || caller == nil:
			m.unauthorized(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithCaller(r.Context(), caller)))
	})
}

// Optional resolves the caller when valid credentials are present and treats
// missing or rejected credentials as an anonymous request.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := m.authenticator.Authenticate(r)
		if err != nil {
			if !errors.Is(err, ErrBadCredentials) {
				m.internalError(w, r, err)
				return
			}
			logger.FromContext(r.Context()).Debug("ignoring rejected credentials on optional auth route",
				"error", redact.Error(err))
			caller = nil
		}

		ctx := r.Context()
		if caller != nil {
			ctx = shared.WithCaller(ctx, caller)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	if c, ok := m.authenticator.(challenger); ok {
		w.Header().Set("WWW-Authenticate", c.Challenge())
	}

	message := "Authentication credentials were not provided"
	if err != nil {
		message = "Invalid or expired credentials"
		if errors.Is(err, auth.ErrExpiredToken) {
			message = "Token expired"
		}
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err)
}

func (m *AuthMiddleware) internalError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
}
