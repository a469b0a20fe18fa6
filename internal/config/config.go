package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                  int    `mapstructure:"port"                    validate:"required,gt=0,lt=65536"`
	LogLevel              string `mapstructure:"log_level"               validate:"required,oneof=debug info warn error"`
	ReadTimeoutSeconds    int    `mapstructure:"read_timeout_seconds"    validate:"gt=0"`
	WriteTimeoutSeconds   int    `mapstructure:"write_timeout_seconds"   validate:"gt=0"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gt=0,ltfield=WriteTimeoutSeconds"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// Authentication modes. A deployment runs exactly one of them.
const (
	AuthModeToken   = "token"
	AuthModeSession = "session"
)

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	Mode                        string `mapstructure:"mode"                           validate:"required,oneof=token session"`
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
	SessionLifetimeMinutes      int    `mapstructure:"session_lifetime_minutes"       validate:"required,gt=0"`
	CookieSecure                bool   `mapstructure:"cookie_secure"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// UsesSessions reports whether requests are authenticated with server-side sessions.
func (c AuthConfig) UsesSessions() bool {
	return c.Mode == AuthModeSession
}
