package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "TEAFARM"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TEAFARM_APP_ENV" required:"true"`
	Port         string `envconfig:"TEAFARM_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TEAFARM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEAFARM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"TEAFARM_DB_DSN"`

	Host     string `envconfig:"TEAFARM_DB_HOST"`
	Port     int    `envconfig:"TEAFARM_DB_PORT" default:"5432"`
	User     string `envconfig:"TEAFARM_DB_USER"`
	Password string `envconfig:"TEAFARM_DB_PASSWORD"`
	Name     string `envconfig:"TEAFARM_DB_NAME"`
	SSLMode  string `envconfig:"TEAFARM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TEAFARM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TEAFARM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TEAFARM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TEAFARM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	if db.Host == "" {
		missing = append(missing, "TEAFARM_DB_HOST")
	}
	if db.User == "" {
		missing = append(missing, "TEAFARM_DB_USER")
	}
	if db.Name == "" {
		missing = append(missing, "TEAFARM_DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("database config incomplete: set TEAFARM_DB_DSN or %s", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     db.Name,
		RawQuery: "sslmode=" + db.SSLMode,
	}
	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TEAFARM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TEAFARM_REDIS_ADDR"`
	Password     string        `envconfig:"TEAFARM_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEAFARM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEAFARM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEAFARM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TEAFARM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEAFARM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEAFARM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TEAFARM_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TEAFARM_JWT_ISSUER" default:"teafarm-api"`
	ExpirationMinutes      int    `envconfig:"TEAFARM_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"TEAFARM_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TEAFARM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TEAFARM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TEAFARM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TEAFARM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TEAFARM_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TEAFARM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"TEAFARM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TEAFARM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"TEAFARM_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"TEAFARM_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"TEAFARM_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TEAFARM_AUTO_MIGRATE" default:"false"`
}
