package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"DECANTLY_APP_ENV" required:"true"`
	Port         string `envconfig:"DECANTLY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DECANTLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DECANTLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DECANTLY_DB_DSN"`
	Driver string `envconfig:"DECANTLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DECANTLY_DB_HOST"`
	LegacyPort     int    `envconfig:"DECANTLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DECANTLY_DB_USER"`
	LegacyPassword string `envconfig:"DECANTLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"DECANTLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"DECANTLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DECANTLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DECANTLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DECANTLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DECANTLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DECANTLY_REDIS_URL"`
	Address      string        `envconfig:"DECANTLY_REDIS_ADDR"`
	Password     string        `envconfig:"DECANTLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"DECANTLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DECANTLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DECANTLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DECANTLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DECANTLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DECANTLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DECANTLY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DECANTLY_JWT_ISSUER" default:"decantly"`
	ExpirationMinutes int    `envconfig:"DECANTLY_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DECANTLY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DECANTLY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DECANTLY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DECANTLY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DECANTLY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"DECANTLY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"DECANTLY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"DECANTLY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"DECANTLY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"DECANTLY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"DECANTLY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DECANTLY_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DECANTLY_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	db.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(db.LegacyUser),
		url.QueryEscape(db.LegacyPassword),
		db.LegacyHost,
		db.LegacyPort,
		db.LegacyName,
		db.LegacySSLMode,
	)
	return nil
}
