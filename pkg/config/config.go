package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "festiva"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "FESTIVA_APP_ENV"
	EnvDBDSN  = "FESTIVA_DB_DSN"
	EnvDBHost = "FESTIVA_DB_HOST"
	EnvDBUser = "FESTIVA_DB_USER"
	EnvDBName = "FESTIVA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Settlement   SettlementConfig
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
	Env          string `envconfig:"FESTIVA_APP_ENV" required:"true"`
	Port         string `envconfig:"FESTIVA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FESTIVA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FESTIVA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FESTIVA_DB_DSN"`

	LegacyHost     string `envconfig:"FESTIVA_DB_HOST"`
	LegacyPort     int    `envconfig:"FESTIVA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FESTIVA_DB_USER"`
	LegacyPassword string `envconfig:"FESTIVA_DB_PASSWORD"`
	LegacyName     string `envconfig:"FESTIVA_DB_NAME"`
	LegacySSLMode  string `envconfig:"FESTIVA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FESTIVA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FESTIVA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FESTIVA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FESTIVA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FESTIVA_REDIS_URL"`
	Address      string        `envconfig:"FESTIVA_REDIS_ADDR"`
	Password     string        `envconfig:"FESTIVA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FESTIVA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FESTIVA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FESTIVA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FESTIVA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FESTIVA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FESTIVA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FESTIVA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FESTIVA_JWT_ISSUER" default:"festiva"`
	ExpirationMinutes int    `envconfig:"FESTIVA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FESTIVA_AUTO_MIGRATE" default:"false"`
}

// SettlementConfig tunes the settlement orchestrators.
type SettlementConfig struct {
	LedgerApplyAttempts int           `envconfig:"FESTIVA_LEDGER_APPLY_ATTEMPTS" default:"5"`
	LedgerApplyBackoff  time.Duration `envconfig:"FESTIVA_LEDGER_APPLY_BACKOFF" default:"25ms"`
	CompletionTimeout   time.Duration `envconfig:"FESTIVA_SETTLEMENT_COMPLETION_TIMEOUT" default:"30s"`
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

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
