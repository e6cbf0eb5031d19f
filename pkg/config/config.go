package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	Coupons      CouponsConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"GB_APP_ENV" required:"true"`
	Port         string `envconfig:"GB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GB_DB_DSN"`
	Driver string `envconfig:"GB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"GB_DB_HOST"`
	Port     int    `envconfig:"GB_DB_PORT" default:"5432"`
	User     string `envconfig:"GB_DB_USER"`
	Password string `envconfig:"GB_DB_PASSWORD"`
	Name     string `envconfig:"GB_DB_NAME"`
	SSLMode  string `envconfig:"GB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GB_REDIS_ADDR"`
	Password     string        `envconfig:"GB_REDIS_PASSWORD"`
	DB           int           `envconfig:"GB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig tunes cart snapshot persistence.
type CartConfig struct {
	SnapshotTTL  time.Duration `envconfig:"GB_CART_SNAPSHOT_TTL" default:"720h"`
	EvictIdleFor time.Duration `envconfig:"GB_CART_EVICT_IDLE_FOR" default:"30m"`
}

// CouponsConfig selects the coupon authority backing.
type CouponsConfig struct {
	Source string `envconfig:"GB_COUPON_SOURCE" default:"static"`
}

// UseTable reports whether coupons should be validated against the database.
func (c CouponsConfig) UseTable() bool {
	return strings.EqualFold(strings.TrimSpace(c.Source), CouponSourceTable)
}

type CronConfig struct {
	Interval time.Duration `envconfig:"GB_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"GB_CRON_LOCK_TTL" default:"25h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GB_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	hostValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range splitDBEnvVars {
		if hostValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
