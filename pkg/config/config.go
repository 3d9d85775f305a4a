package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Cron         CronConfig
	Uploads      UploadsConfig
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
	Env          string `envconfig:"PAWMART_APP_ENV" required:"true"`
	Port         string `envconfig:"PAWMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PAWMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAWMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PAWMART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PAWMART_DB_DSN"`
	Driver string `envconfig:"PAWMART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PAWMART_DB_HOST"`
	Port     int    `envconfig:"PAWMART_DB_PORT" default:"5432"`
	User     string `envconfig:"PAWMART_DB_USER"`
	Password string `envconfig:"PAWMART_DB_PASSWORD"`
	Name     string `envconfig:"PAWMART_DB_NAME"`
	SSLMode  string `envconfig:"PAWMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PAWMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PAWMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PAWMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAWMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either PAWMART_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"PAWMART_REDIS_URL"`
	Address      string        `envconfig:"PAWMART_REDIS_ADDR"`
	Password     string        `envconfig:"PAWMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAWMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAWMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAWMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAWMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAWMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAWMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CronConfig struct {
	Interval           time.Duration `envconfig:"PAWMART_CRON_INTERVAL" default:"1h"`
	GuestCartRetention time.Duration `envconfig:"PAWMART_CRON_GUEST_CART_RETENTION" default:"168h"`
	// NotificationRetention controls how long read notifications are kept.
	NotificationRetention time.Duration `envconfig:"PAWMART_CRON_NOTIFICATION_RETENTION" default:"2160h"`
}

type UploadsConfig struct {
	TempDir      string        `envconfig:"PAWMART_UPLOAD_TEMP_DIR" default:"/tmp/pawmart-uploads"`
	PublicDir    string        `envconfig:"PAWMART_UPLOAD_PUBLIC_DIR" default:"./public/uploads"`
	MaxBytes     int64         `envconfig:"PAWMART_UPLOAD_MAX_BYTES" default:"33554432"`
	ImportWindow time.Duration `envconfig:"PAWMART_IMPORT_DEADLINE" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PAWMART_FEATURE_AUTO_MIGRATE" default:"false"`
}
