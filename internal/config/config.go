package config

import (
	"github.com/maxviazov/company-employees-service/internal/logger"
	"github.com/maxviazov/company-employees-service/internal/query"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Paging   PagingConfig        `mapstructure:"paging"`
	Query    QueryConfig         `mapstructure:"query"`
	Hateoas  HateoasConfig       `mapstructure:"hateoas"`
	CORS     CORSConfig          `mapstructure:"cors"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
	// ShutdownTimeout is in seconds.
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"min=0"`
}

type StorageConfig struct {
	Driver  string `mapstructure:"driver" validate:"oneof=postgres memory"`
	Migrate bool   `mapstructure:"migrate"`
}

// PostgresConfig holds connection and pool tuning; durations are in seconds.
type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"dbname"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// PagingConfig bounds list page sizes to keep server load predictable.
type PagingConfig struct {
	DefaultPageSize uint `mapstructure:"default_page_size" validate:"min=1"`
	MaxPageSize     uint `mapstructure:"max_page_size" validate:"gtefield=DefaultPageSize"`
}

// Limits converts the section into the query package's limits.
func (p PagingConfig) Limits() query.Limits {
	return query.Limits{DefaultPageSize: p.DefaultPageSize, MaxPageSize: p.MaxPageSize}
}

// QueryConfig switches unknown orderBy/fields tokens from silently skipped to rejected.
type QueryConfig struct {
	Strict bool `mapstructure:"strict"`
}

type HateoasConfig struct {
	MediaType string `mapstructure:"media_type" validate:"required"`
}

type CORSConfig struct {
	AllowOrigins  []string `mapstructure:"allow_origins"`
	AllowMethods  []string `mapstructure:"allow_methods"`
	ExposeHeaders []string `mapstructure:"expose_headers"`
}
