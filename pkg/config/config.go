package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string           `yaml:"environment" default:"development" validate:"required"`
	Server      ServerConfig     `yaml:"server"`
	Logging     LoggingConfig    `yaml:"logging"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	Artifacts   ArtifactsConfig  `yaml:"artifacts"`
	Redis       RedisConfig      `yaml:"redis"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
	Forecast    ForecastConfig   `yaml:"forecast"`
}

type ServerConfig struct {
	Host            string          `yaml:"host" default:"0.0.0.0"`
	Port            int             `yaml:"port" default:"5000" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" default:"10s"`
	SlowThreshold   time.Duration   `yaml:"slow_threshold" default:"500ms"`
	CORS            bool            `yaml:"cors" default:"true"`
	CORSOrigins     []string        `yaml:"cors_origins" default:"[\"*\"]"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket for POST /PREDICT.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	Burst   int     `yaml:"burst" default:"20" validate:"min=1"`
	RPS     float64 `yaml:"rps" default:"10" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics" validate:"startswith=/"`
}

// ArtifactsConfig selects where fitted models live and what they are called.
type ArtifactsConfig struct {
	Backend      string `yaml:"backend" default:"file" validate:"oneof=file redis"`
	Dir          string `yaml:"dir" default:"models" validate:"required_if=Backend file"`
	Preprocessor string `yaml:"preprocessor" default:"preprocessor.json" validate:"required"`
	TimeSeries   string `yaml:"timeseries" default:"sarimax.json" validate:"required"`
	Tabular      string `yaml:"tabular" default:"catboost.json" validate:"required"`
	Residual     string `yaml:"residual" default:"residual.json" validate:"required"`
	// LoadTimeout bounds the startup fetch of all artifacts.
	LoadTimeout time.Duration `yaml:"load_timeout" default:"30s"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
	PoolSize int    `yaml:"pool_size" default:"10" validate:"min=1"`
	Prefix   string `yaml:"prefix" default:"salescast"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000" validate:"min=1,max=65535"`
	Database         string        `yaml:"database" default:"default"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	MaxOpenConns     int           `yaml:"max_open_conns" default:"4" validate:"min=1"`
	MaxIdleConns     int           `yaml:"max_idle_conns" default:"2" validate:"min=0"`
	Table            string        `yaml:"table" default:"sales_history"`
}

// ForecastConfig tunes the confidence intervals.
type ForecastConfig struct {
	Alpha float64 `yaml:"alpha" default:"0.05" validate:"gt=0,lt=1"`
	Z     float64 `yaml:"z" default:"1.96" validate:"gt=0"`
}

var validate = validator.New()

// Default returns a config populated only from defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

func load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Load reads and parses a YAML configuration file. An empty path yields defaults.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT=%q: %w", v, err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ARTIFACT_BACKEND"); v != "" {
		c.Artifacts.Backend = v
	}
	if v := os.Getenv("ARTIFACT_DIR"); v != "" {
		c.Artifacts.Dir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), tagWithParam(fe)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
