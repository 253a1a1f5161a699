package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"http_server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Security SecurityConfig `mapstructure:"security" validate:"required"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	OpenAPIPath       string        `mapstructure:"openapi_path"`
}

// StorageConfig selects where collection documents live. The file driver keeps
// one JSON document per collection under DataDir; the sqlite and postgres
// drivers keep the same documents as rows of collection_documents.
type StorageConfig struct {
	Driver      string        `mapstructure:"driver" validate:"required,oneof=file sqlite postgres"`
	DataDir     string        `mapstructure:"data_dir"`
	DSN         string        `mapstructure:"dsn"`
	Users       string        `mapstructure:"users_collection"`
	Orders      string        `mapstructure:"orders_collection"`
	OpTimeout   time.Duration `mapstructure:"op_timeout"`
	MaxOpenConn int           `mapstructure:"max_open_conns"`
}

type SecurityConfig struct {
	SessionSecret string        `mapstructure:"session_secret" validate:"required,min=32"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" validate:"required,min=1m"`
	BCryptCost    int           `mapstructure:"bcrypt_cost" validate:"required,min=4,max=15"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
}

type UploadConfig struct {
	Dir          string `mapstructure:"dir"`
	PublicPrefix string `mapstructure:"public_prefix"`
	MaxBytes     int64  `mapstructure:"max_bytes"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ApplyDefaults fills the zero values a minimal config file leaves behind.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.OpenAPIPath == "" {
		c.Server.OpenAPIPath = "./api/openapi.yml"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverFile
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Storage.Users == "" {
		c.Storage.Users = "users"
	}
	if c.Storage.Orders == "" {
		c.Storage.Orders = "orders"
	}
	if c.Security.SessionTTL == 0 {
		c.Security.SessionTTL = 7 * 24 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "public/uploads"
	}
	if c.Upload.PublicPrefix == "" {
		c.Upload.PublicPrefix = "/uploads"
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = 10 << 20
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// LoadConfigFromEnv builds the config for container deployments where no
// config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
			OpenAPIPath:       getEnv("OPENAPI_PATH", "./api/openapi.yml"),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", StorageDriverFile),
			DataDir:     getEnv("DATA_DIR", "data"),
			DSN:         getEnv("DATABASE_URL", ""),
			Users:       getEnv("USERS_COLLECTION", "users"),
			Orders:      getEnv("ORDERS_COLLECTION", "orders"),
			OpTimeout:   getEnvAsDuration("STORAGE_OP_TIMEOUT", 5*time.Second),
			MaxOpenConn: getEnvAsInt("DB_MAX_OPEN_CONNS", 5),
		},
		Security: SecurityConfig{
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
			BCryptCost:    getEnvAsInt("BCRYPT_COST", 12),
			CookieSecure:  getEnv("COOKIE_SECURE", "true") == "true",
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "public/uploads"),
			PublicPrefix: getEnv("UPLOAD_PUBLIC_PREFIX", "/uploads"),
			MaxBytes:     int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverFile:
		if c.DataDir == "" {
			return errors.New("data_dir is required for the file driver")
		}
	case StorageDriverSQLite, StorageDriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("dsn is required for the %s driver", c.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if c.Users == "" || c.Orders == "" {
		return errors.New("collection names cannot be empty")
	}
	if c.Users == c.Orders {
		return errors.New("users and orders must be different collections")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.SessionSecret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}
	if c.SessionTTL < time.Minute {
		return errors.New("session_ttl must be at least 1m")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 4 and 15")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("invalid log format %q", c.Format)
	}
	return nil
}
