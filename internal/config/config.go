package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	Extraction ExtractionConfig
	Validation ValidationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractionConfig holds extraction pipeline tuning.
type ExtractionConfig struct {
	MinTableRows int `mapstructure:"min_table_rows"`
}

// ValidationConfig holds validation thresholds.
type ValidationConfig struct {
	MaxDescriptionLength int `mapstructure:"max_description_length"`
	PercentWarnThreshold int `mapstructure:"percent_warn_threshold"`
	MaxServicesPerTable  int `mapstructure:"max_services_per_table"`
}

// Load reads configuration from environment variables with the TARIFARIO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TARIFARIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "tarifario")
	v.SetDefault("db.password", "tarifario_secret")
	v.SetDefault("db.name", "tarifario_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "tarifario-workbooks")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Extraction defaults
	v.SetDefault("extraction.min_table_rows", 3)

	// Validation defaults
	v.SetDefault("validation.max_description_length", 200)
	v.SetDefault("validation.percent_warn_threshold", 100)
	v.SetDefault("validation.max_services_per_table", 50)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "TARIFARIO_SERVER_PORT",
		"server.read_timeout":               "TARIFARIO_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "TARIFARIO_SERVER_WRITE_TIMEOUT",
		"server.environment":                "TARIFARIO_SERVER_ENVIRONMENT",
		"db.host":                           "TARIFARIO_DB_HOST",
		"db.port":                           "TARIFARIO_DB_PORT",
		"db.user":                           "TARIFARIO_DB_USER",
		"db.password":                       "TARIFARIO_DB_PASSWORD",
		"db.name":                           "TARIFARIO_DB_NAME",
		"db.sslmode":                        "TARIFARIO_DB_SSLMODE",
		"db.max_open":                       "TARIFARIO_DB_MAX_OPEN",
		"db.max_idle":                       "TARIFARIO_DB_MAX_IDLE",
		"s3.region":                         "TARIFARIO_S3_REGION",
		"s3.bucket":                         "TARIFARIO_S3_BUCKET",
		"s3.endpoint":                       "TARIFARIO_S3_ENDPOINT",
		"s3.access_key":                     "TARIFARIO_S3_ACCESS_KEY",
		"s3.secret_key":                     "TARIFARIO_S3_SECRET_KEY",
		"s3.max_file_size_mb":               "TARIFARIO_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                 "TARIFARIO_S3_PRESIGN_EXPIRY",
		"log.level":                         "TARIFARIO_LOG_LEVEL",
		"log.format":                        "TARIFARIO_LOG_FORMAT",
		"extraction.min_table_rows":         "TARIFARIO_EXTRACTION_MIN_TABLE_ROWS",
		"validation.max_description_length": "TARIFARIO_VALIDATION_MAX_DESCRIPTION_LENGTH",
		"validation.percent_warn_threshold": "TARIFARIO_VALIDATION_PERCENT_WARN_THRESHOLD",
		"validation.max_services_per_table": "TARIFARIO_VALIDATION_MAX_SERVICES_PER_TABLE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TARIFARIO_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TARIFARIO_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Extraction = ExtractionConfig{
		MinTableRows: v.GetInt("extraction.min_table_rows"),
	}
	cfg.Validation = ValidationConfig{
		MaxDescriptionLength: v.GetInt("validation.max_description_length"),
		PercentWarnThreshold: v.GetInt("validation.percent_warn_threshold"),
		MaxServicesPerTable:  v.GetInt("validation.max_services_per_table"),
	}

	return cfg, nil
}
