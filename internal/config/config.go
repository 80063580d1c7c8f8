package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string

	HTTPAddr string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	DBPath     string

	BackupDir string

	MetricsEnabled          bool
	MetricsExporterEndpoint string
	MetricsExporterProtocol string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_SERVICE", "rentledger")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_TYPE", "sqlite")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "rentledger")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_PATH", "rentledger.db")
	v.SetDefault("BACKUP_DIR", "backups")
	v.SetDefault("METRICS_ENABLED", false)
	v.SetDefault("METRICS_EXPORTER_ENDPOINT", "localhost:4317")
	v.SetDefault("METRICS_EXPORTER_PROTOCOL", "grpc")

	return Config{
		AppName:     v.GetString("APP_SERVICE"),
		AppVersion:  v.GetString("APP_VERSION"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),

		HTTPAddr: v.GetString("HTTP_ADDR"),

		DBType:     strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_TYPE"))),
		DBHost:     v.GetString("DATABASE_HOST"),
		DBPort:     v.GetString("DATABASE_PORT"),
		DBName:     v.GetString("DATABASE_NAME"),
		DBUser:     v.GetString("DATABASE_USER"),
		DBPassword: v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:  v.GetString("DATABASE_SSLMODE"),
		DBPath:     v.GetString("DATABASE_PATH"),

		BackupDir: v.GetString("BACKUP_DIR"),

		MetricsEnabled:          v.GetBool("METRICS_ENABLED"),
		MetricsExporterEndpoint: strings.TrimSpace(v.GetString("METRICS_EXPORTER_ENDPOINT")),
		MetricsExporterProtocol: strings.ToLower(strings.TrimSpace(v.GetString("METRICS_EXPORTER_PROTOCOL"))),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Module wires configuration loading.
var Module = fx.Module("config",
	fx.Provide(Load),
)
