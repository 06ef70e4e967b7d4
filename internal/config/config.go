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
	Store      StoreConfig
	Auth       AuthConfig
	S3         S3Config
	Log        LogConfig
	Vision     VisionConfig
	CORS       CORSConfig
	Extraction ExtractionConfig
	Compare    CompareConfig
	Export     ExportConfig
	Email      EmailConfig
	Metrics    MetricsConfig
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // postgres | memory
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	FromAddress   string `mapstructure:"from_address"`
	FromName      string `mapstructure:"from_name"`
	FrontendURL   string `mapstructure:"frontend_url"`
	NotifyAddress string `mapstructure:"notify_address"`
}

// ExtractionConfig holds Text A extraction worker settings.
type ExtractionConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
	TimeoutSecs      int `mapstructure:"timeout_secs"`
}

// CompareConfig holds comparison settings.
type CompareConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Classify bool          `mapstructure:"classify"`
}

// ExportConfig holds Word export settings.
type ExportConfig struct {
	FontFamily   string `mapstructure:"font_family"`
	FontSizePt   int    `mapstructure:"font_size_pt"`
	PageBreaks   bool   `mapstructure:"page_breaks"`
	StoreExports bool   `mapstructure:"store_exports"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// VisionProviderConfig holds settings for a single Text A extraction provider.
type VisionProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	Language     string `mapstructure:"language"`
}

// VisionConfig holds the ordered provider chain for Text A extraction.
type VisionConfig struct {
	Primary   VisionProviderConfig `mapstructure:"primary"`
	Secondary VisionProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (v *VisionConfig) SecondaryConfig() *VisionProviderConfig {
	if v.Secondary.Provider != "" {
		return &v.Secondary
	}
	return nil
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
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Name           string `mapstructure:"name"`
	SSLMode        string `mapstructure:"sslmode"`
	MaxOpen        int    `mapstructure:"max_open"`
	MaxIdle        int    `mapstructure:"max_idle"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds bearer token validation settings. Tokens are issued by an
// upstream identity service; this service only verifies them.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
	Issuer  string `mapstructure:"issuer"`
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

// Load reads configuration from environment variables with the DOCRECON_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCRECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docrecon")
	v.SetDefault("db.password", "docrecon_secret")
	v.SetDefault("db.name", "docrecon_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.migrations_path", "db/migrations")

	v.SetDefault("store.driver", "postgres")

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "docrecon")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "docrecon-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Extraction worker defaults
	v.SetDefault("extraction.poll_interval_secs", 5)
	v.SetDefault("extraction.max_retries", 3)
	v.SetDefault("extraction.concurrency", 4)
	v.SetDefault("extraction.timeout_secs", 300)

	// Compare defaults
	v.SetDefault("compare.timeout", "10s")
	v.SetDefault("compare.classify", true)

	// Export defaults
	v.SetDefault("export.font_family", "Calibri")
	v.SetDefault("export.font_size_pt", 11)
	v.SetDefault("export.page_breaks", true)
	v.SetDefault("export.store_exports", false)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@docrecon.local")
	v.SetDefault("email.from_name", "DocRecon")
	v.SetDefault("email.frontend_url", "http://localhost:3000")
	v.SetDefault("email.notify_address", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Vision defaults
	v.SetDefault("vision.primary.provider", "claude")
	v.SetDefault("vision.primary.api_key", "")
	v.SetDefault("vision.primary.default_model", "")
	v.SetDefault("vision.primary.max_retries", 2)
	v.SetDefault("vision.primary.timeout_secs", 120)
	v.SetDefault("vision.primary.language", "eng")
	v.SetDefault("vision.secondary.provider", "")
	v.SetDefault("vision.secondary.api_key", "")
	v.SetDefault("vision.secondary.default_model", "")
	v.SetDefault("vision.secondary.max_retries", 2)
	v.SetDefault("vision.secondary.timeout_secs", 120)
	v.SetDefault("vision.secondary.language", "eng")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "DOCRECON_SERVER_PORT",
		"server.read_timeout":            "DOCRECON_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "DOCRECON_SERVER_WRITE_TIMEOUT",
		"server.environment":             "DOCRECON_SERVER_ENVIRONMENT",
		"db.host":                        "DOCRECON_DB_HOST",
		"db.port":                        "DOCRECON_DB_PORT",
		"db.user":                        "DOCRECON_DB_USER",
		"db.password":                    "DOCRECON_DB_PASSWORD",
		"db.name":                        "DOCRECON_DB_NAME",
		"db.sslmode":                     "DOCRECON_DB_SSLMODE",
		"db.max_open":                    "DOCRECON_DB_MAX_OPEN",
		"db.max_idle":                    "DOCRECON_DB_MAX_IDLE",
		"db.migrations_path":             "DOCRECON_DB_MIGRATIONS_PATH",
		"store.driver":                   "DOCRECON_STORE_DRIVER",
		"auth.enabled":                   "DOCRECON_AUTH_ENABLED",
		"auth.secret":                    "DOCRECON_AUTH_SECRET",
		"auth.issuer":                    "DOCRECON_AUTH_ISSUER",
		"s3.region":                      "DOCRECON_S3_REGION",
		"s3.bucket":                      "DOCRECON_S3_BUCKET",
		"s3.endpoint":                    "DOCRECON_S3_ENDPOINT",
		"s3.access_key":                  "DOCRECON_S3_ACCESS_KEY",
		"s3.secret_key":                  "DOCRECON_S3_SECRET_KEY",
		"s3.max_file_size_mb":            "DOCRECON_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":              "DOCRECON_S3_PRESIGN_EXPIRY",
		"log.level":                      "DOCRECON_LOG_LEVEL",
		"log.format":                     "DOCRECON_LOG_FORMAT",
		"cors.allowed_origins":           "DOCRECON_CORS_ALLOWED_ORIGINS",
		"extraction.poll_interval_secs":  "DOCRECON_EXTRACTION_POLL_INTERVAL_SECS",
		"extraction.max_retries":         "DOCRECON_EXTRACTION_MAX_RETRIES",
		"extraction.concurrency":         "DOCRECON_EXTRACTION_CONCURRENCY",
		"extraction.timeout_secs":        "DOCRECON_EXTRACTION_TIMEOUT_SECS",
		"compare.timeout":                "DOCRECON_COMPARE_TIMEOUT",
		"compare.classify":               "DOCRECON_COMPARE_CLASSIFY",
		"export.font_family":             "DOCRECON_EXPORT_FONT_FAMILY",
		"export.font_size_pt":            "DOCRECON_EXPORT_FONT_SIZE_PT",
		"export.page_breaks":             "DOCRECON_EXPORT_PAGE_BREAKS",
		"export.store_exports":           "DOCRECON_EXPORT_STORE_EXPORTS",
		"email.provider":                 "DOCRECON_EMAIL_PROVIDER",
		"email.region":                   "DOCRECON_EMAIL_REGION",
		"email.from_address":             "DOCRECON_EMAIL_FROM_ADDRESS",
		"email.from_name":                "DOCRECON_EMAIL_FROM_NAME",
		"email.frontend_url":             "DOCRECON_EMAIL_FRONTEND_URL",
		"email.notify_address":           "DOCRECON_EMAIL_NOTIFY_ADDRESS",
		"metrics.enabled":                "DOCRECON_METRICS_ENABLED",
		"metrics.path":                   "DOCRECON_METRICS_PATH",
		"vision.primary.provider":        "DOCRECON_VISION_PRIMARY_PROVIDER",
		"vision.primary.api_key":         "DOCRECON_VISION_PRIMARY_API_KEY",
		"vision.primary.default_model":   "DOCRECON_VISION_PRIMARY_DEFAULT_MODEL",
		"vision.primary.max_retries":     "DOCRECON_VISION_PRIMARY_MAX_RETRIES",
		"vision.primary.timeout_secs":    "DOCRECON_VISION_PRIMARY_TIMEOUT_SECS",
		"vision.primary.language":        "DOCRECON_VISION_PRIMARY_LANGUAGE",
		"vision.secondary.provider":      "DOCRECON_VISION_SECONDARY_PROVIDER",
		"vision.secondary.api_key":       "DOCRECON_VISION_SECONDARY_API_KEY",
		"vision.secondary.default_model": "DOCRECON_VISION_SECONDARY_DEFAULT_MODEL",
		"vision.secondary.max_retries":   "DOCRECON_VISION_SECONDARY_MAX_RETRIES",
		"vision.secondary.timeout_secs":  "DOCRECON_VISION_SECONDARY_TIMEOUT_SECS",
		"vision.secondary.language":      "DOCRECON_VISION_SECONDARY_LANGUAGE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Platform-provided PORT wins unless DOCRECON_SERVER_PORT is set explicitly.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCRECON_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:           v.GetString("db.host"),
		Port:           v.GetInt("db.port"),
		User:           v.GetString("db.user"),
		Password:       v.GetString("db.password"),
		Name:           v.GetString("db.name"),
		SSLMode:        v.GetString("db.sslmode"),
		MaxOpen:        v.GetInt("db.max_open"),
		MaxIdle:        v.GetInt("db.max_idle"),
		MigrationsPath: v.GetString("db.migrations_path"),
	}
	cfg.Store = StoreConfig{
		Driver: v.GetString("store.driver"),
	}
	switch cfg.Store.Driver {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("config: unknown store driver %q (want postgres or memory)", cfg.Store.Driver)
	}

	cfg.Auth = AuthConfig{
		Enabled: v.GetBool("auth.enabled"),
		Secret:  v.GetString("auth.secret"),
		Issuer:  v.GetString("auth.issuer"),
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

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Vision = VisionConfig{
		Primary:   loadProvider(v, "vision.primary"),
		Secondary: loadProvider(v, "vision.secondary"),
	}

	cfg.Extraction = ExtractionConfig{
		PollIntervalSecs: v.GetInt("extraction.poll_interval_secs"),
		MaxRetries:       v.GetInt("extraction.max_retries"),
		Concurrency:      v.GetInt("extraction.concurrency"),
		TimeoutSecs:      v.GetInt("extraction.timeout_secs"),
	}
	if cfg.Extraction.Concurrency < 1 {
		cfg.Extraction.Concurrency = 1
	}

	cfg.Compare = CompareConfig{
		Timeout:  v.GetDuration("compare.timeout"),
		Classify: v.GetBool("compare.classify"),
	}
	cfg.Export = ExportConfig{
		FontFamily:   v.GetString("export.font_family"),
		FontSizePt:   v.GetInt("export.font_size_pt"),
		PageBreaks:   v.GetBool("export.page_breaks"),
		StoreExports: v.GetBool("export.store_exports"),
	}

	cfg.Email = EmailConfig{
		Provider:      v.GetString("email.provider"),
		Region:        v.GetString("email.region"),
		FromAddress:   v.GetString("email.from_address"),
		FromName:      v.GetString("email.from_name"),
		FrontendURL:   v.GetString("email.frontend_url"),
		NotifyAddress: v.GetString("email.notify_address"),
	}
	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("metrics.enabled"),
		Path:    v.GetString("metrics.path"),
	}

	return cfg, nil
}

func loadProvider(v *viper.Viper, prefix string) VisionProviderConfig {
	return VisionProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		MaxRetries:   v.GetInt(prefix + ".max_retries"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
		Language:     v.GetString(prefix + ".language"),
	}
}
