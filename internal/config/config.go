package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend names selectable via storage.backend.
const (
	BackendS3    = "s3"
	BackendDrive = "drive"
	BackendLocal = "local"
)

// Config is the full service configuration.
type Config struct {
	HTTP     HTTP     `mapstructure:"http"`
	Database Database `mapstructure:"database"`
	Storage  Storage  `mapstructure:"storage"`
}

type HTTP struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Database struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the pgx connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Storage selects and configures the document storage backend. The backend is
// chosen once at adapter construction; nothing reads this at call time.
type Storage struct {
	Backend string `mapstructure:"backend"`
	S3      S3     `mapstructure:"s3"`
	Drive   Drive  `mapstructure:"drive"`
	Local   Local  `mapstructure:"local"`
}

type S3 struct {
	Endpoint  string        `mapstructure:"endpoint"`
	AccessKey string        `mapstructure:"access_key"`
	SecretKey string        `mapstructure:"secret_key"`
	Bucket    string        `mapstructure:"bucket"`
	Region    string        `mapstructure:"region"`
	UseSSL    bool          `mapstructure:"use_ssl"`
	URLExpiry time.Duration `mapstructure:"url_expiry"`
}

type Drive struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	FolderID        string `mapstructure:"folder_id"`
}

type Local struct {
	Directory string `mapstructure:"directory"`
	BaseURL   string `mapstructure:"base_url"`
}

// Load reads config.yaml from configPath, with SCHOOL_* environment overrides
// (SCHOOL_DATABASE_HOST, SCHOOL_STORAGE_BACKEND, ...). A missing file is not
// an error; defaults plus environment apply.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.SetEnvPrefix("SCHOOL")
	// Dotted keys bind to underscore env names (database.host ->
	// SCHOOL_DATABASE_HOST); without the replacer the bindings are dead.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("storage.backend")
	v.BindEnv("storage.s3.endpoint")
	v.BindEnv("storage.s3.access_key")
	v.BindEnv("storage.s3.secret_key")
	v.BindEnv("storage.s3.bucket")
	v.BindEnv("storage.drive.credentials_file")
	v.BindEnv("storage.drive.folder_id")
	v.BindEnv("storage.local.directory")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30*time.Second)
	v.SetDefault("http.write_timeout", 60*time.Second)
	v.SetDefault("http.idle_timeout", 120*time.Second)
	v.SetDefault("http.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("http.max_upload_bytes", int64(64<<20))
	v.SetDefault("http.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "school")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("storage.backend", BackendS3)
	v.SetDefault("storage.s3.region", "ap-south-1")
	v.SetDefault("storage.s3.use_ssl", true)
	v.SetDefault("storage.s3.url_expiry", 15*time.Minute)
	v.SetDefault("storage.local.directory", "./data/documents")
	v.SetDefault("storage.local.base_url", "http://localhost:8080/documents")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch cfg.Storage.Backend {
	case BackendS3, BackendDrive, BackendLocal:
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return cfg, nil
}
