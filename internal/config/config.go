package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage providers.
const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int      `env:"LOG_LEVEL" envDefault:"0"`
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Database Database `envPrefix:"DATABASE_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Password Password `envPrefix:"BCRYPT_"`
	Upload   Upload   `envPrefix:"UPLOAD_"`
	Storage  Storage  `envPrefix:"MINIO_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"3001"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
	ReleaseMode        bool   `env:"RELEASE_MODE" envDefault:"true"`
}

// Database contains database connection parameters.
type Database struct {
	DSN string `env:"DSN,required,notEmpty"`
}

// JWT contains session token parameters.
type JWT struct {
	Secret string        `env:"SECRET,required,notEmpty"`
	Expire time.Duration `env:"EXPIRE" envDefault:"168h"`
}

// Password contains password hashing parameters.
type Password struct {
	Cost int `env:"COST" envDefault:"10"`
}

// Upload contains upload policy and backend selection.
type Upload struct {
	Dir      string `env:"DIR" envDefault:"./uploads"`
	MaxSize  int64  `env:"MAX_SIZE" envDefault:"5242880"`
	Provider string `env:"PROVIDER" envDefault:"local"`
}

// Storage contains object storage parameters used by the minio provider.
type Storage struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"employee-uploads"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE must be positive, got %d", c.Upload.MaxSize)
	}
	if c.JWT.Expire <= 0 {
		return fmt.Errorf("JWT_EXPIRE must be positive, got %s", c.JWT.Expire)
	}
	switch c.Upload.Provider {
	case StorageLocal, StorageMinio:
	default:
		return fmt.Errorf("unknown UPLOAD_PROVIDER %q", c.Upload.Provider)
	}
	return nil
}
