package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"APP_ENV" env-default:"production" validate:"oneof=local development production"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Upload     Upload     `yaml:"upload"`
	PGSQL      PQSQL      `yaml:"pgsql"`
	Redis      Redis      `yaml:"redis"`
	MinIO      MinIO      `yaml:"minio"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	Reconciler Reconciler `yaml:"reconciler"`
	JWTSecret  string     `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"super_secret_key" validate:"required"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"5s"`
}

type Upload struct {
	Directory         string   `yaml:"directory" env:"UPLOAD_DIR" env-default:"upload" validate:"required"`
	FieldName         string   `yaml:"field_name" env-default:"file" validate:"required"`
	AllowedMediaTypes []string `yaml:"allowed_media_types" env-default:"image/gif,image/jpeg,image/pjpeg,image/png" validate:"min=1,dive,required"`
	MaxSizeBytes      int64    `yaml:"max_size_bytes" env:"UPLOAD_MAX_SIZE_BYTES" env-default:"200000" validate:"gt=0"`
	// MaxRequestBytes caps how much of one file part is read before the
	// transfer is reported as too large.
	MaxRequestBytes int64  `yaml:"max_request_bytes" env-default:"8388608" validate:"gtefield=MaxSizeBytes"`
	TempDir         string `yaml:"temp_dir" env:"UPLOAD_TEMP_DIR"`
	StrictNames     bool   `yaml:"strict_names" env:"UPLOAD_STRICT_NAMES"`
}

type PQSQL struct {
	Enabled  bool   `yaml:"enabled" env:"PGSQL_ENABLED"`
	Host     string `yaml:"host" env:"PGSQL_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PGSQL_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGSQL_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PGSQL_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PGSQL_DBNAME" env-default:"uploads_db"`
	SSLMode  string `yaml:"sslmode" env:"PGSQL_SSLMODE" env-default:"disable" validate:"oneof=disable require verify-ca verify-full"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type MinIO struct {
	Enabled         bool   `yaml:"enabled" env:"MINIO_ENABLED"`
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	BucketName      string `yaml:"bucket_name" env:"MINIO_BUCKET" env-default:"uploads"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
}

type RateLimit struct {
	UploadsPerMinute int64 `yaml:"uploads_per_minute" env-default:"30" validate:"gt=0"`
}

type Reconciler struct {
	Interval  time.Duration `yaml:"interval" env-default:"1m"`
	BatchSize int           `yaml:"batch_size" env-default:"500" validate:"gt=0"`
}

// Load reads the config file at path, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
