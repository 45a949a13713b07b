package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Identity struct {
		ProjectURL     string `yaml:"project_url"`     // https://<ref>.supabase.co
		ProjectRef     string `yaml:"project_ref"`     // <ref>
		Audience       string `yaml:"audience"`        // JWT aud claim
		ServiceRoleKey string `yaml:"service_role_key"`
		PublishableKey string `yaml:"publishable_key"`
		DevUsername    string `yaml:"dev_username"`
		DevPassword    string `yaml:"dev_password"`
	} `yaml:"identity"`

	Email struct {
		SMTPHost  string `yaml:"smtp_host"`
		SMTPPort  int    `yaml:"smtp_port"`
		Username  string `yaml:"smtp_user"`
		Password  string `yaml:"smtp_password"`
		FromEmail string `yaml:"from_email"`
		FromName  string `yaml:"from_name"`
		Enabled   bool   `yaml:"enabled"`
	} `yaml:"email"`

	Geocode struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"geocode"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3
		BasePath  string `yaml:"base_path"`  // For local storage
		BaseURL   string `yaml:"base_url"`   // Public URL base
		Bucket    string `yaml:"bucket"`     // For S3
		Region    string `yaml:"region"`     // For S3
		AccessKey string `yaml:"access_key"` // For S3
		SecretKey string `yaml:"secret_key"` // For S3
		Endpoint  string `yaml:"endpoint"`   // For custom S3 endpoints
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		MaxBatch     int      `yaml:"max_batch"`     // Max files per batch upload
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
		RetentionH   int      `yaml:"retention_h"`   // Hours before a pending image is orphaned
	} `yaml:"upload"`
}

var AppConfig *Config

func LoadConfig() {
	_ = godotenv.Load()

	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Переменные окружения имеют приоритет над YAML
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))

	cfg.Identity.ProjectURL = os.Getenv("SUPABASE_PROJECT_URL")
	cfg.Identity.ProjectRef = os.Getenv("SUPABASE_PROJECT_REF")
	cfg.Identity.Audience = os.Getenv("SUPABASE_JWT_AUDIENCE")
	cfg.Identity.ServiceRoleKey = os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	cfg.Identity.PublishableKey = os.Getenv("SUPABASE_PUBLISHABLE_KEY")
	cfg.Identity.DevUsername = os.Getenv("SUPABASE_DEV_USERNAME")
	cfg.Identity.DevPassword = os.Getenv("SUPABASE_DEV_PASSWORD")

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.Username = os.Getenv("SMTP_USER")
	cfg.Email.Password = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("EMAIL_FROM")
	cfg.Email.FromName = os.Getenv("EMAIL_FROM_NAME")
	cfg.Email.Enabled = os.Getenv("EMAIL_ENABLED") == "true"

	cfg.Geocode.APIKey = os.Getenv("GOOGLE_PLACES_API_KEY")

	cfg.Storage.Type = os.Getenv("STORAGE_TYPE")
	cfg.Storage.BasePath = os.Getenv("STORAGE_BASE_PATH")
	cfg.Storage.BaseURL = os.Getenv("STORAGE_BASE_URL")
	cfg.Storage.Bucket = os.Getenv("S3_BUCKET")
	cfg.Storage.Region = os.Getenv("S3_REGION")
	cfg.Storage.AccessKey = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.Storage.SecretKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	cfg.Storage.Endpoint = os.Getenv("S3_ENDPOINT")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "production"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if cfg.Upload.MaxBatch == 0 {
		cfg.Upload.MaxBatch = 20
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png"}
	}
	if cfg.Upload.RetentionH == 0 {
		cfg.Upload.RetentionH = 24
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
