package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		Env            string   `yaml:"env"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql, sqlite
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Auth struct {
		CookieName   string   `yaml:"cookie_name"`
		TokenSources []string `yaml:"token_sources"` // cookie, bearer
		AdminCode    string   `yaml:"admin_code"`
		SecureCookie bool     `yaml:"secure_cookie"`
	} `yaml:"auth"`

	Gateway struct {
		Port     int    `yaml:"port"`
		Upstream string `yaml:"upstream"` // адрес jobsvc, напр. http://localhost:8081
	} `yaml:"gateway"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3, cloudflare_r2
		BasePath  string `yaml:"base_path"`  // For local storage
		Bucket    string `yaml:"bucket"`     // For S3/R2
		Region    string `yaml:"region"`     // For S3
		AccessKey string `yaml:"access_key"` // For S3/R2
		SecretKey string `yaml:"secret_key"` // For S3/R2
		Endpoint  string `yaml:"endpoint"`   // For R2 or custom S3
		UseSSL    bool   `yaml:"use_ssl"`    // For custom S3 endpoints
	} `yaml:"storage"`

	Upload struct {
		MaxSize int64 `yaml:"max_size"` // байты
	} `yaml:"upload"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	RateLimit struct {
		LoginPerMinute int `yaml:"login_per_minute"`
		ApplyPerMinute int `yaml:"apply_per_minute"`
	} `yaml:"rate_limit"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig загружает конфиг в AppConfig; при ошибке завершает процесс
func LoadConfig() {
	// .env необязателен
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load читает YAML (если файл есть), затем переменные окружения, затем значения по умолчанию.
// Отсутствующий файл не ошибка: в контейнерах все приходит из окружения.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
			}
		case os.IsNotExist(err):
			log.Printf("Config file %s not found, using environment only", path)
		default:
			return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTL, "JWT_TTL")
	setString(&cfg.Auth.AdminCode, "ADMIN_CODE")
	setInt(&cfg.Gateway.Port, "GATEWAY_PORT")
	setString(&cfg.Gateway.Upstream, "GATEWAY_UPSTREAM")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.FirstAdminEmail, "FIRST_ADMIN_EMAIL")
	setString(&cfg.FirstAdminPassword, "FIRST_ADMIN_PASSWORD")

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = 24 * 60
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "jobPortalToken"
	}
	if len(cfg.Auth.TokenSources) == 0 {
		cfg.Auth.TokenSources = []string{"cookie", "bearer"}
	}
	if cfg.Auth.AdminCode == "" {
		cfg.Auth.AdminCode = "IAMADMIN"
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 8000
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./public/uploads"
	}
	if cfg.Upload.MaxSize <= 0 {
		cfg.Upload.MaxSize = 5 * 1024 * 1024
	}
	if cfg.RateLimit.LoginPerMinute <= 0 {
		cfg.RateLimit.LoginPerMinute = 10
	}
	if cfg.RateLimit.ApplyPerMinute <= 0 {
		cfg.RateLimit.ApplyPerMinute = 5
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret (JWT_SECRET) is required")
	}
	if len(c.JWT.Secret) < 32 && c.Server.Env == "production" {
		return fmt.Errorf("jwt.secret must be at least 32 bytes in production")
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	for _, src := range c.Auth.TokenSources {
		if src != "cookie" && src != "bearer" {
			return fmt.Errorf("unsupported token source: %s", src)
		}
	}
	return nil
}

// Address - адрес для http-сервера
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
