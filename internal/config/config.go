package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

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
		Driver          string `yaml:"driver"` // postgres, mysql
		DSN             string `yaml:"url"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
		AutoMigrate     bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	JWT struct {
		Secret             string `yaml:"secret"`
		Issuer             string `yaml:"issuer"`
		Audience           string `yaml:"audience"`
		AccessTokenMinutes int    `yaml:"access_token_minutes"`
		RefreshTokenDays   int    `yaml:"refresh_token_days"`
	} `yaml:"jwt"`

	Codes struct {
		VerificationHours int `yaml:"verification_hours"`
		ResetHours        int `yaml:"reset_hours"`
	} `yaml:"codes"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	Storage struct {
		Type     string `yaml:"type"`      // local
		BasePath string `yaml:"base_path"` // каталог для local
		BaseURL  string `yaml:"base_url"`  // публичный префикс URL
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`
		AllowedTypes []string `yaml:"allowed_types"`
	} `yaml:"upload"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"rps"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		FullName string `yaml:"full_name"`
	} `yaml:"admin"`
}

var AppConfig *Config

// Default возвращает конфиг с рабочими значениями по умолчанию
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Server.AllowedOrigins = []string{"*"}

	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = 30
	cfg.Database.AutoMigrate = true

	cfg.JWT.Issuer = "comicweb"
	cfg.JWT.Audience = "comicweb-clients"
	cfg.JWT.AccessTokenMinutes = 15
	cfg.JWT.RefreshTokenDays = 7

	cfg.Codes.VerificationHours = 24
	cfg.Codes.ResetHours = 2

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Comicweb"
	cfg.Email.UseTLS = true

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	cfg.RateLimit.RequestsPerSecond = 5
	cfg.RateLimit.Burst = 10

	return &cfg
}

// Load читает .env (если есть), YAML по CONFIG_PATH (если есть) и
// применяет переопределения из окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if f, err := os.Open(configPath); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (set JWT_SECRET)")
	}
	if c.Database.DSN == "" {
		return errors.New("database.url is required (set DATABASE_URL)")
	}
	if c.JWT.AccessTokenMinutes <= 0 || c.JWT.RefreshTokenDays <= 0 {
		return errors.New("jwt token lifetimes must be positive")
	}
	return nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTokenDays) * 24 * time.Hour
}

func (c *Config) VerificationCodeTTL() time.Duration {
	return time.Duration(c.Codes.VerificationHours) * time.Hour
}

func (c *Config) ResetCodeTTL() time.Duration {
	return time.Duration(c.Codes.ResetHours) * time.Hour
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LoadConfig загружает конфиг в глобальную AppConfig
func LoadConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}
