package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderLog    = "log"
)

const (
	DefaultPort            = 5000
	DefaultDispatchTimeout = 10 * time.Second
	DefaultAdminSender     = "Schedule Call <onboarding@resend.dev>"
	DefaultUserSender      = "Mani Chokkara <onboarding@resend.dev>"
	DefaultOwnerName       = "Mani"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigin      string        `yaml:"cors_origin"`
}

type EmailConfig struct {
	Provider        string        `yaml:"provider"`
	AdminAddress    string        `yaml:"admin_address"`
	AdminSender     string        `yaml:"admin_sender"`
	UserSender      string        `yaml:"user_sender"`
	OwnerName       string        `yaml:"owner_name"`
	DispatchTimeout time.Duration `yaml:"dispatch_timeout"`
	Resend          ResendConfig  `yaml:"resend"`
	SMTP            SMTPConfig    `yaml:"smtp"`
}

type ResendConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// Load reads the YAML file at configPath (optional) and layers environment
// variables on top. A missing .env file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var config Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		// Предварительная замена переменных окружения в YAML
		expandedData := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expandedData, &config); err != nil {
			return nil, err
		}
	}

	return finish(&config)
}

// FromEnv builds a config purely from the process environment. Used by the
// serverless entry point, which ships without a config file.
func FromEnv() (*Config, error) {
	return finish(&Config{})
}

func finish(c *Config) (*Config, error) {
	c.applyEnv()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Email.AdminAddress) == "" {
		return errors.New("admin email address is required")
	}

	switch c.Email.Provider {
	case ProviderResend:
		if c.Email.Resend.APIKey == "" {
			return errors.New("resend api key is required")
		}
	case ProviderSMTP:
		if c.Email.SMTP.Host == "" {
			return errors.New("smtp host is required")
		}
	case ProviderLog:
	default:
		return fmt.Errorf("unknown email provider %q", c.Email.Provider)
	}

	return nil
}

// applyEnv honours the variable names used by the original deployment.
func (c *Config) applyEnv() {
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		c.Email.Resend.APIKey = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		c.Email.AdminAddress = v
	}
	if v := os.Getenv("EMAIL_PROVIDER"); v != "" {
		c.Email.Provider = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HTTP.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "schedulecall"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultPort
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 5 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.HTTP.CORSOrigin == "" {
		c.HTTP.CORSOrigin = "*"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	c.Email.Provider = strings.ToLower(strings.TrimSpace(c.Email.Provider))
	if c.Email.Provider == "" {
		c.Email.Provider = ProviderResend
	}
	if c.Email.AdminSender == "" {
		c.Email.AdminSender = DefaultAdminSender
	}
	if c.Email.UserSender == "" {
		c.Email.UserSender = DefaultUserSender
	}
	if c.Email.OwnerName == "" {
		c.Email.OwnerName = DefaultOwnerName
	}
	if c.Email.DispatchTimeout <= 0 {
		c.Email.DispatchTimeout = DefaultDispatchTimeout
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
}
