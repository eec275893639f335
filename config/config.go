package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Jobs       JobsConfig       `yaml:"jobs"`
	RefData    RefDataConfig    `yaml:"reference_data"`
	Admin      AdminConfig      `yaml:"admin"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AuthConfig holds the JWT signing configuration.
type AuthConfig struct {
	Secret        string `yaml:"secret"`
	Issuer        string `yaml:"issuer"`
	ExpiryMinutes int    `yaml:"expiry_minutes"`
}

// SMTPConfig holds the outbound mail configuration.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Sender   string `yaml:"sender"`
	Password string `yaml:"password"`
}

// JobsConfig holds the schedule and tuning knobs for background jobs.
type JobsConfig struct {
	DailyReminderSpec       string `yaml:"daily_reminder_spec"`
	MonthlyReportSpec       string `yaml:"monthly_report_spec"`
	TokenCleanupSpec        string `yaml:"token_cleanup_spec"`
	TokenRetentionDays      int    `yaml:"token_retention_days"`
	QueueSize               int    `yaml:"queue_size"`
	DashboardURL            string `yaml:"dashboard_url"`
	InactivityThresholdDays int    `yaml:"inactivity_threshold_days"`
}

// RefDataConfig points at the static vehicle lookup CSV files.
type RefDataConfig struct {
	CarsCSV   string `yaml:"cars_csv"`
	ColorsCSV string `yaml:"colors_csv"`
}

// AdminConfig describes the bootstrap administrator account.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// WorkerPoolConfig holds the configuration for the background job workers.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}

	if cfg.Auth.ExpiryMinutes <= 0 {
		cfg.Auth.ExpiryMinutes = 60
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "parking-reservation"
	}

	if cfg.Jobs.DailyReminderSpec == "" {
		cfg.Jobs.DailyReminderSpec = "0 8 * * *"
	}
	if cfg.Jobs.MonthlyReportSpec == "" {
		cfg.Jobs.MonthlyReportSpec = "0 9 1 * *"
	}
	if cfg.Jobs.TokenCleanupSpec == "" {
		cfg.Jobs.TokenCleanupSpec = "30 2 * * 0"
	}
	if cfg.Jobs.TokenRetentionDays <= 0 {
		cfg.Jobs.TokenRetentionDays = 7
	}
	if cfg.Jobs.QueueSize <= 0 {
		cfg.Jobs.QueueSize = 64
	}
	if cfg.Jobs.InactivityThresholdDays <= 0 {
		cfg.Jobs.InactivityThresholdDays = 3
	}

	if cfg.RefData.CarsCSV == "" {
		cfg.RefData.CarsCSV = "./Cars.csv"
	}
	if cfg.RefData.ColorsCSV == "" {
		cfg.RefData.ColorsCSV = "./colors.csv"
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
