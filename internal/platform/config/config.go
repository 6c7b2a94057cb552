package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr              string        `mapstructure:"APP_ADDR"`
	Environment       string        `mapstructure:"APP_ENV"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
	MigrationsDir     string        `mapstructure:"MIGRATIONS_DIR"`
	RunMigrations     bool          `mapstructure:"RUN_MIGRATIONS"`
	MaxBodyBytes      int64         `mapstructure:"MAX_BODY_BYTES"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	EmailEnabled      bool          `mapstructure:"EMAIL_ENABLED"`
	EmailFrom         string        `mapstructure:"EMAIL_FROM"`
	SMTPHost          string        `mapstructure:"SMTP_HOST"`
	SMTPPort          int           `mapstructure:"SMTP_PORT"`
	SMTPUser          string        `mapstructure:"SMTP_USER"`
	SMTPPassword      string        `mapstructure:"SMTP_PASSWORD"`
	SMTPUseTLS        bool          `mapstructure:"SMTP_USE_TLS"`
	SeedAdminEmail    string        `mapstructure:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string        `mapstructure:"SEED_ADMIN_PASSWORD"`
}

// Load reads configuration from the environment with sensible defaults.
func Load() (Config, error) {
	viper.SetDefault("APP_ADDR", ":8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL", "12h")
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MAX_BODY_BYTES", 1048576)
	viper.SetDefault("CORS_ORIGINS", []string{"*"})
	viper.SetDefault("EMAIL_ENABLED", false)
	viper.SetDefault("EMAIL_FROM", "no-reply@example.com")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_USE_TLS", true)
	viper.SetDefault("SEED_ADMIN_EMAIL", "")
	viper.SetDefault("SEED_ADMIN_PASSWORD", "")

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
