package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/trimstudio/booking/internal/catalog"
)

// Email provider names accepted by EMAIL_PROVIDER.
const (
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSES      = "ses"
	EmailProviderSMTP     = "smtp"
	EmailProviderStub     = "stub"
)

// SendGridKeyPrefix is the prefix every SendGrid API key carries.
const SendGridKeyPrefix = "SG."

// Config holds application configuration. It is built once at process start
// and passed by pointer; nothing mutates it after Validate.
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	SiteURL        string
	DatabaseURL    string
	UseMemoryStore bool
	Location       *time.Location
	TimezoneName   string

	// Email Configuration
	EmailProvider       string
	SendGridAPIKey      string
	EmailFromAddress    string
	EmailFromName       string
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	RequireEmail        bool
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	RedisAddr          string
	RedisPassword      string

	Slots catalog.SlotWindow

	// Warnings collects soft configuration problems found by Validate.
	Warnings []string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real environment values win.
func Load() *Config {
	_ = godotenv.Load()

	tzName := strings.TrimSpace(getEnv("BOOKING_TIMEZONE", ""))
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SiteURL:        getEnv("SITE_URL", "http://localhost:3000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		UseMemoryStore: getEnvAsBool("USE_MEMORY_STORE", false),
		TimezoneName:   tzName,

		EmailProvider:       strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", EmailProviderSendGrid))),
		SendGridAPIKey:      strings.TrimSpace(getEnv("SENDGRID_API_KEY", "")),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "The Trim Studio"),
		SMTPHost:            getEnv("SMTP_HOST", "localhost"),
		SMTPPort:            getEnvAsInt("SMTP_PORT", 1025),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		RequireEmail:        getEnvAsBool("BOOKING_REQUIRE_EMAIL", false),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),

		Slots: catalog.SlotWindow{
			StartHour:       getEnvAsInt("SLOT_START_HOUR", catalog.DefaultSlotWindow.StartHour),
			EndHour:         getEnvAsInt("SLOT_END_HOUR", catalog.DefaultSlotWindow.EndHour),
			IntervalMinutes: getEnvAsInt("SLOT_INTERVAL_MINUTES", catalog.DefaultSlotWindow.IntervalMinutes),
		},
	}
}

// LoadValidated loads and validates in one step; the API and Lambda
// entrypoints refuse to start on error.
func LoadValidated() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate resolves derived fields and reports hard configuration errors.
// Email problems are soft: they are recorded in Warnings and surface through
// EmailConfigured, because a booking can succeed without a confirmation email.
func (c *Config) Validate() error {
	var errs []error

	if !c.UseMemoryStore && strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("config: DATABASE_URL is required unless USE_MEMORY_STORE=true"))
	}

	if c.TimezoneName == "" {
		c.Location = time.Local
	} else {
		loc, err := time.LoadLocation(c.TimezoneName)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: invalid BOOKING_TIMEZONE %q: %w", c.TimezoneName, err))
		} else {
			c.Location = loc
		}
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("config: invalid PORT %q", c.Port))
	}

	if err := c.Slots.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.EmailProvider {
	case EmailProviderSendGrid, EmailProviderSES, EmailProviderSMTP, EmailProviderStub:
	default:
		errs = append(errs, fmt.Errorf("config: unknown EMAIL_PROVIDER %q", c.EmailProvider))
	}

	c.Warnings = nil
	if problem := c.EmailProblem(); problem != "" {
		c.Warnings = append(c.Warnings, problem)
	}

	return errors.Join(errs...)
}

// EmailProblem describes why confirmation email cannot be sent, or returns
// "" when the selected provider is fully configured.
func (c *Config) EmailProblem() string {
	switch c.EmailProvider {
	case EmailProviderStub:
		return ""
	case EmailProviderSendGrid:
		if c.SendGridAPIKey == "" {
			return "SENDGRID_API_KEY is not set"
		}
		if !strings.HasPrefix(c.SendGridAPIKey, SendGridKeyPrefix) {
			return "SENDGRID_API_KEY does not look like a SendGrid key"
		}
	case EmailProviderSMTP:
		if strings.TrimSpace(c.SMTPHost) == "" || c.SMTPPort <= 0 {
			return "SMTP_HOST/SMTP_PORT are not set"
		}
	case EmailProviderSES:
		if strings.TrimSpace(c.AWSRegion) == "" {
			return "AWS_REGION is not set"
		}
	default:
		return fmt.Sprintf("unknown email provider %q", c.EmailProvider)
	}
	if strings.TrimSpace(c.EmailFromAddress) == "" {
		return "EMAIL_FROM_ADDRESS is not set"
	}
	return ""
}

// EmailConfigured reports whether confirmation emails can be attempted.
func (c *Config) EmailConfigured() bool {
	return c.EmailProblem() == ""
}

// IsProduction reports whether error details must be hidden from callers.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
