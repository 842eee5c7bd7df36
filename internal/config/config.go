package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	Port       string   `env:"PORT" envDefault:"5000"`
	Host       string   `env:"HOST" envDefault:"0.0.0.0"`
	Env        string   `env:"APP_ENV" envDefault:"development"`
	LogLevel   string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigin []string `env:"CORS_ORIGIN" envSeparator:","`
	TrustProxy bool     `env:"TRUST_PROXY" envDefault:"false"`
	StaticDir  string   `env:"STATIC_DIR"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`

	// Google Sheets service account
	GoogleClientEmail   string `env:"GOOGLE_CLIENT_EMAIL"`
	GooglePrivateKey    string `env:"GOOGLE_PRIVATE_KEY"`
	GoogleSpreadsheetID string `env:"GOOGLE_SPREADSHEET_ID"`
	GoogleSheetRange    string `env:"GOOGLE_SHEET_RANGE" envDefault:"Sheet1!A:P"`

	// New-lead operator email
	LeadAlertEmail   string `env:"LEAD_ALERT_EMAIL"`
	EmailProvider    string `env:"EMAIL_PROVIDER" envDefault:"sendgrid"`
	EmailFromAddress string `env:"EMAIL_FROM_ADDRESS"`
	EmailFromName    string `env:"EMAIL_FROM_NAME" envDefault:"Enmirex Homes"`
	SendGridAPIKey   string `env:"SENDGRID_API_KEY"`

	AWSRegion           string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID      string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpointOverride string `env:"AWS_ENDPOINT_OVERRIDE"`

	OTelEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.EmailProvider = strings.ToLower(strings.TrimSpace(c.EmailProvider))
	origins := c.CORSOrigin[:0]
	for _, origin := range c.CORSOrigin {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.CORSOrigin = origins
	// Keys pasted into a single-line env var carry literal "\n" sequences.
	c.GooglePrivateKey = strings.ReplaceAll(c.GooglePrivateKey, `\n`, "\n")
}

// AlertsEnabled reports whether new-lead emails can be sent.
func (c *Config) AlertsEnabled() bool {
	if c.LeadAlertEmail == "" || c.EmailFromAddress == "" {
		return false
	}
	switch c.EmailProvider {
	case "sendgrid":
		return c.SendGridAPIKey != ""
	case "ses", "stub":
		return true
	default:
		return false
	}
}

// IsProduction reports whether the service runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// SheetsEnabled reports whether spreadsheet sync has everything it needs.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != "" && c.GoogleClientEmail != "" && c.GooglePrivateKey != ""
}

// Warnings lists integrations that will run degraded. None of them are fatal.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.GoogleSpreadsheetID == "" {
		warnings = append(warnings, "GOOGLE_SPREADSHEET_ID not set, spreadsheet sync disabled")
	} else {
		if c.GoogleClientEmail == "" {
			warnings = append(warnings, "GOOGLE_CLIENT_EMAIL not set, spreadsheet sync disabled")
		}
		if c.GooglePrivateKey == "" {
			warnings = append(warnings, "GOOGLE_PRIVATE_KEY not set, spreadsheet sync disabled")
		}
	}
	if c.LeadAlertEmail != "" {
		switch c.EmailProvider {
		case "sendgrid", "ses", "stub":
			if c.EmailFromAddress == "" {
				warnings = append(warnings, "LEAD_ALERT_EMAIL set but EMAIL_FROM_ADDRESS is empty, lead alerts disabled")
			}
			if c.EmailProvider == "sendgrid" && c.SendGridAPIKey == "" {
				warnings = append(warnings, "LEAD_ALERT_EMAIL set but SENDGRID_API_KEY is empty, lead alerts disabled")
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown EMAIL_PROVIDER %q, lead alerts disabled", c.EmailProvider))
		}
	}
	if c.IsProduction() && len(c.CORSOrigin) == 0 {
		warnings = append(warnings, "CORS_ORIGIN not set in production, cross-origin requests will not be allowed")
	}
	return warnings
}
