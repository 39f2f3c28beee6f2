// Package config holds service configuration parsed from ELFPLAN_*
// environment variables. LLM provider selection has its own env handling
// in the llm package.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the application configuration.
type Config struct {
	// DBPath overrides the default SQLite location.
	DBPath string `envconfig:"DB" default:""`

	// HTTPAddr is the listen address of the API server.
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Mail API settings. When BaseURL is empty, deliveries are logged
	// instead of sent.
	MailBaseURL string `envconfig:"MAIL_BASE_URL" default:""`
	MailAPIKey  string `envconfig:"MAIL_API_KEY" default:""`
	MailFrom    string `envconfig:"MAIL_FROM" default:"elf@elfplan.app"`

	// PayPal orders API. When ClientID is empty, payment lookups answer
	// "unpaid".
	PayPalBaseURL  string `envconfig:"PAYPAL_BASE_URL" default:"https://api-m.paypal.com"`
	PayPalClientID string `envconfig:"PAYPAL_CLIENT_ID" default:""`
	PayPalSecret   string `envconfig:"PAYPAL_SECRET" default:""`

	// OpenAI key for the image oracle. Empty disables image enrichment.
	ImageAPIKey string `envconfig:"IMAGE_API_KEY" default:""`
	ImageModel  string `envconfig:"IMAGE_MODEL" default:""`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("ELFPLAN", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
