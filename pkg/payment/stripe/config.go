package stripe

import (
	"errors"
	"time"
)

const (
	defaultBaseURL = "https://api.stripe.com/v1"

	// DefaultTolerance bounds how old a webhook signature timestamp may
	// be before the event is rejected as a replay.
	DefaultTolerance = 5 * time.Minute
)

// Config holds the credentials and endpoints for the Stripe API
type Config struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("secret key is required")
	}
	if c.WebhookSecret == "" {
		return errors.New("webhook secret is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	return nil
}
