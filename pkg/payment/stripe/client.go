package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a minimal Stripe PaymentIntents API client covering the
// operations checkout needs: create, retrieve and modify intents, and
// verify webhook events.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Stripe client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// CreateIntent creates a payment intent for the given amount in minor
// currency units, attaching the metadata map verbatim.
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	encodeMetadata(form, metadata)

	body, err := c.doRequest(ctx, http.MethodPost, "payment_intents", form)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}
	return &intent, nil
}

// RetrieveIntent fetches a payment intent by its handle
func (c *Client) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "payment_intents/"+url.PathEscape(intentID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}
	return &intent, nil
}

// ModifyIntent overwrites metadata keys on a pending intent. Keys not
// present in the map are left untouched by the gateway.
func (c *Client) ModifyIntent(ctx context.Context, intentID string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	encodeMetadata(form, metadata)

	body, err := c.doRequest(ctx, http.MethodPost, "payment_intents/"+url.PathEscape(intentID), form)
	if err != nil {
		return nil, fmt.Errorf("failed to modify payment intent: %w", err)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}
	return &intent, nil
}

func encodeMetadata(form url.Values, metadata map[string]string) {
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}
}

// doRequest performs a form-encoded request against the Stripe API
func (c *Client) doRequest(ctx context.Context, method, endpoint string, form url.Values) ([]byte, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	reqURL := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("%w: unexpected status code %d", ErrRequestFailed, resp.StatusCode)
		}

		errorMsg := fmt.Sprintf("status: %d, type: %s, code: %s, message: %s",
			resp.StatusCode, errResp.Error.Type, errResp.Error.Code, errResp.Error.Message)

		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrIntentNotFound, errorMsg)
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrRequestFailed, errorMsg)
		}
	}

	return body, nil
}
