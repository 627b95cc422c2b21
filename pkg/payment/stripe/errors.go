package stripe

import "errors"

var (
	// ErrInvalidSignature means a webhook payload failed signature
	// verification and must be rejected without side effects.
	ErrInvalidSignature = errors.New("webhook signature verification failed")

	// ErrIntentNotFound means the payment intent handle is unknown to
	// the gateway.
	ErrIntentNotFound = errors.New("payment intent not found")

	// ErrUnauthorized means the API key was rejected.
	ErrUnauthorized = errors.New("unauthorized stripe request")

	// ErrInvalidRequest means the gateway rejected the request payload.
	ErrInvalidRequest = errors.New("invalid stripe request")

	// ErrNetworkError wraps transport-level failures.
	ErrNetworkError = errors.New("stripe network error")

	// ErrRequestFailed covers remaining non-2xx responses.
	ErrRequestFailed = errors.New("stripe request failed")
)
