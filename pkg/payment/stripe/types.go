package stripe

// Intent is a gateway-side payment intent. Metadata is the opaque
// string map this system uses to carry the order snapshot across the
// asynchronous confirmation boundary.
type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata"`
}

// Event kinds this system reacts to. Anything else is informational.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Event is a verified webhook delivery.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object Intent `json:"object"`
	} `json:"data"`
}

// ErrorResponse is the error envelope returned by the Stripe API
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Metadata keys used on payment intents.
const (
	MetadataEmail   = "email"
	MetadataOrderID = "order_id"
	MetadataItems   = "items"
	MetadataAddress = "address"
)
