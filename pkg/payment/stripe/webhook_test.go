package stripe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test_secret"

func testClient(t *testing.T) *Client {
	client, err := NewClient(Config{
		SecretKey:     "sk_test_123",
		WebhookSecret: webhookSecret,
	})
	require.NoError(t, err)
	return client
}

func TestVerifyEvent_Valid(t *testing.T) {
	client := testClient(t)
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","metadata":{"order_id":"abc"}}}}`)

	header := SignPayload(payload, webhookSecret, time.Now())
	event, err := client.VerifyEvent(payload, header)
	require.NoError(t, err)

	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "pi_1", event.Data.Object.ID)
	assert.Equal(t, "abc", event.Data.Object.Metadata[MetadataOrderID])
}

func TestVerifyEvent_WrongSecret(t *testing.T) {
	client := testClient(t)
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	header := SignPayload(payload, "whsec_other", time.Now())
	_, err := client.VerifyEvent(payload, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyEvent_TamperedPayload(t *testing.T) {
	client := testClient(t)
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	header := SignPayload(payload, webhookSecret, time.Now())

	tampered := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"amount":1}}}`)
	_, err := client.VerifyEvent(tampered, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyEvent_MissingHeader(t *testing.T) {
	client := testClient(t)
	_, err := client.VerifyEvent([]byte(`{}`), "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyEvent_MalformedHeader(t *testing.T) {
	client := testClient(t)
	_, err := client.VerifyEvent([]byte(`{}`), "not-a-header")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyEvent_StaleTimestamp(t *testing.T) {
	client := testClient(t)
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	header := SignPayload(payload, webhookSecret, time.Now().Add(-time.Hour))
	_, err := client.VerifyEvent(payload, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyEvent_MultipleSignatures(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()

	// A bogus v1 entry alongside the valid one must not block acceptance.
	valid := SignPayload(payload, webhookSecret, now)
	header := valid + ",v1=deadbeef"

	event, err := verifyEvent(payload, header, webhookSecret, DefaultTolerance, now)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
}
