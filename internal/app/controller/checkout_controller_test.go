package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/internal/app/repository"
	"github.com/laced-shop/laced-backend/internal/app/service"
	"github.com/laced-shop/laced-backend/internal/db"
	"github.com/laced-shop/laced-backend/internal/middleware"
	"github.com/laced-shop/laced-backend/pkg/payment/stripe"
	"github.com/laced-shop/laced-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecretKey     = "sk_test_123"
	testWebhookSecret = "whsec_test_456"
	testTokenSecret   = "controller-test-secret"
)

// gatewayStub is an httptest-backed Stripe API double. It stores created
// intents so the test can replay them as webhook events.
type gatewayStub struct {
	server  *httptest.Server
	intents map[string]*stripe.Intent
	nextID  int
}

func newGatewayStub() *gatewayStub {
	stub := &gatewayStub{intents: make(map[string]*stripe.Intent)}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.handle))
	return stub
}

func (s *gatewayStub) handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/payment_intents":
		s.nextID++
		intent := &stripe.Intent{
			ID:           fmt.Sprintf("pi_stub_%d", s.nextID),
			ClientSecret: fmt.Sprintf("pi_stub_%d_secret", s.nextID),
			Currency:     r.PostForm.Get("currency"),
			Status:       "requires_payment_method",
			Metadata:     formMetadata(r.PostForm),
		}
		fmt.Sscanf(r.PostForm.Get("amount"), "%d", &intent.Amount)
		s.intents[intent.ID] = intent
		json.NewEncoder(w).Encode(intent)

	case strings.HasPrefix(r.URL.Path, "/payment_intents/"):
		id := strings.TrimPrefix(r.URL.Path, "/payment_intents/")
		intent, ok := s.intents[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"type": "invalid_request_error", "code": "resource_missing"},
			})
			return
		}
		if r.Method == http.MethodPost {
			for k, v := range formMetadata(r.PostForm) {
				intent.Metadata[k] = v
			}
		}
		json.NewEncoder(w).Encode(intent)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func formMetadata(form map[string][]string) map[string]string {
	metadata := map[string]string{}
	for key, values := range form {
		if strings.HasPrefix(key, "metadata[") && strings.HasSuffix(key, "]") && len(values) > 0 {
			metadata[key[len("metadata["):len(key)-1]] = values[0]
		}
	}
	return metadata
}

type webFixture struct {
	engine  *gin.Engine
	stub    *gatewayStub
	db      *gorm.DB
	user    *model.User
	token   string
	variant *model.ProductVariant
}

func setupWebFixture(t *testing.T) *webFixture {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	stub := newGatewayStub()
	t.Cleanup(stub.server.Close)

	client, err := stripe.NewClient(stripe.Config{
		SecretKey:     testSecretKey,
		WebhookSecret: testWebhookSecret,
		BaseURL:       stub.server.URL,
	})
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)

	cartService := service.NewCartService(cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(testDB, client, "eur", cartRepo, orderRepo, userRepo, addressRepo)

	checkoutController := NewCheckoutController(checkoutService)
	authMiddleware := middleware.NewAuthMiddleware(testTokenSecret)

	engine := gin.New()
	v1 := engine.Group("/api/v1/checkout")
	v1.POST("/intent", authMiddleware.Authenticate(), checkoutController.CreatePaymentIntent)
	v1.POST("/address", authMiddleware.Authenticate(), checkoutController.AttachAddress)
	v1.POST("/webhook", checkoutController.Webhook)

	user := &model.User{Email: "web@example.com", PasswordHash: "h", Name: "Web Buyer"}
	testDB.Create(user)

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, "user", testTokenSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)

	product := &model.Product{Name: "Air Runner", Price: decimal.RequireFromString("12.50")}
	testDB.Create(product)
	variant := &model.ProductVariant{ProductID: product.ID, Size: "42", StockQuantity: 5}
	testDB.Create(variant)

	require.NoError(t, cartService.AddToCart(service.OwnerForUser(user.ID), variant.ID, 2))

	return &webFixture{
		engine:  engine,
		stub:    stub,
		db:      testDB,
		user:    user,
		token:   tokens.AccessToken,
		variant: variant,
	}
}

func (f *webFixture) post(t *testing.T, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestCheckoutFlow_IntentToOrder(t *testing.T) {
	f := setupWebFixture(t)

	// Open the intent.
	w := f.post(t, "/api/v1/checkout/intent", nil, map[string]string{
		"Authorization": "Bearer " + f.token,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var intent service.CheckoutIntent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &intent))
	assert.Equal(t, int64(2500), intent.Amount)
	require.NotEmpty(t, intent.OrderID)

	// Replay the gateway's success event, signed like Stripe signs it.
	stored := f.stub.intents[intent.IntentID]
	require.NotNil(t, stored)

	event := stripe.Event{ID: "evt_web_1", Type: stripe.EventPaymentSucceeded}
	event.Data.Object = *stored
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	w = f.post(t, "/api/v1/checkout/webhook", payload, map[string]string{
		"Stripe-Signature": stripe.SignPayload(payload, testWebhookSecret, time.Now()),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The order exists and the cart is gone.
	var order model.Order
	require.NoError(t, f.db.Where("order_id = ?", intent.OrderID).First(&order).Error)
	assert.Equal(t, f.user.ID, order.UserID)

	var cartCount int64
	f.db.Model(&model.Cart{}).Where("user_id = ?", f.user.ID).Count(&cartCount)
	assert.Equal(t, int64(0), cartCount)
}

func TestCheckoutFlow_WebhookRejectsBadSignature(t *testing.T) {
	f := setupWebFixture(t)

	w := f.post(t, "/api/v1/checkout/intent", nil, map[string]string{
		"Authorization": "Bearer " + f.token,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var intent service.CheckoutIntent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &intent))

	event := stripe.Event{ID: "evt_web_2", Type: stripe.EventPaymentSucceeded}
	event.Data.Object = *f.stub.intents[intent.IntentID]
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	w = f.post(t, "/api/v1/checkout/webhook", payload, map[string]string{
		"Stripe-Signature": stripe.SignPayload(payload, "whsec_wrong", time.Now()),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	f.db.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCheckoutFlow_IntentRequiresAuth(t *testing.T) {
	f := setupWebFixture(t)

	w := f.post(t, "/api/v1/checkout/intent", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
