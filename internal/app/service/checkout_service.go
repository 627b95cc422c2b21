package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/internal/app/repository"
	"github.com/laced-shop/laced-backend/pkg/logger"
	"github.com/laced-shop/laced-backend/pkg/money"
	"github.com/laced-shop/laced-backend/pkg/payment/stripe"
	"github.com/laced-shop/laced-backend/pkg/redis"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty             = errors.New("cart is empty")
	ErrGateway               = errors.New("payment gateway error")
	ErrPaymentIntentNotFound = errors.New("payment intent not found")
	ErrWebhookAuth           = errors.New("webhook signature verification failed")
)

// processedEventTTL bounds how long a webhook delivery is remembered in
// the dedup cache. The unique order index catches anything older.
const processedEventTTL = 24 * time.Hour

// Gateway is the payment provider surface checkout depends on.
// *stripe.Client satisfies it; tests substitute a fake.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*stripe.Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*stripe.Intent, error)
	ModifyIntent(ctx context.Context, intentID string, metadata map[string]string) (*stripe.Intent, error)
	VerifyEvent(payload []byte, sigHeader string) (*stripe.Event, error)
}

// CheckoutIntent is what the storefront needs to drive the gateway's
// client-side confirmation flow.
type CheckoutIntent struct {
	OrderID      string `json:"order_id"`
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// addressMetadata is the point-in-time address copy carried in intent
// metadata. The webhook materializes the order address from this copy,
// never from the live address book.
type addressMetadata struct {
	AddressID    uint   `json:"address_id"`
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	County       string `json:"county"`
	Eircode      string `json:"eircode"`
}

type CheckoutService interface {
	CreatePaymentIntent(ctx context.Context, userID uint) (*CheckoutIntent, error)
	AttachAddress(ctx context.Context, userID uint, intentID string, addressID uint) error
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type checkoutService struct {
	db          *gorm.DB
	gateway     Gateway
	currency    string
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
}

func NewCheckoutService(
	db *gorm.DB,
	gateway Gateway,
	currency string,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
) CheckoutService {
	return &checkoutService{
		db:          db,
		gateway:     gateway,
		currency:    currency,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		addressRepo: addressRepo,
	}
}

// CreatePaymentIntent snapshots the user's cart and opens a payment
// intent carrying the snapshot in its metadata. Prices are frozen here;
// catalog changes between now and payment confirmation do not move the
// charged amount. The cart itself is not touched, so a gateway failure
// leaves checkout fully retryable.
func (s *checkoutService) CreatePaymentIntent(ctx context.Context, userID uint) (*CheckoutIntent, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	cart, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, err
	}

	items, err := s.cartRepo.FindItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrCartEmpty
	}

	snapshot := model.SnapshotFromItems(items)
	encoded, err := snapshot.Encode()
	if err != nil {
		logger.Error("Failed to encode cart snapshot", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return nil, err
	}

	total := decimal.Zero
	for _, item := range snapshot.Items {
		total = total.Add(money.LineTotal(item.UnitPrice, item.Quantity))
	}
	amount := money.ToMinorUnits(total)

	orderID := model.NewOrderID()
	metadata := map[string]string{
		stripe.MetadataEmail:   user.Email,
		stripe.MetadataOrderID: orderID,
		stripe.MetadataItems:   encoded,
		stripe.MetadataAddress: "",
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, s.currency, metadata)
	if err != nil {
		logger.Error("Failed to create payment intent", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, errors.Join(ErrGateway, err)
	}

	logger.Info("Payment intent created", map[string]interface{}{
		"user_id":   userID,
		"order_id":  orderID,
		"intent_id": intent.ID,
		"amount":    amount,
	})

	return &CheckoutIntent{
		OrderID:      orderID,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Currency:     s.currency,
	}, nil
}

// AttachAddress copies an address-book entry onto a pending intent.
// Calling it again with a different address overwrites the copy; the
// last attach before payment confirmation wins.
func (s *checkoutService) AttachAddress(ctx context.Context, userID uint, intentID string, addressID uint) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	addr, err := s.addressRepo.FindByIDAndUser(addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address attach rejected: address not found", map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return ErrAddressNotFound
		}
		return err
	}

	intent, err := s.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, stripe.ErrIntentNotFound) {
			return ErrPaymentIntentNotFound
		}
		return errors.Join(ErrGateway, err)
	}

	// An intent created for someone else is indistinguishable from a
	// missing one as far as this caller is concerned.
	if intent.Metadata[stripe.MetadataEmail] != user.Email {
		logger.Warn("Address attach rejected: intent ownership mismatch", map[string]interface{}{
			"user_id":   userID,
			"intent_id": intentID,
		})
		return ErrPaymentIntentNotFound
	}

	payload, err := json.Marshal(addressMetadata{
		AddressID:    addr.ID,
		Name:         addr.Name,
		AddressLine1: addr.AddressLine1,
		AddressLine2: addr.AddressLine2,
		City:         addr.City,
		County:       addr.County,
		Eircode:      addr.Eircode,
	})
	if err != nil {
		return err
	}

	if _, err := s.gateway.ModifyIntent(ctx, intentID, map[string]string{
		stripe.MetadataAddress: string(payload),
	}); err != nil {
		if errors.Is(err, stripe.ErrIntentNotFound) {
			return ErrPaymentIntentNotFound
		}
		return errors.Join(ErrGateway, err)
	}

	logger.Info("Address attached to payment intent", map[string]interface{}{
		"user_id":    userID,
		"intent_id":  intentID,
		"address_id": addressID,
	})
	return nil
}

// HandleWebhook verifies a gateway delivery and, for a successful
// payment, materializes the order from the intent's metadata snapshot.
// Deliveries are deduplicated three deep: a cache of processed event
// ids, an existence check on the order id, and the unique index on
// orders.order_id as the race-proof backstop. A nil return means the
// delivery may be acknowledged; an error means the gateway should
// retry.
func (s *checkoutService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.gateway.VerifyEvent(payload, sigHeader)
	if err != nil {
		logger.Warn("Webhook rejected: signature verification failed", map[string]interface{}{
			"error": err.Error(),
		})
		return errors.Join(ErrWebhookAuth, err)
	}

	if event.Type != stripe.EventPaymentSucceeded {
		logger.Debug("Ignoring webhook event", map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		})
		return nil
	}

	if processed, err := redis.IsEventProcessed(ctx, event.ID); err == nil && processed {
		logger.Info("Skipping already processed webhook event", map[string]interface{}{
			"event_id": event.ID,
		})
		return nil
	}

	intent := event.Data.Object
	orderID := intent.Metadata[stripe.MetadataOrderID]
	if orderID == "" {
		// Not an intent this system created. Acknowledge so the
		// gateway stops redelivering it.
		logger.Warn("Webhook intent carries no order id", map[string]interface{}{
			"event_id":  event.ID,
			"intent_id": intent.ID,
		})
		return nil
	}

	exists, err := s.orderRepo.ExistsByOrderID(orderID)
	if err != nil {
		return err
	}
	if exists {
		logger.Info("Order already materialized, acknowledging duplicate", map[string]interface{}{
			"event_id": event.ID,
			"order_id": orderID,
		})
		_ = redis.MarkEventProcessed(ctx, event.ID, processedEventTTL)
		return nil
	}

	if err := s.materializeOrder(orderID, &intent); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent delivery. Same outcome.
			logger.Info("Concurrent delivery materialized the order first", map[string]interface{}{
				"event_id": event.ID,
				"order_id": orderID,
			})
			_ = redis.MarkEventProcessed(ctx, event.ID, processedEventTTL)
			return nil
		}
		return err
	}

	_ = redis.MarkEventProcessed(ctx, event.ID, processedEventTTL)
	logger.Info("Order materialized from webhook", map[string]interface{}{
		"event_id": event.ID,
		"order_id": orderID,
	})
	return nil
}

// materializeOrder turns an intent's metadata snapshot into persistent
// order rows and retires the cart, all in one transaction. Line prices
// come from the snapshot, not the catalog.
func (s *checkoutService) materializeOrder(orderID string, intent *stripe.Intent) error {
	email := intent.Metadata[stripe.MetadataEmail]
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Webhook intent references unknown user", err, map[string]interface{}{
				"order_id": orderID,
			})
			return ErrUserNotFound
		}
		return err
	}

	snapshot, err := model.DecodeSnapshot(intent.Metadata[stripe.MetadataItems])
	if err != nil {
		logger.Error("Failed to decode cart snapshot from intent metadata", err, map[string]interface{}{
			"order_id": orderID,
		})
		return err
	}

	orderAddr := &model.OrderAddress{UserID: user.ID, Name: user.Name}
	if raw := intent.Metadata[stripe.MetadataAddress]; raw != "" {
		var meta addressMetadata
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			logger.Error("Failed to decode address from intent metadata", err, map[string]interface{}{
				"order_id": orderID,
			})
			return err
		}
		orderAddr = &model.OrderAddress{
			UserID:       user.ID,
			Name:         meta.Name,
			AddressLine1: meta.AddressLine1,
			AddressLine2: meta.AddressLine2,
			City:         meta.City,
			County:       meta.County,
			Eircode:      meta.Eircode,
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(orderAddr).Error; err != nil {
			return err
		}

		order := &model.Order{
			OrderID:   orderID,
			UserID:    user.ID,
			AddressID: orderAddr.ID,
			Email:     email,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, item := range snapshot.Items {
			orderItem := &model.OrderItem{
				OrderID:          order.ID,
				ProductVariantID: item.VariantID,
				Quantity:         item.Quantity,
				Price:            money.LineTotal(item.UnitPrice, item.Quantity),
			}
			if err := tx.Create(orderItem).Error; err != nil {
				return err
			}
		}

		err := tx.Model(orderAddr).Update("order_id", order.ID).Error
		if err != nil {
			return err
		}

		// Retire the cart the purchase came from.
		var cart model.Cart
		err = tx.Where("user_id = ?", user.ID).First(&cart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, cart.ID).Error
	})
}
