package service

import (
	"errors"

	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/internal/app/repository"
	"github.com/laced-shop/laced-backend/pkg/logger"
	"github.com/laced-shop/laced-backend/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrVariantNotFound  = errors.New("product variant not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrNoCartIdentity   = errors.New("no cart identity")
)

// CartOwner identifies whose cart an operation targets: an authenticated
// user or an anonymous browser session. UserID wins when both are set.
type CartOwner struct {
	UserID       *uint
	SessionToken string
}

func OwnerForUser(userID uint) CartOwner {
	return CartOwner{UserID: &userID}
}

func OwnerForSession(token string) CartOwner {
	return CartOwner{SessionToken: token}
}

type CartService interface {
	GetCart(owner CartOwner) ([]model.CartItem, error)
	AddToCart(owner CartOwner, variantID uint, quantity int) error
	UpdateQuantity(owner CartOwner, variantID uint, quantity int) error
	RemoveFromCart(owner CartOwner, variantID uint) error
	TotalItems(owner CartOwner) (int, error)
	TotalPrice(owner CartOwner) (decimal.Decimal, error)
	MergeSessionCart(sessionToken string, userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) resolveCart(owner CartOwner) (*model.Cart, error) {
	if owner.UserID != nil {
		return s.cartRepo.FindOrCreateByUser(*owner.UserID)
	}
	if owner.SessionToken != "" {
		return s.cartRepo.FindOrCreateBySession(owner.SessionToken)
	}
	return nil, ErrNoCartIdentity
}

func (s *cartService) GetCart(owner CartOwner) ([]model.CartItem, error) {
	cart, err := s.resolveCart(owner)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.FindItems(cart.ID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return nil, err
	}
	return items, nil
}

func (s *cartService) AddToCart(owner CartOwner, variantID uint, quantity int) error {
	if quantity < 1 {
		logger.Warn("Cannot add to cart: invalid quantity", map[string]interface{}{
			"variant_id": variantID,
			"quantity":   quantity,
		})
		return ErrInvalidQuantity
	}

	if _, err := s.productRepo.FindVariantByID(variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: variant not found", map[string]interface{}{
				"variant_id": variantID,
			})
			return ErrVariantNotFound
		}
		logger.Error("Failed to fetch variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return err
	}

	cart, err := s.resolveCart(owner)
	if err != nil {
		return err
	}

	if err := s.cartRepo.UpsertItem(cart.ID, variantID, quantity); err != nil {
		return err
	}

	logger.Info("Cart item added", map[string]interface{}{
		"cart_id":    cart.ID,
		"variant_id": variantID,
		"quantity":   quantity,
	})
	return nil
}

func (s *cartService) UpdateQuantity(owner CartOwner, variantID uint, quantity int) error {
	if quantity < 1 {
		logger.Warn("Cannot update cart item: invalid quantity", map[string]interface{}{
			"variant_id": variantID,
			"quantity":   quantity,
		})
		return ErrInvalidQuantity
	}

	cart, err := s.resolveCart(owner)
	if err != nil {
		return err
	}

	item, err := s.cartRepo.FindItem(cart.ID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for update", map[string]interface{}{
				"cart_id":    cart.ID,
				"variant_id": variantID,
			})
			return ErrCartItemNotFound
		}
		return err
	}

	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return err
	}

	logger.Info("Cart item quantity updated", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     quantity,
	})
	return nil
}

func (s *cartService) RemoveFromCart(owner CartOwner, variantID uint) error {
	cart, err := s.resolveCart(owner)
	if err != nil {
		return err
	}

	affected, err := s.cartRepo.DeleteItem(cart.ID, variantID)
	if err != nil {
		return err
	}
	if affected == 0 {
		logger.Warn("Cart item not found for removal", map[string]interface{}{
			"cart_id":    cart.ID,
			"variant_id": variantID,
		})
		return ErrCartItemNotFound
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_id":    cart.ID,
		"variant_id": variantID,
	})
	return nil
}

func (s *cartService) TotalItems(owner CartOwner) (int, error) {
	items, err := s.GetCart(owner)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total, nil
}

func (s *cartService) TotalPrice(owner CartOwner) (decimal.Decimal, error) {
	items, err := s.GetCart(owner)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(money.LineTotal(item.Variant.Product.Price, item.Quantity))
	}
	return money.Round(total), nil
}

// MergeSessionCart folds an anonymous session cart into the user's cart
// at login. Quantities for variants present in both carts accumulate.
// When the session cart does not exist or is already empty this is a
// no-op, which makes a repeated merge for the same session harmless.
func (s *cartService) MergeSessionCart(sessionToken string, userID uint) error {
	if sessionToken == "" {
		return nil
	}

	sessionCart, err := s.cartRepo.FindBySession(sessionToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		logger.Error("Failed to fetch session cart for merge", err, nil)
		return err
	}

	userCart, err := s.cartRepo.FindOrCreateByUser(userID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.MoveItems(sessionCart.ID, userCart.ID); err != nil {
		logger.Error("Failed to merge session cart", err, map[string]interface{}{
			"session_cart_id": sessionCart.ID,
			"user_cart_id":    userCart.ID,
		})
		return err
	}

	if err := s.cartRepo.DeleteCart(sessionCart.ID); err != nil {
		logger.Error("Failed to remove merged session cart", err, map[string]interface{}{
			"session_cart_id": sessionCart.ID,
		})
		return err
	}

	logger.Info("Session cart merged into user cart", map[string]interface{}{
		"user_id":      userID,
		"user_cart_id": userCart.ID,
	})
	return nil
}
