package repository

import (
	"time"

	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	FindOrCreateByUser(userID uint) (*model.Cart, error)
	FindOrCreateBySession(sessionToken string) (*model.Cart, error)
	FindByUser(userID uint) (*model.Cart, error)
	FindBySession(sessionToken string) (*model.Cart, error)
	FindItems(cartID uint) ([]model.CartItem, error)
	FindItem(cartID, variantID uint) (*model.CartItem, error)
	FindItemByID(id uint) (*model.CartItem, error)
	UpsertItem(cartID, variantID uint, quantity int) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(cartID, variantID uint) (int64, error)
	DeleteCart(cartID uint) error
	MoveItems(fromCartID, toCartID uint) error
	DeleteStaleAnonymous(before time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindOrCreateByUser(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where(model.Cart{UserID: &userID}).FirstOrCreate(&cart).Error
	if err != nil {
		logger.Error("Failed to find or create user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindOrCreateBySession(sessionToken string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where(model.Cart{SessionToken: &sessionToken}).FirstOrCreate(&cart).Error
	if err != nil {
		logger.Error("Failed to find or create session cart", err, nil)
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindByUser(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindBySession(sessionToken string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("session_token = ?", sessionToken).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindItems(cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.Where("cart_id = ?", cartID).
		Preload("Variant").
		Preload("Variant.Product").
		Order("id").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find cart items in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) FindItem(cartID, variantID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_variant_id = ?", cartID, variantID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindItemByID(id uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Variant.Product").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertItem adds a variant to a cart, accumulating quantity when the
// row already exists. The insert-or-increment happens in one statement
// so racing adds of the same variant cannot lose updates.
func (r *cartRepository) UpsertItem(cartID, variantID uint, quantity int) error {
	item := &model.CartItem{
		CartID:           cartID,
		ProductVariantID: variantID,
		Quantity:         quantity,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_variant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
	if err != nil {
		logger.Error("Failed to upsert cart item in database", err, map[string]interface{}{
			"cart_id":    cartID,
			"variant_id": variantID,
			"quantity":   quantity,
		})
		return err
	}
	return nil
}

func (r *cartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	err := r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
	if err != nil {
		logger.Error("Failed to update cart item quantity in database", err, map[string]interface{}{
			"cart_item_id": itemID,
			"quantity":     quantity,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(cartID, variantID uint) (int64, error) {
	result := r.db.Where("cart_id = ? AND product_variant_id = ?", cartID, variantID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete cart item from database", result.Error, map[string]interface{}{
			"cart_id":    cartID,
			"variant_id": variantID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteCart removes a cart and everything in it.
func (r *cartRepository) DeleteCart(cartID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, cartID).Error
	})
}

// MoveItems re-parents every item of one cart onto another. Items whose
// variant is not yet in the target keep their own row; where the target
// already holds the variant the quantities are folded so the composite
// uniqueness invariant survives the move. Running it again is a no-op:
// the source cart has no rows left.
func (r *cartRepository) MoveItems(fromCartID, toCartID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing []uint
		if err := tx.Model(&model.CartItem{}).
			Where("cart_id = ?", toCartID).
			Pluck("product_variant_id", &existing).Error; err != nil {
			return err
		}

		move := tx.Model(&model.CartItem{}).Where("cart_id = ?", fromCartID)
		if len(existing) > 0 {
			move = move.Where("product_variant_id NOT IN ?", existing)
		}
		if err := move.Update("cart_id", toCartID).Error; err != nil {
			return err
		}

		// Whatever is left collides with a row already in the target.
		var leftovers []model.CartItem
		if err := tx.Where("cart_id = ?", fromCartID).Find(&leftovers).Error; err != nil {
			return err
		}
		for _, item := range leftovers {
			err := tx.Model(&model.CartItem{}).
				Where("cart_id = ? AND product_variant_id = ?", toCartID, item.ProductVariantID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
			if err := tx.Delete(&model.CartItem{}, item.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteStaleAnonymous garbage-collects empty session carts left behind
// by login merges. User carts are never touched.
func (r *cartRepository) DeleteStaleAnonymous(before time.Time) (int64, error) {
	result := r.db.
		Where("user_id IS NULL AND updated_at < ?", before).
		Where("id NOT IN (?)", r.db.Model(&model.CartItem{}).Select("cart_id")).
		Delete(&model.Cart{})
	if result.Error != nil {
		logger.Error("Failed to delete stale anonymous carts", result.Error, nil)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
