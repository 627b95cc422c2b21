package repository

import (
	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	ExistsByOrderID(orderID string) (bool, error)
	FindByOrderID(orderID string) (*model.Order, error)
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) ExistsByOrderID(orderID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check order existence in database", err, map[string]interface{}{
			"order_id": orderID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *orderRepository) FindByOrderID(orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.Where("order_id = ?", orderID).
		Preload("Items").
		Preload("Items.Variant").
		Preload("Items.Variant.Product").
		Preload("Address").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").
		Preload("Items.Variant").
		Preload("Items.Variant.Product").
		Preload("Address").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.Variant").
		Preload("Items.Variant.Product").
		Preload("Address").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}
