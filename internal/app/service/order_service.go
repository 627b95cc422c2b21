package service

import (
	"errors"

	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderService interface {
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID uint, orderID string) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

// GetOrderByID looks up an order by its public identifier, scoped to the
// requesting user. Someone else's order reads as not found.
func (s *orderService) GetOrderByID(userID uint, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
