package service

import (
	"testing"

	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/internal/app/repository"
	"github.com/laced-shop/laced-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{Email: "orders@example.com", PasswordHash: "h", Name: "Buyer"}
	testDB.Create(user)

	return NewOrderService(repository.NewOrderRepository(testDB)), user, testDB
}

func seedOrder(t *testing.T, testDB *gorm.DB, userID uint) *model.Order {
	t.Helper()

	addr := &model.OrderAddress{UserID: userID, Name: "Buyer", AddressLine1: "1 Main Street", City: "Dublin"}
	require.NoError(t, testDB.Create(addr).Error)

	order := &model.Order{
		OrderID:   model.NewOrderID(),
		UserID:    userID,
		AddressID: addr.ID,
		Email:     "orders@example.com",
	}
	require.NoError(t, testDB.Create(order).Error)

	item := &model.OrderItem{
		OrderID:          order.ID,
		ProductVariantID: 1,
		Quantity:         3,
		Price:            decimal.RequireFromString("30.00"),
	}
	require.NoError(t, testDB.Create(item).Error)
	return order
}

func TestOrderService_GetUserOrders(t *testing.T) {
	orderService, user, testDB := setupOrderServiceTest(t)

	seedOrder(t, testDB, user.ID)
	seedOrder(t, testDB, user.ID)

	orders, err := orderService.GetUserOrders(user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	orderService, user, testDB := setupOrderServiceTest(t)

	seeded := seedOrder(t, testDB, user.ID)

	order, err := orderService.GetOrderByID(user.ID, seeded.OrderID)
	require.NoError(t, err)
	assert.Equal(t, seeded.OrderID, order.OrderID)
	assert.True(t, order.Total().Equal(decimal.RequireFromString("30.00")))
}

func TestOrderService_GetOrderByID_NotFound(t *testing.T) {
	orderService, user, _ := setupOrderServiceTest(t)

	_, err := orderService.GetOrderByID(user.ID, "no-such-order")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetOrderByID_OtherUsersOrder(t *testing.T) {
	orderService, user, testDB := setupOrderServiceTest(t)

	seeded := seedOrder(t, testDB, user.ID)

	other := &model.User{Email: "other@example.com", PasswordHash: "h", Name: "Other"}
	testDB.Create(other)

	_, err := orderService.GetOrderByID(other.ID, seeded.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
