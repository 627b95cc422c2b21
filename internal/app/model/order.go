package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the permanent record of a completed purchase. OrderID is the
// human-facing identifier generated at intent creation; the unique index
// on it is the final backstop against duplicate webhook materialization.
type Order struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   string    `gorm:"size:36;uniqueIndex;not null" json:"order_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	AddressID uint      `gorm:"not null" json:"address_id"`
	Email     string    `gorm:"not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`

	User    User         `gorm:"foreignKey:UserID" json:"-"`
	Address OrderAddress `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Items   []OrderItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// NewOrderID returns a fresh order identifier. Assigned once, before the
// order entity exists anywhere, and immutable afterwards.
func NewOrderID() string {
	return uuid.NewString()
}

// Total sums the frozen line prices. Catalog price changes after purchase
// never affect it.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price)
	}
	return total
}

// OrderItem freezes what was bought and what it cost. Price is the line
// total (quantity x unit price at snapshot time), never recomputed from
// the catalog.
type OrderItem struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	OrderID          uint            `gorm:"not null;index" json:"order_id"`
	ProductVariantID uint            `gorm:"not null;index" json:"product_variant_id"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	Price            decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	CreatedAt        time.Time       `json:"created_at"`

	Order   Order          `gorm:"foreignKey:OrderID" json:"-"`
	Variant ProductVariant `gorm:"foreignKey:ProductVariantID" json:"variant,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderAddress is a point-in-time copy of a user address. OrderID is the
// back-link filled in inside the same transaction that creates the order.
type OrderAddress struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	OrderID      *uint     `gorm:"index" json:"order_id,omitempty"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	AddressLine1 string    `gorm:"not null" json:"address_line_1"`
	AddressLine2 string    `json:"address_line_2"`
	City         string    `gorm:"size:100;not null" json:"city"`
	County       string    `gorm:"size:100" json:"county"`
	Eircode      string    `gorm:"size:10" json:"eircode"`
	CreatedAt    time.Time `json:"created_at"`
}

func (OrderAddress) TableName() string {
	return "order_addresses"
}

// CopyUserAddress snapshots a user address into an order address.
func CopyUserAddress(addr *UserAddress) *OrderAddress {
	return &OrderAddress{
		UserID:       addr.UserID,
		Name:         addr.Name,
		AddressLine1: addr.AddressLine1,
		AddressLine2: addr.AddressLine2,
		City:         addr.City,
		County:       addr.County,
		Eircode:      addr.Eircode,
	}
}
