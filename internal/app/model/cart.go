package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Cart is keyed by exactly one of UserID (one cart per user) or
// SessionToken (anonymous browser session). Rows are hard-deleted: a
// finalized checkout removes the cart, and the unique user index must be
// free for the next one.
type Cart struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SessionToken *string   `gorm:"size:64;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem holds one variant in one cart. The composite unique index is
// what makes concurrent adds of the same variant accumulate instead of
// duplicating rows.
type CartItem struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	CartID           uint      `gorm:"not null;uniqueIndex:idx_cart_variant" json:"cart_id"`
	ProductVariantID uint      `gorm:"not null;uniqueIndex:idx_cart_variant" json:"product_variant_id"`
	Quantity         int       `gorm:"not null" json:"quantity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Cart    Cart           `gorm:"foreignKey:CartID" json:"-"`
	Variant ProductVariant `gorm:"foreignKey:ProductVariantID" json:"variant,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartSnapshot is the immutable copy of a cart handed to the payment
// gateway as intent metadata. Unit prices are frozen here; the webhook
// materializes the order from the snapshot, never from the live catalog.
type CartSnapshot struct {
	Items []SnapshotItem `json:"items"`
}

type SnapshotItem struct {
	VariantID uint            `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SnapshotFromItems builds a snapshot from loaded cart items. Callers must
// have preloaded Variant.Product so prices are available.
func SnapshotFromItems(items []CartItem) CartSnapshot {
	snap := CartSnapshot{Items: make([]SnapshotItem, 0, len(items))}
	for _, item := range items {
		snap.Items = append(snap.Items, SnapshotItem{
			VariantID: item.ProductVariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.Variant.Product.Price,
		})
	}
	return snap
}

func (s CartSnapshot) Encode() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func DecodeSnapshot(raw string) (CartSnapshot, error) {
	var snap CartSnapshot
	err := json.Unmarshal([]byte(raw), &snap)
	return snap, err
}
