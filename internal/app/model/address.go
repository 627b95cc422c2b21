package model

import (
	"time"

	"gorm.io/gorm"
)

// UserAddress is an entry in a user's address book. Orders never reference
// these rows directly; checkout copies the fields into an OrderAddress so
// later edits to the address book cannot rewrite order history.
type UserAddress struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	AddressLine1 string         `gorm:"not null" json:"address_line_1"`
	AddressLine2 string         `json:"address_line_2"`
	City         string         `gorm:"size:100;not null" json:"city"`
	County       string         `gorm:"size:100" json:"county"`
	Eircode      string         `gorm:"size:10" json:"eircode"`
	IsDefault    bool           `gorm:"default:false" json:"is_default"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserAddress) TableName() string {
	return "user_addresses"
}
