package repository

import (
	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.UserAddress) error
	FindByIDAndUser(id, userID uint) (*model.UserAddress, error)
	FindByUser(userID uint) ([]model.UserAddress, error)
	Update(address *model.UserAddress) error
	Delete(id, userID uint) (int64, error)
	ClearDefault(userID uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

// Create saves a new address. When the address is flagged as default the
// previous default is cleared inside the same transaction so a crash
// between the two writes cannot leave the user with two defaults.
func (r *addressRepository) Create(address *model.UserAddress) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			err := tx.Model(&model.UserAddress{}).
				Where("user_id = ? AND is_default = ?", address.UserID, true).
				Update("is_default", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
	if err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) FindByIDAndUser(id, userID uint) (*model.UserAddress, error) {
	var address model.UserAddress
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) FindByUser(userID uint) ([]model.UserAddress, error) {
	var addresses []model.UserAddress
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, id").
		Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to list addresses from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) Update(address *model.UserAddress) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			err := tx.Model(&model.UserAddress{}).
				Where("user_id = ? AND id <> ? AND is_default = ?", address.UserID, address.ID, true).
				Update("is_default", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Save(address).Error
	})
	if err != nil {
		logger.Error("Failed to update address in database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Delete(id, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.UserAddress{})
	if result.Error != nil {
		logger.Error("Failed to delete address from database", result.Error, map[string]interface{}{
			"address_id": id,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *addressRepository) ClearDefault(userID uint) error {
	return r.db.Model(&model.UserAddress{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
