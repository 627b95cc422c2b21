package service

import (
	"errors"

	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/internal/app/repository"
	"github.com/laced-shop/laced-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

// AddressInput carries the writable fields of an address-book entry.
type AddressInput struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	County       string
	Eircode      string
	IsDefault    bool
}

type AddressService interface {
	GetAddresses(userID uint) ([]model.UserAddress, error)
	GetAddress(userID, addressID uint) (*model.UserAddress, error)
	CreateAddress(userID uint, input AddressInput) (*model.UserAddress, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.UserAddress, error)
	DeleteAddress(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) GetAddresses(userID uint) ([]model.UserAddress, error) {
	return s.addressRepo.FindByUser(userID)
}

func (s *addressService) GetAddress(userID, addressID uint) (*model.UserAddress, error) {
	address, err := s.addressRepo.FindByIDAndUser(addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return address, nil
}

func (s *addressService) CreateAddress(userID uint, input AddressInput) (*model.UserAddress, error) {
	address := &model.UserAddress{
		UserID:       userID,
		Name:         input.Name,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		County:       input.County,
		Eircode:      input.Eircode,
		IsDefault:    input.IsDefault,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}

	logger.Info("Address created", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
	})
	return address, nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.UserAddress, error) {
	address, err := s.addressRepo.FindByIDAndUser(addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	address.Name = input.Name
	address.AddressLine1 = input.AddressLine1
	address.AddressLine2 = input.AddressLine2
	address.City = input.City
	address.County = input.County
	address.Eircode = input.Eircode
	address.IsDefault = input.IsDefault

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	affected, err := s.addressRepo.Delete(addressID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAddressNotFound
	}

	logger.Info("Address deleted", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}
