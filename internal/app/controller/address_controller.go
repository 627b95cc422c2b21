package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/laced-shop/laced-backend/internal/app/service"
	apperrors "github.com/laced-shop/laced-backend/internal/errors"
	"github.com/laced-shop/laced-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type AddressRequest struct {
	Name         string `json:"name" binding:"required"`
	AddressLine1 string `json:"address_line_1" binding:"required"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city" binding:"required"`
	County       string `json:"county"`
	Eircode      string `json:"eircode"`
	IsDefault    bool   `json:"is_default"`
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Name:         r.Name,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		County:       r.County,
		Eircode:      r.Eircode,
		IsDefault:    r.IsDefault,
	}
}

// GetAddresses lists the user's address book
// GET /api/v1/addresses
func (ctrl *AddressController) GetAddresses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addresses, err := ctrl.addressService.GetAddresses(userID)
	if err != nil {
		log.Error("Failed to fetch addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
	})
}

// CreateAddress adds an address-book entry
// POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create address request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	address, err := ctrl.addressService.CreateAddress(userID, req.toInput())
	if err != nil {
		log.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to create address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"address": address,
	})
}

// UpdateAddress rewrites an address-book entry
// PUT /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update address request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	address, err := ctrl.addressService.UpdateAddress(userID, addressID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
			return
		}
		log.Error("Failed to update address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		apperrors.InternalError(c, "Failed to update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
	})
}

// DeleteAddress removes an address-book entry
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.addressService.DeleteAddress(userID, addressID)
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
			return
		}
		log.Error("Failed to delete address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		apperrors.InternalError(c, "Failed to delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted",
	})
}
