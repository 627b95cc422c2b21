package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/laced-shop/laced-backend/internal/app/service"
	apperrors "github.com/laced-shop/laced-backend/internal/errors"
	"github.com/laced-shop/laced-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// cartOwner resolves whose cart this request operates on: the
// authenticated user when a valid token is present, otherwise the
// anonymous session cookie.
func cartOwner(c *gin.Context) (service.CartOwner, bool) {
	if userID, ok := middleware.GetUserID(c); ok {
		return service.OwnerForUser(userID), true
	}
	if token, ok := middleware.GetSessionToken(c); ok && token != "" {
		return service.OwnerForSession(token), true
	}
	return service.CartOwner{}, false
}

// GetCart returns the current cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	owner, ok := cartOwner(c)
	if !ok {
		apperrors.Unauthorized(c, "No cart identity")
		return
	}

	items, err := ctrl.cartService.GetCart(owner)
	if err != nil {
		log.Error("Failed to fetch cart", err, nil)
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	total, err := ctrl.cartService.TotalPrice(owner)
	if err != nil {
		log.Error("Failed to compute cart total", err, nil)
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": items,
		"count":      count,
		"total":      total,
	})
}

// AddToCart adds a variant to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	owner, ok := cartOwner(c)
	if !ok {
		apperrors.Unauthorized(c, "No cart identity")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	err := ctrl.cartService.AddToCart(owner, req.VariantID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidQuantity, "Quantity must be at least 1")
			return
		}
		if errors.Is(err, service.ErrVariantNotFound) {
			log.Warn("Variant not found for cart", map[string]interface{}{
				"variant_id": req.VariantID,
			})
			apperrors.NotFound(c, apperrors.VariantNotFound, "Product variant not found")
			return
		}
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"variant_id": req.VariantID,
		})
		apperrors.InternalError(c, "Failed to add item to cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"variant_id": req.VariantID,
		"quantity":   req.Quantity,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart",
	})
}

// UpdateCartItem sets the quantity for a variant already in the cart
// PUT /api/v1/cart/:variant_id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	owner, ok := cartOwner(c)
	if !ok {
		apperrors.Unauthorized(c, "No cart identity")
		return
	}

	variantID, ok := parseIDParam(c, "variant_id")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"variant_id": variantID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	err := ctrl.cartService.UpdateQuantity(owner, variantID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidQuantity, "Quantity must be at least 1")
			return
		}
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
			return
		}
		log.Error("Failed to update cart item", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apperrors.InternalError(c, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated",
	})
}

// RemoveFromCart removes a variant from the cart
// DELETE /api/v1/cart/:variant_id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	owner, ok := cartOwner(c)
	if !ok {
		apperrors.Unauthorized(c, "No cart identity")
		return
	}

	variantID, ok := parseIDParam(c, "variant_id")
	if !ok {
		return
	}

	err := ctrl.cartService.RemoveFromCart(owner, variantID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apperrors.InternalError(c, "Failed to remove cart item")
		return
	}

	log.Info("Cart item removed", map[string]interface{}{
		"variant_id": variantID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed",
	})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
