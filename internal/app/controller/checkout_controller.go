package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/laced-shop/laced-backend/internal/app/service"
	apperrors "github.com/laced-shop/laced-backend/internal/errors"
	"github.com/laced-shop/laced-backend/internal/middleware"
)

// stripeSignatureHeader carries the webhook signature material.
const stripeSignatureHeader = "Stripe-Signature"

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type AttachAddressRequest struct {
	IntentID  string `json:"intent_id" binding:"required"`
	AddressID uint   `json:"address_id" binding:"required"`
}

// CreatePaymentIntent opens a payment intent for the user's cart
// POST /api/v1/checkout/intent
func (ctrl *CheckoutController) CreatePaymentIntent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	intent, err := ctrl.checkoutService.CreatePaymentIntent(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrCartEmpty) {
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
			return
		}
		if errors.Is(err, service.ErrGateway) {
			log.Error("Payment gateway rejected intent creation", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.CheckoutGatewayError, "Payment provider unavailable")
			return
		}
		log.Error("Failed to create payment intent", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to start checkout")
		return
	}

	c.JSON(http.StatusCreated, intent)
}

// AttachAddress copies a saved address onto a pending intent
// POST /api/v1/checkout/address
func (ctrl *CheckoutController) AttachAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AttachAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid attach address request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	err := ctrl.checkoutService.AttachAddress(c.Request.Context(), userID, req.IntentID, req.AddressID)
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
			return
		}
		if errors.Is(err, service.ErrPaymentIntentNotFound) {
			apperrors.NotFound(c, apperrors.CheckoutIntentNotFound, "Payment intent not found")
			return
		}
		if errors.Is(err, service.ErrGateway) {
			log.Error("Payment gateway rejected address attach", err, map[string]interface{}{
				"user_id":   userID,
				"intent_id": req.IntentID,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.CheckoutGatewayError, "Payment provider unavailable")
			return
		}
		log.Error("Failed to attach address", err, map[string]interface{}{
			"user_id":   userID,
			"intent_id": req.IntentID,
		})
		apperrors.InternalError(c, "Failed to attach address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address attached",
	})
}

// Webhook receives payment gateway deliveries. A 2xx acknowledges the
// delivery; anything else makes the gateway retry, so the handler only
// errors when a retry could actually succeed.
// POST /api/v1/checkout/webhook
func (ctrl *CheckoutController) Webhook(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Error("Failed to read webhook body", err, nil)
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unreadable payload")
		return
	}

	sigHeader := c.GetHeader(stripeSignatureHeader)
	err = ctrl.checkoutService.HandleWebhook(c.Request.Context(), payload, sigHeader)
	if err != nil {
		if errors.Is(err, service.ErrWebhookAuth) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.WebhookInvalidSignature, "Invalid signature")
			return
		}
		log.Error("Failed to process webhook", err, nil)
		apperrors.InternalError(c, "Failed to process event")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": true,
	})
}
