package router

import (
	"github.com/gin-gonic/gin"
	"github.com/laced-shop/laced-backend/config"
	"github.com/laced-shop/laced-backend/internal/app/controller"
	"github.com/laced-shop/laced-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	cartController     *controller.CartController
	checkoutController *controller.CheckoutController
	orderController    *controller.OrderController
	addressController  *controller.AddressController
	authMiddleware     *middleware.AuthMiddleware
	sessionMiddleware  *middleware.SessionMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	orderController *controller.OrderController,
	addressController *controller.AddressController,
	authMiddleware *middleware.AuthMiddleware,
	sessionMiddleware *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		cartController:     cartController,
		checkoutController: checkoutController,
		orderController:    orderController,
		addressController:  addressController,
		authMiddleware:     authMiddleware,
		sessionMiddleware:  sessionMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "LACED API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.sessionMiddleware.CartSession(), r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		// Cart works for guests and logged-in users alike; the session
		// cookie carries guest identity, the bearer token wins when
		// both are present.
		cart := v1.Group("/cart",
			r.sessionMiddleware.CartSession(),
			r.authMiddleware.OptionalAuthenticate(),
		)
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:variant_id", r.cartController.UpdateCartItem)
			cart.DELETE("/:variant_id", r.cartController.RemoveFromCart)
		}

		checkout := v1.Group("/checkout")
		{
			checkout.POST("/intent", r.authMiddleware.Authenticate(), r.checkoutController.CreatePaymentIntent)
			checkout.POST("/address", r.authMiddleware.Authenticate(), r.checkoutController.AttachAddress)
			// The gateway authenticates with its signature header, not
			// a bearer token.
			checkout.POST("/webhook", r.checkoutController.Webhook)
		}

		orders := v1.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:order_id", r.orderController.GetOrder)
		}

		addresses := v1.Group("/addresses", r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.GetAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.PUT("/:id", r.addressController.UpdateAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, Stripe-Signature")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
