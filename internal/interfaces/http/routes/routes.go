// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-checkout/internal/config"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/handlers"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/middleware"
	"github.com/your-org/pharmacy-checkout/internal/pkg/auth"
)

// Handlers groups every API handler
type Handlers struct {
	Cart     *handlers.CartHandler
	Address  *handlers.AddressHandler
	Checkout *handlers.CheckoutHandler
	Payment  *handlers.PaymentHandler
	Receipt  *handlers.ReceiptHandler
	Admin    *handlers.AdminHandler
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items/:productId", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:productId", h.Cart.RemoveFromCart)
		cart.DELETE("", h.Cart.ClearCart)
	}
}

// SetupAddressRoutes sets up address book routes
func SetupAddressRoutes(rg *gin.RouterGroup, h *Handlers) {
	addresses := rg.Group("/addresses")
	{
		addresses.GET("", h.Address.GetAddresses)
		addresses.POST("", h.Address.CreateAddress)
		addresses.GET("/states", h.Address.GetStates)
		addresses.PUT("/:id", h.Address.UpdateAddress)
		addresses.DELETE("/:id", h.Address.DeleteAddress)
		addresses.PUT("/:id/select", h.Address.SelectAddress)
		addresses.PUT("/:id/default", h.Address.SetDefaultAddress)
	}
}

// SetupCheckoutRoutes sets up checkout flow routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, h *Handlers) {
	checkout := rg.Group("/checkout")
	{
		checkout.POST("", h.Checkout.BeginCheckout)
		checkout.GET("", h.Checkout.GetCheckout)
		checkout.POST("/address", h.Checkout.ProceedToAddress)
		checkout.POST("/payment", h.Checkout.ProceedToPayment)
		checkout.POST("/back", h.Checkout.Back)
		checkout.POST("/cancel", h.Checkout.CancelCheckout)
		checkout.POST("/confirm", h.Checkout.ConfirmCheckout)
		checkout.POST("/widget-result", h.Payment.WidgetResult)
		checkout.GET("/order", h.Checkout.GetOrder)
		checkout.GET("/receipt", h.Receipt.DownloadReceipt)
	}
}

// SetupAdminRoutes sets up support and reporting routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AdminAuth(jwtManager))
	{
		admin.GET("/orders", h.Admin.ListOrders)
		admin.GET("/orders/summary", h.Admin.OrdersSummary)
		admin.GET("/escalations", h.Admin.ListEscalations)
		admin.GET("/escalations/:reference", h.Admin.GetEscalation)
	}
}

// SetupRoutes registers every API route under rg
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config, jwtManager *auth.JWTManager) {
	// Storefront routes identify the shopper by cookie
	storefront := rg.Group("")
	storefront.Use(middleware.CustomerSession(cfg.Security.SecureCookies))
	SetupCartRoutes(storefront, h)
	SetupAddressRoutes(storefront, h)
	SetupCheckoutRoutes(storefront, h)

	SetupAdminRoutes(rg, h, jwtManager)
}
