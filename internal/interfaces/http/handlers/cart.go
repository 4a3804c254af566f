// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/domain/cart"
	"github.com/your-org/pharmacy-checkout/internal/domain/delivery"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	pricing     delivery.Pricing
	logger      logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, pricing delivery.Pricing, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		pricing:     pricing,
		logger:      logger,
	}
}

// CartResponse is the cart with its delivery quote
type CartResponse struct {
	*cart.Snapshot
	Quote        delivery.Quote  `json:"quote"`
	AmountToFree decimal.Decimal `json:"amount_to_free_delivery"`
}

func (h *CartHandler) view(snapshot *cart.Snapshot) CartResponse {
	return CartResponse{
		Snapshot:     snapshot,
		Quote:        h.pricing.Quote(snapshot.Totals.Subtotal),
		AmountToFree: h.pricing.AmountToFree(snapshot.Totals.Subtotal),
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	snapshot, err := h.cartService.Get(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		h.internalError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.view(snapshot),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snapshot, clamped, err := h.cartService.AddLine(c.Request.Context(), middleware.GetCustomerID(c), &req)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidPrice) || errors.Is(err, cart.ErrProductRequired) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		h.internalError(c, err, "Failed to add item to cart")
		return
	}

	message := "Item added to cart successfully"
	if clamped {
		message = "Maximum available stock reached for this item"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"clamped": clamped,
		"data":    h.view(snapshot),
	})
}

// UpdateCartItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req cart.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snapshot, err := h.cartService.SetQuantity(c.Request.Context(), middleware.GetCustomerID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		h.internalError(c, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.view(snapshot),
	})
}

// RemoveFromCart handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	snapshot, err := h.cartService.RemoveLine(c.Request.Context(), middleware.GetCustomerID(c), c.Param("productId"))
	if err != nil {
		h.internalError(c, err, "Failed to remove cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.view(snapshot),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.GetCustomerID(c)); err != nil {
		h.internalError(c, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

func (h *CartHandler) internalError(c *gin.Context, err error, message string) {
	h.logger.WithError(err).WithField("customer", middleware.GetCustomerID(c)).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": message,
	})
}
