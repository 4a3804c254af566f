// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/domain/payment"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/middleware"
)

// PaymentHandler receives the browser widget's callbacks
type PaymentHandler struct {
	bridge *payment.Bridge
	logger logrus.FieldLogger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(bridge *payment.Bridge, logger logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{
		bridge: bridge,
		logger: logger,
	}
}

// WidgetResult handles POST /checkout/widget-result
func (h *PaymentHandler) WidgetResult(c *gin.Context) {
	customerID := middleware.GetCustomerID(c)

	var req payment.WidgetResult
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.bridge.Resolve(customerID, &req); err != nil {
		if errors.Is(err, payment.ErrUnknownSession) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No payment is waiting for this result",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to deliver widget result")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process payment result",
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"customer": customerID,
		"status":   req.Status,
	}).Info("Payment widget result received")

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Payment result received",
	})
}
