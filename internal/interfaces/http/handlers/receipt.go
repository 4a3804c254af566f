// internal/interfaces/http/handlers/receipt.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/domain/order"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/middleware"
)

// LastOrderSource returns a customer's most recent order
type LastOrderSource interface {
	LastOrder(customerID string) (*order.Order, error)
}

// ReceiptRenderer produces a PDF receipt for an order
type ReceiptRenderer interface {
	GenerateReceipt(o *order.Order) (*bytes.Buffer, error)
}

// ReceiptHandler serves order receipts
type ReceiptHandler struct {
	orders   LastOrderSource
	renderer ReceiptRenderer
	logger   logrus.FieldLogger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(orders LastOrderSource, renderer ReceiptRenderer, logger logrus.FieldLogger) *ReceiptHandler {
	return &ReceiptHandler{
		orders:   orders,
		renderer: renderer,
		logger:   logger,
	}
}

// DownloadReceipt handles GET /checkout/receipt
func (h *ReceiptHandler) DownloadReceipt(c *gin.Context) {
	o, err := h.orders.LastOrder(middleware.GetCustomerID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No completed order found",
		})
		return
	}

	pdfBuffer, err := h.renderer.GenerateReceipt(o)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", o.OrderID).Error("Failed to generate receipt")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", o.OrderID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}
