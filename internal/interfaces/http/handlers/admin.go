// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/domain/escalation"
	"github.com/your-org/pharmacy-checkout/internal/domain/order"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/middleware"
)

// OrderLister reads the remote detailed order listing
type OrderLister interface {
	ListDetailed(ctx context.Context) ([]order.DetailRow, error)
}

// EscalationLister reads the escalation ledger
type EscalationLister interface {
	List(ctx context.Context, status escalation.Status, limit int) ([]escalation.Record, error)
	GetByReference(ctx context.Context, reference string) (*escalation.Record, error)
}

// AdminHandler serves the support and reporting endpoints
type AdminHandler struct {
	orders      OrderLister
	escalations EscalationLister
	logger      logrus.FieldLogger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(orders OrderLister, escalations EscalationLister, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		orders:      orders,
		escalations: escalations,
		logger:      logger,
	}
}

// ListOrders handles GET /admin/orders?search=&payment_method=
func (h *AdminHandler) ListOrders(c *gin.Context) {
	rows, ok := h.filteredRows(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    rows,
	})
}

// OrdersSummary handles GET /admin/orders/summary
func (h *AdminHandler) OrdersSummary(c *gin.Context) {
	rows, ok := h.filteredRows(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order summary retrieved successfully",
		"data":    order.Summarize(rows),
	})
}

// ListEscalations handles GET /admin/escalations?status=&limit=
func (h *AdminHandler) ListEscalations(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be between 1 and 500",
			})
			return
		}
		limit = n
	}

	status := escalation.Status(c.Query("status"))
	if status != "" && status != escalation.StatusOpen && status != escalation.StatusResolved {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be open or resolved",
		})
		return
	}

	records, err := h.escalations.List(c.Request.Context(), status, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list escalations")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve escalations",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Escalations retrieved successfully",
		"data":    records,
	})
}

// GetEscalation handles GET /admin/escalations/:reference
func (h *AdminHandler) GetEscalation(c *gin.Context) {
	record, err := h.escalations.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Escalation not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Escalation retrieved successfully",
		"data":    record,
	})
}

func (h *AdminHandler) filteredRows(c *gin.Context) ([]order.DetailRow, bool) {
	rows, err := h.orders.ListDetailed(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).WithField("operator", middleware.GetOperatorFromContext(c)).Error("Failed to fetch orders")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to fetch orders",
			"details": err.Error(),
		})
		return nil, false
	}
	return order.Filter(rows, c.Query("search"), c.Query("payment_method")), true
}
