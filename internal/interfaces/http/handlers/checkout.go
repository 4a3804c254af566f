// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/domain/checkout"
	"github.com/your-org/pharmacy-checkout/internal/domain/payment"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	bridge          *payment.Bridge
	flowTimeout     time.Duration
	logger          logrus.FieldLogger
}

// NewCheckoutHandler creates a new checkout handler. flowTimeout bounds a
// confirmed checkout running in the background, widget included.
func NewCheckoutHandler(checkoutService *checkout.Service, bridge *payment.Bridge, flowTimeout time.Duration, logger logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		bridge:          bridge,
		flowTimeout:     flowTimeout,
		logger:          logger,
	}
}

// ConfirmRequest represents the confirm checkout request
type ConfirmRequest struct {
	Method checkout.Method `json:"method" binding:"required,oneof=online cod"`
}

type confirmOutcome struct {
	result *checkout.Result
	err    error
}

// BeginCheckout handles POST /checkout
func (h *CheckoutHandler) BeginCheckout(c *gin.Context) {
	session, err := h.checkoutService.Begin(c.Request.Context(), middleware.GetCustomerID(c))
	h.respondSession(c, session, err, "Checkout started")
}

// GetCheckout handles GET /checkout
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	customerID := middleware.GetCustomerID(c)

	session, err := h.checkoutService.Current(customerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout retrieved successfully",
		"data":    session,
		"pending": h.bridge.Pending(customerID),
	})
}

// ProceedToAddress handles POST /checkout/address
func (h *CheckoutHandler) ProceedToAddress(c *gin.Context) {
	session, err := h.checkoutService.ProceedToAddress(c.Request.Context(), middleware.GetCustomerID(c))
	h.respondSession(c, session, err, "Choose a delivery address")
}

// ProceedToPayment handles POST /checkout/payment
func (h *CheckoutHandler) ProceedToPayment(c *gin.Context) {
	session, err := h.checkoutService.ProceedToPayment(c.Request.Context(), middleware.GetCustomerID(c))
	h.respondSession(c, session, err, "Choose a payment method")
}

// Back handles POST /checkout/back
func (h *CheckoutHandler) Back(c *gin.Context) {
	session, err := h.checkoutService.Back(c.Request.Context(), middleware.GetCustomerID(c))
	h.respondSession(c, session, err, "Moved back one step")
}

// CancelCheckout handles POST /checkout/cancel
func (h *CheckoutHandler) CancelCheckout(c *gin.Context) {
	session, err := h.checkoutService.Cancel(c.Request.Context(), middleware.GetCustomerID(c))
	h.respondSession(c, session, err, "Checkout cancelled")
}

// ConfirmCheckout handles POST /checkout/confirm. The flow runs detached from
// the request: for online payments the response is 202 with the gateway
// handle as soon as the widget should open, and the outcome is read from
// GET /checkout once the widget result has been posted.
func (h *CheckoutHandler) ConfirmCheckout(c *gin.Context) {
	customerID := middleware.GetCustomerID(c)

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	handles, unsubscribe := h.bridge.Subscribe(customerID)
	defer unsubscribe()

	flowCtx := context.WithoutCancel(c.Request.Context())
	done := make(chan confirmOutcome, 1)
	go func() {
		ctx, cancel := context.WithTimeout(flowCtx, h.flowTimeout)
		defer cancel()

		result, err := h.checkoutService.Confirm(ctx, customerID, req.Method)
		done <- confirmOutcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		h.respondResult(c, out.result, out.err)
	case handle := <-handles:
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Complete the payment in the checkout window",
			"data": gin.H{
				"phase":   checkout.PhaseSubmitting,
				"gateway": handle,
			},
		})
	case <-c.Request.Context().Done():
		h.logger.WithField("customer", customerID).Info("Client left before the checkout flow answered")
	}
}

// GetOrder handles GET /checkout/order
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	o, err := h.checkoutService.LastOrder(middleware.GetCustomerID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No completed order found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

func (h *CheckoutHandler) respondSession(c *gin.Context, session *checkout.Session, err error, message string) {
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    session,
	})
}

func (h *CheckoutHandler) respondResult(c *gin.Context, result *checkout.Result, err error) {
	if err != nil && result == nil {
		h.respondError(c, err)
		return
	}

	notice := result.Notice
	if notice.HTTPStatus == 0 {
		notice.HTTPStatus = http.StatusOK
	}

	body := gin.H{
		"notice": notice,
		"data":   result,
	}
	if notice.HTTPStatus >= http.StatusBadRequest {
		body["error"] = notice.Message
	} else {
		body["message"] = notice.Message
	}
	c.JSON(notice.HTTPStatus, body)
}

func (h *CheckoutHandler) respondError(c *gin.Context, err error) {
	notice := checkout.NoticeFor(err)

	body := gin.H{
		"error":  notice.Message,
		"notice": notice,
	}
	if notice.HTTPStatus >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("customer", middleware.GetCustomerID(c)).Error("Checkout request failed")
	}
	if errors.Is(err, checkout.ErrNoSession) {
		body["details"] = "Start a checkout with POST /checkout"
	}
	c.JSON(notice.HTTPStatus, body)
}
