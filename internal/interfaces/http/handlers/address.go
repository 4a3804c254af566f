// internal/interfaces/http/handlers/address.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/domain/address"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/middleware"
)

// AddressHandler handles address book endpoints
type AddressHandler struct {
	addressService *address.Service
	logger         logrus.FieldLogger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addressService *address.Service, logger logrus.FieldLogger) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		logger:         logger,
	}
}

// GetAddresses handles GET /addresses
func (h *AddressHandler) GetAddresses(c *gin.Context) {
	view, err := h.addressService.List(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Addresses retrieved successfully",
		"data":    view,
	})
}

// CreateAddress handles POST /addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var fields address.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	addr, err := h.addressService.Create(c.Request.Context(), middleware.GetCustomerID(c), fields)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address saved successfully",
		"data":    addr,
	})
}

// UpdateAddress handles PUT /addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	var fields address.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	addr, err := h.addressService.Update(c.Request.Context(), middleware.GetCustomerID(c), c.Param("id"), fields)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"data":    addr,
	})
}

// DeleteAddress handles DELETE /addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	view, err := h.addressService.Delete(c.Request.Context(), middleware.GetCustomerID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
		"data":    view,
	})
}

// SelectAddress handles PUT /addresses/:id/select
func (h *AddressHandler) SelectAddress(c *gin.Context) {
	view, err := h.addressService.Select(c.Request.Context(), middleware.GetCustomerID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery address selected",
		"data":    view,
	})
}

// SetDefaultAddress handles PUT /addresses/:id/default
func (h *AddressHandler) SetDefaultAddress(c *gin.Context) {
	view, err := h.addressService.SetDefault(c.Request.Context(), middleware.GetCustomerID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Default address updated",
		"data":    view,
	})
}

// GetStates handles GET /addresses/states
func (h *AddressHandler) GetStates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "States retrieved successfully",
		"data":    address.States,
	})
}

func (h *AddressHandler) respondError(c *gin.Context, err error) {
	var validationErr *address.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Please correct the highlighted address fields",
			"details": validationErr.Fields,
		})
	case errors.Is(err, address.ErrAddressNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Address not found",
		})
	default:
		h.logger.WithError(err).WithField("customer", middleware.GetCustomerID(c)).Error("Address book operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update address book",
		})
	}
}
