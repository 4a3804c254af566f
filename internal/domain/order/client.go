// internal/domain/order/client.go
package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/your-org/pharmacy-checkout/internal/config"
	"github.com/your-org/pharmacy-checkout/internal/domain/address"
	"github.com/your-org/pharmacy-checkout/internal/domain/cart"
	"github.com/your-org/pharmacy-checkout/internal/pkg/httpclient"
)

var (
	ErrMissingOrderID = errors.New("order API did not return an order id")
	ErrNoItems        = errors.New("order has no items")
)

// SubmitRequest is a finalized order ready for the remote API
type SubmitRequest struct {
	Address       address.Address
	Lines         []cart.Line
	DeliveryFee   decimal.Decimal
	PaymentMethod PaymentMethod
}

// SubmitResponse is the remote API's answer to a created order
type SubmitResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
	UserID  int64  `json:"user_id"`
}

type createOrderItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type createOrderRequest struct {
	Phone          string            `json:"phone"`
	FullName       string            `json:"full_name"`
	AddressLine    string            `json:"address_line"`
	City           string            `json:"city"`
	State          string            `json:"state"`
	Pincode        string            `json:"pincode"`
	DeliveryCharge float64           `json:"delivery_charge"`
	PaymentMethod  PaymentMethod     `json:"payment_method"`
	Items          []createOrderItem `json:"items"`
}

// Client talks to the remote order API
type Client struct {
	http         *httpclient.Client
	createPath   string
	detailedPath string
}

// NewClient creates an order API client
func NewClient(cfg config.OrderAPIConfig) *Client {
	return &Client{
		http:         httpclient.New(cfg.BaseURL, cfg.Timeout),
		createPath:   cfg.CreatePath,
		detailedPath: cfg.DetailedPath,
	}
}

// Submit creates the order remotely. It makes exactly one call; failures are
// returned to the caller and never retried here.
func (c *Client) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	if len(req.Lines) == 0 {
		return nil, ErrNoItems
	}
	if !req.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("invalid payment method %q", req.PaymentMethod)
	}

	body := createOrderRequest{
		Phone:          req.Address.Phone,
		FullName:       req.Address.FullName,
		AddressLine:    req.Address.AddressLine,
		City:           req.Address.City,
		State:          req.Address.State,
		Pincode:        req.Address.Pincode,
		DeliveryCharge: req.DeliveryFee.InexactFloat64(),
		PaymentMethod:  req.PaymentMethod,
		Items:          make([]createOrderItem, 0, len(req.Lines)),
	}
	for _, line := range req.Lines {
		body.Items = append(body.Items, createOrderItem{
			ProductID: NumericProductID(line.ProductID),
			Quantity:  line.Quantity,
			Price:     line.UnitPrice.InexactFloat64(),
		})
	}

	var resp SubmitResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, c.createPath, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if resp.OrderID == 0 {
		return nil, ErrMissingOrderID
	}
	return &resp, nil
}

// ListDetailed returns every order as flat (order, product) rows
func (c *Client) ListDetailed(ctx context.Context) ([]DetailRow, error) {
	var rows []DetailRow
	if err := c.http.DoJSON(ctx, http.MethodGet, c.detailedPath, nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if rows == nil {
		rows = []DetailRow{}
	}
	return rows, nil
}

// NumericProductID converts a catalog id to the integer id the order API
// expects. Non-numeric or zero ids map to 1.
func NumericProductID(productID string) int {
	id, err := strconv.Atoi(productID)
	if err != nil || id == 0 {
		return 1
	}
	return id
}
