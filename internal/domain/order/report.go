// internal/domain/order/report.go
package order

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Summary aggregates the detailed order listing
type Summary struct {
	Orders    int             `json:"orders"`
	Customers int             `json:"customers"`
	Revenue   decimal.Decimal `json:"revenue"`
	Items     int             `json:"items"`
}

// Summarize counts distinct orders and customers and sums bills and units.
// Customers are distinguished by contact number.
func Summarize(rows []DetailRow) Summary {
	orders := make(map[int64]struct{})
	customers := make(map[string]struct{})
	summary := Summary{Revenue: decimal.Zero}

	for _, row := range rows {
		orders[row.OrderID] = struct{}{}
		customers[row.ContactNumber] = struct{}{}
		summary.Revenue = summary.Revenue.Add(row.TotalBill)
		summary.Items += row.Quantity
	}

	summary.Orders = len(orders)
	summary.Customers = len(customers)
	return summary
}

// Filter keeps rows matching search (customer name, contact number, product
// name or order id) and paymentMethod. Empty or "All" matches everything.
func Filter(rows []DetailRow, search, paymentMethod string) []DetailRow {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]DetailRow, 0, len(rows))

	for _, row := range rows {
		if paymentMethod != "" && paymentMethod != "All" && row.PaymentMethod != paymentMethod {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(row.CustomerName), search) &&
			!strings.Contains(row.ContactNumber, search) &&
			!strings.Contains(strings.ToLower(row.ProductName), search) &&
			!strings.Contains(strconv.FormatInt(row.OrderID, 10), search) {
			continue
		}
		out = append(out, row)
	}
	return out
}
