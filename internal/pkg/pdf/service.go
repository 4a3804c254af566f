// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/pharmacy-checkout/internal/config"
	"github.com/your-org/pharmacy-checkout/internal/domain/order"
)

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "₹" + d.StringFixed(2) },
}).Parse(receiptTemplate))

// Service renders order receipts
type Service struct {
	store config.ReceiptConfig
}

// NewService creates a new PDF service
func NewService(cfg config.ReceiptConfig) *Service {
	return &Service{
		store: cfg,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	Store       config.ReceiptConfig
	Order       *order.Order
	OrderDate   string
	AddressText string
	GrandTotal  decimal.Decimal
}

// RenderHTML builds the receipt page for an order
func (s *Service) RenderHTML(o *order.Order) (string, error) {
	if o == nil {
		return "", fmt.Errorf("order is required")
	}

	data := ReceiptData{
		Store:       s.store,
		Order:       o,
		OrderDate:   o.CreatedAt.Format("January 2, 2006 15:04"),
		AddressText: o.Address.FullAddress(),
		GrandTotal:  o.GrandTotal(),
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateReceipt renders the receipt and converts it to PDF with wkhtmltopdf
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(8)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt #{{.Order.OrderID}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 12px; margin-bottom: 20px; }
        .title { font-size: 22px; font-weight: bold; color: #0f766e; }
        .section-title { font-size: 14px; font-weight: bold; margin: 16px 0 6px; }
        .items { width: 100%; border-collapse: collapse; }
        .items th, .items td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        .items th { background-color: #f8f9fa; }
        .num { text-align: right; }
        .totals { margin-top: 16px; width: 260px; float: right; }
        .totals td { padding: 4px 8px; }
        .total-row { font-weight: bold; border-top: 2px solid #333; }
        .footer { clear: both; margin-top: 40px; text-align: center; color: #666; font-size: 11px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.Store.StoreName}}</div>
        <p><strong>Order #:</strong> {{.Order.OrderID}}</p>
        <p><strong>Date:</strong> {{.OrderDate}}</p>
        <p><strong>Payment:</strong> {{.Order.PaymentMethod}}{{if .Order.PaymentID}} ({{.Order.PaymentID}}){{end}}</p>
    </div>

    <div class="section-title">Deliver To</div>
    <p><strong>{{.Order.Address.FullName}}</strong></p>
    <p>{{.AddressText}}</p>
    <p>Phone: {{.Order.Address.Phone}}</p>

    <div class="section-title">Items</div>
    <table class="items">
        <thead>
            <tr><th>Medicine</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{if .Name}}{{.Name}}{{else}}Product {{.ProductID}}{{end}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .UnitPrice}}</td>
                <td class="num">{{money .LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="num">{{money .Order.TotalAmount}}</td></tr>
        <tr><td>Delivery</td><td class="num">{{if .Order.DeliveryCharge.IsZero}}FREE{{else}}{{money .Order.DeliveryCharge}}{{end}}</td></tr>
        <tr class="total-row"><td>Total</td><td class="num">{{money .GrandTotal}}</td></tr>
    </table>

    <div class="footer">
        <p>Thank you for shopping with {{.Store.StoreName}}.</p>
        {{if .Store.SupportEmail}}<p>Questions? Contact {{.Store.SupportEmail}}{{if .Store.SupportPhone}} or {{.Store.SupportPhone}}{{end}}</p>{{end}}
    </div>
</body>
</html>
`
