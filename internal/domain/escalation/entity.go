// internal/domain/escalation/entity.go
package escalation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status of an escalation
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// Record is a payment that completed at the gateway but whose order the
// remote API never recorded. Support staff reconcile these by hand.
type Record struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Reference       string          `gorm:"uniqueIndex;not null;size:40" json:"reference"`
	CustomerID      string          `gorm:"index;not null;size:64" json:"customer_id"`
	Gateway         string          `gorm:"size:20" json:"gateway"`
	GatewayOrderRef string          `gorm:"size:100" json:"gateway_order_ref"`
	PaymentID       string          `gorm:"size:100" json:"payment_id"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency        string          `gorm:"size:3;default:'INR'" json:"currency"`
	Payload         string          `gorm:"type:text" json:"payload"` // Intended order as JSON
	Reason          string          `gorm:"type:text" json:"reason"`
	Status          Status          `gorm:"size:20;not null;default:'open'" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Record
func (Record) TableName() string {
	return "payment_escalations"
}

// NewReference generates a short support reference such as ESC-1A2B3C4D
func NewReference() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ESC-" + strings.ToUpper(id[:8])
}
