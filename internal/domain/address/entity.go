// internal/domain/address/entity.go
package address

import (
	"strings"
	"time"
)

// Type labels an address
type Type string

const (
	TypeHome  Type = "Home"
	TypeWork  Type = "Work"
	TypeOther Type = "Other"
)

// Address represents a delivery address in a customer's book
type Address struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	AddressLine string    `json:"address_line"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Pincode     string    `json:"pincode"`
	Type        Type      `json:"type"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

// Fields is the user-supplied part of an address
type Fields struct {
	FullName    string `json:"full_name" validate:"required,min=3,max=50,alphaspace"`
	Phone       string `json:"phone" validate:"required,in_phone"`
	AddressLine string `json:"address_line" validate:"required,min=10,max=200"`
	City        string `json:"city" validate:"required,min=2,max=50,alphaspace"`
	State       string `json:"state" validate:"required,in_state"`
	Pincode     string `json:"pincode" validate:"required,pincode"`
	Type        Type   `json:"type" validate:"omitempty,oneof=Home Work Other"`
	IsDefault   bool   `json:"is_default"`
}

// Normalize trims whitespace and applies the Home type default
func (f Fields) Normalize() Fields {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.AddressLine = strings.TrimSpace(f.AddressLine)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Pincode = strings.TrimSpace(f.Pincode)
	if f.Type == "" {
		f.Type = TypeHome
	}
	return f
}

// Fields returns the user-supplied part of the address
func (a *Address) Fields() Fields {
	return Fields{
		FullName:    a.FullName,
		Phone:       a.Phone,
		AddressLine: a.AddressLine,
		City:        a.City,
		State:       a.State,
		Pincode:     a.Pincode,
		Type:        a.Type,
		IsDefault:   a.IsDefault,
	}
}

// FullAddress formats the address on one line
func (a *Address) FullAddress() string {
	return a.AddressLine + ", " + a.City + ", " + a.State + " - " + a.Pincode
}

// States lists the Indian states and union territories accepted for delivery
var States = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
	"Andaman and Nicobar Islands", "Chandigarh", "Dadra and Nagar Haveli",
	"Daman and Diu", "Delhi", "Jammu and Kashmir", "Ladakh", "Lakshadweep",
	"Puducherry",
}

var stateSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(States))
	for _, s := range States {
		set[s] = struct{}{}
	}
	return set
}()

// IsKnownState reports whether name is one of States
func IsKnownState(name string) bool {
	_, ok := stateSet[name]
	return ok
}
