// internal/domain/address/book.go
package address

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAddressNotFound = errors.New("address not found")

// Book is a customer's address book plus the address chosen for checkout.
// At most one address is default; the selection always names an existing
// address or is empty.
type Book struct {
	addresses  []Address
	selectedID string
}

// NewBook creates an empty address book
func NewBook() *Book {
	return &Book{addresses: []Address{}}
}

// Create validates fields and appends a new address. The first address
// becomes default and is selected; later ones leave the selection alone.
func (b *Book) Create(fields Fields) (*Address, error) {
	fields = fields.Normalize()
	if err := Validate(fields); err != nil {
		return nil, err
	}

	addr := Address{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
	applyFields(&addr, fields)

	if len(b.addresses) == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		b.clearDefault()
	}
	b.addresses = append(b.addresses, addr)

	if b.selectedID == "" {
		b.selectedID = addr.ID
	}

	out := addr
	return &out, nil
}

// Update replaces the fields of an existing address. The id is kept and the
// default flag only changes when fields.IsDefault is set.
func (b *Book) Update(id string, fields Fields) (*Address, error) {
	i := b.indexOf(id)
	if i < 0 {
		return nil, ErrAddressNotFound
	}

	fields = fields.Normalize()
	if err := Validate(fields); err != nil {
		return nil, err
	}

	wasDefault := b.addresses[i].IsDefault
	applyFields(&b.addresses[i], fields)
	if fields.IsDefault {
		b.clearDefault()
		b.addresses[i].IsDefault = true
	} else {
		b.addresses[i].IsDefault = wasDefault
	}

	out := b.addresses[i]
	return &out, nil
}

// Delete removes an address. Deleting the selected address selects the first
// remaining one; deleting the default promotes the first remaining one.
func (b *Book) Delete(id string) error {
	i := b.indexOf(id)
	if i < 0 {
		return ErrAddressNotFound
	}

	wasDefault := b.addresses[i].IsDefault
	b.addresses = append(b.addresses[:i], b.addresses[i+1:]...)

	if wasDefault && len(b.addresses) > 0 {
		b.addresses[0].IsDefault = true
	}
	if b.selectedID == id {
		b.selectedID = ""
		if len(b.addresses) > 0 {
			b.selectedID = b.addresses[0].ID
		}
	}
	return nil
}

// Select marks an address as the one to ship to
func (b *Book) Select(id string) error {
	if b.indexOf(id) < 0 {
		return ErrAddressNotFound
	}
	b.selectedID = id
	return nil
}

// SetDefault makes id the only default address
func (b *Book) SetDefault(id string) error {
	i := b.indexOf(id)
	if i < 0 {
		return ErrAddressNotFound
	}
	b.clearDefault()
	b.addresses[i].IsDefault = true
	return nil
}

// Selected returns a copy of the selected address, or nil
func (b *Book) Selected() *Address {
	if i := b.indexOf(b.selectedID); i >= 0 {
		out := b.addresses[i]
		return &out
	}
	return nil
}

// SelectedID returns the selected address id, empty when none
func (b *Book) SelectedID() string {
	return b.selectedID
}

// Get returns a copy of one address
func (b *Book) Get(id string) (*Address, error) {
	i := b.indexOf(id)
	if i < 0 {
		return nil, ErrAddressNotFound
	}
	out := b.addresses[i]
	return &out, nil
}

// Addresses returns a copy of all addresses in insertion order
func (b *Book) Addresses() []Address {
	out := make([]Address, len(b.addresses))
	copy(out, b.addresses)
	return out
}

// Len returns the number of addresses
func (b *Book) Len() int {
	return len(b.addresses)
}

type bookState struct {
	Addresses  []Address `json:"addresses"`
	SelectedID string    `json:"selected_id"`
}

// MarshalJSON implements json.Marshaler
func (b *Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookState{Addresses: b.addresses, SelectedID: b.selectedID})
}

// UnmarshalJSON implements json.Unmarshaler. A dangling selection is moved to
// the first address and extra default flags are dropped.
func (b *Book) UnmarshalJSON(data []byte) error {
	var state bookState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	b.addresses = state.Addresses
	if b.addresses == nil {
		b.addresses = []Address{}
	}

	hasDefault := false
	for i := range b.addresses {
		if b.addresses[i].IsDefault {
			if hasDefault {
				b.addresses[i].IsDefault = false
			}
			hasDefault = true
		}
	}

	b.selectedID = state.SelectedID
	if b.indexOf(b.selectedID) < 0 {
		b.selectedID = ""
		if len(b.addresses) > 0 {
			b.selectedID = b.addresses[0].ID
		}
	}
	return nil
}

func (b *Book) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range b.addresses {
		if b.addresses[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Book) clearDefault() {
	for i := range b.addresses {
		b.addresses[i].IsDefault = false
	}
}

func applyFields(addr *Address, fields Fields) {
	addr.FullName = fields.FullName
	addr.Phone = fields.Phone
	addr.AddressLine = fields.AddressLine
	addr.City = fields.City
	addr.State = fields.State
	addr.Pincode = fields.Pincode
	addr.Type = fields.Type
	addr.IsDefault = fields.IsDefault
}
