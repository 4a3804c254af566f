package address

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() Fields {
	return Fields{
		FullName:    "Asha Verma",
		Phone:       "9876543210",
		AddressLine: "12 MG Road, Indiranagar",
		City:        "Bengaluru",
		State:       "Karnataka",
		Pincode:     "560038",
	}
}

func countDefaults(b *Book) int {
	n := 0
	for _, a := range b.Addresses() {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestValidate_AcceptsValidFields(t *testing.T) {
	assert.NoError(t, Validate(validFields().Normalize()))
}

func TestValidate_RejectsFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Fields)
		field   string
		message string
	}{
		{"phone starting with 5", func(f *Fields) { f.Phone = "5123456789" }, "phone", "Please enter a valid 10-digit Indian mobile number"},
		{"short phone", func(f *Fields) { f.Phone = "98765" }, "phone", "Please enter a valid 10-digit Indian mobile number"},
		{"pincode starting with 0", func(f *Fields) { f.Pincode = "012345" }, "pincode", "Please enter a valid 6-digit PIN code"},
		{"name with digit", func(f *Fields) { f.FullName = "John3" }, "full_name", "Name can only contain letters and spaces"},
		{"short name", func(f *Fields) { f.FullName = "Al" }, "full_name", "Full name must be at least 3 characters"},
		{"short address line", func(f *Fields) { f.AddressLine = "Flat 1" }, "address_line", "Address must be at least 10 characters"},
		{"city with digits", func(f *Fields) { f.City = "Pune 1" }, "city", "City can only contain letters and spaces"},
		{"unknown state", func(f *Fields) { f.State = "Atlantis" }, "state", "Please select a state"},
		{"bad type", func(f *Fields) { f.Type = "Office" }, "type", "Address type must be Home, Work or Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.mutate(&fields)

			err := Validate(fields.Normalize())

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Equal(t, tt.message, verr.Fields[0].Message)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	err := Validate(Fields{Type: TypeHome})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 6)
}

func TestCreate_FirstAddressIsDefaultAndSelected(t *testing.T) {
	book := NewBook()

	first, err := book.Create(validFields())
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, TypeHome, first.Type)
	assert.Equal(t, first.ID, book.SelectedID())

	second, err := book.Create(validFields())
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, first.ID, book.SelectedID())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreate_InvalidLeavesBookUntouched(t *testing.T) {
	book := NewBook()
	fields := validFields()
	fields.Phone = "5123456789"

	_, err := book.Create(fields)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, book.Len())
	assert.Empty(t, book.SelectedID())
}

func TestCreate_DefaultFlagIsExclusive(t *testing.T) {
	book := NewBook()
	_, err := book.Create(validFields())
	require.NoError(t, err)

	fields := validFields()
	fields.IsDefault = true
	second, err := book.Create(fields)
	require.NoError(t, err)

	assert.Equal(t, 1, countDefaults(book))
	got, err := book.Get(second.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestUpdate_PreservesIDAndDefault(t *testing.T) {
	book := NewBook()
	addr, err := book.Create(validFields())
	require.NoError(t, err)

	fields := validFields()
	fields.City = "Mysuru"
	updated, err := book.Update(addr.ID, fields)
	require.NoError(t, err)

	assert.Equal(t, addr.ID, updated.ID)
	assert.Equal(t, "Mysuru", updated.City)
	assert.True(t, updated.IsDefault)
}

func TestUpdate_InvalidKeepsOldFields(t *testing.T) {
	book := NewBook()
	addr, err := book.Create(validFields())
	require.NoError(t, err)

	fields := validFields()
	fields.Pincode = "012345"
	_, err = book.Update(addr.ID, fields)
	require.Error(t, err)

	got, err := book.Get(addr.ID)
	require.NoError(t, err)
	assert.Equal(t, "560038", got.Pincode)
}

func TestDelete_SelectedFallsBackToFirst(t *testing.T) {
	book := NewBook()
	a, _ := book.Create(validFields())
	b, _ := book.Create(validFields())
	c, _ := book.Create(validFields())
	require.NoError(t, book.Select(c.ID))

	require.NoError(t, book.Delete(c.ID))
	assert.Equal(t, a.ID, book.SelectedID())

	require.NoError(t, book.Delete(a.ID))
	assert.Equal(t, b.ID, book.SelectedID())
	assert.Equal(t, 1, countDefaults(book))

	require.NoError(t, book.Delete(b.ID))
	assert.Empty(t, book.SelectedID())
	assert.Nil(t, book.Selected())
}

func TestDelete_NonSelectedKeepsSelection(t *testing.T) {
	book := NewBook()
	a, _ := book.Create(validFields())
	b, _ := book.Create(validFields())

	require.NoError(t, book.Delete(b.ID))
	assert.Equal(t, a.ID, book.SelectedID())
}

func TestSetDefault_Exclusive(t *testing.T) {
	book := NewBook()
	_, _ = book.Create(validFields())
	b, _ := book.Create(validFields())

	require.NoError(t, book.SetDefault(b.ID))

	assert.Equal(t, 1, countDefaults(book))
	got, _ := book.Get(b.ID)
	assert.True(t, got.IsDefault)
}

func TestUnknownIDs(t *testing.T) {
	book := NewBook()

	assert.ErrorIs(t, book.Select("nope"), ErrAddressNotFound)
	assert.ErrorIs(t, book.SetDefault("nope"), ErrAddressNotFound)
	assert.ErrorIs(t, book.Delete("nope"), ErrAddressNotFound)
	_, err := book.Update("nope", validFields())
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestUnmarshal_RepairsDanglingSelection(t *testing.T) {
	raw := `{"addresses":[{"id":"a","is_default":true},{"id":"b","is_default":true}],"selected_id":"gone"}`

	book := NewBook()
	require.NoError(t, json.Unmarshal([]byte(raw), book))

	assert.Equal(t, "a", book.SelectedID())
	assert.Equal(t, 1, countDefaults(book))
}
