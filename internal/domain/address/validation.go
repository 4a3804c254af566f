// internal/domain/address/validation.go
package address

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	alphaSpaceRegex = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phoneRegex      = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodeRegex    = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// FieldError describes one rejected field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when address fields fail the schema
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "address validation failed: " + strings.Join(parts, "; ")
}

// Messages for each field/tag pair, keyed "<json field>.<tag>"
var messages = map[string]string{
	"full_name.required":    "Full name must be at least 3 characters",
	"full_name.min":         "Full name must be at least 3 characters",
	"full_name.max":         "Full name cannot exceed 50 characters",
	"full_name.alphaspace":  "Name can only contain letters and spaces",
	"phone.required":        "Please enter a valid 10-digit Indian mobile number",
	"phone.in_phone":        "Please enter a valid 10-digit Indian mobile number",
	"address_line.required": "Address must be at least 10 characters",
	"address_line.min":      "Address must be at least 10 characters",
	"address_line.max":      "Address cannot exceed 200 characters",
	"city.required":         "City name must be at least 2 characters",
	"city.min":              "City name must be at least 2 characters",
	"city.max":              "City name cannot exceed 50 characters",
	"city.alphaspace":       "City can only contain letters and spaces",
	"state.required":        "Please select a state",
	"state.in_state":        "Please select a state",
	"pincode.required":      "Please enter a valid 6-digit PIN code",
	"pincode.pincode":       "Please enter a valid 6-digit PIN code",
	"type.oneof":            "Address type must be Home, Work or Other",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpaceRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "in_phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "pincode", func(fl validator.FieldLevel) bool {
		return pincodeRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "in_state", func(fl validator.FieldLevel) bool {
		return IsKnownState(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("failed to register validation " + tag + ": " + err.Error())
	}
}

// Validate checks fields against the address schema. It returns
// *ValidationError listing every rejected field, or nil.
func Validate(fields Fields) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		field := fe.Field()
		if seen[field] {
			continue
		}
		seen[field] = true

		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Message: msg})
	}
	return out
}
