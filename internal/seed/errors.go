package seed

import (
	"errors"
	"fmt"
	"strings"
)

// Seed validation error codes (S100-S199)
const (
	ErrEmpty  = "S100" // document is empty
	ErrDecode = "S101" // YAML could not be decoded
	ErrSchema = "S102" // document does not satisfy #Seed

	ErrDuplicateID      = "S110" // ID used twice within a collection
	ErrDuplicateEmail   = "S111" // two users share an email
	ErrUnknownCustomer  = "S112" // customer_id does not resolve
	ErrUnknownVendor    = "S113" // vendor_id does not resolve
	ErrUnknownDevice    = "S114" // device_id does not resolve
	ErrRuleCustomer     = "S115" // rule customer differs from its device's
	ErrMissingAffiliate = "S116" // role requires customer_id or vendor_id
	ErrMultipleFailure  = "S117" // more than one demo_failure device
	ErrNegativeAge      = "S118" // activity age is negative
)

// ValidationError is one problem found in a seed file.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// LoadError collects the validation errors of one seed file.
type LoadError struct {
	Name   string
	Errors []ValidationError
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	lines := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		lines[i] = ve.Error()
	}
	return fmt.Sprintf("invalid seed %s: %s", e.Name, strings.Join(lines, "; "))
}

// ValidationErrors extracts the validation errors from err.
// Uses errors.As to handle wrapped errors.
func ValidationErrors(err error) []ValidationError {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Errors
	}
	return nil
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
