// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate checks reader input and reports every failed field at once.

Rules chain on a [Validator], and Err turns whatever failed into a single
VALIDATION_ERROR:

	err := (&validate.Validator{}).
		Range("fontSize", settings.FontSize, 12, 32).
		OneOf("theme", settings.Theme, "light", "dark", "sepia").
		Err()

A Validator is single use and not safe for concurrent use.
*/
package validate

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taibuivan/lectio/internal/platform/apperr"
)

// ErrInvalidJSON is returned when a request body does not decode.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

type Validator struct {
	errs []apperr.FieldError
}

// Required fails on an empty or blank value.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "This field is required")
}

// MaxLen counts runes, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(utf8.RuneCountInString(value) <= max, field, fmt.Sprintf("Maximum %d characters", max))
}

// MinLen counts runes, not bytes.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(utf8.RuneCountInString(value) >= min, field, fmt.Sprintf("Minimum %d characters", min))
}

// Range is inclusive on both ends.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.check(value >= min && value <= max, field, fmt.Sprintf("Must be between %d and %d", min, max))
}

// FloatRange is inclusive on both ends.
func (v *Validator) FloatRange(field string, value, min, max float64) *Validator {
	return v.check(value >= min && value <= max, field, fmt.Sprintf("Must be between %g and %g", min, max))
}

// UUID accepts any canonical UUID regardless of case.
func (v *Validator) UUID(field, value string) *Validator {
	_, err := uuid.Parse(value)
	return v.check(err == nil && len(value) == 36, field, "Must be a valid UUID")
}

// HexColor accepts "#rrggbb" only.
func (v *Validator) HexColor(field, value string) *Validator {
	valid := len(value) == 7 && value[0] == '#' && strings.Trim(value[1:], "0123456789abcdefABCDEF") == ""
	return v.check(valid, field, "Must be a color in #rrggbb form")
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(slices.Contains(allowed, value), field, "Must be one of: "+strings.Join(allowed, ", "))
}

func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Err returns nil when every rule passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}
