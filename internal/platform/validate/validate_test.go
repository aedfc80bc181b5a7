// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "book", "Genesis", false},
		{"empty_string", "book", "", true},
		{"whitespace_only", "book", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_HexColor checks the "#rrggbb" rule used by highlights.
*/
func TestValidator_HexColor(t *testing.T) {
	tests := []struct {
		name    string
		color   string
		isValid bool
	}{
		{"lowercase", "#ffeb3b", true},
		{"uppercase", "#4CAF50", true},
		{"short_form", "#fff", false},
		{"named_color", "yellow", false},
		{"missing_hash", "ffeb3b", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.HexColor("color", tt.color)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Ranges checks inclusive integer and float bounds.
*/
func TestValidator_Ranges(t *testing.T) {
	v := &validate.Validator{}
	v.Range("fontSize", 12, 12, 32).Range("fontSize", 32, 12, 32).
		FloatRange("lineHeight", 1.2, 1.2, 2.5).FloatRange("lineHeight", 2.5, 1.2, 2.5)
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.Range("fontSize", 33, 12, 32).FloatRange("lineHeight", 1.1, 1.2, 2.5)

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "Must be between 12 and 32", ae.Details[0].Message)
	assert.Equal(t, "Must be between 1.2 and 2.5", ae.Details[1].Message)
}

/*
TestValidator_OneOfAndUUID covers enumerations and identifiers.
*/
func TestValidator_OneOfAndUUID(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("theme", "sepia", "light", "dark", "sepia").
		UUID("id", "0195F3A2-7C1E-7B42-9C3D-5E6F7A8B9C0D")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.OneOf("theme", "neon", "light", "dark").UUID("id", "session-1")

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "Must be one of: light, dark", ae.Details[0].Message)
	assert.Equal(t, "id", ae.Details[1].Field)
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("passphrase", "still waters").
		MinLen("passphrase", "still waters", 8).
		MaxLen("note", "In the beginning", 500).
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("passphrase", "").       // Fails
		MinLen("passphrase", "short", 8). // Fails
		HexColor("color", "red").         // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
