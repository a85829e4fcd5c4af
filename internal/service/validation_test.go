package service

import (
	"testing"

	"flooring/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatorRejectsBadRule(t *testing.T) {
	_, err := newValidator(map[string]validator.Func{"": rules["customername"]})
	assert.Error(t, err)

	_, err = newValidator(map[string]validator.Func{"customername": nil})
	assert.Error(t, err)
}

func TestCustomerNameRule(t *testing.T) {
	check, err := newValidator(rules)
	require.NoError(t, err)

	type request struct {
		Name string `validate:"customername"`
	}

	assert.NoError(t, check(&request{Name: "Dr. Ada Lovelace 2"}))

	for _, name := range []string{"", "   ", "Acme, Inc", "O'Brien", "Line\nBreak"} {
		err := check(&request{Name: name})
		assert.ErrorIs(t, err, models.ErrValidation, name)
	}
}
