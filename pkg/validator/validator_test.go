package validator_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/superlists/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(
		validator.RequiredString("text", "Buy milk"),
		validator.ValidEmail("email", "edith@example.com"),
	))

	err := validator.Apply(
		validator.RequiredString("text", "   ").WithMessage("You can't have an empty list item"),
		validator.ValidEmail("email", "nope"),
		validator.MaxRunes("text", strings.Repeat("ж", 4), 3),
	)
	require.Error(t, err)

	ve := validator.ExtractValidationErrors(fmt.Errorf("wrapped: %w", err))
	require.Len(t, ve, 3)
	assert.True(t, ve.Has("text"))
	assert.True(t, ve.Has("email"))
	assert.False(t, ve.Has("sharee"))
	assert.Equal(t, []string{"You can't have an empty list item", "must be at most 3 characters long"}, ve.Get("text"))
	assert.Contains(t, err.Error(), "email: must be a valid email address")
}

func TestIsValidationError(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.IsValidationError(errors.Join(errors.New("x"), validator.Fail("text", "bad"))))
	assert.False(t, validator.IsValidationError(errors.New("x")))
	assert.False(t, validator.IsValidationError(nil))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("x")))
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"edith@example.com", "a.b+tag@sub.example.com", "noreply@superlists"}
	invalid := []string{"", "plain", "@example.com", "user@", "user@.example.com", "user@example..com",
		"Edith <edith@example.com>", " edith@example.com", strings.Repeat("a", 250) + "@x.io"}

	for _, v := range valid {
		assert.NoError(t, validator.Apply(validator.ValidEmail("email", v)), v)
	}
	for _, v := range invalid {
		assert.Error(t, validator.Apply(validator.ValidEmail("email", v)), v)
	}
}
