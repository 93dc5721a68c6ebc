package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmailVariantsCollapse(t *testing.T) {
	variants := []string{"a@x.com", "A@X.COM", "  a@x.com\t", " A@x.Com "}

	for _, v := range variants {
		got, err := NormalizeEmail(v)
		require.NoError(t, err, v)
		assert.Equal(t, "a@x.com", got)
	}
}

func TestNormalizeEmailRejectsMalformed(t *testing.T) {
	for _, v := range []string{"", "   ", "not-an-email", "a@", "@x.com"} {
		_, err := NormalizeEmail(v)
		assert.Error(t, err, v)
	}
}

type sample struct {
	Title string `validate:"required"`
	Email string `validate:"required,email"`
}

func TestFormatValidationError(t *testing.T) {
	err := validator.New().Struct(sample{Email: "nope"})
	require.Error(t, err)

	assert.Equal(t, "title is required; email must be a valid email address", FormatValidationError(err))
	assert.Equal(t, "plain", FormatValidationError(errors.New("plain")))
}

func TestHasTag(t *testing.T) {
	err := validator.New().Struct(sample{Email: "nope"})
	require.Error(t, err)

	assert.True(t, HasTag(err, "required"))
	assert.True(t, HasTag(err, "email"))
	assert.False(t, HasTag(err, "max"))
	assert.False(t, HasTag(errors.New("plain"), "required"))
}
