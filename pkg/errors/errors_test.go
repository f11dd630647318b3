package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationJoinsSortedFields(t *testing.T) {
	err := Validation(map[string][]string{
		"username": {"This field is required.", "Too short."},
		"email":    {"Enter a valid email address."},
	}, http.StatusBadRequest)

	assert.Equal(t, "email: Enter a valid email address. | username: This field is required., Too short.", err.Message)
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
}

func TestIsMatchesWrappedAppError(t *testing.T) {
	inner := Network("connection refused", nil)
	wrapped := fmt.Errorf("fetching cart: %w", inner)

	assert.True(t, Is(wrapped, "NETWORK_ERROR"))
	assert.False(t, Is(wrapped, "NOT_FOUND"))
	assert.False(t, Is(fmt.Errorf("plain"), "NETWORK_ERROR"))
}

func TestIsInvalidPage(t *testing.T) {
	assert.True(t, IsInvalidPage(InvalidPage(nil)))
	assert.False(t, IsInvalidPage(BadRequest("nope", nil)))
	assert.False(t, IsInvalidPage(nil))
}
