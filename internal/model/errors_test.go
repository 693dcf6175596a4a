package model

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	t.Run("carries status and message", func(t *testing.T) {
		err := NewAPIError("New password required", http.StatusForbidden)

		assert.Equal(t, http.StatusForbidden, err.Status)
		assert.Equal(t, "New password required", err.Error())
		assert.Nil(t, err.Details)
	})

	t.Run("details survive wrapping", func(t *testing.T) {
		details := map[string]string{"reason": "expired"}
		err := NewAPIErrorWithDetails("session invalid", http.StatusUnauthorized, details)
		wrapped := fmt.Errorf("logging out: %w", err)

		var apiErr *APIError
		require.ErrorAs(t, wrapped, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, details, apiErr.Details)
	})
}

func TestErrNotFound(t *testing.T) {
	wrapped := fmt.Errorf("failed to get user: %w", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}
