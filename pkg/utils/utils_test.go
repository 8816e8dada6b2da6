package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(16)
	require.NoError(t, err)
	b, err := GenerateSecureToken(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Regexp(t, "^[0-9a-f]+$", a)
	assert.NotEqual(t, a, b)

	_, err = GenerateSecureToken(0)
	assert.Error(t, err)
}

func TestGetUserIDFromContext(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())

	_, err := GetUserIDFromContext(c)
	assert.ErrorIs(t, err, ErrNoUserInContext)

	c.Set("userID", "")
	_, err = GetUserIDFromContext(c)
	assert.ErrorIs(t, err, ErrNoUserInContext)

	c.Set("userID", "u1")
	id, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
}
