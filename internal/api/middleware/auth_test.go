package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"route-planner/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "s3cret"

func signed(t *testing.T, key string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JwtCustomClaims{
		UserID:           "u1",
		Email:            "u1@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	})
	s, err := tok.SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("userID").(string)+" "+c.Get("userEmail").(string))
	}, JWTAuth(secret))

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := get(signed(t, secret, time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1 u1@example.com", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get("").Code)
	assert.Equal(t, http.StatusUnauthorized, get("garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(signed(t, "other", time.Now().Add(time.Hour))).Code)
	assert.Equal(t, http.StatusUnauthorized, get(signed(t, secret, time.Now().Add(-time.Hour))).Code)
}
