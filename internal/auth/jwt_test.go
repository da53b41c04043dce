package auth

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"acente-backend/internal/apitest"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	secret := testConfig().JWTSecret
	user := &models.User{ID: 7, Name: "Ayşe Yılmaz", Email: "ayse@acente.test", Role: models.RoleStaff}

	raw, err := GenerateToken(secret, user)
	require.NoError(t, err)

	claims, err := ParseToken(secret, raw)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "Ayşe Yılmaz", claims.Name)
	assert.Equal(t, models.RoleStaff, claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestParseTokenRejects(t *testing.T) {
	secret := testConfig().JWTSecret
	user := &models.User{ID: 7, Name: "Ayşe", Role: models.RoleStaff}

	expired, err := signToken(secret, user, time.Now().Add(-tokenTTL-time.Minute))
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionClaims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "baska-uygulama",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	anonymous, err := signToken(secret, &models.User{Name: "Kimsesiz"}, time.Now())
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionClaims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"süresi dolmuş":  expired,
		"farklı yayıncı": foreign,
		"kullanıcısız":   anonymous,
		"süresiz":        noExpiry,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(secret, raw)
			assert.Error(t, err)
		})
	}
}

func TestJWTMiddlewareSetsSession(t *testing.T) {
	cfg := testConfig()
	app := apitest.NewApp()
	app.Get("/whoami", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		userID, name, ok := Session(c)
		return c.JSON(fiber.Map{"user_id": userID, "name": name, "ok": ok})
	})

	raw, err := GenerateToken(cfg.JWTSecret, &models.User{ID: 3, Name: "Mehmet Kaya", Role: models.RoleAdmin})
	require.NoError(t, err)

	status, body := apitest.Do(t, app, http.MethodGet, "/whoami", nil, raw)
	require.Equal(t, http.StatusOK, status, string(body))

	var got struct {
		UserID uint   `json:"user_id"`
		Name   string `json:"name"`
		OK     bool   `json:"ok"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.OK)
	assert.EqualValues(t, 3, got.UserID)
	assert.Equal(t, "Mehmet Kaya", got.Name)
}
