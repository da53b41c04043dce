package auth

import (
	"errors"
	"strconv"
	"time"

	"acente-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer = "acente-backend"
	tokenTTL    = 12 * time.Hour // bir mesai günü
)

// SessionClaims oturum sahibini taşır. Ad audit kayıtlarına token'dan yazılır,
// her istekte kullanıcı tablosuna gidilmez.
type SessionClaims struct {
	UserID uint            `json:"uid"`
	Name   string          `json:"name"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	return signToken(secret, user, time.Now())
}

func signToken(secret string, user *models.User, now time.Time) (string, error) {
	claims := &SessionClaims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken imzayı, süreyi ve yayıncıyı doğrular.
func ParseToken(secret, raw string) (*SessionClaims, error) {
	key := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	claims := &SessionClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, errors.New("token kullanıcı bilgisi içermiyor")
	}
	return claims, nil
}
