package fakeapi

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid token")

// Claims are the custom claims carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role  models.Role `json:"role"`
	Epoch int         `json:"epoch"`
}

// GenerateToken signs a token for userID valid for ttl. A negative ttl
// yields an already expired token.
func GenerateToken(userID string, role models.Role, epoch int, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Role:  role,
		Epoch: epoch,
	})
	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry of tokenString.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}
