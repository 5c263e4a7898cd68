package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenDuration is how long a mini-app bearer token stays valid.
const TokenDuration = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims are the mini-app bearer token claims. The host's auth gateway
// signs these after verifying the user; a valid token pins the identity a
// request may act as.
type Claims struct {
	Fid      int64  `json:"fid"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed mini-app token for a player identity.
func GenerateToken(fid int64, username string, secret []byte) (string, error) {
	claims := Claims{
		Fid:      fid,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "mathblitz-api",
			Subject:   fmt.Sprintf("%d", fid),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a mini-app token and returns its claims.
func ValidateToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
