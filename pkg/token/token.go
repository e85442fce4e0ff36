// Package token issues and verifies the bearer tokens used by the API.
package token

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"campushub.events/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

const tokenTTL = 24 * time.Hour

// Claims is what a verified token resolves to.
type Claims struct {
	UserID uint
	Role   models.UserRole
}

func secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// Generate signs a HS256 token for the user.
func Generate(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// Parse verifies the signature and expiry and extracts the claims.
func Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, _ := mapClaims["role"].(string)
	return &Claims{UserID: uint(id), Role: models.UserRole(role)}, nil
}
