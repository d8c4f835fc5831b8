package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated user and their active organization.
type Claims struct {
	UserID         string `json:"userId"`
	OrganizationID string `json:"activeOrganizationId"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 JWT for the user scoped to one organization.
func GenerateToken(userID, organizationID, secret string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:         userID,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
