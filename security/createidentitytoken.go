package security

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type BackofficeIdentity struct {
	ID       string
	UserName string
	Email    string
	Roles    []string
}

type Identity struct {
	ID         string   `json:"nameid"`
	UniqueName string   `json:"unique_name"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
}

type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

func CreateIdentityToken(identity *BackofficeIdentity, base64Secret string, expiresInSeconds int64) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}
	claims := IdentityClaims{
		Identity: Identity{
			ID:         identity.ID,
			UniqueName: identity.UserName,
			Email:      identity.Email,
			Roles:      identity.Roles,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "backoffice",
			Audience:  []string{"backoffice.meridianadvisory.com"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiresInSeconds) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretBytes)
}
