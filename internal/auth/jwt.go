package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the caller resolved from a bearer token. ManualSyncTrigger
// matches it against the integration's user or organization owner.
type Identity struct {
	UserID         string
	OrganizationID string
}

func (i Identity) Empty() bool {
	return strings.TrimSpace(i.UserID) == "" && strings.TrimSpace(i.OrganizationID) == ""
}

type Claims struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id,omitempty"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token for the given identity. Tokens are normally
// issued by the platform's auth layer; this is used by tests and local
// tooling.
func NewToken(ident Identity, secret string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:         ident.UserID,
		OrganizationID: ident.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenSignatureInvalid
}
