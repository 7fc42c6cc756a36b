package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token IDs for revocation
)

// SessionDuration is how long a login session stays valid
const SessionDuration = 24 * time.Hour

// Session claims
type Claims struct {
	UserID               uint `json:"user_id"` // Custom claim for user ID
	jwt.RegisteredClaims      // Standard JWT claims
}

// GenerateSessionToken creates a signed session token for a given user ID.
// The jti claim identifies the session so logout can revoke it.
func GenerateSessionToken(userID uint, secret string) (string, error) {
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),                                    // Session ID, used by the revocation list
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionDuration)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(time.Now()),                      // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseSessionToken parses and validates a session token string
func ParseSessionToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	return nil, jwt.ErrSignatureInvalid
}
