package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MentorClaims defines the data carried inside a mentor session token.
type MentorClaims struct {
	MentorID string   `json:"mentor_id"`
	Students []string `json:"students"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for an authenticated mentor.
func GenerateToken(secret []byte, mentorID string, students []string,
	ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &MentorClaims{
		MentorID: mentorID,
		Students: students,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "svasthya",
		},
	}

	// HS256 (HMAC with SHA256).
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses a token string and verifies its signature and expiry.
func ValidateToken(secret []byte, tokenString string) (*MentorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &MentorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*MentorClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
