// Package auth implements the stateless credential primitives of the server:
// signed access/refresh tokens (JWT, HS256) and adaptive password hashing.
//
// Tokens are immutable value types. "Rotation" always means issuing a brand
// new token; nothing here mutates or stores an issued token.
package auth

import (
	"errors"
	"time"

	"github.com/avolkov/roomly/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClass discriminates the two token kinds carried in the token_class
// claim. A token is only ever accepted by the operation matching its class.
type TokenClass string

const (
	ClassAccess  TokenClass = "access"
	ClassRefresh TokenClass = "refresh"
)

// Claims is the payload embedded in every issued token: registered claims
// (subject id, issued-at, expiry) plus the subject's email and the token class.
type Claims struct {
	jwt.RegisteredClaims
	Email string     `json:"email"`
	Class TokenClass `json:"token_class"`
}

// GenerateToken mints a signed HS256 token for the given subject.
// Both classes are signed with the same secret; the token_class claim is the
// only discriminator, which is why ParseToken enforces it strictly.
func GenerateToken(userID, email string, class TokenClass, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Email: email,
		Class: class,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates signature and expiry and then checks the embedded
// token class against expectedClass.
//
// Failures are distinguished for logging only:
//   - common.ErrTokenExpired for an expired token,
//   - common.ErrWrongTokenClass for a class mismatch,
//   - common.ErrInvalidToken for everything else (bad signature, malformed).
//
// Callers at the transport boundary must collapse all three into a single
// unauthorized outcome; the distinction is never exposed to clients.
func ParseToken(tokenString string, expectedClass TokenClass, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Class != expectedClass {
		return nil, common.ErrWrongTokenClass
	}

	return claims, nil
}
