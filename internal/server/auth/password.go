package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the historical cost factor of the service. Raising it
// only affects newly created hashes; existing ones keep their embedded cost.
const bcryptCost = 10

// HashPassword produces an adaptive, salted bcrypt hash of the plaintext.
// The salt is generated per call, so hashing the same password twice yields
// different strings that both verify.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored bcrypt hash,
// using bcrypt's own comparison primitive. A mismatch is a plain false,
// never an error: error signaling is the caller's responsibility.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
