package helper

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordValidate compare the password with the configured one.
// bcrypt hashes ($2a$, $2b$, $2y$) are checked with bcrypt, plain values in constant time.
func PasswordValidate(password string, configured string) bool {
	if configured == "" {
		return false
	}

	if IsBcrypt(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(configured)) == 1
}

// IsBcrypt reports whether the value looks like a bcrypt hash
func IsBcrypt(value string) bool {
	return len(value) == 60 && (strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$"))
}
