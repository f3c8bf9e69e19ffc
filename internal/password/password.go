// Package password provides one-way hashing and policy validation for user
// passwords and security-question answers.
package password

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns a salted one-way hash of the given plaintext. The salt is
// generated fresh on every call, so two hashes of the same plaintext differ.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. Malformed or
// truncated digests yield false, never an error.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// Validate checks the password policy: at least 8 characters, starting with a
// letter, containing at least one letter, one digit, and one special
// character. It returns the first failing rule's message.
func Validate(pw string) (bool, string) {
	runes := []rune(pw)
	if len(runes) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !unicode.IsLetter(runes[0]) {
		return false, "Password must start with a letter"
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasLetter || !hasDigit || !hasSpecial {
		return false, "Password must include a letter, a number, and a special character"
	}
	return true, "OK"
}
