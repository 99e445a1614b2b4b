package auth

import "golang.org/x/crypto/bcrypt"

// AdminVerifier checks back-office credentials against the configured
// bcrypt hash. An empty hash disables admin login entirely.
type AdminVerifier struct {
	passwordHash string
}

// NewAdminVerifier builds an AdminVerifier for the stored hash.
func NewAdminVerifier(passwordHash string) *AdminVerifier {
	return &AdminVerifier{passwordHash: passwordHash}
}

// Verify reports whether the supplied password matches the stored hash.
func (v *AdminVerifier) Verify(password string) bool {
	if v.passwordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)) == nil
}
