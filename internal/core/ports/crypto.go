package ports

import "github.com/plataforma/accounts-api/internal/core/domain"

// PasswordHasher defines the contract for one-way password hashing so the
// core does not care about the algorithm.
type PasswordHasher interface {
	// Hash salts and hashes a plaintext password.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches the stored record. A
	// malformed record is simply a mismatch, never an error.
	Verify(plaintext, record string) bool
}

// TokenService mints and verifies the bearer tokens that carry a caller
// identity between requests.
type TokenService interface {
	Issue(userID, role string) (string, error)
	// Verify returns the embedded caller identity, or one of
	// domain.ErrInvalidToken / domain.ErrExpiredToken.
	Verify(raw string) (domain.Caller, error)
}
