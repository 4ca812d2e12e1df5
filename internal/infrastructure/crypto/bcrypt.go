package crypto

import "golang.org/x/crypto/bcrypt"

// DefaultCost matches bcrypt work-factor 10.
const DefaultCost = 10

// BcryptHasher hashes passwords with bcrypt. Equal plaintexts produce
// different records because the salt is random per call.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given work factor. Costs outside
// bcrypt's supported range fall back to DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify recomputes with the salt embedded in record and compares in
// constant time. Malformed records report false rather than an error.
func (h *BcryptHasher) Verify(plaintext, record string) bool {
	return bcrypt.CompareHashAndPassword([]byte(record), []byte(plaintext)) == nil
}
