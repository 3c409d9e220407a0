package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

// Hasher hashes and checks passwords with bcrypt. Passwords are reduced to a
// base64 SHA-256 digest first: bcrypt rejects inputs over 72 bytes, and a
// 128 character password can be several times that.
type Hasher struct {
	cost int

	dummyOnce   sync.Once
	dummyDigest []byte
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(prehash(password), h.cost)
	return string(bytes), err
}

// Verify never fails: a wrong password or a malformed digest is just false.
func (h *Hasher) Verify(password, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), prehash(password))
	return err == nil
}

// VerifyMissing spends the same work as Verify for a login whose account does
// not exist, and always reports false.
func (h *Hasher) VerifyMissing(password string) bool {
	h.dummyOnce.Do(func() {
		h.dummyDigest, _ = bcrypt.GenerateFromPassword([]byte("no-such-account"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyDigest, prehash(password))
	return false
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
