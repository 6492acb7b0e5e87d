package game

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	passwordIterations = 100000
	passwordKeyLength  = 32
	passwordSaltLength = 16
)

// Password is a salted PBKDF2-SHA256 hash of a game's shared password.
type Password struct {
	Hash string
	Salt []byte
}

// HashPassword derives a hash for plain with a fresh random salt.
func HashPassword(plain string) (*Password, error) {
	salt := make([]byte, passwordSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return &Password{
		Hash: derive(plain, salt),
		Salt: salt,
	}, nil
}

// Verify recomputes the hash of candidate with the stored salt.
func (p *Password) Verify(candidate string) bool {
	computed := derive(candidate, p.Salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(p.Hash)) == 1
}

func derive(plain string, salt []byte) string {
	key := pbkdf2.Key([]byte(plain), salt, passwordIterations, passwordKeyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}
