// Package cryptox derives and checks password digests.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the per-user random salt.
const SaltSize = 16

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// DerivePasswordDigest computes the argon2id digest of password with salt.
// The digest is deterministic for equal inputs and cannot be reversed.
func DerivePasswordDigest(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// CheckPassword reports whether candidate hashes to digest under salt.
// The comparison runs in constant time.
func CheckPassword(candidate []byte, salt []byte, digest []byte) bool {
	got := DerivePasswordDigest(candidate, salt)
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(got, digest) == 1
}
