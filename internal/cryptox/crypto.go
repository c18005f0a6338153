// Package cryptox implements password credential hashing for stored user
// accounts.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authority/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	saltLen             = 16

	scheme = "argon2id"
)

// ErrMalformedHash is returned when a stored credential cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

// DeriveKey stretches password with salt using argon2id and the package
// parameters.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword returns an encoded credential of the form
//
//	argon2id$<salt>$<key>
//
// with both parts in unpadded standard base64. A fresh random salt is used
// for every call.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(saltLen)
	key := DeriveKey([]byte(password), salt)

	enc := base64.RawStdEncoding
	return fmt.Sprintf("%s$%s$%s", scheme, enc.EncodeToString(salt), enc.EncodeToString(key))
}

// VerifyPassword reports whether password matches the encoded credential.
// The comparison of derived keys is constant time.
func VerifyPassword(encoded, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != scheme {
		return false, ErrMalformedHash
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	want, err := enc.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}

	got := DeriveKey([]byte(password), salt)
	defer common.WipeByteArray(got)

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
