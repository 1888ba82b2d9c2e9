package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrInvalidDigest is returned when a stored digest cannot be parsed.
	ErrInvalidDigest = errors.New("invalid password digest format")
	// ErrIncompatibleVersion is returned when a digest was produced by an
	// unsupported argon2 version.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// maxPasswordBytes caps the digest input. Longer passwords are truncated
// before hashing, so verification of a truncated password stays consistent
// with registration.
const maxPasswordBytes = 72

// Argon2Params holds the argon2id cost parameters. Digesting is the single
// most expensive call in the credential path; these defaults follow the
// current OWASP baseline.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the production cost parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// PasswordHasher hashes and verifies passwords with argon2id.
type PasswordHasher struct {
	params Argon2Params
}

// NewPasswordHasher creates a PasswordHasher with the given cost parameters.
func NewPasswordHasher(params Argon2Params) *PasswordHasher {
	return &PasswordHasher{params: params}
}

// Hash digests a plaintext password into a self-describing PHC string:
// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	password := capPassword(plaintext)

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey(password, salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify reports whether plaintext matches the stored digest. The comparison
// is constant-time; the cost parameters are read back from the digest itself
// so old hashes keep verifying after a cost bump.
func (h *PasswordHasher) Verify(digest, plaintext string) (bool, error) {
	params, salt, key, err := decodeDigest(digest)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(capPassword(plaintext), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func capPassword(plaintext string) []byte {
	password := []byte(plaintext)
	if len(password) > maxPasswordBytes {
		password = password[:maxPasswordBytes]
	}
	return password
}

func decodeDigest(digest string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, ErrInvalidDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Argon2Params{}, nil, nil, ErrInvalidDigest
	}
	if version != argon2.Version {
		return Argon2Params{}, nil, nil, ErrIncompatibleVersion
	}

	var params Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return Argon2Params{}, nil, nil, ErrInvalidDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, ErrInvalidDigest
	}
	params.SaltLength = uint32(len(salt))

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Argon2Params{}, nil, nil, ErrInvalidDigest
	}
	params.KeyLength = uint32(len(key))

	return params, salt, key, nil
}
