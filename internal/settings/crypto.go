package settings

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// argon2id parameters for the sealing key
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	saltSize   = 16
)

var errOpen = errors.New("settings: cannot decrypt credential")

// sealer encrypts character passwords at rest.
type sealer struct {
	key [32]byte
}

// newSealer derives the key from secret and the per-install salt.
func newSealer(secret string, salt []byte) sealer {
	var s sealer
	copy(s.key[:], argon2.IDKey([]byte(secret), salt, kdfTime, kdfMemory, kdfThreads, uint32(len(s.key))))
	return s
}

func newSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("settings: salt: %w", err)
	}
	return salt, nil
}

func (s sealer) seal(plain string) ([]byte, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("settings: nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key), nil
}

func (s sealer) open(box []byte) (string, error) {
	if len(box) == 0 {
		return "", nil
	}
	if len(box) < 24+secretbox.Overhead {
		return "", errOpen
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plain, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", errOpen
	}
	return string(plain), nil
}
