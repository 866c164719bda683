// Package cryptobox implements password-based authenticated encryption for
// opaque string secrets. Keys are derived with PBKDF2-HMAC-SHA256 and the
// payload is sealed with AES-256-GCM. The serialized envelope is a
// self-describing JSON document with hex-encoded fields, versioned for
// future migrations.
package cryptobox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 iteration count, per current
	// OWASP guidance for PBKDF2-HMAC-SHA256.
	DefaultIterations = 600_000

	// MinIterations is the floor for production use. Configuration may
	// raise the count, never lower it below this.
	MinIterations = 600_000

	// EnvelopeVersion tags the serialized format.
	EnvelopeVersion = 1

	keyLength   = 32 // AES-256
	saltLength  = 16
	nonceLength = 12 // standard GCM nonce
)

// ErrDecryptFailed indicates decryption failed. A malformed envelope, an
// unknown version, a wrong password and a tampered ciphertext all collapse
// into this one error so the failure cause is not observable.
var ErrDecryptFailed = errors.New("decryption failed")

// iterations is the active PBKDF2 work factor.
// Set once before use; see SetIterations.
var iterations = DefaultIterations //nolint:gochecknoglobals // Package-wide KDF tuning knob

// SetIterations overrides the PBKDF2 iteration count. Production callers
// must keep the count at or above MinIterations; lowering it is only
// acceptable in tests where KDF cost would dominate the run time.
func SetIterations(n int) {
	if n < 1 {
		n = 1
	}
	iterations = n
}

// Iterations returns the active PBKDF2 iteration count.
func Iterations() int {
	return iterations
}

// envelope is the serialized encryption record.
type envelope struct {
	V     int    `json:"v"`
	Salt  string `json:"salt"`
	Nonce string `json:"nonce"`
	Data  string `json:"data"`
}

// Encrypt seals plaintext under a password-derived key.
// Every call draws a fresh random salt and nonce; the pair is never reused.
func Encrypt(plaintext, password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	aead, err := newAEAD(password, salt)
	if err != nil {
		return "", err
	}

	ciphertext := aead.Seal(nil, nonce, []byte(plaintext), nil)

	env := envelope{
		V:     EnvelopeVersion,
		Salt:  hex.EncodeToString(salt),
		Nonce: hex.EncodeToString(nonce),
		Data:  hex.EncodeToString(ciphertext),
	}

	out, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("serializing envelope: %w", err)
	}

	return string(out), nil
}

// Decrypt opens a serialized envelope with the supplied password.
// Any failure returns ErrDecryptFailed; callers cannot tell a wrong
// password from a corrupted record.
func Decrypt(serialized, password string) (string, error) {
	var env envelope
	if err := json.Unmarshal([]byte(serialized), &env); err != nil {
		return "", ErrDecryptFailed
	}
	if env.V != EnvelopeVersion {
		return "", ErrDecryptFailed
	}
	if env.Salt == "" || env.Nonce == "" || env.Data == "" {
		return "", ErrDecryptFailed
	}

	salt, err := hex.DecodeString(env.Salt)
	if err != nil {
		return "", ErrDecryptFailed
	}
	nonce, err := hex.DecodeString(env.Nonce)
	if err != nil || len(nonce) != nonceLength {
		return "", ErrDecryptFailed
	}
	ciphertext, err := hex.DecodeString(env.Data)
	if err != nil {
		return "", ErrDecryptFailed
	}

	aead, err := newAEAD(password, salt)
	if err != nil {
		return "", ErrDecryptFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}

	return string(plaintext), nil
}

// DeriveKey derives a 256-bit AES key from a secret and salt using the
// active PBKDF2 work factor. Exposed for the WebAuthn escrow path, which
// wraps the wallet password under a credential-derived key.
func DeriveKey(secret, salt []byte) []byte {
	return pbkdf2.Key(secret, salt, iterations, keyLength, sha256.New)
}

func newAEAD(password string, salt []byte) (cipher.AEAD, error) {
	key := DeriveKey([]byte(password), salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("initializing GCM: %w", err)
	}

	return aead, nil
}
