package vault

import (
	"errors"

	"github.com/aurumwallet/aurum/internal/cryptobox"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// SecretPrefix namespaces the secret tier.
const SecretPrefix = "aurum_secure:"

// SecretStore holds string secrets. A record is either stored raw or passed
// through cryptobox under a caller-supplied password; the two paths are
// separate methods so the choice is visible at the call site.
type SecretStore struct {
	kv KV
}

// NewSecretStore creates the secret tier over kv.
func NewSecretStore(kv KV) *SecretStore {
	return &SecretStore{kv: kv}
}

// Save stores value without encryption.
func (s *SecretStore) Save(key, value string) error {
	return s.kv.Set(SecretPrefix+key, value)
}

// SaveEncrypted encrypts value under password before storing it.
func (s *SecretStore) SaveEncrypted(key, value, password string) error {
	envelope, err := cryptobox.Encrypt(value, password)
	if err != nil {
		return walleterr.Wrap(walleterr.ErrStorage, "encrypting record %q", key)
	}
	return s.kv.Set(SecretPrefix+key, envelope)
}

// Get returns the raw stored string.
// Returns walleterr.ErrNotFound if no record exists.
func (s *SecretStore) Get(key string) (string, error) {
	return s.kv.Get(SecretPrefix + key)
}

// GetEncrypted loads and decrypts the record stored under key.
// A wrong password or tampered record returns walleterr.ErrAuthentication;
// a missing record returns walleterr.ErrNotFound; storage failures stay
// distinct so callers can tell "no wallet" from "storage broken".
func (s *SecretStore) GetEncrypted(key, password string) (string, error) {
	envelope, err := s.kv.Get(SecretPrefix + key)
	if err != nil {
		return "", err
	}

	plaintext, err := cryptobox.Decrypt(envelope, password)
	if errors.Is(err, cryptobox.ErrDecryptFailed) {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "decrypting record %q", key)
	}
	if err != nil {
		return "", err
	}
	return plaintext, nil
}

// Exists reports whether a record is stored under key.
func (s *SecretStore) Exists(key string) (bool, error) {
	_, err := s.kv.Get(SecretPrefix + key)
	if errors.Is(err, walleterr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes key. Absent keys are ignored.
func (s *SecretStore) Remove(key string) error {
	return s.kv.Delete(SecretPrefix + key)
}

// Clear removes every record in the secret tier, leaving the plaintext
// tier and unrelated keys untouched.
func (s *SecretStore) Clear() error {
	return clearPrefix(s.kv, SecretPrefix)
}
