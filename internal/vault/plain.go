package vault

import (
	"encoding/json"
	"errors"
	"fmt"

	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// PlainPrefix namespaces the plaintext preferences tier.
const PlainPrefix = "aurum_basic:"

// PlainStore holds non-secret, JSON-serializable preferences: the
// backup-confirmed flag, the device identifier, the biometric escrow record.
type PlainStore struct {
	kv KV
}

// NewPlainStore creates the plaintext tier over kv.
func NewPlainStore(kv KV) *PlainStore {
	return &PlainStore{kv: kv}
}

// Set stores value under key, JSON-encoded.
func (p *PlainStore) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling value for %q: %w", key, err)
	}
	return p.kv.Set(PlainPrefix+key, string(data))
}

// Get loads the value stored under key into out.
// Returns walleterr.ErrNotFound if no record exists.
func (p *PlainStore) Get(key string, out any) error {
	raw, err := p.kv.Get(PlainPrefix + key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return walleterr.Wrap(walleterr.ErrStorage, "record %q corrupted", key)
	}
	return nil
}

// Bool reads a boolean preference, treating an absent or unreadable
// record as false.
func (p *PlainStore) Bool(key string) bool {
	var v bool
	if err := p.Get(key, &v); err != nil {
		return false
	}
	return v
}

// Remove deletes key. Absent keys are ignored.
func (p *PlainStore) Remove(key string) error {
	return p.kv.Delete(PlainPrefix + key)
}

// Exists reports whether a record is stored under key.
func (p *PlainStore) Exists(key string) (bool, error) {
	_, err := p.kv.Get(PlainPrefix + key)
	if errors.Is(err, walleterr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every record in the plaintext tier, leaving the secret
// tier and unrelated keys untouched.
func (p *PlainStore) Clear() error {
	return clearPrefix(p.kv, PlainPrefix)
}
