package biovault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/aurumwallet/aurum/internal/cryptobox"
	"github.com/aurumwallet/aurum/internal/vault"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

const (
	escrowVersion   = 1
	challengeLength = 32
	webNonceLength  = 12
	minCredentialID = 16 // the first 16 bytes also serve as the KDF salt
)

// Credential is a freshly created platform credential.
type Credential struct {
	RawID []byte
}

// Assertion is the result of a successful WebAuthn assertion.
type Assertion struct {
	RawID []byte
}

// Authenticator abstracts the WebAuthn platform authenticator. The browser
// bridge supplies the real implementation; tests use a fake.
type Authenticator interface {
	// Available probes for a user-verifying platform authenticator in a
	// functioning cryptographic context.
	Available() bool

	// Type is the best-effort biometry classification.
	Type() BiometricType

	// Create registers a new platform credential for the given user
	// handle with required user verification.
	Create(user string) (*Credential, error)

	// Assert challenges the stored credential. A dismissed prompt must
	// return an error, never hang.
	Assert(credentialID, challenge []byte) (*Assertion, error)
}

// escrowRecord is the single persisted record for the web escrow.
// Credential id, wrapped password and enabled flag travel together in one
// atomic write, so a crash can never leave them disagreeing.
type escrowRecord struct {
	V            int    `json:"v"`
	Enabled      bool   `json:"enabled"`
	CredentialID string `json:"credential_id"`
	Nonce        string `json:"nonce"`
	Data         string `json:"data"`
}

// WebAuthnVault wraps the wallet password under a key derived from a
// WebAuthn credential's raw id. The unlock factor is possession of the
// platform authenticator, not knowledge of the password.
type WebAuthnVault struct {
	authr Authenticator
	plain *vault.PlainStore
}

// NewWebAuthnVault creates the web vault.
func NewWebAuthnVault(authr Authenticator, plain *vault.PlainStore) *WebAuthnVault {
	return &WebAuthnVault{authr: authr, plain: plain}
}

// Available delegates to the authenticator probe.
func (v *WebAuthnVault) Available() bool {
	return v.authr.Available()
}

// Type delegates to the authenticator.
func (v *WebAuthnVault) Type() BiometricType {
	if !v.authr.Available() {
		return TypeNone
	}
	return v.authr.Type()
}

// Enable creates a platform credential, derives an AES key from its raw
// id and persists the wrapped password as one atomic record.
func (v *WebAuthnVault) Enable(password string) (bool, error) {
	if !v.authr.Available() {
		return false, nil
	}

	user, err := escrowUserHandle()
	if err != nil {
		return false, nil
	}

	cred, err := v.authr.Create(user)
	if err != nil || cred == nil || len(cred.RawID) < minCredentialID {
		return false, nil
	}

	aead, err := credentialAEAD(cred.RawID)
	if err != nil {
		return false, nil
	}

	nonce := make([]byte, webNonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return false, nil
	}

	sealed := aead.Seal(nil, nonce, []byte(password), nil)

	record := escrowRecord{
		V:            escrowVersion,
		Enabled:      true,
		CredentialID: hex.EncodeToString(cred.RawID),
		Nonce:        hex.EncodeToString(nonce),
		Data:         hex.EncodeToString(sealed),
	}

	if err := v.plain.Set(EscrowKey, record); err != nil {
		return false, err
	}

	return true, nil
}

// Authenticate asserts the stored credential, re-derives the wrapping key
// from the asserted raw id and unwraps the password.
func (v *WebAuthnVault) Authenticate() (string, error) {
	record, err := v.loadRecord()
	if err != nil {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "biometric unlock not enabled")
	}

	credentialID, err := hex.DecodeString(record.CredentialID)
	if err != nil || len(credentialID) < minCredentialID {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "escrow record unusable")
	}

	challenge := make([]byte, challengeLength)
	if _, err := rand.Read(challenge); err != nil {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "generating challenge")
	}

	assertion, err := v.authr.Assert(credentialID, challenge)
	if err != nil || assertion == nil || len(assertion.RawID) < minCredentialID {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "webauthn assertion")
	}

	aead, err := credentialAEAD(assertion.RawID)
	if err != nil {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "deriving wrap key")
	}

	nonce, err := hex.DecodeString(record.Nonce)
	if err != nil || len(nonce) != webNonceLength {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "escrow record unusable")
	}
	sealed, err := hex.DecodeString(record.Data)
	if err != nil {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "escrow record unusable")
	}

	password, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "unwrapping password")
	}

	return string(password), nil
}

// Disable removes the escrow record.
func (v *WebAuthnVault) Disable() error {
	return v.plain.Remove(EscrowKey)
}

// Enabled requires the flag and a credential id to both be present.
// Anything less counts as disabled.
func (v *WebAuthnVault) Enabled() (bool, error) {
	record, err := v.loadRecord()
	if errors.Is(err, walleterr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return record.Enabled && record.CredentialID != "", nil
}

func (v *WebAuthnVault) loadRecord() (*escrowRecord, error) {
	var record escrowRecord
	if err := v.plain.Get(EscrowKey, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// credentialAEAD derives the deterministic wrapping cipher from a
// credential's raw id: PBKDF2 with the id itself as secret and its first
// 16 bytes as salt, so the same credential always re-derives the same key.
func credentialAEAD(rawID []byte) (cipher.AEAD, error) {
	key := cryptobox.DeriveKey(rawID, rawID[:minCredentialID])

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// escrowUserHandle builds a user handle with a short random suffix, so a
// re-enroll never collides with a stale authenticator entry.
func escrowUserHandle() (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return "aurum_wallet_user_" + hex.EncodeToString(suffix), nil
}
