package biovault

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// MockAuthenticator simulates a WebAuthn platform authenticator holding
// one resident credential.
type MockAuthenticator struct {
	available  bool
	kind       BiometricType
	rawID      []byte
	denyCreate bool
	denyAssert bool
	created    int
	asserted   int
}

func NewMockAuthenticator() *MockAuthenticator {
	rawID := make([]byte, 32)
	_, _ = rand.Read(rawID)
	return &MockAuthenticator{available: true, kind: TypeFingerprint, rawID: rawID}
}

func (a *MockAuthenticator) Available() bool     { return a.available }
func (a *MockAuthenticator) Type() BiometricType { return a.kind }

func (a *MockAuthenticator) Create(string) (*Credential, error) {
	a.created++
	if a.denyCreate {
		return nil, errors.New("user dismissed prompt")
	}
	return &Credential{RawID: a.rawID}, nil
}

func (a *MockAuthenticator) Assert(credentialID, _ []byte) (*Assertion, error) {
	a.asserted++
	if a.denyAssert {
		return nil, errors.New("user dismissed prompt")
	}
	if !bytes.Equal(credentialID, a.rawID) {
		return nil, errors.New("unknown credential")
	}
	return &Assertion{RawID: a.rawID}, nil
}

func TestWebAuthnVaultEnableAuthenticate(t *testing.T) {
	authr := NewMockAuthenticator()
	v := NewWebAuthnVault(authr, newPlainStore(t))

	require.True(t, v.Available())
	assert.Equal(t, TypeFingerprint, v.Type())

	ok, err := v.Enable("Abc123!@#")
	require.NoError(t, err)
	require.True(t, ok)

	enabled, err := v.Enabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	password, err := v.Authenticate()
	require.NoError(t, err)
	assert.Equal(t, "Abc123!@#", password)
	assert.Equal(t, 1, authr.asserted)
}

func TestWebAuthnVaultCreateDenied(t *testing.T) {
	authr := NewMockAuthenticator()
	authr.denyCreate = true
	plain := newPlainStore(t)
	v := NewWebAuthnVault(authr, plain)

	ok, err := v.Enable("pw")
	require.NoError(t, err)
	assert.False(t, ok)

	// Nothing partial persisted
	exists, err := plain.Exists(EscrowKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWebAuthnVaultAssertDenied(t *testing.T) {
	authr := NewMockAuthenticator()
	v := NewWebAuthnVault(authr, newPlainStore(t))

	ok, err := v.Enable("pw")
	require.NoError(t, err)
	require.True(t, ok)

	authr.denyAssert = true
	_, err = v.Authenticate()
	assert.ErrorIs(t, err, walleterr.ErrAuthentication)
}

func TestWebAuthnVaultUnavailable(t *testing.T) {
	authr := NewMockAuthenticator()
	authr.available = false
	v := NewWebAuthnVault(authr, newPlainStore(t))

	assert.False(t, v.Available())
	assert.Equal(t, TypeNone, v.Type())

	ok, err := v.Enable("pw")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWebAuthnVaultDisable(t *testing.T) {
	authr := NewMockAuthenticator()
	v := NewWebAuthnVault(authr, newPlainStore(t))

	ok, err := v.Enable("pw")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, v.Disable())

	enabled, err := v.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	_, err = v.Authenticate()
	assert.ErrorIs(t, err, walleterr.ErrAuthentication)
}

func TestWebAuthnVaultPartialRecordCountsAsDisabled(t *testing.T) {
	plain := newPlainStore(t)
	v := NewWebAuthnVault(NewMockAuthenticator(), plain)

	// A record missing its credential id must read as disabled.
	require.NoError(t, plain.Set(EscrowKey, map[string]any{
		"v":       1,
		"enabled": true,
	}))

	enabled, err := v.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	_, err = v.Authenticate()
	assert.ErrorIs(t, err, walleterr.ErrAuthentication)
}

func TestWebAuthnVaultShortCredentialIDRejected(t *testing.T) {
	authr := NewMockAuthenticator()
	authr.rawID = []byte{1, 2, 3} // below the KDF salt minimum
	plain := newPlainStore(t)
	v := NewWebAuthnVault(authr, plain)

	ok, err := v.Enable("pw")
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := plain.Exists(EscrowKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWebAuthnVaultTamperedEscrowFailsClosed(t *testing.T) {
	authr := NewMockAuthenticator()
	plain := newPlainStore(t)
	v := NewWebAuthnVault(authr, plain)

	ok, err := v.Enable("pw")
	require.NoError(t, err)
	require.True(t, ok)

	// Corrupt the wrapped password
	var record map[string]any
	require.NoError(t, plain.Get(EscrowKey, &record))
	record["data"] = "00ff"
	require.NoError(t, plain.Set(EscrowKey, record))

	_, err = v.Authenticate()
	assert.ErrorIs(t, err, walleterr.ErrAuthentication)
}

func TestVaultInterfaceCompliance(t *testing.T) {
	var _ Vault = (*CredentialVault)(nil)
	var _ Vault = (*WebAuthnVault)(nil)
}
