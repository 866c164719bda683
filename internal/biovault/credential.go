package biovault

import (
	"github.com/zalando/go-keyring"

	"github.com/aurumwallet/aurum/internal/vault"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

const (
	// ServiceName is the credential-store service identifier.
	ServiceName = "aurum-wallet"

	// credentialUser is the fixed account name for the escrowed password.
	credentialUser = "wallet-password"
)

// Keyring abstracts the OS credential store for testing.
type Keyring interface {
	Set(service, user, password string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

// OSKeyring implements Keyring using the OS keychain.
type OSKeyring struct{}

// Set stores a secret in the OS keyring.
func (OSKeyring) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}

// Get retrieves a secret from the OS keyring.
func (OSKeyring) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}

// Delete removes a secret from the OS keyring.
func (OSKeyring) Delete(service, user string) error {
	return keyring.Delete(service, user)
}

// Prompt abstracts the platform biometric/user-presence prompt.
type Prompt interface {
	// Verify blocks until the user passes or dismisses the prompt.
	// A dismissed prompt must return an error, never hang.
	Verify(reason string) error
}

// KeyringGate is the default prompt on platforms where the credential
// store applies its own user-presence policy (macOS Keychain, Windows
// Credential Manager). Verification is delegated to the store itself.
type KeyringGate struct{}

// Verify always succeeds; the credential store gates access.
func (KeyringGate) Verify(string) error { return nil }

// CredentialVault escrows the wallet password in the platform credential
// store, gated by a biometric prompt. The native variant of Vault.
type CredentialVault struct {
	keyring   Keyring
	prompt    Prompt
	plain     *vault.PlainStore
	kind      BiometricType
	available bool
}

// NewCredentialVault creates the native vault. If keyring is nil the OS
// keyring is used; if prompt is nil the credential store's own gate is
// trusted. Availability is probed once at construction.
func NewCredentialVault(kr Keyring, prompt Prompt, plain *vault.PlainStore, kind BiometricType) *CredentialVault {
	if kr == nil {
		kr = OSKeyring{}
	}
	if prompt == nil {
		prompt = KeyringGate{}
	}

	v := &CredentialVault{
		keyring: kr,
		prompt:  prompt,
		plain:   plain,
		kind:    kind,
	}
	v.available = v.probe()
	return v
}

// Available reports whether the credential store works on this platform.
func (v *CredentialVault) Available() bool {
	return v.available
}

// Type returns the configured biometry kind, or none when unavailable.
func (v *CredentialVault) Type() BiometricType {
	if !v.available {
		return TypeNone
	}
	return v.kind
}

// Enable stores the password in the credential store, then marks the
// escrow enabled. The flag is written only after the store call succeeds;
// when the flag write fails the credential is rolled back so no partial
// state survives.
func (v *CredentialVault) Enable(password string) (bool, error) {
	if !v.available {
		return false, nil
	}

	if err := v.keyring.Set(ServiceName, credentialUser, password); err != nil {
		return false, nil
	}

	if err := v.plain.Set(EnabledKey, true); err != nil {
		_ = v.keyring.Delete(ServiceName, credentialUser)
		return false, err
	}

	return true, nil
}

// Authenticate prompts the user, then fetches the escrowed password.
func (v *CredentialVault) Authenticate() (string, error) {
	enabled, err := v.Enabled()
	if err != nil || !enabled {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "biometric unlock not enabled")
	}

	if err := v.prompt.Verify("Unlock your wallet"); err != nil {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "biometric prompt")
	}

	password, err := v.keyring.Get(ServiceName, credentialUser)
	if err != nil {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "reading escrowed credential")
	}

	return password, nil
}

// Disable removes the credential (ignoring absence) and always clears
// the enabled flag.
func (v *CredentialVault) Disable() error {
	_ = v.keyring.Delete(ServiceName, credentialUser)
	return v.plain.Remove(EnabledKey)
}

// Enabled reports the persisted flag.
func (v *CredentialVault) Enabled() (bool, error) {
	return v.plain.Bool(EnabledKey), nil
}

// probe tests the credential store with a throwaway entry.
func (v *CredentialVault) probe() bool {
	const probeUser = "availability-probe"

	if err := v.keyring.Set(ServiceName, probeUser, "probe"); err != nil {
		return false
	}

	val, err := v.keyring.Get(ServiceName, probeUser)
	if err != nil || val != "probe" {
		_ = v.keyring.Delete(ServiceName, probeUser)
		return false
	}

	return v.keyring.Delete(ServiceName, probeUser) == nil
}
