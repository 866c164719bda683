// Package biovault implements the secondary unlock factor: the wallet
// password is escrowed behind a platform biometric gate so it does not have
// to be retyped. Two variants exist behind one interface: a credential-store
// vault for native platforms and a WebAuthn-derived key wrap for the web.
package biovault

import walleterr "github.com/aurumwallet/aurum/pkg/errors"

// BiometricType classifies the platform biometry for UI labeling only.
type BiometricType string

// Biometric types.
const (
	TypeFace        BiometricType = "face"
	TypeFingerprint BiometricType = "fingerprint"
	TypeIris        BiometricType = "iris"
	TypeNone        BiometricType = "none"
)

// Preference keys used by the vault variants.
const (
	// EnabledKey marks the native escrow as active.
	EnabledKey = "biometric_enabled"

	// EscrowKey holds the web escrow record: credential id, wrapped
	// password and enabled flag in one record, written atomically so no
	// partial state is ever observable.
	EscrowKey = "biometric_escrow"
)

// Vault is the secondary unlock factor contract.
type Vault interface {
	// Available reports whether the platform can offer biometric unlock.
	Available() bool

	// Type is a best-effort classification for UI labeling.
	Type() BiometricType

	// Enable escrows the password behind the biometric gate. Returns
	// false without persisting anything when the user cancels or the
	// platform refuses; an error only for storage failures.
	Enable(password string) (bool, error)

	// Authenticate prompts the user and returns the escrowed password.
	// Every denial or platform failure collapses to ErrAuthentication.
	Authenticate() (string, error)

	// Disable removes the escrow. Best effort: an absent credential is
	// not an error, and the enabled state is always cleared.
	Disable() error

	// Enabled reports whether the escrow is active. A half-present
	// record counts as disabled.
	Enabled() (bool, error)
}

// Disabled is the Vault for builds and configurations without any
// biometric capability. Every operation is a refusal or a no-op.
type Disabled struct{}

func (Disabled) Available() bool { return false }

func (Disabled) Type() BiometricType { return TypeNone }

func (Disabled) Enable(string) (bool, error) { return false, nil }

func (Disabled) Disable() error { return nil }

func (Disabled) Enabled() (bool, error) { return false, nil }

func (Disabled) Authenticate() (string, error) {
	return "", walleterr.Wrap(walleterr.ErrUnavailable, "biometric unlock")
}
