// Package lifecycle owns the wallet session: its status, the decrypted key
// material while unlocked, and the orchestration of the vault, the biometric
// escrow and key derivation behind the create/import/unlock/lock/reset
// operations. One Manager exists per running instance; every state-mutating
// operation is serialized through its mutex.
package lifecycle

import (
	"github.com/aurumwallet/aurum/internal/biovault"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// Status is the wallet lifecycle state.
type Status string

// Lifecycle states. Loading is transient: it exists only between process
// start and the first Initialize, which always resolves it.
const (
	StatusLoading       Status = "loading"
	StatusNoWallet      Status = "no_wallet"
	StatusLocked        Status = "locked"
	StatusUnlocked      Status = "unlocked"
	StatusBackupPending Status = "backup_pending"
)

// MinPasswordLength is the minimum accepted wallet password length.
const MinPasswordLength = 8

// Vault record keys.
const (
	mnemonicKey = "mnemonic"
	backedUpKey = "phrase_backed_up"
)

// BiometricState is the capability and preference snapshot, independent of
// lock status.
type BiometricState struct {
	Type      biovault.BiometricType
	Available bool
	Enabled   bool
}

// State is the snapshot exposed to subscribers. The private key is never
// part of it; the one-time backup phrase appears only while the status is
// backup_pending.
type State struct {
	Status       Status
	Address      string
	Err          string
	Biometric    BiometricState
	BackupPhrase string
}

// errPasswordTooShort rejects passwords below the policy minimum.
var errPasswordTooShort = walleterr.WithSuggestion(
	walleterr.ErrInvalidInput,
	"password must be at least 8 characters",
)

// errEnrollmentFailed reports a declined or failed biometric enrollment.
var errEnrollmentFailed = walleterr.New(
	"BIOMETRIC_ENROLLMENT_FAILED",
	"biometric activation failed",
)
