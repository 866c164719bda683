package lifecycle

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/aurumwallet/aurum/internal/biovault"
	"github.com/aurumwallet/aurum/internal/device"
	"github.com/aurumwallet/aurum/internal/vault"
	"github.com/aurumwallet/aurum/internal/version"
	"github.com/aurumwallet/aurum/internal/wallet"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// Deriver maps mnemonics to key material. Satisfied by wallet.HDDeriver.
type Deriver interface {
	Generate() (string, error)
	Validate(mnemonic string) error
	Derive(mnemonic, passphrase string, account uint32) (*wallet.Keypair, error)
}

// Manager is the wallet lifecycle state machine. All state-mutating
// operations are mutually exclusive; two concurrent creates or unlocks can
// never interleave their storage writes.
type Manager struct {
	mu        sync.Mutex
	secrets   *vault.SecretStore
	prefs     *vault.PlainStore
	bio       biovault.Vault
	deriver   Deriver
	registrar device.Registrar
	log       *zap.Logger

	status       Status
	address      string
	keypair      *wallet.Keypair
	backupPhrase string
	lastErr      string
	biometric    BiometricState

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// NewManager wires the lifecycle over its collaborators. The registrar may
// be nil (registration becomes a no-op); a nil logger means no logging.
func NewManager(secrets *vault.SecretStore, prefs *vault.PlainStore, bio biovault.Vault, deriver Deriver, registrar device.Registrar, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		secrets:   secrets,
		prefs:     prefs,
		bio:       bio,
		deriver:   deriver,
		registrar: registrar,
		log:       log,
		status:    StatusLoading,
		biometric: BiometricState{Type: biovault.TypeNone},
		subs:      make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn for state snapshots after every operation.
// Returns the unsubscribe function.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

// Initialize resolves the transient loading state: locked if an encrypted
// record exists, no_wallet otherwise. Idempotent, and skipped entirely
// while a session is open (unlocked or backup_pending) so a re-entrant
// call cannot demote the status while key material is live.
// A storage probe failure fails open to no_wallet with the error recorded.
func (m *Manager) Initialize(ctx context.Context) error {
	_ = ctx

	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()

	if m.status == StatusUnlocked || m.status == StatusBackupPending {
		return nil
	}

	m.lastErr = ""

	exists, err := m.secrets.Exists(mnemonicKey)
	if err != nil {
		m.log.Error("wallet probe failed", zap.Error(err))
		m.status = StatusNoWallet
		m.lastErr = "failed to initialize storage"
		m.biometric = BiometricState{Type: biovault.TypeNone}
		return err
	}

	m.refreshBiometricLocked()

	if exists {
		m.status = StatusLocked
	} else {
		m.status = StatusNoWallet
	}
	return nil
}

// Create generates a fresh wallet: a new mnemonic encrypted under password,
// backup not yet confirmed. Ends in backup_pending with the phrase held in
// memory for the one-time display. Returns the mnemonic and address.
func (m *Manager) Create(ctx context.Context, password string, enableBiometric bool) (mnemonic, address string, err error) {
	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()

	m.lastErr = ""

	if len(password) < MinPasswordLength {
		return "", "", errPasswordTooShort
	}

	if exists, existsErr := m.secrets.Exists(mnemonicKey); existsErr != nil {
		m.lastErr = "failed to create wallet"
		return "", "", existsErr
	} else if exists {
		return "", "", walleterr.ErrWalletExists
	}

	mnemonic, err = m.deriver.Generate()
	if err != nil {
		m.lastErr = "failed to create wallet"
		return "", "", walleterr.Wrap(err, "generating mnemonic")
	}

	keypair, err := m.deriver.Derive(mnemonic, "", 0)
	if err != nil {
		m.lastErr = "failed to create wallet"
		return "", "", walleterr.Wrap(err, "deriving wallet")
	}

	if err = m.secrets.SaveEncrypted(mnemonicKey, mnemonic, password); err != nil {
		keypair.Destroy()
		m.lastErr = "failed to create wallet"
		return "", "", err
	}
	if err = m.prefs.Set(backedUpKey, false); err != nil {
		keypair.Destroy()
		m.lastErr = "failed to create wallet"
		return "", "", err
	}

	enabled := m.enrollBiometricLocked(password, enableBiometric)
	m.registerDeviceLocked(ctx)

	m.installSessionLocked(keypair, StatusBackupPending, mnemonic)
	m.refreshBiometricLocked()
	m.biometric.Enabled = enabled

	return mnemonic, keypair.Address, nil
}

// Import restores a wallet from an existing mnemonic. The phrase is
// validated before anything is written; imported wallets count as already
// backed up, so the session ends in unlocked.
func (m *Manager) Import(ctx context.Context, mnemonic, password string, enableBiometric bool) (address string, err error) {
	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()

	m.lastErr = ""

	if err = m.deriver.Validate(mnemonic); err != nil {
		m.lastErr = "invalid recovery phrase"
		return "", walleterr.ErrInvalidMnemonic
	}
	if len(password) < MinPasswordLength {
		return "", errPasswordTooShort
	}

	if exists, existsErr := m.secrets.Exists(mnemonicKey); existsErr != nil {
		m.lastErr = "failed to import wallet"
		return "", existsErr
	} else if exists {
		return "", walleterr.ErrWalletExists
	}

	normalized := wallet.NormalizeMnemonicInput(mnemonic)

	keypair, err := m.deriver.Derive(normalized, "", 0)
	if err != nil {
		m.lastErr = "failed to import wallet"
		return "", walleterr.Wrap(err, "deriving wallet")
	}

	if err = m.secrets.SaveEncrypted(mnemonicKey, normalized, password); err != nil {
		keypair.Destroy()
		m.lastErr = "failed to import wallet"
		return "", err
	}
	if err = m.prefs.Set(backedUpKey, true); err != nil {
		keypair.Destroy()
		m.lastErr = "failed to import wallet"
		return "", err
	}

	enabled := m.enrollBiometricLocked(password, enableBiometric)
	m.registerDeviceLocked(ctx)

	m.installSessionLocked(keypair, StatusUnlocked, "")
	m.refreshBiometricLocked()
	m.biometric.Enabled = enabled

	return keypair.Address, nil
}

// CheckPassword attempts to decrypt the stored mnemonic. Read-only: never
// mutates status. A wrong password, a corrupted record and a missing record
// all return false.
func (m *Manager) CheckPassword(password string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkPasswordLocked(password)
}

// Unlock installs a session from an already-verified mnemonic (obtained via
// CheckPassword or the biometric path). Ends in unlocked, or backup_pending
// when the backup was never confirmed. Returns false with the error
// recorded, status unchanged, when derivation fails.
func (m *Manager) Unlock(ctx context.Context, mnemonic string) bool {
	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()

	m.lastErr = ""

	if mnemonic == "" {
		m.lastErr = "no wallet found"
		return false
	}

	normalized := wallet.NormalizeMnemonicInput(mnemonic)

	keypair, err := m.deriver.Derive(normalized, "", 0)
	if err != nil {
		m.log.Error("unlock derivation failed", zap.Error(err))
		m.lastErr = "invalid password or corrupted data"
		return false
	}

	m.registerDeviceLocked(ctx)

	if m.prefs.Bool(backedUpKey) {
		m.installSessionLocked(keypair, StatusUnlocked, "")
	} else {
		m.installSessionLocked(keypair, StatusBackupPending, normalized)
	}

	return true
}

// ResolvePasswordWithBiometric obtains the wallet password through the
// biometric escrow. Fails with ErrAuthentication on denial; callers chain
// it through CheckPassword into Unlock.
func (m *Manager) ResolvePasswordWithBiometric() (string, error) {
	// The platform prompt can block on the user; keep the manager
	// unlocked so Lock and the auto-lock timer stay responsive.
	password, err := m.bio.Authenticate()
	if err != nil {
		return "", err
	}
	return password, nil
}

// UnlockWithBiometric runs the full biometric unlock chain. The status is
// left untouched on every failure path.
func (m *Manager) UnlockWithBiometric(ctx context.Context) error {
	password, err := m.ResolvePasswordWithBiometric()
	if err != nil {
		m.setErr("biometric authentication failed")
		return err
	}

	mnemonic, ok := m.CheckPassword(password)
	if !ok {
		m.setErr("invalid password or corrupted data")
		return walleterr.Wrap(walleterr.ErrAuthentication, "biometric unlock")
	}

	if !m.Unlock(ctx, mnemonic) {
		return walleterr.Wrap(walleterr.ErrAuthentication, "biometric unlock")
	}
	return nil
}

// Lock clears all in-memory key material. Idempotent and safe from any
// state; without a wallet it only wipes, leaving the status alone.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()

	m.clearSessionLocked()
	m.lastErr = ""

	switch m.status {
	case StatusUnlocked, StatusBackupPending, StatusLocked:
		m.status = StatusLocked
	case StatusLoading, StatusNoWallet:
		// nothing to lock
	}
}

// Reset destroys the wallet: both vault tiers, the biometric escrow and
// the in-memory session. Partial storage failures still clear whatever
// succeeded and still land in no_wallet, with the error recorded.
func (m *Manager) Reset(ctx context.Context) error {
	_ = ctx

	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()

	var firstErr error

	if err := m.bio.Disable(); err != nil {
		m.log.Error("disabling biometrics during reset failed", zap.Error(err))
		firstErr = err
	}
	if err := m.secrets.Clear(); err != nil {
		m.log.Error("clearing secret tier failed", zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := m.prefs.Clear(); err != nil {
		m.log.Error("clearing preference tier failed", zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}

	m.clearSessionLocked()
	m.status = StatusNoWallet
	m.biometric.Enabled = false

	if firstErr != nil {
		m.lastErr = "failed to reset wallet"
		return firstErr
	}
	m.lastErr = ""
	return nil
}

// ConfirmBackup marks the phrase as backed up and drops it from memory,
// moving backup_pending to unlocked. A guarded no-op in any other state.
func (m *Manager) ConfirmBackup() error {
	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()

	if m.status != StatusBackupPending {
		return nil
	}

	if err := m.prefs.Set(backedUpKey, true); err != nil {
		m.lastErr = "failed to confirm backup"
		return err
	}

	m.backupPhrase = ""
	m.status = StatusUnlocked
	return nil
}

// ToggleBiometric enables or disables the biometric escrow. The password is
// re-verified first even though biometrics is a convenience factor, so
// device access alone cannot enroll an escrow. No-op when the requested
// state already matches or the capability is absent.
func (m *Manager) ToggleBiometric(enable bool, password string) error {
	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()

	m.refreshBiometricLocked()
	if !m.biometric.Available || m.biometric.Enabled == enable {
		return nil
	}

	if _, ok := m.checkPasswordLocked(password); !ok {
		return walleterr.Wrap(walleterr.ErrAuthentication, "verifying password")
	}

	if enable {
		ok, err := m.bio.Enable(password)
		if err != nil {
			return err
		}
		if !ok {
			return errEnrollmentFailed
		}
	} else {
		if err := m.bio.Disable(); err != nil {
			return err
		}
	}

	m.biometric.Enabled = enable
	return nil
}

// PrivateKey hands the signing key to the transaction-signing collaborator.
// Nil outside an unlocked or backup_pending session.
func (m *Manager) PrivateKey() *wallet.Keypair {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusUnlocked && m.status != StatusBackupPending {
		return nil
	}
	return m.keypair
}

// ClearError drops the recorded operation error.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()
	m.lastErr = ""
}

func (m *Manager) checkPasswordLocked(password string) (string, bool) {
	mnemonic, err := m.secrets.GetEncrypted(mnemonicKey, password)
	if err != nil {
		return "", false
	}
	return mnemonic, true
}

// installSessionLocked swaps the in-memory session, destroying any previous
// key material first.
func (m *Manager) installSessionLocked(keypair *wallet.Keypair, status Status, backupPhrase string) {
	if m.keypair != nil && m.keypair != keypair {
		m.keypair.Destroy()
	}
	m.keypair = keypair
	m.address = keypair.Address
	m.backupPhrase = backupPhrase
	m.status = status
}

// clearSessionLocked zeroizes and drops all key material.
func (m *Manager) clearSessionLocked() {
	if m.keypair != nil {
		m.keypair.Destroy()
		m.keypair = nil
	}
	m.address = ""
	m.backupPhrase = ""
}

// enrollBiometricLocked is the optional escrow step of Create and Import.
// A declined or failed enrollment is not fatal to wallet creation.
func (m *Manager) enrollBiometricLocked(password string, requested bool) bool {
	if !requested {
		return false
	}

	enabled, err := m.bio.Enable(password)
	if err != nil {
		m.log.Error("biometric enrollment failed", zap.Error(err))
		return false
	}
	return enabled
}

// registerDeviceLocked fires the best-effort registration call.
func (m *Manager) registerDeviceLocked(ctx context.Context) {
	if m.registrar == nil {
		return
	}

	clientID, err := device.Identity(m.prefs)
	if err != nil {
		m.log.Debug("device identity unavailable", zap.Error(err))
		return
	}

	reg := device.Registration{
		ClientID:   clientID,
		Platform:   runtime.GOOS,
		AppVersion: version.Version,
	}
	if err := m.registrar.Register(ctx, reg); err != nil {
		m.log.Debug("device registration failed", zap.Error(err))
	}
}

func (m *Manager) refreshBiometricLocked() {
	available := m.bio.Available()
	kind := m.bio.Type()

	enabled := false
	if available {
		if on, err := m.bio.Enabled(); err == nil {
			enabled = on
		}
	}

	m.biometric = BiometricState{Type: kind, Available: available, Enabled: enabled}
}

func (m *Manager) setErr(msg string) {
	m.mu.Lock()
	defer m.notify()
	defer m.mu.Unlock()
	m.lastErr = msg
}

func (m *Manager) snapshotLocked() State {
	return State{
		Status:       m.status,
		Address:      m.address,
		Err:          m.lastErr,
		Biometric:    m.biometric,
		BackupPhrase: m.backupPhrase,
	}
}

// notify delivers the current snapshot to subscribers. Runs as the
// outermost defer, after the mutex is released, so a subscriber may call
// back into the Manager.
func (m *Manager) notify() {
	m.mu.Lock()
	state := m.snapshotLocked()
	m.mu.Unlock()

	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
