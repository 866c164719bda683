package cli

import (
	"time"

	"go.uber.org/zap"

	"github.com/aurumwallet/aurum/internal/backup"
	"github.com/aurumwallet/aurum/internal/biovault"
	"github.com/aurumwallet/aurum/internal/config"
	"github.com/aurumwallet/aurum/internal/cryptobox"
	"github.com/aurumwallet/aurum/internal/device"
	"github.com/aurumwallet/aurum/internal/lifecycle"
	"github.com/aurumwallet/aurum/internal/vault"
	"github.com/aurumwallet/aurum/internal/version"
	"github.com/aurumwallet/aurum/internal/wallet"
)

// App wires the wallet subsystems for a CLI invocation.
type App struct {
	Cfg     *config.Config
	Logger  *zap.Logger
	Secrets *vault.SecretStore
	Prefs   *vault.PlainStore
	Bio     biovault.Vault
	Manager *lifecycle.Manager
	Locker  *lifecycle.AutoLocker
	Backups *backup.Service
}

// NewApp builds the full subsystem graph from configuration.
func NewApp(cfg *config.Config) (*App, error) {
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}

	cryptobox.SetIterations(cfg.KDFIterations())

	kv := vault.NewFileKV(cfg.VaultPath())
	secrets := vault.NewSecretStore(kv)
	prefs := vault.NewPlainStore(kv)

	var bio biovault.Vault
	switch cfg.Security.Biometric {
	case "keyring":
		bio = biovault.NewCredentialVault(biovault.OSKeyring{}, biovault.KeyringGate{}, prefs, biovault.TypeFingerprint)
	default:
		// webauthn needs a platform authenticator the terminal build
		// does not carry; treat it like off.
		bio = biovault.Disabled{}
	}

	var registrar device.Registrar
	if cfg.Device.Register {
		registrar = device.NewHTTPRegistrar(cfg.Device.APIBaseURL, logger)
	}

	mgr := lifecycle.NewManager(secrets, prefs, bio, wallet.HDDeriver{}, registrar, logger)

	var locker *lifecycle.AutoLocker
	if secs := cfg.Security.AutoLockSeconds; secs > 0 {
		locker = lifecycle.NewAutoLocker(mgr, time.Duration(secs)*time.Second, logger)
	}

	return &App{
		Cfg:     cfg,
		Logger:  logger,
		Secrets: secrets,
		Prefs:   prefs,
		Bio:     bio,
		Manager: mgr,
		Locker:  locker,
		Backups: backup.NewService(cfg.BackupPath(), version.Version),
	}, nil
}

// Close drops key material and flushes the logger.
func (a *App) Close() {
	if a.Locker != nil {
		a.Locker.Stop()
	}
	a.Manager.Lock()
	_ = a.Logger.Sync()
}
