// Package backup exports and restores age-encrypted wallet backups. A
// backup file carries the recovery phrase under a password-derived key,
// plus a plaintext manifest so a file can be identified and
// integrity-checked without decrypting it.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// Version is the current backup format version.
const Version = 1

// File is the on-disk backup document.
type File struct {
	// Version is the backup format version.
	Version int `json:"version"`

	// Manifest contains plaintext backup metadata.
	Manifest Manifest `json:"manifest"`

	// EncryptedData is the age-encrypted payload.
	EncryptedData []byte `json:"encrypted_data"`

	// Checksum is the SHA-256 hash of EncryptedData.
	Checksum string `json:"checksum"`
}

// Manifest identifies a backup without exposing any secrets.
type Manifest struct {
	// Address is the wallet's primary address.
	Address string `json:"address"`

	// CreatedAt is when the backup was written.
	CreatedAt time.Time `json:"created_at"`

	// AppVersion is the application version that wrote the backup.
	AppVersion string `json:"app_version"`

	// EncryptionMethod describes the payload encryption.
	EncryptionMethod string `json:"encryption_method"`
}

// payload is the decrypted content of EncryptedData.
type payload struct {
	Mnemonic string          `json:"mnemonic"`
	Extra    json.RawMessage `json:"extra,omitempty"`
}

// NewManifest stamps a manifest for the given wallet address.
func NewManifest(address, appVersion string) Manifest {
	return Manifest{
		Address:          address,
		CreatedAt:        time.Now().UTC(),
		AppVersion:       appVersion,
		EncryptionMethod: "age-scrypt",
	}
}

// ChecksumOf computes the hex SHA-256 of data.
func ChecksumOf(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// NewFile assembles a backup document around already-encrypted data.
func NewFile(manifest Manifest, encryptedData []byte) *File {
	return &File{
		Version:       Version,
		Manifest:      manifest,
		EncryptedData: encryptedData,
		Checksum:      ChecksumOf(encryptedData),
	}
}

// Validate checks the document for structural consistency and verifies the
// checksum. It does not touch the encrypted payload.
func (f *File) Validate() error {
	if f.Version != Version {
		return walleterr.WithDetails(walleterr.ErrBackupCorrupted, map[string]string{
			"reason": "unsupported version",
		})
	}
	if f.Manifest.Address == "" {
		return walleterr.WithDetails(walleterr.ErrBackupCorrupted, map[string]string{
			"reason": "missing address",
		})
	}
	if len(f.EncryptedData) == 0 {
		return walleterr.WithDetails(walleterr.ErrBackupCorrupted, map[string]string{
			"reason": "no encrypted data",
		})
	}
	if ChecksumOf(f.EncryptedData) != f.Checksum {
		return walleterr.WithDetails(walleterr.ErrBackupCorrupted, map[string]string{
			"reason": "checksum mismatch",
		})
	}
	return nil
}
