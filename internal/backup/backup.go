package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"filippo.io/age"

	"github.com/aurumwallet/aurum/internal/fileutil"
	"github.com/aurumwallet/aurum/internal/securemem"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

const (
	// Extension is the backup file extension.
	Extension = ".aurum"

	dirPermissions  = 0o750
	filePermissions = 0o600
)

// Service writes and restores backup files under a single directory.
type Service struct {
	dir        string
	appVersion string
}

// NewService creates a backup service rooted at dir.
func NewService(dir, appVersion string) *Service {
	return &Service{dir: dir, appVersion: appVersion}
}

// Export encrypts the mnemonic under password and writes a backup file.
// Returns the path of the written file.
func (s *Service) Export(address, mnemonic, password string) (string, error) {
	body, err := json.Marshal(payload{Mnemonic: mnemonic})
	if err != nil {
		return "", walleterr.Wrap(err, "serializing backup payload")
	}
	defer securemem.Zero(body)

	encrypted, err := encrypt(body, password)
	if err != nil {
		return "", walleterr.Wrap(err, "encrypting backup")
	}

	file := NewFile(NewManifest(address, s.appVersion), encrypted)

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", walleterr.Wrap(err, "serializing backup")
	}

	if err := os.MkdirAll(s.dir, dirPermissions); err != nil {
		return "", walleterr.Wrap(err, "creating backup directory")
	}

	name := fmt.Sprintf("aurum-%s%s", time.Now().Format("2006-01-02-150405"), Extension)
	path := filepath.Join(s.dir, name)
	if err := fileutil.WriteAtomic(path, data, filePermissions); err != nil {
		return "", walleterr.Wrap(err, "writing backup file")
	}

	return path, nil
}

// Verify checks a backup file's structure and checksum without decrypting
// it, returning the manifest on success.
func (s *Service) Verify(path string) (*Manifest, error) {
	file, err := s.read(path)
	if err != nil {
		return nil, err
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file.Manifest, nil
}

// Restore decrypts a backup file and returns the recovery phrase. Wrong
// passwords and tampered payloads both surface as ErrAuthentication.
func (s *Service) Restore(path, password string) (string, error) {
	file, err := s.read(path)
	if err != nil {
		return "", err
	}
	if err := file.Validate(); err != nil {
		return "", err
	}

	decrypted, err := decrypt(file.EncryptedData, password)
	if err != nil {
		return "", walleterr.Wrap(walleterr.ErrAuthentication, "decrypting backup")
	}
	defer securemem.Zero(decrypted)

	var body payload
	if err := json.Unmarshal(decrypted, &body); err != nil {
		return "", walleterr.WithDetails(walleterr.ErrBackupCorrupted, map[string]string{
			"reason": "malformed payload",
		})
	}
	if body.Mnemonic == "" {
		return "", walleterr.WithDetails(walleterr.ErrBackupCorrupted, map[string]string{
			"reason": "empty mnemonic",
		})
	}

	return body.Mnemonic, nil
}

// List returns the backup filenames present in the service directory,
// newest name last.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, walleterr.Wrap(err, "reading backup directory")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == Extension {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Path resolves a backup filename against the service directory.
func (s *Service) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Service) read(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, walleterr.WithDetails(walleterr.ErrBackupNotFound, map[string]string{
				"path": path,
			})
		}
		return nil, walleterr.Wrap(err, "reading backup file")
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, walleterr.WithDetails(walleterr.ErrBackupCorrupted, map[string]string{
			"reason": "malformed document",
		})
	}
	return &file, nil
}

func encrypt(plaintext []byte, password string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return buf.Bytes(), nil
}

func decrypt(ciphertext []byte, password string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("initializing decryption: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}
	return plaintext, nil
}
