package wallet

import (
	"crypto/ecdsa"
	"fmt"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"github.com/aurumwallet/aurum/internal/securemem"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// CoinType is the BIP44 coin type used for derivation.
const CoinType = 60

// Keypair is the in-memory key material for an unlocked session: the
// public address plus the signing key held in a zeroizable buffer.
// Never persisted; destroyed on every lock, reset and re-derivation.
type Keypair struct {
	Address string

	key *securemem.Buffer
}

// ECDSA reconstructs the signing key for the transaction-signing
// collaborator. Returns an error after Destroy.
func (k *Keypair) ECDSA() (*ecdsa.PrivateKey, error) {
	data := k.key.Bytes()
	if data == nil {
		return nil, walleterr.ErrWalletLocked
	}
	return gethcrypto.ToECDSA(data)
}

// Destroy wipes the private key. Safe to call multiple times.
func (k *Keypair) Destroy() {
	k.key.Destroy()
}

// HDDeriver derives keypairs along m/44'/60'/account'/0/0.
type HDDeriver struct{}

// Generate creates a fresh mnemonic phrase.
func (HDDeriver) Generate() (string, error) {
	return GenerateMnemonic()
}

// Validate reports whether the mnemonic is well-formed.
func (HDDeriver) Validate(mnemonic string) error {
	return ValidateMnemonic(mnemonic)
}

// Derive maps a mnemonic to its account keypair. Deterministic: the same
// mnemonic, passphrase and account always yield the same address and key.
func (HDDeriver) Derive(mnemonic, passphrase string, account uint32) (*Keypair, error) {
	return DeriveFromMnemonic(mnemonic, passphrase, account)
}

// DeriveFromMnemonic derives the address and private key for an account.
func DeriveFromMnemonic(mnemonic, passphrase string, account uint32) (*Keypair, error) {
	normalized := NormalizeMnemonicInput(mnemonic)
	if err := ValidateMnemonic(normalized); err != nil {
		return nil, err
	}

	seed := bip39.NewSeed(normalized, passphrase)
	defer securemem.Zero(seed)

	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("deriving master key: %w", err)
	}

	// m/44'/60'/account'/0/0
	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + CoinType,
		bip32.FirstHardenedChild + account,
		0,
		0,
	}

	node := master
	for _, index := range path {
		node, err = node.NewChildKey(index)
		if err != nil {
			return nil, fmt.Errorf("deriving child key %d: %w", index, err)
		}
	}

	priv, err := gethcrypto.ToECDSA(node.Key)
	if err != nil {
		return nil, fmt.Errorf("parsing derived key: %w", err)
	}

	address := gethcrypto.PubkeyToAddress(priv.PublicKey).Hex()
	buf := securemem.FromBytes(node.Key)
	securemem.Zero(node.Key)

	return &Keypair{Address: address, key: buf}, nil
}
