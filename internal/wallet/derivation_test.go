package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// testMnemonic is the standard BIP39 test vector phrase.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDeriveFromMnemonicKnownVector(t *testing.T) {
	kp, err := DeriveFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	defer kp.Destroy()

	// Well-known address for m/44'/60'/0'/0/0 of the test vector phrase.
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", kp.Address)
}

func TestDeriveDeterministic(t *testing.T) {
	a, err := DeriveFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	defer a.Destroy()

	b, err := DeriveFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	defer b.Destroy()

	assert.Equal(t, a.Address, b.Address)
}

func TestDeriveAccountsDiffer(t *testing.T) {
	a, err := DeriveFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	defer a.Destroy()

	b, err := DeriveFromMnemonic(testMnemonic, "", 1)
	require.NoError(t, err)
	defer b.Destroy()

	assert.NotEqual(t, a.Address, b.Address)
}

func TestDerivePassphraseChangesAddress(t *testing.T) {
	plain, err := DeriveFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	defer plain.Destroy()

	withPass, err := DeriveFromMnemonic(testMnemonic, "hunter2", 0)
	require.NoError(t, err)
	defer withPass.Destroy()

	assert.NotEqual(t, plain.Address, withPass.Address)
}

func TestDeriveInvalidMnemonic(t *testing.T) {
	_, err := DeriveFromMnemonic("not a mnemonic", "", 0)
	assert.ErrorIs(t, err, walleterr.ErrInvalidMnemonic)
}

func TestDeriveNormalizesInput(t *testing.T) {
	messy := "1. abandon 2. abandon 3. abandon 4. abandon 5. abandon 6. abandon 7. abandon 8. abandon 9. abandon 10. abandon 11. abandon 12. about"

	kp, err := DeriveFromMnemonic(messy, "", 0)
	require.NoError(t, err)
	defer kp.Destroy()

	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", kp.Address)
}

func TestKeypairECDSA(t *testing.T) {
	kp, err := DeriveFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)

	priv, err := kp.ECDSA()
	require.NoError(t, err)
	assert.NotNil(t, priv)

	kp.Destroy()
	_, err = kp.ECDSA()
	assert.ErrorIs(t, err, walleterr.ErrWalletLocked)
}

func TestHDDeriverImplements(t *testing.T) {
	var d HDDeriver

	mnemonic, err := d.Generate()
	require.NoError(t, err)
	require.NoError(t, d.Validate(mnemonic))

	kp, err := d.Derive(mnemonic, "", 0)
	require.NoError(t, err)
	defer kp.Destroy()
	assert.NotEmpty(t, kp.Address)
}
