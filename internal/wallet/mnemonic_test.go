package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

func TestGenerateMnemonic(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	require.NoError(t, err)

	assert.Len(t, strings.Fields(mnemonic), MnemonicWordCount)
	assert.NoError(t, ValidateMnemonic(mnemonic))
}

func TestGenerateMnemonicUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		m, err := GenerateMnemonic()
		require.NoError(t, err)
		_, dup := seen[m]
		require.False(t, dup, "generated mnemonic repeated")
		seen[m] = struct{}{}
	}
}

func TestValidateMnemonic(t *testing.T) {
	valid := "legal winner thank year wave sausage worth useful legal winner thank yellow"

	tests := []struct {
		name     string
		mnemonic string
		wantErr  bool
	}{
		{"valid 12 words", valid, false},
		{"empty", "", true},
		{"wrong word count", "abandon ability able", true},
		{"bad checksum", "legal winner thank year wave sausage worth useful legal winner thank thank", true},
		{"unknown word", "legal winner thank year wave sausage worth useful legal winner thank zzzzz", true},
		{"extra whitespace ok", "  legal  winner thank year wave sausage worth useful legal winner thank yellow ", false},
		{"uppercase ok", strings.ToUpper(valid), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMnemonic(tt.mnemonic)
			if tt.wantErr {
				assert.ErrorIs(t, err, walleterr.ErrInvalidMnemonic)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeMnemonicInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "alpha beta", "alpha beta"},
		{"numbered list", "1. alpha\n2. beta\n3. gamma", "alpha beta gamma"},
		{"numbered with parens", "1) alpha 2) beta", "alpha beta"},
		{"numbered single line", "1. alpha 2. beta 3. gamma", "alpha beta gamma"},
		{"bullets", "- alpha\n* beta\n• gamma", "alpha beta gamma"},
		{"mixed whitespace", "alpha\t beta\n\ngamma", "alpha beta gamma"},
		{"uppercase", "Alpha BETA", "alpha beta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMnemonicInput(tt.input))
		})
	}
}

func TestSuggestWord(t *testing.T) {
	assert.Equal(t, "abandon", SuggestWord("abandon"))
	assert.Equal(t, "abandon", SuggestWord("abandn"))
	assert.Equal(t, "", SuggestWord("zzzzzzzzzz"))
}

func TestDetectTypos(t *testing.T) {
	typos := DetectTypos("legal winner thnak year")
	require.Len(t, typos, 1)
	assert.Equal(t, 2, typos[0].Index)
	assert.Equal(t, "thnak", typos[0].Word)
	assert.Equal(t, "thank", typos[0].Suggestion)

	assert.Nil(t, DetectTypos(""))
	assert.Empty(t, DetectTypos("legal winner thank"))
}
