// Package wallet provides the key-material primitives behind the lifecycle
// manager: BIP39 mnemonic generation and validation, and deterministic
// derivation of the account address and signing key.
package wallet

import (
	"math"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"

	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// MnemonicWordCount is the phrase length produced by GenerateMnemonic
// (12 words, 128 bits of entropy).
const MnemonicWordCount = 12

// MaxTypoDistance is the maximum Levenshtein distance to consider a suggestion.
const MaxTypoDistance = 2

var (
	// whitespaceRegex matches one or more whitespace characters.
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// numberedListRegex matches numbering tokens like "1." "2)" "3:" at a
	// line start or between words, so single-line pastes clean up too.
	numberedListRegex = regexp.MustCompile(`(^|\s)\d+[.):]\s*`)

	// bulletListRegex matches bullet tokens like "- " "* " "• "
	bulletListRegex = regexp.MustCompile(`(^|\s)[-*•]\s+`)
)

// GenerateMnemonic creates a new 12-word BIP39 mnemonic phrase.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", err
	}

	return mnemonic, nil
}

// ValidateMnemonic checks word count, word validity and checksum.
// Input is normalized first, so pasted phrases with numbering or stray
// whitespace validate the same as clean ones.
func ValidateMnemonic(mnemonic string) error {
	if mnemonic == "" {
		return walleterr.ErrInvalidMnemonic
	}

	normalized := NormalizeMnemonicInput(mnemonic)

	words := strings.Fields(normalized)
	if len(words) != 12 && len(words) != 24 {
		return walleterr.ErrInvalidMnemonic
	}

	if !bip39.IsMnemonicValid(normalized) {
		return walleterr.ErrInvalidMnemonic
	}

	return nil
}

// NormalizeMnemonicInput cleans up a pasted mnemonic: strips list
// numbering and bullets, collapses whitespace, lowercases.
func NormalizeMnemonicInput(input string) string {
	s := numberedListRegex.ReplaceAllString(input, " ")
	s = bulletListRegex.ReplaceAllString(s, " ")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// SuggestWord finds the closest BIP39 word to the input using Levenshtein
// distance. Ties prefer the candidate sharing the longer prefix with the
// input, then the closer length, so a transposed word beats an unrelated
// one at the same distance. Returns empty string if no word is close
// enough.
func SuggestWord(input string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string

	for _, word := range wordlists.English {
		dist := levenshtein.ComputeDistance(input, word)
		if dist == 0 {
			return word
		}
		if dist < minDist || (dist == minDist && closerMatch(input, word, suggestion)) {
			minDist = dist
			suggestion = word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// closerMatch reports whether candidate is a better tie-break than current
// for input: longer common prefix first, then smaller length difference.
func closerMatch(input, candidate, current string) bool {
	cp, xp := prefixLen(input, candidate), prefixLen(input, current)
	if cp != xp {
		return cp > xp
	}

	cd := len(candidate) - len(input)
	if cd < 0 {
		cd = -cd
	}
	xd := len(current) - len(input)
	if xd < 0 {
		xd = -xd
	}
	return cd < xd
}

func prefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// TypoInfo describes a word that is not in the BIP39 word list.
type TypoInfo struct {
	Index      int
	Word       string
	Suggestion string
	Distance   int
}

// DetectTypos scans a mnemonic phrase and suggests corrections for words
// that are not in the BIP39 word list. Used for validation feedback only;
// never applied automatically.
func DetectTypos(mnemonic string) []TypoInfo {
	if mnemonic == "" {
		return nil
	}

	valid := make(map[string]struct{}, len(wordlists.English))
	for _, w := range wordlists.English {
		valid[w] = struct{}{}
	}

	var typos []TypoInfo
	for i, word := range strings.Fields(NormalizeMnemonicInput(mnemonic)) {
		if _, ok := valid[word]; ok {
			continue
		}

		suggestion := SuggestWord(word)
		distance := 0
		if suggestion != "" {
			distance = levenshtein.ComputeDistance(word, suggestion)
		}
		typos = append(typos, TypoInfo{
			Index:      i,
			Word:       word,
			Suggestion: suggestion,
			Distance:   distance,
		})
	}

	return typos
}
