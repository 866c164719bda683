package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/aurumwallet/aurum/internal/lifecycle"
	"github.com/aurumwallet/aurum/internal/wallet"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

func out(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func outln(w io.Writer, args ...any) {
	_, _ = fmt.Fprintln(w, args...)
}

// passwordPrompt is the active password reader; tests swap it out.
var passwordPrompt = promptPassword //nolint:gochecknoglobals // Swappable seam for tests

// promptPassword prompts for a password with hidden input.
func promptPassword(prompt string) (string, error) {
	out(os.Stderr, "%s", prompt)

	password, err := term.ReadPassword(syscall.Stdin)
	outln(os.Stderr) // newline after hidden input

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

// promptNewPassword prompts for a new password with confirmation,
// enforcing the minimum length.
func promptNewPassword() (string, error) {
	password, err := promptPassword("Enter encryption password: ")
	if err != nil {
		return "", err
	}

	if len(password) < lifecycle.MinPasswordLength {
		return "", walleterr.WithSuggestion(
			walleterr.ErrInvalidInput,
			"password must be at least 8 characters",
		)
	}

	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", walleterr.WithSuggestion(
			walleterr.ErrInvalidInput,
			"passwords do not match",
		)
	}

	return password, nil
}

// promptMnemonic reads a recovery phrase from stdin. Numbered or
// line-broken pastes are accepted; typos get a closest-word suggestion.
func promptMnemonic() (string, error) {
	outln(os.Stderr, "Enter your recovery phrase (all words, any layout):")

	reader := bufio.NewReader(os.Stdin)
	raw, err := reader.ReadString('\n')
	if err != nil && raw == "" {
		return "", walleterr.WithSuggestion(walleterr.ErrInvalidInput, "no input provided")
	}

	normalized := wallet.NormalizeMnemonicInput(raw)
	if validateErr := wallet.ValidateMnemonic(normalized); validateErr != nil {
		var hints []string
		for _, typo := range wallet.DetectTypos(normalized) {
			if typo.Suggestion != "" {
				hints = append(hints, fmt.Sprintf("%q -> %q", typo.Word, typo.Suggestion))
			}
		}
		if len(hints) > 0 {
			return "", walleterr.WithSuggestion(
				walleterr.ErrInvalidMnemonic,
				"did you mean: "+strings.Join(hints, ", "),
			)
		}
		return "", validateErr
	}

	return normalized, nil
}
