// Package device manages the client device identity and the best-effort
// registration call against the backend. Registration failures never block
// a wallet state transition.
package device

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/aurumwallet/aurum/internal/vault"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// identityKey is the preference record holding the device identifier.
const identityKey = "device_client_identifier"

// Registration is the payload for the device registration endpoint.
type Registration struct {
	ClientID   string `json:"clientIdentifier"`
	Platform   string `json:"platform"`
	PushToken  string `json:"pushToken,omitempty"`
	AppVersion string `json:"appVersion"`
}

// Registrar is the one-way registration collaborator.
type Registrar interface {
	Register(ctx context.Context, reg Registration) error
}

// Identity returns the stable device identifier, creating and persisting
// a random UUID on first use. Not security-sensitive.
func Identity(plain *vault.PlainStore) (string, error) {
	var id string
	err := plain.Get(identityKey, &id)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, walleterr.ErrNotFound) {
		return "", err
	}

	id = uuid.NewString()
	if err := plain.Set(identityKey, id); err != nil {
		return "", err
	}
	return id, nil
}
