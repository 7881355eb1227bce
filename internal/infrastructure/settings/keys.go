// Package settings persists credentials, provider/model selections and
// favorite requests. Conversation history is never stored here.
package settings

import (
	"errors"
	"os"
	"strings"

	"github.com/doeshing/codeshai/internal/domain"
)

// ErrFavoriteNotFound is returned when removing an unknown favorite.
var ErrFavoriteNotFound = errors.New("favorite not found")

const (
	keySelectedProvider = "selected_provider"
	keyCredentialPrefix = "credential."
	keyModelPrefix      = "model."
)

func credentialKey(p domain.Provider) string { return keyCredentialPrefix + string(p) }
func modelKey(p domain.Provider) string      { return keyModelPrefix + string(p) }

// defaultSelectedModel is the model preselected for a provider before the
// user picks one. Empty means the provider's own default.
func defaultSelectedModel(p domain.Provider) string {
	switch p {
	case domain.ProviderGroq:
		return domain.DefaultGroqModel
	case domain.ProviderOllama:
		return domain.ProviderOllama.DefaultModel()
	default:
		return ""
	}
}

// credentialFromEnv consults the provider's environment variable.
func credentialFromEnv(p domain.Provider) string {
	if name := p.CredentialEnvVar(); name != "" {
		return strings.TrimSpace(os.Getenv(name))
	}
	return ""
}

func normalizeFavorite(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", domain.ErrEmptyRequest
	}
	return command, nil
}
