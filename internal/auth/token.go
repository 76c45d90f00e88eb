// Package auth stores the reader-proxy API token in the system keyring.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "newshound"
	keyringUser    = "reader-token"

	// Environment override, mostly for headless hosts without a keyring.
	tokenEnvVar = "NEWSHOUND_READER_TOKEN"
)

// ErrNoToken is returned when no token has been stored.
var ErrNoToken = errors.New("no reader token stored")

// SaveToken stores the reader-proxy token in the system keyring.
func SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return fmt.Errorf("store token in keyring: %w", err)
	}
	return nil
}

// LoadToken returns the stored token. The NEWSHOUND_READER_TOKEN
// environment variable takes precedence over the keyring.
func LoadToken() (string, error) {
	if tok := strings.TrimSpace(os.Getenv(tokenEnvVar)); tok != "" {
		return tok, nil
	}
	tok, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token from keyring: %w", err)
	}
	return tok, nil
}

// DeleteToken removes the stored token.
func DeleteToken() error {
	err := keyring.Delete(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNoToken
	}
	return err
}
