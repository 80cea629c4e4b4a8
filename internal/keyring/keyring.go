package keyring

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/zalando/go-keyring"

	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/models"
)

var (
	// ErrNotFound is returned when no entry is stored for the requested key
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// tokensKey derives the keyring user for a REST authority. Tokens are scoped
// by host so switching --store between servers keeps both logins.
func tokensKey(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid service URL %q", baseURL)
	}
	return constants.KeyringTokensPrefix + strings.ToLower(u.Host), nil
}

// SaveTokens stores the token pair issued by the authority at baseURL.
func SaveTokens(baseURL string, tokens models.TokenPair) error {
	if tokens.Access == "" {
		return errors.New("access token cannot be empty")
	}
	key, err := tokensKey(baseURL)
	if err != nil {
		return err
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}
	if err := keyring.Set(constants.AppName, key, string(data)); err != nil {
		return fmt.Errorf("failed to store tokens in keyring: %w", err)
	}
	return nil
}

// GetTokens returns the stored token pair for baseURL, or ErrNotFound.
func GetTokens(baseURL string) (models.TokenPair, error) {
	key, err := tokensKey(baseURL)
	if err != nil {
		return models.TokenPair{}, err
	}
	raw, err := get(key)
	if err != nil {
		return models.TokenPair{}, err
	}
	var tokens models.TokenPair
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		return models.TokenPair{}, fmt.Errorf("stored tokens are corrupt: %w", err)
	}
	return tokens, nil
}

// DeleteTokens forgets the login for baseURL.
func DeleteTokens(baseURL string) error {
	key, err := tokensKey(baseURL)
	if err != nil {
		return err
	}
	return del(key)
}

// GetConnectionString retrieves the PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return get(constants.KeyringDatabaseUser)
}

// SetConnectionString stores the PostgreSQL connection string.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.KeyringDatabaseUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the PostgreSQL connection string.
func DeleteConnectionString() error {
	return del(constants.KeyringDatabaseUser)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func get(key string) (string, error) {
	v, err := keyring.Get(constants.AppName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func del(key string) error {
	if err := keyring.Delete(constants.AppName, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}
