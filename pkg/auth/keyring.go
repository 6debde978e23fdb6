package auth

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "simple-ado"

// ErrNoStoredToken is returned when no token has been stored for a tenant
var ErrNoStoredToken = errors.New("no stored token")

// KeyringStore persists personal access tokens in the system keyring, keyed by tenant
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyringStore opens the system keyring
func OpenKeyringStore(fileDir string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("simple-ado-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewKeyringStore(ring), nil
}

// NewKeyringStore wraps an already opened keyring
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func tokenKey(tenant string) string {
	return "token/" + tenant
}

// Get returns the token stored for tenant
func (s *KeyringStore) Get(tenant string) (string, error) {
	item, err := s.ring.Get(tokenKey(tenant))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w for tenant %q", ErrNoStoredToken, tenant)
	} else if err != nil {
		return "", fmt.Errorf("getting token for tenant %q: %w", tenant, err)
	}
	return string(item.Data), nil
}

// Set stores the token for tenant
func (s *KeyringStore) Set(tenant string, token string) error {
	err := s.ring.Set(keyring.Item{
		Key:         tokenKey(tenant),
		Data:        []byte(token),
		Label:       "simple-ado token for " + tenant,
		Description: "Azure Devops personal access token",
	})
	if err != nil {
		return fmt.Errorf("storing token for tenant %q: %w", tenant, err)
	}
	return nil
}

// Delete removes the token stored for tenant
func (s *KeyringStore) Delete(tenant string) error {
	err := s.ring.Remove(tokenKey(tenant))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("deleting token for tenant %q: %w", tenant, err)
	}
	return nil
}
