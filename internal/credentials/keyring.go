package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "com.ghenv"

type KeyringStore struct {
	Service string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{Service: serviceName}
}

func (s *KeyringStore) Name() string {
	return "keyring"
}

func (s *KeyringStore) Get(_ context.Context, ref string) (string, error) {
	value, err := keyring.Get(s.service(), strings.TrimSpace(ref))
	if err == nil {
		return value, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return "", err
}

func (s *KeyringStore) Set(_ context.Context, ref, value string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("credential ref is required")
	}
	if value == "" {
		return fmt.Errorf("credential value is required")
	}
	return keyring.Set(s.service(), ref, value)
}

func (s *KeyringStore) service() string {
	if strings.TrimSpace(s.Service) != "" {
		return s.Service
	}
	return serviceName
}
