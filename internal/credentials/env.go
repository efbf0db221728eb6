package credentials

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const TokenEnv = "GITHUB_TOKEN"

type EnvStore struct{}

func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

func (s *EnvStore) Name() string {
	return "env"
}

func (s *EnvStore) Get(_ context.Context, ref string) (string, error) {
	key := strings.TrimSpace(ref)
	if key == "" {
		return "", fmt.Errorf("credential ref is required")
	}
	value := os.Getenv(key)
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *EnvStore) Set(_ context.Context, _, _ string) error {
	return fmt.Errorf("cannot set env credentials at runtime: %w", ErrReadOnly)
}
