package credentials

import (
	"context"
	"errors"
	"testing"
)

func TestEnvStoreGet(t *testing.T) {
	t.Setenv("GHENV_TEST_TOKEN", "abc123")
	store := NewEnvStore()
	got, err := store.Get(context.Background(), "GHENV_TEST_TOKEN")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "abc123" {
		t.Fatalf("expected token, got %q", got)
	}
}

func TestEnvStoreGetMissing(t *testing.T) {
	store := NewEnvStore()
	if _, err := store.Get(context.Background(), "GHENV_TEST_TOKEN_MISSING"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing env credential, got %v", err)
	}
}

func TestEnvStoreSetIsReadOnly(t *testing.T) {
	store := NewEnvStore()
	if err := store.Set(context.Background(), "GHENV_TEST_TOKEN", "x"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}
