package credentials

import (
	"context"
	"errors"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
)

type memStore struct {
	values map[string]string
	err    error
	gets   int
}

func (m *memStore) Name() string { return "mem" }

func (m *memStore) Get(_ context.Context, ref string) (string, error) {
	m.gets++
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[ref]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, ref, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[ref] = value
	return nil
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestResolver(secret Store) *Resolver {
	return NewResolver(quietLogger(),
		NewStoreSource(NewEnvStore(), TokenEnv),
		NewStoreSource(secret, "/github/api_token"),
	)
}

func TestResolveFailsWhenSecretStoreErrors(t *testing.T) {
	t.Setenv(TokenEnv, "")
	secret := &memStore{err: errors.New("no credentials in chain")}
	_, err := newTestResolver(secret).Resolve(context.Background(), "")
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if secret.gets != 1 {
		t.Fatalf("expected secret store to be consulted once, got %d", secret.gets)
	}
}

func TestResolvePrefersEnvOverSecretStore(t *testing.T) {
	t.Setenv(TokenEnv, "abc")
	secret := &memStore{values: map[string]string{"/github/api_token": "from-store"}}
	got, err := newTestResolver(secret).Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "abc" {
		t.Fatalf("expected env token, got %q", got)
	}
	if secret.gets != 0 {
		t.Fatalf("secret store should not be consulted, got %d lookups", secret.gets)
	}
}

func TestResolveExplicitToken(t *testing.T) {
	t.Setenv(TokenEnv, "")
	secret := &memStore{values: map[string]string{"/github/api_token": "from-store"}}
	got, err := newTestResolver(secret).Resolve(context.Background(), "  explicit  ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "explicit" {
		t.Fatalf("expected explicit token, got %q", got)
	}
	if secret.gets != 0 {
		t.Fatalf("secret store should not be consulted, got %d lookups", secret.gets)
	}
}

func TestResolveFallsBackToSecretStore(t *testing.T) {
	t.Setenv(TokenEnv, "")
	secret := &memStore{values: map[string]string{"/github/api_token": "from-store\n"}}
	got, err := newTestResolver(secret).Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "from-store" {
		t.Fatalf("expected secret store token, got %q", got)
	}
}

func TestResolveMissingEverywhere(t *testing.T) {
	t.Setenv(TokenEnv, "")
	_, err := newTestResolver(&memStore{}).Resolve(context.Background(), "")
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestStoreSourceTreatsBlankValueAsAbsent(t *testing.T) {
	src := NewStoreSource(&memStore{values: map[string]string{"ref": "   "}}, "ref")
	_, found, err := src.Lookup(context.Background())
	if err != nil || found {
		t.Fatalf("expected absent without error, got found=%v err=%v", found, err)
	}
}
