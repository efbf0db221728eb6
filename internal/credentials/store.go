package credentials

import (
	"context"
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("credential not found")
	ErrReadOnly     = fmt.Errorf("credential store is read-only")
	ErrNoCredential = fmt.Errorf("no GitHub token found in flags, environment or secret store")
)

// Store is a named key/value backend for secrets. Get returns ErrNotFound
// when ref holds no value.
type Store interface {
	Name() string
	Get(ctx context.Context, ref string) (string, error)
	Set(ctx context.Context, ref, value string) error
}
