package credentials

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Source yields a token or reports that it has none. A non-nil error means
// the source could not be consulted; found is false in that case.
type Source interface {
	Name() string
	Lookup(ctx context.Context) (token string, found bool, err error)
}

// StoreSource looks up a single ref in a Store.
type StoreSource struct {
	Store Store
	Ref   string
}

func NewStoreSource(store Store, ref string) *StoreSource {
	return &StoreSource{Store: store, Ref: strings.TrimSpace(ref)}
}

func (s *StoreSource) Name() string {
	return s.Store.Name() + ":" + s.Ref
}

func (s *StoreSource) Lookup(ctx context.Context) (string, bool, error) {
	value, err := s.Store.Get(ctx, s.Ref)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	value = strings.TrimSpace(value)
	return value, value != "", nil
}

// Resolver picks the first token offered by an explicit value or, failing
// that, by its sources in order.
type Resolver struct {
	sources []Source
	logger  log.FieldLogger
}

func NewResolver(logger log.FieldLogger, sources ...Source) *Resolver {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Resolver{sources: sources, logger: logger}
}

// Resolve returns explicit when it is set. Otherwise each source is asked in
// turn; a source that fails is logged and skipped. ErrNoCredential is
// returned when nothing yields a token.
func (r *Resolver) Resolve(ctx context.Context, explicit string) (string, error) {
	if token := strings.TrimSpace(explicit); token != "" {
		r.logger.WithField("source", "flag").Debug("Using token from command line")
		return token, nil
	}
	for _, src := range r.sources {
		token, found, err := src.Lookup(ctx)
		switch {
		case err != nil:
			r.logger.WithField("source", src.Name()).Warnf("Could not retrieve token: %v", err)
		case found:
			r.logger.WithField("source", src.Name()).Debug("Using token")
			return token, nil
		default:
			r.logger.WithField("source", src.Name()).Debug("No token")
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", ErrNoCredential
}
