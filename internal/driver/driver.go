// Package driver runs the fixed provisioning sequence: resolve a token,
// check it, create the environment, set its variables and optionally store
// the token for later runs.
package driver

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"ghenv/internal/models"
)

type API interface {
	TestConnection(ctx context.Context) bool
	CreateEnvironment(ctx context.Context, owner, repo, name string) bool
	SetVariables(ctx context.Context, owner, repo, env string, vars models.Variables) bool
}

type TokenResolver interface {
	Resolve(ctx context.Context, explicit string) (string, error)
}

type TokenWriter interface {
	Name() string
	Set(ctx context.Context, ref, value string) error
}

type Reporter interface {
	Successf(format string, args ...any)
	Failuref(format string, args ...any)
}

// APIFactory builds an API client once the token is known.
type APIFactory func(token string) (API, error)

type Options struct {
	Token      string
	StoreToken bool
	Parameter  string
	Config     models.Config
}

// Result records how far the sequence got.
type Result struct {
	Connected           bool
	EnvironmentCreated  bool
	VariablesAttempted  bool
	VariablesSet        bool
	TokenStoreAttempted bool
	TokenStored         bool
}

type Driver struct {
	resolver TokenResolver
	newAPI   APIFactory
	secrets  TokenWriter
	report   Reporter
	logger   log.FieldLogger
}

func New(resolver TokenResolver, newAPI APIFactory, secrets TokenWriter, report Reporter, logger log.FieldLogger) *Driver {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Driver{
		resolver: resolver,
		newAPI:   newAPI,
		secrets:  secrets,
		report:   report,
		logger:   logger,
	}
}

// Run executes the sequence. The returned error is set only when no token
// could be obtained or the client could not be built; every later failure
// is reported and reflected in Result.
func (d *Driver) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	token, err := d.resolver.Resolve(ctx, opts.Token)
	if err != nil {
		return res, err
	}
	api, err := d.newAPI(token)
	if err != nil {
		return res, fmt.Errorf("create api client: %w", err)
	}

	target := opts.Config.Target
	logger := d.logger.WithField("target", target.String())

	res.Connected = api.TestConnection(ctx)
	if !res.Connected {
		logger.Debug("Stopping, connection check failed")
		return res, nil
	}
	res.EnvironmentCreated = api.CreateEnvironment(ctx, target.Owner, target.Repo, target.Environment)
	if res.EnvironmentCreated {
		res.VariablesAttempted = true
		res.VariablesSet = api.SetVariables(ctx, target.Owner, target.Repo, target.Environment, opts.Config.Variables)
	} else {
		logger.Debug("Skipping variables, environment was not created")
	}

	if opts.StoreToken && strings.TrimSpace(opts.Token) != "" {
		res.TokenStoreAttempted = true
		res.TokenStored = d.storeToken(ctx, opts.Parameter, strings.TrimSpace(opts.Token))
	}
	logger.WithFields(log.Fields{
		"environment_created": res.EnvironmentCreated,
		"variables_set":       res.VariablesSet,
	}).Debug("Run finished")
	return res, nil
}

func (d *Driver) storeToken(ctx context.Context, parameter, token string) bool {
	if parameter == "" {
		parameter = models.DefaultParameter
	}
	if err := d.secrets.Set(ctx, parameter, token); err != nil {
		d.report.Failuref("Failed to store token: %v", err)
		return false
	}
	d.report.Successf("Token stored in %s", storeLabel(d.secrets.Name()))
	return true
}

func storeLabel(name string) string {
	switch name {
	case string(models.SecretBackendSSM):
		return "AWS Parameter Store"
	case string(models.SecretBackendKeyring):
		return "system keyring"
	default:
		return name
	}
}
