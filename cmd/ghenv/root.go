package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ghenv/internal/config"
	"ghenv/internal/credentials"
	"ghenv/internal/driver"
	"ghenv/internal/github"
	"ghenv/internal/models"
	"ghenv/internal/ui"
)

var version = "undefined"

type rootOptions struct {
	configPath  string
	token       string
	storeToken  bool
	owner       string
	repo        string
	environment string
	vars        []string
	saveConfig  bool
	prompt      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "ghenv",
		Short:   "Create a GitHub deployment environment and set its variables",
		Version: version,
		Long: `
ghenv checks a GitHub token, creates (or updates) a deployment environment on
a repository and sets the configured variables on it. The token is taken from
--token, $GITHUB_TOKEN or the secret store, in that order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := config.NewRuntime(v)
			if err != nil {
				return fmt.Errorf("error reading configuration: %w", err)
			}
			configureLogging(rt)
			return run(cmd, opts, rt)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.token, "token", "", "GitHub token (default: $GITHUB_TOKEN or the secret store)")
	flags.BoolVar(&opts.storeToken, "store-token", false, "Store the --token value in the secret store")
	flags.StringVar(&opts.configPath, "config", "", "absolute path to config file (default: $GHENV_CONFIG or XDG config path)")
	flags.StringVarP(&opts.owner, "owner", "o", "", "Repository owner")
	flags.StringVarP(&opts.repo, "repo", "r", "", "Repository name")
	flags.StringVarP(&opts.environment, "environment", "e", "", "Environment name")
	flags.StringArrayVar(&opts.vars, "var", nil, "Variable as KEY=VALUE, repeatable; replaces the variables from the config file")
	flags.BoolVar(&opts.saveConfig, "save-config", false, "Write the effective target and variables to the config file")
	flags.BoolVar(&opts.prompt, "prompt", false, "Ask for a token on the terminal when no other source has one")

	pflags := cmd.PersistentFlags()
	pflags.BoolP("debug", "d", false, "Enable debug logging")
	pflags.String("log-format", "text", "Log format (text, json)")
	pflags.String("timeout", "", "HTTP timeout for GitHub API requests, e.g. 30s or 1m (default: none)")
	pflags.String("api-url", models.DefaultAPIURL, "GitHub API base URL")
	pflags.String("secret-backend", string(models.SecretBackendSSM), "Secret store backend (ssm, keyring)")
	pflags.String("parameter", models.DefaultParameter, "Secret store parameter holding the token")
	pflags.String("aws-region", "", "AWS region for the ssm backend (default: AWS config chain)")

	for key, flag := range map[string]string{
		"debug":          "debug",
		"log_format":     "log-format",
		"timeout":        "timeout",
		"api_url":        "api-url",
		"secret_backend": "secret-backend",
		"parameter":      "parameter",
		"aws_region":     "aws-region",
	} {
		if err := v.BindPFlag(key, pflags.Lookup(flag)); err != nil {
			log.Error(err)
		}
	}
	v.SetEnvPrefix("GHENV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func configureLogging(rt *config.Runtime) {
	log.SetOutput(os.Stderr)
	if rt.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}
	log.SetLevel(log.InfoLevel)
	if rt.Debug {
		log.SetLevel(log.DebugLevel)
		log.Debugf("Version: %s", version)
	}
}

func run(cmd *cobra.Command, opts *rootOptions, rt *config.Runtime) error {
	ctx := cmd.Context()

	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}
	timeout, err := rt.HTTPTimeout()
	if err != nil {
		return err
	}
	cfg.Timeout = timeout

	if opts.saveConfig {
		if err := config.Save(cfg.ConfigPath, cfg); err != nil {
			return err
		}
		log.Infof("Saved config to %s", cfg.ConfigPath)
	}
	if opts.storeToken && strings.TrimSpace(opts.token) == "" {
		log.Warn("--store-token has no effect without --token")
	}

	secrets := newSecretStore(rt)
	sources := []credentials.Source{
		credentials.NewStoreSource(credentials.NewEnvStore(), credentials.TokenEnv),
		credentials.NewStoreSource(secrets, rt.Parameter),
	}
	if opts.prompt {
		sources = append(sources, credentials.NewPromptSource(os.Stdin, cmd.ErrOrStderr()))
	}
	logger := log.StandardLogger()
	resolver := credentials.NewResolver(logger, sources...)

	report := ui.NewReporter(cmd.OutOrStdout())
	factory := func(token string) (driver.API, error) {
		client, err := github.NewClient(token, rt.APIURL, cfg.Timeout, report, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	res, err := driver.New(resolver, factory, secrets, report, logger).Run(ctx, driver.Options{
		Token:      opts.token,
		StoreToken: opts.storeToken,
		Parameter:  rt.Parameter,
		Config:     cfg,
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"connected":    res.Connected,
		"environment":  res.EnvironmentCreated,
		"variables":    res.VariablesSet,
		"token_stored": res.TokenStored,
		"failures":     report.Failures(),
	}).Debug("Done")
	return nil
}

// buildConfig merges the config file, flag overrides and demo defaults.
func buildConfig(opts *rootOptions) (models.Config, error) {
	path, err := config.ResolvePath(opts.configPath)
	if err != nil {
		return models.Config{}, err
	}
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debugf("No config file at %s, using defaults", path)
		cfg = models.Config{}
	case err != nil:
		return cfg, err
	default:
		log.Debugf("Using config file: %s", path)
	}
	cfg.ConfigPath = path

	if s := strings.TrimSpace(opts.owner); s != "" {
		cfg.Owner = s
	}
	if s := strings.TrimSpace(opts.repo); s != "" {
		cfg.Repo = s
	}
	if s := strings.TrimSpace(opts.environment); s != "" {
		cfg.Environment = s
	}
	if len(opts.vars) > 0 {
		seen := map[string]struct{}{}
		vars := make(models.Variables, 0, len(opts.vars))
		for _, raw := range opts.vars {
			item, err := models.ParseVariable(raw)
			if err != nil {
				return cfg, err
			}
			if _, ok := seen[item.Name]; ok {
				return cfg, fmt.Errorf("variable %q is given more than once", item.Name)
			}
			seen[item.Name] = struct{}{}
			vars = append(vars, item)
		}
		cfg.Variables = vars
	}
	return config.WithDefaults(cfg), nil
}

func newSecretStore(rt *config.Runtime) credentials.Store {
	if rt.Backend() == models.SecretBackendKeyring {
		return credentials.NewKeyringStore()
	}
	return credentials.NewSSMStore(rt.AWSRegion)
}
