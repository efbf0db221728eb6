package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"

	"ghenv/internal/models"
)

// Runtime holds process settings that are bound from flags and GHENV_* variables.
type Runtime struct {
	Debug         bool   `mapstructure:"debug"`
	LogFormat     string `mapstructure:"log_format"`
	Timeout       string `mapstructure:"timeout"`
	APIURL        string `mapstructure:"api_url"`
	SecretBackend string `mapstructure:"secret_backend"`
	Parameter     string `mapstructure:"parameter"`
	AWSRegion     string `mapstructure:"aws_region"`
}

func NewRuntime(v *viper.Viper) (*Runtime, error) {
	var rt Runtime
	if err := v.Unmarshal(&rt); err != nil {
		return nil, err
	}
	rt.LogFormat = strings.ToLower(strings.TrimSpace(rt.LogFormat))
	if rt.LogFormat == "" {
		rt.LogFormat = "text"
	}
	if rt.LogFormat != "text" && rt.LogFormat != "json" {
		return nil, fmt.Errorf("log_format must be %q or %q, got %q", "text", "json", rt.LogFormat)
	}
	if strings.TrimSpace(rt.APIURL) == "" {
		rt.APIURL = models.DefaultAPIURL
	}
	if strings.TrimSpace(rt.Parameter) == "" {
		rt.Parameter = models.DefaultParameter
	}
	switch models.SecretBackend(strings.TrimSpace(rt.SecretBackend)) {
	case "":
		rt.SecretBackend = string(models.SecretBackendSSM)
	case models.SecretBackendSSM, models.SecretBackendKeyring:
	default:
		return nil, fmt.Errorf("secret_backend must be %q or %q, got %q", models.SecretBackendSSM, models.SecretBackendKeyring, rt.SecretBackend)
	}
	if _, err := rt.HTTPTimeout(); err != nil {
		return nil, err
	}
	return &rt, nil
}

// HTTPTimeout returns zero when no timeout is configured.
func (r *Runtime) HTTPTimeout() (time.Duration, error) {
	raw := strings.TrimSpace(r.Timeout)
	if raw == "" || raw == "0" {
		return 0, nil
	}
	d, err := str2duration.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("error parsing timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative: %s", raw)
	}
	return d, nil
}

func (r *Runtime) Backend() models.SecretBackend {
	return models.SecretBackend(r.SecretBackend)
}
