package models

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOwner       = "your-org"
	DefaultRepo        = "your-repo"
	DefaultEnvironment = "test"
	DefaultParameter   = "/github/api_token"
	DefaultAPIURL      = "https://api.github.com"
)

type SecretBackend string

const (
	SecretBackendSSM     SecretBackend = "ssm"
	SecretBackendKeyring SecretBackend = "keyring"
)

// Target identifies a deployment environment on a repository.
type Target struct {
	Owner       string `yaml:"owner"`
	Repo        string `yaml:"repo"`
	Environment string `yaml:"environment"`
}

func (t Target) String() string {
	return t.Owner + "/" + t.Repo + "@" + t.Environment
}

type Variable struct {
	Name  string
	Value string
}

// Variables keeps the order in which names were declared.
type Variables []Variable

func (v Variables) Names() []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		out = append(out, item.Name)
	}
	return out
}

func (v *Variables) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: variables must be a mapping", node.Line)
	}
	seen := map[string]struct{}{}
	out := make(Variables, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: variable %q must be a scalar", val.Line, k.Value)
		}
		name := strings.TrimSpace(k.Value)
		if name == "" {
			return fmt.Errorf("line %d: variable name is required", k.Line)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("line %d: variable %q is duplicated", k.Line, name)
		}
		seen[name] = struct{}{}
		out = append(out, Variable{Name: name, Value: val.Value})
	}
	*v = out
	return nil
}

func (v Variables) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, item := range v {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: item.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: item.Value, Style: yaml.DoubleQuotedStyle},
		)
	}
	return node, nil
}

type Config struct {
	Target     `yaml:",inline"`
	Variables  Variables     `yaml:"variables"`
	Timeout    time.Duration `yaml:"-"`
	ConfigPath string        `yaml:"-"`
}

// DemoConfig mirrors the values the tool used before targets were configurable.
func DemoConfig() Config {
	return Config{
		Target: Target{
			Owner:       DefaultOwner,
			Repo:        DefaultRepo,
			Environment: DefaultEnvironment,
		},
		Variables: Variables{
			{Name: "TEST_VAR_1", Value: "value1"},
			{Name: "TEST_VAR_2", Value: "value2"},
		},
	}
}

// ParseVariable splits a KEY=VALUE pair. The value may be empty.
func ParseVariable(raw string) (Variable, error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Variable{}, fmt.Errorf("variable %q must be in KEY=VALUE form", raw)
	}
	return Variable{Name: name, Value: value}, nil
}
