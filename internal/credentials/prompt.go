package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// PromptSource asks for a token on the terminal. It reports no token when
// input is not interactive or the user cancels.
type PromptSource struct {
	Input  *os.File
	Output io.Writer

	isTerminal func() bool
	ask        func(ctx context.Context) (string, error)
}

func NewPromptSource(in *os.File, out io.Writer) *PromptSource {
	p := &PromptSource{Input: in, Output: out}
	p.isTerminal = func() bool {
		fd := p.Input.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	p.ask = p.askToken
	return p
}

func (p *PromptSource) Name() string {
	return "prompt"
}

func (p *PromptSource) Lookup(ctx context.Context) (string, bool, error) {
	if !p.isTerminal() {
		return "", false, nil
	}
	token, err := p.ask(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("prompt for token: %w", err)
	}
	token = strings.TrimSpace(token)
	return token, token != "", nil
}

func (p *PromptSource) askToken(ctx context.Context) (string, error) {
	var token string
	keys := huh.NewDefaultKeyMap()
	keys.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("GitHub token").
			Description("No token found in flags, environment or secret store.").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("token is required")
				}
				return nil
			}).
			Value(&token),
	)).
		WithKeyMap(keys).
		WithProgramOptions(tea.WithContext(ctx), tea.WithInput(p.Input), tea.WithOutput(p.Output))

	if err := form.Run(); err != nil {
		return "", err
	}
	return token, nil
}
