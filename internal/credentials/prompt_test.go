package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/huh"
)

func stubPrompt(terminal bool, answer string, err error) (*PromptSource, *int) {
	calls := 0
	p := &PromptSource{
		isTerminal: func() bool { return terminal },
		ask: func(context.Context) (string, error) {
			calls++
			return answer, err
		},
	}
	return p, &calls
}

func TestPromptSourceSkipsNonTerminal(t *testing.T) {
	p, calls := stubPrompt(false, "tok", nil)
	_, found, err := p.Lookup(context.Background())
	if err != nil || found {
		t.Fatalf("expected no token without terminal, got found=%v err=%v", found, err)
	}
	if *calls != 0 {
		t.Fatalf("prompt should not be shown without a terminal")
	}
}

func TestPromptSourceReturnsAnswer(t *testing.T) {
	p, _ := stubPrompt(true, " tok \n", nil)
	got, found, err := p.Lookup(context.Background())
	if err != nil || !found || got != "tok" {
		t.Fatalf("expected tok, got %q found=%v err=%v", got, found, err)
	}
}

func TestPromptSourceAbortIsAbsent(t *testing.T) {
	p, _ := stubPrompt(true, "", huh.ErrUserAborted)
	_, found, err := p.Lookup(context.Background())
	if err != nil || found {
		t.Fatalf("expected abort to mean no token, got found=%v err=%v", found, err)
	}
}

func TestPromptSourceFailureIsReported(t *testing.T) {
	p, _ := stubPrompt(true, "", errors.New("tty closed"))
	if _, _, err := p.Lookup(context.Background()); err == nil {
		t.Fatalf("expected prompt error")
	}
}

func TestResolverUsesPromptLast(t *testing.T) {
	t.Setenv(TokenEnv, "")
	p, calls := stubPrompt(true, "typed", nil)
	r := NewResolver(quietLogger(),
		NewStoreSource(NewEnvStore(), TokenEnv),
		NewStoreSource(&memStore{err: errors.New("unreachable")}, "/github/api_token"),
		p,
	)
	got, err := r.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "typed" || *calls != 1 {
		t.Fatalf("expected prompted token once, got %q after %d prompts", got, *calls)
	}
}
