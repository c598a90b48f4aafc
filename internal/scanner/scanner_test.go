package scanner

import (
	"context"
	"testing"

	"KeepUpDaily/internal/domain"
)

type namedScanner string

func (n namedScanner) Name() string { return string(n) }

func (n namedScanner) Scan(ctx context.Context, req Request) ([]domain.Article, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(namedScanner("hackernews"))

	if _, err := reg.Resolve("hackernews"); err != nil {
		t.Fatalf("resolve registered scanner: %v", err)
	}
	if _, err := reg.Resolve("unknown"); err == nil {
		t.Fatal("expected error for unregistered scanner")
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(namedScanner("a"))
	reg.Register(namedScanner("a"))

	if _, err := reg.Resolve("a"); err != nil {
		t.Fatalf("resolve after replace: %v", err)
	}
}
