package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrNotFound = errors.New("secret not found")

// Store loads a named secret.
type Store interface {
	Get(ctx context.Context, name string) (string, error)
}

// EnvStore reads secrets from environment variables. The name
// "nostr-test-bot-nsec" maps to NOSTR_TEST_BOT_NSEC.
type EnvStore struct {
	lookup func(string) (string, bool)
}

var _ Store = (*EnvStore)(nil)

func NewEnvStore() *EnvStore { return &EnvStore{lookup: os.LookupEnv} }

func EnvName(name string) string {
	r := strings.NewReplacer("-", "_", ".", "_", "/", "_")
	return strings.ToUpper(r.Replace(strings.TrimSpace(name)))
}

func (s *EnvStore) Get(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := EnvName(name)
	v, ok := s.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return strings.TrimSpace(v), nil
}

// Chain tries primary first and falls back on any error other than cancellation.
type Chain struct {
	primary  Store
	fallback Store
}

var _ Store = (*Chain)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewChain(primary, fallback Store) (*Chain, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}
	return &Chain{primary: primary, fallback: fallback}, nil
}

func (c *Chain) Get(ctx context.Context, name string) (string, error) {
	v, err := c.primary.Get(ctx, name)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", err
	}
	fv, ferr := c.fallback.Get(ctx, name)
	if ferr == nil {
		return fv, nil
	}
	return "", fmt.Errorf("primary secret store failed: %w; fallback secret store failed: %w", err, ferr)
}
