package secrets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	value string
	err   error
	calls int
}

func (s *stubStore) Get(context.Context, string) (string, error) {
	s.calls++
	return s.value, s.err
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "NOSTR_TEST_BOT_NSEC", EnvName("nostr-test-bot-nsec"))
	assert.Equal(t, "_BOT_KEYS_NSEC", EnvName("/bot/keys.nsec"))
}

func TestEnvStore(t *testing.T) {
	t.Setenv("NOSTR_TEST_BOT_NSEC", " nsec1abc \n")
	s := NewEnvStore()

	v, err := s.Get(context.Background(), "nostr-test-bot-nsec")
	require.NoError(t, err)
	assert.Equal(t, "nsec1abc", v)

	_, err = s.Get(context.Background(), "missing-secret-name")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChainUsesPrimaryWhenItSucceeds(t *testing.T) {
	primary := &stubStore{value: "from-primary"}
	fallback := &stubStore{value: "from-fallback"}
	c, err := NewChain(primary, fallback)
	require.NoError(t, err)

	v, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "from-primary", v)
	assert.Equal(t, 0, fallback.calls)
}

func TestChainFallsBack(t *testing.T) {
	c, err := NewChain(&stubStore{err: errors.New("extension down")}, &stubStore{value: "from-env"})
	require.NoError(t, err)

	v, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
}

func TestChainCombinesErrors(t *testing.T) {
	c, err := NewChain(&stubStore{err: errors.New("extension down")}, &stubStore{err: ErrNotFound})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorContains(t, err, "extension down")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChainDoesNotFallBackOnCancel(t *testing.T) {
	fallback := &stubStore{value: "x"}
	c, err := NewChain(&stubStore{err: context.Canceled}, fallback)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "k")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fallback.calls)
}

func TestNewChainRejectsNil(t *testing.T) {
	_, err := NewChain(nil, &stubStore{})
	require.Error(t, err)
	_, err = NewChain(&stubStore{}, nil)
	require.Error(t, err)
}

func TestParamStoreGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/systemsmanager/parameters/get" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Aws-Parameters-Secrets-Token") != "session-token" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("missing token"))
			return
		}
		if r.URL.Query().Get("withDecryption") != "true" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("name") {
		case "nostr-test-bot-nsec":
			_, _ = fmt.Fprint(w, `{"Parameter":{"Name":"nostr-test-bot-nsec","Type":"SecureString","Value":"nsec1secret","Version":3}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewParamStore(srv.URL, "session-token")
	v, err := s.Get(context.Background(), "nostr-test-bot-nsec")
	require.NoError(t, err)
	assert.Equal(t, "nsec1secret", v)

	_, err = s.Get(context.Background(), "other")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = NewParamStore(srv.URL, "").Get(context.Background(), "nostr-test-bot-nsec")
	require.Error(t, err)
	assert.ErrorContains(t, err, "status=403")
	assert.ErrorContains(t, err, "missing token")
}

func TestParamStoreUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewParamStore(base, "t").Get(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
