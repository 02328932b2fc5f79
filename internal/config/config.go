package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultRelays are the relays the bot has always queried for prior boards.
var DefaultRelays = []string{
	"wss://relay.nostr.band/",
	"wss://nos.lol",
	"wss://relay.damus.io",
	"wss://relay.nostr.wirednet.jp",
	"wss://nostr-relay.nokotaro.com",
	"wss://nostream.ocha.one",
}

const (
	SecretBackendParamStore = "paramstore"
	SecretBackendEnv        = "env"
	SecretBackendChain      = "chain"
)

type AppConfig struct {
	ListenAddr     string
	RequestTimeout time.Duration

	Relays       []string
	RelayTimeout time.Duration

	SecretName        string
	SecretBackend     string
	ParamStoreURL     string
	ParamStoreToken   string
	ParamStoreTimeout time.Duration

	RedisURL       string
	LookupCacheTTL time.Duration

	DatabaseURL string

	MessagesDir string
}

// Load reads configuration from the environment, after applying a .env file
// from the working directory when one exists.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		ListenAddr:        ":8080",
		RequestTimeout:    30 * time.Second,
		Relays:            append([]string(nil), DefaultRelays...),
		RelayTimeout:      5 * time.Second,
		SecretName:        "nostr-test-bot-nsec",
		SecretBackend:     SecretBackendChain,
		ParamStoreURL:     "http://localhost:2773",
		ParamStoreTimeout: 5 * time.Second,
		LookupCacheTTL:    24 * time.Hour,
	}
	var err error

	if v := env("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if cfg.RequestTimeout, err = duration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}
	if v := env("RELAYS"); v != "" {
		cfg.Relays = splitList(v)
	}
	if cfg.RelayTimeout, err = duration("RELAY_TIMEOUT", cfg.RelayTimeout); err != nil {
		return nil, err
	}
	if v := env("SECRET_NAME"); v != "" {
		cfg.SecretName = v
	}
	if v := strings.ToLower(env("SECRET_BACKEND")); v != "" {
		cfg.SecretBackend = v
	}
	if v := env("PARAMSTORE_URL"); v != "" {
		cfg.ParamStoreURL = v
	}
	cfg.ParamStoreToken = env("AWS_SESSION_TOKEN")
	if cfg.ParamStoreTimeout, err = duration("PARAMSTORE_TIMEOUT", cfg.ParamStoreTimeout); err != nil {
		return nil, err
	}

	cfg.RedisURL = env("REDIS_URL")
	if cfg.LookupCacheTTL, err = duration("LOOKUP_CACHE_TTL", cfg.LookupCacheTTL); err != nil {
		return nil, err
	}
	cfg.DatabaseURL = env("DATABASE_URL")
	cfg.MessagesDir = env("MESSAGES_DIR")

	if len(cfg.Relays) == 0 {
		return nil, errors.New("RELAYS must list at least one relay")
	}
	switch cfg.SecretBackend {
	case SecretBackendParamStore, SecretBackendEnv, SecretBackendChain:
	default:
		return nil, fmt.Errorf("SECRET_BACKEND: unknown backend %q", cfg.SecretBackend)
	}

	return cfg, nil
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

// duration reads a positive duration, keeping def when the key is unset.
func duration(key string, def time.Duration) (time.Duration, error) {
	v := env(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
