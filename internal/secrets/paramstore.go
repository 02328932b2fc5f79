package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultParamStoreURL = "http://localhost:2773"
	tokenHeader          = "X-Aws-Parameters-Secrets-Token"
)

// ParamStore reads SecureString parameters through the local
// parameters-and-secrets extension endpoint.
type ParamStore struct {
	baseURL string
	token   string
	http    *fasthttp.Client

	defaultTimeout time.Duration
}

var _ Store = (*ParamStore)(nil)

type ParamOption func(*ParamStore)

func WithParamTimeout(d time.Duration) ParamOption {
	return func(p *ParamStore) { p.defaultTimeout = d }
}

type parameterResponse struct {
	Parameter struct {
		Name    string `json:"Name"`
		Type    string `json:"Type"`
		Value   string `json:"Value"`
		Version int    `json:"Version"`
	} `json:"Parameter"`
}

func NewParamStore(baseURL, token string, opts ...ParamOption) *ParamStore {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultParamStoreURL
	}
	p := &ParamStore{
		baseURL:        strings.TrimRight(baseURL, "/"),
		token:          token,
		http:           &fasthttp.Client{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second},
		defaultTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ParamStore) Get(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("name", name)
	q.Set("withDecryption", "true")

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()
	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(p.baseURL + "/systemsmanager/parameters/get?" + q.Encode())
	if p.token != "" {
		req.Header.Set(tokenHeader, p.token)
	}

	if err := p.http.DoDeadline(req, resp, p.computeDeadline(ctx)); err != nil {
		return "", fmt.Errorf("parameter request failed: %w", err)
	}
	status := resp.StatusCode()
	if status == fasthttp.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("parameter store error: status=%d body=%s", status, truncate(string(resp.Body()), 512))
	}

	var out parameterResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode parameter response: %w", err)
	}
	if out.Parameter.Value == "" {
		return "", fmt.Errorf("%w: %s has no value", ErrNotFound, name)
	}
	return out.Parameter.Value, nil
}

func (p *ParamStore) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(p.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
