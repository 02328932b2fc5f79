package httpapi

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/park285/Othello-Nostr-bot/internal/event"
	"github.com/park285/Othello-Nostr-bot/internal/metrics"
)

type stubResponder struct {
	out      *event.Event
	err      error
	got      *event.Event
	deadline time.Time
}

func (s *stubResponder) Respond(ctx context.Context, in *event.Event) (*event.Event, error) {
	s.got = in
	s.deadline, _ = ctx.Deadline()
	return s.out, s.err
}

func do(s *Server, method, path, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	s.Handle(&ctx)
	return &ctx
}

const inbound = `{"id":"in1","pubkey":"player","created_at":1,"kind":1,"tags":[],"content":"d3","sig":""}`

func TestPostEventReturnsSignedReply(t *testing.T) {
	stub := &stubResponder{out: &event.Event{ID: "rep", PubKey: "bot", Kind: 1, Tags: event.Tags{}, Content: "board", Sig: "sig"}}
	for _, path := range []string{"/", "/event"} {
		ctx := do(New(stub), fasthttp.MethodPost, path, inbound)

		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), path)
		assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
		assert.Contains(t, string(ctx.Response.Body()), `"id":"rep"`)
		assert.Equal(t, "in1", stub.got.ID)
	}
}

func TestPostEnvelope(t *testing.T) {
	stub := &stubResponder{out: &event.Event{ID: "rep"}}
	body := `{"isBase64Encoded":false,"body":` + jsonString(inbound) + `}`
	ctx := do(New(stub), fasthttp.MethodPost, "/event", body)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "d3", stub.got.Content)
}

func TestPostBadRequest(t *testing.T) {
	stub := &stubResponder{}
	ctx := do(New(stub), fasthttp.MethodPost, "/event", "{nope")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Nil(t, stub.got)
}

func TestPostFatalErrorWritesNoReply(t *testing.T) {
	stub := &stubResponder{err: errors.New("classify: invalid board")}
	ctx := do(New(stub), fasthttp.MethodPost, "/event", inbound)
	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.NotContains(t, string(ctx.Response.Body()), `"sig"`)
}

func TestGetEventNotAllowed(t *testing.T) {
	ctx := do(New(&stubResponder{}), fasthttp.MethodGet, "/event", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestHealthz(t *testing.T) {
	ctx := do(New(&stubResponder{}), fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "ok", string(ctx.Response.Body()))
}

func TestMetricsExposition(t *testing.T) {
	metrics.RequestsTotal.WithLabelValues("start").Inc()
	ctx := do(New(&stubResponder{}), fasthttp.MethodGet, "/metrics", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "othello_requests_total")
}

func TestUnknownPath(t *testing.T) {
	ctx := do(New(&stubResponder{}), fasthttp.MethodGet, "/nope", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func jsonString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func TestRequestTimeoutBoundsResponder(t *testing.T) {
	stub := &stubResponder{out: &event.Event{ID: "rep"}}
	start := time.Now()
	do(New(stub, WithRequestTimeout(2*time.Second)), fasthttp.MethodPost, "/event", inbound)

	assert.False(t, stub.deadline.IsZero())
	assert.WithinDuration(t, start.Add(2*time.Second), stub.deadline, time.Second)
}
