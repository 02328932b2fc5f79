package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/park285/Othello-Nostr-bot/internal/event"
	"github.com/park285/Othello-Nostr-bot/internal/metrics"
	"github.com/park285/Othello-Nostr-bot/internal/responder"
)

// Responder answers one decoded inbound event.
type Responder interface {
	Respond(ctx context.Context, in *event.Event) (*event.Event, error)
}

type Server struct {
	responder      Responder
	logger         *zap.Logger
	requestTimeout time.Duration
	metrics        fasthttp.RequestHandler
	srv            *fasthttp.Server
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRequestTimeout bounds the secret, lookup and signing work of one request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

func New(r Responder, opts ...Option) *Server {
	s := &Server{
		responder:      r,
		logger:         zap.NewNop(),
		requestTimeout: 30 * time.Second,
		metrics:        fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
	}
	for _, o := range opts {
		o(s)
	}
	s.srv = &fasthttp.Server{
		Handler:            s.Handle,
		Name:               "othello-bot",
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxRequestBodySize: 256 << 10,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("http_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

// Handle routes a request; exported so it can be driven without a listener.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch {
	case path == "/healthz" && ctx.IsGet():
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
	case path == "/metrics" && ctx.IsGet():
		s.metrics(ctx)
	case path == "/" || path == "/event":
		if !ctx.IsPost() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			ctx.Response.Header.Set("Allow", fasthttp.MethodPost)
			return
		}
		s.handleEvent(ctx)
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
}

func (s *Server) handleEvent(ctx *fasthttp.RequestCtx) {
	in, err := responder.DecodeRequest(ctx.PostBody())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("bad_request").Inc()
		s.logger.Warn("bad_request", zap.Error(err))
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return
	}

	rctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()
	out, err := s.responder.Respond(rctx, in)
	if err != nil {
		status := fasthttp.StatusInternalServerError
		if errors.Is(err, responder.ErrBadRequest) {
			status = fasthttp.StatusBadRequest
		}
		ctx.Error(fasthttp.StatusMessage(status), status)
		return
	}

	body, err := out.Marshal()
	if err != nil {
		s.logger.Error("reply_marshal_failed", zap.Error(err))
		ctx.Error(fasthttp.StatusMessage(fasthttp.StatusInternalServerError), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}
