// Package devserver serves the site during watch mode with live reload instrumentation.
package devserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.trai.ch/assetpipe/internal/adapters/livereload"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DevServer = (*Server)(nil)

const shutdownTimeout = 5 * time.Second

// Server implements ports.DevServer. It serves the live reload endpoints and
// either the static serve root or a reverse proxy to the dev URL.
type Server struct {
	hub    *livereload.Hub
	logger ports.Logger
}

// NewServer creates a Server broadcasting through hub.
func NewServer(hub *livereload.Hub, logger ports.Logger) *Server {
	return &Server{hub: hub, logger: logger}
}

// Handler builds the router for cfg.
func (s *Server) Handler(cfg *domain.Config) (http.Handler, error) {
	site, err := siteHandler(cfg.Manifest.Server)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Handle(livereload.SocketPath, s.hub)
	r.Get(livereload.ScriptPath, livereload.ServeScript)
	r.Handle("/*", livereload.Middleware(site))

	return r, nil
}

// siteHandler proxies to an http(s) dev URL, or serves the root directory.
func siteHandler(server domain.DevServer) (http.Handler, error) {
	if !strings.Contains(server.URL, "://") {
		return http.FileServer(http.Dir(server.Root)), nil
	}

	target, err := url.Parse(server.URL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, zerr.With(domain.ErrInvalidDevURL, "dev_url", server.URL)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			r.Out.Host = target.Host
		},
	}, nil
}

// Serve listens on the configured host and port until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, cfg *domain.Config) error {
	addr := net.JoinHostPort(cfg.Manifest.Server.Host, strconv.Itoa(cfg.Manifest.Server.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	}
	return s.ServeListener(ctx, cfg, ln)
}

// ServeListener serves on ln until ctx is cancelled, then disconnects live
// reload clients and shuts down gracefully.
func (s *Server) ServeListener(ctx context.Context, cfg *domain.Config, ln net.Listener) error {
	handler, err := s.Handler(cfg)
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if s.logger != nil {
		s.logger.Info("serving at http://" + ln.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	case <-ctx.Done():
	}

	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	return nil
}
