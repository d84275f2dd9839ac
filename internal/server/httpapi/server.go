// Package httpapi exposes the blog over HTTP with gin: account routes that
// move the session token in a cookie, post routes, cover serving and the
// metrics endpoint.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/metrics"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// CoverSigner turns a stored cover key into a temporary download URL.
type CoverSigner interface {
	PresignGet(ctx context.Context, key string) (string, error)
}

// Options are the transport settings of the API.
type Options struct {
	CookieName    string
	CookieSecure  bool
	CORSOrigin    string
	MaxUploadSize int64

	// Exactly one of UploadDir and CoverSigner is expected: UploadDir
	// serves covers from disk, CoverSigner redirects to object storage.
	UploadDir   string
	CoverSigner CoverSigner
}

type HTTPServer struct {
	address  string
	accounts *services.AccountService
	posts    *services.PostService
	resolver *auth.Resolver
	metrics  *metrics.Metrics
	logger   logging.Logger
	opts     Options
	engine   *gin.Engine
}

func NewHTTPServer(addr string, l logging.Logger, as *services.AccountService, ps *services.PostService,
	r *auth.Resolver, m *metrics.Metrics, opts Options) *HTTPServer {
	s := &HTTPServer{
		address:  addr,
		accounts: as,
		posts:    ps,
		resolver: r,
		metrics:  m,
		logger:   l.With("module", "http_server"),
		opts:     opts,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the gin engine, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
