package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophblog/internal/server/auth"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
	maxRequestIDLen = 128
)

// requestID keeps a caller-supplied X-Request-Id or mints one, and echoes
// it back on the response.
func (s *HTTPServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog writes one line per request and feeds the HTTP metrics.
func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		s.metrics.ObserveHTTP(c.Request.Method, c.FullPath(), status, elapsed)

		args := []any{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"latency_ms", elapsed.Milliseconds(),
		}
		if sess, ok := auth.SessionFromContext(c.Request.Context()); ok {
			args = append(args, "account_id", sess.AccountID)
		}

		if status >= http.StatusInternalServerError {
			s.logger.Error(c.Request.Context(), "request", args...)
			return
		}
		s.logger.Info(c.Request.Context(), "request", args...)
	}
}

// requireSession resolves the session cookie and stores the session in the
// request context, or aborts with 401.
func (s *HTTPServer) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(s.opts.CookieName)

		sess, err := s.resolver.Resolve(raw)
		s.metrics.ObserveAuth("session", err)
		if err != nil {
			if auth.IsExpired(err) {
				s.logger.Debug(c.Request.Context(), "expired session token", "request_id", c.GetString(requestIDKey))
			}
			s.abortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

// limitBody caps the request body at MaxUploadSize.
func (s *HTTPServer) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.MaxUploadSize > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadSize)
		}
		c.Next()
	}
}

func session(c *gin.Context) auth.SessionContext {
	sess, _ := auth.SessionFromContext(c.Request.Context())
	return sess
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
