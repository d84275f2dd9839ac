package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/media"
	"github.com/dmitrijs2005/gophblog/internal/server/metrics"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
)

const testCookie = "token"

type fixture struct {
	srv     *HTTPServer
	h       http.Handler
	repos   *repomanager.InMemoryRepositoryManager
	issuer  *auth.Issuer
	metrics *metrics.Metrics
	dir     string
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage, err := media.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	repos := repomanager.NewInMemoryRepositoryManager()
	issuer := auth.NewIssuer([]byte("test-secret"))
	m := metrics.New()
	log := logging.Nop()

	opts := Options{
		CookieName:    testCookie,
		MaxUploadSize: 1 << 20,
		UploadDir:     storage.Dir(),
	}
	for _, fn := range mutate {
		fn(&opts)
	}

	as := services.NewAccountService(repos, auth.NewHasher(bcrypt.MinCost), issuer, log)
	ps := services.NewPostService(repos, storage, 20, log)
	srv := NewHTTPServer("127.0.0.1:0", log, as, ps, auth.NewResolver(issuer), m, opts)

	return &fixture{srv: srv, h: srv.Handler(), repos: repos, issuer: issuer, metrics: m, dir: storage.Dir()}
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileName string, file []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile(coverField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", testCookie)
	return nil
}

// signUp registers handle and logs in, returning the session cookie.
func (f *fixture) signUp(t *testing.T, handle, password string) *http.Cookie {
	t.Helper()
	creds := map[string]string{"handle": handle, "password": password}

	rec := f.do(t, jsonRequest(t, http.MethodPost, "/register", creds))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, jsonRequest(t, http.MethodPost, "/login", creds))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func (f *fixture) createPost(t *testing.T, cookie *http.Cookie, title string) postView {
	t.Helper()
	rec := f.do(t, jsonRequest(t, http.MethodPost, "/post",
		map[string]string{"title": title, "summary": title + " summary", "content": title + " body"}, cookie))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[createPostResponse](t, rec).Post
}
