package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("server url %q: want http(s)://host[:port]", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: strings.TrimSuffix(u.String(), "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type credentials struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", nil, "", nil)
}

func (c *HTTPClient) Register(ctx context.Context, handle string, password []byte) (*models.Account, error) {
	var resp struct {
		Account models.Account `json:"account"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/register", credentials{handle, string(password)}, &resp); err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

func (c *HTTPClient) Login(ctx context.Context, handle string, password []byte) (*models.Account, error) {
	var resp struct {
		ID     string `json:"id"`
		Handle string `json:"handle"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/login", credentials{handle, string(password)}, &resp); err != nil {
		return nil, err
	}
	return &models.Account{ID: resp.ID, Handle: resp.Handle}, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, "", nil)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var resp struct {
		Info models.Profile `json:"info"`
	}
	if err := c.do(ctx, http.MethodGet, "/profile", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp.Info, nil
}

func (c *HTTPClient) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/post", nil, "", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "/post/"+url.PathEscape(id), nil, "", &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, fields models.PostFields, cover *models.Cover) (*models.Post, error) {
	var resp struct {
		Post models.Post `json:"post"`
	}
	if err := c.writePost(ctx, http.MethodPost, "", fields, cover, &resp); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

func (c *HTTPClient) UpdatePost(ctx context.Context, id string, fields models.PostFields, cover *models.Cover) (*models.Post, error) {
	var post models.Post
	if err := c.writePost(ctx, http.MethodPut, id, fields, cover, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DownloadCover copies the cover ref into w, following the redirect to
// object storage when the server uses one.
func (c *HTTPClient) DownloadCover(ctx context.Context, ref string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+strings.TrimPrefix(ref, "/"), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp)
	}
	return io.Copy(w, resp.Body)
}

func (c *HTTPClient) writePost(ctx context.Context, method, id string, fields models.PostFields, cover *models.Cover, out any) error {
	values := map[string]string{}
	if id != "" {
		values["id"] = id
	}
	for name, v := range map[string]*string{"title": fields.Title, "summary": fields.Summary, "content": fields.Content} {
		if v != nil {
			values[name] = *v
		}
	}

	if cover == nil {
		return c.doJSON(ctx, method, "/post", values, out)
	}

	body, contentType, err := multipartBody(values, cover.Path)
	if err != nil {
		return err
	}
	return c.do(ctx, method, "/post", body, contentType, out)
}

func multipartBody(values map[string]string, coverPath string) (io.Reader, string, error) {
	f, err := os.Open(coverPath)
	if err != nil {
		return nil, "", fmt.Errorf("open cover: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("file", filepath.Base(coverPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read cover: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var eb errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb); err == nil {
		apiErr.Kind, apiErr.Message = eb.Error, eb.Message
	} else if !errors.Is(err, io.EOF) {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
