package httpapi

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophblog/internal/server/media"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
)

const coverField = "file"

func (s *HTTPServer) createPost(c *gin.Context) {
	var req postRequest
	if !s.bindPost(c, &req) {
		return
	}

	cover, closeCover, ok := s.coverUpload(c)
	if !ok {
		return
	}
	defer closeCover()

	in := services.PostInput{
		Title:   valueOr(req.Title),
		Summary: valueOr(req.Summary),
		Content: valueOr(req.Content),
	}

	post, err := s.posts.Create(c.Request.Context(), session(c), in, cover)
	s.metrics.ObservePostWrite("create", err)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, createPostResponse{Message: "post created", Post: newPostView(post)})
}

func (s *HTTPServer) updatePost(c *gin.Context) {
	var req postRequest
	if !s.bindPost(c, &req) {
		return
	}

	cover, closeCover, ok := s.coverUpload(c)
	if !ok {
		return
	}
	defer closeCover()

	patch := models.PostPatch{Title: req.Title, Summary: req.Summary, Content: req.Content}

	post, err := s.posts.Update(c.Request.Context(), session(c), req.ID, patch, cover)
	s.metrics.ObservePostWrite("update", err)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPostView(post))
}

func (s *HTTPServer) listPosts(c *gin.Context) {
	posts, err := s.posts.List(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostView(p))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) getPost(c *gin.Context) {
	post, err := s.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostView(post))
}

func (s *HTTPServer) bindPost(c *gin.Context, req *postRequest) bool {
	if err := c.ShouldBind(req); err != nil {
		if isTooLarge(err) {
			s.abortWithError(c, err)
			return false
		}
		s.badRequest(c, "malformed request body")
		return false
	}
	return true
}

// coverUpload returns the optional cover file of a multipart request. The
// returned close func is always safe to call.
func (s *HTTPServer) coverUpload(c *gin.Context) (*media.Upload, func(), bool) {
	noop := func() {}
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, noop, true
	}

	fh, err := c.FormFile(coverField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, true
		}
		if isTooLarge(err) {
			s.abortWithError(c, err)
			return nil, noop, false
		}
		s.badRequest(c, "malformed cover upload")
		return nil, noop, false
	}

	f, err := fh.Open()
	if err != nil {
		s.abortWithError(c, err)
		return nil, noop, false
	}

	return newUpload(fh, f), func() { _ = f.Close() }, true
}

func newUpload(fh *multipart.FileHeader, f multipart.File) *media.Upload {
	return &media.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}
}
