package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// redirectCover answers a cover request with a temporary link to object
// storage.
func (s *HTTPServer) redirectCover(c *gin.Context) {
	url, err := s.opts.CoverSigner.PresignGet(c.Request.Context(), c.Param("key"))
	if err != nil {
		s.logger.Debug(c.Request.Context(), "cover presign failed", "key", c.Param("key"), "error", err)
		c.AbortWithStatusJSON(http.StatusNotFound, errorBody{Error: "not_found", Message: messages["not_found"]})
		return
	}
	c.Redirect(http.StatusFound, url)
}
