package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

const welcomeText = "Welcome to GophBlog"

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	if s.opts.MaxUploadSize > 0 {
		r.MaxMultipartMemory = s.opts.MaxUploadSize
	}

	r.Use(gin.Recovery(), s.requestID(), s.accessLog())

	if origin := strings.TrimSuffix(s.opts.CORSOrigin, "/"); origin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{origin},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if s.opts.UploadDir != "" {
		r.Use(static.Serve("/uploads", static.LocalFile(s.opts.UploadDir, false)))
	}
	if s.opts.CoverSigner != nil {
		r.GET("/uploads/*key", s.redirectCover)
	}

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, welcomeText) })
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.POST("/register", s.register)
	r.POST("/login", s.login)
	r.POST("/logout", s.logout)
	r.GET("/profile", s.requireSession(), s.profile)

	compress := gzip.Gzip(gzip.DefaultCompression)
	limit := s.limitBody()

	r.POST("/post", limit, s.requireSession(), s.createPost)
	r.PUT("/post", limit, s.requireSession(), s.updatePost)
	r.GET("/post", compress, s.listPosts)
	r.GET("/post/:id", compress, s.getPost)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Message: "route not found"})
	})

	return r
}
