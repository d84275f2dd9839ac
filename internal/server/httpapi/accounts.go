package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		s.badRequest(c, "malformed request body")
		return
	}

	account, err := s.accounts.Register(c.Request.Context(), req.handle(), req.Password)
	s.metrics.ObserveAuth("register", err)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, registerResponse{
		Message: "account created",
		Account: accountView{ID: account.ID, Handle: account.Handle, CreatedAt: account.CreatedAt},
	})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		s.badRequest(c, "malformed request body")
		return
	}

	res, err := s.accounts.Login(c.Request.Context(), req.handle(), req.Password)
	s.metrics.ObserveAuth("login", err)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.setSessionCookie(c, res.Token, 0)
	c.JSON(http.StatusOK, loginResponse{
		Message: "logged in",
		ID:      res.Account.ID,
		Handle:  res.Account.Handle,
	})
}

func (s *HTTPServer) profile(c *gin.Context) {
	sess := s.accounts.Profile(session(c))
	c.JSON(http.StatusOK, profileResponse{
		Message: "profile",
		Info:    profileInfo{ID: sess.AccountID, Handle: sess.Handle, IssuedAt: sess.IssuedAt},
	})
}

// logout clears the cookie. Tokens are stateless, so a copy of the old
// token stays valid until it expires.
func (s *HTTPServer) logout(c *gin.Context) {
	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

func (s *HTTPServer) setSessionCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
