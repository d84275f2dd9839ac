package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type credentialsRequest struct {
	Handle   string `json:"handle" form:"handle"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (r credentialsRequest) handle() string {
	if strings.TrimSpace(r.Handle) != "" {
		return r.Handle
	}
	return r.Username
}

type postRequest struct {
	ID      string  `json:"id" form:"id"`
	Title   *string `json:"title" form:"title"`
	Summary *string `json:"summary" form:"summary"`
	Content *string `json:"content" form:"content"`
}

type accountView struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}

type registerResponse struct {
	Message string      `json:"message"`
	Account accountView `json:"account"`
}

type loginResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Handle  string `json:"handle"`
}

type profileInfo struct {
	ID       string    `json:"id"`
	Handle   string    `json:"handle"`
	IssuedAt time.Time `json:"iat"`
}

type profileResponse struct {
	Message string      `json:"message"`
	Info    profileInfo `json:"info"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authorView struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

type postView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Content   string     `json:"content"`
	Cover     *string    `json:"cover"`
	Author    authorView `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type createPostResponse struct {
	Message string   `json:"message"`
	Post    postView `json:"post"`
}

func newPostView(p *models.Post) postView {
	return postView{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Cover:     p.Cover,
		Author:    authorView{ID: p.AuthorID, Handle: p.AuthorHandle},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func valueOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
