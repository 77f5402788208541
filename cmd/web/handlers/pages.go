package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-front/cmd/web/templates"
)

// Pages 는 서버 렌더링 HTML 페이지 핸들러 묶음이다.
type Pages struct {
	site   templates.Site
	list   PostLister
	detail PostLoader
}

func NewPages(site templates.Site, list PostLister, detail PostLoader) *Pages {
	return &Pages{site: site, list: list, detail: detail}
}

// List 는 GET / 와 GET /posts?page=n 을 처리한다.
// content API 실패 시에도 빈 목록으로 200 을 렌더링한다.
func (p *Pages) List(c *gin.Context) {
	view := p.list.Page(c.Request.Context(), parsePage(c))
	c.HTML(http.StatusOK, templates.ListPage, templates.Page{
		Site: p.site,
		Data: view,
	})
}

// Detail 은 GET /post/:slug 를 처리한다.
func (p *Pages) Detail(c *gin.Context) {
	slug := c.Param("slug")
	view, err := p.detail.Load(c.Request.Context(), slug)
	if err != nil {
		status := loadFailureStatus(err)
		logLoadFailure(c, slug, status, err)
		p.Error(c, status)
		return
	}

	c.HTML(http.StatusOK, templates.DetailPage, templates.Page{
		Site:            p.site,
		Title:           view.Post.Title,
		MetaDescription: view.Post.MetaDescription,
		Image:           view.Post.CoverImageURL,
		Data:            view,
	})
}

// NotFound 는 매칭되는 라우트가 없을 때 사용한다.
func (p *Pages) NotFound(c *gin.Context) {
	p.Error(c, http.StatusNotFound)
}

func (p *Pages) Error(c *gin.Context, status int) {
	msg := "Something went wrong while loading this page."
	if status == http.StatusNotFound {
		msg = "The page you are looking for does not exist."
	}
	c.HTML(status, templates.ErrorPage, templates.Page{
		Site:  p.site,
		Title: http.StatusText(status),
		Data:  templates.ErrorData{Status: status, Message: msg},
	})
}
