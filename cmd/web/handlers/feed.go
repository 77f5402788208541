package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-front/cmd/internal/logger"
	"blog-front/cmd/web/clients/contentclient"
	"blog-front/cmd/web/feed"
	"blog-front/cmd/web/trace"
)

// FeedSource 는 RSS 에 실을 최신 포스트 페이지를 가져온다.
type FeedSource interface {
	ListPosts(ctx context.Context, page int) (contentclient.PostPage, error)
}

// FeedHandler 는 GET /rss.xml 을 처리한다. 목록 페이지와 달리 앞쪽 포스트를 숨기지 않는다.
func FeedHandler(src FeedSource, site feed.Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, err := src.ListPosts(ctx, 1)
		if err != nil {
			logger.ErrorWithFields("rss feed fetch failed", logger.Fields{
				"request_id": trace.RequestIDFromContext(ctx),
				"error":      err.Error(),
			})
			c.String(http.StatusBadGateway, "feed unavailable")
			return
		}

		body, err := feed.Build(site, page.Results, time.Now())
		if err != nil {
			_ = c.Error(err)
			c.String(http.StatusInternalServerError, "feed build failed")
			return
		}
		c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", body)
	}
}
