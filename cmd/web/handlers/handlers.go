package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blog-front/cmd/internal/logger"
	"blog-front/cmd/web/clients/contentclient"
	"blog-front/cmd/web/dto"
	"blog-front/cmd/web/trace"
)

// PostLister 는 목록 페이지 표시 모델을 만든다. (services.PostListService)
type PostLister interface {
	Page(ctx context.Context, n int) dto.PostListPageDTO
}

// PostLoader 는 상세 페이지 표시 모델을 만든다. (services.PostDetailService)
type PostLoader interface {
	Load(ctx context.Context, slug string) (dto.PostDetailPageDTO, error)
}

// parsePage 는 page 쿼리를 읽는다. 숫자가 아니거나 1 미만이면 1 이다.
// 전체 페이지 수를 넘는 값은 그대로 둔다.
func parsePage(c *gin.Context) int {
	n, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// loadFailureStatus 는 상세 조회 실패를 응답 코드로 바꾼다.
func loadFailureStatus(err error) int {
	if errors.Is(err, contentclient.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func logLoadFailure(c *gin.Context, slug string, status int, err error) {
	fields := logger.Fields{
		"slug":       slug,
		"status":     status,
		"request_id": trace.RequestIDFromContext(c.Request.Context()),
		"error":      err.Error(),
	}
	if status == http.StatusNotFound {
		logger.InfoWithFields("post not found", fields)
		return
	}
	logger.ErrorWithFields("post load failed", fields)
}
