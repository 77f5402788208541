package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-front/cmd/web/dto"
)

// ListPostsHandler godoc
// @Summary      List posts
// @Description  Paginated post cards as shown on the list page (leading posts hidden)
// @Tags         posts
// @Param        page  query  int  false  "Page number (1-based)"
// @Produce      json
// @Success      200  {object}  dto.PostListPageDTO
// @Router       /api/v1/posts [get]
func ListPostsHandler(svc PostLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Page(c.Request.Context(), parsePage(c)))
	}
}

// GetPostHandler godoc
// @Summary      Get post by slug
// @Description  Post detail with related and popular posts of the same category
// @Tags         posts
// @Param        slug  path  string  true  "Post slug"
// @Produce      json
// @Success      200  {object}  dto.PostDetailPageDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Router       /api/v1/posts/{slug} [get]
func GetPostHandler(svc PostLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		view, err := svc.Load(c.Request.Context(), slug)
		if err != nil {
			status := loadFailureStatus(err)
			logLoadFailure(c, slug, status, err)
			msg := "content api unavailable"
			if status == http.StatusNotFound {
				msg = "not found"
			}
			c.JSON(status, dto.ErrorResponseDTO{Error: msg})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
