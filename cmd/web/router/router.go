package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "blog-front/docs"

	"blog-front/cmd/web/analytics"
	"blog-front/cmd/web/feed"
	"blog-front/cmd/web/handlers"
	"blog-front/cmd/web/middleware"
	"blog-front/cmd/web/templates"
)

// Deps 는 라우터가 필요로 하는 서비스들이다. Recorder 가 nil 이면 페이지뷰를 기록하지 않는다.
type Deps struct {
	Site     templates.Site
	FeedSite feed.Site

	List   handlers.PostLister
	Detail handlers.PostLoader
	Feed   handlers.FeedSource
	Health handlers.HealthChecker

	Recorder             *analytics.Recorder
	HealthTimeout        time.Duration
	SlowRequestThreshold time.Duration
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.SlowRequestLogging(d.SlowRequestThreshold))
	r.SetHTMLTemplate(templates.MustParse())

	pages := handlers.NewPages(d.Site, d.List, d.Detail)

	// HTML pages
	web := r.Group("/")
	if d.Recorder != nil {
		web.Use(d.Recorder.Middleware())
	}
	{
		web.GET("/", pages.List)
		web.GET("/posts", pages.List)
		web.GET("/post/:slug", pages.Detail)
	}

	r.GET("/rss.xml", handlers.FeedHandler(d.Feed, d.FeedSite))
	r.GET("/health", handlers.HealthHandler(d.Health, d.HealthTimeout))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/posts", handlers.ListPostsHandler(d.List))
		api.GET("/posts/:slug", handlers.GetPostHandler(d.Detail))
	}

	r.NoRoute(pages.NotFound)
	return r
}

// Handler 는 엔진을 CORS 처리로 감싼다. allowedOrigins 가 비어 있으면 모든 origin 을 허용한다.
func Handler(engine http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
		MaxAge:         600,
	})
	return c.Handler(engine)
}
