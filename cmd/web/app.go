package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"blog-front/cmd/internal/eventbus"
	"blog-front/cmd/internal/logger"
	"blog-front/cmd/web/analytics"
	"blog-front/cmd/web/clients/contentclient"
	"blog-front/cmd/web/feed"
	"blog-front/cmd/web/httpclient"
	"blog-front/cmd/web/router"
	"blog-front/cmd/web/sanitize"
	"blog-front/cmd/web/services"
	"blog-front/cmd/web/templates"
	"blog-front/config"
)

// app 은 설정으로부터 조립된 서버와 종료 시 정리할 자원들이다.
type app struct {
	server   *http.Server
	recorder *analytics.Recorder
	bus      eventbus.EventBus
}

func newApp(cfg config.AppConfig) (*app, error) {
	client := contentclient.New(cfg.ContentAPI.BaseURL, httpclient.Config{Timeout: cfg.ContentAPI.Timeout})

	cards := services.CardMapper{
		TitleMaxLength: cfg.Listing.TitleMaxLength,
		AssetBaseURL:   cfg.ContentAPI.AssetBaseURL,
	}
	listSvc := services.NewPostListService(client, services.PostListOptions{
		HiddenLeading: cfg.Listing.HiddenLeading(),
		Cards:         cards,
	})
	detailSvc := services.NewPostDetailService(client, sanitize.NewPolicy(), services.PostDetailOptions{
		RelatedLimit: cfg.Detail.RelatedLimit,
		PopularLimit: cfg.Detail.PopularLimit,
		Cards:        cards,
	})

	a := &app{}
	if cfg.Analytics.Enabled || cfg.Analytics.Brokers != "" {
		bus, err := newEventBus(cfg.Analytics)
		if err != nil {
			return nil, err
		}
		a.bus = bus
		a.recorder = analytics.NewRecorder(bus, cfg.Analytics.Topic, cfg.Analytics.QueueSize)
	}

	siteBase := cfg.Site.BaseURL
	if siteBase == "" {
		siteBase = "http://localhost" + cfg.Server.Addr
		if !strings.HasPrefix(cfg.Server.Addr, ":") {
			siteBase = "http://" + cfg.Server.Addr
		}
	}

	engine := router.New(router.Deps{
		Site: templates.Site{
			Title:           cfg.Site.Title,
			Description:     cfg.Site.Description,
			GAMeasurementID: cfg.Analytics.GAMeasurementID,
		},
		FeedSite: feed.Site{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BaseURL:     siteBase,
			ResolveAsset: func(ref string) string {
				return services.ResolveAssetURL(cfg.ContentAPI.AssetBaseURL, ref)
			},
		},
		List:                 listSvc,
		Detail:               detailSvc,
		Feed:                 client,
		Health:               client,
		Recorder:             a.recorder,
		HealthTimeout:        3 * time.Second,
		SlowRequestThreshold: cfg.ContentAPI.Timeout / 2,
	})

	a.server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.Handler(engine, cfg.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// newEventBus 는 브로커가 설정되어 있으면 Kafka, 아니면 로그 전용 버스를 만든다.
func newEventBus(cfg config.AnalyticsConfig) (eventbus.EventBus, error) {
	if cfg.Brokers == "" {
		logger.Log.Infof("analytics: no kafka brokers configured, page views go to the log")
		return eventbus.NewLogEventBus(), nil
	}
	if cfg.EnsureTopic {
		if err := eventbus.EnsureTopic(cfg.Brokers, cfg.Topic, 1); err != nil {
			return nil, fmt.Errorf("ensure analytics topic: %w", err)
		}
	}
	bus, err := eventbus.NewKafkaEventBus(cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("kafka event bus: %w", err)
	}
	return bus, nil
}

// close 는 남은 페이지뷰를 발행한 뒤 이벤트 버스를 닫는다.
func (a *app) close() {
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.bus != nil {
		a.bus.Close()
	}
}
