package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
	ContentAPI ContentAPIConfig `yaml:"content_api"`
	Listing    ListingConfig    `yaml:"listing"`
	Detail     DetailConfig     `yaml:"detail"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	CORS       CORSConfig       `yaml:"cors"`
	Site       SiteConfig       `yaml:"site"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// ShutdownTimeout 은 SIGTERM 수신 후 진행 중인 요청을 기다리는 최대 시간이다.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ContentAPIConfig 는 원격 content API 호출 설정이다.
type ContentAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// AssetBaseURL 은 상대 경로로 내려오는 cover_image 앞에 붙일 호스트다.
	// 비어 있으면 BaseURL 을 사용한다.
	AssetBaseURL string `yaml:"asset_base_url"`
}

// ListingConfig 는 목록 페이지 표시 정책이다.
type ListingConfig struct {
	// HiddenLeadingPosts 는 가져온 페이지의 앞에서부터 숨길 포스트 수이다.
	// 설정하지 않으면 3 을 사용한다. 0 도 유효한 값이다.
	HiddenLeadingPosts *int `yaml:"hidden_leading_posts"`
	TitleMaxLength     int  `yaml:"title_max_length"`
}

type DetailConfig struct {
	RelatedLimit int `yaml:"related_limit"`
	PopularLimit int `yaml:"popular_limit"`
}

// AnalyticsConfig 는 페이지뷰 이벤트 발행 설정이다.
// Brokers 가 비어 있으면 이벤트는 로그로만 남는다.
type AnalyticsConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Brokers         string `yaml:"brokers"`
	Topic           string `yaml:"topic"`
	EnsureTopic     bool   `yaml:"ensure_topic"`
	QueueSize       int    `yaml:"queue_size"`
	GAMeasurementID string `yaml:"ga_measurement_id"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
}

const (
	DefaultHiddenLeadingPosts = 3
	DefaultTitleMaxLength     = 70
	DefaultRelatedLimit       = 5
	DefaultPopularLimit       = 12
)

// Load 는 설정 파일을 읽어 기본값과 환경변수 오버라이드를 적용한 AppConfig 를 반환한다.
// 설정 파일을 찾지 못하면 기본값만으로 구성한다. 명시한 path 가 없으면 에러다.
func Load(path string) (AppConfig, error) {
	baseDir := GetBasePath()
	if path != "" {
		baseDir = filepath.Dir(path)
	}
	// .env 는 선택 사항이다.
	_ = godotenv.Load(filepath.Join(baseDir, ENV_FILE))

	var c AppConfig
	cfgPath := path
	if cfgPath == "" && baseDir != "" {
		cfgPath = filepath.Join(baseDir, CONFIG_FILE)
	}
	if cfgPath != "" {
		data, err := os.ReadFile(cfgPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return AppConfig{}, fmt.Errorf("parse %s: %w", cfgPath, err)
			}
		case errors.Is(err, fs.ErrNotExist) && path == "":
			// 기본값으로 진행
		default:
			return AppConfig{}, fmt.Errorf("read %s: %w", cfgPath, err)
		}
	}

	applyEnv(&c)
	applyDefaults(&c)
	return c, nil
}

func applyEnv(c *AppConfig) {
	if v := os.Getenv("CONTENT_API_BASE_URL"); v != "" {
		c.ContentAPI.BaseURL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		c.Analytics.Brokers = v
	}
	if v := os.Getenv("GA_MEASUREMENT_ID"); v != "" {
		c.Analytics.GAMeasurementID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func applyDefaults(c *AppConfig) {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.ContentAPI.BaseURL == "" {
		c.ContentAPI.BaseURL = "http://127.0.0.1:8000"
	}
	c.ContentAPI.BaseURL = strings.TrimRight(c.ContentAPI.BaseURL, "/")
	if c.ContentAPI.Timeout <= 0 {
		c.ContentAPI.Timeout = 10 * time.Second
	}
	if c.ContentAPI.AssetBaseURL == "" {
		c.ContentAPI.AssetBaseURL = c.ContentAPI.BaseURL
	}
	if c.Listing.HiddenLeadingPosts == nil || *c.Listing.HiddenLeadingPosts < 0 {
		n := DefaultHiddenLeadingPosts
		c.Listing.HiddenLeadingPosts = &n
	}
	if c.Listing.TitleMaxLength <= 0 {
		c.Listing.TitleMaxLength = DefaultTitleMaxLength
	}
	if c.Detail.RelatedLimit <= 0 {
		c.Detail.RelatedLimit = DefaultRelatedLimit
	}
	if c.Detail.PopularLimit <= 0 {
		c.Detail.PopularLimit = DefaultPopularLimit
	}
	if c.Analytics.Topic == "" {
		c.Analytics.Topic = "blog-front.pageviews"
	}
	if c.Analytics.QueueSize <= 0 {
		c.Analytics.QueueSize = 256
	}
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
}

// HiddenLeading 은 기본값이 적용된 숨김 포스트 수를 반환한다.
func (l ListingConfig) HiddenLeading() int {
	if l.HiddenLeadingPosts == nil {
		return DefaultHiddenLeadingPosts
	}
	return *l.HiddenLeadingPosts
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
