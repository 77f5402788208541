// Package analytics 는 렌더링된 페이지의 페이지뷰를 이벤트 버스로 발행한다.
package analytics

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"blog-front/cmd/internal/eventbus"
	"blog-front/cmd/internal/logger"
	"blog-front/cmd/web/trace"
)

const EventTypePageViewed = "page.viewed"

// PageViewEvent 는 HTML 페이지 하나가 성공적으로 렌더링되었음을 나타낸다.
type PageViewEvent struct {
	Path       string    `json:"path"`
	URL        string    `json:"url"`
	Referrer   string    `json:"referrer,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Status     int       `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Recorder 는 페이지뷰를 bounded 큐에 넣고 별도 고루틴에서 발행한다.
// 큐가 가득 차면 이벤트를 버린다. 페이지 렌더링을 막지 않는다.
type Recorder struct {
	bus     eventbus.EventBus
	topic   string
	timeout time.Duration

	queue     chan PageViewEvent
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func NewRecorder(bus eventbus.EventBus, topic string, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	r := &Recorder{
		bus:     bus,
		topic:   topic,
		timeout: 5 * time.Second,
		queue:   make(chan PageViewEvent, queueSize),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record 는 이벤트를 큐에 넣는다. 큐가 가득 찼거나 닫혔으면 false 를 반환한다.
func (r *Recorder) Record(ev PageViewEvent) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}
	select {
	case r.queue <- ev:
		return true
	default:
		logger.WarnWithFields("pageview dropped: queue full", logger.Fields{
			"path":       ev.Path,
			"request_id": ev.RequestID,
		})
		return false
	}
}

// Close 는 새 이벤트를 받지 않고 큐에 남은 이벤트를 모두 발행한 뒤 반환한다.
// 이벤트 버스 자체는 닫지 않는다.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
	})
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for ev := range r.queue {
		r.publish(ev)
	}
}

func (r *Recorder) publish(ev PageViewEvent) {
	evt, err := eventbus.NewJSONEvent("", EventTypePageViewed, ev)
	if err != nil {
		logger.ErrorWithFields("pageview encode failed", logger.Fields{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.bus.Publish(ctx, r.topic, evt); err != nil {
		logger.ErrorWithFields("pageview publish failed", logger.Fields{
			"topic":      r.topic,
			"event_id":   evt.ID,
			"path":       ev.Path,
			"request_id": ev.RequestID,
			"error":      err.Error(),
		})
	}
}

// Middleware 는 2xx HTML 응답 이후 페이지뷰를 기록한다.
// 라우트 전환마다 페이지뷰를 남기던 클라이언트 측 애널리틱스를 서버에서 대신한다.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if !strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "text/html") {
			return
		}
		req := c.Request
		r.Record(PageViewEvent{
			Path:       req.URL.Path,
			URL:        req.URL.RequestURI(),
			Referrer:   req.Referer(),
			UserAgent:  req.UserAgent(),
			RequestID:  trace.RequestIDFromContext(req.Context()),
			Status:     status,
			OccurredAt: time.Now().UTC(),
		})
	}
}
