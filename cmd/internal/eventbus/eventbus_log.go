package eventbus

import (
	"context"
	"sync/atomic"

	"blog-front/cmd/internal/logger"
)

// LogEventBus 는 브로커가 설정되지 않은 환경에서 이벤트를 debug 로그로만 남기는 구현체입니다.
type LogEventBus struct {
	closed atomic.Bool
}

func NewLogEventBus() *LogEventBus {
	return &LogEventBus{}
}

func (l *LogEventBus) Publish(ctx context.Context, topic string, event Event) error {
	if l.closed.Load() {
		return ErrClosed
	}
	logger.DebugWithFields("event published", logger.Fields{
		"topic":      topic,
		"event_id":   event.ID,
		"event_type": event.Type,
		"payload":    string(event.Payload),
	})
	return nil
}

func (l *LogEventBus) Close() {
	l.closed.Store(true)
}
