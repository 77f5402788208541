package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Path string `json:"path"`
}

func TestTopicSpecsCreatesOnlyBaseTopic(t *testing.T) {
	specs := topicSpecs("blog-front.pageviews", 0)
	require.Len(t, specs, 1)
	assert.Equal(t, "blog-front.pageviews", specs[0].Topic)
	assert.Equal(t, 1, specs[0].NumPartitions)
	assert.Equal(t, 1, specs[0].ReplicationFactor)

	specs = topicSpecs("t", 3)
	require.Len(t, specs, 1)
	assert.Equal(t, 3, specs[0].NumPartitions)
}

func TestNewJSONEventRoundTrip(t *testing.T) {
	evt, err := NewJSONEvent("", "page.viewed", samplePayload{Path: "/post/a"})
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "page.viewed", evt.Type)

	decoded, err := DecodeJSON[samplePayload](evt)
	require.NoError(t, err)
	assert.Equal(t, "/post/a", decoded.Path)
}

func TestNewJSONEventKeepsID(t *testing.T) {
	evt, err := NewJSONEvent("fixed", "page.viewed", samplePayload{})
	require.NoError(t, err)
	assert.Equal(t, "fixed", evt.ID)
}

func TestDecodeJSONInvalidPayload(t *testing.T) {
	_, err := DecodeJSON[samplePayload](Event{Payload: []byte("{")})
	assert.Error(t, err)
}

func TestLogEventBus(t *testing.T) {
	bus := NewLogEventBus()
	require.NoError(t, bus.Publish(context.Background(), "t", Event{ID: "1"}))

	bus.Close()
	assert.ErrorIs(t, bus.Publish(context.Background(), "t", Event{ID: "2"}), ErrClosed)
}
