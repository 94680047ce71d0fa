package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToSubscribers(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	assert.Equal(t, 2, h.Subscribers())

	Emit(h, "req-1", TypeSignalRecorded, map[string]any{"company_id": 7})

	for _, ch := range []chan string{a, b} {
		raw := <-ch
		var e Event
		require.NoError(t, json.Unmarshal([]byte(raw), &e))
		assert.Equal(t, TypeSignalRecorded, e.Type)
		assert.Equal(t, Version, e.Version)
		assert.Equal(t, "req-1", e.RequestID)
		assert.JSONEq(t, `{"company_id":7}`, string(e.Data))
	}

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	assert.Equal(t, 1, h.Subscribers())
	_, open := <-a
	assert.False(t, open)
}

func TestHub_DropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < 100; i++ {
		h.Publish("x")
	}
	assert.Len(t, ch, 16)
}

func TestEmit_NilPublisher(t *testing.T) {
	assert.NotPanics(t, func() { Emit(nil, "", TypePipelineStarted, nil) })
	assert.NotPanics(t, func() { Emit(Discard{}, "", TypePipelineStarted, nil) })
}
