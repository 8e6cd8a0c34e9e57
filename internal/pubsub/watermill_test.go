package pubsub

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillBridge_PublishSubscribe(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	err := bridge.Subscribe(ctx, "test.topic", func(_ context.Context, msg Message) error {
		received <- msg
		return nil
	})
	require.NoError(t, err)

	err = bridge.Publish(ctx, Message{
		Topic:    "test.topic",
		UserID:   "alice",
		Payload:  []byte(`{"hello":"world"}`),
		Metadata: map[string]string{"room_id": "game:1"},
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "test.topic", msg.Topic)
		assert.Equal(t, "alice", msg.UserID)
		assert.JSONEq(t, `{"hello":"world"}`, string(msg.Payload))
		assert.Equal(t, "game:1", msg.Metadata["room_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestWatermillBridge_PerTopicOrdering(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const count = 50

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	err := bridge.Subscribe(ctx, "ordered.topic", func(_ context.Context, msg Message) error {
		mu.Lock()
		got = append(got, string(msg.Payload))
		if len(got) == count {
			close(done)
		}
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	for i := 0; i < count; i++ {
		err := bridge.Publish(ctx, Message{
			Topic:   "ordered.topic",
			Payload: []byte(fmt.Sprintf("msg-%d", i)),
		})
		require.NoError(t, err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for all messages")
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < count; i++ {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), got[i])
	}
}

func TestWatermillBridge_HandlerErrorDoesNotStopStream(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 2)
	err := bridge.Subscribe(ctx, "flaky.topic", func(_ context.Context, msg Message) error {
		received <- string(msg.Payload)
		if string(msg.Payload) == "first" {
			return fmt.Errorf("boom")
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bridge.Publish(ctx, Message{Topic: "flaky.topic", Payload: []byte("first")}))
	require.NoError(t, bridge.Publish(ctx, Message{Topic: "flaky.topic", Payload: []byte("second")}))

	for _, want := range []string{"first", "second"} {
		select {
		case got := <-received:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}
