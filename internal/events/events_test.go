package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	got []Event
	err error
}

func (f *recordingForwarder) Forward(_ context.Context, e Event) error {
	f.got = append(f.got, e)
	return f.err
}

func TestPublishDeliversAndForwards(t *testing.T) {
	bus := NewBus()
	fwd := &recordingForwarder{err: errors.New("down")}
	bus.AddForwarder(fwd)

	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(context.Background(), GalleryUpdated)

	select {
	case e := <-ch:
		assert.Equal(t, GalleryUpdated, e.Type)
		assert.Equal(t, bus.Origin(), e.Origin)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	require.Len(t, fwd.got, 1)
	assert.Equal(t, GalleryUpdated, fwd.got[0].Type)
}

func TestFullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		bus.Publish(context.Background(), GalleryUpdated)
		bus.Publish(context.Background(), GalleryUpdated)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Equal(t, GalleryUpdated, (<-ch).Type)
}

func TestCancelClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	bus.Publish(context.Background(), GalleryUpdated)
}

func TestStreamWritesEvents(t *testing.T) {
	bus := NewBus()
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(bus).Stream))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)
	bus.Publish(context.Background(), GalleryUpdated)

	var e Event
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, GalleryUpdated, e.Type)
}
