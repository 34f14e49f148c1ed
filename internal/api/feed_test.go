package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lingomap/lingomap/internal/logging"
	"github.com/lingomap/lingomap/internal/services"
)

func readEvent(t *testing.T, conn *websocket.Conn) feedEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read feed message: %v", err)
	}
	var ev feedEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("decode feed event %q: %v", msg, err)
	}
	return ev
}

func TestFeedHistoryAndBroadcast(t *testing.T) {
	existing := []*services.Submission{{ID: "s1", Phrase: "bonjour", Country: "France"}}
	feed := NewFeed(func() ([]*services.Submission, error) { return existing, nil }, logging.NewDefault())
	defer feed.Close()

	srv := httptest.NewServer(http.HandlerFunc(feed.ServeHTTP))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial feed: %v", err)
	}
	defer conn.Close()

	ev := readEvent(t, conn)
	if ev.Type != "history" {
		t.Fatalf("first event type = %q, want history", ev.Type)
	}

	feed.Publish(&services.Submission{ID: "s2", Phrase: "hola", Country: "Spain"})
	ev = readEvent(t, conn)
	if ev.Type != "submission" {
		t.Fatalf("event type = %q, want submission", ev.Type)
	}
	data, ok := ev.Data.(map[string]any)
	if !ok || data["id"] != "s2" {
		t.Fatalf("unexpected event data %+v", ev.Data)
	}
}

func TestFeedHistoryFailureStillBroadcasts(t *testing.T) {
	feed := NewFeed(func() ([]*services.Submission, error) {
		return nil, errors.New("store offline")
	}, logging.NewDefault())
	defer feed.Close()

	srv := httptest.NewServer(http.HandlerFunc(feed.ServeHTTP))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial feed: %v", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			feed.Publish(&services.Submission{ID: "s1", Phrase: "hej", Country: "Sweden"})
			select {
			case <-done:
				return
			case <-time.After(50 * time.Millisecond):
			}
		}
	}()

	ev := readEvent(t, conn)
	if ev.Type != "submission" {
		t.Fatalf("event type = %q, want submission (history failure must not drop the client)", ev.Type)
	}
}

func TestFeedNoHistoryForEmptyStore(t *testing.T) {
	feed := NewFeed(func() ([]*services.Submission, error) { return nil, nil }, logging.NewDefault())
	defer feed.Close()

	srv := httptest.NewServer(http.HandlerFunc(feed.ServeHTTP))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial feed: %v", err)
	}
	defer conn.Close()

	// Registration happens after the handshake; publish until the
	// broadcast reaches the subscribed client.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			feed.Publish(&services.Submission{ID: "s1", Phrase: "ciao", Country: "Italy"})
			select {
			case <-done:
				return
			case <-time.After(50 * time.Millisecond):
			}
		}
	}()

	ev := readEvent(t, conn)
	if ev.Type != "submission" {
		t.Fatalf("event type = %q, want submission (no history for empty store)", ev.Type)
	}
}
