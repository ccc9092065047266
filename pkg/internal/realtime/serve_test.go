package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
)

type fakeSource struct{}

func (v *fakeSource) Authorize(topic string) error {
	if topic == aurakitm.TopicReports {
		return errors.New("administrator role required")
	}
	return nil
}

func (v *fakeSource) Load(ctx context.Context, topic string) ([]byte, error) {
	return []byte(`[{"id":"` + topic + `"}]`), nil
}

func dialServe(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = Serve(r.Context(), hub, conn, &fakeSource{})
	}))
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) aurakitm.Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame aurakitm.Frame
	_, packet, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if err := jsoniter.Unmarshal(packet, &frame); err != nil {
		t.Fatal(err)
	}
	return frame
}

func sendCommand(t *testing.T, conn *websocket.Conn, action, topic string) {
	t.Helper()
	packet, _ := jsoniter.Marshal(aurakitm.Command{Action: action, Topic: topic})
	if err := conn.WriteMessage(websocket.TextMessage, packet); err != nil {
		t.Fatal(err)
	}
}

func TestServePushesSnapshots(t *testing.T) {
	hub := NewHub(nil)
	conn := dialServe(t, hub)

	sendCommand(t, conn, aurakitm.ActionSubscribe, aurakitm.TopicPins)
	frame := readFrame(t, conn)
	if frame.Type != aurakitm.FrameSnapshot || frame.Topic != aurakitm.TopicPins {
		t.Fatalf("first frame = %+v", frame)
	}
	if string(frame.Data) != `[{"id":"pins"}]` {
		t.Fatalf("snapshot data = %s", frame.Data)
	}

	_ = hub.Publish(context.Background(), aurakitm.TopicPins)
	if frame := readFrame(t, conn); frame.Type != aurakitm.FrameSnapshot {
		t.Fatalf("frame after change = %+v", frame)
	}
}

func TestServeRejectsUnauthorizedTopic(t *testing.T) {
	hub := NewHub(nil)
	conn := dialServe(t, hub)

	sendCommand(t, conn, aurakitm.ActionSubscribe, aurakitm.TopicReports)
	frame := readFrame(t, conn)
	if frame.Type != aurakitm.FrameError || frame.Topic != aurakitm.TopicReports {
		t.Fatalf("frame = %+v", frame)
	}
	if hub.Count(aurakitm.TopicReports) != 0 {
		t.Fatalf("rejected topic got subscribed")
	}
}

func TestServeUnsubscribe(t *testing.T) {
	hub := NewHub(nil)
	conn := dialServe(t, hub)

	sendCommand(t, conn, aurakitm.ActionSubscribe, aurakitm.TopicPulses)
	readFrame(t, conn)
	sendCommand(t, conn, aurakitm.ActionUnsubscribe, aurakitm.TopicPulses)

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count(aurakitm.TopicPulses) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscription survived unsubscribe")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServeReleasesSubscriptionsOnDisconnect(t *testing.T) {
	hub := NewHub(nil)
	conn := dialServe(t, hub)

	sendCommand(t, conn, aurakitm.ActionSubscribe, aurakitm.TopicProfiles)
	readFrame(t, conn)
	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count(aurakitm.TopicProfiles) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscription survived disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
