package aurakit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var ErrStreamClosed = errors.New("realtime stream closed")

// Event is one delivery of a subscription: either a full snapshot of the
// topic or the error the service answered the subscription with.
type Event struct {
	Topic string
	Data  json.RawMessage
	Err   error
}

// DecodeSnapshot decodes the documents of a snapshot event.
func DecodeSnapshot[T any](event Event) ([]T, error) {
	if event.Err != nil {
		return nil, event.Err
	}
	var items []T
	if err := jsoniter.Unmarshal(event.Data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Stream is a realtime connection to the service multiplexing any number of
// topic subscriptions.
type Stream struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	mu      sync.Mutex
	subs    map[string]*Subscription
	closed  bool
	done    chan struct{}
	once    sync.Once
}

// DialStream connects to the realtime endpoint, retrying with the policy.
func DialStream(ctx context.Context, cfg Config, token string, policy RetryPolicy) (*Stream, error) {
	endpoint, err := url.Parse(cfg.Endpoint + "/api/realtime")
	if err != nil {
		return nil, err
	}
	switch endpoint.Scheme {
	case "https":
		endpoint.Scheme = "wss"
	default:
		endpoint.Scheme = "ws"
	}
	query := endpoint.Query()
	query.Set("tk", token)
	endpoint.RawQuery = query.Encode()

	header := http.Header{}
	header.Set("X-Aura-App", cfg.AppID)

	var conn *websocket.Conn
	if err := Retry(ctx, policy, func() error {
		var err error
		conn, _, err = websocket.DefaultDialer.DialContext(ctx, endpoint.String(), header)
		return err
	}); err != nil {
		return nil, err
	}

	stream := &Stream{
		conn: conn,
		subs: make(map[string]*Subscription),
		done: make(chan struct{}),
	}
	go stream.read()

	return stream, nil
}

func (v *Stream) read() {
	defer v.shutdown()
	for {
		_, packet, err := v.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !v.isClosed() {
				log.Warn().Err(err).Msg("Realtime stream disconnected...")
			}
			return
		}

		var frame aurakitm.Frame
		if err := jsoniter.Unmarshal(packet, &frame); err != nil {
			continue
		}

		v.mu.Lock()
		sub, ok := v.subs[frame.Topic]
		v.mu.Unlock()
		if !ok {
			if frame.Type == aurakitm.FrameError {
				log.Warn().Str("topic", frame.Topic).Str("error", frame.Error).Msg("Realtime stream reported an error.")
			}
			continue
		}

		event := Event{Topic: frame.Topic, Data: frame.Data}
		if frame.Type == aurakitm.FrameError {
			event.Err = errors.New(frame.Error)
		}
		sub.offer(event)
	}
}

func (v *Stream) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *Stream) shutdown() {
	v.mu.Lock()
	subs := v.subs
	v.subs = make(map[string]*Subscription)
	v.closed = true
	v.mu.Unlock()

	for _, sub := range subs {
		sub.finish()
	}
	v.once.Do(func() { close(v.done) })
}

func (v *Stream) send(command aurakitm.Command) error {
	packet, err := jsoniter.Marshal(command)
	if err != nil {
		return err
	}
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	return v.conn.WriteMessage(websocket.TextMessage, packet)
}

// Done is closed once the connection is gone.
func (v *Stream) Done() <-chan struct{} {
	return v.done
}

// Subscribe starts delivering snapshots of a topic. Subscribing a topic
// twice on one stream is rejected.
func (v *Stream) Subscribe(topic string) (*Subscription, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, ErrStreamClosed
	}
	if _, ok := v.subs[topic]; ok {
		v.mu.Unlock()
		return nil, errors.New("topic already subscribed: " + topic)
	}
	sub := &Subscription{
		Topic:  topic,
		stream: v,
		events: make(chan Event, 1),
	}
	v.subs[topic] = sub
	v.mu.Unlock()

	if err := v.send(aurakitm.Command{Action: aurakitm.ActionSubscribe, Topic: topic}); err != nil {
		v.detach(sub)
		return nil, err
	}
	return sub, nil
}

func (v *Stream) detach(sub *Subscription) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if current, ok := v.subs[sub.Topic]; ok && current == sub {
		delete(v.subs, sub.Topic)
		return true
	}
	return false
}

// Close ends every subscription and the connection.
func (v *Stream) Close() error {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()

	v.writeMu.Lock()
	_ = v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	v.writeMu.Unlock()

	err := v.conn.Close()
	<-v.done
	return err
}

// Subscription is a cancellable, unbounded sequence of snapshots. Only the
// latest undelivered snapshot is kept: a slow consumer skips stale ones
// instead of queueing them.
type Subscription struct {
	Topic string

	stream *Stream
	mu     sync.Mutex
	events chan Event
	ended  bool
}

func (v *Subscription) Events() <-chan Event {
	return v.events
}

func (v *Subscription) offer(event Event) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ended {
		return
	}
	select {
	case <-v.events:
	default:
	}
	v.events <- event
}

func (v *Subscription) finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.ended {
		v.ended = true
		close(v.events)
	}
}

// Close cancels the subscription. The events channel is closed afterwards.
func (v *Subscription) Close() {
	if v.stream.detach(v) {
		_ = v.stream.send(aurakitm.Command{Action: aurakitm.ActionUnsubscribe, Topic: v.Topic})
	}
	v.finish()
}
