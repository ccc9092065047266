package realtime

import (
	"context"
	"sync"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

const textMessage = 1

// Conn is the part of a websocket connection the serve loop needs. Both the
// gorilla and the fasthttp websocket connections satisfy it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

// Source authorizes and loads the topics of one connection.
type Source interface {
	Authorize(topic string) error
	Load(ctx context.Context, topic string) ([]byte, error)
}

type session struct {
	hub  *Hub
	conn Conn
	src  Source

	writeMu sync.Mutex
	subs    map[string]*Subscription
	wg      sync.WaitGroup
}

// Serve runs the command loop of a realtime connection until the connection
// fails or ctx ends. Every subscribed topic gets a pump pushing the full
// snapshot after subscribing and after each change.
func Serve(ctx context.Context, hub *Hub, conn Conn, src Source) error {
	ctx, cancel := context.WithCancel(ctx)
	s := &session{hub: hub, conn: conn, src: src, subs: make(map[string]*Subscription)}
	defer func() {
		cancel()
		for _, sub := range s.subs {
			sub.Close()
		}
		s.wg.Wait()
	}()

	for {
		_, packet, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var command aurakitm.Command
		if err := jsoniter.Unmarshal(packet, &command); err != nil {
			s.write(aurakitm.Frame{Type: aurakitm.FrameError, Error: "invalid command"})
			continue
		}

		switch command.Action {
		case aurakitm.ActionSubscribe:
			if _, ok := s.subs[command.Topic]; ok {
				continue
			}
			if err := src.Authorize(command.Topic); err != nil {
				s.write(aurakitm.Frame{Type: aurakitm.FrameError, Topic: command.Topic, Error: err.Error()})
				continue
			}
			sub := hub.Subscribe(command.Topic)
			s.subs[command.Topic] = sub
			s.wg.Add(1)
			go s.pump(ctx, sub)
		case aurakitm.ActionUnsubscribe:
			if sub, ok := s.subs[command.Topic]; ok {
				sub.Close()
				delete(s.subs, command.Topic)
			}
		default:
			s.write(aurakitm.Frame{Type: aurakitm.FrameError, Topic: command.Topic, Error: "unknown action"})
		}
	}
}

func (s *session) pump(ctx context.Context, sub *Subscription) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.C:
			if !ok {
				return
			}
			data, err := s.src.Load(ctx, sub.Topic)
			if err != nil {
				log.Error().Err(err).Str("topic", sub.Topic).Msg("An error occurred when loading snapshot...")
				s.write(aurakitm.Frame{Type: aurakitm.FrameError, Topic: sub.Topic, Error: "unable to load snapshot"})
				continue
			}
			s.write(aurakitm.Frame{Type: aurakitm.FrameSnapshot, Topic: sub.Topic, Data: data})
		}
	}
}

func (s *session) write(frame aurakitm.Frame) {
	packet, err := jsoniter.Marshal(frame)
	if err != nil {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(textMessage, packet); err != nil {
		log.Debug().Err(err).Str("topic", frame.Topic).Msg("Unable to write realtime frame.")
	}
}
