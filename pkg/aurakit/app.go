package aurakit

import (
	"context"
	"sync"
	"time"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"github.com/rs/zerolog/log"
)

// App is the application context: every client side component hangs off
// it and it wires them to each other.
type App struct {
	Config       Config
	Client       *Client
	Session      *SessionManager
	Mirror       *Mirror
	Conversation *Conversation
	Router       *Router
	Notices      *Notifier

	RetryPolicy RetryPolicy

	mu     sync.Mutex
	ctx    context.Context
	stream *Stream
}

func New(cfg Config) *App {
	client := NewClient(cfg)
	app := &App{
		Config:       cfg,
		Client:       client,
		Session:      NewSessionManager(client, cfg.InitialAuthToken),
		Mirror:       NewMirror(),
		Conversation: NewConversation(),
		Router:       NewRouter(),
		Notices:      NewNotifier(),
		RetryPolicy:  DefaultRetryPolicy,
		ctx:          context.Background(),
	}
	app.Session.OnChange(app.handleSession)
	return app
}

// Start signs in and, once an identity exists, starts mirroring.
func (v *App) Start(ctx context.Context) {
	v.mu.Lock()
	v.ctx = ctx
	v.mu.Unlock()

	v.Session.Start(ctx)
}

func (v *App) handleSession(session *aurakitm.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.teardown()
	defer v.Router.SetLoading(false)

	if session == nil {
		return
	}

	stream, err := DialStream(v.ctx, v.Config, session.Token, v.RetryPolicy)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when connecting realtime stream...")
		return
	}
	v.stream = stream

	caps := aurakitm.DeriveCapabilities(&session.Identity, session.Profile)
	if err := v.Mirror.Start(stream, caps.IsAdmin); err != nil {
		log.Error().Err(err).Msg("An error occurred when starting mirror...")
	}
	go v.watch(v.ctx, stream)
}

// watch keeps the realtime stream alive until the app tears it down. A
// dropped connection is dialed again and every listener resubscribed.
func (v *App) watch(ctx context.Context, stream *Stream) {
	for stream != nil {
		select {
		case <-ctx.Done():
			return
		case <-stream.Done():
		}
		if !v.isCurrent(stream) {
			return
		}

		log.Warn().Msg("Realtime stream dropped, reconnecting...")
		stream = v.redial(ctx, stream)
	}
}

func (v *App) isCurrent(stream *Stream) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stream == stream
}

// redial replaces the lost stream. It gives up once the session is gone or
// the lost stream was torn down in the meantime.
func (v *App) redial(ctx context.Context, lost *Stream) *Stream {
	for {
		session := v.Session.Current()
		if session == nil {
			return nil
		}

		next, err := DialStream(ctx, v.Config, session.Token, v.RetryPolicy)
		if err == nil {
			return v.resume(lost, next, session)
		}
		log.Error().Err(err).Msg("An error occurred when reconnecting realtime stream...")

		// The session may have been revoked while the stream was down.
		// Refresh signs the kit out in that case.
		if err := v.Session.Refresh(ctx); err != nil {
			log.Debug().Err(err).Msg("Unable to refresh session while reconnecting.")
		}
		if !v.isCurrent(lost) {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(max(v.RetryPolicy.Delay, 100*time.Millisecond)):
		}
	}
}

func (v *App) resume(lost, next *Stream, session *aurakitm.Session) *Stream {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stream != lost {
		_ = next.Close()
		return nil
	}
	v.stream = next

	caps := aurakitm.DeriveCapabilities(&session.Identity, session.Profile)
	if err := v.Mirror.Start(next, caps.IsAdmin); err != nil {
		log.Error().Err(err).Msg("An error occurred when restarting mirror...")
	}
	if err := v.Conversation.Resume(next); err != nil {
		log.Error().Err(err).Msg("An error occurred when resuming conversation...")
	}
	log.Info().Msg("Realtime stream reconnected.")
	return next
}

func (v *App) teardown() {
	v.Conversation.Close()
	v.Mirror.Stop()
	if v.stream != nil {
		_ = v.stream.Close()
		v.stream = nil
	}
}

// Capabilities derives the gate flags. The mirrored profile wins over the
// one received at sign-in, so a ban or role change applies right away.
func (v *App) Capabilities() aurakitm.Capabilities {
	session := v.Session.Current()
	if session == nil {
		return aurakitm.DeriveCapabilities(nil, nil)
	}
	profile := session.Profile
	if mirrored, ok := v.Mirror.Profile(session.Identity.ID); ok {
		profile = &mirrored
	}
	return aurakitm.DeriveCapabilities(&session.Identity, profile)
}

// SignIn is the login form submission. Failures only surface the generic
// notice, the cause goes to the log.
func (v *App) SignIn(ctx context.Context, email, password string, register bool) error {
	var err error
	if register {
		err = v.Session.Register(ctx, email, password)
	} else {
		err = v.Session.SignInWithPassword(ctx, email, password)
	}
	if err != nil {
		v.Notices.Show(NoticeLoginFailed)
		return err
	}
	v.Router.Navigate(ViewHome)
	return nil
}

// OpenAdmin shows the administrator console to administrators only.
func (v *App) OpenAdmin() bool {
	if !v.Capabilities().IsAdmin {
		return false
	}
	v.Router.Navigate(ViewAdmin)
	return true
}

// OpenChat activates the conversation with peer and shows it.
func (v *App) OpenChat(peer string) error {
	session := v.Session.Current()
	if session == nil {
		return ErrNotAllowed
	}

	v.mu.Lock()
	stream := v.stream
	v.mu.Unlock()
	if stream == nil {
		return ErrStreamClosed
	}

	if _, err := v.Conversation.Open(stream, session.Identity.ID, peer); err != nil {
		return err
	}
	v.Router.ShowChat(peer)
	return nil
}

// Close stops every subscription and the realtime stream.
func (v *App) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.teardown()
}
