package aurakit

import (
	"context"
	"sync"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"github.com/rs/zerolog/log"
)

// SessionManager owns the identity of the kit and tells listeners about
// every change of it.
type SessionManager struct {
	client *Client
	token  string

	mu        sync.RWMutex
	session   *aurakitm.Session
	loading   bool
	listeners []func(session *aurakitm.Session)
}

func NewSessionManager(client *Client, initialToken string) *SessionManager {
	manager := &SessionManager{client: client, token: initialToken, loading: true}
	client.OnSessionExpired(func() {
		log.Warn().Msg("Session was rejected by the service, signing out...")
		manager.set(nil)
	})
	return manager
}

func (v *SessionManager) OnChange(fn func(session *aurakitm.Session)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// Start signs in with the pre-issued token when one is configured and
// anonymously otherwise. A failure is logged and leaves the manager signed
// out.
func (v *SessionManager) Start(ctx context.Context) {
	var session aurakitm.Session
	var err error
	if len(v.token) > 0 {
		session, err = v.client.SignInWithCustomToken(ctx, v.token)
	} else {
		session, err = v.client.SignInAnonymously(ctx)
	}

	if err != nil {
		log.Error().Err(err).Msg("An error occurred when signing in...")
		v.set(nil)
		return
	}
	v.set(&session)
}

func (v *SessionManager) SignInWithPassword(ctx context.Context, email, password string) error {
	session, err := v.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when signing in with password...")
		return err
	}
	v.set(&session)
	return nil
}

func (v *SessionManager) Register(ctx context.Context, email, password string) error {
	session, err := v.client.Register(ctx, email, password)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when registering...")
		return err
	}
	v.set(&session)
	return nil
}

// Refresh reloads the profile and capabilities of the current session.
func (v *SessionManager) Refresh(ctx context.Context) error {
	if v.Current() == nil {
		return nil
	}
	session, err := v.client.GetSession(ctx)
	if err != nil {
		return err
	}
	v.set(&session)
	return nil
}

func (v *SessionManager) SignOut(ctx context.Context) error {
	err := v.client.SignOut(ctx)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when signing out...")
	}
	v.set(nil)
	return err
}

func (v *SessionManager) set(session *aurakitm.Session) {
	v.mu.Lock()
	v.session = session
	v.loading = false
	listeners := append([]func(*aurakitm.Session){}, v.listeners...)
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(session)
	}
}

// Current returns the session, nil when signed out.
func (v *SessionManager) Current() *aurakitm.Session {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.session == nil {
		return nil
	}
	session := *v.session
	return &session
}

func (v *SessionManager) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

// Capabilities derives the gate flags of the current session locally.
func (v *SessionManager) Capabilities() aurakitm.Capabilities {
	session := v.Current()
	if session == nil {
		return aurakitm.DeriveCapabilities(nil, nil)
	}
	return aurakitm.DeriveCapabilities(&session.Identity, session.Profile)
}
