package services

import (
	"errors"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
)

var (
	ErrUnauthenticated    = errors.New("sign in required")
	ErrAnonymous          = errors.New("anonymous identities cannot do this")
	ErrBanned             = errors.New("this profile is banned")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrFollowLocked       = errors.New("the official channel cannot be unfollowed")
	ErrNotAdmin           = errors.New("administrator role required")
	ErrNotParticipant     = errors.New("not a participant of this conversation")
	ErrEmptyContent       = errors.New("content cannot be empty")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailReserved      = errors.New("this email is reserved for the official channel")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrAlreadyReported    = errors.New("already reported")
)

// Actor is the caller of a service operation, resolved from its session.
// Profile is nil for identities without one (anonymous sign-ins).
type Actor struct {
	Account   models.Account
	Profile   *models.Profile
	SessionID string
}

func (v Actor) Identity() aurakitm.Identity {
	identity := aurakitm.Identity{ID: v.Account.ID, IsAnonymous: v.Account.IsAnonymous}
	if v.Account.Email != nil {
		identity.Email = *v.Account.Email
	}
	return identity
}

func (v Actor) Capabilities() aurakitm.Capabilities {
	identity := v.Identity()
	var profile *aurakitm.Profile
	if v.Profile != nil {
		profile = &aurakitm.Profile{
			ID:       v.Profile.ID,
			Role:     v.Profile.Role,
			IsBanned: v.Profile.IsBanned,
		}
	}
	return aurakitm.DeriveCapabilities(&identity, profile)
}

// EnsureMember rejects anonymous identities.
func EnsureMember(actor *Actor) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.Capabilities().IsMember {
		return ErrAnonymous
	}
	return nil
}

// EnsureWritable rejects anonymous and banned identities.
func EnsureWritable(actor *Actor) error {
	if err := EnsureMember(actor); err != nil {
		return err
	}
	if !actor.Capabilities().CanWrite {
		return ErrBanned
	}
	return nil
}

func EnsureAdmin(actor *Actor) error {
	if err := EnsureMember(actor); err != nil {
		return err
	}
	if !actor.Capabilities().IsAdmin {
		return ErrNotAdmin
	}
	return nil
}
