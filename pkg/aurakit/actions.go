package aurakit

import (
	"context"
	"errors"
	"strings"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var (
	ErrNotAllowed     = errors.New("action not allowed for this identity")
	ErrSelfFollow     = errors.New("cannot follow yourself")
	ErrFollowLocked   = errors.New("the official channel cannot be unfollowed")
	ErrNoConversation = errors.New("no active conversation")
	ErrEmptyContent   = errors.New("content cannot be empty")
)

// ToggleHeart flips the heart of the signed in identity on a pin or pulse.
func (v *App) ToggleHeart(ctx context.Context, collection, id string) error {
	if !v.Capabilities().CanWrite {
		v.Notices.Show(NoticeLoginToHeart)
		return ErrNotAllowed
	}

	active, err := v.Client.ToggleHeart(ctx, collection, id)
	if err != nil {
		log.Error().Err(err).Str("collection", collection).Str("id", id).Msg("An error occurred when toggling heart...")
		return err
	}
	v.Notices.Show(lo.Ternary(active, NoticeHearted, NoticeUnhearted))
	return nil
}

func (v *App) ToggleFollow(ctx context.Context, targetID string) error {
	session := v.Session.Current()
	if session == nil || !v.Capabilities().IsMember {
		return ErrNotAllowed
	}
	if session.Identity.ID == targetID {
		return ErrSelfFollow
	}
	if target, ok := v.Mirror.Profile(targetID); ok && target.Role == aurakitm.RoleAdmin {
		if me, ok := v.Mirror.Profile(session.Identity.ID); ok && lo.Contains(me.Following, targetID) {
			v.Notices.Show(NoticeFollowLocked)
			return ErrFollowLocked
		}
	}

	active, err := v.Client.ToggleFollow(ctx, targetID)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == 409 && strings.Contains(apiErr.Message, "official") {
			v.Notices.Show(NoticeFollowLocked)
			return ErrFollowLocked
		}
		log.Error().Err(err).Str("target", targetID).Msg("An error occurred when toggling follow...")
		return err
	}
	v.Notices.Show(lo.Ternary(active, NoticeFollowed, NoticeUnfollowed))
	return nil
}

// PublishPin uploads a pin and goes back home.
func (v *App) PublishPin(ctx context.Context, draft PinDraft) error {
	if !v.Capabilities().CanWrite {
		return ErrNotAllowed
	}

	if _, err := v.Client.PublishPin(ctx, draft); err != nil {
		log.Error().Err(err).Msg("An error occurred when publishing pin...")
		return err
	}
	v.Notices.Show(NoticePinPublished)
	v.Router.Navigate(ViewHome)
	return nil
}

func (v *App) PublishPulse(ctx context.Context, content string) error {
	if !v.Capabilities().CanWrite {
		return ErrNotAllowed
	}
	if len(strings.TrimSpace(content)) == 0 {
		return ErrEmptyContent
	}

	if _, err := v.Client.PublishPulse(ctx, content); err != nil {
		log.Error().Err(err).Msg("An error occurred when publishing pulse...")
		return err
	}
	v.Notices.Show(NoticePulsePosted)
	return nil
}

// SendMessage appends to the active conversation. Without text or without
// an active conversation nothing happens.
func (v *App) SendMessage(ctx context.Context, text string) error {
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}
	key := v.Conversation.Key()
	if len(key) == 0 {
		return nil
	}
	if !v.Capabilities().CanWrite {
		return ErrNotAllowed
	}

	if _, err := v.Client.SendMessage(ctx, key, text); err != nil {
		log.Error().Err(err).Str("conversation", key).Msg("An error occurred when sending message...")
		return err
	}
	return nil
}

func (v *App) EditProfile(ctx context.Context, edit ProfileEdit) error {
	if !v.Capabilities().CanWrite {
		return ErrNotAllowed
	}
	if _, err := v.Client.EditProfile(ctx, edit); err != nil {
		log.Error().Err(err).Msg("An error occurred when editing profile...")
		return err
	}
	return nil
}

func (v *App) Report(ctx context.Context, targetType, targetID, reason string) error {
	if !v.Capabilities().IsMember {
		return ErrNotAllowed
	}
	if _, err := v.Client.Report(ctx, targetType, targetID, reason); err != nil {
		log.Error().Err(err).Str("target", targetID).Msg("An error occurred when reporting...")
		return err
	}
	return nil
}

func (v *App) ToggleBadge(ctx context.Context, profileID, badge string) error {
	if !v.Capabilities().IsAdmin {
		return ErrNotAllowed
	}
	if _, err := v.Client.ToggleBadge(ctx, profileID, badge); err != nil {
		log.Error().Err(err).Str("profile", profileID).Msg("An error occurred when toggling badge...")
		return err
	}
	return nil
}

func (v *App) ToggleBan(ctx context.Context, profileID string) error {
	if !v.Capabilities().IsAdmin {
		return ErrNotAllowed
	}
	if _, err := v.Client.ToggleBan(ctx, profileID); err != nil {
		log.Error().Err(err).Str("profile", profileID).Msg("An error occurred when toggling ban...")
		return err
	}
	return nil
}

// DeleteContent hard deletes a pin, pulse, report or profile.
func (v *App) DeleteContent(ctx context.Context, collection, id string) error {
	if !v.Capabilities().IsAdmin {
		return ErrNotAllowed
	}
	if err := v.Client.DeleteContent(ctx, collection, id); err != nil {
		log.Error().Err(err).Str("collection", collection).Str("id", id).Msg("An error occurred when deleting content...")
		return err
	}
	v.Notices.Show(NoticeContentDelete)
	return nil
}
