package aurakit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
)

func (v *Client) signIn(ctx context.Context, path string, body any) (aurakitm.Session, error) {
	var session aurakitm.Session
	if err := v.Do(ctx, http.MethodPost, path, body, &session); err != nil {
		return session, err
	}
	v.SetToken(session.Token)
	return session, nil
}

func (v *Client) SignInAnonymously(ctx context.Context) (aurakitm.Session, error) {
	return v.signIn(ctx, "/api/auth/anonymous", nil)
}

func (v *Client) SignInWithCustomToken(ctx context.Context, token string) (aurakitm.Session, error) {
	return v.signIn(ctx, "/api/auth/token", map[string]string{"token": token})
}

func (v *Client) SignInWithPassword(ctx context.Context, email, password string) (aurakitm.Session, error) {
	return v.signIn(ctx, "/api/auth/login", map[string]string{"email": email, "password": password})
}

func (v *Client) Register(ctx context.Context, email, password string) (aurakitm.Session, error) {
	return v.signIn(ctx, "/api/auth/register", map[string]string{"email": email, "password": password})
}

func (v *Client) GetSession(ctx context.Context) (aurakitm.Session, error) {
	var session aurakitm.Session
	err := v.Do(ctx, http.MethodGet, "/api/auth/session", nil, &session)
	session.Token = v.Token()
	return session, err
}

func (v *Client) SignOut(ctx context.Context) error {
	defer v.SetToken("")
	return v.Do(ctx, http.MethodDelete, "/api/auth/session", nil, nil)
}

func (v *Client) ToggleHeart(ctx context.Context, collection, id string) (bool, error) {
	var result aurakitm.ToggleResult
	path := fmt.Sprintf("/api/%s/%s/heart", collection, url.PathEscape(id))
	err := v.Do(ctx, http.MethodPost, path, nil, &result)
	return result.Active, err
}

func (v *Client) ToggleFollow(ctx context.Context, id string) (bool, error) {
	var result aurakitm.ToggleResult
	err := v.Do(ctx, http.MethodPost, "/api/profiles/"+url.PathEscape(id)+"/follow", nil, &result)
	return result.Active, err
}

// PinDraft is what the upload form collects. Tags is the raw comma
// separated line.
type PinDraft struct {
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

func (v *Client) PublishPin(ctx context.Context, draft PinDraft) (aurakitm.Pin, error) {
	var pin aurakitm.Pin
	err := v.Do(ctx, http.MethodPost, "/api/pins", draft, &pin)
	return pin, err
}

func (v *Client) PublishPulse(ctx context.Context, content string) (aurakitm.Pulse, error) {
	var pulse aurakitm.Pulse
	err := v.Do(ctx, http.MethodPost, "/api/pulses", map[string]string{"content": content}, &pulse)
	return pulse, err
}

func (v *Client) SendMessage(ctx context.Context, key, text string) (aurakitm.Message, error) {
	var message aurakitm.Message
	path := "/api/conversations/" + url.PathEscape(key) + "/messages"
	err := v.Do(ctx, http.MethodPost, path, map[string]string{"text": text}, &message)
	return message, err
}

type ProfileEdit struct {
	Username  *string  `json:"username,omitempty"`
	Bio       *string  `json:"bio,omitempty"`
	PhotoURL  *string  `json:"photo_url,omitempty"`
	CoverURL  *string  `json:"cover_url,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

func (v *Client) EditProfile(ctx context.Context, edit ProfileEdit) (aurakitm.Profile, error) {
	var profile aurakitm.Profile
	err := v.Do(ctx, http.MethodPut, "/api/profiles/me", edit, &profile)
	return profile, err
}

func (v *Client) Report(ctx context.Context, targetType, targetID, reason string) (aurakitm.Report, error) {
	var report aurakitm.Report
	err := v.Do(ctx, http.MethodPost, "/api/reports", map[string]string{
		"target_type": targetType,
		"target_id":   targetID,
		"reason":      reason,
	}, &report)
	return report, err
}

func (v *Client) ToggleBadge(ctx context.Context, profileID, badge string) (bool, error) {
	var result aurakitm.ToggleResult
	path := "/api/admin/profiles/" + url.PathEscape(profileID) + "/badges"
	err := v.Do(ctx, http.MethodPost, path, map[string]string{"badge": badge}, &result)
	return result.Active, err
}

func (v *Client) ToggleBan(ctx context.Context, profileID string) (bool, error) {
	var result aurakitm.ToggleResult
	err := v.Do(ctx, http.MethodPost, "/api/admin/profiles/"+url.PathEscape(profileID)+"/ban", nil, &result)
	return result.Active, err
}

func (v *Client) DeleteContent(ctx context.Context, collection, id string) error {
	path := fmt.Sprintf("/api/admin/%s/%s", collection, url.PathEscape(id))
	return v.Do(ctx, http.MethodDelete, path, nil, nil)
}
