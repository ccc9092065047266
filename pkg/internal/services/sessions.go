package services

import (
	"errors"
	"fmt"
	"time"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type SessionClaims struct {
	jwt.RegisteredClaims
	IsAnonymous bool   `json:"anon"`
	Email       string `json:"email,omitempty"`
}

func sessionTTL() time.Duration {
	if ttl := viper.GetDuration("security.session_ttl"); ttl > 0 {
		return ttl
	}
	return 30 * 24 * time.Hour
}

// EstablishSession runs after every successful sign-in: it bootstraps the
// profile, records the session and signs a token referencing it.
func EstablishSession(account models.Account) (aurakitm.Session, error) {
	profile, err := EnsureProfile(account)
	if err != nil {
		return aurakitm.Session{}, err
	}

	session := models.Session{
		AccountID: account.ID,
		ExpiredAt: time.Now().Add(sessionTTL()),
	}
	if err := database.C.Create(&session).Error; err != nil {
		return aurakitm.Session{}, fmt.Errorf("unable to create session: %v", err)
	}

	actor := Actor{Account: account, Profile: profile, SessionID: session.ID}
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   account.ID,
			Issuer:    viper.GetString("id"),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiredAt),
		},
		IsAnonymous: account.IsAnonymous,
		Email:       actor.Identity().Email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(viper.GetString("security.jwt_secret")))
	if err != nil {
		return aurakitm.Session{}, fmt.Errorf("unable to sign session token: %v", err)
	}

	info, err := GetSession(actor)
	info.Token = token
	return info, err
}

// ParseSessionToken resolves the caller behind a session token. A token of a
// revoked or expired session is rejected even if its signature is valid.
func ParseSessionToken(raw string) (Actor, error) {
	var claims SessionClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return []byte(viper.GetString("security.jwt_secret")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	var session models.Session
	if err := database.C.Where("id = ? AND account_id = ?", claims.ID, claims.Subject).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, ErrSessionExpired
		}
		return Actor{}, err
	}
	if session.ExpiredAt.Before(time.Now()) {
		return Actor{}, ErrSessionExpired
	}

	account, err := GetAccountWithID(session.AccountID)
	if err != nil {
		return Actor{}, err
	}
	actor := Actor{Account: account, SessionID: session.ID}

	if profile, err := GetProfile(account.ID); err == nil {
		actor.Profile = &profile
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return actor, err
	}

	return actor, nil
}

// GetSession describes the caller's session. The token is never echoed back.
func GetSession(actor Actor) (aurakitm.Session, error) {
	info := aurakitm.Session{
		Identity:     actor.Identity(),
		Capabilities: actor.Capabilities(),
	}
	if actor.Profile != nil {
		profiles := []models.Profile{*actor.Profile}
		if err := AttachFollows(profiles); err != nil {
			return info, err
		}
		info.Profile = lo.ToPtr(ProfileDocument(profiles[0]))
	}
	return info, nil
}

func RevokeSession(actor Actor) error {
	return database.C.Delete(&models.Session{}, "id = ?", actor.SessionID).Error
}
