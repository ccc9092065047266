package services

import (
	"errors"
	"fmt"
	"strings"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const (
	defaultAvatarSeedURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="
	defaultCoverURL      = "https://images.unsplash.com/photo-1518531933037-91b2f5f229cc?q=80&w=2000"
	defaultBio           = "Bem-vindo à AuraHeart!"
)

func IsAdminEmail(email string) bool {
	admin := NormalizeEmail(viper.GetString("auth.admin_email"))
	return len(admin) > 0 && NormalizeEmail(email) == admin
}

func GetProfile(id string) (models.Profile, error) {
	var profile models.Profile
	if err := database.C.Where("id = ?", id).First(&profile).Error; err != nil {
		return profile, err
	}
	return profile, nil
}

// GetAdminProfile returns the official channel, the earliest administrator.
func GetAdminProfile() (models.Profile, error) {
	var profile models.Profile
	if err := database.C.Where("role = ?", aurakitm.RoleAdmin).Order("created_at ASC").First(&profile).Error; err != nil {
		return profile, err
	}
	return profile, nil
}

// EnsureProfile returns the profile of the account, creating the default one
// when it is missing. Anonymous identities get no profile unless they carry
// the administrator email.
func EnsureProfile(account models.Account) (*models.Profile, error) {
	if profile, err := GetProfile(account.ID); err == nil {
		return &profile, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("unable to get profile: %v", err)
	}

	email := lo.FromPtr(account.Email)
	isAdmin := IsAdminEmail(email)
	if account.IsAnonymous && !isAdmin {
		return nil, nil
	}

	profile := NewDefaultProfile(account.ID, email, isAdmin)

	var follow *models.Follow
	var firstAdmin bool
	if admin, err := GetAdminProfile(); err == nil && admin.ID != account.ID {
		if !isAdmin {
			follow = &models.Follow{FollowerID: account.ID, FollowingID: admin.ID}
		}
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		firstAdmin = isAdmin
	} else if err != nil {
		return nil, err
	}

	if err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		if follow != nil {
			return tx.Create(follow).Error
		}
		if firstAdmin {
			count, err := BackfillOfficialFollows(tx, profile.ID)
			if count > 0 {
				log.Info().Int("count", count).Msg("Members caught up on following the official channel.")
			}
			return err
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("unable to create profile: %v", err)
	}

	log.Info().Str("id", profile.ID).Bool("admin", isAdmin).Msg("Created default profile for new identity.")
	realtime.Notify(aurakitm.TopicProfiles)

	return &profile, nil
}

// NewDefaultProfile builds the profile a new identity starts with.
func NewDefaultProfile(id, email string, isAdmin bool) models.Profile {
	username := "user_" + id[:min(5, len(id))]
	if local, _, ok := strings.Cut(email, "@"); ok && len(local) > 0 {
		username = local
	}

	profile := models.Profile{
		BaseModel: models.BaseModel{ID: id},
		Email:     email,
		Username:  username,
		Bio:       lo.CoalesceOrEmpty(viper.GetString("profiles.default_bio"), defaultBio),
		PhotoURL:  lo.CoalesceOrEmpty(viper.GetString("profiles.avatar_seed_url"), defaultAvatarSeedURL) + id,
		CoverURL:  lo.CoalesceOrEmpty(viper.GetString("profiles.default_cover"), defaultCoverURL),
		Role:      aurakitm.RoleMember,
		Badges:    []string{},
		Interests: []string{},
	}
	if isAdmin {
		profile.Role = aurakitm.RoleAdmin
		profile.Badges = []string{aurakitm.BadgeVerified, aurakitm.BadgeTrendsetter}
	}
	return profile
}

func ListProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := database.C.Order("created_at ASC").Find(&profiles).Error; err != nil {
		return profiles, err
	}
	if err := AttachFollows(profiles); err != nil {
		return profiles, err
	}
	return profiles, nil
}

// AttachFollows fills the derived follower and following sets.
func AttachFollows(profiles []models.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	ids := lo.Map(profiles, func(item models.Profile, _ int) string {
		return item.ID
	})

	var follows []models.Follow
	if err := database.C.
		Where("follower_id IN ? OR following_id IN ?", ids, ids).
		Order("created_at ASC").
		Find(&follows).Error; err != nil {
		return fmt.Errorf("unable to load follows: %v", err)
	}

	byFollower := lo.GroupBy(follows, func(item models.Follow) string { return item.FollowerID })
	byFollowing := lo.GroupBy(follows, func(item models.Follow) string { return item.FollowingID })
	for idx := range profiles {
		profiles[idx].Following = lo.Map(byFollower[profiles[idx].ID], func(item models.Follow, _ int) string {
			return item.FollowingID
		})
		profiles[idx].Followers = lo.Map(byFollowing[profiles[idx].ID], func(item models.Follow, _ int) string {
			return item.FollowerID
		})
	}

	return nil
}

type ProfileEdit struct {
	Username  *string
	Bio       *string
	PhotoURL  *string
	CoverURL  *string
	Interests []string
}

func EditProfile(actor *Actor, edit ProfileEdit) (models.Profile, error) {
	if err := EnsureWritable(actor); err != nil {
		return models.Profile{}, err
	}

	profile := *actor.Profile
	if edit.Username != nil {
		profile.Username = strings.TrimSpace(*edit.Username)
	}
	if edit.Bio != nil {
		profile.Bio = *edit.Bio
	}
	if edit.PhotoURL != nil {
		profile.PhotoURL = *edit.PhotoURL
	}
	if edit.CoverURL != nil {
		profile.CoverURL = *edit.CoverURL
	}
	if edit.Interests != nil {
		profile.Interests = edit.Interests
	}

	if err := database.C.Model(&profile).
		Select("Username", "Bio", "PhotoURL", "CoverURL", "Interests").
		Updates(&profile).Error; err != nil {
		return profile, fmt.Errorf("unable to update profile: %v", err)
	}
	realtime.Notify(aurakitm.TopicProfiles)

	return profile, nil
}

// ToggleBadge adds the badge when the profile lacks it and removes it
// otherwise. It reports whether the profile holds the badge afterwards.
func ToggleBadge(actor *Actor, id, badge string) (bool, error) {
	if err := EnsureAdmin(actor); err != nil {
		return false, err
	}

	var active bool
	if err := database.C.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Where("id = ?", id).First(&profile).Error; err != nil {
			return err
		}
		if lo.Contains(profile.Badges, badge) {
			profile.Badges = lo.Without(profile.Badges, badge)
		} else {
			profile.Badges = append(profile.Badges, badge)
			active = true
		}
		return tx.Model(&profile).Select("Badges").Updates(&profile).Error
	}); err != nil {
		return false, err
	}
	realtime.Notify(aurakitm.TopicProfiles)

	return active, nil
}

func ToggleBan(actor *Actor, id string) (bool, error) {
	if err := EnsureAdmin(actor); err != nil {
		return false, err
	}

	profile, err := GetProfile(id)
	if err != nil {
		return false, err
	}
	profile.IsBanned = !profile.IsBanned
	if err := database.C.Model(&profile).Update("is_banned", profile.IsBanned).Error; err != nil {
		return false, err
	}
	realtime.Notify(aurakitm.TopicProfiles)

	return profile.IsBanned, nil
}

func ProfileDocument(v models.Profile) aurakitm.Profile {
	return aurakitm.Profile{
		ID:        v.ID,
		Email:     v.Email,
		Username:  v.Username,
		Bio:       v.Bio,
		PhotoURL:  v.PhotoURL,
		CoverURL:  v.CoverURL,
		Role:      v.Role,
		Badges:    nonNil(v.Badges),
		Interests: nonNil(v.Interests),
		Followers: nonNil(v.Followers),
		Following: nonNil(v.Following),
		IsBanned:  v.IsBanned,
		CreatedAt: v.CreatedAt,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
