package models

import (
	"time"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"gorm.io/datatypes"
)

type Profile struct {
	BaseModel

	Email     string                      `json:"email" gorm:"index;size:320"`
	Username  string                      `json:"username"`
	Bio       string                      `json:"bio"`
	PhotoURL  string                      `json:"photo_url"`
	CoverURL  string                      `json:"cover_url"`
	Role      string                      `json:"role" gorm:"index;size:16"`
	Badges    datatypes.JSONSlice[string] `json:"badges"`
	Interests datatypes.JSONSlice[string] `json:"interests"`
	IsBanned  bool                        `json:"is_banned"`

	Followers []string `json:"followers" gorm:"-"`
	Following []string `json:"following" gorm:"-"`
}

func (v Profile) IsAdmin() bool {
	return v.Role == aurakitm.RoleAdmin
}

// Follow is the single canonical record of a follow relationship. Follower
// and following sets of a profile are both derived from these rows.
type Follow struct {
	FollowerID  string    `json:"follower_id" gorm:"primaryKey;size:64"`
	FollowingID string    `json:"following_id" gorm:"primaryKey;size:64;index"`
	CreatedAt   time.Time `json:"created_at"`
}
