package models

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

const (
	BadgeVerified    = "verified"
	BadgeTrendsetter = "trendsetter"
)

// Capabilities are the flags the authorization gate derives from the current
// identity and its profile. Both the service and the kit derive them with
// DeriveCapabilities so the two sides never disagree.
type Capabilities struct {
	IsAuthenticated bool `json:"is_authenticated"`
	IsMember        bool `json:"is_member"`
	CanWrite        bool `json:"can_write"`
	IsAdmin         bool `json:"is_admin"`
	IsBanned        bool `json:"is_banned"`
}

// DeriveCapabilities computes the gate flags. A nil identity means nobody is
// signed in; a nil profile means the identity never got a profile (anonymous).
func DeriveCapabilities(identity *Identity, profile *Profile) Capabilities {
	if identity == nil {
		return Capabilities{}
	}

	caps := Capabilities{IsAuthenticated: true}
	if identity.IsAnonymous || profile == nil {
		return caps
	}

	caps.IsMember = true
	caps.IsBanned = profile.IsBanned
	caps.IsAdmin = profile.Role == RoleAdmin
	caps.CanWrite = !profile.IsBanned
	return caps
}
