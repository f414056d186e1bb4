package models

// SessionUser is the cached snapshot of the authenticated identity.
type SessionUser struct {
	Profile
	Onboarded bool `json:"onboarded"`
}

// NewSessionUser derives a SessionUser from a fetched profile. A profile
// counts as onboarded when the backend says so, or when it already carries a
// username and a profile type.
func NewSessionUser(p Profile) *SessionUser {
	return &SessionUser{
		Profile:   p,
		Onboarded: p.Onboarded || (p.Username != "" && p.ProfileType != ""),
	}
}

// Tokens is the credential pair returned by a successful login.
type Tokens struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh"`
}
