// Package models holds the client-side data shapes exchanged with the
// Mazury backend and cached locally.
package models

// Profile types.
const (
	ProfileTypeRecruiter = "recruiter"
	ProfileTypeTalent    = "talent"
)

// Profile mirrors the backend profile object.
type Profile struct {
	Address         string `json:"address"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Avatar          string `json:"avatar,omitempty"`
	ProfileType     string `json:"profile_type,omitempty"`
	OpenToProjects  bool   `json:"open_to_projects,omitempty"`
	Location        string `json:"location,omitempty"`
	Company         string `json:"company,omitempty"`
	HowDidYouFindUs string `json:"how_did_you_find_us,omitempty"`

	RoleDeveloper        bool `json:"role_developer,omitempty"`
	RoleDesigner         bool `json:"role_designer,omitempty"`
	RoleTrader           bool `json:"role_trader,omitempty"`
	RoleResearcher       bool `json:"role_researcher,omitempty"`
	RoleCreator          bool `json:"role_creator,omitempty"`
	RoleCommunityManager bool `json:"role_community_manager,omitempty"`
	RoleInvestor         bool `json:"role_investor,omitempty"`

	Twitter          string `json:"twitter,omitempty"`
	Github           string `json:"github,omitempty"`
	Linkedin         string `json:"linkedin,omitempty"`
	Website          string `json:"website,omitempty"`
	Telegram         string `json:"telegram,omitempty"`
	Discord          string `json:"discord,omitempty"`
	PreferredContact string `json:"preferred_contact,omitempty"`
	DataConsent      bool   `json:"data_consent,omitempty"`

	Onboarded bool `json:"onboarded,omitempty"`
}

// Roles lists the names of the role flags set on p.
func (p *Profile) Roles() []string {
	var roles []string
	for _, r := range []struct {
		name string
		set  bool
	}{
		{"developer", p.RoleDeveloper},
		{"designer", p.RoleDesigner},
		{"trader", p.RoleTrader},
		{"researcher", p.RoleResearcher},
		{"creator", p.RoleCreator},
		{"community manager", p.RoleCommunityManager},
		{"investor", p.RoleInvestor},
	} {
		if r.set {
			roles = append(roles, r.name)
		}
	}
	return roles
}
