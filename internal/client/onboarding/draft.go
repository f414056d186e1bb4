package onboarding

import (
	"strings"

	"github.com/mazury/mazury-client/internal/client/models"
)

// Field is the wire name of a draft field.
type Field string

const (
	FieldUsername         Field = "username"
	FieldEmail            Field = "email"
	FieldBio              Field = "bio"
	FieldAvatar           Field = "avatar"
	FieldProfileType      Field = "profile_type"
	FieldOpenToProjects   Field = "open_to_projects"
	FieldLocation         Field = "location"
	FieldCompany          Field = "company"
	FieldTwitter          Field = "twitter"
	FieldGithub           Field = "github"
	FieldLinkedin         Field = "linkedin"
	FieldWebsite          Field = "website"
	FieldTelegram         Field = "telegram"
	FieldDiscord          Field = "discord"
	FieldPreferredContact Field = "preferred_contact"
	FieldDataConsent      Field = "data_consent"
	FieldHowDidYouFindUs  Field = "how_did_you_find_us"
)

// Role is one of the talent role flags.
type Role string

const (
	RoleDeveloper        Role = "developer"
	RoleDesigner         Role = "designer"
	RoleTrader           Role = "trader"
	RoleResearcher       Role = "researcher"
	RoleCreator          Role = "creator"
	RoleCommunityManager Role = "community_manager"
	RoleInvestor         Role = "investor"
)

// Roles lists the role flags in display order.
var Roles = []Role{RoleDeveloper, RoleDesigner, RoleTrader, RoleResearcher, RoleCreator, RoleCommunityManager, RoleInvestor}

// Field returns the draft field backing the role flag.
func (r Role) Field() Field { return Field("role_" + string(r)) }

// Draft is the partial profile collected by the wizard. A nil field has not
// been set yet.
type Draft struct {
	Username       *string `json:"username,omitempty"`
	Email          *string `json:"email,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Avatar         *string `json:"avatar,omitempty"`
	ProfileType    *string `json:"profile_type,omitempty"`
	OpenToProjects *bool   `json:"open_to_projects,omitempty"`
	Location       *string `json:"location,omitempty"`
	Company        *string `json:"company,omitempty"`

	RoleDeveloper        *bool `json:"role_developer,omitempty"`
	RoleDesigner         *bool `json:"role_designer,omitempty"`
	RoleTrader           *bool `json:"role_trader,omitempty"`
	RoleResearcher       *bool `json:"role_researcher,omitempty"`
	RoleCreator          *bool `json:"role_creator,omitempty"`
	RoleCommunityManager *bool `json:"role_community_manager,omitempty"`
	RoleInvestor         *bool `json:"role_investor,omitempty"`

	Twitter          *string `json:"twitter,omitempty"`
	Github           *string `json:"github,omitempty"`
	Linkedin         *string `json:"linkedin,omitempty"`
	Website          *string `json:"website,omitempty"`
	Telegram         *string `json:"telegram,omitempty"`
	Discord          *string `json:"discord,omitempty"`
	PreferredContact *string `json:"preferred_contact,omitempty"`
	DataConsent      *bool   `json:"data_consent,omitempty"`
	HowDidYouFindUs  *string `json:"how_did_you_find_us,omitempty"`
}

// Update is a single typed field assignment. Build it with the Set*
// constructors.
type Update struct {
	Field Field
	apply func(*Draft)
}

// Apply writes the update into d. A zero Update is a no-op.
func (u Update) Apply(d *Draft) {
	if u.apply != nil {
		u.apply(d)
	}
}

func ptr[T any](v T) *T { return &v }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return ptr(*p)
}

func stringUpdate(f Field, v string, dst func(*Draft) **string) Update {
	return Update{Field: f, apply: func(d *Draft) { *dst(d) = ptr(v) }}
}

func boolUpdate(f Field, v bool, dst func(*Draft) **bool) Update {
	return Update{Field: f, apply: func(d *Draft) { *dst(d) = ptr(v) }}
}

func SetUsername(v string) Update {
	return stringUpdate(FieldUsername, v, func(d *Draft) **string { return &d.Username })
}

func SetEmail(v string) Update {
	return stringUpdate(FieldEmail, v, func(d *Draft) **string { return &d.Email })
}

func SetBio(v string) Update {
	return stringUpdate(FieldBio, v, func(d *Draft) **string { return &d.Bio })
}

func SetAvatar(v string) Update {
	return stringUpdate(FieldAvatar, v, func(d *Draft) **string { return &d.Avatar })
}

// SetProfileType accepts models.ProfileTypeRecruiter, models.ProfileTypeTalent
// or "".
func SetProfileType(v string) Update {
	return stringUpdate(FieldProfileType, v, func(d *Draft) **string { return &d.ProfileType })
}

func SetOpenToProjects(v bool) Update {
	return boolUpdate(FieldOpenToProjects, v, func(d *Draft) **bool { return &d.OpenToProjects })
}

func SetLocation(v string) Update {
	return stringUpdate(FieldLocation, v, func(d *Draft) **string { return &d.Location })
}

func SetCompany(v string) Update {
	return stringUpdate(FieldCompany, v, func(d *Draft) **string { return &d.Company })
}

func SetRole(r Role, on bool) Update {
	return boolUpdate(r.Field(), on, func(d *Draft) **bool { return d.rolePtr(r) })
}

func SetTwitter(v string) Update {
	return stringUpdate(FieldTwitter, v, func(d *Draft) **string { return &d.Twitter })
}

func SetGithub(v string) Update {
	return stringUpdate(FieldGithub, v, func(d *Draft) **string { return &d.Github })
}

func SetLinkedin(v string) Update {
	return stringUpdate(FieldLinkedin, v, func(d *Draft) **string { return &d.Linkedin })
}

func SetWebsite(v string) Update {
	return stringUpdate(FieldWebsite, v, func(d *Draft) **string { return &d.Website })
}

func SetTelegram(v string) Update {
	return stringUpdate(FieldTelegram, v, func(d *Draft) **string { return &d.Telegram })
}

func SetDiscord(v string) Update {
	return stringUpdate(FieldDiscord, v, func(d *Draft) **string { return &d.Discord })
}

func SetPreferredContact(v string) Update {
	return stringUpdate(FieldPreferredContact, v, func(d *Draft) **string { return &d.PreferredContact })
}

func SetDataConsent(v bool) Update {
	return boolUpdate(FieldDataConsent, v, func(d *Draft) **bool { return &d.DataConsent })
}

// SetHowDidYouFindUs stores v after normalization.
func SetHowDidYouFindUs(v string) Update {
	return stringUpdate(FieldHowDidYouFindUs, NormalizeFindUs(v), func(d *Draft) **string { return &d.HowDidYouFindUs })
}

const findUsSep = ";"

func splitFindUs(v string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range strings.Split(v, findUsSep) {
		tok = strings.TrimSpace(tok)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// NormalizeFindUs trims every token, drops empty and repeated ones and keeps
// first-occurrence order.
func NormalizeFindUs(v string) string {
	return strings.Join(splitFindUs(v), findUsSep)
}

// FindUsTokens returns the selected answers of d.
func (d Draft) FindUsTokens() []string {
	if d.HowDidYouFindUs == nil {
		return nil
	}
	return splitFindUs(*d.HowDidYouFindUs)
}

// ToggleFindUs returns the update that checks or unchecks token in the
// how-did-you-find-us multi-select of d.
func ToggleFindUs(d Draft, token string, checked bool) Update {
	token = strings.TrimSpace(token)
	var out []string
	for _, t := range d.FindUsTokens() {
		if t != token {
			out = append(out, t)
		}
	}
	if checked && token != "" {
		out = append(out, token)
	}
	return SetHowDidYouFindUs(strings.Join(out, findUsSep))
}

func (d *Draft) rolePtr(r Role) **bool {
	switch r {
	case RoleDeveloper:
		return &d.RoleDeveloper
	case RoleDesigner:
		return &d.RoleDesigner
	case RoleTrader:
		return &d.RoleTrader
	case RoleResearcher:
		return &d.RoleResearcher
	case RoleCreator:
		return &d.RoleCreator
	case RoleCommunityManager:
		return &d.RoleCommunityManager
	case RoleInvestor:
		return &d.RoleInvestor
	}
	var sink *bool
	return &sink
}

// HasRole reports whether r is set in d.
func (d Draft) HasRole(r Role) bool {
	p := *d.rolePtr(r)
	return p != nil && *p
}

// HasAnyRole reports whether at least one role flag is set.
func (d Draft) HasAnyRole() bool {
	for _, r := range Roles {
		if d.HasRole(r) {
			return true
		}
	}
	return false
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func flag(p *bool) bool {
	return p != nil && *p
}

// Clone returns a copy of d that shares no pointers with it.
func (d Draft) Clone() Draft {
	return Draft{
		Username:             clonePtr(d.Username),
		Email:                clonePtr(d.Email),
		Bio:                  clonePtr(d.Bio),
		Avatar:               clonePtr(d.Avatar),
		ProfileType:          clonePtr(d.ProfileType),
		OpenToProjects:       clonePtr(d.OpenToProjects),
		Location:             clonePtr(d.Location),
		Company:              clonePtr(d.Company),
		RoleDeveloper:        clonePtr(d.RoleDeveloper),
		RoleDesigner:         clonePtr(d.RoleDesigner),
		RoleTrader:           clonePtr(d.RoleTrader),
		RoleResearcher:       clonePtr(d.RoleResearcher),
		RoleCreator:          clonePtr(d.RoleCreator),
		RoleCommunityManager: clonePtr(d.RoleCommunityManager),
		RoleInvestor:         clonePtr(d.RoleInvestor),
		Twitter:              clonePtr(d.Twitter),
		Github:               clonePtr(d.Github),
		Linkedin:             clonePtr(d.Linkedin),
		Website:              clonePtr(d.Website),
		Telegram:             clonePtr(d.Telegram),
		Discord:              clonePtr(d.Discord),
		PreferredContact:     clonePtr(d.PreferredContact),
		DataConsent:          clonePtr(d.DataConsent),
		HowDidYouFindUs:      clonePtr(d.HowDidYouFindUs),
	}
}

// ApplyTo copies every set field of d onto p.
func (d Draft) ApplyTo(p *models.Profile) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}

	setStr(&p.Username, d.Username)
	setStr(&p.Email, d.Email)
	setStr(&p.Bio, d.Bio)
	setStr(&p.Avatar, d.Avatar)
	setStr(&p.ProfileType, d.ProfileType)
	setBool(&p.OpenToProjects, d.OpenToProjects)
	setStr(&p.Location, d.Location)
	setStr(&p.Company, d.Company)
	setBool(&p.RoleDeveloper, d.RoleDeveloper)
	setBool(&p.RoleDesigner, d.RoleDesigner)
	setBool(&p.RoleTrader, d.RoleTrader)
	setBool(&p.RoleResearcher, d.RoleResearcher)
	setBool(&p.RoleCreator, d.RoleCreator)
	setBool(&p.RoleCommunityManager, d.RoleCommunityManager)
	setBool(&p.RoleInvestor, d.RoleInvestor)
	setStr(&p.Twitter, d.Twitter)
	setStr(&p.Github, d.Github)
	setStr(&p.Linkedin, d.Linkedin)
	setStr(&p.Website, d.Website)
	setStr(&p.Telegram, d.Telegram)
	setStr(&p.Discord, d.Discord)
	setStr(&p.PreferredContact, d.PreferredContact)
	setBool(&p.DataConsent, d.DataConsent)
	setStr(&p.HowDidYouFindUs, d.HowDidYouFindUs)
}

// ProfileUpdates returns updates that seed a draft with the non-empty
// fields of p, so that a returning user starts from what the backend already
// knows.
func ProfileUpdates(p models.Profile) []Update {
	var out []Update
	for _, u := range []struct {
		set bool
		u   Update
	}{
		{p.Username != "", SetUsername(p.Username)},
		{p.Email != "", SetEmail(p.Email)},
		{p.Bio != "", SetBio(p.Bio)},
		{p.Avatar != "", SetAvatar(p.Avatar)},
		{p.ProfileType != "", SetProfileType(p.ProfileType)},
		{p.Location != "", SetLocation(p.Location)},
		{p.Company != "", SetCompany(p.Company)},
		{p.Twitter != "", SetTwitter(p.Twitter)},
		{p.Github != "", SetGithub(p.Github)},
		{p.Linkedin != "", SetLinkedin(p.Linkedin)},
		{p.Website != "", SetWebsite(p.Website)},
		{p.Telegram != "", SetTelegram(p.Telegram)},
		{p.Discord != "", SetDiscord(p.Discord)},
		{p.PreferredContact != "", SetPreferredContact(p.PreferredContact)},
		{p.HowDidYouFindUs != "", SetHowDidYouFindUs(p.HowDidYouFindUs)},
	} {
		if u.set {
			out = append(out, u.u)
		}
	}
	return out
}
