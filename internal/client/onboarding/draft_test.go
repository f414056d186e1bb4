package onboarding

import (
	"testing"

	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_LastWriteWins(t *testing.T) {
	var d Draft
	SetLocation("Berlin").Apply(&d)
	SetLocation("Lisbon").Apply(&d)

	require.NotNil(t, d.Location)
	assert.Equal(t, "Lisbon", *d.Location)
	assert.Nil(t, d.Company, "untouched fields stay unset")
}

func TestUpdate_CarriesField(t *testing.T) {
	assert.Equal(t, FieldLocation, SetLocation("x").Field)
	assert.Equal(t, Field("role_community_manager"), SetRole(RoleCommunityManager, true).Field)
	assert.Equal(t, FieldHowDidYouFindUs, ToggleFindUs(Draft{}, "Twitter", true).Field)

	var d Draft
	Update{}.Apply(&d)
	assert.Equal(t, Draft{}, d)
}

func TestNormalizeFindUs(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{";;", ""},
		{"Twitter", "Twitter"},
		{";Twitter;", "Twitter"},
		{" Twitter ;  Other", "Twitter;Other"},
		{"Twitter;;Other;Twitter", "Twitter;Other"},
		{"Other;Twitter", "Other;Twitter"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFindUs(tt.in))
		})
	}
}

func TestToggleFindUs_TwitterOtherUncheckTwitter(t *testing.T) {
	var d Draft
	ToggleFindUs(d, "Twitter", true).Apply(&d)
	ToggleFindUs(d, "Other", true).Apply(&d)
	assert.Equal(t, "Twitter;Other", *d.HowDidYouFindUs)

	ToggleFindUs(d, "Twitter", false).Apply(&d)
	assert.Equal(t, "Other", *d.HowDidYouFindUs)

	ToggleFindUs(d, "Other", true).Apply(&d)
	assert.Equal(t, "Other", *d.HowDidYouFindUs, "checking twice does not duplicate")

	ToggleFindUs(d, "Other", false).Apply(&d)
	assert.Equal(t, "", *d.HowDidYouFindUs)
	assert.Empty(t, d.FindUsTokens())
}

func TestRoles(t *testing.T) {
	var d Draft
	assert.False(t, d.HasAnyRole())

	SetRole(RoleTrader, true).Apply(&d)
	assert.True(t, d.HasRole(RoleTrader))
	assert.True(t, d.HasAnyRole())

	SetRole(RoleTrader, false).Apply(&d)
	assert.False(t, d.HasAnyRole())
	require.NotNil(t, d.RoleTrader)
}

func TestClone_SharesNoPointers(t *testing.T) {
	var d Draft
	SetUsername("ada").Apply(&d)
	SetDataConsent(true).Apply(&d)

	c := d.Clone()
	assert.Equal(t, d, c)

	*c.Username = "mallory"
	*c.DataConsent = false
	assert.Equal(t, "ada", *d.Username)
	assert.True(t, *d.DataConsent)
}

func TestApplyTo_OnlySetFields(t *testing.T) {
	p := models.Profile{Address: "0xabc", Username: "old", Bio: "kept"}

	var d Draft
	SetUsername("new").Apply(&d)
	SetProfileType(models.ProfileTypeTalent).Apply(&d)
	SetRole(RoleDeveloper, true).Apply(&d)
	SetHowDidYouFindUs("Twitter;;Other").Apply(&d)
	d.ApplyTo(&p)

	assert.Equal(t, models.Profile{
		Address:         "0xabc",
		Username:        "new",
		Bio:             "kept",
		ProfileType:     models.ProfileTypeTalent,
		RoleDeveloper:   true,
		HowDidYouFindUs: "Twitter;Other",
	}, p)
}

func TestProfileUpdates(t *testing.T) {
	updates := ProfileUpdates(models.Profile{Username: "ada", Email: "ada@example.com"})
	require.Len(t, updates, 2)

	d := draftWith(updates...)
	require.NotNil(t, d.Username)
	require.NotNil(t, d.Email)
	assert.Equal(t, "ada", *d.Username)
	assert.Nil(t, d.Bio)
	assert.Nil(t, d.ProfileType)
}
