// Package onboarding implements the resumable profile-setup wizard: the
// typed profile draft, the wizard state with snapshot persistence, and the
// router that computes each step's successor.
package onboarding

import "fmt"

// StepID names a wizard step.
type StepID string

const (
	StepProfileInformation StepID = "PROFILEINFORMATION"
	StepProfileType        StepID = "PROFILETYPE"
	StepRecruiter          StepID = "RECRUITER"
	StepOpenToProjects     StepID = "OPENTOPROJECTS"
	StepLocation           StepID = "LOCATION"
	StepTalent             StepID = "TALENT"
	StepSocials            StepID = "SOCIALS"
	StepCommunication      StepID = "COMMUNICATION"
	StepConsent            StepID = "CONSENT"
	StepHowDidYouFindUs    StepID = "HOWDIDYOUFINDUS"
	StepAllSet             StepID = "ALLSET"
)

// Steps lists every step in enumeration order.
var Steps = []StepID{
	StepProfileInformation,
	StepProfileType,
	StepRecruiter,
	StepOpenToProjects,
	StepLocation,
	StepTalent,
	StepSocials,
	StepCommunication,
	StepConsent,
	StepHowDidYouFindUs,
	StepAllSet,
}

var stepTitles = map[StepID]string{
	StepProfileInformation: "Profile information",
	StepProfileType:        "Profile type",
	StepRecruiter:          "Recruiter details",
	StepOpenToProjects:     "Open to projects",
	StepLocation:           "Location",
	StepTalent:             "Your roles",
	StepSocials:            "Socials",
	StepCommunication:      "Communication",
	StepConsent:            "Data consent",
	StepHowDidYouFindUs:    "How did you find us",
	StepAllSet:             "All set",
}

func (s StepID) Valid() bool {
	_, ok := stepTitles[s]
	return ok
}

// Title is the human-readable step name.
func (s StepID) Title() string {
	if t, ok := stepTitles[s]; ok {
		return t
	}
	return string(s)
}

// ParseStep converts a step name to a StepID.
func ParseStep(s string) (StepID, error) {
	id := StepID(s)
	if !id.Valid() {
		return "", fmt.Errorf("unknown step %q", s)
	}
	return id, nil
}
