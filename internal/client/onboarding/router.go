package onboarding

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/mazury/mazury-client/internal/common"
)

// ErrLastStep is returned by Next on ALLSET.
var ErrLastStep = errors.New("no step after ALLSET")

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError reports why the active step cannot be left. It matches
// common.ErrValidation.
type ValidationError struct {
	Step   StepID
	Field  Field
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Step.Title(), e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Step.Title(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

// Validator checks a field value against the backend.
type Validator interface {
	Validate(ctx context.Context, field, value string) (bool, error)
}

// Submitter sends the finished draft to the backend.
type Submitter interface {
	Submit(ctx context.Context, d Draft) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, d Draft) error

func (f SubmitterFunc) Submit(ctx context.Context, d Draft) error { return f(ctx, d) }

// Router computes step successors. Each step's gate must pass before its
// successor is returned.
type Router struct {
	validator Validator
	submitter Submitter

	communicationToConsent bool
}

type RouterOption func(*Router)

// WithCommunicationToConsent routes COMMUNICATION to CONSENT instead of back
// to PROFILETYPE.
func WithCommunicationToConsent() RouterOption {
	return func(r *Router) { r.communicationToConsent = true }
}

// NewRouter returns a Router. A nil validator skips uniqueness checks and a
// nil submitter skips the final submission.
func NewRouter(v Validator, s Submitter, opts ...RouterOption) *Router {
	r := &Router{validator: v, submitter: s}
	for _, o := range opts {
		o(r)
	}
	return r
}

func invalid(step StepID, field Field, reason string) error {
	return &ValidationError{Step: step, Field: field, Reason: reason}
}

// Next validates d for step and returns the step that follows it.
func (r *Router) Next(ctx context.Context, step StepID, d Draft) (StepID, error) {
	switch step {
	case StepProfileInformation:
		if err := r.checkProfileInformation(ctx, d); err != nil {
			return step, err
		}
		return StepProfileType, nil

	case StepProfileType:
		switch str(d.ProfileType) {
		case models.ProfileTypeRecruiter:
			return StepRecruiter, nil
		case models.ProfileTypeTalent:
			return StepOpenToProjects, nil
		}
		return step, invalid(step, FieldProfileType, "must be recruiter or talent")

	case StepRecruiter:
		if strings.TrimSpace(str(d.Company)) == "" {
			return step, invalid(step, FieldCompany, "is required")
		}
		return StepSocials, nil

	case StepOpenToProjects:
		return StepLocation, nil

	case StepLocation:
		return StepTalent, nil

	case StepTalent:
		if !d.HasAnyRole() {
			return step, invalid(step, "", "pick at least one role")
		}
		return StepSocials, nil

	case StepSocials:
		return StepCommunication, nil

	case StepCommunication:
		if r.communicationToConsent {
			return StepConsent, nil
		}
		return StepProfileType, nil

	case StepConsent:
		if !flag(d.DataConsent) {
			return step, invalid(step, FieldDataConsent, "must be accepted")
		}
		return StepHowDidYouFindUs, nil

	case StepHowDidYouFindUs:
		if r.submitter != nil {
			if err := r.submitter.Submit(ctx, d); err != nil {
				return step, fmt.Errorf("submit profile: %w", err)
			}
		}
		return StepAllSet, nil

	case StepAllSet:
		return step, ErrLastStep
	}
	return step, fmt.Errorf("unknown step %q", step)
}

func (r *Router) checkProfileInformation(ctx context.Context, d Draft) error {
	step := StepProfileInformation

	username := strings.TrimSpace(str(d.Username))
	if username == "" {
		return invalid(step, FieldUsername, "is required")
	}
	email := strings.TrimSpace(str(d.Email))
	if !emailRe.MatchString(email) {
		return invalid(step, FieldEmail, "is not a valid address")
	}

	if r.validator == nil {
		return nil
	}
	for _, c := range []struct {
		field Field
		value string
	}{
		{FieldUsername, username},
		{FieldEmail, email},
	} {
		ok, err := r.validator.Validate(ctx, string(c.field), c.value)
		if err != nil {
			return fmt.Errorf("validate %s: %w", c.field, err)
		}
		if !ok {
			return invalid(step, c.field, "is already taken")
		}
	}
	return nil
}

// Previous returns the step a back action leads to. The first and last
// steps return themselves.
func (r *Router) Previous(step StepID, d Draft) StepID {
	switch step {
	case StepProfileType:
		return StepProfileInformation
	case StepRecruiter, StepOpenToProjects:
		return StepProfileType
	case StepLocation:
		return StepOpenToProjects
	case StepTalent:
		return StepLocation
	case StepSocials:
		if str(d.ProfileType) == models.ProfileTypeRecruiter {
			return StepRecruiter
		}
		return StepTalent
	case StepCommunication:
		return StepSocials
	case StepConsent:
		return StepCommunication
	case StepHowDidYouFindUs:
		return StepConsent
	}
	return step
}

// Advance validates the wizard's active step and moves it forward. On a
// failed gate the active step is left unchanged.
func (r *Router) Advance(ctx context.Context, w *Wizard) (StepID, error) {
	st := w.State()
	next, err := r.Next(ctx, st.ActiveStep, st.Draft)
	if err != nil {
		return st.ActiveStep, err
	}
	if err := w.HandleStep(ctx, next); err != nil {
		return st.ActiveStep, err
	}
	return next, nil
}

// Back moves the wizard to the previous step.
func (r *Router) Back(ctx context.Context, w *Wizard) (StepID, error) {
	st := w.State()
	prev := r.Previous(st.ActiveStep, st.Draft)
	if prev == st.ActiveStep {
		return prev, nil
	}
	if err := w.HandleStep(ctx, prev); err != nil {
		return st.ActiveStep, err
	}
	return prev, nil
}
