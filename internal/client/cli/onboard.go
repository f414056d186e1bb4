package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mazury/mazury-client/internal/client/onboarding"
	"github.com/mazury/mazury-client/internal/client/services"
	"github.com/mazury/mazury-client/internal/client/wallet"
	"github.com/mazury/mazury-client/internal/common"
)

type nav int

const (
	navNext nav = iota
	navBack
	navQuit
)

// Answers that navigate instead of filling a field.
const (
	cmdBack = ":back"
	cmdQuit = ":quit"
)

// FindUsOptions are the choices offered on the how-did-you-find-us step.
var FindUsOptions = []string{"Twitter", "Friend", "Discord", "Telegram", "Search engine", "Other"}

var contactOptions = []string{"email", "twitter", "telegram", "discord"}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func navOf(s string) (nav, bool) {
	switch s {
	case cmdBack:
		return navBack, true
	case cmdQuit:
		return navQuit, true
	}
	return navNext, false
}

func (a *App) ask(prompt string) (string, nav, error) {
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", navQuit, err
	}
	if n, ok := navOf(s); ok {
		return "", n, nil
	}
	return s, navNext, nil
}

// askDefault keeps cur when the answer is empty.
func (a *App) askDefault(prompt, cur string) (string, nav, error) {
	if cur != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, cur)
	}
	s, n, err := a.ask(prompt)
	if s == "" {
		s = cur
	}
	return s, n, err
}

func (a *App) askYesNo(prompt string, cur *bool) (bool, nav, error) {
	def := "y/n"
	if cur != nil {
		def = map[bool]string{true: "Y/n", false: "y/N"}[*cur]
	}
	s, n, err := a.ask(fmt.Sprintf("%s (%s)", prompt, def))
	if err != nil || n != navNext {
		return false, n, err
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, navNext, nil
	case "":
		return cur != nil && *cur, navNext, nil
	}
	return false, navNext, nil
}

// Onboard runs the onboarding wizard, resuming a saved snapshot when there
// is one. Typing :back returns to the previous step and :quit pauses.
func (a *App) Onboard(ctx context.Context) error {
	if !a.isLoggedIn() {
		return services.ErrNotLoggedIn
	}
	conn, err := a.ensureConnector()
	if err != nil {
		return err
	}

	w := onboarding.NewWizard(ctx, a.snapshots, onboarding.WithWizardLogger(a.log))
	if w.Resumed() {
		fmt.Fprintf(a.out, "Resuming onboarding at %q\n", w.State().ActiveStep.Title())
	} else if u := a.session.CurrentUser(); u != nil {
		if updates := onboarding.ProfileUpdates(u.Profile); len(updates) > 0 {
			if err := w.HandleSetProfile(ctx, updates...); err != nil {
				return err
			}
		}
	}

	var opts []onboarding.RouterOption
	if a.config.CommunicationToConsent {
		opts = append(opts, onboarding.WithCommunicationToConsent())
	}
	submit := onboarding.SubmitterFunc(func(ctx context.Context, d onboarding.Draft) error {
		return a.submitDraft(ctx, conn, d)
	})
	router := onboarding.NewRouter(a.session, submit, opts...)

	fmt.Fprintf(a.out, "Type %s to go back or %s to continue later.\n", cmdBack, cmdQuit)
	for {
		st := w.State()
		if st.ActiveStep == onboarding.StepAllSet {
			if err := w.Finish(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "All set! Your profile is complete.")
			return nil
		}

		fmt.Fprintf(a.out, "\n== %s ==\n", st.ActiveStep.Title())
		n, err := a.promptStep(ctx, w, st)
		if err != nil {
			return err
		}
		switch n {
		case navQuit:
			fmt.Fprintln(a.out, "Onboarding paused. Type 'onboard' to continue.")
			return nil
		case navBack:
			if _, err := router.Back(ctx, w); err != nil {
				return err
			}
			continue
		}

		if _, err := router.Advance(ctx, w); err != nil {
			if errors.Is(err, common.ErrValidation) {
				fmt.Fprintln(a.out, err.Error())
				continue
			}
			return err
		}
	}
}

// submitDraft merges the draft into the cached profile and sends it signed.
func (a *App) submitDraft(ctx context.Context, conn wallet.Connector, d onboarding.Draft) error {
	u := a.session.CurrentUser()
	if u == nil {
		return services.ErrNotLoggedIn
	}
	p := u.Profile
	d.ApplyTo(&p)
	p.Onboarded = true
	_, err := a.session.UpdateProfile(ctx, conn, p)
	return err
}

// promptStep asks the questions of the active step and stores the answers.
func (a *App) promptStep(ctx context.Context, w *onboarding.Wizard, st onboarding.State) (nav, error) {
	d := st.Draft
	var updates []onboarding.Update

	switch st.ActiveStep {
	case onboarding.StepProfileInformation:
		username, n, err := a.askDefault("Username", deref(d.Username))
		if err != nil || n != navNext {
			return n, err
		}
		email, n, err := a.askDefault("Email", deref(d.Email))
		if err != nil || n != navNext {
			return n, err
		}
		bio, err := getMultiline(a.reader, "Bio (optional)", a.out)
		if err != nil {
			return navQuit, err
		}
		updates = append(updates, onboarding.SetUsername(username), onboarding.SetEmail(email))
		if bio != "" {
			updates = append(updates, onboarding.SetBio(bio))
		}

	case onboarding.StepProfileType:
		t, n, err := a.askDefault("Are you a recruiter or a talent?", deref(d.ProfileType))
		if err != nil || n != navNext {
			return n, err
		}
		updates = append(updates, onboarding.SetProfileType(strings.ToLower(t)))

	case onboarding.StepRecruiter:
		company, n, err := a.askDefault("Company", deref(d.Company))
		if err != nil || n != navNext {
			return n, err
		}
		updates = append(updates, onboarding.SetCompany(company))

	case onboarding.StepOpenToProjects:
		open, n, err := a.askYesNo("Are you open to projects?", d.OpenToProjects)
		if err != nil || n != navNext {
			return n, err
		}
		updates = append(updates, onboarding.SetOpenToProjects(open))

	case onboarding.StepLocation:
		loc, n, err := a.askDefault("Location", deref(d.Location))
		if err != nil || n != navNext {
			return n, err
		}
		updates = append(updates, onboarding.SetLocation(loc))

	case onboarding.StepTalent:
		names := make([]string, 0, len(onboarding.Roles))
		for _, r := range onboarding.Roles {
			names = append(names, string(r))
		}
		ans, n, err := a.ask("Roles, comma separated: " + strings.Join(names, ", "))
		if err != nil || n != navNext {
			return n, err
		}
		picked := map[string]bool{}
		for _, s := range strings.Split(ans, ",") {
			if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
				picked[strings.ReplaceAll(s, " ", "_")] = true
			}
		}
		for _, r := range onboarding.Roles {
			updates = append(updates, onboarding.SetRole(r, picked[string(r)]))
			delete(picked, string(r))
		}
		for s := range picked {
			fmt.Fprintf(a.out, "Unknown role %q ignored\n", s)
		}

	case onboarding.StepSocials:
		lines, err := getMetadata(a.reader, "Socials: twitter, github, linkedin, website, telegram, discord", a.out)
		if err != nil {
			return navQuit, err
		}
		if len(lines) > 0 {
			if n, ok := navOf(strings.TrimSpace(lines[0])); ok {
				return n, nil
			}
		}
		for _, line := range lines {
			u, ok := socialUpdate(line)
			if !ok {
				fmt.Fprintf(a.out, "Skipping %q\n", line)
				continue
			}
			updates = append(updates, u)
		}

	case onboarding.StepCommunication:
		c, n, err := a.askDefault("Preferred contact ("+strings.Join(contactOptions, ", ")+")", deref(d.PreferredContact))
		if err != nil || n != navNext {
			return n, err
		}
		updates = append(updates, onboarding.SetPreferredContact(c))

	case onboarding.StepConsent:
		ok, n, err := a.askYesNo("Do you agree to Mazury storing and processing your profile data?", d.DataConsent)
		if err != nil || n != navNext {
			return n, err
		}
		updates = append(updates, onboarding.SetDataConsent(ok))

	case onboarding.StepHowDidYouFindUs:
		return a.promptFindUs(ctx, w)
	}

	if len(updates) == 0 {
		return navNext, nil
	}
	return navNext, w.HandleSetProfile(ctx, updates...)
}

func socialUpdate(line string) (onboarding.Update, bool) {
	name, value, ok := strings.Cut(line, "=")
	if !ok {
		return onboarding.Update{}, false
	}
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "twitter":
		return onboarding.SetTwitter(value), true
	case "github":
		return onboarding.SetGithub(value), true
	case "linkedin":
		return onboarding.SetLinkedin(value), true
	case "website":
		return onboarding.SetWebsite(value), true
	case "telegram":
		return onboarding.SetTelegram(value), true
	case "discord":
		return onboarding.SetDiscord(value), true
	}
	return onboarding.Update{}, false
}

// promptFindUs toggles answers by number until an empty line.
func (a *App) promptFindUs(ctx context.Context, w *onboarding.Wizard) (nav, error) {
	for {
		d := w.State().Draft
		selected := map[string]bool{}
		for _, t := range d.FindUsTokens() {
			selected[t] = true
		}
		for i, opt := range FindUsOptions {
			mark := " "
			if selected[opt] {
				mark = "x"
			}
			fmt.Fprintf(a.out, "  %d. [%s] %s\n", i+1, mark, opt)
		}

		ans, n, err := a.ask("Toggle an option by number, empty line to continue")
		if err != nil || n != navNext {
			return n, err
		}
		if ans == "" {
			return navNext, nil
		}
		i, err := strconv.Atoi(ans)
		if err != nil || i < 1 || i > len(FindUsOptions) {
			fmt.Fprintf(a.out, "Pick a number between 1 and %d\n", len(FindUsOptions))
			continue
		}
		opt := FindUsOptions[i-1]
		if err := w.HandleSetProfile(ctx, onboarding.ToggleFindUs(d, opt, !selected[opt])); err != nil {
			return navQuit, err
		}
	}
}
