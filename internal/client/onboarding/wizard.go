package onboarding

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mazury/mazury-client/internal/client/tokenstore"
	"github.com/mazury/mazury-client/internal/logging"
)

var (
	// ErrWizardFinished is returned by mutations after Finish.
	ErrWizardFinished = errors.New("onboarding already finished")
	// ErrNotFinished is returned by Finish when the wizard is not on ALLSET.
	ErrNotFinished = errors.New("onboarding is not on the last step")
)

// SnapshotStore persists the wizard state between runs. LoadSnapshot returns
// tokenstore.ErrNoSnapshot when nothing is stored.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, dst any) error
	SaveSnapshot(ctx context.Context, snapshot any) error
	ClearSnapshot(ctx context.Context) error
}

// State is the wizard's position and collected answers.
type State struct {
	ActiveStep  StepID   `json:"active_step"`
	ViewedSteps []StepID `json:"viewed_steps"`
	Draft       Draft    `json:"profile"`
}

func initialState() State {
	return State{
		ActiveStep:  StepProfileInformation,
		ViewedSteps: []StepID{StepProfileInformation},
	}
}

func (s State) clone() State {
	return State{
		ActiveStep:  s.ActiveStep,
		ViewedSteps: slices.Clone(s.ViewedSteps),
		Draft:       s.Draft.Clone(),
	}
}

func dedupeSteps(steps []StepID) ([]StepID, error) {
	out := make([]StepID, 0, len(steps))
	for _, s := range steps {
		if !s.Valid() {
			return nil, fmt.Errorf("unknown step %q", s)
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Wizard holds the onboarding state. All methods are safe for concurrent use.
type Wizard struct {
	store SnapshotStore
	log   logging.Logger

	mu       sync.Mutex
	state    State
	finished bool
	resumed  bool
}

type WizardOption func(*Wizard)

func WithWizardLogger(l logging.Logger) WizardOption {
	return func(w *Wizard) { w.log = l }
}

// NewWizard resumes from the persisted snapshot when there is a usable one
// and otherwise starts on the first step with an empty draft.
func NewWizard(ctx context.Context, store SnapshotStore, opts ...WizardOption) *Wizard {
	w := &Wizard{store: store, log: logging.Nop(), state: initialState()}
	for _, o := range opts {
		o(w)
	}

	var snap State
	err := store.LoadSnapshot(ctx, &snap)
	switch {
	case errors.Is(err, tokenstore.ErrNoSnapshot):
	case err != nil:
		w.log.Warn(ctx, "onboarding snapshot unreadable, starting over", "error", err)
	case !snap.ActiveStep.Valid():
		w.log.Warn(ctx, "onboarding snapshot has unknown step, starting over", "step", snap.ActiveStep)
	default:
		viewed, verr := dedupeSteps(snap.ViewedSteps)
		if verr != nil {
			w.log.Warn(ctx, "onboarding snapshot has unknown viewed step, starting over", "error", verr)
			break
		}
		snap.ViewedSteps = viewed
		w.state = snap
		w.resumed = true
		w.log.Debug(ctx, "onboarding resumed", "step", snap.ActiveStep)
	}
	return w
}

// Resumed reports whether the wizard was restored from a snapshot.
func (w *Wizard) Resumed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resumed
}

// State returns a copy of the current state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

func (w *Wizard) Finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finished
}

func (w *Wizard) save(ctx context.Context) error {
	if err := w.store.SaveSnapshot(ctx, w.state); err != nil {
		return fmt.Errorf("save onboarding snapshot: %w", err)
	}
	return nil
}

// HandleSetProfile merges updates into the draft, last write wins per field,
// and persists the result. No validation happens here.
func (w *Wizard) HandleSetProfile(ctx context.Context, updates ...Update) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return ErrWizardFinished
	}
	for _, u := range updates {
		u.Apply(&w.state.Draft)
	}
	if w.state.ActiveStep == StepAllSet {
		return nil
	}
	return w.save(ctx)
}

// HandleStep moves to next. The persisted snapshot is cleared first. A step
// seen for the first time is appended to the viewed steps; returning to an
// already viewed step removes the step being left from them. The new state is
// persisted unless next is ALLSET. If that save fails the move is rolled back
// and the previous state is written again on a best-effort basis.
func (w *Wizard) HandleStep(ctx context.Context, next StepID) error {
	if !next.Valid() {
		return fmt.Errorf("unknown step %q", next)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return ErrWizardFinished
	}
	if err := w.store.ClearSnapshot(ctx); err != nil {
		return fmt.Errorf("clear onboarding snapshot: %w", err)
	}

	prev := w.state.clone()
	leaving := w.state.ActiveStep
	w.state.ActiveStep = next
	switch {
	case !slices.Contains(w.state.ViewedSteps, next):
		w.state.ViewedSteps = append(w.state.ViewedSteps, next)
	case leaving != next:
		w.state.ViewedSteps = slices.DeleteFunc(w.state.ViewedSteps, func(s StepID) bool { return s == leaving })
	}

	if next == StepAllSet {
		return nil
	}
	if err := w.save(ctx); err != nil {
		w.state = prev
		if rerr := w.save(ctx); rerr != nil {
			w.log.Warn(ctx, "onboarding snapshot not restored", "error", rerr)
		}
		return err
	}
	return nil
}

// HandleViewedSteps replaces the viewed steps, dropping duplicates.
func (w *Wizard) HandleViewedSteps(ctx context.Context, steps []StepID) error {
	viewed, err := dedupeSteps(steps)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return ErrWizardFinished
	}
	w.state.ViewedSteps = viewed
	if w.state.ActiveStep == StepAllSet {
		return nil
	}
	return w.save(ctx)
}

// Finish completes the wizard on ALLSET. The snapshot is cleared and the
// wizard accepts no further mutations.
func (w *Wizard) Finish(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return nil
	}
	if w.state.ActiveStep != StepAllSet {
		return ErrNotFinished
	}
	if err := w.store.ClearSnapshot(ctx); err != nil {
		return fmt.Errorf("clear onboarding snapshot: %w", err)
	}
	w.finished = true
	return nil
}

// Reset discards the draft and the snapshot and starts from the first step.
func (w *Wizard) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.ClearSnapshot(ctx); err != nil {
		return fmt.Errorf("clear onboarding snapshot: %w", err)
	}
	w.state = initialState()
	w.finished = false
	w.resumed = false
	return nil
}
