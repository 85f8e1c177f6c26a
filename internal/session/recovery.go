package session

import (
	"context"
	"fmt"
	"time"

	"github.com/voxley/voxley/internal/interview"
)

// DefaultTTL is how long an untouched session stays resumable.
const DefaultTTL = 24 * time.Hour

// Manager decides whether an interrupted session can be resumed and
// persists snapshots on behalf of the orchestrator. It implements
// interview.Recoverer.
type Manager struct {
	store interview.SessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewManager creates a recovery manager over the given store. A zero
// ttl means DefaultTTL.
func NewManager(store interview.SessionStore, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// SaveState upserts the snapshot. Idempotent; failures are returned for
// the caller to log and retry on the next checkpoint.
func (m *Manager) SaveState(ctx context.Context, sessionID string, state *interview.SessionState) error {
	if err := m.store.Put(ctx, sessionID, state); err != nil {
		return fmt.Errorf("saving session %s: %w", sessionID, err)
	}
	return nil
}

// LoadState loads a snapshot and judges whether it is resumable. A
// missing record, missing or mismatched step/artifact pointers, or a
// snapshot older than the TTL all yield IsRecoverable=false with a
// reason; the caller's policy is then to start fresh at the first
// artifact.
func (m *Manager) LoadState(ctx context.Context, sessionID string) (interview.RecoveryResult, error) {
	state, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return interview.RecoveryResult{}, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	if state == nil {
		return interview.RecoveryResult{Reason: "session not found"}, nil
	}
	if state.CurrentStep == "" || state.CurrentArtifact == "" {
		return interview.RecoveryResult{Reason: "session corrupt: missing current step or artifact"}, nil
	}
	if owner, err := interview.StepOf(state.CurrentArtifact); err != nil || owner != state.CurrentStep {
		return interview.RecoveryResult{Reason: "session corrupt: current artifact does not belong to current step"}, nil
	}
	if m.now().UTC().Sub(state.UpdatedAt) > m.ttl {
		return interview.RecoveryResult{Reason: fmt.Sprintf("session expired: last updated %s ago", m.now().UTC().Sub(state.UpdatedAt).Round(time.Minute))}, nil
	}
	return interview.RecoveryResult{State: state, IsRecoverable: true}, nil
}

// IntegrityReport is the result of a pre-resume sanity check, separate
// from simple staleness.
type IntegrityReport struct {
	IsValid         bool     `json:"is_valid"`
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// ValidateIntegrity checks that the persisted pointers are mutually
// consistent: the current artifact must belong to the current step, and
// a session past its step's first artifact must carry conversation
// history.
func (m *Manager) ValidateIntegrity(ctx context.Context, sessionID string) (IntegrityReport, error) {
	state, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return IntegrityReport{}, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	if state == nil {
		return IntegrityReport{
			Issues:          []string{"session not found"},
			Recommendations: []string{"start a new session"},
		}, nil
	}

	report := IntegrityReport{IsValid: true}

	owner, err := interview.StepOf(state.CurrentArtifact)
	if err != nil {
		report.IsValid = false
		report.Issues = append(report.Issues, fmt.Sprintf("unknown current artifact %q", state.CurrentArtifact))
		report.Recommendations = append(report.Recommendations, "start a new session")
	} else if owner != state.CurrentStep {
		report.IsValid = false
		report.Issues = append(report.Issues,
			fmt.Sprintf("artifact %s belongs to %s, not current step %s", state.CurrentArtifact, owner, state.CurrentStep))
		report.Recommendations = append(report.Recommendations, "resume from the owning step or start fresh")
	}

	if err == nil && owner == state.CurrentStep {
		artifacts, _ := interview.ArtifactsOf(state.CurrentStep)
		if len(artifacts) > 0 && state.CurrentArtifact != artifacts[0] && len(state.History) == 0 {
			report.IsValid = false
			report.Issues = append(report.Issues, "session is past its step's first artifact but has no conversation history")
			report.Recommendations = append(report.Recommendations, "start a new session")
		}
	}

	return report, nil
}
