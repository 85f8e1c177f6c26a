// Package api exposes the interview engine over HTTP: REST routes for
// session lifecycle and progress, plus a WebSocket voice endpoint.
package api

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxley/voxley/internal/interview"
	"github.com/voxley/voxley/internal/research"
	"github.com/voxley/voxley/internal/session"
)

// ResearchSaver persists generated analysis documents.
// *research.Store satisfies it.
type ResearchSaver interface {
	Save(ctx context.Context, doc research.Document) error
}

// SessionLister enumerates persisted sessions. *session.Store satisfies
// it; in-memory stores do not and the list endpoint degrades to the
// live set.
type SessionLister interface {
	ListSessions(ctx context.Context, limit int) ([]session.Summary, error)
}

// Service owns the live orchestrators, one per active session, and the
// shared collaborators they are built from. All sessions share one
// store; each gets its own checkpoint timer.
type Service struct {
	mu   sync.Mutex
	live map[string]*liveSession

	store              interview.SessionStore
	recovery           interview.Recoverer
	researchSource     interview.ResearchSource
	generator          research.Generator
	saver              ResearchSaver
	checkpointInterval time.Duration
}

type liveSession struct {
	orch         *interview.Orchestrator
	checkpointer *session.Checkpointer
}

// Options configures a Service. Store and Recovery are required;
// research collaborators are optional and their absence degrades
// questions to the generic no-research path.
type Options struct {
	Store              interview.SessionStore
	Recovery           interview.Recoverer
	Research           interview.ResearchSource
	Generator          research.Generator
	Saver              ResearchSaver
	CheckpointInterval time.Duration
}

// NewService wires the service.
func NewService(opts Options) *Service {
	interval := opts.CheckpointInterval
	if interval <= 0 {
		interval = session.DefaultCheckpointInterval
	}
	return &Service{
		live:               map[string]*liveSession{},
		store:              opts.Store,
		recovery:           opts.Recovery,
		researchSource:     opts.Research,
		generator:          opts.Generator,
		saver:              opts.Saver,
		checkpointInterval: interval,
	}
}

// CreateSession starts a brand-new interview. When a company URL and a
// research generator are configured, the analysis document is produced
// up front; a research failure is logged and the interview proceeds
// without it.
func (s *Service) CreateSession(ctx context.Context, companyURL string) (string, interview.Question, error) {
	sessionID := uuid.New().String()

	if companyURL != "" && s.generator != nil && s.saver != nil {
		analysis, err := s.generator.Generate(ctx, companyURL)
		if err != nil {
			log.Printf("api: research generation for %s: %v (continuing without research)", sessionID, err)
		} else if err := s.saver.Save(ctx, research.Document{
			SessionID:       sessionID,
			CompanyURL:      companyURL,
			AnalysisContent: analysis,
		}); err != nil {
			log.Printf("api: saving research for %s: %v (continuing without research)", sessionID, err)
		}
	}

	return s.activate(ctx, sessionID, companyURL)
}

// IntegrityValidator is an optional recovery capability used as a
// pre-resume sanity gate. *session.Manager satisfies it.
type IntegrityValidator interface {
	ValidateIntegrity(ctx context.Context, sessionID string) (session.IntegrityReport, error)
}

// ResumeSession reactivates a persisted session. Recovery policy lives
// in the orchestrator: an expired or corrupt snapshot restarts at the
// first artifact. Integrity findings are logged before activation.
func (s *Service) ResumeSession(ctx context.Context, sessionID string) (string, interview.Question, error) {
	if sessionID == "" {
		return "", interview.Question{}, fmt.Errorf("session id is required")
	}
	if v, ok := s.recovery.(IntegrityValidator); ok {
		if report, err := v.ValidateIntegrity(ctx, sessionID); err == nil && !report.IsValid {
			log.Printf("api: session %s failed integrity check: %v (recommendations: %v)",
				sessionID, report.Issues, report.Recommendations)
		}
	}
	return s.activate(ctx, sessionID, "")
}

func (s *Service) activate(ctx context.Context, sessionID, companyURL string) (string, interview.Question, error) {
	// Reserve the ID before the recovery load so concurrent activations
	// of the same session lose here instead of double-starting it.
	s.mu.Lock()
	if _, exists := s.live[sessionID]; exists {
		s.mu.Unlock()
		return "", interview.Question{}, fmt.Errorf("session %s: %w", sessionID, interview.ErrAlreadyStarted)
	}
	s.live[sessionID] = &liveSession{}
	s.mu.Unlock()

	orch := interview.NewOrchestrator(interview.Options{
		SessionID:  sessionID,
		CompanyURL: companyURL,
		Recovery:   s.recovery,
		Research:   s.researchSource,
	})

	question, err := orch.Start(ctx)
	if err != nil {
		s.mu.Lock()
		delete(s.live, sessionID)
		s.mu.Unlock()
		return "", interview.Question{}, fmt.Errorf("starting session %s: %w", sessionID, err)
	}

	cp := session.NewCheckpointer(s.checkpointInterval, orch.Checkpoint)
	cp.Start()

	s.mu.Lock()
	s.live[sessionID] = &liveSession{orch: orch, checkpointer: cp}
	s.mu.Unlock()

	return sessionID, question, nil
}

// Submit processes one utterance for a live session. A completed
// interview stops its checkpoint timer after the final snapshot.
func (s *Service) Submit(ctx context.Context, sessionID, text string) (*interview.TurnResult, error) {
	ls, err := s.liveSession(sessionID)
	if err != nil {
		return nil, err
	}
	result, err := ls.orch.SubmitUtterance(ctx, text)
	if err != nil {
		return nil, err
	}
	if result.Phase == interview.PhaseCompleted {
		ls.checkpointer.Stop()
	}
	return result, nil
}

// Progress reports completion counts for a live session.
func (s *Service) Progress(sessionID string) (interview.Progress, error) {
	ls, err := s.liveSession(sessionID)
	if err != nil {
		return interview.Progress{}, err
	}
	return ls.orch.Progress(), nil
}

// Transcript returns the full conversation history for a live session.
func (s *Service) Transcript(sessionID string) ([]interview.ConversationEntry, error) {
	ls, err := s.liveSession(sessionID)
	if err != nil {
		return nil, err
	}
	return ls.orch.Transcript(), nil
}

// Snapshot exposes the full session state for reporting.
func (s *Service) Snapshot(sessionID string) (interview.SessionState, interview.Progress, error) {
	ls, err := s.liveSession(sessionID)
	if err != nil {
		return interview.SessionState{}, interview.Progress{}, err
	}
	return ls.orch.Snapshot(), ls.orch.Progress(), nil
}

// Pause checkpoints a live session, stops its timer, and releases it.
// The session stays resumable within the recovery TTL.
func (s *Service) Pause(ctx context.Context, sessionID string) error {
	ls, err := s.liveSession(sessionID)
	if err != nil {
		return err
	}
	ls.orch.Checkpoint(ctx)
	ls.checkpointer.Stop()

	s.mu.Lock()
	delete(s.live, sessionID)
	s.mu.Unlock()
	return nil
}

// Orchestrator hands the live orchestrator to the voice endpoint.
func (s *Service) Orchestrator(sessionID string) (*interview.Orchestrator, error) {
	ls, err := s.liveSession(sessionID)
	if err != nil {
		return nil, err
	}
	return ls.orch, nil
}

// Sessions lists persisted sessions when the store supports it,
// otherwise the currently live ones.
func (s *Service) Sessions(ctx context.Context, limit int) ([]session.Summary, error) {
	if lister, ok := s.store.(SessionLister); ok {
		return lister.ListSessions(ctx, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]session.Summary, 0, len(s.live))
	for id, ls := range s.live {
		if ls.orch == nil {
			continue
		}
		state := ls.orch.Snapshot()
		out = append(out, session.Summary{
			SessionID:       id,
			CompanyURL:      state.CompanyURL,
			CurrentStep:     state.CurrentStep,
			CurrentArtifact: state.CurrentArtifact,
			Phase:           string(state.Phase),
			UpdatedAt:       state.UpdatedAt,
		})
	}
	return out, nil
}

// Shutdown pauses every live session, flushing final checkpoints.
func (s *Service) Shutdown(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if err := s.Pause(ctx, id); err != nil {
			log.Printf("api: pausing session %s on shutdown: %v", id, err)
		}
	}
}

func (s *Service) liveSession(sessionID string) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.live[sessionID]
	// A nil orchestrator is a reservation placed while activation is
	// still in flight; the session is not usable yet.
	if !ok || ls.orch == nil {
		return nil, fmt.Errorf("session %s is not active", sessionID)
	}
	return ls, nil
}
