package interview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore is the durable storage contract the engine depends on.
// Implementations serialize per-session writes; last-writer-wins is
// acceptable because one orchestrator instance drives a session at a
// time.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*SessionState, error)
	Put(ctx context.Context, sessionID string, state *SessionState) error
}

// RecoveryResult is the outcome of attempting to load persisted state.
type RecoveryResult struct {
	State         *SessionState
	IsRecoverable bool
	Reason        string
}

// Recoverer loads and saves orchestrator snapshots. Save failures are
// soft: callers log and continue.
type Recoverer interface {
	SaveState(ctx context.Context, sessionID string, state *SessionState) error
	LoadState(ctx context.Context, sessionID string) (RecoveryResult, error)
}

// ResearchSource yields the pre-computed analysis document for a
// session, or an error when research is unavailable. The orchestrator
// treats any failure as "no research" and keeps the turn moving.
type ResearchSource interface {
	AnalysisFor(ctx context.Context, sessionID string) (string, error)
}

// ArtifactContextProvider is an optional ResearchSource capability:
// sources that can slice the analysis per artifact expose an excerpt
// shown alongside generated questions.
type ArtifactContextProvider interface {
	ArtifactContext(ctx context.Context, sessionID, artifactID string) (string, error)
}

// historyWindow bounds the recent-conversation slice handed to the
// question generator. Full history is kept for persistence and audit.
const historyWindow = 20

// advanceConfidence is the criteria confidence above which an artifact
// is left behind even if not formally completed.
const advanceConfidence = 80

// closingStatement ends the interview once all 23 artifacts are visited.
const closingStatement = "That completes our strategy interview. Thank you — we've covered all twenty-three topics, and your assessment report is ready."

// Orchestrator is the per-session interview state machine. All state
// transitions happen sequentially under one mutex; sessions are
// independent of each other.
type Orchestrator struct {
	mu sync.Mutex

	sessionID  string
	state      *SessionState
	nextSeq    int
	classifier *Classifier
	gaps       *GapAnalyzer
	questions  *QuestionGenerator
	evaluator  *CompletionEvaluator
	recovery   Recoverer
	research   ResearchSource
}

// Options configures an orchestrator.
type Options struct {
	SessionID  string
	CompanyURL string
	Matcher    Matcher // defaults to KeywordMatcher
	Recovery   Recoverer
	Research   ResearchSource // may be nil
}

// NewOrchestrator wires the engine components for one session.
func NewOrchestrator(opts Options) *Orchestrator {
	m := opts.Matcher
	if m == nil {
		m = NewKeywordMatcher()
	}
	return &Orchestrator{
		sessionID:  opts.SessionID,
		classifier: NewClassifier(m),
		gaps:       NewGapAnalyzer(m),
		questions:  NewQuestionGenerator(m),
		evaluator:  NewCompletionEvaluator(m),
		recovery:   opts.Recovery,
		research:   opts.Research,
		nextSeq:    1,
		state: &SessionState{
			SessionID:  opts.SessionID,
			CompanyURL: opts.CompanyURL,
			Phase:      PhaseNotStarted,
			StepData:   map[string]*StepRecord{},
		},
	}
}

// Start moves the session from NotStarted to Active. When a recoverable
// snapshot exists it resumes at the persisted step and artifact;
// otherwise it initializes at the first artifact of the first step. The
// opening (or resume) question for the current artifact is returned and
// recorded.
func (o *Orchestrator) Start(ctx context.Context) (Question, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Phase != PhaseNotStarted {
		return Question{}, ErrAlreadyStarted
	}

	recovered := false
	if o.recovery != nil {
		result, err := o.recovery.LoadState(ctx, o.sessionID)
		if err != nil {
			// Store failure on resume forces start-fresh behavior.
			log.Printf("orchestrator: recovery load for %s: %v (starting fresh)", o.sessionID, err)
		} else if result.IsRecoverable {
			o.state = result.State
			recovered = true
			o.nextSeq = maxSeq(result.State.History) + 1
		} else if result.Reason != "" {
			log.Printf("orchestrator: session %s not recoverable: %s (starting fresh)", o.sessionID, result.Reason)
		}
	}

	if !recovered {
		stepID, artifactID := FirstArtifact()
		o.state.CurrentStep = stepID
		o.state.CurrentArtifact = artifactID
	}
	o.state.Phase = PhaseActive

	question, err := o.questionForCurrent(ctx, "")
	if err != nil {
		return Question{}, fmt.Errorf("generating opening question: %w", err)
	}

	o.appendEntry(ConversationEntry{
		Speaker:    SpeakerInterviewer,
		Content:    question.Text,
		ArtifactID: o.state.CurrentArtifact,
	})

	o.checkpoint(ctx)
	return question, nil
}

// SubmitUtterance processes one user turn: classify, record the
// contribution, re-evaluate progress, decide on artifact/step
// transitions, and produce the next question. Only valid while Active.
func (o *Orchestrator) SubmitUtterance(ctx context.Context, text string) (*TurnResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Phase != PhaseActive {
		return nil, fmt.Errorf("%w: phase is %s", ErrNotActive, o.state.Phase)
	}

	artifactID := o.state.CurrentArtifact
	responseType := o.classifier.Classify(text)

	o.appendEntry(ConversationEntry{
		Speaker:      SpeakerUser,
		Content:      text,
		ArtifactID:   artifactID,
		ResponseType: responseType,
	})

	rec := o.artifactRecord(artifactID)
	rec.Contributions = append(rec.Contributions, Contribution{
		Content:   text,
		Type:      responseType,
		Timestamp: time.Now().UTC(),
	})

	if err := o.evaluator.UpdateRecord(rec); err != nil {
		return nil, fmt.Errorf("evaluating artifact %s: %w", artifactID, err)
	}
	if err := o.refreshStep(o.state.CurrentStep); err != nil {
		return nil, fmt.Errorf("aggregating step %s: %w", o.state.CurrentStep, err)
	}

	evaluation, err := o.evaluator.Evaluate(artifactID, rec.Contributions)
	if err != nil {
		return nil, fmt.Errorf("evaluating artifact %s: %w", artifactID, err)
	}

	advanced, err := o.maybeAdvance(rec)
	if err != nil {
		return nil, err
	}

	result := &TurnResult{
		ResponseType: responseType,
		Evaluation:   evaluation,
		ArtifactID:   o.state.CurrentArtifact,
		StepID:       o.state.CurrentStep,
		Advanced:     advanced,
		Phase:        o.state.Phase,
	}

	if o.state.Phase == PhaseCompleted {
		result.Question = Question{Text: closingStatement, Type: QuestionCompletion, Priority: 1}
		o.appendEntry(ConversationEntry{
			Speaker: SpeakerInterviewer,
			Content: result.Question.Text,
		})
		o.checkpoint(ctx)
		return result, nil
	}

	question, err := o.questionForCurrent(ctx, responseType)
	if err != nil {
		return nil, fmt.Errorf("generating question: %w", err)
	}
	result.Question = question

	o.appendEntry(ConversationEntry{
		Speaker:    SpeakerInterviewer,
		Content:    question.Text,
		ArtifactID: o.state.CurrentArtifact,
	})

	if advanced {
		o.checkpoint(ctx)
	}
	return result, nil
}

// Progress reports aggregated completion counts, always recomputed from
// the current progress records.
func (o *Orchestrator) Progress() Progress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progressLocked()
}

// Transcript returns a copy of the full conversation history.
func (o *Orchestrator) Transcript() []ConversationEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]ConversationEntry, len(o.state.History))
	copy(out, o.state.History)
	return out
}

// Snapshot returns a deep copy of the session state for persistence
// and inspection. Callers may iterate it while turns keep landing.
func (o *Orchestrator) Snapshot() SessionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return *o.state.Clone()
}

// Checkpoint persists the current state outside a transition, used by
// the periodic checkpoint timer.
func (o *Orchestrator) Checkpoint(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.checkpoint(ctx)
}

// --- internals, all called with o.mu held ---

func (o *Orchestrator) progressLocked() Progress {
	var completed, inProgress int
	for _, step := range o.state.StepData {
		for _, ap := range step.Artifacts {
			switch ap.Status {
			case StatusCompleted:
				completed++
			case StatusInProgress:
				inProgress++
			}
		}
	}

	phase := string(o.state.Phase)
	if o.state.Phase == PhaseActive {
		if step, err := StepByID(o.state.CurrentStep); err == nil {
			phase = step.Part
		}
	}

	pct := int(math.Round(float64(completed*100+inProgress*50) / float64(TotalArtifacts)))
	return Progress{
		CompletedArtifacts:  completed,
		InProgressArtifacts: inProgress,
		TotalArtifacts:      TotalArtifacts,
		ProgressPercentage:  pct,
		CurrentPhase:        phase,
	}
}

// artifactRecord lazily creates the progress record for an artifact
// inside its owning step's record.
func (o *Orchestrator) artifactRecord(artifactID string) *ArtifactProgress {
	stepID := o.state.CurrentStep
	step, ok := o.state.StepData[stepID]
	if !ok {
		step = &StepRecord{Artifacts: map[string]*ArtifactProgress{}, Status: StatusPending}
		o.state.StepData[stepID] = step
	}
	if step.Artifacts == nil {
		step.Artifacts = map[string]*ArtifactProgress{}
	}
	rec, ok := step.Artifacts[artifactID]
	if !ok {
		now := time.Now().UTC()
		rec = &ArtifactProgress{
			ArtifactID: artifactID,
			Status:     StatusPending,
			StartedAt:  now,
			UpdatedAt:  now,
		}
		step.Artifacts[artifactID] = rec
	}
	return rec
}

func (o *Orchestrator) refreshStep(stepID string) error {
	step, ok := o.state.StepData[stepID]
	if !ok {
		return nil
	}
	agg, err := AggregateStep(stepID, step.Artifacts, o.evaluator)
	if err != nil {
		return err
	}
	step.Status = agg.Status
	step.Confidence = agg.Confidence
	step.OpenQuestions = agg.OpenQuestions
	return nil
}

// maybeAdvance moves the current pointer forward when the artifact is
// completed or its confidence clears the advancement bar. The pointer
// only ever moves forward in the fixed artifact order.
func (o *Orchestrator) maybeAdvance(rec *ArtifactProgress) (bool, error) {
	if rec.Status != StatusCompleted && rec.Confidence <= advanceConfidence {
		return false, nil
	}

	next, err := NextArtifact(o.state.CurrentArtifact)
	switch {
	case err == nil:
		o.state.CurrentArtifact = next
		return true, nil
	case errors.Is(err, ErrEndOfStep):
		nextStep, stepErr := NextStep(o.state.CurrentStep)
		if errors.Is(stepErr, ErrEndOfInterview) {
			o.state.Phase = PhaseCompleted
			return true, nil
		}
		if stepErr != nil {
			return false, stepErr
		}
		o.state.CurrentStep = nextStep
		artifacts, err := ArtifactsOf(nextStep)
		if err != nil {
			return false, err
		}
		o.state.CurrentArtifact = artifacts[0]
		return true, nil
	default:
		return false, err
	}
}

// questionForCurrent runs gap analysis for the current artifact and asks
// the generator for the next prompt. Research failures degrade to the
// no-document gap path.
func (o *Orchestrator) questionForCurrent(ctx context.Context, lastResponse ResponseType) (Question, error) {
	artifactID := o.state.CurrentArtifact

	var doc string
	if o.research != nil {
		var err error
		doc, err = o.research.AnalysisFor(ctx, o.sessionID)
		if err != nil {
			log.Printf("orchestrator: research unavailable for %s: %v (degrading to generic path)", o.sessionID, err)
			doc = ""
		}
	}

	gaps, err := o.gaps.AnalyzeGaps(doc, artifactID)
	if err != nil {
		return Question{}, err
	}

	status := StatusPending
	if step, ok := o.state.StepData[o.state.CurrentStep]; ok {
		if rec, ok := step.Artifacts[artifactID]; ok {
			status = rec.Status
		}
	}

	qctx := QuestionContext{
		Gaps:             gaps,
		History:          o.recentHistory(),
		CompletionStatus: status,
		LastResponseType: lastResponse,
	}
	if cp, ok := o.research.(ArtifactContextProvider); ok && doc != "" {
		if excerpt, err := cp.ArtifactContext(ctx, o.sessionID, artifactID); err == nil {
			qctx.ResearchContext = excerpt
		}
	}

	return o.questions.Generate(qctx, artifactID)
}

func (o *Orchestrator) recentHistory() []ConversationEntry {
	h := o.state.History
	if len(h) > historyWindow {
		h = h[len(h)-historyWindow:]
	}
	out := make([]ConversationEntry, len(h))
	copy(out, h)
	return out
}

func (o *Orchestrator) appendEntry(e ConversationEntry) {
	e.ID = uuid.New().String()
	e.Seq = o.nextSeq
	o.nextSeq++
	e.Timestamp = time.Now().UTC()
	o.state.History = append(o.state.History, e)
	o.state.UpdatedAt = e.Timestamp
}

// checkpoint persists the snapshot; failures are logged and retried on
// the next checkpoint, never failing the turn.
func (o *Orchestrator) checkpoint(ctx context.Context) {
	if o.recovery == nil {
		return
	}
	o.state.UpdatedAt = time.Now().UTC()
	if err := o.recovery.SaveState(ctx, o.sessionID, o.state); err != nil {
		log.Printf("orchestrator: checkpoint for %s failed: %v (will retry)", o.sessionID, err)
	}
}

func maxSeq(history []ConversationEntry) int {
	max := 0
	for _, e := range history {
		if e.Seq > max {
			max = e.Seq
		}
	}
	return max
}
