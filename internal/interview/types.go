package interview

import "time"

// Speaker identifies who produced a conversation entry.
type Speaker string

const (
	SpeakerUser        Speaker = "user"
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerSystem      Speaker = "system"
)

// ResponseType classifies a user utterance.
type ResponseType string

const (
	ResponseConfirmation ResponseType = "confirmation"
	ResponseCorrection   ResponseType = "correction"
	ResponseAddition     ResponseType = "addition"
	ResponseDiscussion   ResponseType = "discussion"
)

// CompletionStatus is the lifecycle of an artifact or step.
type CompletionStatus string

const (
	StatusPending    CompletionStatus = "pending"
	StatusInProgress CompletionStatus = "in_progress"
	StatusCompleted  CompletionStatus = "completed"
)

// QuestionType describes the intent of a generated question.
type QuestionType string

const (
	QuestionOpening       QuestionType = "opening"
	QuestionValidation    QuestionType = "validation"
	QuestionClarification QuestionType = "clarification"
	QuestionCompletion    QuestionType = "completion"
	QuestionProbing       QuestionType = "probing"
)

// GapPriority ranks how urgently a research gap needs to be filled.
type GapPriority string

const (
	PriorityHigh   GapPriority = "high"
	PriorityMedium GapPriority = "medium"
	PriorityLow    GapPriority = "low"
)

// Phase is the orchestrator's top-level state.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseActive     Phase = "active"
	PhaseCompleted  Phase = "completed"
)

// ConversationEntry is one turn in the dialogue. Entries are ordered by
// Seq, a monotonic per-session sequence number; wall-clock timestamps may
// collide and are informational only.
type ConversationEntry struct {
	ID           string       `json:"id"`
	Seq          int          `json:"seq"`
	Speaker      Speaker      `json:"speaker"`
	Content      string       `json:"content"`
	ArtifactID   string       `json:"artifact_id,omitempty"`
	ResponseType ResponseType `json:"response_type,omitempty"`
	Confidence   int          `json:"confidence,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}

// Contribution is a raw user response attributed to an artifact.
type Contribution struct {
	Content   string       `json:"content"`
	Type      ResponseType `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
}

// ArtifactProgress tracks completion state for one artifact. Created
// lazily on first interaction, never deleted within a session.
// Confidence is a 0-100 integer.
type ArtifactProgress struct {
	ArtifactID    string           `json:"artifact_id"`
	Status        CompletionStatus `json:"status"`
	Confidence    int              `json:"confidence"`
	Contributions []Contribution   `json:"contributions,omitempty"`
	StartedAt     time.Time        `json:"started_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// StepRecord aggregates the progress of one step's artifacts. Derived
// from ArtifactProgress records, never independently authoritative.
type StepRecord struct {
	Artifacts     map[string]*ArtifactProgress `json:"artifacts"`
	Status        CompletionStatus             `json:"step_completion_status"`
	OpenQuestions []string                     `json:"open_questions,omitempty"`
	Confidence    int                          `json:"step_confidence_score"`
}

// ResearchGap is a piece of expected information absent from the
// research document for a given artifact. Ephemeral, recomputed on
// demand. Confidence here is the 0-1 scale fixed by the gap contract
// (floor 0.1, 1.0 means nothing missing); it never crosses into the
// 0-100 completion scale.
type ResearchGap struct {
	ArtifactID string      `json:"artifact_id"`
	Missing    []string    `json:"missing"`
	Confidence float64     `json:"confidence"`
	Priority   GapPriority `json:"priority"`
}

// Question is a generated interview prompt.
type Question struct {
	Text      string       `json:"text"`
	Type      QuestionType `json:"type"`
	Priority  int          `json:"priority"`
	FollowUps []string     `json:"follow_ups,omitempty"`
	Hints     []string     `json:"expected_response_hints,omitempty"`
	Context   string       `json:"context,omitempty"`
}

// Evaluation is the Completion Evaluator's verdict for one artifact.
type Evaluation struct {
	Status            CompletionStatus `json:"status"`
	Confidence        int              `json:"confidence"`
	CompletedCriteria []string         `json:"completed_criteria"`
	MissingCriteria   []string         `json:"missing_criteria"`
}

// Progress is the query surface consumed by UIs.
type Progress struct {
	CompletedArtifacts  int    `json:"completed_artifacts"`
	InProgressArtifacts int    `json:"in_progress_artifacts"`
	TotalArtifacts      int    `json:"total_artifacts"`
	ProgressPercentage  int    `json:"progress_percentage"`
	CurrentPhase        string `json:"current_phase"`
}

// SessionState is the durable snapshot of an interview session.
type SessionState struct {
	SessionID       string                 `json:"session_id"`
	CompanyURL      string                 `json:"company_url,omitempty"`
	CurrentStep     string                 `json:"current_step"`
	CurrentArtifact string                 `json:"current_artifact"`
	Phase           Phase                  `json:"phase"`
	History         []ConversationEntry    `json:"history"`
	StepData        map[string]*StepRecord `json:"step_data"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// Clone returns a deep copy of the state: the StepData map, its
// records, and the History slice are all duplicated, so the copy can be
// read or persisted while the original keeps mutating.
func (s *SessionState) Clone() *SessionState {
	out := *s
	out.History = append([]ConversationEntry(nil), s.History...)
	out.StepData = make(map[string]*StepRecord, len(s.StepData))
	for stepID, step := range s.StepData {
		sc := *step
		sc.OpenQuestions = append([]string(nil), step.OpenQuestions...)
		sc.Artifacts = make(map[string]*ArtifactProgress, len(step.Artifacts))
		for artifactID, ap := range step.Artifacts {
			ac := *ap
			ac.Contributions = append([]Contribution(nil), ap.Contributions...)
			sc.Artifacts[artifactID] = &ac
		}
		out.StepData[stepID] = &sc
	}
	return &out
}

// TurnResult is what one processed utterance yields.
type TurnResult struct {
	ResponseType ResponseType `json:"response_type"`
	Evaluation   Evaluation   `json:"evaluation"`
	Question     Question     `json:"question"`
	ArtifactID   string       `json:"artifact_id"`
	StepID       string       `json:"step_id"`
	Advanced     bool         `json:"advanced"`
	Phase        Phase        `json:"phase"`
}
