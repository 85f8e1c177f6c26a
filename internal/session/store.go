package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voxley/voxley/internal/db"
	"github.com/voxley/voxley/internal/interview"
)

// Store persists interview session snapshots in SQLite. It implements
// interview.SessionStore: the session row carries the progress map as
// JSON, conversation entries live in their own table keyed by sequence
// number. Writes are idempotent upserts.
type Store struct {
	db *db.DB
}

// NewStore creates a session store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Get loads a session snapshot. Returns (nil, nil) when the session
// does not exist.
func (s *Store) Get(ctx context.Context, sessionID string) (*interview.SessionState, error) {
	var (
		state       interview.SessionState
		stepDataRaw string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, company_url, current_step, current_artifact, phase, step_data, updated_at
		 FROM interview_sessions WHERE id = ?`, sessionID,
	).Scan(&state.SessionID, &state.CompanyURL, &state.CurrentStep, &state.CurrentArtifact,
		&state.Phase, &stepDataRaw, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	if err := json.Unmarshal([]byte(stepDataRaw), &state.StepData); err != nil {
		return nil, fmt.Errorf("decoding step data: %w", err)
	}
	if state.StepData == nil {
		state.StepData = map[string]*interview.StepRecord{}
	}

	history, err := s.loadHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state.History = history

	return &state, nil
}

// Put upserts a session snapshot and its conversation entries.
func (s *Store) Put(ctx context.Context, sessionID string, state *interview.SessionState) error {
	stepData, err := json.Marshal(state.StepData)
	if err != nil {
		return fmt.Errorf("encoding step data: %w", err)
	}

	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO interview_sessions (id, company_url, current_step, current_artifact, phase, step_data, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   company_url = excluded.company_url,
		   current_step = excluded.current_step,
		   current_artifact = excluded.current_artifact,
		   phase = excluded.phase,
		   step_data = excluded.step_data,
		   updated_at = excluded.updated_at`,
		sessionID, state.CompanyURL, state.CurrentStep, state.CurrentArtifact,
		string(state.Phase), string(stepData), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}

	for _, e := range state.History {
		id := e.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO conversation_entries (id, session_id, seq, speaker, content, artifact_id, response_type, confidence, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(session_id, seq) DO UPDATE SET
			   content = excluded.content,
			   response_type = excluded.response_type,
			   confidence = excluded.confidence`,
			id, sessionID, e.Seq, string(e.Speaker), e.Content, e.ArtifactID,
			string(e.ResponseType), e.Confidence, e.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("upserting entry %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session write: %w", err)
	}
	return nil
}

// ListSessions returns session summaries ordered by last update.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_url, current_step, current_artifact, phase, updated_at
		 FROM interview_sessions ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.SessionID, &sm.CompanyURL, &sm.CurrentStep, &sm.CurrentArtifact, &sm.Phase, &sm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Summary is a lightweight session listing row.
type Summary struct {
	SessionID       string    `json:"session_id"`
	CompanyURL      string    `json:"company_url,omitempty"`
	CurrentStep     string    `json:"current_step"`
	CurrentArtifact string    `json:"current_artifact"`
	Phase           string    `json:"phase"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *Store) loadHistory(ctx context.Context, sessionID string) ([]interview.ConversationEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seq, speaker, content, artifact_id, response_type, confidence, created_at
		 FROM conversation_entries WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var history []interview.ConversationEntry
	for rows.Next() {
		var e interview.ConversationEntry
		if err := rows.Scan(&e.ID, &e.Seq, &e.Speaker, &e.Content, &e.ArtifactID,
			&e.ResponseType, &e.Confidence, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		history = append(history, e)
	}
	return history, rows.Err()
}
