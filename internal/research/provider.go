package research

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/voxley/voxley/internal/db"
)

// Document is the pre-computed company analysis the interview draws on.
// AnalysisContent is unstructured text; see parser.go for the optional
// structured view.
type Document struct {
	SessionID       string    `json:"session_id"`
	CompanyURL      string    `json:"company_url"`
	AnalysisContent string    `json:"analysis_content"`
	CreatedAt       time.Time `json:"created_at"`
}

// Provider yields the research document for a session. Returns
// (nil, nil) when no research exists for the session.
type Provider interface {
	Fetch(ctx context.Context, sessionID string) (*Document, error)
}

// Store caches research documents in SQLite and implements Provider.
type Store struct {
	db *db.DB
}

// NewStore creates a research store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) Fetch(ctx context.Context, sessionID string) (*Document, error) {
	var doc Document
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, company_url, analysis_content, created_at
		 FROM research_documents WHERE session_id = ?`, sessionID,
	).Scan(&doc.SessionID, &doc.CompanyURL, &doc.AnalysisContent, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching research: %w", err)
	}
	return &doc, nil
}

// Save upserts the research document for a session.
func (s *Store) Save(ctx context.Context, doc Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO research_documents (session_id, company_url, analysis_content, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   company_url = excluded.company_url,
		   analysis_content = excluded.analysis_content`,
		doc.SessionID, doc.CompanyURL, doc.AnalysisContent, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving research: %w", err)
	}
	return nil
}

// Source adapts a Provider to the orchestrator's research contract.
// An absent document surfaces as an empty string, which the gap
// analyzer treats as "all information missing".
type Source struct {
	provider Provider
}

// NewSource wraps a provider for consumption by the interview engine.
func NewSource(p Provider) *Source {
	return &Source{provider: p}
}

// AnalysisFor returns the raw analysis text for a session, or empty
// when no research exists.
func (s *Source) AnalysisFor(ctx context.Context, sessionID string) (string, error) {
	doc, err := s.provider.Fetch(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", nil
	}
	return doc.AnalysisContent, nil
}

// ArtifactContext returns the research excerpt for one artifact, using
// the structured parse of the document. Empty when the document or the
// artifact block is absent.
func (s *Source) ArtifactContext(ctx context.Context, sessionID, artifactID string) (string, error) {
	doc, err := s.provider.Fetch(ctx, sessionID)
	if err != nil || doc == nil {
		return "", err
	}
	parsed := ParseAnalysis(doc.AnalysisContent)
	return parsed.ContextFor(artifactID), nil
}
