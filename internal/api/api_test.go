package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voxley/voxley/internal/interview"
	"github.com/voxley/voxley/internal/session"
)

func setupTestServer(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	store := session.NewMemoryStore()
	svc := NewService(Options{
		Store:              store,
		Recovery:           session.NewManager(store, 0),
		CheckpointInterval: time.Hour,
	})
	t.Cleanup(func() { svc.Shutdown(context.Background()) })

	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return svc, srv
}

func createSession(t *testing.T, srv *httptest.Server, companyURL string) sessionResponse {
	t.Helper()
	body, _ := json.Marshal(createSessionRequest{CompanyURL: companyURL})
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding session response: %v", err)
	}
	return out
}

func TestCreateSessionReturnsOpeningQuestion(t *testing.T) {
	_, srv := setupTestServer(t)

	created := createSession(t, srv, "https://acme.example")
	if created.SessionID == "" {
		t.Fatal("expected session ID to be set")
	}
	if created.Question.Type != interview.QuestionOpening {
		t.Errorf("question type = %q, want %q", created.Question.Type, interview.QuestionOpening)
	}
	if !strings.Contains(created.Question.Text, "mission") {
		t.Errorf("opening question %q does not mention the mission", created.Question.Text)
	}
}

func TestSubmitUtterance(t *testing.T) {
	_, srv := setupTestServer(t)
	created := createSession(t, srv, "")

	body, _ := json.Marshal(submitRequest{Text: "Our mission is to make renewable energy affordable for homeowners."})
	resp, err := http.Post(srv.URL+"/api/sessions/"+created.SessionID+"/utterances", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result interview.TurnResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding turn result: %v", err)
	}
	if result.ResponseType != interview.ResponseDiscussion {
		t.Errorf("response type = %q, want %q", result.ResponseType, interview.ResponseDiscussion)
	}
	if result.Question.Text == "" {
		t.Error("expected a follow-up question")
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	_, srv := setupTestServer(t)

	body, _ := json.Marshal(submitRequest{Text: "hello"})
	resp, err := http.Post(srv.URL+"/api/sessions/nope/utterances", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestProgressEndpoint(t *testing.T) {
	_, srv := setupTestServer(t)
	created := createSession(t, srv, "")

	resp, err := http.Get(srv.URL + "/api/sessions/" + created.SessionID + "/progress")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	defer resp.Body.Close()

	var progress interview.Progress
	if err := json.NewDecoder(resp.Body).Decode(&progress); err != nil {
		t.Fatalf("decoding progress: %v", err)
	}
	if progress.TotalArtifacts != interview.TotalArtifacts {
		t.Errorf("total artifacts = %d, want %d", progress.TotalArtifacts, interview.TotalArtifacts)
	}
	if progress.CurrentPhase != interview.PartStrategicFoundation {
		t.Errorf("phase = %q, want %q", progress.CurrentPhase, interview.PartStrategicFoundation)
	}
}

func TestTranscriptEndpoint(t *testing.T) {
	_, srv := setupTestServer(t)
	created := createSession(t, srv, "")

	body, _ := json.Marshal(submitRequest{Text: "We sell solar panel subscriptions."})
	resp, err := http.Post(srv.URL+"/api/sessions/"+created.SessionID+"/utterances", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/sessions/" + created.SessionID + "/transcript")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	defer resp.Body.Close()

	var transcript []interview.ConversationEntry
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		t.Fatalf("decoding transcript: %v", err)
	}
	// Opening question, user utterance, follow-up question.
	if len(transcript) != 3 {
		t.Fatalf("transcript length = %d, want 3", len(transcript))
	}
	for i, e := range transcript {
		if e.Seq != i+1 {
			t.Errorf("entry %d has seq %d, want %d", i, e.Seq, i+1)
		}
	}
	if transcript[1].Speaker != interview.SpeakerUser {
		t.Errorf("entry 1 speaker = %q, want %q", transcript[1].Speaker, interview.SpeakerUser)
	}
}

func TestReportEndpoint(t *testing.T) {
	_, srv := setupTestServer(t)
	created := createSession(t, srv, "https://acme.example")

	resp, err := http.Get(srv.URL + "/api/sessions/" + created.SessionID + "/report?format=markdown")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "# Business Strategy Assessment") {
		t.Error("markdown report missing title heading")
	}

	resp, err = http.Get(srv.URL + "/api/sessions/" + created.SessionID + "/report")
	if err != nil {
		t.Fatalf("html report: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
}

func TestPauseAndResume(t *testing.T) {
	_, srv := setupTestServer(t)
	created := createSession(t, srv, "")

	body, _ := json.Marshal(submitRequest{Text: "Our mission is affordable childcare scheduling software."})
	resp, err := http.Post(srv.URL+"/api/sessions/"+created.SessionID+"/utterances", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/api/sessions/"+created.SessionID+"/pause", "application/json", nil)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pause status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp, err = http.Post(srv.URL+"/api/sessions/"+created.SessionID+"/resume", "application/json", nil)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resume status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var resumed sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&resumed); err != nil {
		t.Fatalf("decoding resume response: %v", err)
	}
	if resumed.SessionID != created.SessionID {
		t.Errorf("resumed session = %q, want %q", resumed.SessionID, created.SessionID)
	}

	// The resumed transcript carries the pre-pause history forward.
	resp, err = http.Get(srv.URL + "/api/sessions/" + created.SessionID + "/transcript")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	defer resp.Body.Close()
	var transcript []interview.ConversationEntry
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		t.Fatalf("decoding transcript: %v", err)
	}
	if len(transcript) < 4 {
		t.Errorf("transcript length = %d, want pre-pause history plus resume question", len(transcript))
	}
}

func TestResumeActiveSessionConflicts(t *testing.T) {
	_, srv := setupTestServer(t)
	created := createSession(t, srv, "")

	resp, err := http.Post(srv.URL+"/api/sessions/"+created.SessionID+"/resume", "application/json", nil)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

// slowStore delays reads to widen the window between the recovery load
// and the live-session insert during activation.
type slowStore struct {
	interview.SessionStore
	delay time.Duration
}

func (s slowStore) Get(ctx context.Context, sessionID string) (*interview.SessionState, error) {
	time.Sleep(s.delay)
	return s.SessionStore.Get(ctx, sessionID)
}

func TestConcurrentResumeActivatesOnce(t *testing.T) {
	store := slowStore{SessionStore: session.NewMemoryStore(), delay: 10 * time.Millisecond}
	svc := NewService(Options{
		Store:              store,
		Recovery:           session.NewManager(store, 0),
		CheckpointInterval: time.Hour,
	})
	defer svc.Shutdown(context.Background())
	ctx := context.Background()

	id, _, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := svc.Pause(ctx, id); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.ResumeSession(ctx, id)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, interview.ErrAlreadyStarted):
			lost++
		default:
			t.Fatalf("unexpected resume error: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("got %d activations and %d conflicts, want exactly one of each (errs: %v)", won, lost, errs)
	}

	// The winner's session must be fully usable.
	if _, err := svc.Progress(id); err != nil {
		t.Errorf("Progress after concurrent resume: %v", err)
	}
}

func TestListSessions(t *testing.T) {
	_, srv := setupTestServer(t)
	createSession(t, srv, "https://one.example")
	createSession(t, srv, "https://two.example")

	resp, err := http.Get(srv.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()

	var sessions []session.Summary
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		t.Fatalf("decoding sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
}
