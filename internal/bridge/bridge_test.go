package bridge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/voxley/voxley/internal/interview"
)

type fakeVoice struct {
	mu         sync.Mutex
	spoken     []string
	listening  bool
	speakErr   error
	listenErr  error
	stopCalled int
}

func (f *fakeVoice) Speak(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.speakErr != nil {
		return f.speakErr
	}
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeVoice) StartListening(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listenErr != nil {
		return f.listenErr
	}
	f.listening = true
	return nil
}

func (f *fakeVoice) StopListening(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalled++
	f.listening = false
	return nil
}

func newTestBridge(t *testing.T, voice *fakeVoice, onError ErrorFunc, onTurn TurnFunc) *Bridge {
	t.Helper()
	orch := interview.NewOrchestrator(interview.Options{
		SessionID:  "bridge-test",
		CompanyURL: "https://example.com",
	})
	return New(orch, voice, onError, onTurn)
}

func TestStartSpeaksOpeningQuestion(t *testing.T) {
	voice := &fakeVoice{}
	b := newTestBridge(t, voice, nil, nil)

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if len(voice.spoken) != 1 {
		t.Fatalf("spoken = %d utterances, want 1", len(voice.spoken))
	}
	listening, speaking := b.Status()
	if listening || !speaking {
		t.Errorf("after Start: listening=%v speaking=%v, want false/true", listening, speaking)
	}
}

func TestTranscriptionIgnoredWhileSpeaking(t *testing.T) {
	voice := &fakeVoice{}
	var turns int
	b := newTestBridge(t, voice, nil, func(*interview.TurnResult) { turns++ })

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Playback has not finished, so the bridge is still speaking.
	b.HandleTranscription(context.Background(), "our mission is to help small businesses grow")

	if turns != 0 {
		t.Errorf("turns recorded = %d, want 0 while speaking", turns)
	}
	if len(voice.spoken) != 1 {
		t.Errorf("spoken = %d utterances, want 1", len(voice.spoken))
	}
}

func TestPlaybackEndResumesListening(t *testing.T) {
	voice := &fakeVoice{}
	b := newTestBridge(t, voice, nil, nil)

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	b.HandlePlaybackEnd(context.Background())

	listening, speaking := b.Status()
	if !listening || speaking {
		t.Errorf("after playback end: listening=%v speaking=%v, want true/false", listening, speaking)
	}
}

func TestTranscriptionDrivesTurn(t *testing.T) {
	voice := &fakeVoice{}
	var results []*interview.TurnResult
	b := newTestBridge(t, voice, nil, func(r *interview.TurnResult) { results = append(results, r) })

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	b.HandlePlaybackEnd(ctx)
	b.HandleTranscription(ctx, "our mission is to make bookkeeping effortless for small businesses")

	if len(results) != 1 {
		t.Fatalf("turns recorded = %d, want 1", len(results))
	}
	if results[0].Question.Text == "" {
		t.Error("turn question is empty")
	}
	if len(voice.spoken) != 2 {
		t.Errorf("spoken = %d utterances, want 2 (opening + follow-up)", len(voice.spoken))
	}
	if voice.stopCalled != 1 {
		t.Errorf("StopListening called %d times, want 1", voice.stopCalled)
	}
	listening, speaking := b.Status()
	if listening || !speaking {
		t.Errorf("mid-playback: listening=%v speaking=%v, want false/true", listening, speaking)
	}
}

func TestSpeakFailureResetsIdle(t *testing.T) {
	voice := &fakeVoice{speakErr: errors.New("tts unavailable")}
	var gotMessage, gotContext string
	b := newTestBridge(t, voice, func(message, errContext string) {
		gotMessage, gotContext = message, errContext
	}, nil)

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	listening, speaking := b.Status()
	if listening || speaking {
		t.Errorf("after speak failure: listening=%v speaking=%v, want idle", listening, speaking)
	}
	if !strings.Contains(gotMessage, "tts unavailable") {
		t.Errorf("error message = %q, want tts failure surfaced", gotMessage)
	}
	if gotContext != "speak" {
		t.Errorf("error context = %q, want %q", gotContext, "speak")
	}
}

func TestVoiceErrorResetsIdleWithoutTurn(t *testing.T) {
	voice := &fakeVoice{}
	var turns int
	var errs int
	b := newTestBridge(t, voice, func(string, string) { errs++ }, func(*interview.TurnResult) { turns++ })

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	b.HandlePlaybackEnd(ctx)
	b.HandleVoiceError("recognition timed out", "listen")

	if errs != 1 {
		t.Errorf("error callbacks = %d, want 1", errs)
	}
	if turns != 0 {
		t.Errorf("turns recorded = %d, want 0", turns)
	}
	listening, speaking := b.Status()
	if listening || speaking {
		t.Errorf("after voice error: listening=%v speaking=%v, want idle", listening, speaking)
	}
}

func TestListenFailureSurfacesError(t *testing.T) {
	voice := &fakeVoice{listenErr: errors.New("microphone busy")}
	var gotContext string
	b := newTestBridge(t, voice, func(_, errContext string) { gotContext = errContext }, nil)

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	b.HandlePlaybackEnd(ctx)

	if gotContext != "listen" {
		t.Errorf("error context = %q, want %q", gotContext, "listen")
	}
	listening, _ := b.Status()
	if listening {
		t.Error("listening = true after listen failure, want false")
	}
}
