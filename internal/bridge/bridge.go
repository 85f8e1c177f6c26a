package bridge

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/voxley/voxley/internal/interview"
)

// VoiceIO is the opaque voice transport: it renders interviewer text as
// speech and captures user speech as transcriptions. Transcription and
// playback events arrive through the Bridge's Handle methods.
type VoiceIO interface {
	Speak(ctx context.Context, text string) error
	StartListening(ctx context.Context) error
	StopListening(ctx context.Context) error
}

// ErrorFunc receives voice transport failures with a short context tag.
type ErrorFunc func(message, context string)

// TurnFunc observes each completed interview turn.
type TurnFunc func(result *interview.TurnResult)

// Bridge mediates between the orchestrator and a VoiceIO transport: it
// speaks generated questions, feeds transcriptions into the engine, and
// enforces that the session never listens while speaking or vice versa.
// Any transport error resets the bridge to a safe idle state; no turn
// is recorded for a failed voice operation.
type Bridge struct {
	mu        sync.Mutex
	orch      *interview.Orchestrator
	voice     VoiceIO
	listening bool
	speaking  bool
	onError   ErrorFunc
	onTurn    TurnFunc
}

// New creates a bridge for one session. onError and onTurn may be nil.
func New(orch *interview.Orchestrator, voice VoiceIO, onError ErrorFunc, onTurn TurnFunc) *Bridge {
	return &Bridge{orch: orch, voice: voice, onError: onError, onTurn: onTurn}
}

// Status reports the current turn-taking state.
func (b *Bridge) Status() (listening, speaking bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listening, b.speaking
}

// Start begins (or resumes) the interview and speaks the opening
// question. Attaching to a session that is already active re-speaks the
// most recent interviewer prompt instead.
func (b *Bridge) Start(ctx context.Context) error {
	question, err := b.orch.Start(ctx)
	if errors.Is(err, interview.ErrAlreadyStarted) {
		if text := lastInterviewerText(b.orch.Transcript()); text != "" {
			b.speak(ctx, text)
			return nil
		}
		return err
	}
	if err != nil {
		return err
	}
	b.speak(ctx, question.Text)
	return nil
}

func lastInterviewerText(history []interview.ConversationEntry) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Speaker == interview.SpeakerInterviewer {
			return history[i].Content
		}
	}
	return ""
}

// HandleTranscription processes a transcription event. Transcriptions
// arriving while not listening (including while speaking) are ignored
// as non-events: no classification is inferred and no transition forced.
func (b *Bridge) HandleTranscription(ctx context.Context, text string) {
	b.mu.Lock()
	if !b.listening || b.speaking {
		b.mu.Unlock()
		return
	}
	b.listening = false
	b.mu.Unlock()

	if err := b.voice.StopListening(ctx); err != nil {
		log.Printf("bridge: stop listening: %v", err)
	}

	result, err := b.orch.SubmitUtterance(ctx, text)
	if err != nil {
		b.fail("processing utterance: "+err.Error(), "submit")
		return
	}
	if b.onTurn != nil {
		b.onTurn(result)
	}

	b.speak(ctx, result.Question.Text)
}

// HandlePlaybackEnd marks speech playback finished and resumes
// listening, unless the interview has completed.
func (b *Bridge) HandlePlaybackEnd(ctx context.Context) {
	b.mu.Lock()
	b.speaking = false
	done := b.orch.Progress().CurrentPhase == string(interview.PhaseCompleted)
	b.mu.Unlock()

	if done {
		return
	}
	if err := b.voice.StartListening(ctx); err != nil {
		b.fail("starting listening: "+err.Error(), "listen")
		return
	}
	b.mu.Lock()
	b.listening = true
	b.mu.Unlock()
}

// HandleVoiceError processes an error reported by the transport: the
// bridge resets to idle and surfaces the error through the callback.
func (b *Bridge) HandleVoiceError(message, errContext string) {
	b.fail(message, errContext)
}

// speak transitions to the speaking state and sends the text to the
// transport. A speak failure resets to idle without recording a turn.
func (b *Bridge) speak(ctx context.Context, text string) {
	b.mu.Lock()
	b.speaking = true
	b.listening = false
	b.mu.Unlock()

	if err := b.voice.Speak(ctx, text); err != nil {
		b.fail("speaking question: "+err.Error(), "speak")
	}
}

// fail resets the bridge to a safe idle state and notifies the error
// callback, leaving the UI in a well-defined status.
func (b *Bridge) fail(message, errContext string) {
	b.mu.Lock()
	b.listening = false
	b.speaking = false
	b.mu.Unlock()

	log.Printf("bridge: %s error: %s", errContext, message)
	if b.onError != nil {
		b.onError(message, errContext)
	}
}
