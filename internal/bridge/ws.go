package bridge

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// voiceMessage is the incoming WebSocket message format.
type voiceMessage struct {
	Type    string `json:"type"` // "transcription", "playback_end", "speech_start", "speech_end", "error"
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
	Context string `json:"context,omitempty"`
}

// voiceCommand is the outgoing WebSocket message format.
type voiceCommand struct {
	Type string `json:"type"` // "speak", "listen_start", "listen_stop", "turn", "error"
	Text string `json:"text,omitempty"`
	Data any    `json:"data,omitempty"`
}

// WSVoice adapts a WebSocket connection into a VoiceIO transport: the
// client performs the actual speech synthesis and recognition and
// reports events back over the same connection.
type WSVoice struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

// NewWSVoice wraps an upgraded connection.
func NewWSVoice(conn *websocket.Conn) *WSVoice {
	return &WSVoice{conn: conn}
}

func (v *WSVoice) Speak(_ context.Context, text string) error {
	return v.send(voiceCommand{Type: "speak", Text: text})
}

func (v *WSVoice) StartListening(_ context.Context) error {
	return v.send(voiceCommand{Type: "listen_start"})
}

func (v *WSVoice) StopListening(_ context.Context) error {
	return v.send(voiceCommand{Type: "listen_stop"})
}

// SendTurn pushes a turn result to the client alongside the voice
// commands, so the UI can render progress while audio plays.
func (v *WSVoice) SendTurn(data any) error {
	return v.send(voiceCommand{Type: "turn", Data: data})
}

// SendError pushes a bridge error to the client.
func (v *WSVoice) SendError(message string) error {
	return v.send(voiceCommand{Type: "error", Text: message})
}

// Writes are serialized: websocket connections allow one writer at a
// time and bridge callbacks can fire concurrently.
func (v *WSVoice) send(cmd voiceCommand) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	return v.conn.WriteJSON(cmd)
}

// Serve reads voice events from the connection and dispatches them to
// the bridge until the connection closes or ctx is canceled.
func Serve(ctx context.Context, conn *websocket.Conn, b *Bridge) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("bridge: websocket read: %v", err)
			}
			return
		}

		var event voiceMessage
		if err := json.Unmarshal(msg, &event); err != nil {
			log.Printf("bridge: invalid voice message: %v", err)
			continue
		}

		switch event.Type {
		case "transcription":
			b.HandleTranscription(ctx, event.Text)
		case "playback_end":
			b.HandlePlaybackEnd(ctx)
		case "speech_start", "speech_end":
			// Informational only: state transitions key off playback_end.
		case "error":
			b.HandleVoiceError(event.Message, event.Context)
		default:
			log.Printf("bridge: unknown voice message type %q", event.Type)
		}
	}
}
