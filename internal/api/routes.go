package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/voxley/voxley/internal/bridge"
	"github.com/voxley/voxley/internal/interview"
	"github.com/voxley/voxley/internal/report"
	"github.com/voxley/voxley/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts the interview API routes.
func RegisterRoutes(r chi.Router, svc *Service) {
	reports := report.NewGenerator()

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreateSession(svc))
		r.Get("/", handleListSessions(svc))
		r.Post("/{id}/resume", handleResumeSession(svc))
		r.Post("/{id}/utterances", handleSubmit(svc))
		r.Post("/{id}/pause", handlePause(svc))
		r.Get("/{id}/progress", handleProgress(svc))
		r.Get("/{id}/transcript", handleTranscript(svc))
		r.Get("/{id}/report", handleReport(svc, reports))
		r.Get("/{id}/voice", handleVoice(svc))
	})
}

type createSessionRequest struct {
	CompanyURL string `json:"company_url"`
}

type sessionResponse struct {
	SessionID string             `json:"session_id"`
	Question  interview.Question `json:"question"`
}

func handleCreateSession(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			req.CompanyURL = ""
		}

		sessionID, question, err := svc.CreateSession(r.Context(), req.CompanyURL)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sessionResponse{SessionID: sessionID, Question: question})
	}
}

func handleResumeSession(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		id, question, err := svc.ResumeSession(r.Context(), sessionID)
		if err != nil {
			status := http.StatusInternalServerError
			if strings.Contains(err.Error(), "already") {
				status = http.StatusConflict
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionResponse{SessionID: id, Question: question})
	}
}

type submitRequest struct {
	Text string `json:"text"`
}

func handleSubmit(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		result, err := svc.Submit(r.Context(), sessionID, req.Text)
		if err != nil {
			status := http.StatusInternalServerError
			if strings.Contains(err.Error(), "not active") {
				status = http.StatusNotFound
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func handlePause(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		if err := svc.Pause(r.Context(), sessionID); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"paused"}`))
	}
}

func handleProgress(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		progress, err := svc.Progress(sessionID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(progress)
	}
}

func handleTranscript(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		transcript, err := svc.Transcript(sessionID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
			return
		}
		if transcript == nil {
			transcript = []interview.ConversationEntry{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transcript)
	}
}

func handleReport(svc *Service, reports *report.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		state, progress, err := svc.Snapshot(sessionID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
			return
		}

		if r.URL.Query().Get("format") == "markdown" {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			w.Write([]byte(reports.Markdown(&state, progress)))
			return
		}

		html, err := reports.HTML(&state, progress)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}

func handleListSessions(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		sessions, err := svc.Sessions(r.Context(), limit)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if sessions == nil {
			sessions = []session.Summary{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessions)
	}
}

// handleVoice upgrades the connection and runs the voice bridge for a
// live session: speak commands flow out, transcription events flow in.
func handleVoice(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		orch, err := svc.Orchestrator(sessionID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("api: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		voice := bridge.NewWSVoice(conn)
		b := bridge.New(orch, voice,
			func(message, errContext string) {
				if err := voice.SendError(errContext + ": " + message); err != nil {
					log.Printf("api: voice error write: %v", err)
				}
			},
			func(result *interview.TurnResult) {
				if err := voice.SendTurn(result); err != nil {
					log.Printf("api: voice turn write: %v", err)
				}
			})

		if err := b.Start(r.Context()); err != nil {
			log.Printf("api: voice bridge start for %s: %v", sessionID, err)
			return
		}

		bridge.Serve(r.Context(), conn, b)
	}
}
