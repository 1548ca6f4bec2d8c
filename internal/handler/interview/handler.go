package interview

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	interviewService "github.com/insightwave/interviewer/backend/internal/service/interview"
	"github.com/insightwave/interviewer/backend/internal/storage"
	"github.com/insightwave/interviewer/backend/pkg/utils"
)

const sessionNotFoundMessage = "Session not found"

// Handler exposes the interview lifecycle over HTTP.
type Handler struct {
	svc *interviewService.Service
}

// New creates the interview handler.
func New(svc *interviewService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the interview routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/start", h.handleStart)
	r.Post("/answer", h.handleAnswer)
	r.Get("/summary/{sessionID}", h.handleSummary)
	r.Get("/insight/{sessionID}", h.handleInsight)
	r.Post("/save/{sessionID}", h.handleSave)
	r.Get("/sessions", h.handleListSaved)
	r.Get("/sessions/{sessionID}", h.handleGetSaved)
	r.Delete("/sessions/{sessionID}", h.handleDeleteSaved)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Topic        *string         `json:"topic"`
		MaxQuestions json.RawMessage `json:"max_questions"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	topic := "สินค้า"
	if payload.Topic != nil {
		topic = *payload.Topic
	}

	result := h.svc.Start(r.Context(), topic, parseMaxQuestions(payload.MaxQuestions))
	utils.RespondJSON(w, http.StatusOK, result)
}

// parseMaxQuestions tolerates both a JSON number and a numeric string;
// anything else falls through to zero and takes the default downstream.
func parseMaxQuestions(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return int(asNumber)
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(asString)); err == nil {
			return n
		}
	}
	return 0
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
		Question  string `json:"question"`
		Answer    string `json:"answer"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Answer(r.Context(), payload.SessionID, payload.Question, payload.Answer)
	if err != nil {
		if errors.Is(err, interviewService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, sessionNotFoundMessage)
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := struct {
		Analysis     any     `json:"analysis"`
		IsComplete   bool    `json:"is_complete"`
		NextQuestion *string `json:"next_question"`
	}{
		Analysis:   result.Analysis,
		IsComplete: result.IsComplete,
	}
	if !result.IsComplete {
		response.NextQuestion = &result.NextQuestion
	}

	utils.RespondJSON(w, http.StatusOK, response)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, sessionNotFoundMessage)
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleInsight(w http.ResponseWriter, r *http.Request) {
	synthesis, err := h.svc.Insight(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, sessionNotFoundMessage)
		return
	}
	utils.RespondJSON(w, http.StatusOK, synthesis)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	filename, err := h.svc.Save(chi.URLParam(r, "sessionID"))
	if err != nil {
		if errors.Is(err, interviewService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, sessionNotFoundMessage)
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message":  "Session saved successfully",
		"filename": filename,
	})
}

func (h *Handler) handleListSaved(w http.ResponseWriter, _ *http.Request) {
	sessions, err := h.svc.SavedSessions()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error listing sessions")
		return
	}
	if sessions == nil {
		sessions = []storage.Summary{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *Handler) handleGetSaved(w http.ResponseWriter, r *http.Request) {
	saved, err := h.svc.SavedSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		if errors.Is(err, interviewService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, sessionNotFoundMessage)
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Error getting session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSaved(chi.URLParam(r, "sessionID")); err != nil {
		if errors.Is(err, interviewService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, sessionNotFoundMessage)
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Error deleting session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Session deleted successfully"})
}
