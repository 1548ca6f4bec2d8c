package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/insightwave/interviewer/backend/internal/settings"
	"github.com/insightwave/interviewer/backend/pkg/utils"
)

// Handler exposes the interview settings over HTTP.
type Handler struct {
	store *settings.FileStore
}

// New creates the settings handler.
func New(store *settings.FileStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the settings routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/config", h.handleGet)
	r.Post("/config", h.handleUpdate)
	r.Get("/config/export", h.handleExport)
	r.Post("/config/import", h.handleImport)
	r.Post("/config/reset", h.handleReset)
	r.Get("/config/default/question_prompt", h.handleDefaultQuestionPrompt)
	r.Get("/config/default/analysis_prompt", h.handleDefaultAnalysisPrompt)
}

func (h *Handler) handleGet(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Load())
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch settings.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.store.Update(patch); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error updating config")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Config updated successfully"})
}

func (h *Handler) handleExport(w http.ResponseWriter, _ *http.Request) {
	data, err := json.MarshalIndent(h.store.Load(), "", "  ")
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error exporting config")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="interviewer_config.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	var imported settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&imported); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.Replace(imported); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error importing config")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Config imported successfully"})
}

func (h *Handler) handleReset(w http.ResponseWriter, _ *http.Request) {
	if _, err := h.store.Reset(); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error resetting config")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Config reset to default"})
}

func (h *Handler) handleDefaultQuestionPrompt(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"prompt": h.store.Defaults().QuestionPrompt})
}

func (h *Handler) handleDefaultAnalysisPrompt(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"prompt": h.store.Defaults().AnalysisPrompt})
}
