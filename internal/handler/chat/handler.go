package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ErikSvetich/treeline-assistant/internal/model/chat"
	"github.com/ErikSvetich/treeline-assistant/internal/model/persona"
	"github.com/ErikSvetich/treeline-assistant/internal/service/ai"
	chatService "github.com/ErikSvetich/treeline-assistant/internal/service/chat"
	"github.com/ErikSvetich/treeline-assistant/pkg/utils"
)

// Handler exposes the chat cycle over HTTP.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts session, chat, and history routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/chat", h.handleChat)
	r.Get("/history/{sessionID}", h.handleHistory)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.chatSvc.NewSession(r.Context())
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Persona   string `json:"persona"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	exchange, err := h.chatSvc.Submit(r.Context(), payload.SessionID, payload.Persona, payload.Message)
	if err != nil {
		h.respondSubmitError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, exchange)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	response := struct {
		SessionID string      `json:"sessionId"`
		Turns     []chat.Turn `json:"turns"`
		Warning   string      `json:"warning,omitempty"`
	}{SessionID: sessionID}

	turns, err := h.chatSvc.History(r.Context(), sessionID)
	if err != nil {
		// Degraded, not fatal: the caller gets an empty transcript plus a notice.
		response.Warning = "failed to load history"
	}
	response.Turns = turns

	utils.RespondJSON(w, http.StatusOK, response)
}

func (h *Handler) respondSubmitError(w http.ResponseWriter, err error) {
	if errors.Is(err, persona.ErrUnknownPersona) {
		utils.RespondError(w, http.StatusBadRequest, "persona not found")
		return
	}

	var genErr *ai.GenerationError
	if errors.As(err, &genErr) {
		utils.RespondError(w, http.StatusBadGateway, genErr.Error())
		return
	}

	utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
}
