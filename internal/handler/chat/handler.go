package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sridharsri/consultancy/backend/internal/model/chat"
	"github.com/sridharsri/consultancy/backend/internal/resolver"
	chatservice "github.com/sridharsri/consultancy/backend/internal/service/chat"
	"github.com/sridharsri/consultancy/backend/pkg/utils"
)

// Handler serves the chat endpoint consumed by the widget's remote
// resolver.
type Handler struct {
	chatSvc *chatservice.Service
	res     resolver.Resolver
}

// New creates the chat handler bound to the deployment's resolver.
func New(chatSvc *chatservice.Service, res resolver.Resolver) *Handler {
	return &Handler{chatSvc: chatSvc, res: res}
}

// RegisterRoutes registers chat routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/{conversationID}/messages", h.handleTranscript)
}

// handleChat answers one question within a conversation. The body carries
// {question, conversation_id}; a blank conversation id provisions a new
// one so stateless clients still work.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question       string `json:"question"`
		ConversationID string `json:"conversation_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question := strings.TrimSpace(payload.Question)
	if question == "" {
		utils.RespondError(w, http.StatusBadRequest, "question is required")
		return
	}

	conversationID := strings.TrimSpace(payload.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if _, err := h.chatSvc.EnsureSession(r.Context(), conversationID); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	if err := h.chatSvc.SaveMessage(r.Context(), chat.Message{
		ConversationID: conversationID,
		Sender:         chat.SenderUser,
		Text:           question,
	}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to record message")
		return
	}

	answer, err := h.res.Resolve(r.Context(), conversationID, question)
	if err != nil {
		log.Printf("[chat] resolver failed for conversation=%s: %v", conversationID, err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}

	if err := h.chatSvc.SaveMessage(r.Context(), chat.Message{
		ConversationID: conversationID,
		Sender:         chat.SenderBot,
		Text:           answer,
	}); err != nil {
		log.Printf("[chat] failed to record reply for conversation=%s: %v", conversationID, err)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"response":        answer,
		"conversation_id": conversationID,
	})
}

// handleTranscript returns the stored transcript of a conversation.
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	messages, err := h.chatSvc.LoadTranscript(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, chatservice.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "conversation not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load transcript")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": messages,
	})
}
