// Package server implements Herald's HTTP edge: the inbound bot-chat
// endpoint, health checking, and server lifecycle.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/wavechat/herald/internal/bot/command"
	"github.com/wavechat/herald/internal/bot/delivery"
	"github.com/wavechat/herald/internal/config"
	"github.com/wavechat/herald/internal/database"
)

// chatRequest is the inbound request body of the bot-chat endpoint.
type chatRequest struct {
	UserID     string `json:"userId"`
	ChatroomID string `json:"chatroomId,omitempty"`
	Message    string `json:"message"`
}

// chatResponse is the happy-path response body. The HTTP status is 200 even
// when the reply text itself describes a user-facing error such as an
// unknown command.
type chatResponse struct {
	Success     bool    `json:"success"`
	BotResponse *string `json:"botResponse"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// BotHandler processes one inbound chat message: authenticate the bot
// identity, classify, dispatch, deliver.
type BotHandler struct {
	store      database.Store
	dispatcher *command.Dispatcher
	delivery   *delivery.Manager
	bot        config.BotConfig
	logger     *slog.Logger
}

// NewBotHandler creates the handler for the bot-chat endpoint.
func NewBotHandler(
	store database.Store,
	dispatcher *command.Dispatcher,
	deliveryMgr *delivery.Manager,
	botCfg config.BotConfig,
	logger *slog.Logger,
) *BotHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BotHandler{
		store:      store,
		dispatcher: dispatcher,
		delivery:   deliveryMgr,
		bot:        botCfg,
		logger:     logger.With("component", "http"),
	}
}

// NewRouter wires the bot handler and the health check into a mux.
func NewRouter(h *BotHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/bot-chat", h.handleChat)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	return mux
}

func (h *BotHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "Rejected malformed request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.UserID == "" || req.Message == "" {
		h.logger.WarnContext(ctx, "Rejected request with missing fields",
			"has_user_id", req.UserID != "", "has_message", req.Message != "")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "userId and message are required"})
		return
	}

	// The bot identity is stateless from the dispatcher's point of view and
	// re-authenticated on every inbound call.
	if err := h.store.AuthenticateService(ctx, h.bot.ID, h.bot.Secret); err != nil {
		h.logger.ErrorContext(ctx, "Bot authentication failed", "bot_id", h.bot.ID, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "bot authentication failed"})
		return
	}

	botReq := command.NewRequest(req.UserID, req.ChatroomID, req.Message)
	reply := h.dispatcher.Dispatch(ctx, botReq)

	dest := delivery.Destination{RecipientID: req.UserID}
	if req.ChatroomID != "" {
		dest = delivery.Destination{RoomID: req.ChatroomID}
	}

	if err := h.delivery.Deliver(ctx, reply, dest); err != nil {
		h.logger.ErrorContext(ctx, "Failed to deliver reply",
			"user_id", req.UserID, "chatroom_id", req.ChatroomID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to deliver reply"})
		return
	}

	h.logger.InfoContext(ctx, "Processed bot message",
		"user_id", req.UserID,
		"chatroom_id", req.ChatroomID,
		"is_command", botReq.IsCommand,
		"command", botReq.Name,
		"duration", time.Since(startTime))

	writeJSON(w, http.StatusOK, chatResponse{Success: true, BotResponse: &reply})
}

func (h *BotHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}
