package handler

import (
	"errors"
	"io"
	"strings"

	"fin-advisor/internal/delivery/http/dto"
	"fin-advisor/internal/delivery/http/middleware"
	"fin-advisor/internal/infrastructure/agent"
	"fin-advisor/internal/pkg/response"
	"fin-advisor/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Voice uploads are capped well above anything a browser recorder produces
// for a single utterance.
const maxAudioBytes = 16 << 20

type ChatHandler struct {
	uc usecase.ChatUsecase
}

type sendMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func NewChatHandler(uc usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/send", h.Send)
	r.Post("/voice", h.SendVoice)
	r.Get("/history", h.ListHistories)
	r.Delete("/history", h.ClearHistories)
	r.Get("/history/:session_id", h.GetHistory)
	r.Delete("/history/:session_id", h.DeleteHistory)
}

func (h *ChatHandler) Send(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req sendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if strings.TrimSpace(req.Message) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Message is required", nil, nil)
	}

	res, err := h.uc.Send(c.Context(), usecase.SendInput{
		UserID:    userID,
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		return mapChatError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, newChatSendResponse(res))
}

func (h *ChatHandler) SendVoice(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	fh, err := c.FormFile("audio")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Audio file is required", nil, err)
	}
	if fh.Size > maxAudioBytes {
		return middleware.NewAppError(fiber.StatusBadRequest, "Audio file too large", nil, nil)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Audio file unreadable", nil, err)
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, maxAudioBytes+1))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Audio file unreadable", nil, err)
	}
	if len(audio) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Audio file is empty", nil, nil)
	}

	res, err := h.uc.Send(c.Context(), usecase.SendInput{
		UserID:           userID,
		SessionID:        c.FormValue("session_id"),
		Audio:            audio,
		AudioFilename:    fh.Filename,
		AudioContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		return mapChatError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, newChatSendResponse(res))
}

func (h *ChatHandler) ListHistories(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListHistories(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	res := make([]dto.HistorySummaryResponse, 0, len(items))
	for _, h := range items {
		res = append(res, dto.NewHistorySummaryResponse(h))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ChatHandler) GetHistory(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	hist, err := h.uc.GetHistory(c.Context(), userID, c.Params("session_id"))
	if err != nil {
		return mapChatError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewHistoryResponse(hist))
}

func (h *ChatHandler) DeleteHistory(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	if err := h.uc.DeleteHistory(c.Context(), userID, c.Params("session_id")); err != nil {
		return mapChatError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *ChatHandler) ClearHistories(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	if err := h.uc.ClearHistories(c.Context(), userID); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func newChatSendResponse(res usecase.SendResult) dto.ChatSendResponse {
	return dto.ChatSendResponse{
		SessionID:    res.SessionID,
		UserMessage:  dto.NewMessageResponse(res.UserMessage),
		Reply:        dto.NewMessageResponse(res.Reply),
		RequiresAuth: res.RequiresAuth,
		AuthURL:      res.AuthURL,
		AuthMessage:  res.AuthMessage,
	}
}

func mapChatError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrHistoryNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Chat history not found", nil, err)
	case errors.Is(err, agent.ErrSessionExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Session expired, please sign in to the advisor again", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
