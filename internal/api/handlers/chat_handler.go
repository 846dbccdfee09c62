package handlers

import (
	"PlantDoc-Backend/domain"
	"PlantDoc-Backend/internal/api/presenters"
	"PlantDoc-Backend/pkg/gemini"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ChatHandler interface {
		Chat(c *fiber.Ctx) error
	}

	chatHandler struct {
		geminiService gemini.GeminiService
		validator     *validator.Validate
	}
)

func NewChatHandler(geminiService gemini.GeminiService, validator *validator.Validate) ChatHandler {
	return &chatHandler{
		geminiService: geminiService,
		validator:     validator,
	}
}

func (h *chatHandler) Chat(c *fiber.Ctx) error {
	language := c.Get("Language", "en")

	req := new(domain.ChatRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedChat, err)
	}

	if strings.TrimSpace(req.Message) == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedChat, domain.ErrEmptyChatMessage)
	}

	if len(req.Message) > domain.MaxChatMessageLength {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedChat, domain.ErrChatMessageTooLong)
	}

	reply := h.geminiService.Chat(c.Context(), req.History, req.Message, language)

	return presenters.SuccessResponse(c, domain.ChatResponse{Reply: reply}, fiber.StatusOK, domain.MessageSuccessChat)
}
