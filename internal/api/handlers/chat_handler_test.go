package handlers

import (
	"PlantDoc-Backend/domain"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeminiService struct {
	reply string
	calls int
}

func (s *stubGeminiService) GetAdvisory(_ context.Context, _ string, language string) domain.Advisory {
	return domain.Advisory{Language: language}
}

func (s *stubGeminiService) Chat(_ context.Context, _ []domain.ChatTurn, _ string, _ string) string {
	s.calls++
	return s.reply
}

func newChatApp(service *stubGeminiService) *fiber.App {
	app := fiber.New()
	handler := NewChatHandler(service, validator.New())
	app.Post("/api/v1/chat", handler.Chat)
	return app
}

func postChat(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestChatHandlerRepliesToValidMessage(t *testing.T) {
	service := &stubGeminiService{reply: "Water at soil level."}
	app := newChatApp(service)

	status, payload := postChat(t, app, `{"message": "Why are my leaves yellow?"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, service.calls)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "Water at soil level.", data["reply"])
}

func TestChatHandlerRejectsWhitespaceMessage(t *testing.T) {
	service := &stubGeminiService{}
	app := newChatApp(service)

	status, payload := postChat(t, app, `{"message": "   "}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Zero(t, service.calls)
	assert.Contains(t, payload["error"], "must not be empty")
}

func TestChatHandlerRejectsOverlongMessage(t *testing.T) {
	service := &stubGeminiService{}
	app := newChatApp(service)

	message := strings.Repeat("a", domain.MaxChatMessageLength+1)
	status, payload := postChat(t, app, `{"message": "`+message+`"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Zero(t, service.calls)
	assert.Contains(t, payload["error"], "exceeds maximum length")
}
