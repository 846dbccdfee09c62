package domain

import (
	"errors"
)

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"

	// MaxChatMessageLength bounds a single user message.
	MaxChatMessageLength = 4096
)

var (
	MessageSuccessChat = "chat reply generated successfully"
	MessageFailedChat  = "failed to process chat message"

	ErrEmptyChatMessage   = errors.New("chat message must not be empty")
	ErrChatMessageTooLong = errors.New("chat message exceeds maximum length")
)

type (
	// ChatTurn carries exactly one unit of text for one side of the exchange.
	ChatTurn struct {
		Role string `json:"role" validate:"required,oneof=user model"`
		Text string `json:"text" validate:"required"`
	}

	ChatRequest struct {
		History []ChatTurn `json:"history" validate:"omitempty,dive"`
		Message string     `json:"message" validate:"required"`
	}

	ChatResponse struct {
		Reply string `json:"reply"`
	}
)
