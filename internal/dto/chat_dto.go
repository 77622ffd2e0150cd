package dto

import "time"

// ChatRequest is the body of POST /chat. Text must be present but may be
// empty. A nil ContextFiles searches every document; an empty list searches
// none.
type ChatRequest struct {
	Text         *string  `json:"text" validate:"required"`
	ContextFiles []string `json:"context_files" validate:"omitempty,dive,required"`
}

type ChatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChatResponse(text string) *ChatResponse {
	return &ChatResponse{Response: text, Timestamp: time.Now()}
}
