package usecase

import (
	"jared-gpt/internal/model"
	"jared-gpt/pkg/openai"
)

// buildRequest renders the preamble, the stored history and the new question
// into the role-tagged message list. The question always goes last as user.
func buildRequest(modelName, preamble string, history []model.Turn, question string) *openai.Request {
	messages := make([]openai.ChatMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatMessage{Role: string(model.RoleSystem), Content: preamble})
	for _, t := range history {
		messages = append(messages, openai.ChatMessage{Role: string(t.Role), Content: t.Content})
	}
	messages = append(messages, openai.ChatMessage{Role: string(model.RoleUser), Content: question})

	return &openai.Request{Model: modelName, Messages: messages}
}
