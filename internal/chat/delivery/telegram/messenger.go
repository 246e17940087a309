package telegram

import (
	"context"

	"jared-gpt/internal/chat"
	"jared-gpt/internal/model"
	pkgTelegram "jared-gpt/pkg/telegram"
)

type messenger struct {
	bot *pkgTelegram.Bot
}

// NewMessenger adapts a Telegram bot to the chat Messenger.
func NewMessenger(bot *pkgTelegram.Bot) chat.Messenger {
	return &messenger{bot: bot}
}

func (m *messenger) Send(ctx context.Context, text string, to model.Destination) error {
	return m.bot.SendMessage(ctx, to.ChatID, text)
}
