package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jared-gpt/internal/chat"
	"jared-gpt/internal/command"
	"jared-gpt/internal/model"
	pkgLog "jared-gpt/pkg/log"
	"jared-gpt/pkg/openai"
)

// HandleMessage parses the message and runs the matching command.
// Every path ends in exactly one reply.
func (uc *implUseCase) HandleMessage(ctx context.Context, msg model.Message) chat.Outcome {
	text, ok := msg.TextBody()
	if !ok {
		uc.l.Debugf(ctx, "%s: %v", LogPrefixHandleMessage, chat.ErrNoTextBody)
		return uc.finish(ctx, msg, command.KindUnrecognized.String(), chat.OutcomeInvalid, chat.ReplyInvalid)
	}

	cmd := command.Parse(text)
	switch cmd.Kind {
	case command.KindAsk:
		return uc.ask(ctx, msg, text, cmd)
	case command.KindClear:
		return uc.clear(ctx, msg)
	default:
		return uc.finish(ctx, msg, cmd.Kind.String(), chat.OutcomeUnrecognized, chat.ReplyUnknownCommand)
	}
}

func (uc *implUseCase) ask(ctx context.Context, msg model.Message, text string, cmd command.Command) chat.Outcome {
	kind := cmd.Kind.String()

	if cmd.Err != nil {
		return uc.finish(ctx, msg, kind, chat.OutcomeEmptyQuestion, chat.ReplyEmptyQuestion)
	}

	user, ok := msg.Sender.UserID()
	if !ok {
		uc.l.Warnf(ctx, "%s: %v (message %s)", LogPrefixAsk, chat.ErrUnidentifiableSender, msg.ID)
		return uc.finish(ctx, msg, kind, chat.OutcomeUnidentifiable, chat.ReplyUnidentifiable)
	}
	ctx = pkgLog.WithUserID(ctx, string(user))

	// History is read before the call; nothing is written until it succeeds.
	history := uc.repo.Get(ctx, user)
	req := buildRequest(uc.model, uc.preamble, history, cmd.Question)

	start := time.Now()
	outcome := chat.OutcomeFailed
	var res openai.Result
	select {
	case res = <-openai.Dispatch(ctx, uc.llm, req):
	case <-ctx.Done():
		// Deadline or shutdown: reported to the user as unreachable.
		outcome = chat.OutcomeCancelled
		res = openai.Result{Err: fmt.Errorf("%w: %v", openai.ErrUnreachable, context.Cause(ctx))}
	}
	uc.metrics.ObserveCompletion(openai.Kind(res.Err), time.Since(start).Seconds())

	if res.Err != nil {
		uc.l.Errorf(ctx, "%s: completion failed (history=%d): %v", LogPrefixAsk, len(history), res.Err)
		return uc.finish(ctx, msg, kind, outcome, replyForError(res.Err))
	}

	uc.send(ctx, msg.Destination, res.Text)

	turns := []model.Turn{{
		Role:      model.RoleUser,
		Content:   strings.TrimSpace(text),
		MessageID: msg.ID,
		CreatedAt: msg.ReceivedAt,
	}}
	if uc.recordReplies {
		turns = append(turns, model.Turn{
			Role:      model.RoleAssistant,
			Content:   res.Text,
			MessageID: msg.ID,
			CreatedAt: time.Now(),
		})
	}
	uc.repo.Append(ctx, user, turns...)

	uc.l.Infof(ctx, "%s: replied in %s (history=%d)", LogPrefixAsk, time.Since(start), len(history))
	uc.metrics.ObserveOutcome(kind, string(chat.OutcomeReplied))
	return chat.OutcomeReplied
}

func (uc *implUseCase) clear(ctx context.Context, msg model.Message) chat.Outcome {
	kind := command.KindClear.String()

	user, ok := msg.Sender.UserID()
	if !ok {
		uc.l.Warnf(ctx, "%s: %v (message %s)", LogPrefixClear, chat.ErrUnidentifiableSender, msg.ID)
		return uc.finish(ctx, msg, kind, chat.OutcomeUnidentifiable, chat.ReplyUnidentifiable)
	}
	ctx = pkgLog.WithUserID(ctx, string(user))

	uc.repo.Clear(ctx, user)
	uc.l.Infof(ctx, "%s: history cleared", LogPrefixClear)
	return uc.finish(ctx, msg, kind, chat.OutcomeCleared, chat.ReplyCleared)
}
