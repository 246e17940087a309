package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jared-gpt/internal/model"
	pkgLog "jared-gpt/pkg/log"
	pkgResponse "jared-gpt/pkg/response"
	pkgTelegram "jared-gpt/pkg/telegram"
)

const requestIDHeader = "X-Request-ID"

// Webhook statuses reported to metrics.
const (
	statusAccepted     = "accepted"
	statusIgnored      = "ignored"
	statusDuplicate    = "duplicate"
	statusBadRequest   = "bad_request"
	statusForbidden    = "forbidden"
	statusUnauthorized = "unauthorized"
	statusRateLimited  = "rate_limited"
)

// HandleWebhook godoc
// @Summary     Receive a Telegram update
// @Description Acknowledges the update immediately and answers /ask and /clear commands in the background.
// @Tags        Telegram
// @Accept      json
// @Produce     json
// @Param       X-Telegram-Bot-Api-Secret-Token header string false "Secret token set with setWebhook"
// @Param       body body pkgTelegram.Update true "Telegram update"
// @Success     200 {object} pkgResponse.Resp
// @Failure     400 {object} pkgResponse.Resp "Bad Request"
// @Failure     401 {object} pkgResponse.Resp "Unauthorized"
// @Failure     403 {object} pkgResponse.Resp "Forbidden"
// @Failure     429 {object} pkgResponse.Resp "Too Many Requests"
// @Router      /webhook/telegram [POST]
func (h *handler) HandleWebhook(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header(requestIDHeader, requestID)
	ctx := pkgLog.WithRequestID(c.Request.Context(), requestID)

	// ClientIP honours X-Forwarded-For only from the engine's trusted proxies.
	clientIP := c.ClientIP()

	if err := h.security.ValidateIPAddress(clientIP); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		h.metrics.ObserveWebhook(statusForbidden)
		pkgResponse.Forbidden(c)
		return
	}

	if err := h.security.ValidateSecretToken(c.GetHeader(pkgTelegram.SecretTokenHeader)); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		h.metrics.ObserveWebhook(statusUnauthorized)
		pkgResponse.Unauthorized(c)
		return
	}

	if err := h.security.CheckRateLimit(clientIP); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		h.metrics.ObserveWebhook(statusRateLimited)
		pkgResponse.TooManyRequests(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		h.metrics.ObserveWebhook(statusBadRequest)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates (edited_message, channel_post, etc.)
	if update.Message == nil || update.Message.Chat == nil {
		h.metrics.ObserveWebhook(statusIgnored)
		pkgResponse.OK(c, map[string]string{"status": statusIgnored})
		return
	}

	if !h.dedup.FirstSeen(update.UpdateID) {
		h.l.Infof(ctx, "telegram handler: update %d already handled", update.UpdateID)
		h.metrics.ObserveWebhook(statusDuplicate)
		pkgResponse.OK(c, map[string]string{"status": statusDuplicate})
		return
	}

	// Snapshot the message before spawning goroutine to avoid data races on gin context
	msg := toMessage(update.Message, time.Now())

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		h.process(requestID, msg)
	}()

	h.metrics.ObserveWebhook(statusAccepted)
	pkgResponse.OK(c, map[string]string{"status": statusAccepted})
}

// process runs one message detached from the HTTP request, which is
// cancelled as soon as the webhook is acknowledged.
func (h *handler) process(requestID string, msg model.Message) {
	ctx := pkgLog.WithRequestID(context.Background(), requestID)
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	outcome := h.uc.HandleMessage(ctx, msg)
	h.l.Debugf(ctx, "telegram handler: message %s handled: %s", msg.ID, outcome)
}

// Wait blocks until every message accepted so far has been handled, or
// until ctx is done.
func (h *handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// toMessage maps a Telegram message onto the host-neutral model.
func toMessage(m *pkgTelegram.Message, receivedAt time.Time) model.Message {
	return model.Message{
		ID:          fmt.Sprintf("%d:%d", m.Chat.ID, m.MessageID),
		Text:        m.Text,
		Sender:      toSender(m.From),
		Destination: model.Destination{ChatID: m.Chat.ID},
		ReceivedAt:  receivedAt,
	}
}

// toSender identifies users by their numeric Telegram id, never by name.
// Bots and anonymous senders are unknown.
func toSender(u *pkgTelegram.User) model.Sender {
	if u == nil || u.IsBot || u.ID == 0 {
		return model.UnknownSender()
	}
	return model.KnownSender(model.UserID(fmt.Sprintf("telegram_%d", u.ID)))
}
