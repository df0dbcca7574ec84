package telegram

import (
	"context"

	"hirepulse/internal/notify"

	"go.uber.org/zap"
)

// AdminNotifier pushes plain operational summaries (sync results, cycle
// stats, job failures) to the admin chat. With no admin chat configured it
// degrades to logging only.
type AdminNotifier struct {
	client *Client
	chatID int64
	log    *zap.Logger
}

func NewAdminNotifier(client *Client, chatID int64, log *zap.Logger) *AdminNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	if chatID == 0 {
		log.Warn("ADMIN_CHAT_ID is not set, admin notifications are disabled")
	}
	return &AdminNotifier{client: client, chatID: chatID, log: log}
}

func (n *AdminNotifier) Notify(ctx context.Context, text string) {
	if n == nil || n.chatID == 0 || !n.client.Enabled() {
		n.logFallback(text)
		return
	}
	if err := n.client.Send(ctx, n.chatID, notify.EscapeMarkdown(text), nil); err != nil {
		n.log.Warn("admin notification failed", zap.Error(err))
	}
}

func (n *AdminNotifier) logFallback(text string) {
	if n != nil && n.log != nil {
		n.log.Info("admin notification (channel disabled)", zap.String("text", text))
	}
}
