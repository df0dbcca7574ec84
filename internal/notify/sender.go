package notify

import (
	"context"
	"errors"
)

// ErrRecipientBlocked marks a delivery failure where the recipient has
// blocked or is otherwise unreachable on the messaging channel. The
// dispatcher reacts by deactivating the subscription instead of retrying.
var ErrRecipientBlocked = errors.New("recipient blocked the messaging channel")

type Button struct {
	Label  string
	Action string
}

// Keyboard is rows of inline buttons attached to a notification.
type Keyboard [][]Button

// Sender is the outbound messaging channel.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string, kb Keyboard) error
}
