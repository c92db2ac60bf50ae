// Package notify delivers messages to users over their configured channels.
// Transports (Telegram push, SMTP email) are hidden behind small interfaces;
// the Dispatcher fans one message out per channel with failure isolation so
// a dead transport never blocks the others.
package notify

import "context"

// Target identifies where a message can be delivered for one user.
type Target struct {
	ChatID int64  // Telegram chat, push channel
	Email  string // empty when the user has not set an address
}

// Message is a channel-agnostic notification payload. HTMLBody is optional
// and only used by the email channel.
type Message struct {
	Subject  string
	Body     string
	HTMLBody string
}

type PushSender interface {
	SendPush(ctx context.Context, chatID int64, text string) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) error
}
