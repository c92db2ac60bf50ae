package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/hray3182/LedgerLine/internal/models"
)

// sendTimeout bounds a single transport call so one stuck network send
// cannot stall the caller (the scheduler tick is strictly serialized).
const sendTimeout = 10 * time.Second

// Dispatcher fans a message out to the requested channels. Either sender may
// be nil when the transport is not configured; such channels are skipped with
// a log line instead of failing the whole dispatch.
type Dispatcher struct {
	push  PushSender
	email EmailSender
	log   *logrus.Logger
}

func NewDispatcher(push PushSender, email EmailSender, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{push: push, email: email, log: log}
}

// Configured reports whether at least one transport is available.
func (d *Dispatcher) Configured() bool {
	return d.push != nil || d.email != nil
}

// Dispatch sends the message on every requested channel. Channel failures
// are isolated: each is logged and collected, and the remaining channels are
// still attempted. The aggregated error is returned for the caller to log;
// callers treat delivery as best-effort and do not retry.
func (d *Dispatcher) Dispatch(ctx context.Context, target Target, channels models.Channels, msg Message) error {
	var result *multierror.Error

	for _, ch := range channels {
		var err error
		switch ch {
		case models.ChannelPush:
			err = d.sendPush(ctx, target, msg)
		case models.ChannelEmail:
			err = d.sendEmail(ctx, target, msg)
		default:
			err = fmt.Errorf("unknown channel %q", ch)
		}
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"channel": ch,
				"chat_id": target.ChatID,
			}).Warnf("Failed to deliver notification: %v", err)
			result = multierror.Append(result, fmt.Errorf("%s: %w", ch, err))
		}
	}

	return result.ErrorOrNil()
}

func (d *Dispatcher) sendPush(ctx context.Context, target Target, msg Message) error {
	if d.push == nil {
		return fmt.Errorf("push transport not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	return d.push.SendPush(ctx, target.ChatID, msg.Body)
}

func (d *Dispatcher) sendEmail(ctx context.Context, target Target, msg Message) error {
	if d.email == nil {
		return fmt.Errorf("email transport not configured")
	}
	if target.Email == "" {
		return fmt.Errorf("user has no email address set")
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	return d.email.SendEmail(ctx, target.Email, msg.Subject, msg.Body, msg.HTMLBody)
}
