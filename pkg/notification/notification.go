// Package notification routes a single notification to one or more delivery
// channels. A notification declares the channels it wants via Via and
// provides a payload per channel.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanyajewels/storefront/pkg/logger"
	"github.com/vanyajewels/storefront/pkg/mail"
	"github.com/vanyajewels/storefront/pkg/sms"
)

// Channel names.
const (
	ChannelSMS  = "sms"
	ChannelMail = "mail"
)

// SMSPayload is what the sms channel delivers.
type SMSPayload struct {
	Phone string
	Code  string
}

// MailPayload is what the mail channel delivers.
type MailPayload struct {
	To      string
	Subject string
	Body    string
}

// Notification is implemented by anything deliverable through the dispatcher.
type Notification interface {
	Via() []string
	ToSMS() SMSPayload
	ToMail() MailPayload
}

// Dispatcher fans a notification out to its channels.
type Dispatcher struct {
	sms sms.Sender
}

// NewDispatcher builds a dispatcher with the configured SMS sender.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{sms: sms.NewSender()}
}

// NewDispatcherWith injects a specific SMS sender, for tests.
func NewDispatcherWith(sender sms.Sender) *Dispatcher {
	return &Dispatcher{sms: sender}
}

// Send delivers the notification on every channel it names. Channel failures
// are collected; a failure on one channel does not stop the others.
func (d *Dispatcher) Send(ctx context.Context, n Notification) error {
	var errs []error
	for _, channel := range n.Via() {
		switch channel {
		case ChannelSMS:
			p := n.ToSMS()
			if err := d.sms.SendOTP(ctx, p.Phone, p.Code); err != nil {
				errs = append(errs, err)
			}
		case ChannelMail:
			p := n.ToMail()
			if err := mail.To(p.To).Subject(p.Subject).Body(p.Body).Send(); err != nil {
				errs = append(errs, err)
			}
		default:
			logger.Warn("notification: unknown channel", "channel", channel)
			errs = append(errs, fmt.Errorf("notification: unknown channel %q", channel))
		}
	}
	return errors.Join(errs...)
}
