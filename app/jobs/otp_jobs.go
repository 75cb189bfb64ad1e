// Package jobs holds the background queue jobs. OTP delivery runs here so
// a slow SMS gateway or SMTP server never stalls an auth request.
package jobs

import (
	"context"
	"fmt"

	"github.com/vanyajewels/storefront/pkg/notification"
	"github.com/vanyajewels/storefront/pkg/queue"
)

func init() {
	queue.Register("otp.sms", func() queue.Job { return &SendSMSOTPJob{} })
	queue.Register("otp.email", func() queue.Job { return &SendEmailOTPJob{} })
}

// SendSMSOTPJob delivers a one-time code over the SMS gateway.
type SendSMSOTPJob struct {
	Phone   string `json:"phone"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

func (j *SendSMSOTPJob) Name() string { return "otp.sms" }

func (j *SendSMSOTPJob) Handle(ctx context.Context) error {
	return notification.NewDispatcher().Send(ctx, j)
}

func (j *SendSMSOTPJob) Via() []string { return []string{notification.ChannelSMS} }

func (j *SendSMSOTPJob) ToSMS() notification.SMSPayload {
	return notification.SMSPayload{Phone: j.Phone, Code: j.Code}
}

func (j *SendSMSOTPJob) ToMail() notification.MailPayload { return notification.MailPayload{} }

// SendEmailOTPJob delivers a one-time code to the user's email address.
type SendEmailOTPJob struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (j *SendEmailOTPJob) Name() string { return "otp.email" }

func (j *SendEmailOTPJob) Handle(ctx context.Context) error {
	return notification.NewDispatcher().Send(ctx, j)
}

func (j *SendEmailOTPJob) Via() []string { return []string{notification.ChannelMail} }

func (j *SendEmailOTPJob) ToSMS() notification.SMSPayload { return notification.SMSPayload{} }

func (j *SendEmailOTPJob) ToMail() notification.MailPayload {
	return notification.MailPayload{
		To:      j.Email,
		Subject: "Your Vanya Jewels verification code",
		Body: fmt.Sprintf(
			"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in 10 minutes.</p>",
			j.Code,
		),
	}
}

// QueueDeliverer sends codes by enqueueing the jobs above. It is the
// production implementation of the auth service's OTP delivery.
type QueueDeliverer struct{}

// NewQueueDeliverer returns the queue-backed deliverer.
func NewQueueDeliverer() *QueueDeliverer { return &QueueDeliverer{} }

func (QueueDeliverer) SendSMS(ctx context.Context, phone, code, purpose string) error {
	return queue.Dispatch(&SendSMSOTPJob{Phone: phone, Code: code, Purpose: purpose})
}

func (QueueDeliverer) SendEmail(ctx context.Context, email, code string) error {
	return queue.Dispatch(&SendEmailOTPJob{Email: email, Code: code})
}
