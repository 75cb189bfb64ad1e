// Package sms delivers one-time codes over a Fast2SMS-compatible gateway.
package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/vanyajewels/storefront/config"
	"github.com/vanyajewels/storefront/pkg/httpclient"
	"github.com/vanyajewels/storefront/pkg/logger"
)

// Sender sends an OTP to a phone number. The noop implementation backs
// local development and tests.
type Sender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// NewSender returns the gateway sender when an API key is configured, and
// the logging noop sender otherwise.
func NewSender() Sender {
	if config.SMSAPIKey() == "" {
		return NoopSender{}
	}
	return &GatewaySender{
		url:    config.SMSGatewayURL(),
		apiKey: config.SMSAPIKey(),
	}
}

// GatewaySender posts the OTP route payload the gateway expects.
type GatewaySender struct {
	url    string
	apiKey string
}

func (s *GatewaySender) SendOTP(ctx context.Context, phone, code string) error {
	resp, err := httpclient.Post(s.url).
		Header("authorization", s.apiKey).
		Body(map[string]string{
			"variables_values": code,
			"route":            "otp",
			"numbers":          phone,
		}).
		Retry(2, 500*time.Millisecond).
		Send(ctx)
	if err != nil {
		return fmt.Errorf("sms: send otp: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("sms: gateway status %d", resp.StatusCode)
	}
	return nil
}

// NoopSender logs the code instead of sending it.
type NoopSender struct{}

func (NoopSender) SendOTP(ctx context.Context, phone, code string) error {
	logger.WithCtx(ctx).Info("sms disabled, otp logged", "phone", phone, "otp", code)
	return nil
}
