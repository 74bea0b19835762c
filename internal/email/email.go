// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package email delivers plain-text notification mails over SMTP.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned by the disabled sender.
var ErrNotConfigured = errors.New("email delivery is not configured")

// Message is a plain-text email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// Secure selects implicit TLS; otherwise STARTTLS is used when offered.
	Secure  bool
	From    string
	Timeout time.Duration
}

// SMTPSender sends mail through a single SMTP relay. A connection is
// opened per message.
type SMTPSender struct {
	cfg    Config
	logger *slog.Logger
}

// NewSMTPSender validates cfg and returns a sender.
func NewSMTPSender(cfg Config, logger *slog.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}
	if cfg.From == "" {
		return nil, errors.New("email sender address is empty")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{cfg: cfg, logger: logger}, nil
}

// Send delivers msg and returns the provider error unchanged when it fails.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.Warn("email delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
		return fmt.Errorf("sending email: %w", err)
	}

	s.logger.Debug("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *SMTPSender) build(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.cfg.Timeout),
	}
	if s.cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

// DisabledSender fails every delivery with ErrNotConfigured.
type DisabledSender struct{}

// Send implements Sender.
func (DisabledSender) Send(context.Context, Message) error {
	return ErrNotConfigured
}

// New returns an SMTP sender for cfg, or a DisabledSender when no host is set.
func New(cfg Config, logger *slog.Logger) (Sender, error) {
	if cfg.Host == "" {
		if logger != nil {
			logger.Warn("SMTP host not configured, outgoing email is disabled")
		}
		return DisabledSender{}, nil
	}
	return NewSMTPSender(cfg, logger)
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = DisabledSender{}
)
