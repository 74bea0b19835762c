// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNew_DisabledWithoutHost(t *testing.T) {
	s, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Send(context.Background(), Message{To: "a@example.com"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Send = %v, want ErrNotConfigured", err)
	}
}

func TestNewSMTPSender(t *testing.T) {
	if _, err := NewSMTPSender(Config{Host: "smtp.example.com"}, nil); err == nil {
		t.Error("missing From should be rejected")
	}

	s, err := NewSMTPSender(Config{Host: "smtp.example.com", From: "cms@example.com"}, nil)
	if err != nil {
		t.Fatalf("NewSMTPSender: %v", err)
	}
	if s.cfg.Port != 587 || s.cfg.Timeout != 15*time.Second {
		t.Errorf("defaults not applied: %+v", s.cfg)
	}
}

func TestSMTPSender_InvalidRecipientFailsBeforeDialing(t *testing.T) {
	s, _ := NewSMTPSender(Config{Host: "smtp.invalid", From: "cms@example.com"}, nil)
	err := s.Send(context.Background(), Message{To: "not an address", Subject: "x", Body: "y"})
	if err == nil || !strings.Contains(err.Error(), "recipient") {
		t.Errorf("Send = %v, want recipient error", err)
	}
}

func TestContactMessages(t *testing.T) {
	c := Contact{Name: "Erika", Email: "erika@example.com", Subject: "Angebot", Message: "Zeile 1\nZeile 2"}

	admin := ContactAdminMessage("owner@example.com", c)
	if admin.To != "owner@example.com" || admin.ReplyTo != c.Email {
		t.Errorf("admin addressing = %+v", admin)
	}
	if !strings.Contains(admin.Body, "Zeile 2") || !strings.Contains(admin.Subject, "Angebot") {
		t.Errorf("admin body = %q", admin.Body)
	}

	confirm := ContactConfirmationMessage(c)
	if confirm.To != c.Email {
		t.Errorf("confirmation To = %q", confirm.To)
	}
	if !strings.Contains(confirm.Body, "> Zeile 1\n> Zeile 2") {
		t.Errorf("confirmation does not quote message: %q", confirm.Body)
	}

	reply := ContactReplyMessage(c, "Danke!")
	if reply.Subject != "Re: Angebot" || !strings.HasPrefix(reply.Body, "Hallo Erika,\n\nDanke!") {
		t.Errorf("reply = %+v", reply)
	}
}

func TestPasswordResetMessage(t *testing.T) {
	m := PasswordResetMessage("u@example.com", "Uwe", "https://site/reset-password?token=abc", time.Hour)
	if m.To != "u@example.com" {
		t.Errorf("To = %q", m.To)
	}
	if !strings.Contains(m.Body, "https://site/reset-password?token=abc") || !strings.Contains(m.Body, "60 Minuten") {
		t.Errorf("Body = %q", m.Body)
	}
}
