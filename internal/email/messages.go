// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package email

import (
	"fmt"
	"strings"
	"time"
)

// Contact is the part of a contact message quoted in mails.
type Contact struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactAdminMessage informs the site owner about a new contact request.
// Replies go straight to the sender.
func ContactAdminMessage(to string, c Contact) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Neue Kontaktanfrage über die Website.\n\n")
	fmt.Fprintf(&b, "Name: %s\nE-Mail: %s\nBetreff: %s\n\n", c.Name, c.Email, c.Subject)
	b.WriteString(c.Message)
	b.WriteString("\n")
	return Message{
		To:      to,
		ReplyTo: c.Email,
		Subject: "Neue Kontaktanfrage: " + c.Subject,
		Body:    b.String(),
	}
}

// ContactConfirmationMessage confirms receipt to the sender.
func ContactConfirmationMessage(c Contact) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\n", c.Name)
	b.WriteString("vielen Dank für Ihre Nachricht. Wir melden uns so schnell wie möglich bei Ihnen.\n\n")
	b.WriteString("Ihre Nachricht:\n")
	b.WriteString(quote(c.Message))
	return Message{
		To:      c.Email,
		Subject: "Ihre Anfrage: " + c.Subject,
		Body:    b.String(),
	}
}

// ContactReplyMessage carries an admin reply to the original sender.
func ContactReplyMessage(c Contact, reply string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\n", c.Name)
	b.WriteString(reply)
	b.WriteString("\n\n---\nIhre ursprüngliche Nachricht:\n")
	b.WriteString(quote(c.Message))
	return Message{
		To:      c.Email,
		Subject: "Re: " + c.Subject,
		Body:    b.String(),
	}
}

// PasswordResetMessage sends the reset link.
func PasswordResetMessage(to, name, link string, validFor time.Duration) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\n", name)
	b.WriteString("für Ihr Konto wurde das Zurücksetzen des Passworts angefordert.\n")
	fmt.Fprintf(&b, "Der folgende Link ist %d Minuten gültig:\n\n%s\n\n", int(validFor.Minutes()), link)
	b.WriteString("Falls Sie das nicht angefordert haben, können Sie diese E-Mail ignorieren.\n")
	return Message{
		To:      to,
		Subject: "Passwort zurücksetzen",
		Body:    b.String(),
	}
}

func quote(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
