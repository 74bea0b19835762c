// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/ocms-api/internal/email"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
	"github.com/olegiv/ocms-api/internal/util"
)

// Field limits of the public contact form.
const (
	maxContactNameLength    = 100
	maxContactSubjectLength = 200
	maxContactMessageLength = 5000
)

// followUpTimeout bounds each follow-up of a submission. The follow-ups run
// concurrently, so a hanging mail relay costs the request at most this long.
const followUpTimeout = 10 * time.Second

var errNoAdminRecipient = errors.New("no admin recipient configured")

// SubmitInput is a public contact form submission.
type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Outcome reports one follow-up action of a submission.
type Outcome struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func outcomeOf(err error) Outcome {
	if err != nil {
		return Outcome{Error: err.Error()}
	}
	return Outcome{Success: true}
}

// SubmitResult is the stored message plus the outcome of each follow-up.
// The submission counts as successful once Message is stored.
type SubmitResult struct {
	Message      store.ContactMessage
	AdminEmail   Outcome
	Confirmation Outcome
	Notification Outcome
}

// ContactUpdate holds fields an admin may set directly.
type ContactUpdate struct {
	Status     *string
	AdminReply *string
}

// ContactService runs the contact intake pipeline.
type ContactService struct {
	queries       *store.Queries
	sender        email.Sender
	notifications *NotificationService
	adminEmail    string
	logger        *slog.Logger
	now           func() time.Time
	followUp      time.Duration
}

// NewContactService creates a ContactService. adminEmail receives a copy of
// every submission.
func NewContactService(db *sql.DB, sender email.Sender, notifications *NotificationService, adminEmail string, logger *slog.Logger) *ContactService {
	return &ContactService{
		queries:       store.New(db),
		sender:        sender,
		notifications: notifications,
		adminEmail:    adminEmail,
		logger:        logger,
		now:           utcNow,
		followUp:      followUpTimeout,
	}
}

// Submit validates and stores a submission, then sends the admin email and
// the confirmation and creates an internal notification. These three run
// concurrently, each with its own timeout, detached from ctx's deadline;
// their failures are reported and never undo the message.
func (s *ContactService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if in.Subject == "" {
		in.Subject = model.DefaultContactSubject
	}
	if err := validateSubmission(in); err != nil {
		return nil, err
	}

	now := s.now()
	msg, err := s.queries.CreateContactMessage(ctx, store.CreateContactMessageParams{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    model.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("storing contact message: %w", err)
	}

	contact := email.Contact{Name: msg.Name, Email: msg.Email, Subject: msg.Subject, Message: msg.Message}
	res := &SubmitResult{Message: msg}

	// The message is stored; its follow-ups must not share a deadline or be
	// cut short by the client going away.
	base := context.WithoutCancel(ctx)
	var g errgroup.Group
	run := func(out *Outcome, action func(context.Context) error) {
		g.Go(func() error {
			actx, cancel := context.WithTimeout(base, s.followUp)
			defer cancel()
			*out = outcomeOf(action(actx))
			return nil
		})
	}
	run(&res.AdminEmail, func(ctx context.Context) error {
		return s.notifyAdmin(ctx, contact)
	})
	run(&res.Confirmation, func(ctx context.Context) error {
		return s.sender.Send(ctx, email.ContactConfirmationMessage(contact))
	})
	run(&res.Notification, func(ctx context.Context) error {
		return s.createNotification(ctx, msg, now)
	})
	_ = g.Wait()

	s.logger.Info("contact message received",
		"id", msg.ID,
		"admin_email", res.AdminEmail.Success,
		"confirmation", res.Confirmation.Success,
		"notification", res.Notification.Success,
	)
	return res, nil
}

func validateSubmission(in SubmitInput) error {
	v := &ValidationError{}
	switch {
	case in.Name == "":
		v.Add("name", "is required")
	case len(in.Name) > maxContactNameLength:
		v.Add("name", fmt.Sprintf("must be at most %d characters", maxContactNameLength))
	}
	if in.Email == "" {
		v.Add("email", "is required")
	} else if !isEmail(in.Email) {
		v.Add("email", "is not a valid email address")
	}
	if len(in.Subject) > maxContactSubjectLength {
		v.Add("subject", fmt.Sprintf("must be at most %d characters", maxContactSubjectLength))
	}
	switch {
	case in.Message == "":
		v.Add("message", "is required")
	case len(in.Message) > maxContactMessageLength:
		v.Add("message", fmt.Sprintf("must be at most %d characters", maxContactMessageLength))
	}
	return v.Err()
}

// isEmail accepts a bare address and rejects display-name forms.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}

func (s *ContactService) notifyAdmin(ctx context.Context, c email.Contact) error {
	if s.adminEmail == "" {
		return errNoAdminRecipient
	}
	return s.sender.Send(ctx, email.ContactAdminMessage(s.adminEmail, c))
}

func (s *ContactService) createNotification(ctx context.Context, msg store.ContactMessage, now time.Time) error {
	data, err := json.Marshal(map[string]any{
		"contact_id": msg.ID,
		"name":       msg.Name,
		"email":      msg.Email,
	})
	if err != nil {
		return err
	}
	expires := now.Add(model.ContactNotificationTTL)
	_, err = s.notifications.Create(ctx, NotificationInput{
		Type:      model.NotificationContact,
		Title:     "Neue Kontaktanfrage",
		Message:   fmt.Sprintf("%s (%s): %s", msg.Name, msg.Email, msg.Subject),
		Data:      data,
		Priority:  model.PriorityHigh,
		ExpiresAt: &expires,
	})
	return err
}

// Reply emails text to the sender of message id. The reply is stored and
// the message marked answered only after the mail was accepted; on a
// delivery failure nothing changes and the error wraps ErrDelivery.
func (s *ContactService) Reply(ctx context.Context, id int64, text string) (store.ContactMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.ContactMessage{}, invalid("reply", "is required")
	}

	msg, err := s.queries.GetContactMessageByID(ctx, id)
	if err != nil {
		return store.ContactMessage{}, storeErr(err, "loading contact message")
	}

	contact := email.Contact{Name: msg.Name, Email: msg.Email, Subject: msg.Subject, Message: msg.Message}
	if err := s.sender.Send(ctx, email.ContactReplyMessage(contact, text)); err != nil {
		return store.ContactMessage{}, fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	now := s.now()
	updated, err := s.queries.UpdateContactMessage(ctx, store.UpdateContactMessageParams{
		Status:     model.ContactStatusAnswered,
		AdminReply: sql.NullString{String: text, Valid: true},
		RepliedAt:  sql.NullTime{Time: now, Valid: true},
		UpdatedAt:  now,
		ID:         id,
	})
	if err != nil {
		s.logger.Error("reply sent but not stored", "id", id, "error", err)
		return store.ContactMessage{}, storeErr(err, "storing reply")
	}
	return updated, nil
}

// List returns contact messages, optionally with one status only.
func (s *ContactService) List(ctx context.Context, status string) ([]store.ContactMessage, error) {
	if status != "" && !model.IsValidContactStatus(status) {
		return nil, invalid("status", "must be one of "+strings.Join(model.ValidContactStatuses, ", "))
	}
	msgs, err := s.queries.ListContactMessages(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	return msgs, nil
}

// Counts returns the number of messages per status.
func (s *ContactService) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(model.ValidContactStatuses))
	for _, st := range model.ValidContactStatuses {
		n, err := s.queries.CountContactMessagesByStatus(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("counting contact messages: %w", err)
		}
		counts[st] = n
	}
	return counts, nil
}

// Get returns one contact message.
func (s *ContactService) Get(ctx context.Context, id int64) (store.ContactMessage, error) {
	msg, err := s.queries.GetContactMessageByID(ctx, id)
	return msg, storeErr(err, "loading contact message")
}

// Update sets status and reply text directly, without sending anything.
func (s *ContactService) Update(ctx context.Context, id int64, in ContactUpdate) (store.ContactMessage, error) {
	if in.Status != nil && !model.IsValidContactStatus(*in.Status) {
		return store.ContactMessage{}, invalid("status", "must be one of "+strings.Join(model.ValidContactStatuses, ", "))
	}

	msg, err := s.queries.GetContactMessageByID(ctx, id)
	if err != nil {
		return store.ContactMessage{}, storeErr(err, "loading contact message")
	}

	msg.Status = valueOr(in.Status, msg.Status)
	if in.AdminReply != nil {
		msg.AdminReply = util.NullStringFromValue(*in.AdminReply)
	}

	updated, err := s.queries.UpdateContactMessage(ctx, store.UpdateContactMessageParams{
		Status:     msg.Status,
		AdminReply: msg.AdminReply,
		RepliedAt:  msg.RepliedAt,
		UpdatedAt:  s.now(),
		ID:         id,
	})
	return updated, storeErr(err, "updating contact message")
}

// Delete removes a contact message.
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteContactMessage(ctx, id)
	return affected(n, err, "deleting contact message")
}
