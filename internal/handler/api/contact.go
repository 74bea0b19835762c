// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/ocms-api/internal/service"
)

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitResponse is the stored message and how each follow-up went. The
// submission succeeded even when some follow-ups failed.
type SubmitResponse struct {
	Message      ContactMessageResponse `json:"message"`
	AdminEmail   service.Outcome        `json:"admin_email"`
	Confirmation service.Outcome        `json:"confirmation"`
	Notification service.Outcome        `json:"notification"`
}

// SubmitContact handles POST /contact.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Contact.Submit(r.Context(), service.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Contact message")
		return
	}
	WriteCreated(w, SubmitResponse{
		Message:      storeContactMessageToResponse(res.Message),
		AdminEmail:   res.AdminEmail,
		Confirmation: res.Confirmation,
		Notification: res.Notification,
	})
}

// ListContactMessages handles GET /contact. The meta carries the number of
// messages per status.
func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.Contact.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, r, err, "Contact message")
		return
	}
	counts, err := h.svc.Contact.Counts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Contact message")
		return
	}
	WriteSuccess(w, mapSlice(msgs, storeContactMessageToResponse), map[string]any{"counts": counts})
}

// GetContactMessage handles GET /contact/{id}.
func (h *Handler) GetContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	msg, err := h.svc.Contact.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Contact message")
		return
	}
	WriteSuccess(w, storeContactMessageToResponse(msg), nil)
}

// ContactUpdateRequest is the body of PATCH /contact/{id}.
type ContactUpdateRequest struct {
	Status     *string `json:"status"`
	AdminReply *string `json:"admin_reply"`
}

// UpdateContactMessage handles PATCH /contact/{id}. Nothing is sent.
func (h *Handler) UpdateContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req ContactUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.svc.Contact.Update(r.Context(), id, service.ContactUpdate{
		Status:     req.Status,
		AdminReply: req.AdminReply,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Contact message")
		return
	}
	WriteSuccess(w, storeContactMessageToResponse(msg), nil)
}

// ReplyRequest is the body of POST /contact/reply/{id}.
type ReplyRequest struct {
	Reply string `json:"reply"`
}

// ReplyContactMessage handles POST /contact/reply/{id}. The message is only
// marked answered once the reply email went out; a delivery failure
// answers 502.
func (h *Handler) ReplyContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req ReplyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.svc.Contact.Reply(r.Context(), id, req.Reply)
	if err != nil {
		h.writeServiceError(w, r, err, "Contact message")
		return
	}
	WriteSuccess(w, storeContactMessageToResponse(msg), nil)
}

// DeleteContactMessage handles DELETE /contact/{id}.
func (h *Handler) DeleteContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Contact.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Contact message")
		return
	}
	WriteNoContent(w)
}
