// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"time"
)

// Contact message states. A message starts as neu and becomes beantwortet
// once a reply was delivered; gelesen is set manually.
const (
	ContactStatusNew      = "neu"
	ContactStatusRead     = "gelesen"
	ContactStatusAnswered = "beantwortet"
)

// DefaultContactSubject is used when the submitter leaves the subject empty.
const DefaultContactSubject = "Kontaktanfrage"

// ValidContactStatuses lists every contact message status.
var ValidContactStatuses = []string{ContactStatusNew, ContactStatusRead, ContactStatusAnswered}

// IsValidContactStatus checks a contact message status.
func IsValidContactStatus(status string) bool {
	return slices.Contains(ValidContactStatuses, status)
}

// Notification types.
const (
	NotificationContact   = "contact"
	NotificationBlog      = "blog"
	NotificationPortfolio = "portfolio"
	NotificationUser      = "user"
	NotificationSystem    = "system"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ContactNotificationTTL is how long a contact notification stays listed.
const ContactNotificationTTL = 7 * 24 * time.Hour

// ValidNotificationTypes lists every notification type.
var ValidNotificationTypes = []string{
	NotificationContact, NotificationBlog, NotificationPortfolio, NotificationUser, NotificationSystem,
}

// ValidPriorities lists every notification priority.
var ValidPriorities = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// IsValidNotificationType checks a notification type.
func IsValidNotificationType(t string) bool {
	return slices.Contains(ValidNotificationTypes, t)
}

// IsValidPriority checks a notification priority.
func IsValidPriority(p string) bool {
	return slices.Contains(ValidPriorities, p)
}
