// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Publication status of blog posts, pages and portfolio items.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Content formats. Markdown is rendered to HTML on save.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// IsValidStatus checks a publication status.
func IsValidStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}

// IsValidFormat checks a content format.
func IsValidFormat(format string) bool {
	return format == FormatHTML || format == FormatMarkdown
}

// Website setting value types.
const (
	SettingTypeString  = "string"
	SettingTypeNumber  = "number"
	SettingTypeBoolean = "boolean"
	SettingTypeJSON    = "json"
)

// ValidSettingTypes lists every setting value type.
var ValidSettingTypes = []string{SettingTypeString, SettingTypeNumber, SettingTypeBoolean, SettingTypeJSON}

// IsValidSettingType checks a setting value type.
func IsValidSettingType(t string) bool {
	return slices.Contains(ValidSettingTypes, t)
}
