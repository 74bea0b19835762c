// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"numbers", "Projekt 2024", "projekt-2024"},
		{"accents", "Café résumé", "cafe-resume"},
		{"german umlauts", "Über München", "ueber-muenchen"},
		{"sharp s", "Straße", "strasse"},
		{"multiple spaces", "Hello   World", "hello-world"},
		{"spaced hyphen", "Hello - World", "hello-world"},
		{"surrounding spaces", "  Hello World  ", "hello-world"},
		{"only symbols", "!@#$%^&*()", ""},
		{"cyrillic", "Привет мир", "privet-mir"},
		{"empty", "", ""},
		{"mixed case", "HeLLo WoRLd", "hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugify_TruncatesLongInput(t *testing.T) {
	got := Slugify(strings.Repeat("wort ", 100))
	if len(got) > MaxSlugLength {
		t.Fatalf("len = %d, want <= %d", len(got), MaxSlugLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("slug %q ends with a hyphen", got)
	}
	if !IsValidSlug(got) {
		t.Errorf("truncated slug %q is not valid", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"hello-world", true},
		{"page-123", true},
		{"a", true},
		{"", false},
		{"Hello", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"under_score", false},
		{"mit leerzeichen", false},
		{strings.Repeat("a", MaxSlugLength+1), false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.input); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
