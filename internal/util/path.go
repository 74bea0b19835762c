// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned when a joined path leaves its base directory.
var ErrUnsafePath = errors.New("path escapes base directory")

// SanitizeFilename reduces a client supplied name to its last element.
// Backslashes count as separators so Windows paths lose their directories
// as well.
func SanitizeFilename(filename string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == ".." || name == "/" || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return name, nil
}

// SafeJoinPath joins components below base and returns the absolute result.
func SafeJoinPath(base string, components ...string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	full := filepath.Join(append([]string{absBase}, components...)...)
	rel, err := filepath.Rel(absBase, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, filepath.Join(components...))
	}
	return full, nil
}
