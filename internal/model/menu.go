// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Menu locations on the public site.
const (
	LocationNavbar = "navbar"
	LocationFooter = "footer"
)

// Menu target values
const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

// IsValidLocation checks if a menu location is valid.
func IsValidLocation(location string) bool {
	return location == LocationNavbar || location == LocationFooter
}

// IsValidTarget checks if a target value is valid.
func IsValidTarget(target string) bool {
	return target == TargetSelf || target == TargetBlank
}
