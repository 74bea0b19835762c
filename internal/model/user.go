// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain vocabulary shared by the store, service
// and HTTP layers: roles, statuses and the other enumerated column values.
package model

import "slices"

// User roles.
const (
	RoleAdmin     = "admin"
	RoleRedakteur = "redakteur"
)

// ValidRoles lists every assignable role.
var ValidRoles = []string{RoleAdmin, RoleRedakteur}

// IsValidRole checks if a role value is valid.
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, role)
}
