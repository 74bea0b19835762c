// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"slices"

	"github.com/olegiv/ocms-api/internal/model"
)

var (
	// ErrUnauthenticated means the operation needs a session and none was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the session role may not perform the operation.
	ErrForbidden = errors.New("insufficient permissions")
)

// Resource names a content type guarded by the gate.
type Resource string

// Resources.
const (
	ResourcePortfolio     Resource = "portfolio"
	ResourceBlog          Resource = "blog"
	ResourcePages         Resource = "pages"
	ResourceTeam          Resource = "team"
	ResourceMedia         Resource = "media"
	ResourceMenus         Resource = "menus"
	ResourceUsers         Resource = "users"
	ResourceContact       Resource = "contact"
	ResourceNotifications Resource = "notifications"
	ResourceSettings      Resource = "settings"
)

// Operation is an action on a resource.
type Operation string

// Operations.
const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpReply  Operation = "reply"
)

// Permission is one row of the permission table.
type Permission struct {
	Resource  Resource
	Operation Operation
	// Public rows need no session at all.
	Public bool
	Roles  []string
}

var (
	adminOnly   = []string{model.RoleAdmin}
	adminEditor = []string{model.RoleAdmin, model.RoleRedakteur}
)

// DefaultPermissions returns the permission table of the CMS.
// Editors create, read and update content; every delete and all
// menu and user management stay with admins.
func DefaultPermissions() []Permission {
	var perms []Permission

	content := []Resource{ResourcePortfolio, ResourceBlog, ResourcePages, ResourceTeam, ResourceMedia}
	for _, r := range content {
		perms = append(perms,
			Permission{Resource: r, Operation: OpCreate, Roles: adminEditor},
			Permission{Resource: r, Operation: OpRead, Roles: adminEditor},
			Permission{Resource: r, Operation: OpUpdate, Roles: adminEditor},
			Permission{Resource: r, Operation: OpDelete, Roles: adminOnly},
		)
	}

	for _, r := range []Resource{ResourceMenus, ResourceUsers} {
		for _, op := range []Operation{OpCreate, OpRead, OpUpdate, OpDelete} {
			perms = append(perms, Permission{Resource: r, Operation: op, Roles: adminOnly})
		}
	}

	return append(perms,
		Permission{Resource: ResourceContact, Operation: OpCreate, Public: true},
		Permission{Resource: ResourceContact, Operation: OpRead, Roles: adminEditor},
		Permission{Resource: ResourceContact, Operation: OpUpdate, Roles: adminEditor},
		Permission{Resource: ResourceContact, Operation: OpReply, Roles: adminEditor},
		Permission{Resource: ResourceContact, Operation: OpDelete, Roles: adminOnly},

		Permission{Resource: ResourceNotifications, Operation: OpCreate, Roles: adminOnly},
		Permission{Resource: ResourceNotifications, Operation: OpRead, Roles: adminEditor},
		Permission{Resource: ResourceNotifications, Operation: OpUpdate, Roles: adminEditor},
		Permission{Resource: ResourceNotifications, Operation: OpDelete, Roles: adminOnly},

		Permission{Resource: ResourceSettings, Operation: OpCreate, Roles: adminOnly},
		Permission{Resource: ResourceSettings, Operation: OpRead, Roles: adminEditor},
		Permission{Resource: ResourceSettings, Operation: OpUpdate, Roles: adminOnly},
		Permission{Resource: ResourceSettings, Operation: OpDelete, Roles: adminOnly},
	)
}

type gateKey struct {
	resource  Resource
	operation Operation
}

type gateRule struct {
	public bool
	roles  []string
}

// Gate answers whether a session may perform an operation. It is built
// once from a permission table and never modified afterwards.
type Gate struct {
	rules map[gateKey]gateRule
}

// NewGate compiles perms. Duplicate rows and delete rows open to
// non-admins are rejected.
func NewGate(perms []Permission) (*Gate, error) {
	rules := make(map[gateKey]gateRule, len(perms))
	for _, p := range perms {
		key := gateKey{p.Resource, p.Operation}
		if _, dup := rules[key]; dup {
			return nil, fmt.Errorf("duplicate permission %s:%s", p.Resource, p.Operation)
		}
		if p.Operation == OpDelete && (p.Public || slices.ContainsFunc(p.Roles, func(r string) bool { return r != model.RoleAdmin })) {
			return nil, fmt.Errorf("permission %s:%s must be admin only", p.Resource, p.Operation)
		}
		rules[key] = gateRule{public: p.Public, roles: slices.Clone(p.Roles)}
	}
	return &Gate{rules: rules}, nil
}

// MustNewGate is NewGate for static tables.
func MustNewGate(perms []Permission) *Gate {
	g, err := NewGate(perms)
	if err != nil {
		panic(err)
	}
	return g
}

// Authorize returns nil when claims may perform op on r. Absent claims on a
// non-public row yield ErrUnauthenticated; a role outside the row, or a
// pair missing from the table, yields ErrForbidden.
func (g *Gate) Authorize(claims *Claims, r Resource, op Operation) error {
	rule, ok := g.rules[gateKey{r, op}]
	if ok && rule.public {
		return nil
	}
	if claims == nil {
		return ErrUnauthenticated
	}
	if !ok || !slices.Contains(rule.roles, claims.Role) {
		return ErrForbidden
	}
	return nil
}

// Allowed reports whether role may perform op on r.
func (g *Gate) Allowed(role string, r Resource, op Operation) bool {
	return g.Authorize(&Claims{Role: role}, r, op) == nil
}

// IsPublic reports whether op on r needs no session.
func (g *Gate) IsPublic(r Resource, op Operation) bool {
	return g.rules[gateKey{r, op}].public
}
