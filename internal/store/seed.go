// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-api/internal/auth"
	"github.com/olegiv/ocms-api/internal/model"
)

// DefaultAdminName is used when SeedOptions.AdminName is empty.
const DefaultAdminName = "Administrator"

// SeedOptions controls the first-run data.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

type defaultSetting struct {
	key, value, typ, description string
	public                       bool
}

var defaultSettings = []defaultSetting{
	{"site_name", "oCMS", model.SettingTypeString, "Website name", true},
	{"site_description", "", model.SettingTypeString, "Short description for meta tags", true},
	{"contact_email", "", model.SettingTypeString, "Public contact address", true},
	{"contact_phone", "", model.SettingTypeString, "Public phone number", true},
	{"blog_posts_per_page", "10", model.SettingTypeNumber, "Blog page size", true},
	{"maintenance_mode", "false", model.SettingTypeBoolean, "Show the maintenance page", true},
	{"social_links", "{}", model.SettingTypeJSON, "Social network profile URLs", true},
	{"contact_auto_reply", "true", model.SettingTypeBoolean, "Send a confirmation to contact form senders", false},
}

// Seed creates the first admin, the navbar and footer menus and the default
// website settings. Existing data is left alone, so it is safe to call on
// every start.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	q := New(db)
	now := time.Now().UTC()

	if err := seedAdmin(ctx, q, opts, now); err != nil {
		return err
	}

	menus, err := q.ListMenus(ctx)
	if err != nil {
		return fmt.Errorf("listing menus: %w", err)
	}
	if len(menus) == 0 {
		for _, m := range []CreateMenuParams{
			{Name: "Hauptmenü", Location: model.LocationNavbar},
			{Name: "Footer", Location: model.LocationFooter},
		} {
			m.Active, m.CreatedAt, m.UpdatedAt = true, now, now
			if _, err := q.CreateMenu(ctx, m); err != nil {
				return fmt.Errorf("creating menu %q: %w", m.Name, err)
			}
		}
		slog.Info("created default menus")
	}

	for _, s := range defaultSettings {
		if _, err := q.InsertWebsiteSettingIfMissing(ctx, UpsertWebsiteSettingParams{
			SettingKey:  s.key,
			Value:       s.value,
			Type:        s.typ,
			Description: s.description,
			IsPublic:    s.public,
			UpdatedAt:   now,
		}); err != nil {
			return fmt.Errorf("seeding setting %q: %w", s.key, err)
		}
	}

	return nil
}

func seedAdmin(ctx context.Context, q *Queries, opts SeedOptions, now time.Time) error {
	count, err := q.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Info("users already exist, skipping admin seed")
		return nil
	}
	if opts.AdminEmail == "" {
		return fmt.Errorf("seeding admin: admin email is empty")
	}

	password := opts.AdminPassword
	generated := password == ""
	if generated {
		token, _, err := auth.NewResetToken()
		if err != nil {
			return err
		}
		password = token[:20]
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	name := opts.AdminName
	if name == "" {
		name = DefaultAdminName
	}

	user, err := q.CreateUser(ctx, CreateUserParams{
		Name:         name,
		Email:        opts.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	if generated {
		slog.Warn("created admin user with a generated password, change it after first login",
			"id", user.ID, "email", user.Email, "password", password)
	} else {
		slog.Info("created admin user", "id", user.ID, "email", user.Email)
	}
	return nil
}
