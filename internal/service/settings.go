// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/ocms-api/internal/cache"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
)

const (
	publicSettingsKey = "settings:public"
	settingsTTL       = 5 * time.Minute
)

var settingKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_.]{0,99}$`)

// SettingInput holds setting fields. Nil fields are left unchanged on update.
type SettingInput struct {
	Value       *string
	Type        *string
	Description *string
	IsPublic    *bool
}

// SettingsService manages website settings. The public subset is cached.
type SettingsService struct {
	queries *store.Queries
	public  *cache.TypedCache[[]store.WebsiteSetting]
	logger  *slog.Logger
	now     func() time.Time
}

// NewSettingsService creates a SettingsService. The public list is cached
// in c when it is non-nil.
func NewSettingsService(db *sql.DB, c cache.Cache, logger *slog.Logger) *SettingsService {
	s := &SettingsService{queries: store.New(db), logger: logger, now: utcNow}
	if c != nil {
		s.public = cache.NewTypedCache[[]store.WebsiteSetting](c, settingsTTL)
	}
	return s
}

// List returns all settings ordered by key.
func (s *SettingsService) List(ctx context.Context) ([]store.WebsiteSetting, error) {
	settings, err := s.queries.ListWebsiteSettings(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return settings, nil
}

// Public returns the settings marked public.
func (s *SettingsService) Public(ctx context.Context) ([]store.WebsiteSetting, error) {
	load := func() (*[]store.WebsiteSetting, error) {
		settings, err := s.queries.ListWebsiteSettings(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("listing public settings: %w", err)
		}
		return &settings, nil
	}
	if s.public == nil {
		settings, err := load()
		if err != nil {
			return nil, err
		}
		return *settings, nil
	}
	settings, err := s.public.GetOrSet(ctx, publicSettingsKey, load)
	if err != nil {
		return nil, err
	}
	return *settings, nil
}

// Get returns one setting.
func (s *SettingsService) Get(ctx context.Context, key string) (store.WebsiteSetting, error) {
	setting, err := s.queries.GetWebsiteSetting(ctx, key)
	return setting, storeErr(err, "loading setting")
}

// Upsert creates key or replaces it. Value is required; type defaults to
// string.
func (s *SettingsService) Upsert(ctx context.Context, key string, in SettingInput) (store.WebsiteSetting, error) {
	v := &ValidationError{}
	if !settingKeyRegex.MatchString(key) {
		v.Add("key", "must start with a letter and contain only lowercase letters, digits, dots and underscores")
	}
	if in.Value == nil {
		v.Add("value", "is required")
	}
	typ := valueOr(in.Type, model.SettingTypeString)
	if in.Value != nil {
		checkSettingValue(v, typ, *in.Value)
	}
	if err := v.Err(); err != nil {
		return store.WebsiteSetting{}, err
	}

	return s.save(ctx, store.UpsertWebsiteSettingParams{
		SettingKey:  key,
		Value:       *in.Value,
		Type:        typ,
		Description: valueOr(in.Description, ""),
		IsPublic:    valueOr(in.IsPublic, false),
		UpdatedAt:   s.now(),
	})
}

// Update changes the given fields of an existing setting.
func (s *SettingsService) Update(ctx context.Context, key string, in SettingInput) (store.WebsiteSetting, error) {
	current, err := s.queries.GetWebsiteSetting(ctx, key)
	if err != nil {
		return store.WebsiteSetting{}, storeErr(err, "loading setting")
	}

	typ := valueOr(in.Type, current.Type)
	value := valueOr(in.Value, current.Value)
	v := &ValidationError{}
	checkSettingValue(v, typ, value)
	if err := v.Err(); err != nil {
		return store.WebsiteSetting{}, err
	}

	return s.save(ctx, store.UpsertWebsiteSettingParams{
		SettingKey:  key,
		Value:       value,
		Type:        typ,
		Description: valueOr(in.Description, current.Description),
		IsPublic:    valueOr(in.IsPublic, current.IsPublic),
		UpdatedAt:   s.now(),
	})
}

func (s *SettingsService) save(ctx context.Context, arg store.UpsertWebsiteSettingParams) (store.WebsiteSetting, error) {
	setting, err := s.queries.UpsertWebsiteSetting(ctx, arg)
	if err != nil {
		return store.WebsiteSetting{}, storeErr(err, "saving setting")
	}
	s.invalidate(ctx)
	return setting, nil
}

// Delete removes a setting.
func (s *SettingsService) Delete(ctx context.Context, key string) error {
	n, err := s.queries.DeleteWebsiteSetting(ctx, key)
	if err := affected(n, err, "deleting setting"); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if s.public == nil {
		return
	}
	if err := s.public.Delete(ctx, publicSettingsKey); err != nil {
		s.logger.Warn("failed to invalidate settings cache", "error", err)
	}
}

// checkSettingValue checks that value parses as typ.
func checkSettingValue(v *ValidationError, typ, value string) {
	switch typ {
	case model.SettingTypeString:
	case model.SettingTypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			v.Add("value", "must be a number")
		}
	case model.SettingTypeBoolean:
		if value != "true" && value != "false" {
			v.Add("value", "must be true or false")
		}
	case model.SettingTypeJSON:
		if !json.Valid([]byte(value)) {
			v.Add("value", "must be valid JSON")
		}
	default:
		v.Add("type", "must be one of "+strings.Join(model.ValidSettingTypes, ", "))
	}
}
