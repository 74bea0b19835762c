// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/ocms-api/internal/store"
)

// TeamInput holds team member fields. Nil fields are left unchanged on update.
type TeamInput struct {
	Name        *string
	Position    *string
	Bio         *string
	ImageURL    *string
	Email       *string
	LinkedinURL *string
	Order       *int64
	Active      *bool
}

// TeamService manages team members.
type TeamService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewTeamService creates a TeamService.
func NewTeamService(db *sql.DB, logger *slog.Logger) *TeamService {
	return &TeamService{queries: store.New(db), logger: logger, now: utcNow}
}

// List returns members ordered by order. Inactive members are left out
// when activeOnly is set.
func (s *TeamService) List(ctx context.Context, activeOnly bool) ([]store.TeamMember, error) {
	members, err := s.queries.ListTeamMembers(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	return members, nil
}

// Get returns one member. Inactive members are not found when activeOnly
// is set.
func (s *TeamService) Get(ctx context.Context, id int64, activeOnly bool) (store.TeamMember, error) {
	m, err := s.queries.GetTeamMemberByID(ctx, id)
	if err != nil {
		return store.TeamMember{}, storeErr(err, "loading team member")
	}
	if activeOnly && !m.Active {
		return store.TeamMember{}, fmt.Errorf("loading team member: %w", ErrNotFound)
	}
	return m, nil
}

func validateTeam(in TeamInput, creating bool) error {
	v := &ValidationError{}
	if creating && in.Name == nil {
		v.Add("name", "is required")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		v.Add("name", "is required")
	}
	if creating && in.Position == nil {
		v.Add("position", "is required")
	}
	if in.Position != nil && strings.TrimSpace(*in.Position) == "" {
		v.Add("position", "is required")
	}
	if in.Email != nil && *in.Email != "" && !isEmail(*in.Email) {
		v.Add("email", "is not a valid email address")
	}
	return v.Err()
}

// Create adds a member. Members are active unless told otherwise.
func (s *TeamService) Create(ctx context.Context, in TeamInput) (store.TeamMember, error) {
	if err := validateTeam(in, true); err != nil {
		return store.TeamMember{}, err
	}
	now := s.now()
	m, err := s.queries.CreateTeamMember(ctx, store.CreateTeamMemberParams{
		Name:        strings.TrimSpace(*in.Name),
		Position:    strings.TrimSpace(*in.Position),
		Bio:         valueOr(in.Bio, ""),
		ImageUrl:    valueOr(in.ImageURL, ""),
		Email:       valueOr(in.Email, ""),
		LinkedinUrl: valueOr(in.LinkedinURL, ""),
		SortOrder:   valueOr(in.Order, 0),
		Active:      valueOr(in.Active, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return store.TeamMember{}, storeErr(err, "creating team member")
	}
	return m, nil
}

// Update changes the given fields of a member.
func (s *TeamService) Update(ctx context.Context, id int64, in TeamInput) (store.TeamMember, error) {
	if err := validateTeam(in, false); err != nil {
		return store.TeamMember{}, err
	}
	m, err := s.queries.GetTeamMemberByID(ctx, id)
	if err != nil {
		return store.TeamMember{}, storeErr(err, "loading team member")
	}
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Position != nil {
		m.Position = strings.TrimSpace(*in.Position)
	}

	updated, err := s.queries.UpdateTeamMember(ctx, store.UpdateTeamMemberParams{
		Name:        m.Name,
		Position:    m.Position,
		Bio:         valueOr(in.Bio, m.Bio),
		ImageUrl:    valueOr(in.ImageURL, m.ImageUrl),
		Email:       valueOr(in.Email, m.Email),
		LinkedinUrl: valueOr(in.LinkedinURL, m.LinkedinUrl),
		SortOrder:   valueOr(in.Order, m.SortOrder),
		Active:      valueOr(in.Active, m.Active),
		UpdatedAt:   s.now(),
		ID:          id,
	})
	if err != nil {
		return store.TeamMember{}, storeErr(err, "updating team member")
	}
	return updated, nil
}

// Delete removes a member.
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteTeamMember(ctx, id)
	return affected(n, err, "deleting team member")
}
