// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/ocms-api/internal/auth"
	"github.com/olegiv/ocms-api/internal/email"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
)

// dummyHash is verified for unknown emails so a login takes the same time
// whether or not the account exists.
var dummyHash, _ = auth.HashPassword("ocms-api-timing-equalizer")

// LoginMeta describes the client of a login attempt.
type LoginMeta struct {
	IP        string
	UserAgent string
}

// LoginResult is a session token together with its user.
type LoginResult struct {
	Token string
	User  store.User
}

// UserInput holds user fields. Nil fields are left unchanged on update.
type UserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	Active   *bool
}

// UserService handles login, the password reset flow and user management.
type UserService struct {
	db          *sql.DB
	queries     *store.Queries
	issuer      *auth.SessionIssuer
	sender      email.Sender
	frontendURL string
	logger      *slog.Logger
	now         func() time.Time
}

// NewUserService creates a UserService. frontendURL is the base of the
// password reset link.
func NewUserService(db *sql.DB, issuer *auth.SessionIssuer, sender email.Sender, frontendURL string, logger *slog.Logger) *UserService {
	return &UserService{
		db:          db,
		queries:     store.New(db),
		issuer:      issuer,
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
		now:         utcNow,
	}
}

// Login checks credentials and issues a session token. Legacy bcrypt
// hashes are replaced with argon2id on success.
func (s *UserService) Login(ctx context.Context, emailAddr, password string, meta LoginMeta) (*LoginResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return nil, invalid("credentials", "email and password are required")
	}

	user, err := s.queries.GetUserByEmail(ctx, emailAddr)
	if store.IsNotFound(err) {
		_, _ = auth.CheckPassword(password, dummyHash)
		s.logger.Warn("login failed", "email", emailAddr, "ip", meta.IP, "reason", "unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		s.logger.Warn("login failed", "email", emailAddr, "ip", meta.IP, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrInactiveUser
	}

	now := s.now()
	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, password, now)
	}
	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          user.ID,
	}); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = sql.NullTime{Time: now, Valid: true}
	}

	token, err := s.issuer.Issue(identityOf(user))
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		append([]any{"user_id", user.ID, "ip", meta.IP}, describeClient(meta.UserAgent)...)...)
	return &LoginResult{Token: token, User: user}, nil
}

func (s *UserService) rehash(ctx context.Context, id int64, password string, now time.Time) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{PasswordHash: hash, UpdatedAt: now, ID: id})
	}
	if err != nil {
		s.logger.Warn("failed to upgrade password hash", "user_id", id, "error", err)
		return
	}
	s.logger.Info("upgraded legacy password hash", "user_id", id)
}

// describeClient turns a user agent into log attributes.
func describeClient(uaString string) []any {
	ua := useragent.Parse(uaString)
	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}
	return []any{"browser", ua.Name, "os", ua.OS, "device", device}
}

func identityOf(u store.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Profile returns the user behind a session.
func (s *UserService) Profile(ctx context.Context, userID int64) (store.User, error) {
	return s.Get(ctx, userID)
}

// List returns every user ordered by name.
func (s *UserService) List(ctx context.Context) ([]store.User, error) {
	users, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (store.User, error) {
	u, err := s.queries.GetUserByID(ctx, id)
	return u, storeErr(err, "loading user")
}

// Create adds a user. Name, email and password are required; role defaults
// to redakteur.
func (s *UserService) Create(ctx context.Context, in UserInput) (store.User, error) {
	v := &ValidationError{}
	if in.Name == nil {
		v.Add("name", "is required")
	}
	if in.Email == nil {
		v.Add("email", "is required")
	}
	if in.Password == nil {
		v.Add("password", "is required")
	}
	validateUserInput(v, in)
	if err := v.Err(); err != nil {
		return store.User{}, err
	}

	hash, err := auth.HashPassword(*in.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	u, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Name:         strings.TrimSpace(*in.Name),
		Email:        normalizeEmail(*in.Email),
		PasswordHash: hash,
		Role:         valueOr(in.Role, model.RoleRedakteur),
		Active:       valueOr(in.Active, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.User{}, storeErr(err, "creating user")
	}
	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Update changes the given fields of user id on behalf of actorID. Admins
// cannot demote or deactivate themselves. A new password is hashed again.
func (s *UserService) Update(ctx context.Context, actorID, id int64, in UserInput) (store.User, error) {
	v := &ValidationError{}
	validateUserInput(v, in)
	if actorID == id {
		if in.Role != nil && *in.Role != model.RoleAdmin {
			v.Add("role", "you cannot change your own role")
		}
		if in.Active != nil && !*in.Active {
			v.Add("active", "you cannot deactivate your own account")
		}
	}
	if err := v.Err(); err != nil {
		return store.User{}, err
	}

	var hash string
	if in.Password != nil {
		var err error
		if hash, err = auth.HashPassword(*in.Password); err != nil {
			return store.User{}, fmt.Errorf("hashing password: %w", err)
		}
	}

	var updated store.User
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		u, err := q.GetUserByID(ctx, id)
		if err != nil {
			return storeErr(err, "loading user")
		}
		if in.Name != nil {
			u.Name = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			u.Email = normalizeEmail(*in.Email)
		}
		u.Role = valueOr(in.Role, u.Role)
		u.Active = valueOr(in.Active, u.Active)

		now := s.now()
		if updated, err = q.UpdateUser(ctx, store.UpdateUserParams{
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Active:    u.Active,
			UpdatedAt: now,
			ID:        id,
		}); err != nil {
			return storeErr(err, "updating user")
		}
		if hash != "" {
			if err := q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{PasswordHash: hash, UpdatedAt: now, ID: id}); err != nil {
				return fmt.Errorf("updating password: %w", err)
			}
			updated.PasswordHash = hash
		}
		return nil
	})
	if err != nil {
		return store.User{}, err
	}
	return updated, nil
}

func validateUserInput(v *ValidationError, in UserInput) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		v.Add("name", "is required")
	}
	if in.Email != nil && !isEmail(normalizeEmail(*in.Email)) {
		v.Add("email", "is not a valid email address")
	}
	if in.Password != nil && len(*in.Password) < auth.MinPasswordLength {
		v.Add("password", fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength))
	}
	if in.Role != nil && !model.IsValidRole(*in.Role) {
		v.Add("role", "must be one of "+strings.Join(model.ValidRoles, ", "))
	}
}

// Delete removes user id on behalf of actorID. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return invalid("id", "you cannot delete your own account")
	}
	n, err := s.queries.DeleteUser(ctx, id)
	if err := affected(n, err, "deleting user"); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id, "by", actorID)
	return nil
}

// ForgotPassword starts a reset for emailAddr. Unknown or inactive
// accounts are ignored silently so callers cannot probe for accounts.
func (s *UserService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if !isEmail(emailAddr) {
		return invalid("email", "is not a valid email address")
	}

	user, err := s.queries.GetUserByEmail(ctx, emailAddr)
	if store.IsNotFound(err) {
		s.logger.Info("password reset requested for unknown email", "email", emailAddr)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}
	if !user.Active {
		return nil
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	if err := s.queries.SetUserResetToken(ctx, store.SetUserResetTokenParams{
		ResetTokenHash:   sql.NullString{String: hash, Valid: true},
		ResetTokenExpiry: sql.NullTime{Time: s.now().Add(auth.ResetTokenTTL), Valid: true},
		ID:               user.ID,
	}); err != nil {
		return fmt.Errorf("storing reset token: %w", err)
	}

	link := s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
	if err := s.sender.Send(ctx, email.PasswordResetMessage(user.Email, user.Name, link, auth.ResetTokenTTL)); err != nil {
		s.logger.Error("failed to send password reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword sets a new password for the holder of an unexpired reset
// token. The token can be used once.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	v := &ValidationError{}
	if token == "" {
		v.Add("token", "is required")
	}
	if len(password) < auth.MinPasswordLength {
		v.Add("password", fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength))
	}
	if err := v.Err(); err != nil {
		return err
	}

	now := s.now()
	user, err := s.queries.GetUserByResetToken(ctx, store.GetUserByResetTokenParams{
		ResetTokenHash: auth.HashResetToken(token),
		Now:            now,
	})
	if store.IsNotFound(err) {
		return invalid("token", "is invalid or expired")
	}
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    now,
		ID:           user.ID,
	}); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}
