// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID               int64
	Name             string
	Email            string
	PasswordHash     string
	Role             string
	Active           bool
	LastLoginAt      sql.NullTime
	ResetTokenHash   sql.NullString
	ResetTokenExpiry sql.NullTime
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type BlogPost struct {
	ID            int64
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	ContentFormat string
	RenderedHtml  string
	FeaturedImage string
	Status        string
	AuthorID      sql.NullInt64
	PublishedAt   sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Page struct {
	ID              int64
	Title           string
	Slug            string
	Content         string
	ContentFormat   string
	RenderedHtml    string
	MetaTitle       string
	MetaDescription string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PortfolioItem struct {
	ID           int64
	Title        string
	Slug         string
	Description  string
	Content      string
	RenderedHtml string
	Client       string
	Category     string
	ImageUrl     string
	ProjectUrl   string
	Featured     bool
	SortOrder    int64
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TeamMember struct {
	ID          int64
	Name        string
	Position    string
	Bio         string
	ImageUrl    string
	Email       string
	LinkedinUrl string
	SortOrder   int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Medium struct {
	ID           int64
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Url          string
	ThumbnailUrl string
	Width        int64
	Height       int64
	AltText      string
	UploadedBy   sql.NullInt64
	CreatedAt    time.Time
}

type Menu struct {
	ID        int64
	Name      string
	Location  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MenuItem struct {
	ID        int64
	MenuID    int64
	ParentID  sql.NullInt64
	Label     string
	Url       string
	Target    string
	SortOrder int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ContactMessage struct {
	ID         int64
	Name       string
	Email      string
	Subject    string
	Message    string
	Status     string
	AdminReply sql.NullString
	RepliedAt  sql.NullTime
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Notification struct {
	ID        int64
	Type      string
	Title     string
	Message   string
	Data      string
	Read      bool
	Priority  string
	ExpiresAt sql.NullTime
	CreatedAt time.Time
}

type WebsiteSetting struct {
	SettingKey  string
	Value       string
	Type        string
	Description string
	IsPublic    bool
	UpdatedAt   time.Time
}
