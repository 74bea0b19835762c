// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"time"

	"github.com/olegiv/ocms-api/internal/store"
	"github.com/olegiv/ocms-api/internal/util"
)

// mapSlice converts every element of in.
func mapSlice[S, D any](in []S, conv func(S) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, conv(v))
	}
	return out
}

// UserResponse represents a user in API responses. Password and reset
// token hashes never leave the server.
type UserResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func storeUserToResponse(u store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		LastLogin: util.TimePtr(u.LastLoginAt),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// BlogPostResponse represents a blog post in API responses.
type BlogPostResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	ContentFormat string     `json:"content_format"`
	RenderedHTML  string     `json:"rendered_html"`
	FeaturedImage string     `json:"featured_image"`
	Status        string     `json:"status"`
	AuthorID      *int64     `json:"author_id"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func storeBlogPostToResponse(p store.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		ContentFormat: p.ContentFormat,
		RenderedHTML:  p.RenderedHtml,
		FeaturedImage: p.FeaturedImage,
		Status:        p.Status,
		AuthorID:      util.Int64Ptr(p.AuthorID),
		PublishedAt:   util.TimePtr(p.PublishedAt),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PageResponse represents a page in API responses.
type PageResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	ContentFormat   string    `json:"content_format"`
	RenderedHTML    string    `json:"rendered_html"`
	MetaTitle       string    `json:"meta_title"`
	MetaDescription string    `json:"meta_description"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func storePageToResponse(p store.Page) PageResponse {
	return PageResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		ContentFormat:   p.ContentFormat,
		RenderedHTML:    p.RenderedHtml,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// PortfolioItemResponse represents a portfolio item in API responses.
type PortfolioItemResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Content      string    `json:"content"`
	RenderedHTML string    `json:"rendered_html"`
	Client       string    `json:"client"`
	Category     string    `json:"category"`
	ImageURL     string    `json:"image_url"`
	ProjectURL   string    `json:"project_url"`
	Featured     bool      `json:"featured"`
	Order        int64     `json:"order"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func storePortfolioItemToResponse(p store.PortfolioItem) PortfolioItemResponse {
	return PortfolioItemResponse{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		Content:      p.Content,
		RenderedHTML: p.RenderedHtml,
		Client:       p.Client,
		Category:     p.Category,
		ImageURL:     p.ImageUrl,
		ProjectURL:   p.ProjectUrl,
		Featured:     p.Featured,
		Order:        p.SortOrder,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// TeamMemberResponse represents a team member in API responses.
type TeamMemberResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	Bio         string    `json:"bio"`
	ImageURL    string    `json:"image_url"`
	Email       string    `json:"email"`
	LinkedinURL string    `json:"linkedin_url"`
	Order       int64     `json:"order"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func storeTeamMemberToResponse(m store.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{
		ID:          m.ID,
		Name:        m.Name,
		Position:    m.Position,
		Bio:         m.Bio,
		ImageURL:    m.ImageUrl,
		Email:       m.Email,
		LinkedinURL: m.LinkedinUrl,
		Order:       m.SortOrder,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// MediaResponse represents an uploaded file in API responses.
type MediaResponse struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Width        int64     `json:"width,omitempty"`
	Height       int64     `json:"height,omitempty"`
	AltText      string    `json:"alt_text"`
	UploadedBy   *int64    `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func storeMediaToResponse(m store.Medium) MediaResponse {
	return MediaResponse{
		ID:           m.ID,
		Filename:     m.Filename,
		OriginalName: m.OriginalName,
		MimeType:     m.MimeType,
		Size:         m.Size,
		URL:          m.Url,
		ThumbnailURL: m.ThumbnailUrl,
		Width:        m.Width,
		Height:       m.Height,
		AltText:      m.AltText,
		UploadedBy:   util.Int64Ptr(m.UploadedBy),
		CreatedAt:    m.CreatedAt,
	}
}

// MenuResponse represents a menu without its items.
type MenuResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func storeMenuToResponse(m store.Menu) MenuResponse {
	return MenuResponse{
		ID:        m.ID,
		Name:      m.Name,
		Location:  m.Location,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// MenuItemResponse represents a flat menu item.
type MenuItemResponse struct {
	ID        int64     `json:"id"`
	MenuID    int64     `json:"menu_id"`
	ParentID  *int64    `json:"parent_id"`
	Label     string    `json:"label"`
	URL       string    `json:"url"`
	Target    string    `json:"target"`
	Order     int64     `json:"order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func storeMenuItemToResponse(it store.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:        it.ID,
		MenuID:    it.MenuID,
		ParentID:  util.Int64Ptr(it.ParentID),
		Label:     it.Label,
		URL:       it.Url,
		Target:    it.Target,
		Order:     it.SortOrder,
		Active:    it.Active,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

// ContactMessageResponse represents a contact message in API responses.
type ContactMessageResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Subject    string     `json:"subject"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	AdminReply *string    `json:"admin_reply"`
	RepliedAt  *time.Time `json:"replied_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func storeContactMessageToResponse(m store.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Subject:    m.Subject,
		Message:    m.Message,
		Status:     m.Status,
		AdminReply: util.StringPtr(m.AdminReply),
		RepliedAt:  util.TimePtr(m.RepliedAt),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Read      bool            `json:"read"`
	Priority  string          `json:"priority"`
	ExpiresAt *time.Time      `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
}

func storeNotificationToResponse(n store.Notification) NotificationResponse {
	data := json.RawMessage(n.Data)
	if !json.Valid(data) {
		data = json.RawMessage("{}")
	}
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      data,
		Read:      n.Read,
		Priority:  n.Priority,
		ExpiresAt: util.TimePtr(n.ExpiresAt),
		CreatedAt: n.CreatedAt,
	}
}

// SettingResponse represents a website setting in API responses.
type SettingResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func storeSettingToResponse(s store.WebsiteSetting) SettingResponse {
	return SettingResponse{
		Key:         s.SettingKey,
		Value:       s.Value,
		Type:        s.Type,
		Description: s.Description,
		IsPublic:    s.IsPublic,
		UpdatedAt:   s.UpdatedAt,
	}
}

// PublicSettingResponse is the subset of a setting anonymous clients see.
type PublicSettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

func storeSettingToPublicResponse(s store.WebsiteSetting) PublicSettingResponse {
	return PublicSettingResponse{Key: s.SettingKey, Value: s.Value, Type: s.Type}
}
