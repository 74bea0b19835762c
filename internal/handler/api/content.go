// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-api/internal/auth"
	"github.com/olegiv/ocms-api/internal/middleware"
	"github.com/olegiv/ocms-api/internal/service"
)

// BlogPostRequest is the body of blog create and update requests. Absent
// fields keep their stored value on update.
type BlogPostRequest struct {
	Title         *string `json:"title"`
	Slug          *string `json:"slug"`
	Excerpt       *string `json:"excerpt"`
	Content       *string `json:"content"`
	ContentFormat *string `json:"content_format"`
	FeaturedImage *string `json:"featured_image"`
	Status        *string `json:"status"`
}

func (req BlogPostRequest) input() service.BlogInput {
	return service.BlogInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		ContentFormat: req.ContentFormat,
		FeaturedImage: req.FeaturedImage,
		Status:        req.Status,
	}
}

// ListBlogPosts handles GET /blog. Anonymous clients only get published
// posts; editors may filter by status.
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePagination(w, r)
	if !ok {
		return
	}
	publishedOnly := !h.canRead(r, auth.ResourceBlog)
	posts, meta, err := h.svc.Blog.List(r.Context(), r.URL.Query().Get("status"), publishedOnly, p)
	if err != nil {
		h.writeServiceError(w, r, err, "Blog post")
		return
	}
	WriteSuccess(w, mapSlice(posts, storeBlogPostToResponse), meta)
}

// GetBlogPost handles GET /blog/{id}.
func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	post, err := h.svc.Blog.Get(r.Context(), id, !h.canRead(r, auth.ResourceBlog))
	if err != nil {
		h.writeServiceError(w, r, err, "Blog post")
		return
	}
	WriteSuccess(w, storeBlogPostToResponse(post), nil)
}

// GetBlogPostBySlug handles GET /blog/slug/{slug}.
func (h *Handler) GetBlogPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.Blog.GetBySlug(r.Context(), chi.URLParam(r, "slug"), !h.canRead(r, auth.ResourceBlog))
	if err != nil {
		h.writeServiceError(w, r, err, "Blog post")
		return
	}
	WriteSuccess(w, storeBlogPostToResponse(post), nil)
}

// CreateBlogPost handles POST /blog. The session user becomes the author.
func (h *Handler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req BlogPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.svc.Blog.Create(r.Context(), middleware.UserID(r.Context()), req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Blog post")
		return
	}
	WriteCreated(w, storeBlogPostToResponse(post))
}

// UpdateBlogPost handles PUT /blog/{id}.
func (h *Handler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req BlogPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.svc.Blog.Update(r.Context(), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Blog post")
		return
	}
	WriteSuccess(w, storeBlogPostToResponse(post), nil)
}

// DeleteBlogPost handles DELETE /blog/{id}.
func (h *Handler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Blog.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Blog post")
		return
	}
	WriteNoContent(w)
}

// PageRequest is the body of page create and update requests.
type PageRequest struct {
	Title           *string `json:"title"`
	Slug            *string `json:"slug"`
	Content         *string `json:"content"`
	ContentFormat   *string `json:"content_format"`
	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
	Status          *string `json:"status"`
}

func (req PageRequest) input() service.PageInput {
	return service.PageInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		ContentFormat:   req.ContentFormat,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Status:          req.Status,
	}
}

// ListPages handles GET /pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.svc.Pages.List(r.Context(), r.URL.Query().Get("status"), !h.canRead(r, auth.ResourcePages))
	if err != nil {
		h.writeServiceError(w, r, err, "Page")
		return
	}
	WriteSuccess(w, mapSlice(pages, storePageToResponse), nil)
}

// GetPage handles GET /pages/{id}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	page, err := h.svc.Pages.Get(r.Context(), id, !h.canRead(r, auth.ResourcePages))
	if err != nil {
		h.writeServiceError(w, r, err, "Page")
		return
	}
	WriteSuccess(w, storePageToResponse(page), nil)
}

// GetPageBySlug handles GET /pages/slug/{slug}.
func (h *Handler) GetPageBySlug(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Pages.GetBySlug(r.Context(), chi.URLParam(r, "slug"), !h.canRead(r, auth.ResourcePages))
	if err != nil {
		h.writeServiceError(w, r, err, "Page")
		return
	}
	WriteSuccess(w, storePageToResponse(page), nil)
}

// CreatePage handles POST /pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.svc.Pages.Create(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Page")
		return
	}
	WriteCreated(w, storePageToResponse(page))
}

// UpdatePage handles PUT /pages/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req PageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.svc.Pages.Update(r.Context(), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Page")
		return
	}
	WriteSuccess(w, storePageToResponse(page), nil)
}

// DeletePage handles DELETE /pages/{id}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Pages.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Page")
		return
	}
	WriteNoContent(w)
}

// PortfolioItemRequest is the body of portfolio create and update requests.
type PortfolioItemRequest struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Client      *string `json:"client"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	ProjectURL  *string `json:"project_url"`
	Featured    *bool   `json:"featured"`
	Order       *int64  `json:"order"`
	Status      *string `json:"status"`
}

func (req PortfolioItemRequest) input() service.PortfolioInput {
	return service.PortfolioInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Content:     req.Content,
		Client:      req.Client,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		ProjectURL:  req.ProjectURL,
		Featured:    req.Featured,
		Order:       req.Order,
		Status:      req.Status,
	}
}

// ListPortfolioItems handles GET /portfolio, optionally filtered by category.
func (h *Handler) ListPortfolioItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.Portfolio.List(r.Context(), q.Get("status"), q.Get("category"), !h.canRead(r, auth.ResourcePortfolio))
	if err != nil {
		h.writeServiceError(w, r, err, "Portfolio item")
		return
	}
	WriteSuccess(w, mapSlice(items, storePortfolioItemToResponse), nil)
}

// GetPortfolioItem handles GET /portfolio/{id}.
func (h *Handler) GetPortfolioItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Portfolio.Get(r.Context(), id, !h.canRead(r, auth.ResourcePortfolio))
	if err != nil {
		h.writeServiceError(w, r, err, "Portfolio item")
		return
	}
	WriteSuccess(w, storePortfolioItemToResponse(item), nil)
}

// GetPortfolioItemBySlug handles GET /portfolio/slug/{slug}.
func (h *Handler) GetPortfolioItemBySlug(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Portfolio.GetBySlug(r.Context(), chi.URLParam(r, "slug"), !h.canRead(r, auth.ResourcePortfolio))
	if err != nil {
		h.writeServiceError(w, r, err, "Portfolio item")
		return
	}
	WriteSuccess(w, storePortfolioItemToResponse(item), nil)
}

// CreatePortfolioItem handles POST /portfolio.
func (h *Handler) CreatePortfolioItem(w http.ResponseWriter, r *http.Request) {
	var req PortfolioItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.Portfolio.Create(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Portfolio item")
		return
	}
	WriteCreated(w, storePortfolioItemToResponse(item))
}

// UpdatePortfolioItem handles PUT /portfolio/{id}.
func (h *Handler) UpdatePortfolioItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req PortfolioItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.Portfolio.Update(r.Context(), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Portfolio item")
		return
	}
	WriteSuccess(w, storePortfolioItemToResponse(item), nil)
}

// DeletePortfolioItem handles DELETE /portfolio/{id}.
func (h *Handler) DeletePortfolioItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Portfolio.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Portfolio item")
		return
	}
	WriteNoContent(w)
}

// TeamMemberRequest is the body of team member create and update requests.
type TeamMemberRequest struct {
	Name        *string `json:"name"`
	Position    *string `json:"position"`
	Bio         *string `json:"bio"`
	ImageURL    *string `json:"image_url"`
	Email       *string `json:"email"`
	LinkedinURL *string `json:"linkedin_url"`
	Order       *int64  `json:"order"`
	Active      *bool   `json:"active"`
}

func (req TeamMemberRequest) input() service.TeamInput {
	return service.TeamInput{
		Name:        req.Name,
		Position:    req.Position,
		Bio:         req.Bio,
		ImageURL:    req.ImageURL,
		Email:       req.Email,
		LinkedinURL: req.LinkedinURL,
		Order:       req.Order,
		Active:      req.Active,
	}
}

// ListTeamMembers handles GET /team-members. Anonymous clients only see
// active members.
func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Team.List(r.Context(), !h.canRead(r, auth.ResourceTeam))
	if err != nil {
		h.writeServiceError(w, r, err, "Team member")
		return
	}
	WriteSuccess(w, mapSlice(members, storeTeamMemberToResponse), nil)
}

// GetTeamMember handles GET /team-members/{id}.
func (h *Handler) GetTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	member, err := h.svc.Team.Get(r.Context(), id, !h.canRead(r, auth.ResourceTeam))
	if err != nil {
		h.writeServiceError(w, r, err, "Team member")
		return
	}
	WriteSuccess(w, storeTeamMemberToResponse(member), nil)
}

// CreateTeamMember handles POST /team-members.
func (h *Handler) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var req TeamMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	member, err := h.svc.Team.Create(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Team member")
		return
	}
	WriteCreated(w, storeTeamMemberToResponse(member))
}

// UpdateTeamMember handles PUT /team-members/{id}.
func (h *Handler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req TeamMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	member, err := h.svc.Team.Update(r.Context(), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Team member")
		return
	}
	WriteSuccess(w, storeTeamMemberToResponse(member), nil)
}

// DeleteTeamMember handles DELETE /team-members/{id}.
func (h *Handler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Team.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Team member")
		return
	}
	WriteNoContent(w)
}
