// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-api/internal/auth"
	"github.com/olegiv/ocms-api/internal/middleware"
)

// RouteOptions configures the router built by Routes.
type RouteOptions struct {
	Issuer *auth.SessionIssuer
	// PublicLimiter throttles unauthenticated write endpoints (contact form,
	// password reset). Nil disables it.
	PublicLimiter *middleware.RateLimiter
}

// crudHandlers are the handlers of a standard resource.
type crudHandlers struct {
	List, Get, Create, Update, Delete http.HandlerFunc
	// BySlug is optional.
	BySlug http.HandlerFunc
}

// Routes returns the API router, meant to be mounted at /api.
func (h *Handler) Routes(opts RouteOptions) http.Handler {
	r := chi.NewRouter()

	optional := middleware.OptionalSession(opts.Issuer)
	required := middleware.RequireSession(opts.Issuer)
	public := func(next http.Handler) http.Handler { return next }
	if opts.PublicLimiter != nil {
		public = opts.PublicLimiter.Middleware()
	}

	// Auth
	r.Route("/auth", func(r chi.Router) {
		if h.login != nil {
			r.With(h.login.Middleware()).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}
		r.With(public).Post("/forgot-password", h.ForgotPassword)
		r.With(public).Post("/reset-password", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(required, middleware.NoStore)
			r.Get("/profile", h.Profile)
			h.gated(r, auth.ResourceUsers, "/users", crudHandlers{
				List: h.ListUsers, Get: h.GetUser, Create: h.CreateUser, Update: h.UpdateUser, Delete: h.DeleteUser,
			})
		})
	})

	// Published content: anonymous reads, drafts for readers with permission.
	content := []struct {
		base     string
		resource auth.Resource
		handlers crudHandlers
	}{
		{"/blog", auth.ResourceBlog, crudHandlers{
			List: h.ListBlogPosts, Get: h.GetBlogPost, BySlug: h.GetBlogPostBySlug,
			Create: h.CreateBlogPost, Update: h.UpdateBlogPost, Delete: h.DeleteBlogPost,
		}},
		{"/pages", auth.ResourcePages, crudHandlers{
			List: h.ListPages, Get: h.GetPage, BySlug: h.GetPageBySlug,
			Create: h.CreatePage, Update: h.UpdatePage, Delete: h.DeletePage,
		}},
		{"/portfolio", auth.ResourcePortfolio, crudHandlers{
			List: h.ListPortfolioItems, Get: h.GetPortfolioItem, BySlug: h.GetPortfolioItemBySlug,
			Create: h.CreatePortfolioItem, Update: h.UpdatePortfolioItem, Delete: h.DeletePortfolioItem,
		}},
		{"/team-members", auth.ResourceTeam, crudHandlers{
			List: h.ListTeamMembers, Get: h.GetTeamMember,
			Create: h.CreateTeamMember, Update: h.UpdateTeamMember, Delete: h.DeleteTeamMember,
		}},
	}
	for _, c := range content {
		r.Group(func(r chi.Router) {
			r.Use(optional)
			r.Get(c.base, c.handlers.List)
			r.Get(c.base+"/{id}", c.handlers.Get)
			if c.handlers.BySlug != nil {
				r.Get(c.base+"/slug/{slug}", c.handlers.BySlug)
			}
		})
		r.Group(func(r chi.Router) {
			r.Use(required, middleware.NoStore)
			h.writes(r, c.resource, c.base, c.handlers)
		})
	}

	// Public menus, settings and the contact form
	r.Get("/menus/public/{location}", h.PublicMenu)
	r.Get("/website-settings/public", h.PublicSettings)
	r.With(public, optional, middleware.Authorize(h.gate, auth.ResourceContact, auth.OpCreate)).
		Post("/contact", h.SubmitContact)

	r.Group(func(r chi.Router) {
		r.Use(required, middleware.NoStore)

		h.gated(r, auth.ResourceMedia, "/media", crudHandlers{
			List: h.ListMedia, Get: h.GetMedia, Create: h.UploadMedia, Update: h.UpdateMedia, Delete: h.DeleteMedia,
		})

		menuRead := middleware.Authorize(h.gate, auth.ResourceMenus, auth.OpRead)
		menuWrite := middleware.Authorize(h.gate, auth.ResourceMenus, auth.OpUpdate)
		r.With(menuRead).Get("/menus/location/{location}", h.MenuByLocation)
		r.With(menuWrite).Post("/menus/items/reorder", h.ReorderMenuItems)
		r.With(menuWrite).Put("/menus/items/{id}", h.UpdateMenuItem)
		r.With(middleware.Authorize(h.gate, auth.ResourceMenus, auth.OpDelete)).Delete("/menus/items/{id}", h.DeleteMenuItem)
		r.With(menuRead).Get("/menus/{id}/items", h.ListMenuItems)
		r.With(middleware.Authorize(h.gate, auth.ResourceMenus, auth.OpCreate)).Post("/menus/{id}/items", h.CreateMenuItem)
		h.gated(r, auth.ResourceMenus, "/menus", crudHandlers{
			List: h.ListMenus, Get: h.GetMenu, Create: h.CreateMenu, Update: h.UpdateMenu, Delete: h.DeleteMenu,
		})

		contactRead := middleware.Authorize(h.gate, auth.ResourceContact, auth.OpRead)
		r.With(contactRead).Get("/contact", h.ListContactMessages)
		r.With(contactRead).Get("/contact/{id}", h.GetContactMessage)
		r.With(middleware.Authorize(h.gate, auth.ResourceContact, auth.OpUpdate)).Patch("/contact/{id}", h.UpdateContactMessage)
		r.With(middleware.Authorize(h.gate, auth.ResourceContact, auth.OpReply)).Post("/contact/reply/{id}", h.ReplyContactMessage)
		r.With(middleware.Authorize(h.gate, auth.ResourceContact, auth.OpDelete)).Delete("/contact/{id}", h.DeleteContactMessage)

		r.Route("/notifications", func(r chi.Router) {
			read := middleware.Authorize(h.gate, auth.ResourceNotifications, auth.OpRead)
			update := middleware.Authorize(h.gate, auth.ResourceNotifications, auth.OpUpdate)
			remove := middleware.Authorize(h.gate, auth.ResourceNotifications, auth.OpDelete)
			r.With(read).Get("/", h.ListNotifications)
			r.With(middleware.Authorize(h.gate, auth.ResourceNotifications, auth.OpCreate)).Post("/", h.CreateNotification)
			r.With(read).Get("/unread/count", h.UnreadNotificationCount)
			r.With(update).Patch("/read-all", h.MarkAllNotificationsRead)
			r.With(remove).Delete("/expired", h.DeleteExpiredNotifications)
			r.With(read).Get("/{id}", h.GetNotification)
			r.With(update).Patch("/{id}", h.UpdateNotification)
			r.With(update).Patch("/{id}/read", h.MarkNotificationRead)
			r.With(remove).Delete("/{id}", h.DeleteNotification)
		})

		r.Route("/website-settings", func(r chi.Router) {
			read := middleware.Authorize(h.gate, auth.ResourceSettings, auth.OpRead)
			r.With(read).Get("/", h.ListSettings)
			r.With(middleware.Authorize(h.gate, auth.ResourceSettings, auth.OpCreate)).Post("/", h.UpsertSetting)
			r.With(read).Get("/{key}", h.GetSetting)
			r.With(middleware.Authorize(h.gate, auth.ResourceSettings, auth.OpUpdate)).Put("/{key}", h.UpdateSetting)
			r.With(middleware.Authorize(h.gate, auth.ResourceSettings, auth.OpDelete)).Delete("/{key}", h.DeleteSetting)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed", nil)
	})

	return r
}

// gated registers list, get and the write routes of a resource, each
// guarded by its permission.
func (h *Handler) gated(r chi.Router, res auth.Resource, base string, hs crudHandlers) {
	read := middleware.Authorize(h.gate, res, auth.OpRead)
	r.With(read).Get(base, hs.List)
	r.With(read).Get(base+"/{id}", hs.Get)
	h.writes(r, res, base, hs)
}

// writes registers create, update and delete for a resource.
func (h *Handler) writes(r chi.Router, res auth.Resource, base string, hs crudHandlers) {
	r.With(middleware.Authorize(h.gate, res, auth.OpCreate)).Post(base, hs.Create)
	r.With(middleware.Authorize(h.gate, res, auth.OpUpdate)).Put(base+"/{id}", hs.Update)
	r.With(middleware.Authorize(h.gate, res, auth.OpDelete)).Delete(base+"/{id}", hs.Delete)
}
