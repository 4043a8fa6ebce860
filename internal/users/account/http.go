// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rooftophq/rooftop/internal/platform/middleware"
	"github.com/rooftophq/rooftop/internal/platform/request"
	"github.com/rooftophq/rooftop/internal/platform/respond"
	"github.com/rooftophq/rooftop/internal/platform/validate"
)

// Handler exposes the profile endpoints over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new profile HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes assembles the profile router, mounted under /users.
// Reads are public; edits require the authenticated owner.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{username}", handler.getByUsername)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Put("/{id}", handler.update)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	users, err := handler.service.List(req.Context())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, users)
}

func (handler *Handler) getByUsername(writer http.ResponseWriter, req *http.Request) {
	user, err := handler.service.GetByUsername(req.Context(), request.Param(req, "username"))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) update(writer http.ResponseWriter, req *http.Request) {
	actorID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input ProfileInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	// "me" is the canonical self-edit path; a raw ID still works for legacy
	// clients but only ever passes the ownership check for the caller.
	accountID := request.Param(req, "id")
	if accountID == "me" {
		accountID = actorID
	}

	user, err := handler.service.UpdateProfile(req.Context(), accountID, actorID, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user)
}
