// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package wishlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rooftophq/rooftop/internal/platform/middleware"
	"github.com/rooftophq/rooftop/internal/platform/request"
	"github.com/rooftophq/rooftop/internal/platform/respond"
	"github.com/rooftophq/rooftop/internal/platform/validate"
)

// Handler exposes the wishlist endpoints over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new wishlist HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes assembles the wishlist router, mounted under /users/wishlist.
// Every endpoint requires an authenticated account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.add)
	router.Delete("/{adID}", handler.remove)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	ads, err := handler.service.List(req.Context(), userID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, ads)
}

func (handler *Handler) add(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var body struct {
		AdID string `json:"adId"`
	}
	if err := request.DecodeJSON(req, &body); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.Add(req.Context(), userID, body.AdID); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Message(writer, "Ad added to wishlist")
}

func (handler *Handler) remove(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.service.Remove(req.Context(), userID, request.Param(req, "adID")); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Message(writer, "Ad removed from wishlist")
}
