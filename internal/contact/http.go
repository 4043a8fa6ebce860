// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rooftophq/rooftop/internal/platform/middleware"
	"github.com/rooftophq/rooftop/internal/platform/request"
	"github.com/rooftophq/rooftop/internal/platform/respond"
	"github.com/rooftophq/rooftop/internal/platform/validate"
)

// Handler exposes the inquiry endpoint over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new contact HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes assembles the contact router, mounted under /send-email.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.sendInquiry)

	return router
}

func (handler *Handler) sendInquiry(writer http.ResponseWriter, req *http.Request) {
	senderID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input InquiryInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.SendInquiry(req.Context(), senderID, input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Message(writer, "Email sent successfully")
}
