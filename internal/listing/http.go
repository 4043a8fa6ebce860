// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package listing

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/constants"
	"github.com/rooftophq/rooftop/internal/platform/middleware"
	"github.com/rooftophq/rooftop/internal/platform/request"
	"github.com/rooftophq/rooftop/internal/platform/respond"
	"github.com/rooftophq/rooftop/internal/platform/validate"
	"github.com/rooftophq/rooftop/pkg/pagination"
)

// Handler exposes the advertisement endpoints over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new advertisement HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes assembles the advertisement router, mounted under /ad.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Post("/upload-image", handler.uploadImages)
		protected.Delete("/remove-image", handler.removeImage)
		protected.Post("/add-ad", handler.create)
		protected.Get("/user", handler.listOwn)
		protected.Put("/{id}", handler.update)
		protected.Delete("/{id}", handler.delete)
	})

	return router
}

// listResponse is the paginated envelope legacy storefront clients expect.
type listResponse struct {
	Ads         []*Ad `json:"ads"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalAds    int64 `json:"totalAds"`
}

func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	// ── 1. Parse filter and pagination from the query string ──
	filter := Filter{Type: req.URL.Query().Get("type")}
	params := pagination.FromRequest(req)

	// ── 2. Fetch the page ──
	ads, total, err := handler.service.List(req.Context(), filter, params)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	if ads == nil {
		ads = []*Ad{}
	}

	// ── 3. Respond with page metadata ──
	meta := pagination.NewMeta(params.Page, params.Limit, int(total))
	respond.OK(writer, listResponse{
		Ads:         ads,
		CurrentPage: meta.Page,
		TotalPages:  meta.TotalPages,
		TotalAds:    total,
	})
}

func (handler *Handler) get(writer http.ResponseWriter, req *http.Request) {
	// The storefront detail page sets this header exactly once per visit so
	// refreshes do not inflate the counter.
	increment := req.Header.Get(constants.HeaderIncrementView) == "true"

	ad, err := handler.service.Get(req.Context(), request.Param(req, "id"), increment)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, ad)
}

func (handler *Handler) listOwn(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	ads, err := handler.service.ListByOwner(req.Context(), userID, Filter{Type: req.URL.Query().Get("type")})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	if ads == nil {
		ads = []*Ad{}
	}

	respond.OK(writer, ads)
}

func (handler *Handler) create(writer http.ResponseWriter, req *http.Request) {
	// ── 1. Identify the owner ──
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 2. Decode and create ──
	var input AdInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	ad, err := handler.service.Create(req.Context(), userID, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, ad)
}

func (handler *Handler) update(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input AdInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	ad, err := handler.service.Update(req.Context(), request.Param(req, "id"), userID, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, ad)
}

func (handler *Handler) delete(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.service.Delete(req.Context(), request.Param(req, "id"), userID); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Message(writer, "Ad deleted successfully")
}

func (handler *Handler) uploadImages(writer http.ResponseWriter, req *http.Request) {
	// ── 1. Parse the multipart form ──
	if err := req.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		respond.Error(writer, req, apperr.ValidationError("Invalid multipart payload"))
		return
	}
	defer func() {
		if req.MultipartForm != nil {
			_ = req.MultipartForm.RemoveAll()
		}
	}()

	headers := req.MultipartForm.File["images"]
	if len(headers) == 0 {
		respond.Error(writer, req, validate.RequiredError("images", "At least one image is required"))
		return
	}
	if len(headers) > constants.MaxUploadImages {
		respond.Error(writer, req, apperr.ValidationError("Too many files", apperr.FieldError{
			Field:   "images",
			Message: fmt.Sprintf("Maximum %d images per upload", constants.MaxUploadImages),
		}))
		return
	}

	// ── 2. Stream each file to object storage ──
	files := make([]UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			respond.Error(writer, req, apperr.Internal(err))
			return
		}
		opened = append(opened, file)
		files = append(files, UploadFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
	}

	urls, err := handler.service.UploadImages(req.Context(), files)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string][]string{"urls": urls})
}

func (handler *Handler) removeImage(writer http.ResponseWriter, req *http.Request) {
	var body struct {
		Key string `json:"key"`
	}
	if err := request.DecodeJSON(req, &body); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.RemoveImage(req.Context(), body.Key); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Message(writer, "Image deleted successfully")
}
