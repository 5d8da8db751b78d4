package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"prospekt/internal/config"
	"prospekt/internal/domain"
	"prospekt/internal/domain/services"
	"prospekt/internal/httputil"
)

// BrochureHandler handles brochure HTTP requests
type BrochureHandler struct {
	service services.BrochureService
	logger  *slog.Logger
}

// NewBrochureHandler creates a new brochure handler
func NewBrochureHandler(service services.BrochureService, logger *slog.Logger) *BrochureHandler {
	return &BrochureHandler{
		service: service,
		logger:  logger,
	}
}

// Generate creates a brochure from a prompt. Accepts JSON, or
// multipart form data when the request carries a hero upload.
// POST /api/brochures
func (h *BrochureHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.GenerateRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		req.Prompt = r.FormValue("prompt")
		req.Preset = r.FormValue("preset")

		if file, header, err := r.FormFile("hero"); err == nil {
			upload, err := readUpload(file, header)
			if err != nil {
				handleError(w, err)
				return
			}
			req.Hero = upload
		}
	} else {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	result, err := h.service.Generate(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// List returns the user's brochure history, newest first.
// GET /api/brochures
func (h *BrochureHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	summaries, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"brochures": summaries,
	})
}

type refineRequest struct {
	Instruction string `json:"instruction"`
}

// Refine applies a free-text edit instruction to a brochure.
// POST /api/brochures/{id}/refine
func (h *BrochureHandler) Refine(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")

	var req refineRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Refine(r.Context(), id, userID, req.Instruction)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// SetHero replaces the hero image with an upload.
// POST /api/brochures/{id}/hero
func (h *BrochureHandler) SetHero(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("hero")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "hero file is required")
		return
	}
	upload, err := readUpload(file, header)
	if err != nil {
		handleError(w, err)
		return
	}

	result, err := h.service.SetHero(r.Context(), id, userID, upload)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// AppendGallery adds uploaded images to the brochure's gallery.
// POST /api/brochures/{id}/gallery
func (h *BrochureHandler) AppendGallery(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["images"]) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "at least one image file is required")
		return
	}

	var uploads []*services.Upload
	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "unreadable image file")
			return
		}
		upload, err := readUpload(file, header)
		if err != nil {
			handleError(w, err)
			return
		}
		uploads = append(uploads, upload)
	}

	result, err := h.service.AppendGallery(r.Context(), id, userID, uploads)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// UpdateContact merges a partial contact update into the brochure.
// PATCH /api/brochures/{id}/contact
func (h *BrochureHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")

	var req services.ContactUpdate
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateContact(r.Context(), id, userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// readUpload drains one multipart file into an Upload, enforcing the
// byte cap before the body is buffered whole.
func readUpload(file multipart.File, header *multipart.FileHeader) (*services.Upload, error) {
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, config.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable upload", domain.ErrValidation)
	}
	if len(data) > config.MaxUploadBytes {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrValidation, config.MaxUploadBytes)
	}
	return &services.Upload{Filename: header.Filename, Data: data}, nil
}
