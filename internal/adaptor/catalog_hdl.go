package adaptor

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/utils"

	"go.uber.org/zap"
)

// CatalogHandler serves genres, actors and theatre halls.
type CatalogHandler struct {
	service        usecase.CatalogService
	maxUploadBytes int64
	log            *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, maxUploadBytes int64, log *zap.Logger) *CatalogHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &CatalogHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		log:            log.With(zap.String("handler", "catalog")),
	}
}

func nameFilter(r *http.Request, param string) *request.NameFilterRequest {
	return &request.NameFilterRequest{
		PaginatedRequest: pageFromQuery(r),
		Name:             r.URL.Query().Get(param),
	}
}

// ==================== GENRES ====================

// ListGenres handles GET /api/theatre/genres?name=
func (h *CatalogHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.ListGenres(r.Context(), nameFilter(r, "name"))
	if err != nil {
		handleServiceError(w, h.log, err, "list genres")
		return
	}
	utils.ResponseSuccess(w, "success", genres)
}

// GetGenre handles GET /api/theatre/genres/{id}
func (h *CatalogHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	genre, err := h.service.GetGenre(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get genre")
		return
	}
	utils.ResponseSuccess(w, "success", genre)
}

// CreateGenre handles POST /api/theatre/genres (admin only)
func (h *CatalogHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req request.GenreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create genre")
		return
	}
	utils.ResponseCreated(w, "success", genre)
}

// UpdateGenre handles PUT /api/theatre/genres/{id} (admin only)
func (h *CatalogHandler) UpdateGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.GenreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	genre, err := h.service.UpdateGenre(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update genre")
		return
	}
	utils.ResponseSuccess(w, "success", genre)
}

// DeleteGenre handles DELETE /api/theatre/genres/{id} (admin only)
func (h *CatalogHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteGenre(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete genre")
		return
	}
	utils.ResponseSuccess(w, "success", nil)
}

// ==================== ACTORS ====================

// ListActors handles GET /api/theatre/actors?full_name=
func (h *CatalogHandler) ListActors(w http.ResponseWriter, r *http.Request) {
	actors, err := h.service.ListActors(r.Context(), nameFilter(r, "full_name"))
	if err != nil {
		handleServiceError(w, h.log, err, "list actors")
		return
	}
	utils.ResponseSuccess(w, "success", actors)
}

// GetActor handles GET /api/theatre/actors/{id}
func (h *CatalogHandler) GetActor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := h.service.GetActor(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get actor")
		return
	}
	utils.ResponseSuccess(w, "success", actor)
}

// CreateActor handles POST /api/theatre/actors (admin only)
func (h *CatalogHandler) CreateActor(w http.ResponseWriter, r *http.Request) {
	var req request.ActorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actor, err := h.service.CreateActor(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create actor")
		return
	}
	utils.ResponseCreated(w, "success", actor)
}

// UpdateActor handles PUT /api/theatre/actors/{id} (admin only)
func (h *CatalogHandler) UpdateActor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.ActorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actor, err := h.service.UpdateActor(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update actor")
		return
	}
	utils.ResponseSuccess(w, "success", actor)
}

// DeleteActor handles DELETE /api/theatre/actors/{id} (admin only)
func (h *CatalogHandler) DeleteActor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteActor(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete actor")
		return
	}
	utils.ResponseSuccess(w, "success", nil)
}

// UploadActorImage handles POST /api/theatre/actors/{id}/upload-image (admin only).
// Expects a multipart form with the file in field "image".
func (h *CatalogHandler) UploadActorImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<10)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"image": "file is too large"})
			return
		}
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile("image")
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"image": "no file was submitted"})
		return
	}
	defer file.Close()

	// Trust the bytes, not the client supplied header.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	actor, err := h.service.UploadActorImage(r.Context(), id, contentType, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		handleServiceError(w, h.log, err, "upload actor image")
		return
	}
	utils.ResponseSuccess(w, "success", actor)
}

// ==================== THEATRE HALLS ====================

// ListTheatreHalls handles GET /api/theatre/theatrehalls?name=
func (h *CatalogHandler) ListTheatreHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := h.service.ListTheatreHalls(r.Context(), nameFilter(r, "name"))
	if err != nil {
		handleServiceError(w, h.log, err, "list theatre halls")
		return
	}
	utils.ResponseSuccess(w, "success", halls)
}

// GetTheatreHall handles GET /api/theatre/theatrehalls/{id}
func (h *CatalogHandler) GetTheatreHall(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	hall, err := h.service.GetTheatreHall(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get theatre hall")
		return
	}
	utils.ResponseSuccess(w, "success", hall)
}

// CreateTheatreHall handles POST /api/theatre/theatrehalls (admin only)
func (h *CatalogHandler) CreateTheatreHall(w http.ResponseWriter, r *http.Request) {
	var req request.TheatreHallRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hall, err := h.service.CreateTheatreHall(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create theatre hall")
		return
	}
	utils.ResponseCreated(w, "success", hall)
}

// UpdateTheatreHall handles PUT /api/theatre/theatrehalls/{id} (admin only)
func (h *CatalogHandler) UpdateTheatreHall(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.TheatreHallRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hall, err := h.service.UpdateTheatreHall(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update theatre hall")
		return
	}
	utils.ResponseSuccess(w, "success", hall)
}

// DeleteTheatreHall handles DELETE /api/theatre/theatrehalls/{id} (admin only)
func (h *CatalogHandler) DeleteTheatreHall(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTheatreHall(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete theatre hall")
		return
	}
	utils.ResponseSuccess(w, "success", nil)
}
