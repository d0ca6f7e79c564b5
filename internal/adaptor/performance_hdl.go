package adaptor

import (
	"net/http"

	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PerformanceHandler struct {
	service usecase.PerformanceService
	log     *zap.Logger
}

func NewPerformanceHandler(service usecase.PerformanceService, log *zap.Logger) *PerformanceHandler {
	return &PerformanceHandler{
		service: service,
		log:     log.With(zap.String("handler", "performance")),
	}
}

// ListPerformances handles GET /api/theatre/performances?date=YYYY-MM-DD&play=<id>
func (h *PerformanceHandler) ListPerformances(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := utils.ParseDate(query.Get("date"))
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"date": err.Error()})
		return
	}

	req := &request.PerformanceFilterRequest{
		PaginatedRequest: pageFromQuery(r),
		Date:             date,
	}
	if raw := query.Get("play"); raw != "" {
		playID, err := uuid.Parse(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"play": "must be a valid id"})
			return
		}
		req.PlayID = &playID
	}

	performances, err := h.service.ListPerformances(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list performances")
		return
	}
	utils.ResponseSuccess(w, "success", performances)
}

// GetPerformance handles GET /api/theatre/performances/{id}
func (h *PerformanceHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	performance, err := h.service.GetPerformance(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get performance")
		return
	}
	utils.ResponseSuccess(w, "success", performance)
}

// CreatePerformance handles POST /api/theatre/performances (admin only)
func (h *PerformanceHandler) CreatePerformance(w http.ResponseWriter, r *http.Request) {
	var req request.PerformanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	performance, err := h.service.CreatePerformance(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create performance")
		return
	}
	utils.ResponseCreated(w, "success", performance)
}

// UpdatePerformance handles PUT /api/theatre/performances/{id} (admin only)
func (h *PerformanceHandler) UpdatePerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.PerformanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	performance, err := h.service.UpdatePerformance(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update performance")
		return
	}
	utils.ResponseSuccess(w, "success", performance)
}

// DeletePerformance handles DELETE /api/theatre/performances/{id} (admin only)
func (h *PerformanceHandler) DeletePerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePerformance(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete performance")
		return
	}
	utils.ResponseSuccess(w, "success", nil)
}
