package adaptor

import (
	"net/http"

	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/utils"

	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// ListReservations handles GET /api/theatre/reservations
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	req := pageFromQuery(r)
	reservations, err := h.service.ListReservations(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list reservations")
		return
	}
	utils.ResponseSuccess(w, "success", reservations)
}

// GetReservation handles GET /api/theatre/reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	reservation, err := h.service.GetReservation(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, h.log, err, "get reservation")
		return
	}
	utils.ResponseSuccess(w, "success", reservation)
}

// CreateReservation handles POST /api/theatre/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reservation")
		return
	}
	utils.ResponseCreated(w, "Reservation created", reservation)
}

// CancelReservation handles POST /api/theatre/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	reservation, err := h.service.CancelReservation(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel reservation")
		return
	}
	utils.ResponseSuccess(w, "Reservation cancelled", reservation)
}
