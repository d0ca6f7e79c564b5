package adaptor

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleServiceError translates usecase errors into the response envelope.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *usecase.ValidationError
		conflictErr   *usecase.SeatConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Debug(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.As(err, &conflictErr):
		log.Info(operation+" failed - seat taken", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{
			conflictErr.Field: "This place is already booked",
		})

	case errors.Is(err, usecase.ErrSeatAlreadyBooked):
		log.Info(operation+" failed - seat taken", zap.Error(err))
		utils.ResponseBadRequest(w, "This place is already booked", nil)

	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrDuplicate):
		log.Debug(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Not found")

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Info(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, "No active account found with the given credentials")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeJSON reads the request body into dst and answers 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// pathID parses the {id} route parameter. Malformed ids cannot match any row.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseNotFound(w, "Not found")
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication credentials were not provided")
		return uuid.Nil, false
	}
	return userID, true
}

func pageFromQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

func clientMeta(r *http.Request) usecase.ClientMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return usecase.ClientMeta{UserAgent: r.UserAgent(), IPAddress: ip}
}
