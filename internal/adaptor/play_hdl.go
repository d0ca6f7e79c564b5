package adaptor

import (
	"net/http"

	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/utils"

	"go.uber.org/zap"
)

type PlayHandler struct {
	service usecase.PlayService
	log     *zap.Logger
}

func NewPlayHandler(service usecase.PlayService, log *zap.Logger) *PlayHandler {
	return &PlayHandler{
		service: service,
		log:     log.With(zap.String("handler", "play")),
	}
}

// ListPlays handles GET /api/theatre/plays?genres=<id,id>&actors=<id,id>
func (h *PlayHandler) ListPlays(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	genreIDs, err := utils.ParseUUIDList(query.Get("genres"))
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"genres": err.Error()})
		return
	}
	actorIDs, err := utils.ParseUUIDList(query.Get("actors"))
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"actors": err.Error()})
		return
	}

	req := &request.PlayFilterRequest{
		PaginatedRequest: pageFromQuery(r),
		GenreIDs:         genreIDs,
		ActorIDs:         actorIDs,
	}

	plays, err := h.service.ListPlays(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list plays")
		return
	}
	utils.ResponseSuccess(w, "success", plays)
}

// GetPlay handles GET /api/theatre/plays/{id}
func (h *PlayHandler) GetPlay(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	play, err := h.service.GetPlay(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get play")
		return
	}
	utils.ResponseSuccess(w, "success", play)
}

// CreatePlay handles POST /api/theatre/plays (admin only)
func (h *PlayHandler) CreatePlay(w http.ResponseWriter, r *http.Request) {
	var req request.PlayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	play, err := h.service.CreatePlay(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create play")
		return
	}
	utils.ResponseCreated(w, "success", play)
}

// UpdatePlay handles PUT /api/theatre/plays/{id} (admin only)
func (h *PlayHandler) UpdatePlay(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.PlayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	play, err := h.service.UpdatePlay(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update play")
		return
	}
	utils.ResponseSuccess(w, "success", play)
}

// DeletePlay handles DELETE /api/theatre/plays/{id} (admin only)
func (h *PlayHandler) DeletePlay(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePlay(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete play")
		return
	}
	utils.ResponseSuccess(w, "success", nil)
}

// EvaluatePlay handles POST /api/theatre/plays/{id}/evaluate
func (h *PlayHandler) EvaluatePlay(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	playID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.EvaluatePlayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	play, err := h.service.EvaluatePlay(r.Context(), userID, playID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "evaluate play")
		return
	}
	utils.ResponseSuccess(w, "success", play)
}
