package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"go.uber.org/zap"
)

// ReservationLogHandler keeps an audit trail of booking activity in the application log.
type ReservationLogHandler struct {
	log *zap.Logger
}

func NewReservationLogHandler(log *zap.Logger) *ReservationLogHandler {
	return &ReservationLogHandler{log: log.With(zap.String("handler", "reservation_audit"))}
}

func (h *ReservationLogHandler) Handlers() []cqrs.EventHandler {
	return []cqrs.EventHandler{
		cqrs.NewEventHandler("audit-reservation-created", h.onCreated),
		cqrs.NewEventHandler("audit-reservation-cancelled", h.onCancelled),
		cqrs.NewEventHandler("audit-play-rated", h.onRated),
	}
}

func (h *ReservationLogHandler) onCreated(ctx context.Context, event *ReservationCreated) error {
	h.log.Info("Reservation created",
		zap.String("reservation_id", event.ReservationID),
		zap.String("user_id", event.UserID),
		zap.Int("ticket_count", len(event.Tickets)),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

func (h *ReservationLogHandler) onCancelled(ctx context.Context, event *ReservationCancelled) error {
	h.log.Info("Reservation cancelled",
		zap.String("reservation_id", event.ReservationID),
		zap.String("user_id", event.UserID),
		zap.Int("ticket_count", event.TicketCount),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

func (h *ReservationLogHandler) onRated(ctx context.Context, event *PlayRated) error {
	fields := []zap.Field{
		zap.String("play_id", event.PlayID),
		zap.String("user_id", event.UserID),
		zap.Float64("mark", event.Mark),
	}
	if event.AverageRating != nil {
		fields = append(fields, zap.Float64("average_rating", *event.AverageRating))
	}
	h.log.Info("Play rated", fields...)
	return nil
}
