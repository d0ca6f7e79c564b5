package response

import (
	"time"

	"theatre-booking/internal/data/entity"
)

type TicketPerformanceResponse struct {
	ID              string    `json:"id"`
	PlayID          string    `json:"play_id"`
	PlayTitle       string    `json:"play_title"`
	TheatreHallID   string    `json:"theatre_hall_id"`
	TheatreHallName string    `json:"theatre_hall_name"`
	ShowTime        time.Time `json:"show_time"`
}

type TicketResponse struct {
	ID          string                    `json:"id"`
	Row         int                       `json:"row"`
	Seat        int                       `json:"seat"`
	Performance TicketPerformanceResponse `json:"performance"`
}

type ReservationResponse struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Status    bool             `json:"status"`
	Tickets   []TicketResponse `json:"tickets"`
}

func TicketToResponse(t *entity.TicketView) TicketResponse {
	return TicketResponse{
		ID:   t.ID.String(),
		Row:  t.Row,
		Seat: t.Seat,
		Performance: TicketPerformanceResponse{
			ID:              t.PerformanceID.String(),
			PlayID:          t.PlayID.String(),
			PlayTitle:       t.PlayTitle,
			TheatreHallID:   t.TheatreHallID.String(),
			TheatreHallName: t.TheatreHallName,
			ShowTime:        t.ShowTime,
		},
	}
}

func ReservationToResponse(reservation *entity.Reservation, tickets []*entity.TicketView) ReservationResponse {
	resp := ReservationResponse{
		ID:        reservation.ID.String(),
		CreatedAt: reservation.CreatedAt,
		Status:    reservation.Status,
		Tickets:   make([]TicketResponse, 0, len(tickets)),
	}

	for _, ticket := range tickets {
		resp.Tickets = append(resp.Tickets, TicketToResponse(ticket))
	}

	return resp
}
