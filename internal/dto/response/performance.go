package response

import (
	"time"

	"theatre-booking/internal/data/entity"
)

type PerformanceListResponse struct {
	ID                  string    `json:"id"`
	PlayTitle           string    `json:"play_title"`
	TheatreHallName     string    `json:"theatre_hall_name"`
	TheatreHallCapacity int       `json:"theatre_hall_capacity"`
	ShowTime            time.Time `json:"show_time"`
	AvailableTickets    int       `json:"available_tickets"`
}

type PlayRefResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type SeatResponse struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

type PerformanceDetailResponse struct {
	ID               string              `json:"id"`
	Play             PlayRefResponse     `json:"play"`
	TheatreHall      TheatreHallResponse `json:"theatre_hall"`
	ShowTime         time.Time           `json:"show_time"`
	AvailableTickets int                 `json:"available_tickets"`
	TakenPlaces      []SeatResponse      `json:"taken_places"`
}

func PerformanceToListResponse(p *entity.PerformanceDetail) PerformanceListResponse {
	return PerformanceListResponse{
		ID:                  p.ID.String(),
		PlayTitle:           p.PlayTitle,
		TheatreHallName:     p.Hall.Name,
		TheatreHallCapacity: p.Hall.Capacity(),
		ShowTime:            p.ShowTime,
		AvailableTickets:    p.AvailableTickets(),
	}
}

func PerformanceToDetailResponse(p *entity.PerformanceDetail, taken []entity.Seat) PerformanceDetailResponse {
	resp := PerformanceDetailResponse{
		ID:               p.ID.String(),
		Play:             PlayRefResponse{ID: p.PlayID.String(), Title: p.PlayTitle},
		TheatreHall:      TheatreHallToResponse(&p.Hall),
		ShowTime:         p.ShowTime,
		AvailableTickets: p.AvailableTickets(),
		TakenPlaces:      make([]SeatResponse, 0, len(taken)),
	}

	for _, seat := range taken {
		resp.TakenPlaces = append(resp.TakenPlaces, SeatResponse{Row: seat.Row, Seat: seat.Seat})
	}

	return resp
}
