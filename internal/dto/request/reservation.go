package request

// TicketRequest leaves row and seat unchecked here; their valid range depends on the hall.
type TicketRequest struct {
	Row         int    `json:"row"`
	Seat        int    `json:"seat"`
	Performance string `json:"performance" validate:"required,uuid"`
}

type CreateReservationRequest struct {
	Tickets []TicketRequest `json:"tickets" validate:"required,min=1,max=50,dive"`
}
