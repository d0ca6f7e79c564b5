package request

type GenreRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type ActorRequest struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
}

type TheatreHallRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Rows       int    `json:"rows" validate:"required,gte=1,lte=500"`
	SeatsInRow int    `json:"seats_in_row" validate:"required,gte=1,lte=500"`
}

// NameFilterRequest carries the substring filter of catalog listings.
type NameFilterRequest struct {
	PaginatedRequest
	Name string
}
