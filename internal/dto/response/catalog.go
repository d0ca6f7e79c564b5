package response

import (
	"path"

	"theatre-booking/internal/data/entity"
)

type GenreResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ActorResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	FullName  string  `json:"full_name"`
	Image     *string `json:"image"`
}

type TheatreHallResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	SeatsInRow int    `json:"seats_in_row"`
	Capacity   int    `json:"capacity"`
}

func GenreToResponse(genre *entity.Genre) GenreResponse {
	return GenreResponse{
		ID:   genre.ID.String(),
		Name: genre.Name,
	}
}

// ActorToResponse renders the stored image path as a URL under mediaPrefix.
func ActorToResponse(actor *entity.Actor, mediaPrefix string) ActorResponse {
	resp := ActorResponse{
		ID:        actor.ID.String(),
		FirstName: actor.FirstName,
		LastName:  actor.LastName,
		FullName:  actor.FullName(),
	}

	if actor.ImagePath != nil && *actor.ImagePath != "" {
		url := path.Join("/", mediaPrefix, *actor.ImagePath)
		resp.Image = &url
	}

	return resp
}

func TheatreHallToResponse(hall *entity.TheatreHall) TheatreHallResponse {
	return TheatreHallResponse{
		ID:         hall.ID.String(),
		Name:       hall.Name,
		Rows:       hall.Rows,
		SeatsInRow: hall.SeatsInRow,
		Capacity:   hall.Capacity(),
	}
}
