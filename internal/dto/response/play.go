package response

import (
	"time"

	"theatre-booking/internal/data/entity"
)

// PlayListResponse flattens genres and actors to names.
type PlayListResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Genres        []string `json:"genres"`
	Actors        []string `json:"actors"`
	AverageRating *float64 `json:"average_rating"`
}

type PlayDetailResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Genres        []GenreResponse `json:"genres"`
	Actors        []ActorResponse `json:"actors"`
	AverageRating *float64        `json:"average_rating"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func PlayToListResponse(play *entity.Play, genres []*entity.Genre, actors []*entity.Actor) PlayListResponse {
	resp := PlayListResponse{
		ID:            play.ID.String(),
		Title:         play.Title,
		Description:   play.Description,
		Genres:        make([]string, 0, len(genres)),
		Actors:        make([]string, 0, len(actors)),
		AverageRating: play.AverageRating,
	}

	for _, genre := range genres {
		resp.Genres = append(resp.Genres, genre.Name)
	}
	for _, actor := range actors {
		resp.Actors = append(resp.Actors, actor.FullName())
	}

	return resp
}

func PlayToDetailResponse(play *entity.Play, genres []*entity.Genre, actors []*entity.Actor, mediaPrefix string) PlayDetailResponse {
	resp := PlayDetailResponse{
		ID:            play.ID.String(),
		Title:         play.Title,
		Description:   play.Description,
		Genres:        make([]GenreResponse, 0, len(genres)),
		Actors:        make([]ActorResponse, 0, len(actors)),
		AverageRating: play.AverageRating,
		UpdatedAt:     play.UpdatedAt,
	}

	for _, genre := range genres {
		resp.Genres = append(resp.Genres, GenreToResponse(genre))
	}
	for _, actor := range actors {
		resp.Actors = append(resp.Actors, ActorToResponse(actor, mediaPrefix))
	}

	return resp
}
