package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/dto/response"
	"theatre-booking/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const actorImageDir = "actors"

// CatalogService manages the reference data plays are built from: genres, actors and theatre halls.
type CatalogService interface {
	// Genres
	ListGenres(ctx context.Context, req *request.NameFilterRequest) (*response.PaginatedResponse[response.GenreResponse], error)
	GetGenre(ctx context.Context, id uuid.UUID) (*response.GenreResponse, error)
	CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error)
	UpdateGenre(ctx context.Context, id uuid.UUID, req *request.GenreRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, id uuid.UUID) error

	// Actors
	ListActors(ctx context.Context, req *request.NameFilterRequest) (*response.PaginatedResponse[response.ActorResponse], error)
	GetActor(ctx context.Context, id uuid.UUID) (*response.ActorResponse, error)
	CreateActor(ctx context.Context, req *request.ActorRequest) (*response.ActorResponse, error)
	UpdateActor(ctx context.Context, id uuid.UUID, req *request.ActorRequest) (*response.ActorResponse, error)
	DeleteActor(ctx context.Context, id uuid.UUID) error
	UploadActorImage(ctx context.Context, id uuid.UUID, contentType string, image io.Reader) (*response.ActorResponse, error)

	// Theatre halls
	ListTheatreHalls(ctx context.Context, req *request.NameFilterRequest) (*response.PaginatedResponse[response.TheatreHallResponse], error)
	GetTheatreHall(ctx context.Context, id uuid.UUID) (*response.TheatreHallResponse, error)
	CreateTheatreHall(ctx context.Context, req *request.TheatreHallRequest) (*response.TheatreHallResponse, error)
	UpdateTheatreHall(ctx context.Context, id uuid.UUID, req *request.TheatreHallRequest) (*response.TheatreHallResponse, error)
	DeleteTheatreHall(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo        *repository.Repository
	images      storage.ImageStorage
	mediaPrefix string
	log         *zap.Logger
}

func NewCatalogService(repo *repository.Repository, images storage.ImageStorage, mediaPrefix string, log *zap.Logger) CatalogService {
	return &catalogService{
		repo:        repo,
		images:      images,
		mediaPrefix: mediaPrefix,
		log:         log.With(zap.String("service", "catalog")),
	}
}

// ==================== GENRES ====================

func (s *catalogService) ListGenres(ctx context.Context, req *request.NameFilterRequest) (*response.PaginatedResponse[response.GenreResponse], error) {
	normalizePage(&req.PaginatedRequest)
	name := strings.TrimSpace(req.Name)

	genres, err := s.repo.Genre.FindAll(ctx, name, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	total, err := s.repo.Genre.CountAll(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("count genres: %w", err)
	}

	data := make([]response.GenreResponse, len(genres))
	for i, genre := range genres {
		data[i] = response.GenreToResponse(genre)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *catalogService) GetGenre(ctx context.Context, id uuid.UUID) (*response.GenreResponse, error) {
	genre, err := s.repo.Genre.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get genre: %w", err)
	}
	if genre == nil {
		return nil, notFound("genre", id)
	}

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *catalogService) CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		Name: strings.TrimSpace(req.Name),
	}

	if err := s.repo.Genre.Create(ctx, genre); err != nil {
		return nil, duplicateAsField(err, "name", "genre with this name already exists")
	}

	s.log.Info("Genre created", zap.String("genre_id", genre.ID.String()), zap.String("name", genre.Name))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *catalogService) UpdateGenre(ctx context.Context, id uuid.UUID, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	genre, err := s.repo.Genre.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get genre: %w", err)
	}
	if genre == nil {
		return nil, notFound("genre", id)
	}

	genre.Name = strings.TrimSpace(req.Name)
	if err := s.repo.Genre.Update(ctx, genre); err != nil {
		return nil, duplicateAsField(err, "name", "genre with this name already exists")
	}

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *catalogService) DeleteGenre(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Genre.Delete(ctx, id); err != nil {
		return mapRepoError("delete genre", err)
	}

	s.log.Info("Genre deleted", zap.String("genre_id", id.String()))
	return nil
}

// ==================== ACTORS ====================

func (s *catalogService) ListActors(ctx context.Context, req *request.NameFilterRequest) (*response.PaginatedResponse[response.ActorResponse], error) {
	normalizePage(&req.PaginatedRequest)
	fullName := strings.TrimSpace(req.Name)

	actors, err := s.repo.Actor.FindAll(ctx, fullName, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}

	total, err := s.repo.Actor.CountAll(ctx, fullName)
	if err != nil {
		return nil, fmt.Errorf("count actors: %w", err)
	}

	data := make([]response.ActorResponse, len(actors))
	for i, actor := range actors {
		data[i] = response.ActorToResponse(actor, s.mediaPrefix)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *catalogService) GetActor(ctx context.Context, id uuid.UUID) (*response.ActorResponse, error) {
	actor, err := s.findActor(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.ActorToResponse(actor, s.mediaPrefix)
	return &resp, nil
}

func (s *catalogService) CreateActor(ctx context.Context, req *request.ActorRequest) (*response.ActorResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actor := &entity.Actor{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	if err := s.repo.Actor.Create(ctx, actor); err != nil {
		return nil, fmt.Errorf("create actor: %w", err)
	}

	s.log.Info("Actor created", zap.String("actor_id", actor.ID.String()))

	resp := response.ActorToResponse(actor, s.mediaPrefix)
	return &resp, nil
}

func (s *catalogService) UpdateActor(ctx context.Context, id uuid.UUID, req *request.ActorRequest) (*response.ActorResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	actor, err := s.findActor(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.FirstName = strings.TrimSpace(req.FirstName)
	actor.LastName = strings.TrimSpace(req.LastName)
	actor.UpdatedAt = time.Now().UTC()

	if err := s.repo.Actor.Update(ctx, actor); err != nil {
		return nil, mapRepoError("update actor", err)
	}

	resp := response.ActorToResponse(actor, s.mediaPrefix)
	return &resp, nil
}

func (s *catalogService) DeleteActor(ctx context.Context, id uuid.UUID) error {
	actor, err := s.findActor(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Actor.Delete(ctx, id); err != nil {
		return mapRepoError("delete actor", err)
	}

	if actor.ImagePath != nil {
		if err := s.images.Remove(*actor.ImagePath); err != nil {
			s.log.Warn("Failed to remove actor image", zap.Error(err), zap.String("actor_id", id.String()))
		}
	}

	s.log.Info("Actor deleted", zap.String("actor_id", id.String()))
	return nil
}

// UploadActorImage stores a new portrait and replaces the previous one.
func (s *catalogService) UploadActorImage(ctx context.Context, id uuid.UUID, contentType string, image io.Reader) (*response.ActorResponse, error) {
	actor, err := s.findActor(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.images.Save(actorImageDir, actor.FullName(), contentType, image)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return nil, fieldError("image", "upload a valid image (jpeg, png, gif or webp)")
		}
		return nil, fmt.Errorf("store actor image: %w", err)
	}

	if err := s.repo.Actor.UpdateImage(ctx, id, path); err != nil {
		_ = s.images.Remove(path)
		return nil, mapRepoError("update actor image", err)
	}

	if actor.ImagePath != nil && *actor.ImagePath != path {
		if err := s.images.Remove(*actor.ImagePath); err != nil {
			s.log.Warn("Failed to remove previous actor image", zap.Error(err), zap.String("actor_id", id.String()))
		}
	}
	actor.ImagePath = &path

	s.log.Info("Actor image uploaded", zap.String("actor_id", id.String()), zap.String("path", path))

	resp := response.ActorToResponse(actor, s.mediaPrefix)
	return &resp, nil
}

func (s *catalogService) findActor(ctx context.Context, id uuid.UUID) (*entity.Actor, error) {
	actor, err := s.repo.Actor.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get actor: %w", err)
	}
	if actor == nil {
		return nil, notFound("actor", id)
	}
	return actor, nil
}

// ==================== THEATRE HALLS ====================

func (s *catalogService) ListTheatreHalls(ctx context.Context, req *request.NameFilterRequest) (*response.PaginatedResponse[response.TheatreHallResponse], error) {
	normalizePage(&req.PaginatedRequest)
	name := strings.TrimSpace(req.Name)

	halls, err := s.repo.TheatreHall.FindAll(ctx, name, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list theatre halls: %w", err)
	}

	total, err := s.repo.TheatreHall.CountAll(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("count theatre halls: %w", err)
	}

	data := make([]response.TheatreHallResponse, len(halls))
	for i, hall := range halls {
		data[i] = response.TheatreHallToResponse(hall)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *catalogService) GetTheatreHall(ctx context.Context, id uuid.UUID) (*response.TheatreHallResponse, error) {
	hall, err := s.repo.TheatreHall.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get theatre hall: %w", err)
	}
	if hall == nil {
		return nil, notFound("theatre hall", id)
	}

	resp := response.TheatreHallToResponse(hall)
	return &resp, nil
}

func (s *catalogService) CreateTheatreHall(ctx context.Context, req *request.TheatreHallRequest) (*response.TheatreHallResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	hall := &entity.TheatreHall{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:       strings.TrimSpace(req.Name),
		Rows:       req.Rows,
		SeatsInRow: req.SeatsInRow,
	}

	if err := s.repo.TheatreHall.Create(ctx, hall); err != nil {
		return nil, duplicateAsField(err, "name", "theatre hall with this name already exists")
	}

	s.log.Info("Theatre hall created",
		zap.String("hall_id", hall.ID.String()),
		zap.String("name", hall.Name),
		zap.Int("capacity", hall.Capacity()),
	)

	resp := response.TheatreHallToResponse(hall)
	return &resp, nil
}

func (s *catalogService) UpdateTheatreHall(ctx context.Context, id uuid.UUID, req *request.TheatreHallRequest) (*response.TheatreHallResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	hall, err := s.repo.TheatreHall.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get theatre hall: %w", err)
	}
	if hall == nil {
		return nil, notFound("theatre hall", id)
	}

	hall.Name = strings.TrimSpace(req.Name)
	hall.Rows = req.Rows
	hall.SeatsInRow = req.SeatsInRow
	hall.UpdatedAt = time.Now().UTC()

	if err := s.repo.TheatreHall.Update(ctx, hall); err != nil {
		return nil, duplicateAsField(err, "name", "theatre hall with this name already exists")
	}

	resp := response.TheatreHallToResponse(hall)
	return &resp, nil
}

func (s *catalogService) DeleteTheatreHall(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.TheatreHall.Delete(ctx, id); err != nil {
		return mapRepoError("delete theatre hall", err)
	}

	s.log.Info("Theatre hall deleted", zap.String("hall_id", id.String()))
	return nil
}

// duplicateAsField reports a unique constraint hit as a validation error on field.
func duplicateAsField(err error, field, message string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fieldError(field, message)
	}
	return mapRepoError("save", err)
}
