package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/dto/response"
	"theatre-booking/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PlayService interface {
	ListPlays(ctx context.Context, req *request.PlayFilterRequest) (*response.PaginatedResponse[response.PlayListResponse], error)
	GetPlay(ctx context.Context, id uuid.UUID) (*response.PlayDetailResponse, error)
	CreatePlay(ctx context.Context, req *request.PlayRequest) (*response.PlayDetailResponse, error)
	UpdatePlay(ctx context.Context, id uuid.UUID, req *request.PlayRequest) (*response.PlayDetailResponse, error)
	DeletePlay(ctx context.Context, id uuid.UUID) error

	// EvaluatePlay stores the user's mark, replacing an earlier one, and refreshes the play's average.
	EvaluatePlay(ctx context.Context, userID, playID uuid.UUID, req *request.EvaluatePlayRequest) (*response.PlayDetailResponse, error)
}

type playService struct {
	repo        *repository.Repository
	publisher   events.Publisher
	mediaPrefix string
	log         *zap.Logger
}

func NewPlayService(repo *repository.Repository, publisher events.Publisher, mediaPrefix string, log *zap.Logger) PlayService {
	return &playService{
		repo:        repo,
		publisher:   publisher,
		mediaPrefix: mediaPrefix,
		log:         log.With(zap.String("service", "play")),
	}
}

func (s *playService) ListPlays(ctx context.Context, req *request.PlayFilterRequest) (*response.PaginatedResponse[response.PlayListResponse], error) {
	normalizePage(&req.PaginatedRequest)

	filter := entity.PlayFilter{
		GenreIDs: req.GenreIDs,
		ActorIDs: req.ActorIDs,
		Limit:    req.Limit(),
		Offset:   req.Offset(),
	}

	plays, err := s.repo.Play.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list plays: %w", err)
	}

	total, err := s.repo.Play.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count plays: %w", err)
	}

	ids := make([]uuid.UUID, len(plays))
	for i, play := range plays {
		ids[i] = play.ID
	}

	genres, actors, err := s.loadRelations(ctx, ids)
	if err != nil {
		return nil, err
	}

	data := make([]response.PlayListResponse, len(plays))
	for i, play := range plays {
		data[i] = response.PlayToListResponse(play, genres[play.ID], actors[play.ID])
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *playService) GetPlay(ctx context.Context, id uuid.UUID) (*response.PlayDetailResponse, error) {
	play, err := s.repo.Play.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get play: %w", err)
	}
	if play == nil {
		return nil, notFound("play", id)
	}

	return s.buildDetail(ctx, play)
}

func (s *playService) CreatePlay(ctx context.Context, req *request.PlayRequest) (*response.PlayDetailResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	genreIDs, actorIDs, err := s.resolveRelations(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	play := &entity.Play{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Play.Create(ctx, play); err != nil {
			return err
		}
		if err := tx.Play.SetGenres(ctx, play.ID, genreIDs); err != nil {
			return err
		}
		return tx.Play.SetActors(ctx, play.ID, actorIDs)
	})
	if err != nil {
		return nil, duplicateAsField(err, "title", "play with this title already exists")
	}

	s.log.Info("Play created", zap.String("play_id", play.ID.String()), zap.String("title", play.Title))
	return s.buildDetail(ctx, play)
}

func (s *playService) UpdatePlay(ctx context.Context, id uuid.UUID, req *request.PlayRequest) (*response.PlayDetailResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	play, err := s.repo.Play.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get play: %w", err)
	}
	if play == nil {
		return nil, notFound("play", id)
	}

	genreIDs, actorIDs, err := s.resolveRelations(ctx, req)
	if err != nil {
		return nil, err
	}

	play.Title = strings.TrimSpace(req.Title)
	play.Description = req.Description
	play.UpdatedAt = time.Now().UTC()

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Play.Update(ctx, play); err != nil {
			return err
		}
		if err := tx.Play.SetGenres(ctx, play.ID, genreIDs); err != nil {
			return err
		}
		return tx.Play.SetActors(ctx, play.ID, actorIDs)
	})
	if err != nil {
		return nil, duplicateAsField(err, "title", "play with this title already exists")
	}

	return s.buildDetail(ctx, play)
}

func (s *playService) DeletePlay(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Play.Delete(ctx, id); err != nil {
		return mapRepoError("delete play", err)
	}

	s.log.Info("Play deleted", zap.String("play_id", id.String()))
	return nil
}

func (s *playService) EvaluatePlay(ctx context.Context, userID, playID uuid.UUID, req *request.EvaluatePlayRequest) (*response.PlayDetailResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	mark := *req.Mark
	if !hasAtMostTwoDecimals(mark) {
		return nil, fieldError("mark", "ensure that there are no more than 2 decimal places")
	}

	var play *entity.Play
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		play, err = tx.Play.FindByID(ctx, playID)
		if err != nil {
			return fmt.Errorf("get play: %w", err)
		}
		if play == nil {
			return notFound("play", playID)
		}

		now := time.Now().UTC()
		rating := &entity.Rating{
			BaseNoDelete: entity.BaseNoDelete{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			PlayID: playID,
			UserID: userID,
			Mark:   mark,
		}
		if err := tx.Rating.Upsert(ctx, rating); err != nil {
			return err
		}

		marks, err := tx.Rating.ListMarksByPlay(ctx, playID)
		if err != nil {
			return err
		}

		play.AverageRating = AverageMark(marks)
		return tx.Play.UpdateAverageRating(ctx, playID, play.AverageRating)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Error("Failed to evaluate play", zap.Error(err), zap.String("play_id", playID.String()))
		return nil, mapRepoError("evaluate play", err)
	}

	s.log.Info("Play evaluated",
		zap.String("play_id", playID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("mark", mark),
	)

	publish(ctx, s.publisher, s.log, &events.PlayRated{
		PlayID:        playID.String(),
		UserID:        userID.String(),
		Mark:          mark,
		AverageRating: play.AverageRating,
		OccurredAt:    time.Now().UTC(),
	})

	return s.buildDetail(ctx, play)
}

// AverageMark returns the mean rounded to two decimals, or nil when there are no marks.
func AverageMark(marks []float64) *float64 {
	if len(marks) == 0 {
		return nil
	}

	var sum float64
	for _, mark := range marks {
		sum += mark
	}

	avg := math.Round(sum/float64(len(marks))*100) / 100
	return &avg
}

func hasAtMostTwoDecimals(value float64) bool {
	scaled := value * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

// resolveRelations parses and checks the requested genre and actor ids.
func (s *playService) resolveRelations(ctx context.Context, req *request.PlayRequest) ([]uuid.UUID, []uuid.UUID, error) {
	genreIDs, err := uniqueUUIDs(req.Genres)
	if err != nil {
		return nil, nil, fieldError("genres", err.Error())
	}
	actorIDs, err := uniqueUUIDs(req.Actors)
	if err != nil {
		return nil, nil, fieldError("actors", err.Error())
	}

	if len(genreIDs) > 0 {
		genres, err := s.repo.Genre.FindByIDs(ctx, genreIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("find genres: %w", err)
		}
		if missing := missingID(genreIDs, len(genres), func(i int) uuid.UUID { return genres[i].ID }); missing != nil {
			return nil, nil, fieldError("genres", fmt.Sprintf("invalid pk %q - object does not exist", missing.String()))
		}
	}

	if len(actorIDs) > 0 {
		actors, err := s.repo.Actor.FindByIDs(ctx, actorIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("find actors: %w", err)
		}
		if missing := missingID(actorIDs, len(actors), func(i int) uuid.UUID { return actors[i].ID }); missing != nil {
			return nil, nil, fieldError("actors", fmt.Sprintf("invalid pk %q - object does not exist", missing.String()))
		}
	}

	return genreIDs, actorIDs, nil
}

func (s *playService) loadRelations(ctx context.Context, playIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, map[uuid.UUID][]*entity.Actor, error) {
	if len(playIDs) == 0 {
		return nil, nil, nil
	}

	genres, err := s.repo.Genre.FindByPlayIDs(ctx, playIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load play genres: %w", err)
	}

	actors, err := s.repo.Actor.FindByPlayIDs(ctx, playIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load play actors: %w", err)
	}

	return genres, actors, nil
}

func (s *playService) buildDetail(ctx context.Context, play *entity.Play) (*response.PlayDetailResponse, error) {
	genres, actors, err := s.loadRelations(ctx, []uuid.UUID{play.ID})
	if err != nil {
		return nil, err
	}

	resp := response.PlayToDetailResponse(play, genres[play.ID], actors[play.ID], s.mediaPrefix)
	return &resp, nil
}

func uniqueUUIDs(values []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(values))
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid UUID", value)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// missingID returns the first wanted id that is not among the n found ones.
func missingID(wanted []uuid.UUID, n int, found func(i int) uuid.UUID) *uuid.UUID {
	present := make(map[uuid.UUID]struct{}, n)
	for i := 0; i < n; i++ {
		present[found(i)] = struct{}{}
	}
	for _, id := range wanted {
		if _, ok := present[id]; !ok {
			return &id
		}
	}
	return nil
}
