package usecase

import (
	"context"
	"fmt"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PerformanceService interface {
	ListPerformances(ctx context.Context, req *request.PerformanceFilterRequest) (*response.PaginatedResponse[response.PerformanceListResponse], error)
	GetPerformance(ctx context.Context, id uuid.UUID) (*response.PerformanceDetailResponse, error)
	CreatePerformance(ctx context.Context, req *request.PerformanceRequest) (*response.PerformanceDetailResponse, error)
	UpdatePerformance(ctx context.Context, id uuid.UUID, req *request.PerformanceRequest) (*response.PerformanceDetailResponse, error)
	DeletePerformance(ctx context.Context, id uuid.UUID) error
}

type performanceService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPerformanceService(repo *repository.Repository, log *zap.Logger) PerformanceService {
	return &performanceService{
		repo: repo,
		log:  log.With(zap.String("service", "performance")),
	}
}

func (s *performanceService) ListPerformances(ctx context.Context, req *request.PerformanceFilterRequest) (*response.PaginatedResponse[response.PerformanceListResponse], error) {
	normalizePage(&req.PaginatedRequest)

	filter := entity.PerformanceFilter{
		Date:   req.Date,
		PlayID: req.PlayID,
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}

	performances, err := s.repo.Performance.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list performances: %w", err)
	}

	total, err := s.repo.Performance.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count performances: %w", err)
	}

	data := make([]response.PerformanceListResponse, len(performances))
	for i, performance := range performances {
		data[i] = response.PerformanceToListResponse(performance)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *performanceService) GetPerformance(ctx context.Context, id uuid.UUID) (*response.PerformanceDetailResponse, error) {
	detail, err := s.repo.Performance.FindDetailByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get performance: %w", err)
	}
	if detail == nil {
		return nil, notFound("performance", id)
	}

	taken, err := s.repo.Ticket.FindTakenSeats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get taken seats: %w", err)
	}

	resp := response.PerformanceToDetailResponse(detail, taken)
	return &resp, nil
}

func (s *performanceService) CreatePerformance(ctx context.Context, req *request.PerformanceRequest) (*response.PerformanceDetailResponse, error) {
	playID, hallID, err := s.resolveRefs(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	performance := &entity.Performance{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PlayID:        playID,
		TheatreHallID: hallID,
		ShowTime:      req.ShowTime.UTC(),
	}

	if err := s.repo.Performance.Create(ctx, performance); err != nil {
		return nil, mapRepoError("create performance", err)
	}

	s.log.Info("Performance scheduled",
		zap.String("performance_id", performance.ID.String()),
		zap.String("play_id", playID.String()),
		zap.String("hall_id", hallID.String()),
		zap.Time("show_time", performance.ShowTime),
	)

	return s.GetPerformance(ctx, performance.ID)
}

func (s *performanceService) UpdatePerformance(ctx context.Context, id uuid.UUID, req *request.PerformanceRequest) (*response.PerformanceDetailResponse, error) {
	performance, err := s.repo.Performance.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get performance: %w", err)
	}
	if performance == nil {
		return nil, notFound("performance", id)
	}

	playID, hallID, err := s.resolveRefs(ctx, req)
	if err != nil {
		return nil, err
	}

	performance.PlayID = playID
	performance.TheatreHallID = hallID
	performance.ShowTime = req.ShowTime.UTC()
	performance.UpdatedAt = time.Now().UTC()

	if err := s.repo.Performance.Update(ctx, performance); err != nil {
		return nil, mapRepoError("update performance", err)
	}

	return s.GetPerformance(ctx, id)
}

func (s *performanceService) DeletePerformance(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Performance.Delete(ctx, id); err != nil {
		return mapRepoError("delete performance", err)
	}

	s.log.Info("Performance deleted", zap.String("performance_id", id.String()))
	return nil
}

// resolveRefs validates the request and checks that its play and hall exist.
func (s *performanceService) resolveRefs(ctx context.Context, req *request.PerformanceRequest) (uuid.UUID, uuid.UUID, error) {
	if err := validate(req); err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	playID := uuid.MustParse(req.Play)
	hallID := uuid.MustParse(req.TheatreHall)

	play, err := s.repo.Play.FindByID(ctx, playID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("get play: %w", err)
	}
	if play == nil {
		return uuid.Nil, uuid.Nil, fieldError("play", fmt.Sprintf("invalid pk %q - object does not exist", req.Play))
	}

	hall, err := s.repo.TheatreHall.FindByID(ctx, hallID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("get theatre hall: %w", err)
	}
	if hall == nil {
		return uuid.Nil, uuid.Nil, fieldError("theatre_hall", fmt.Sprintf("invalid pk %q - object does not exist", req.TheatreHall))
	}

	return playID, hallID, nil
}
