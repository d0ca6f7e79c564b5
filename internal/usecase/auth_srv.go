package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/dto/response"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientMeta describes where a token request came from; it is stored on the session.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	IssueToken(ctx context.Context, req *request.TokenRequest, meta ClientMeta) (*response.TokenPairResponse, error)
	RefreshToken(ctx context.Context, req *request.RefreshTokenRequest, meta ClientMeta) (*response.TokenPairResponse, error)
	VerifyToken(ctx context.Context, req *request.VerifyTokenRequest) error
	Logout(ctx context.Context, userID uuid.UUID, req *request.LogoutRequest) error
}

type authService struct {
	repo *repository.Repository // users and sessions, rotation runs in a transaction
	jwt  utils.JWTConfig
	log  *zap.Logger
}

func NewAuthService(repo *repository.Repository, jwt utils.JWTConfig, log *zap.Logger) AuthService {
	return &authService{
		repo: repo,
		jwt:  jwt,
		log:  log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 2. Email must be free
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fieldError("email", "user with this email already exists")
	}

	// 3. Hash password
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hashed,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	// 4. Save, a concurrent registration can still hit the unique index
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("email", "user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered", zap.String("user_id", user.ID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) IssueToken(ctx context.Context, req *request.TokenRequest, meta ClientMeta) (*response.TokenPairResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// unknown email, wrong password and inactive account look the same to the caller
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) || !user.IsActive {
		s.log.Warn("Token request rejected", zap.String("email", req.Email))
		return nil, ErrUnauthorized
	}

	var pair *response.TokenPairResponse
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		pair, err = s.issuePair(ctx, tx, user, meta)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Token issued", zap.String("user_id", user.ID.String()))
	return pair, nil
}

// RefreshToken rotates the refresh token: the presented one is revoked and a new pair is returned.
func (s *authService) RefreshToken(ctx context.Context, req *request.RefreshTokenRequest, meta ClientMeta) (*response.TokenPairResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	hash := utils.HashToken(req.Refresh)

	var pair *response.TokenPairResponse
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		session, err := tx.Session.FindValidSession(ctx, hash)
		if err != nil {
			return fmt.Errorf("find session: %w", err)
		}
		if session == nil {
			return ErrUnauthorized
		}

		user, err := tx.User.FindByID(ctx, session.UserID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil || !user.IsActive {
			return ErrUnauthorized
		}

		// a concurrent refresh with the same token loses here
		if err := tx.Session.Revoke(ctx, hash); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUnauthorized
			}
			return err
		}

		pair, err = s.issuePair(ctx, tx, user, meta)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrUnauthorized) {
			s.log.Error("Failed to refresh token", zap.Error(err))
		}
		return nil, err
	}

	return pair, nil
}

func (s *authService) VerifyToken(ctx context.Context, req *request.VerifyTokenRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	if _, err := utils.ParseAccessToken(s.jwt, req.Token); err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, req *request.LogoutRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	hash := utils.HashToken(req.Refresh)

	session, err := s.repo.Session.FindValidSession(ctx, hash)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return fieldError("refresh", "token is invalid or expired")
	}

	if err := s.repo.Session.Revoke(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fieldError("refresh", "token is invalid or expired")
		}
		return err
	}

	s.log.Info("User logged out", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) issuePair(ctx context.Context, repo *repository.Repository, user *entity.User, meta ClientMeta) (*response.TokenPairResponse, error) {
	access, err := utils.NewAccessToken(s.jwt, user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := utils.NewRefreshToken(s.jwt.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		UserAgent: optional(meta.UserAgent),
		IPAddress: optional(meta.IPAddress),
		ExpiresAt: refresh.ExpiresAt,
	}
	if err := repo.Session.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &response.TokenPairResponse{
		Access:           access.Token,
		Refresh:          refresh.Raw,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
