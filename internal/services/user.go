package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventplanner/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewUserService creates a UserService. emailService may be nil, in which case no welcome email is sent.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, emailService domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		hasher:         hasher,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.NewUser(username, email, hash, salt, time.Now().UTC())
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeMessageEmailData{Email: user.Email, Username: user.Username}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "email", user.Email, "error", err)
		}
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrInvalidCredentials
		}
		return 0, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return 0, domain.ErrInvalidCredentials
	}

	id, err := s.userRepo.ResolveUserID(ctx, email, user.PasswordHash)
	if err != nil {
		return 0, fmt.Errorf("resolve user id: %w", err)
	}
	if id <= 0 {
		return 0, domain.ErrInvalidCredentials
	}
	return id, nil
}
