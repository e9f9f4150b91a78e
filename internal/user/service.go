package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/database"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

// RepositoryAPI lookups return (nil, nil) when no row matches.
type RepositoryAPI interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*userDatamodel.User, error)
	UpdateAPIKey(ctx context.Context, id, apiKey string) error
}

type Service struct {
	repo       RepositoryAPI
	publisher  events.Publisher
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to look up user by email", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	existing, err = s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.Error("failed to look up user by username", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	apiKey, err := GenerateAPIKey()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate api key", err)
	}

	dm := ToDataModel(&User{
		Email:        dto.Email,
		Username:     dto.Username,
		PasswordHash: string(hash),
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		APIKey:       apiKey,
	})

	if err := s.repo.Create(ctx, dm); err != nil {
		// lost a race with a concurrent signup
		if database.IsUniqueViolation(err) {
			if strings.Contains(database.ConstraintName(err), "username") {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user signed up", "user_id", dm.ID, "username", dm.Username)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewUserSignedUpEvent(dm.ID, dm.Email)); err != nil {
			s.logger.Warn("failed to publish signup event", "user_id", dm.ID, "error", err)
		}
	}

	return FromDataModel(dm), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	dm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if dm == nil {
		return nil, ErrUserNotFound
	}
	return FromDataModel(dm), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	dm, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if dm == nil {
		return nil, ErrUserNotFound
	}
	return FromDataModel(dm), nil
}

func (s *Service) RegenerateAPIKey(ctx context.Context, userID string) (string, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return "", err
	}

	key, err := GenerateAPIKey()
	if err != nil {
		return "", internal.NewInternalError("failed to generate api key", err)
	}
	if err := s.repo.UpdateAPIKey(ctx, userID, key); err != nil {
		s.logger.Error("failed to store api key", "user_id", userID, "error", err)
		return "", internal.NewInternalError("failed to store api key", err)
	}

	s.logger.Info("api key regenerated", "user_id", userID)
	return key, nil
}
