package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is satisfied by the user postgres repository. Lookups return (nil, nil)
// when nothing matches.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*userDatamodel.User, error)
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	accessTTL      int64
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen *JWTTokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		accessTTL:      int64(tokenGen.AccessTokenTTL.Seconds()),
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		s.logger.Error("failed to load user for login", "error", err)
		return AuthTokens{}, internal.NewInternalError("failed to authenticate", err)
	}
	if u == nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Info("login rejected", "user_id", u.ID)
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issue(u.ID, u.Email)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to refresh token", err)
	}
	if u == nil {
		return AuthTokens{}, ErrInvalidToken
	}

	return s.issue(u.ID, u.Email)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// PrincipalFromToken resolves a bearer token to a live user.
func (s *Service) PrincipalFromToken(ctx context.Context, tokenString string) (*internal.Principal, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, ErrInvalidToken
	}

	return &internal.Principal{UserID: u.ID, Email: u.Email, Username: u.Username, Method: MethodJWT}, nil
}

// PrincipalFromAPIKey resolves an api key to its owner.
func (s *Service) PrincipalFromAPIKey(ctx context.Context, apiKey string) (*internal.Principal, error) {
	u, err := s.userRepo.GetByAPIKey(ctx, strings.TrimSpace(apiKey))
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, ErrInvalidAPIKey
	}

	return &internal.Principal{UserID: u.ID, Email: u.Email, Username: u.Username, Method: MethodAPIKey}, nil
}

func (s *Service) issue(userID, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL,
	}, nil
}
