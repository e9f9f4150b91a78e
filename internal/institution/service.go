package institution

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/finance-tracker/internal"
	institutionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
)

type RepositoryAPI interface {
	Create(ctx context.Context, i *institutionDatamodel.Institution) error
	GetByID(ctx context.Context, userID, id string) (*institutionDatamodel.Institution, error)
	List(ctx context.Context, userID string) ([]*institutionDatamodel.Institution, error)
	Update(ctx context.Context, i *institutionDatamodel.Institution) error
	Delete(ctx context.Context, userID, id string) error
	CountAccounts(ctx context.Context, userID, id string) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID string, dto CreateInstitutionDTO) (*Institution, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm := ToDataModel(&Institution{
		UserID:      userID,
		Name:        dto.Name,
		Location:    dto.Location,
		Description: dto.Description,
	})
	if err := s.repo.Create(ctx, dm); err != nil {
		s.logger.Error("failed to create institution", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create institution", err)
	}

	s.logger.Info("institution created", "user_id", userID, "institution_id", dm.ID)
	return FromDataModel(dm), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Institution, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list institutions", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list institutions", err)
	}

	out := make([]*Institution, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Institution, error) {
	dm, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

func (s *Service) Update(ctx context.Context, userID, id string, dto UpdateInstitutionDTO) (*Institution, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		dm.Name = *dto.Name
	}
	if dto.Location != nil {
		dm.Location = *dto.Location
	}
	if dto.Description != nil {
		dm.Description = *dto.Description
	}

	if err := s.repo.Update(ctx, dm); err != nil {
		s.logger.Error("failed to update institution", "institution_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update institution", err)
	}
	return FromDataModel(dm), nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.get(ctx, userID, id); err != nil {
		return err
	}

	n, err := s.repo.CountAccounts(ctx, userID, id)
	if err != nil {
		return internal.NewInternalError("failed to delete institution", err)
	}
	if n > 0 {
		return ErrInstitutionInUse
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete institution", "institution_id", id, "error", err)
		return internal.NewInternalError("failed to delete institution", err)
	}

	s.logger.Info("institution deleted", "user_id", userID, "institution_id", id)
	return nil
}

func (s *Service) get(ctx context.Context, userID, id string) (*institutionDatamodel.Institution, error) {
	dm, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to load institution", "institution_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load institution", err)
	}
	if dm == nil {
		return nil, ErrInstitutionNotFound
	}
	return dm, nil
}
