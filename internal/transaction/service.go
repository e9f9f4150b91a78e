package transaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/finance-tracker/internal/core/database"
	accountDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	institutionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
	transactionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type RepositoryAPI interface {
	Create(ctx context.Context, t *transactionDatamodel.Transaction) error
	GetByID(ctx context.Context, userID, id string) (*transactionDatamodel.Transaction, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]*transactionDatamodel.Transaction, int64, error)
	Update(ctx context.Context, t *transactionDatamodel.Transaction) error
	Delete(ctx context.Context, userID, id string) error
	ExternalIDExists(ctx context.Context, userID, externalID string) (bool, error)

	GetAccount(ctx context.Context, userID, id string) (*accountDatamodel.Account, error)
	GetCategory(ctx context.Context, userID, id string) (*categoryDatamodel.Category, error)
	GetCategoryByName(ctx context.Context, userID, name string) (*categoryDatamodel.Category, error)
	GetOrCreateInstitution(ctx context.Context, userID, name string) (*institutionDatamodel.Institution, error)
	GetOrCreateAccount(ctx context.Context, userID, institutionID, name string) (*accountDatamodel.Account, error)

	// RunInTx calls fn with a repository bound to one database transaction.
	RunInTx(ctx context.Context, fn func(repo RepositoryAPI) error) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

func (s *Service) Create(ctx context.Context, userID string, dto CreateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, userID, dto.AccountID, dto.CategoriesID); err != nil {
		return nil, err
	}

	amount := dto.Amount.Round(2)
	dm := &transactionDatamodel.Transaction{
		UserID:            userID,
		AccountID:         dto.AccountID,
		CategoriesID:      dto.CategoriesID,
		Amount:            amount,
		TransactionType:   TypeFor(amount),
		Description:       dto.Description,
		Merchant:          dto.Merchant,
		OriginalStatement: dto.OriginalStatement,
		Notes:             dto.Notes,
		Tags:              dto.Tags,
	}
	if dto.ExternalID != "" {
		if err := s.checkExternalID(ctx, userID, dto.ExternalID); err != nil {
			return nil, err
		}
		dm.ExternalID = &dto.ExternalID
	}
	if dto.ExternalDate != "" {
		d, _ := time.Parse(validation.DateLayout, dto.ExternalDate)
		dm.ExternalDate = &d
	}

	if err := s.repo.Create(ctx, dm); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateExternalID
		}
		s.logger.Error("failed to create transaction", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create transaction", err)
	}

	s.logger.Info("transaction created", "user_id", userID, "transaction_id", dm.ID, "amount", dm.Amount.String())
	s.publish(ctx, events.NewTransactionChangedEvent(userID, dm.ID, dm.AccountID, "created"))
	return s.Get(ctx, userID, dm.ID)
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]*Transaction, int64, error) {
	if filter.Page.Page < 1 {
		filter.Page.Page = 1
	}
	if filter.Page.PerPage < 1 {
		filter.Page.PerPage = transport.DefaultPerPage
	}

	rows, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list transactions", "user_id", userID, "error", err)
		return nil, 0, internal.NewInternalError("failed to list transactions", err)
	}

	out := make([]*Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Transaction, error) {
	dm, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

func (s *Service) Update(ctx context.Context, userID, id string, dto UpdateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	accountID, categoriesID := dm.AccountID, dm.CategoriesID
	if dto.AccountID != nil {
		accountID = *dto.AccountID
	}
	if dto.CategoriesID != nil {
		categoriesID = *dto.CategoriesID
	}
	if accountID != dm.AccountID || categoriesID != dm.CategoriesID {
		if err := s.checkOwnership(ctx, userID, accountID, categoriesID); err != nil {
			return nil, err
		}
	}
	dm.AccountID, dm.CategoriesID = accountID, categoriesID

	if dto.Amount != nil {
		dm.Amount = dto.Amount.Round(2)
	}
	dm.TransactionType = TypeFor(dm.Amount)

	if dto.ExternalID != nil {
		ext := *dto.ExternalID
		switch {
		case ext == "":
			dm.ExternalID = nil
		case dm.ExternalID == nil || *dm.ExternalID != ext:
			if err := s.checkExternalID(ctx, userID, ext); err != nil {
				return nil, err
			}
			dm.ExternalID = &ext
		}
	}
	if dto.ExternalDate != nil {
		if *dto.ExternalDate == "" {
			dm.ExternalDate = nil
		} else {
			d, _ := time.Parse(validation.DateLayout, *dto.ExternalDate)
			dm.ExternalDate = &d
		}
	}
	if dto.Description != nil {
		dm.Description = *dto.Description
	}
	if dto.Merchant != nil {
		dm.Merchant = *dto.Merchant
	}
	if dto.OriginalStatement != nil {
		dm.OriginalStatement = *dto.OriginalStatement
	}
	if dto.Notes != nil {
		dm.Notes = *dto.Notes
	}
	if dto.Tags != nil {
		dm.Tags = *dto.Tags
	}

	if err := s.repo.Update(ctx, dm); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateExternalID
		}
		s.logger.Error("failed to update transaction", "transaction_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update transaction", err)
	}

	s.publish(ctx, events.NewTransactionChangedEvent(userID, dm.ID, dm.AccountID, "updated"))
	return s.Get(ctx, userID, dm.ID)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	dm, err := s.get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete transaction", "transaction_id", id, "error", err)
		return internal.NewInternalError("failed to delete transaction", err)
	}

	s.logger.Info("transaction deleted", "user_id", userID, "transaction_id", id)
	s.publish(ctx, events.NewTransactionChangedEvent(userID, id, dm.AccountID, "deleted"))
	return nil
}

func (s *Service) get(ctx context.Context, userID, id string) (*transactionDatamodel.Transaction, error) {
	dm, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to load transaction", "transaction_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load transaction", err)
	}
	if dm == nil {
		return nil, ErrTransactionNotFound
	}
	return dm, nil
}

func (s *Service) checkOwnership(ctx context.Context, userID, accountID, categoriesID string) error {
	acc, err := s.repo.GetAccount(ctx, userID, accountID)
	if err != nil {
		return internal.NewInternalError("failed to load account", err)
	}
	if acc == nil {
		return ErrAccountNotFound
	}

	cat, err := s.repo.GetCategory(ctx, userID, categoriesID)
	if err != nil {
		return internal.NewInternalError("failed to load category", err)
	}
	if cat == nil {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Service) checkExternalID(ctx context.Context, userID, externalID string) error {
	exists, err := s.repo.ExternalIDExists(ctx, userID, externalID)
	if err != nil {
		return internal.NewInternalError("failed to check transaction id", err)
	}
	if exists {
		return ErrDuplicateExternalID
	}
	return nil
}
