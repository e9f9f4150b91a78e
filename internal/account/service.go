package account

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/finance-tracker/internal"
	accountDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/account"
	"github.com/shopspring/decimal"
)

type RepositoryAPI interface {
	Create(ctx context.Context, a *accountDatamodel.Account) error
	GetByID(ctx context.Context, userID, id string) (*accountDatamodel.Account, error)
	List(ctx context.Context, userID string) ([]*accountDatamodel.Account, error)
	Update(ctx context.Context, a *accountDatamodel.Account) error
	Delete(ctx context.Context, userID, id string) error
	InstitutionExists(ctx context.Context, userID, institutionID string) (bool, error)
	CountTransactions(ctx context.Context, userID, id string) (int64, error)

	// SumAmountsByAccount returns SUM(amount) per account; accounts without transactions are absent.
	SumAmountsByAccount(ctx context.Context, userID string) (map[string]decimal.Decimal, error)
	UpdateBalances(ctx context.Context, balances map[string]decimal.Decimal) error
	UserIDsWithAccounts(ctx context.Context) ([]string, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID string, dto CreateAccountDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkInstitution(ctx, userID, dto.InstitutionID); err != nil {
		return nil, err
	}

	starting := decimal.Zero
	if dto.StartingBalance != nil {
		starting = dto.StartingBalance.Round(2)
	}

	dm := ToDataModel(&Account{
		InstitutionID:   dto.InstitutionID,
		UserID:          userID,
		Name:            dto.Name,
		Number:          dto.Number,
		Status:          dto.Status,
		StartingBalance: starting,
		Balance:         starting,
		AccountType:     dto.AccountType,
		AccountClass:    dto.AccountClass,
	})
	if err := s.repo.Create(ctx, dm); err != nil {
		s.logger.Error("failed to create account", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create account", err)
	}

	s.logger.Info("account created", "user_id", userID, "account_id", dm.ID)
	return FromDataModel(dm), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Account, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list accounts", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list accounts", err)
	}
	out := make([]*Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Account, error) {
	dm, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

func (s *Service) Update(ctx context.Context, userID, id string, dto UpdateAccountDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if dto.InstitutionID != nil && *dto.InstitutionID != dm.InstitutionID {
		if err := s.checkInstitution(ctx, userID, *dto.InstitutionID); err != nil {
			return nil, err
		}
		dm.InstitutionID = *dto.InstitutionID
	}
	if dto.Name != nil {
		dm.Name = *dto.Name
	}
	if dto.Number != nil {
		dm.Number = *dto.Number
	}
	if dto.Status != nil {
		dm.Status = *dto.Status
	}
	if dto.AccountType != nil {
		dm.AccountType = *dto.AccountType
	}
	if dto.AccountClass != nil {
		dm.AccountClass = *dto.AccountClass
	}
	if dto.StartingBalance != nil {
		// shift the balance by the same delta so balance - starting_balance stays the transaction sum
		next := dto.StartingBalance.Round(2)
		dm.Balance = dm.Balance.Add(next.Sub(dm.StartingBalance))
		dm.StartingBalance = next
	}

	dm.Institution = nil
	if err := s.repo.Update(ctx, dm); err != nil {
		s.logger.Error("failed to update account", "account_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update account", err)
	}
	return FromDataModel(dm), nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.get(ctx, userID, id); err != nil {
		return err
	}

	n, err := s.repo.CountTransactions(ctx, userID, id)
	if err != nil {
		return internal.NewInternalError("failed to delete account", err)
	}
	if n > 0 {
		return ErrAccountInUse
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete account", "account_id", id, "error", err)
		return internal.NewInternalError("failed to delete account", err)
	}
	s.logger.Info("account deleted", "user_id", userID, "account_id", id)
	return nil
}

// RecomputeBalances sets every account of the user to starting_balance plus the sum of its
// transaction amounts. Running it twice gives the same result.
func (s *Service) RecomputeBalances(ctx context.Context, userID string) ([]BalanceUpdate, error) {
	accounts, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load accounts for recompute", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to recompute balances", err)
	}

	sums, err := s.repo.SumAmountsByAccount(ctx, userID)
	if err != nil {
		s.logger.Error("failed to sum transactions", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to recompute balances", err)
	}

	updates := make([]BalanceUpdate, 0, len(accounts))
	changed := make(map[string]decimal.Decimal)
	for _, a := range accounts {
		balance := a.StartingBalance.Add(sums[a.ID]).Round(2)
		u := BalanceUpdate{
			AccountID:       a.ID,
			Name:            a.Name,
			PreviousBalance: a.Balance,
			Balance:         balance,
		}
		if u.Changed() {
			changed[a.ID] = balance
		}
		updates = append(updates, u)
	}

	if len(changed) > 0 {
		if err := s.repo.UpdateBalances(ctx, changed); err != nil {
			s.logger.Error("failed to store balances", "user_id", userID, "error", err)
			return nil, internal.NewInternalError("failed to recompute balances", err)
		}
	}

	s.logger.Info("balances recomputed",
		"user_id", userID,
		"accounts", len(updates),
		"changed", len(changed))
	return updates, nil
}

// UserIDs lists every user that owns at least one account.
func (s *Service) UserIDs(ctx context.Context) ([]string, error) {
	userIDs, err := s.repo.UserIDsWithAccounts(ctx)
	if err != nil {
		s.logger.Error("failed to list account owners", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return userIDs, nil
}

// RecomputeAll runs RecomputeBalances for every user that owns an account.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	userIDs, err := s.UserIDs(ctx)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.RecomputeBalances(ctx, id); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

func (s *Service) checkInstitution(ctx context.Context, userID, institutionID string) error {
	ok, err := s.repo.InstitutionExists(ctx, userID, institutionID)
	if err != nil {
		return internal.NewInternalError("failed to load institution", err)
	}
	if !ok {
		return ErrInstitutionNotFound
	}
	return nil
}

func (s *Service) get(ctx context.Context, userID, id string) (*accountDatamodel.Account, error) {
	dm, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to load account", "account_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load account", err)
	}
	if dm == nil {
		return nil, ErrAccountNotFound
	}
	return dm, nil
}
