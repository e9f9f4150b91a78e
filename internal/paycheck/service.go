package paycheck

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	paycheckDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/paycheck"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type RepositoryAPI interface {
	Create(ctx context.Context, p *paycheckDatamodel.Paycheck) error
	GetByID(ctx context.Context, userID, id string) (*paycheckDatamodel.Paycheck, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]*paycheckDatamodel.Paycheck, int64, error)
	Update(ctx context.Context, p *paycheckDatamodel.Paycheck) error
	Delete(ctx context.Context, userID, id string) error

	// ListByPayDate returns every paycheck of the user with pay_date in [start, end],
	// newest first. Nil bounds are open.
	ListByPayDate(ctx context.Context, userID string, start, end *time.Time) ([]*paycheckDatamodel.Paycheck, error)
	UserIDsWithPaychecks(ctx context.Context) ([]string, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID string, dto CreatePaycheckDTO) (*Paycheck, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm := dto.ToDataModel(userID)
	if dm.PayPeriodStart.After(dm.PayPeriodEnd) {
		return nil, ErrInvalidPayPeriod
	}

	if err := s.repo.Create(ctx, dm); err != nil {
		s.logger.Error("failed to create paycheck", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create paycheck", err)
	}

	s.logger.Info("paycheck created", "user_id", userID, "paycheck_id", dm.ID, "employer", dm.Employer)
	return FromDataModel(dm), nil
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]*Paycheck, int64, error) {
	if filter.Page.Page < 1 {
		filter.Page.Page = 1
	}
	if filter.Page.PerPage < 1 {
		filter.Page.PerPage = transport.DefaultPerPage
	}

	rows, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list paychecks", "user_id", userID, "error", err)
		return nil, 0, internal.NewInternalError("failed to list paychecks", err)
	}

	out := make([]*Paycheck, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Paycheck, error) {
	dm, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

func (s *Service) Update(ctx context.Context, userID, id string, dto UpdatePaycheckDTO) (*Paycheck, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	dto.Apply(dm)
	if dm.PayPeriodStart.After(dm.PayPeriodEnd) {
		return nil, ErrInvalidPayPeriod
	}

	if err := s.repo.Update(ctx, dm); err != nil {
		s.logger.Error("failed to update paycheck", "paycheck_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update paycheck", err)
	}
	return FromDataModel(dm), nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete paycheck", "paycheck_id", id, "error", err)
		return internal.NewInternalError("failed to delete paycheck", err)
	}
	s.logger.Info("paycheck deleted", "user_id", userID, "paycheck_id", id)
	return nil
}

func (s *Service) Analytics(ctx context.Context, userID string, start, end *time.Time) (*Analytics, error) {
	rows, err := s.listByPayDate(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoPaychecks
	}
	return BuildAnalytics(rows, start, end), nil
}

func (s *Service) Trends(ctx context.Context, userID string) (*Trends, error) {
	rows, err := s.listByPayDate(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoPaychecksForUser
	}
	return BuildTrends(rows), nil
}

// TrendsChart writes the monthly trend chart as PNG.
func (s *Service) TrendsChart(ctx context.Context, userID string, w io.Writer) error {
	trends, err := s.Trends(ctx, userID)
	if err != nil {
		return err
	}
	if err := RenderTrendsChart(w, trends.MonthlyTrends); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return err
		}
		s.logger.Error("failed to render trends chart", "user_id", userID, "error", err)
		return internal.NewInternalError("failed to render chart", err)
	}
	return nil
}

// ParsePeriods validates the four compare bounds.
func ParsePeriods(p1Start, p1End, p2Start, p2End string) (Period, Period, error) {
	raw := []string{p1Start, p1End, p2Start, p2End}
	for _, v := range raw {
		if v == "" {
			return Period{}, Period{}, ErrComparePeriodsEmpty
		}
	}

	var parsed [4]time.Time
	for i, v := range raw {
		t, err := time.Parse(validation.DateLayout, v)
		if err != nil {
			return Period{}, Period{}, ErrCompareDateFormat
		}
		parsed[i] = t
	}
	return Period{Start: parsed[0], End: parsed[1]}, Period{Start: parsed[2], End: parsed[3]}, nil
}

func (s *Service) Compare(ctx context.Context, userID string, p1, p2 Period) (*Comparison, error) {
	rows1, err := s.listByPayDate(ctx, userID, &p1.Start, &p1.End)
	if err != nil {
		return nil, err
	}
	rows2, err := s.listByPayDate(ctx, userID, &p2.Start, &p2.End)
	if err != nil {
		return nil, err
	}
	return BuildComparison(p1, p2, rows1, rows2), nil
}

// ValidateNetPay returns the user's paychecks whose recorded net pay is off by more than a cent.
func (s *Service) ValidateNetPay(ctx context.Context, userID string) ([]*Paycheck, error) {
	rows, err := s.listByPayDate(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	var mismatched []*Paycheck
	for _, row := range rows {
		p := FromDataModel(row)
		if !p.NetPayMatches {
			mismatched = append(mismatched, p)
		}
	}
	return mismatched, nil
}

// UserIDs lists every user that has at least one paycheck.
func (s *Service) UserIDs(ctx context.Context) ([]string, error) {
	ids, err := s.repo.UserIDsWithPaychecks(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list paycheck owners", err)
	}
	return ids, nil
}

func (s *Service) listByPayDate(ctx context.Context, userID string, start, end *time.Time) ([]*paycheckDatamodel.Paycheck, error) {
	rows, err := s.repo.ListByPayDate(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("failed to load paychecks", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to load paychecks", err)
	}
	return rows, nil
}

func (s *Service) get(ctx context.Context, userID, id string) (*paycheckDatamodel.Paycheck, error) {
	dm, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to load paycheck", "paycheck_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load paycheck", err)
	}
	if dm == nil {
		return nil, ErrPaycheckNotFound
	}
	return dm, nil
}
