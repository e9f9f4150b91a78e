package postgres

import (
	"context"
	"errors"
	"time"

	paycheckDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/paycheck"
	"github.com/frahmantamala/finance-tracker/internal/paycheck"
	"gorm.io/gorm"
)

type PaycheckRepository struct {
	db *gorm.DB
}

func NewPaycheckRepository(db *gorm.DB) paycheck.RepositoryAPI {
	return &PaycheckRepository{db: db}
}

func (r *PaycheckRepository) Create(ctx context.Context, p *paycheckDatamodel.Paycheck) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaycheckRepository) GetByID(ctx context.Context, userID, id string) (*paycheckDatamodel.Paycheck, error) {
	var p paycheckDatamodel.Paycheck
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func payDateBetween(start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where("pay_date >= ?", *start)
		}
		if end != nil {
			db = db.Where("pay_date <= ?", *end)
		}
		return db
	}
}

func (r *PaycheckRepository) List(ctx context.Context, userID string, filter paycheck.ListFilter) ([]*paycheckDatamodel.Paycheck, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if filter.Employer != "" {
			db = db.Where("employer = ?", filter.Employer)
		}
		if filter.EmployeeName != "" {
			db = db.Where("employee_name = ?", filter.EmployeeName)
		}
		return db
	}

	var total int64
	err := r.db.WithContext(ctx).Model(&paycheckDatamodel.Paycheck{}).
		Scopes(scope, payDateBetween(filter.StartDate, filter.EndDate)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var items []*paycheckDatamodel.Paycheck
	err = r.db.WithContext(ctx).
		Scopes(scope, payDateBetween(filter.StartDate, filter.EndDate)).
		Order("pay_date DESC").
		Order("created_at DESC").
		Limit(filter.Page.PerPage).
		Offset(filter.Page.Offset()).
		Find(&items).Error
	return items, total, err
}

func (r *PaycheckRepository) Update(ctx context.Context, p *paycheckDatamodel.Paycheck) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PaycheckRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&paycheckDatamodel.Paycheck{}).Error
}

func (r *PaycheckRepository) ListByPayDate(ctx context.Context, userID string, start, end *time.Time) ([]*paycheckDatamodel.Paycheck, error) {
	var items []*paycheckDatamodel.Paycheck
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(payDateBetween(start, end)).
		Order("pay_date DESC").
		Find(&items).Error
	return items, err
}

func (r *PaycheckRepository) UserIDsWithPaychecks(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&paycheckDatamodel.Paycheck{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
