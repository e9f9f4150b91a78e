package postgres

import (
	"context"
	"errors"

	accountDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/account"
	institutionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
	"github.com/frahmantamala/finance-tracker/internal/institution"
	"gorm.io/gorm"
)

type InstitutionRepository struct {
	db *gorm.DB
}

func NewInstitutionRepository(db *gorm.DB) institution.RepositoryAPI {
	return &InstitutionRepository{db: db}
}

func (r *InstitutionRepository) Create(ctx context.Context, i *institutionDatamodel.Institution) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *InstitutionRepository) GetByID(ctx context.Context, userID, id string) (*institutionDatamodel.Institution, error) {
	var inst institutionDatamodel.Institution
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&inst).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inst, nil
}

func (r *InstitutionRepository) List(ctx context.Context, userID string) ([]*institutionDatamodel.Institution, error) {
	var items []*institutionDatamodel.Institution
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *InstitutionRepository) Update(ctx context.Context, i *institutionDatamodel.Institution) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *InstitutionRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&institutionDatamodel.Institution{}).Error
}

func (r *InstitutionRepository) CountAccounts(ctx context.Context, userID, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&accountDatamodel.Account{}).
		Where("institution_id = ? AND user_id = ?", id, userID).
		Count(&n).Error
	return n, err
}
