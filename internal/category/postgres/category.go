package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/finance-tracker/internal/category"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) RunInTx(ctx context.Context, fn func(repo category.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CategoryRepository{db: tx})
	})
}

// first loads one row into dst, returning false when nothing matched.
func first(db *gorm.DB, dst interface{}, query string, args ...interface{}) (bool, error) {
	err := db.Where(query, args...).First(dst).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ----------------- TYPES -----------------

func (r *CategoryRepository) CreateType(ctx context.Context, t *categoryDatamodel.CategoryType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *CategoryRepository) ListTypes(ctx context.Context, userID string) ([]*categoryDatamodel.CategoryType, error) {
	var items []*categoryDatamodel.CategoryType
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *CategoryRepository) GetTypeByID(ctx context.Context, userID, id string) (*categoryDatamodel.CategoryType, error) {
	var t categoryDatamodel.CategoryType
	ok, err := first(r.db.WithContext(ctx), &t, "id = ? AND user_id = ?", id, userID)
	if !ok {
		return nil, err
	}
	return &t, nil
}

func (r *CategoryRepository) GetTypeByName(ctx context.Context, userID, name string) (*categoryDatamodel.CategoryType, error) {
	var t categoryDatamodel.CategoryType
	ok, err := first(r.db.WithContext(ctx), &t, "user_id = ? AND name = ?", userID, name)
	if !ok {
		return nil, err
	}
	return &t, nil
}

func (r *CategoryRepository) DeleteType(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&categoryDatamodel.CategoryType{}).Error
}

// ----------------- GROUPS -----------------

func (r *CategoryRepository) CreateGroup(ctx context.Context, g *categoryDatamodel.CategoryGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *CategoryRepository) ListGroups(ctx context.Context, userID string) ([]*categoryDatamodel.CategoryGroup, error) {
	var items []*categoryDatamodel.CategoryGroup
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *CategoryRepository) GetGroupByID(ctx context.Context, userID, id string) (*categoryDatamodel.CategoryGroup, error) {
	var g categoryDatamodel.CategoryGroup
	ok, err := first(r.db.WithContext(ctx), &g, "id = ? AND user_id = ?", id, userID)
	if !ok {
		return nil, err
	}
	return &g, nil
}

func (r *CategoryRepository) GetGroupByName(ctx context.Context, userID, name string) (*categoryDatamodel.CategoryGroup, error) {
	var g categoryDatamodel.CategoryGroup
	ok, err := first(r.db.WithContext(ctx), &g, "user_id = ? AND name = ?", userID, name)
	if !ok {
		return nil, err
	}
	return &g, nil
}

func (r *CategoryRepository) DeleteGroup(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&categoryDatamodel.CategoryGroup{}).Error
}

// ----------------- CATEGORIES -----------------

func (r *CategoryRepository) Create(ctx context.Context, c *categoryDatamodel.Category) error {
	return r.db.WithContext(ctx).Omit("CategoriesGroup", "CategoriesType").Create(c).Error
}

func (r *CategoryRepository) List(ctx context.Context, userID string) ([]*categoryDatamodel.Category, error) {
	var items []*categoryDatamodel.Category
	err := r.db.WithContext(ctx).
		Preload("CategoriesGroup").
		Preload("CategoriesType").
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, userID, id string) (*categoryDatamodel.Category, error) {
	var c categoryDatamodel.Category
	db := r.db.WithContext(ctx).Preload("CategoriesGroup").Preload("CategoriesType")
	ok, err := first(db, &c, "id = ? AND user_id = ?", id, userID)
	if !ok {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, userID, name string) (*categoryDatamodel.Category, error) {
	var c categoryDatamodel.Category
	ok, err := first(r.db.WithContext(ctx), &c, "user_id = ? AND name = ?", userID, name)
	if !ok {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&categoryDatamodel.Category{}).Error
}

func (r *CategoryRepository) CountCategoriesByType(ctx context.Context, userID, typeID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&categoryDatamodel.Category{}).
		Where("categories_type_id = ? AND user_id = ?", typeID, userID).
		Count(&n).Error
	return n, err
}

func (r *CategoryRepository) CountCategoriesByGroup(ctx context.Context, userID, groupID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&categoryDatamodel.Category{}).
		Where("categories_group_id = ? AND user_id = ?", groupID, userID).
		Count(&n).Error
	return n, err
}

func (r *CategoryRepository) CountTransactions(ctx context.Context, userID, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&transactionDatamodel.Transaction{}).
		Where("categories_id = ? AND user_id = ?", categoryID, userID).
		Count(&n).Error
	return n, err
}
