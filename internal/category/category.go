package category

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
)

// CategoryType is the top level of the hierarchy (Income, Expense, Transfer ...).
type CategoryType struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryGroup struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	CategoriesGroupID string         `json:"categories_group_id"`
	CategoriesTypeID  string         `json:"categories_type_id"`
	Name              string         `json:"name"`
	CategoriesGroup   *CategoryGroup `json:"categories_group,omitempty"`
	CategoriesType    *CategoryType  `json:"categories_type,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

var (
	ErrCategoryNotFound = internal.NewNotFoundError("Category not found", internal.ErrCodeCategoryNotFound)
	ErrGroupNotFound    = internal.NewNotFoundError("Category group not found", internal.ErrCodeGroupNotFound)
	ErrTypeNotFound     = internal.NewNotFoundError("Category type not found", internal.ErrCodeTypeNotFound)

	ErrCategoryExists = internal.NewValidationError("Category already exists", internal.ErrCodeDuplicateName)
	ErrGroupExists    = internal.NewValidationError("Category group already exists", internal.ErrCodeDuplicateName)
	ErrTypeExists     = internal.NewValidationError("Category type already exists", internal.ErrCodeDuplicateName)

	ErrCategoryInUse = internal.NewConflictError("Category still has transactions", internal.ErrCodeResourceInUse)
	ErrGroupInUse    = internal.NewConflictError("Category group still has categories", internal.ErrCodeResourceInUse)
	ErrTypeInUse     = internal.NewConflictError("Category type still has categories", internal.ErrCodeResourceInUse)
)

func TypeFromDataModel(dm *categoryDatamodel.CategoryType) *CategoryType {
	if dm == nil {
		return nil
	}
	return &CategoryType{
		ID:        dm.ID,
		UserID:    dm.UserID,
		Name:      dm.Name,
		CreatedAt: dm.CreatedAt,
		UpdatedAt: dm.UpdatedAt,
	}
}

func GroupFromDataModel(dm *categoryDatamodel.CategoryGroup) *CategoryGroup {
	if dm == nil {
		return nil
	}
	return &CategoryGroup{
		ID:        dm.ID,
		UserID:    dm.UserID,
		Name:      dm.Name,
		CreatedAt: dm.CreatedAt,
		UpdatedAt: dm.UpdatedAt,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	dm := &categoryDatamodel.Category{
		UserID:            c.UserID,
		CategoriesGroupID: c.CategoriesGroupID,
		CategoriesTypeID:  c.CategoriesTypeID,
		Name:              c.Name,
	}
	dm.ID = c.ID
	dm.CreatedAt = c.CreatedAt
	dm.UpdatedAt = c.UpdatedAt
	return dm
}

func FromDataModel(dm *categoryDatamodel.Category) *Category {
	if dm == nil {
		return nil
	}
	return &Category{
		ID:                dm.ID,
		UserID:            dm.UserID,
		CategoriesGroupID: dm.CategoriesGroupID,
		CategoriesTypeID:  dm.CategoriesTypeID,
		Name:              dm.Name,
		CategoriesGroup:   GroupFromDataModel(dm.CategoriesGroup),
		CategoriesType:    TypeFromDataModel(dm.CategoriesType),
		CreatedAt:         dm.CreatedAt,
		UpdatedAt:         dm.UpdatedAt,
	}
}
