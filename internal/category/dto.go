package category

import (
	"strings"

	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

// NameDTO is the body for creating a type or a group.
type NameDTO struct {
	Name string `json:"name"`
}

func (d *NameDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type CreateCategoryDTO struct {
	Name              string `json:"name"`
	CategoriesGroupID string `json:"categories_group_id"`
	CategoriesTypeID  string `json:"categories_type_id"`
}

func (d *CreateCategoryDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("categories_group_id", d.CategoriesGroupID).Required()
	v.Field("categories_type_id", d.CategoriesTypeID).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type TypesResponse struct {
	CategoriesType []*CategoryType `json:"categories_type"`
}

type GroupsResponse struct {
	CategoriesGroup []*CategoryGroup `json:"categories_group"`
}

type CategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

type ImportResult struct {
	Message           string   `json:"message"`
	CategoriesCreated int      `json:"categories_created"`
	CategoriesSkipped int      `json:"categories_skipped"`
	GroupsProcessed   int      `json:"groups_processed"`
	TypesProcessed    int      `json:"types_processed"`
	Errors            int      `json:"errors"`
	ErrorDetails      []string `json:"error_details"`
}

// Failed reports an import where every row was an error: nothing was created and
// nothing was recognised as already stored.
func (r *ImportResult) Failed() bool {
	return r.CategoriesCreated == 0 && r.CategoriesSkipped == 0 && r.Errors > 0
}
