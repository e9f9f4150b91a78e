package category

import "github.com/frahmantamala/finance-tracker/internal/core/datamodel/base"

type CategoryType struct {
	base.Model
	UserID string `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_categories_type_user_name"`
	Name   string `gorm:"column:name;not null;uniqueIndex:idx_categories_type_user_name"`
}

func (CategoryType) TableName() string {
	return "categories_type"
}

type CategoryGroup struct {
	base.Model
	UserID string `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_categories_group_user_name"`
	Name   string `gorm:"column:name;not null;uniqueIndex:idx_categories_group_user_name"`
}

func (CategoryGroup) TableName() string {
	return "categories_group"
}

type Category struct {
	base.Model
	UserID            string `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_categories_user_name"`
	CategoriesGroupID string `gorm:"column:categories_group_id;type:varchar(36);index;not null"`
	CategoriesTypeID  string `gorm:"column:categories_type_id;type:varchar(36);index;not null"`
	Name              string `gorm:"column:name;not null;uniqueIndex:idx_categories_user_name"`

	CategoriesGroup *CategoryGroup `gorm:"foreignKey:CategoriesGroupID"`
	CategoriesType  *CategoryType  `gorm:"foreignKey:CategoriesTypeID"`
}

func (Category) TableName() string {
	return "categories"
}
