package institution

import "github.com/frahmantamala/finance-tracker/internal/core/datamodel/base"

type Institution struct {
	base.Model
	UserID      string `gorm:"column:user_id;type:varchar(36);index;not null"`
	Name        string `gorm:"column:name;not null"`
	Location    string `gorm:"column:location"`
	Description string `gorm:"column:description"`
}

func (Institution) TableName() string {
	return "institution"
}
