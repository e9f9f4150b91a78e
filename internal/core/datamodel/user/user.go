package user

import "github.com/frahmantamala/finance-tracker/internal/core/datamodel/base"

type User struct {
	base.Model
	Email        string  `gorm:"column:email;uniqueIndex;not null"`
	Username     string  `gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string  `gorm:"column:password;not null"`
	FirstName    string  `gorm:"column:first_name"`
	LastName     string  `gorm:"column:last_name"`
	APIKey       *string `gorm:"column:api_key;uniqueIndex;size:64"`
}

func (User) TableName() string {
	return "users"
}
