package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleOwner   Role = "owner"
	RoleCashier Role = "cashier"
	RoleChef    Role = "chef"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleCashier, RoleChef:
		return true
	}
	return false
}

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(255); not null" json:"name"`
	Email     string `gorm:"type:varchar(255); unique;not null" json:"email"`
	Password  string `gorm:"type:varchar(255); not null" json:"-"`
	Role      Role   `gorm:"type:varchar(20); not null" json:"role"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
