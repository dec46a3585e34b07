package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleBusiness Role = "BUSINESS"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'CUSTOMER'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string    `json:"phone" gorm:"size:20"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleCustomer), string(RoleBusiness), string(RoleAdmin):
		return true
	default:
		return false
	}
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
