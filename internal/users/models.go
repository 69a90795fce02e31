package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'MEMBER'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is the name snapshotted onto reservations at booking time.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleMember), string(RoleAdmin):
		return true
	default:
		return false
	}
}
