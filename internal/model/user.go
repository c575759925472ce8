package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account. The single admin has no office; office heads carry the
// office their requests are scoped to.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	FullName  string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Role      Role       `gorm:"type:varchar(20);not null" json:"role"`
	OfficeID  *uuid.UUID `gorm:"type:uuid;index" json:"office_id"`
	Office    *Office    `gorm:"foreignKey:OfficeID;constraint:OnDelete:RESTRICT" json:"office,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AsActor builds the explicit actor context carried into service calls.
func (u *User) AsActor() Actor {
	return Actor{UserID: u.ID, Role: u.Role, OfficeID: u.OfficeID}
}
