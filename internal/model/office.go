package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Office is a requesting unit. Offices are created by admins and never
// updated; users and requests reference them with RESTRICT semantics, so an
// office that has ever been used cannot disappear underneath its data.
type Office struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Office) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
