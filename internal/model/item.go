package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultUnitTypes is the suggested vocabulary shown when composing items.
// It is a UI convenience only: unit types are free text.
var DefaultUnitTypes = []string{
	"units", "reams", "pcs", "boxes", "packs", "sets", "dozens",
	"kg", "liters", "meters", "rolls", "bottles", "can", "gallons",
}

// UnitTypeList is an ordered list of unit-type strings, stored as a JSON
// array in a text column. Duplicates are kept as submitted; callers treat
// the list as a set.
type UnitTypeList []string

func (u UnitTypeList) Value() (driver.Value, error) {
	if u == nil {
		u = UnitTypeList{}
	}
	b, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (u *UnitTypeList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*u = UnitTypeList{}
		return nil
	case []byte:
		return json.Unmarshal(v, u)
	case string:
		return json.Unmarshal([]byte(v), u)
	default:
		return fmt.Errorf("unsupported unit_types source type %T", src)
	}
}

// ItemCategory groups catalog items. Categories are auto-created during CSV
// import when an unseen name appears.
type ItemCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *ItemCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Item is a catalog entry office heads can request. Price is the current
// catalog price; requests freeze their own per-unit price at submission.
// IsActive deliberately has no gorm default tag: GORM drops zero-valued
// fields with a default from the INSERT, which would make a false value
// impossible to store. Services set the flag explicitly on every create.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category    *ItemCategory   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	UnitTypes   UnitTypeList    `gorm:"type:text;not null" json:"unit_types"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
