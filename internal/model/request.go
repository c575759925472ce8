package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Request status constants. Transitions are deliberately unrestricted: an
// admin may move a request between any of the three states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Request is the bulk-request aggregate root. It exclusively owns its line
// items: they are created with it, deleted with it, and have no lifecycle of
// their own. OfficeID is denormalized from the submitting user at creation.
type Request struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User         `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	OfficeID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"office_id"`
	Office        *Office       `gorm:"foreignKey:OfficeID;constraint:OnDelete:RESTRICT" json:"office,omitempty"`
	Status        string        `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Items         []RequestItem `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	DateRequested time.Time     `gorm:"autoCreateTime" json:"date_requested"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Reference is the short human-facing id used in exports and filenames.
func (r *Request) Reference() string {
	return r.ID.String()[:8]
}

// RequestItem is one line of a bulk request. Exactly one of ItemID and
// CustomItemName is set: the line is either catalog-backed or ad hoc.
// PricePerUnit is a point-in-time snapshot; later catalog price changes do
// not touch it.
type RequestItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"request_id"`
	ItemID         *uuid.UUID      `gorm:"type:uuid;index" json:"item_id"`
	Item           *Item           `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"item,omitempty"`
	CustomItemName *string         `gorm:"type:varchar(255)" json:"custom_item_name"`
	UnitType       string          `gorm:"type:varchar(100);not null" json:"unit_type"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	PricePerUnit   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price_per_unit"`
}

func (ri *RequestItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// DisplayName resolves the line's name: catalog item name when linked,
// otherwise the free-text custom name.
func (ri *RequestItem) DisplayName() string {
	if ri.Item != nil {
		return ri.Item.Name
	}
	if ri.CustomItemName != nil {
		return *ri.CustomItemName
	}
	return ""
}

// LineTotal is quantity times the frozen per-unit price.
func (ri *RequestItem) LineTotal() decimal.Decimal {
	return ri.PricePerUnit.Mul(decimal.NewFromInt(int64(ri.Quantity)))
}
