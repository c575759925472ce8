package repository

import (
	"context"
	"time"

	"procurement_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovedLineRow is one flat joined row feeding the approved-items report:
// a catalog-backed line item of an approved request with its office and
// request date attached. Ad hoc custom lines have no catalog identity to
// aggregate under and are excluded by the inner join.
type ApprovedLineRow struct {
	ItemID        uuid.UUID `gorm:"column:item_id"`
	ItemName      string    `gorm:"column:item_name"`
	UnitType      string    `gorm:"column:unit_type"`
	Quantity      int64     `gorm:"column:quantity"`
	OfficeName    string    `gorm:"column:office_name"`
	RequestID     uuid.UUID `gorm:"column:request_id"`
	DateRequested time.Time `gorm:"column:date_requested"`
}

// ExportFilter narrows the approved-items report by request date.
type ExportFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
}

type ExportRepository interface {
	ApprovedLineRows(ctx context.Context, filter ExportFilter) ([]ApprovedLineRow, error)
}

type exportRepository struct {
	db *gorm.DB
}

func NewExportRepository(db *gorm.DB) ExportRepository {
	return &exportRepository{db: db}
}

func (r *exportRepository) ApprovedLineRows(ctx context.Context, filter ExportFilter) ([]ApprovedLineRow, error) {
	query := GetDB(ctx, r.db).Model(&model.RequestItem{}).
		Select("items.id AS item_id, items.name AS item_name, request_items.unit_type, request_items.quantity, offices.name AS office_name, requests.id AS request_id, requests.date_requested").
		Joins("JOIN requests ON requests.id = request_items.request_id").
		Joins("JOIN items ON items.id = request_items.item_id").
		Joins("JOIN offices ON offices.id = requests.office_id").
		Where("requests.status = ?", model.StatusApproved)

	if filter.DateFrom != nil {
		query = query.Where("requests.date_requested >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("requests.date_requested < ?", *filter.DateTo)
	}

	var rows []ApprovedLineRow
	if err := query.Order("items.name, request_items.unit_type").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
