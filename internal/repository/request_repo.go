package repository

import (
	"context"
	"time"

	"procurement_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestFilter narrows request listings. The same filter feeds both the
// list query and the summary counts so the two can never disagree.
type RequestFilter struct {
	OfficeID *uuid.UUID
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// RequestSummary holds the per-status counts computed under a filter.
type RequestSummary struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Request, error)
	List(ctx context.Context, filter RequestFilter, page, limit int) ([]model.Request, int64, error)
	Summary(ctx context.Context, filter RequestFilter) (RequestSummary, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteWithItems(ctx context.Context, id uuid.UUID) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// Create persists the request together with its line items; GORM inserts the
// association rows in the same statement batch. Callers wrap this in
// RunInTx so a line-item failure rolls back the header row too.
func (r *requestRepository) Create(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).
		Preload("User").
		Preload("Office").
		Preload("Items").
		Preload("Items.Item").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) applyFilter(db *gorm.DB, filter RequestFilter) *gorm.DB {
	query := db.Model(&model.Request{})
	if filter.OfficeID != nil {
		query = query.Where("office_id = ?", *filter.OfficeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("date_requested >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date_requested < ?", *filter.DateTo)
	}
	return query
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter, page, limit int) ([]model.Request, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := r.applyFilter(db, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.Request
	offset := (page - 1) * limit
	if err := r.applyFilter(db, filter).
		Preload("User").
		Preload("Office").
		Preload("Items").
		Order("date_requested DESC").
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// Summary computes the status breakdown under the identical predicate the
// list uses, in one grouped query.
func (r *requestRepository) Summary(ctx context.Context, filter RequestFilter) (RequestSummary, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.applyFilter(GetDB(ctx, r.db), filter).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return RequestSummary{}, err
	}

	var summary RequestSummary
	for _, row := range rows {
		summary.Total += row.Count
		switch row.Status {
		case model.StatusPending:
			summary.Pending = row.Count
		case model.StatusApproved:
			summary.Approved = row.Count
		case model.StatusRejected:
			summary.Rejected = row.Count
		}
	}
	return summary, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Request{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// DeleteWithItems removes the line items then the request row. Called inside
// RunInTx; on databases with the CASCADE constraint in place the first
// delete is redundant but harmless.
func (r *requestRepository) DeleteWithItems(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Delete(&model.RequestItem{}, "request_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&model.Request{}, "id = ?", id).Error
}
