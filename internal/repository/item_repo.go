package repository

import (
	"context"

	"procurement_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemAggregates are the per-item usage numbers shown on the admin listing.
// They are recomputed on every read; nothing here is stored.
type ItemAggregates struct {
	ItemID           uuid.UUID `gorm:"column:item_id"`
	RequestCount     int64     `gorm:"column:request_count"`
	OfficesUsed      int64     `gorm:"column:offices_used"`
	ApprovedQuantity int64     `gorm:"column:approved_quantity"`
	PendingQuantity  int64     `gorm:"column:pending_quantity"`
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByName(ctx context.Context, name string) (*model.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Item, int64, error)
	ListActive(ctx context.Context) ([]model.Item, error)
	Aggregates(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]ItemAggregates, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Preload("Category").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByName(ctx context.Context, name string) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).First(&item, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Item{}, "id = ?", id).Error
}

// CountReferences returns how many request lines point at the item. The real
// delete guard is the RESTRICT foreign key; this count exists to produce a
// friendly error before the constrained delete is attempted.
func (r *itemRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.RequestItem{}).
		Where("item_id = ?", id).Count(&count).Error
	return count, err
}

func (r *itemRepository) List(ctx context.Context, search string, page, limit int) ([]model.Item, int64, error) {
	db := GetDB(ctx, r.db)

	query := db.Model(&model.Item{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Item
	offset := (page - 1) * limit
	if err := query.Preload("Category").
		Order("name").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) ListActive(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := GetDB(ctx, r.db).Preload("Category").
		Where("is_active = ?", true).
		Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Aggregates(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]ItemAggregates, error) {
	result := make(map[uuid.UUID]ItemAggregates, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	var rows []ItemAggregates
	err := GetDB(ctx, r.db).Table("request_items").
		Select(`request_items.item_id as item_id,
			COUNT(DISTINCT request_items.request_id) as request_count,
			COUNT(DISTINCT requests.office_id) as offices_used,
			COALESCE(SUM(CASE WHEN requests.status = 'approved' THEN request_items.quantity ELSE 0 END), 0) as approved_quantity,
			COALESCE(SUM(CASE WHEN requests.status = 'pending' THEN request_items.quantity ELSE 0 END), 0) as pending_quantity`).
		Joins("JOIN requests ON requests.id = request_items.request_id").
		Where("request_items.item_id IN ?", itemIDs).
		Group("request_items.item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ItemID] = row
	}
	return result, nil
}
