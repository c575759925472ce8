package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/model"
	"procurement_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// itemsPerPage is the fixed page size of the admin item listing.
const itemsPerPage = 15

type ItemInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	CategoryID  *string         `json:"category_id"`
	UnitTypes   []string        `json:"unit_types" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"is_active"`
}

// ItemStatsResponse is an item enriched with usage aggregates, recomputed
// on every read.
type ItemStatsResponse struct {
	model.Item
	CategoryName     string `json:"category_name"`
	RequestCount     int64  `json:"request_count"`
	OfficesUsed      int64  `json:"offices_used"`
	ApprovedQuantity int64  `json:"approved_quantity"`
	PendingQuantity  int64  `json:"pending_quantity"`
}

type ItemListResponse struct {
	Items      []ItemStatsResponse `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int64               `json:"total_pages"`
}

// ActiveItemGroup is one category section of the request form's item picker.
type ActiveItemGroup struct {
	Category string       `json:"category"`
	Items    []model.Item `json:"items"`
}

// ItemService is the catalog store: items, categories, unit-type lists and
// pricing, with reference-aware deletion.
type ItemService interface {
	CreateItem(ctx context.Context, input ItemInput) (*model.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*model.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, search string, page int) (*ItemListResponse, error)
	ListActiveItems(ctx context.Context) ([]ActiveItemGroup, error)
	GetUnitTypes(ctx context.Context, id uuid.UUID) ([]string, error)
	ListCategories(ctx context.Context) ([]model.ItemCategory, error)
	CreateCategory(ctx context.Context, name string) (*model.ItemCategory, error)
}

type itemService struct {
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
}

func NewItemService(itemRepo repository.ItemRepository, categoryRepo repository.CategoryRepository) ItemService {
	return &itemService{itemRepo: itemRepo, categoryRepo: categoryRepo}
}

// validateInput applies the catalog rules: non-empty name, at least one
// unit type after trimming, non-negative price.
func (s *itemService) validateInput(input ItemInput) (string, []string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", nil, apperror.Validationf("item name is required")
	}

	units := make([]string, 0, len(input.UnitTypes))
	for _, u := range input.UnitTypes {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			units = append(units, trimmed)
		}
	}
	if len(units) == 0 {
		return "", nil, apperror.Validationf("at least one unit type is required")
	}

	if input.Price.IsNegative() {
		return "", nil, apperror.Validationf("price cannot be negative")
	}
	return name, units, nil
}

func (s *itemService) resolveCategory(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperror.Validationf("invalid category id")
	}
	return &id, nil
}

func (s *itemService) CreateItem(ctx context.Context, input ItemInput) (*model.Item, error) {
	name, units, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.itemRepo.FindByName(ctx, name); err == nil {
		return nil, apperror.Duplicate("item")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Storage("check duplicate item", err)
	}

	categoryID, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	item := &model.Item{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CategoryID:  categoryID,
		UnitTypes:   model.UnitTypeList(units),
		Price:       input.Price,
		IsActive:    true,
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, apperror.Storage("create item", err)
	}
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, apperror.Storage("load item", err)
	}

	name, units, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	if name != item.Name {
		if _, err := s.itemRepo.FindByName(ctx, name); err == nil {
			return nil, apperror.Duplicate("item")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Storage("check duplicate item", err)
		}
	}

	categoryID, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	item.Name = name
	item.Description = strings.TrimSpace(input.Description)
	item.CategoryID = categoryID
	item.Category = nil
	item.UnitTypes = model.UnitTypeList(units)
	item.Price = input.Price
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, apperror.Storage("update item", err)
	}
	return item, nil
}

// DeleteItem hard-deletes an unused catalog item. The count check produces
// the friendly error; the RESTRICT foreign key is the actual guard against
// a concurrent insert racing this check.
func (s *itemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	} else if err != nil {
		return apperror.Storage("load item", err)
	}

	count, err := s.itemRepo.CountReferences(ctx, id)
	if err != nil {
		return apperror.Storage("count item references", err)
	}
	if count > 0 {
		return apperror.Referenced("item", count)
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return apperror.Storage("delete item", err)
	}
	return nil
}

func (s *itemService) ListItems(ctx context.Context, search string, page int) (*ItemListResponse, error) {
	if page < 1 {
		page = 1
	}

	items, total, err := s.itemRepo.List(ctx, strings.TrimSpace(search), page, itemsPerPage)
	if err != nil {
		return nil, apperror.Storage("list items", err)
	}

	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}
	aggregates, err := s.itemRepo.Aggregates(ctx, ids)
	if err != nil {
		return nil, apperror.Storage("aggregate item usage", err)
	}

	rows := make([]ItemStatsResponse, 0, len(items))
	for i := range items {
		row := ItemStatsResponse{Item: items[i]}
		if items[i].Category != nil {
			row.CategoryName = items[i].Category.Name
		}
		if agg, ok := aggregates[items[i].ID]; ok {
			row.RequestCount = agg.RequestCount
			row.OfficesUsed = agg.OfficesUsed
			row.ApprovedQuantity = agg.ApprovedQuantity
			row.PendingQuantity = agg.PendingQuantity
		}
		rows = append(rows, row)
	}

	totalPages := (total + itemsPerPage - 1) / itemsPerPage
	if totalPages == 0 {
		totalPages = 1
	}

	return &ItemListResponse{
		Items:      rows,
		Total:      total,
		Page:       page,
		PerPage:    itemsPerPage,
		TotalPages: totalPages,
	}, nil
}

// ListActiveItems groups the offerable items by category for the request
// form. Items without a category land in an "Uncategorized" group at the end.
func (s *itemService) ListActiveItems(ctx context.Context) ([]ActiveItemGroup, error) {
	items, err := s.itemRepo.ListActive(ctx)
	if err != nil {
		return nil, apperror.Storage("list active items", err)
	}

	grouped := make(map[string][]model.Item)
	names := make([]string, 0)
	for i := range items {
		name := "Uncategorized"
		if items[i].Category != nil {
			name = items[i].Category.Name
		}
		if _, ok := grouped[name]; !ok {
			names = append(names, name)
		}
		grouped[name] = append(grouped[name], items[i])
	}

	sort.Slice(names, func(i, j int) bool {
		if names[i] == "Uncategorized" {
			return false
		}
		if names[j] == "Uncategorized" {
			return true
		}
		return names[i] < names[j]
	})

	groups := make([]ActiveItemGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, ActiveItemGroup{Category: name, Items: grouped[name]})
	}
	return groups, nil
}

func (s *itemService) GetUnitTypes(ctx context.Context, id uuid.UUID) ([]string, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, apperror.Storage("load item", err)
	}
	return item.UnitTypes, nil
}

func (s *itemService) ListCategories(ctx context.Context) ([]model.ItemCategory, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, apperror.Storage("list categories", err)
	}
	return categories, nil
}

func (s *itemService) CreateCategory(ctx context.Context, name string) (*model.ItemCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validationf("category name is required")
	}

	if _, err := s.categoryRepo.FindByName(ctx, name); err == nil {
		return nil, apperror.Duplicate("category")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Storage("check duplicate category", err)
	}

	category := &model.ItemCategory{Name: name, IsActive: true}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, apperror.Storage("create category", err)
	}
	return category, nil
}
