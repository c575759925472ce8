package repository

import (
	"context"

	"procurement_backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.ItemCategory) error
	FindByName(ctx context.Context, name string) (*model.ItemCategory, error)
	ListActive(ctx context.Context) ([]model.ItemCategory, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.ItemCategory) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.ItemCategory, error) {
	var category model.ItemCategory
	if err := GetDB(ctx, r.db).First(&category, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]model.ItemCategory, error) {
	var categories []model.ItemCategory
	if err := GetDB(ctx, r.db).Where("is_active = ?", true).
		Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
