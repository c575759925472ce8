package repository

import (
	"context"

	"procurement_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfficeRepository interface {
	Create(ctx context.Context, office *model.Office) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Office, error)
	FindByName(ctx context.Context, name string) (*model.Office, error)
	List(ctx context.Context) ([]model.Office, error)
}

type officeRepository struct {
	db *gorm.DB
}

func NewOfficeRepository(db *gorm.DB) OfficeRepository {
	return &officeRepository{db: db}
}

func (r *officeRepository) Create(ctx context.Context, office *model.Office) error {
	return GetDB(ctx, r.db).Create(office).Error
}

func (r *officeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Office, error) {
	var office model.Office
	if err := GetDB(ctx, r.db).First(&office, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *officeRepository) FindByName(ctx context.Context, name string) (*model.Office, error) {
	var office model.Office
	if err := GetDB(ctx, r.db).First(&office, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *officeRepository) List(ctx context.Context) ([]model.Office, error) {
	var offices []model.Office
	if err := GetDB(ctx, r.db).Order("name").Find(&offices).Error; err != nil {
		return nil, err
	}
	return offices, nil
}
