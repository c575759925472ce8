package service

import (
	"context"
	"errors"
	"strings"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/model"
	"procurement_backend/internal/repository"

	"gorm.io/gorm"
)

type CreateOfficeRequest struct {
	Name string `json:"name" binding:"required"`
}

// OfficeService manages the office directory. Offices are create-and-list
// only; nothing updates or deletes them, and RESTRICT foreign keys keep
// referenced offices from being removed out-of-band.
type OfficeService interface {
	CreateOffice(ctx context.Context, req CreateOfficeRequest) (*model.Office, error)
	ListOffices(ctx context.Context) ([]model.Office, error)
}

type officeService struct {
	repo repository.OfficeRepository
}

func NewOfficeService(repo repository.OfficeRepository) OfficeService {
	return &officeService{repo: repo}
}

func (s *officeService) CreateOffice(ctx context.Context, req CreateOfficeRequest) (*model.Office, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validationf("office name is required")
	}

	_, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return nil, apperror.Duplicate("office")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Storage("check duplicate office", err)
	}

	office := &model.Office{Name: name}
	if err := s.repo.Create(ctx, office); err != nil {
		return nil, apperror.Storage("create office", err)
	}
	return office, nil
}

func (s *officeService) ListOffices(ctx context.Context) ([]model.Office, error) {
	offices, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Storage("list offices", err)
	}
	return offices, nil
}
