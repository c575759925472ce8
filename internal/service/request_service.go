package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/model"
	"procurement_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineItemDraft is one submitted line before validation. ItemID and
// CustomName are mutually exclusive; the filter below drops lines that set
// neither.
type LineItemDraft struct {
	ItemID     string          `json:"item_id"`
	CustomName string          `json:"custom_item_name"`
	UnitType   string          `json:"unit_type"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type CreateRequestInput struct {
	Items []LineItemDraft `json:"items" binding:"required"`
}

type ListRequestsInput struct {
	OfficeID string
	Status   string
	DateFrom string
	DateTo   string
	Page     int
	Limit    int
}

// RequestRow is one listing entry: the request header plus denormalized
// names and a line count, without the full item payload.
type RequestRow struct {
	ID            uuid.UUID `json:"id"`
	Reference     string    `json:"reference"`
	RequesterName string    `json:"requester_name"`
	OfficeName    string    `json:"office_name"`
	Status        string    `json:"status"`
	ItemCount     int       `json:"item_count"`
	DateRequested time.Time `json:"date_requested"`
}

type RequestListResponse struct {
	Requests []RequestRow              `json:"requests"`
	Summary  repository.RequestSummary `json:"summary"`
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	Limit    int                       `json:"limit"`
}

type UpdateStatusInput struct {
	Status   string `json:"status" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RequestService owns the bulk-request lifecycle: creation with its line
// items in one transaction, office-scoped reads, and password-gated status
// changes and deletion.
type RequestService interface {
	CreateRequest(ctx context.Context, actor model.Actor, input CreateRequestInput) (*model.Request, error)
	GetRequest(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Request, error)
	ListRequests(ctx context.Context, actor model.Actor, input ListRequestsInput) (*RequestListResponse, error)
	UpdateStatus(ctx context.Context, actor model.Actor, id uuid.UUID, input UpdateStatusInput) (*model.Request, error)
	DeleteRequest(ctx context.Context, actor model.Actor, id uuid.UUID, password string) error
}

type requestService struct {
	requestRepo repository.RequestRepository
	txManager   repository.TransactionManager
	auth        AuthService
}

func NewRequestService(requestRepo repository.RequestRepository, txManager repository.TransactionManager, auth AuthService) RequestService {
	return &requestService{requestRepo: requestRepo, txManager: txManager, auth: auth}
}

// filterLineItems silently drops unusable lines instead of rejecting the
// whole submission: blank unit type, quantity below one, or a line naming
// neither a catalog item nor a custom item. Negative submitted prices are
// clamped to zero. The caller decides what an empty result means.
func filterLineItems(drafts []LineItemDraft) ([]model.RequestItem, error) {
	items := make([]model.RequestItem, 0, len(drafts))
	for _, d := range drafts {
		unitType := strings.TrimSpace(d.UnitType)
		customName := strings.TrimSpace(d.CustomName)
		rawID := strings.TrimSpace(d.ItemID)

		if unitType == "" || d.Quantity < 1 {
			continue
		}
		if rawID == "" && customName == "" {
			continue
		}

		line := model.RequestItem{
			UnitType:     unitType,
			Quantity:     d.Quantity,
			PricePerUnit: d.Price,
		}
		if line.PricePerUnit.IsNegative() {
			line.PricePerUnit = decimal.Zero
		}

		if rawID != "" {
			id, err := uuid.Parse(rawID)
			if err != nil {
				return nil, apperror.Validationf("invalid item id %q", d.ItemID)
			}
			line.ItemID = &id
		} else {
			line.CustomItemName = &customName
		}
		items = append(items, line)
	}
	return items, nil
}

// CreateRequest persists the request and all surviving line items
// atomically. A submission whose lines all get filtered out is rejected.
func (s *requestService) CreateRequest(ctx context.Context, actor model.Actor, input CreateRequestInput) (*model.Request, error) {
	if actor.OfficeID == nil {
		return nil, apperror.Validationf("account has no office assigned")
	}

	items, err := filterLineItems(input.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.ErrEmptyRequest
	}

	request := &model.Request{
		UserID:   actor.UserID,
		OfficeID: *actor.OfficeID,
		Status:   model.StatusPending,
		Items:    items,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.requestRepo.Create(txCtx, request)
	})
	if err != nil {
		return nil, apperror.Storage("create request", err)
	}
	return request, nil
}

// GetRequest loads a request with its relations. A request outside the
// actor's scope reads as not found rather than forbidden, so existence does
// not leak across offices.
func (s *requestService) GetRequest(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Request, error) {
	request, err := s.requestRepo.FindByIDWithRelations(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, apperror.Storage("load request", err)
	}
	if !actor.CanViewRequest(request) {
		return nil, apperror.ErrNotFound
	}

	sort.SliceStable(request.Items, func(i, j int) bool {
		return request.Items[i].DisplayName() < request.Items[j].DisplayName()
	})
	return request, nil
}

func (s *requestService) buildFilter(actor model.Actor, input ListRequestsInput) (repository.RequestFilter, error) {
	var filter repository.RequestFilter

	if actor.IsAdmin() {
		if raw := strings.TrimSpace(input.OfficeID); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return filter, apperror.Validationf("invalid office id")
			}
			filter.OfficeID = &id
		}
	} else {
		// Office heads only ever see their own office, whatever they ask
		// for. One without an office has no scope to list in.
		if actor.OfficeID == nil {
			return filter, apperror.ErrNotFound
		}
		filter.OfficeID = actor.OfficeID
	}

	if status := strings.TrimSpace(input.Status); status != "" {
		if !model.ValidStatus(status) {
			return filter, apperror.Validationf("invalid status %q", status)
		}
		filter.Status = status
	}

	if raw := strings.TrimSpace(input.DateFrom); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperror.Validationf("invalid date_from")
		}
		filter.DateFrom = &from
	}
	if raw := strings.TrimSpace(input.DateTo); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperror.Validationf("invalid date_to")
		}
		// Half-open range: include the whole DateTo day.
		end := to.AddDate(0, 0, 1)
		filter.DateTo = &end
	}
	return filter, nil
}

// ListRequests returns one page of requests plus the status summary computed
// under the same filter, so the counts always match what the list shows.
func (s *requestService) ListRequests(ctx context.Context, actor model.Actor, input ListRequestsInput) (*RequestListResponse, error) {
	filter, err := s.buildFilter(actor, input)
	if err != nil {
		return nil, err
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	requests, total, err := s.requestRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, apperror.Storage("list requests", err)
	}
	summary, err := s.requestRepo.Summary(ctx, filter)
	if err != nil {
		return nil, apperror.Storage("summarize requests", err)
	}

	rows := make([]RequestRow, 0, len(requests))
	for i := range requests {
		req := &requests[i]
		row := RequestRow{
			ID:            req.ID,
			Reference:     req.Reference(),
			Status:        req.Status,
			ItemCount:     len(req.Items),
			DateRequested: req.DateRequested,
		}
		if req.User != nil {
			row.RequesterName = req.User.FullName
		}
		if req.Office != nil {
			row.OfficeName = req.Office.Name
		}
		rows = append(rows, row)
	}

	return &RequestListResponse{
		Requests: rows,
		Summary:  summary,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// UpdateStatus moves a request to any of the three states. Admin only, and
// the admin's own password is re-verified before the write.
func (s *requestService) UpdateStatus(ctx context.Context, actor model.Actor, id uuid.UUID, input UpdateStatusInput) (*model.Request, error) {
	if !model.ValidStatus(input.Status) {
		return nil, apperror.Validationf("invalid status %q", input.Status)
	}
	if !actor.IsAdmin() {
		return nil, apperror.ErrNotFound
	}
	if err := s.auth.VerifyPassword(ctx, actor.UserID, input.Password); err != nil {
		return nil, err
	}

	if _, err := s.requestRepo.FindByIDWithRelations(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	} else if err != nil {
		return nil, apperror.Storage("load request", err)
	}

	if err := s.requestRepo.UpdateStatus(ctx, id, input.Status); err != nil {
		return nil, apperror.Storage("update request status", err)
	}

	request, err := s.requestRepo.FindByIDWithRelations(ctx, id)
	if err != nil {
		return nil, apperror.Storage("load request", err)
	}
	return request, nil
}

// DeleteRequest removes a request and its line items in one transaction.
// Password is verified first; scope failures read as not found.
func (s *requestService) DeleteRequest(ctx context.Context, actor model.Actor, id uuid.UUID, password string) error {
	if err := s.auth.VerifyPassword(ctx, actor.UserID, password); err != nil {
		return err
	}

	request, err := s.requestRepo.FindByIDWithRelations(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if err != nil {
		return apperror.Storage("load request", err)
	}
	if !actor.CanDeleteRequest(request) {
		return apperror.ErrNotFound
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.requestRepo.DeleteWithItems(txCtx, id)
	})
	if err != nil {
		return apperror.Storage("delete request", err)
	}
	return nil
}
