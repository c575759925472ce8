package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/model"
	"procurement_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ApprovedItemRow is one aggregated line of the approved-items report:
// everything approved for one item under one unit type, across offices.
type ApprovedItemRow struct {
	ItemName         string    `json:"item_name"`
	UnitType         string    `json:"unit_type"`
	TotalQuantity    int64     `json:"total_quantity"`
	OfficesCount     int       `json:"offices_count"`
	OfficesInvolved  string    `json:"offices_involved"`
	NumberOfRequests int       `json:"number_of_requests"`
	FirstRequestDate time.Time `json:"first_request_date"`
	LastRequestDate  time.Time `json:"last_request_date"`
}

// ExportReportInput are the optional report filters, all as raw query
// values. Year is ignored when an explicit date range is given.
type ExportReportInput struct {
	DateFrom string
	DateTo   string
	Year     string
}

// ExportService builds the two export surfaces: the aggregated
// approved-items CSV for consolidation, and the per-request Excel purchase
// form with the signature strip.
type ExportService interface {
	ApprovedItemsReport(ctx context.Context, input ExportReportInput) ([]ApprovedItemRow, error)
	WriteApprovedItemsCSV(rows []ApprovedItemRow) []byte
	BuildRequestWorkbook(ctx context.Context, actor model.Actor, requestID uuid.UUID) (*excelize.File, string, error)
}

type exportService struct {
	exportRepo  repository.ExportRepository
	requestRepo repository.RequestRepository
	settings    SettingService
	logger      *zap.Logger
}

func NewExportService(exportRepo repository.ExportRepository, requestRepo repository.RequestRepository, settings SettingService, logger *zap.Logger) ExportService {
	return &exportService{exportRepo: exportRepo, requestRepo: requestRepo, settings: settings, logger: logger}
}

func (s *exportService) buildExportFilter(input ExportReportInput) (repository.ExportFilter, error) {
	var filter repository.ExportFilter

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
		end := to.AddDate(0, 0, 1)
		filter.DateTo = &end
	}

	if filter.DateFrom == nil && filter.DateTo == nil {
		if raw := strings.TrimSpace(input.Year); raw != "" {
			year, err := time.Parse("2006", raw)
			if err != nil {
				return filter, apperror.Validationf("invalid year")
			}
			start := time.Date(year.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(1, 0, 0)
			filter.DateFrom = &start
			filter.DateTo = &end
		}
	}
	return filter, nil
}

// ApprovedItemsReport folds the flat approved line rows into one row per
// item and unit type, with office and request rollups.
func (s *exportService) ApprovedItemsReport(ctx context.Context, input ExportReportInput) ([]ApprovedItemRow, error) {
	filter, err := s.buildExportFilter(input)
	if err != nil {
		return nil, err
	}

	lines, err := s.exportRepo.ApprovedLineRows(ctx, filter)
	if err != nil {
		return nil, apperror.Storage("load approved line items", err)
	}

	type bucket struct {
		row      ApprovedItemRow
		offices  map[string]struct{}
		requests map[uuid.UUID]struct{}
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0)
	for _, line := range lines {
		key := line.ItemID.String() + "|" + line.UnitType
		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				row: ApprovedItemRow{
					ItemName:         line.ItemName,
					UnitType:         line.UnitType,
					FirstRequestDate: line.DateRequested,
					LastRequestDate:  line.DateRequested,
				},
				offices:  make(map[string]struct{}),
				requests: make(map[uuid.UUID]struct{}),
			}
			buckets[key] = b
			order = append(order, key)
		}

		b.row.TotalQuantity += line.Quantity
		b.offices[line.OfficeName] = struct{}{}
		b.requests[line.RequestID] = struct{}{}
		if line.DateRequested.Before(b.row.FirstRequestDate) {
			b.row.FirstRequestDate = line.DateRequested
		}
		if line.DateRequested.After(b.row.LastRequestDate) {
			b.row.LastRequestDate = line.DateRequested
		}
	}

	rows := make([]ApprovedItemRow, 0, len(order))
	for _, key := range order {
		b := buckets[key]

		offices := make([]string, 0, len(b.offices))
		for name := range b.offices {
			offices = append(offices, name)
		}
		sort.Strings(offices)

		b.row.OfficesCount = len(offices)
		b.row.OfficesInvolved = strings.Join(offices, ", ")
		b.row.NumberOfRequests = len(b.requests)
		rows = append(rows, b.row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ItemName != rows[j].ItemName {
			return rows[i].ItemName < rows[j].ItemName
		}
		return rows[i].UnitType < rows[j].UnitType
	})
	return rows, nil
}

// WriteApprovedItemsCSV renders the report as UTF-8 CSV with a BOM so that
// spreadsheet applications detect the encoding.
func (s *exportService) WriteApprovedItemsCSV(rows []ApprovedItemRow) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	w.Write([]string{
		"Item Name", "Unit Type", "Total Quantity", "Offices Count",
		"Offices Involved", "Number of Requests", "First Request Date", "Last Request Date",
	})
	for _, row := range rows {
		w.Write([]string{
			row.ItemName,
			row.UnitType,
			fmt.Sprintf("%d", row.TotalQuantity),
			fmt.Sprintf("%d", row.OfficesCount),
			row.OfficesInvolved,
			fmt.Sprintf("%d", row.NumberOfRequests),
			row.FirstRequestDate.Format("2006-01-02"),
			row.LastRequestDate.Format("2006-01-02"),
		})
	}
	w.Flush()
	return buf.Bytes()
}

// BuildRequestWorkbook renders one request as a printable purchase form.
// Scope failures read as not found, same as the request endpoints.
func (s *exportService) BuildRequestWorkbook(ctx context.Context, actor model.Actor, requestID uuid.UUID) (*excelize.File, string, error) {
	request, err := s.requestRepo.FindByIDWithRelations(ctx, requestID)
	if err != nil {
		return nil, "", apperror.ErrNotFound
	}
	if !actor.CanExportRequest(request) {
		return nil, "", apperror.ErrNotFound
	}

	blocks, err := s.settings.GetSignatureBlocks(ctx)
	if err != nil {
		return nil, "", err
	}

	sort.SliceStable(request.Items, func(i, j int) bool {
		return request.Items[i].DisplayName() < request.Items[j].DisplayName()
	})

	f := excelize.NewFile()
	const sheet = "Purchase Request"
	f.SetSheetName("Sheet1", sheet)

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	f.SetCellValue(sheet, "A1", "PURCHASE REQUEST")
	f.SetCellStyle(sheet, "A1", "A1", bold)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Reference: %s", request.Reference()))
	if request.Office != nil {
		f.SetCellValue(sheet, "A3", fmt.Sprintf("Office: %s", request.Office.Name))
	}
	if request.User != nil {
		f.SetCellValue(sheet, "A4", fmt.Sprintf("Requested by: %s", request.User.FullName))
	}
	f.SetCellValue(sheet, "A5", fmt.Sprintf("Date: %s", request.DateRequested.Format("2006-01-02")))
	f.SetCellValue(sheet, "A6", fmt.Sprintf("Status: %s", strings.ToUpper(request.Status)))

	headerRow := 8
	headers := []string{"Item", "Unit Type", "Quantity", "Price Per Unit", "Line Total"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, bold)
	}

	grandTotal := decimal.Zero
	row := headerRow + 1
	for i := range request.Items {
		item := &request.Items[i]
		lineTotal := item.LineTotal()
		grandTotal = grandTotal.Add(lineTotal)

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.DisplayName())
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.UnitType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.PricePerUnit.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), lineTotal.InexactFloat64())
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Grand Total")
	f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), bold)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), grandTotal.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), bold)

	// Signature strip: four blocks across, label over a rule over the name.
	sigRow := row + 3
	for i, block := range blocks {
		col := i*2 + 1
		labelCell, _ := excelize.CoordinatesToCellName(col, sigRow)
		nameCell, _ := excelize.CoordinatesToCellName(col, sigRow+2)
		f.SetCellValue(sheet, labelCell, block.Label)
		f.SetCellValue(sheet, nameCell, block.Name)
		f.SetCellStyle(sheet, nameCell, nameCell, bold)
	}

	f.SetColWidth(sheet, "A", "A", 32)
	f.SetColWidth(sheet, "B", "E", 16)

	filename := fmt.Sprintf("Purchase_Request_%s_%s.xlsx", request.Reference(), request.DateRequested.Format("2006-01-02"))
	s.logger.Info("request exported",
		zap.String("request_id", request.ID.String()),
		zap.String("actor", actor.UserID.String()))
	return f, filename, nil
}
