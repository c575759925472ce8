package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/model"
	"procurement_backend/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxImportFileSize = 5 << 20 // 5 MB

// importHeader is the exact expected column set, compared case-insensitively
// after trimming.
var importHeader = []string{"item_name", "description", "category", "unit_types", "price"}

// ParsedItem is one usable row from an uploaded catalog file, ready for
// preview or insertion.
type ParsedItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	UnitTypes   []string        `json:"unit_types"`
	Price       decimal.Decimal `json:"price"`
}

// ImportResult summarizes a confirmed import run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ImportService handles bulk catalog loading from CSV: upload validation, a
// parse/preview step, and a best-effort confirm step that skips existing
// items instead of failing the batch.
type ImportService interface {
	ValidateUpload(header *multipart.FileHeader) []string
	Parse(r io.Reader) ([]ParsedItem, []string)
	Import(ctx context.Context, items []ParsedItem) (*ImportResult, error)
	TemplateCSV() []byte
}

// importService is deliberately not transactional: a failed row must not
// roll back the rows already imported.
type importService struct {
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

func NewImportService(itemRepo repository.ItemRepository, categoryRepo repository.CategoryRepository, logger *zap.Logger) ImportService {
	return &importService{itemRepo: itemRepo, categoryRepo: categoryRepo, logger: logger}
}

// ValidateUpload checks the file before any parsing: present, within the
// size cap, and carrying a CSV extension.
func (s *importService) ValidateUpload(header *multipart.FileHeader) []string {
	var errs []string
	if header == nil {
		return []string{"No file uploaded"}
	}
	if header.Size > maxImportFileSize {
		errs = append(errs, "File is too large (max 5 MB)")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".txt" {
		errs = append(errs, "File must be a CSV")
	}
	return errs
}

// Parse reads the whole file, validates the header row, and returns the
// usable rows plus per-row error messages. Row numbers in messages count
// from 1 starting after the header. Blank rows are skipped without comment.
func (s *importService) Parse(r io.Reader) ([]ParsedItem, []string) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, []string{"File is empty or unreadable"}
	}
	if !matchesImportHeader(header) {
		return nil, []string{fmt.Sprintf("Invalid header: expected %s", strings.Join(importHeader, ","))}
	}

	var (
		items  []ParsedItem
		errs   []string
		rowNum int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: malformed CSV row", rowNum))
			continue
		}
		if isBlankRow(record) {
			continue
		}

		item, rowErrs := parseImportRow(record, rowNum)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		items = append(items, item)
	}
	return items, errs
}

func matchesImportHeader(header []string) bool {
	if len(header) != len(importHeader) {
		return false
	}
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))
		// Strip a UTF-8 BOM from the first column.
		col = strings.TrimPrefix(col, "\ufeff")
		if col != importHeader[i] {
			return false
		}
	}
	return true
}

func isBlankRow(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseImportRow(record []string, rowNum int) (ParsedItem, []string) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	var errs []string
	item := ParsedItem{
		Name:        field(0),
		Description: field(1),
		Category:    field(2),
	}

	if item.Name == "" {
		errs = append(errs, fmt.Sprintf("Row %d: Item name is required", rowNum))
	}

	for _, u := range strings.Split(field(3), ",") {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			item.UnitTypes = append(item.UnitTypes, trimmed)
		}
	}
	if len(item.UnitTypes) == 0 {
		errs = append(errs, fmt.Sprintf("Row %d: Unit types are required", rowNum))
	}

	item.Price = decimal.Zero
	if raw := field(4); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			item.Price = price
		}
	}
	if item.Price.IsNegative() {
		errs = append(errs, fmt.Sprintf("Row %d: Price cannot be negative", rowNum))
	}

	return item, errs
}

// Import inserts the parsed rows one at a time. Existing names are counted
// as skipped, categories are resolved or created on the fly, and an error on
// one row never aborts the rest of the batch.
func (s *importService) Import(ctx context.Context, items []ParsedItem) (*ImportResult, error) {
	result := &ImportResult{Errors: []string{}}
	categoryCache := make(map[string]*model.ItemCategory)

	for _, parsed := range items {
		if _, err := s.itemRepo.FindByName(ctx, parsed.Name); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: lookup failed", parsed.Name))
			continue
		}

		item := &model.Item{
			Name:        parsed.Name,
			Description: parsed.Description,
			UnitTypes:   model.UnitTypeList(parsed.UnitTypes),
			Price:       parsed.Price,
			IsActive:    true,
		}

		if parsed.Category != "" {
			category, err := s.resolveImportCategory(ctx, parsed.Category, categoryCache)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: category %q could not be resolved", parsed.Name, parsed.Category))
				continue
			}
			item.CategoryID = &category.ID
		}

		if err := s.itemRepo.Create(ctx, item); err != nil {
			s.logger.Warn("import row failed", zap.String("item", parsed.Name), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: insert failed", parsed.Name))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// resolveImportCategory matches category names exactly, same as the lookup
// itself: "Paper" and "paper" are distinct categories.
func (s *importService) resolveImportCategory(ctx context.Context, name string, cache map[string]*model.ItemCategory) (*model.ItemCategory, error) {
	if category, ok := cache[name]; ok {
		return category, nil
	}

	category, err := s.categoryRepo.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = &model.ItemCategory{Name: name, IsActive: true}
		if err := s.categoryRepo.Create(ctx, category); err != nil {
			return nil, apperror.Storage("create category", err)
		}
	} else if err != nil {
		return nil, apperror.Storage("find category", err)
	}

	cache[name] = category
	return category, nil
}

// TemplateCSV is the downloadable starting point for bulk imports, with a
// couple of sample rows showing the expected formats.
func (s *importService) TemplateCSV() []byte {
	var b strings.Builder
	b.WriteString(strings.Join(importHeader, ",") + "\n")
	b.WriteString("Bond Paper A4,70gsm substance 20,Office Supplies,\"ream,box\",285.00\n")
	b.WriteString("Ballpoint Pen,Black ink,Office Supplies,\"piece,box\",12.50\n")
	return []byte(b.String())
}
