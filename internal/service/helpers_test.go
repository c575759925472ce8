package service

import (
	"fmt"
	"testing"

	"procurement_backend/internal/model"
	"procurement_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test and migrates the
// full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Office{},
		&model.User{},
		&model.ItemCategory{},
		&model.Item{},
		&model.Request{},
		&model.RequestItem{},
		&model.SystemSetting{},
	)
	require.NoError(t, err)
	return db
}

type testEnv struct {
	db          *gorm.DB
	auth        AuthService
	users       UserService
	offices     OfficeService
	items       ItemService
	requests    RequestService
	imports     ImportService
	settings    SettingService
	exports     ExportService
	userRepo    repository.UserRepository
	itemRepo    repository.ItemRepository
	requestRepo repository.RequestRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	txManager := repository.NewTransactionManager(db)
	officeRepo := repository.NewOfficeRepository(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	exportRepo := repository.NewExportRepository(db)

	auth := NewAuthService(userRepo, []byte("test-secret"))
	settings := NewSettingService(settingRepo)
	zl := zap.NewNop()

	return &testEnv{
		db:          db,
		auth:        auth,
		users:       NewUserService(userRepo, officeRepo, auth),
		offices:     NewOfficeService(officeRepo),
		items:       NewItemService(itemRepo, categoryRepo),
		requests:    NewRequestService(requestRepo, txManager, auth),
		imports:     NewImportService(itemRepo, categoryRepo, zl),
		settings:    settings,
		exports:     NewExportService(exportRepo, requestRepo, settings, zl),
		userRepo:    userRepo,
		itemRepo:    itemRepo,
		requestRepo: requestRepo,
	}
}

func (e *testEnv) seedOffice(t *testing.T, name string) *model.Office {
	t.Helper()
	office := &model.Office{Name: name}
	require.NoError(t, e.db.Create(office).Error)
	return office
}

func (e *testEnv) seedUser(t *testing.T, username string, role model.Role, officeID *uuid.UUID, password string) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)

	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		FullName: username,
		Role:     role,
		OfficeID: officeID,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) seedItem(t *testing.T, name string, price string, units ...string) *model.Item {
	t.Helper()
	if len(units) == 0 {
		units = []string{"piece"}
	}
	item := &model.Item{
		Name:      name,
		UnitTypes: model.UnitTypeList(units),
		Price:     decimal.RequireFromString(price),
		IsActive:  true,
	}
	require.NoError(t, e.db.Create(item).Error)
	return item
}

func (e *testEnv) seedRequest(t *testing.T, user *model.User, status string, items ...model.RequestItem) *model.Request {
	t.Helper()
	require.NotNil(t, user.OfficeID)

	req := &model.Request{
		UserID:   user.ID,
		OfficeID: *user.OfficeID,
		Status:   status,
		Items:    items,
	}
	require.NoError(t, e.db.Create(req).Error)
	return req
}

func catalogLine(item *model.Item, unit string, qty int, price string) model.RequestItem {
	id := item.ID
	return model.RequestItem{
		ItemID:       &id,
		UnitType:     unit,
		Quantity:     qty,
		PricePerUnit: decimal.RequireFromString(price),
	}
}

func customLine(name, unit string, qty int, price string) model.RequestItem {
	return model.RequestItem{
		CustomItemName: &name,
		UnitType:       unit,
		Quantity:       qty,
		PricePerUnit:   decimal.RequireFromString(price),
	}
}
