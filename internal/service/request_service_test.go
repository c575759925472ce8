package service

import (
	"context"
	"testing"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterLineItems(t *testing.T) {
	t.Run("drops unusable lines silently", func(t *testing.T) {
		drafts := []LineItemDraft{
			{CustomName: "Stapler", UnitType: "piece", Quantity: 2, Price: decimal.NewFromInt(150)},
			{CustomName: "No unit", UnitType: "  ", Quantity: 1},
			{CustomName: "Zero qty", UnitType: "piece", Quantity: 0},
			{UnitType: "piece", Quantity: 3}, // neither catalog id nor name
		}

		items, err := filterLineItems(drafts)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Stapler", *items[0].CustomItemName)
	})

	t.Run("clamps negative price to zero", func(t *testing.T) {
		items, err := filterLineItems([]LineItemDraft{
			{CustomName: "Tape", UnitType: "roll", Quantity: 1, Price: decimal.NewFromInt(-5)},
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].PricePerUnit.IsZero())
	})

	t.Run("rejects malformed catalog id", func(t *testing.T) {
		_, err := filterLineItems([]LineItemDraft{
			{ItemID: "not-a-uuid", UnitType: "piece", Quantity: 1},
		})
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestCreateRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.seedOffice(t, "Accounting")
	head := env.seedUser(t, "head", model.RoleOfficeHead, &office.ID, "secret123")
	item := env.seedItem(t, "Bond Paper A4", "285.00", "ream", "box")

	t.Run("persists request with surviving lines", func(t *testing.T) {
		created, err := env.requests.CreateRequest(ctx, head.AsActor(), CreateRequestInput{
			Items: []LineItemDraft{
				{ItemID: item.ID.String(), UnitType: "ream", Quantity: 10, Price: decimal.RequireFromString("285.00")},
				{CustomName: "Whiteboard Marker", UnitType: "piece", Quantity: 5, Price: decimal.RequireFromString("45.50")},
				{CustomName: "Dropped", UnitType: "", Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, created.Status)
		assert.Equal(t, office.ID, created.OfficeID)

		loaded, err := env.requests.GetRequest(ctx, head.AsActor(), created.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 2)
	})

	t.Run("rejects submission with no usable lines", func(t *testing.T) {
		_, err := env.requests.CreateRequest(ctx, head.AsActor(), CreateRequestInput{
			Items: []LineItemDraft{
				{CustomName: "Bad", UnitType: "", Quantity: 1},
				{CustomName: "Also bad", UnitType: "piece", Quantity: 0},
			},
		})
		assert.ErrorIs(t, err, apperror.ErrEmptyRequest)
	})

	t.Run("rejects actor without an office", func(t *testing.T) {
		admin := env.seedUser(t, "admin_noffice", model.RoleAdmin, nil, "secret123")
		_, err := env.requests.CreateRequest(ctx, admin.AsActor(), CreateRequestInput{
			Items: []LineItemDraft{{CustomName: "X", UnitType: "piece", Quantity: 1}},
		})
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestRequestPriceSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.seedOffice(t, "Registrar")
	head := env.seedUser(t, "head", model.RoleOfficeHead, &office.ID, "secret123")
	item := env.seedItem(t, "Ballpoint Pen", "12.50")

	created, err := env.requests.CreateRequest(ctx, head.AsActor(), CreateRequestInput{
		Items: []LineItemDraft{
			{ItemID: item.ID.String(), UnitType: "piece", Quantity: 100, Price: decimal.RequireFromString("12.50")},
		},
	})
	require.NoError(t, err)

	// Catalog price change after submission must not touch the line.
	_, err = env.items.UpdateItem(ctx, item.ID, ItemInput{
		Name:      item.Name,
		UnitTypes: []string{"piece"},
		Price:     decimal.RequireFromString("99.99"),
	})
	require.NoError(t, err)

	loaded, err := env.requests.GetRequest(ctx, head.AsActor(), created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.True(t, loaded.Items[0].PricePerUnit.Equal(decimal.RequireFromString("12.50")))
}

func TestGetRequestScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	officeA := env.seedOffice(t, "Office A")
	officeB := env.seedOffice(t, "Office B")
	headA := env.seedUser(t, "head_a", model.RoleOfficeHead, &officeA.ID, "secret123")
	headB := env.seedUser(t, "head_b", model.RoleOfficeHead, &officeB.ID, "secret123")
	admin := env.seedUser(t, "admin", model.RoleAdmin, nil, "secret123")

	req := env.seedRequest(t, headA, model.StatusPending, customLine("Chair", "piece", 4, "1200.00"))

	t.Run("owner office sees it", func(t *testing.T) {
		_, err := env.requests.GetRequest(ctx, headA.AsActor(), req.ID)
		assert.NoError(t, err)
	})

	t.Run("other office reads not found", func(t *testing.T) {
		_, err := env.requests.GetRequest(ctx, headB.AsActor(), req.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		_, err := env.requests.GetRequest(ctx, admin.AsActor(), req.ID)
		assert.NoError(t, err)
	})
}

func TestListRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	officeA := env.seedOffice(t, "Office A")
	officeB := env.seedOffice(t, "Office B")
	headA := env.seedUser(t, "head_a", model.RoleOfficeHead, &officeA.ID, "secret123")
	headB := env.seedUser(t, "head_b", model.RoleOfficeHead, &officeB.ID, "secret123")
	admin := env.seedUser(t, "admin", model.RoleAdmin, nil, "secret123")

	env.seedRequest(t, headA, model.StatusPending, customLine("Desk", "piece", 1, "3000.00"))
	env.seedRequest(t, headA, model.StatusApproved, customLine("Chair", "piece", 2, "1200.00"))
	env.seedRequest(t, headB, model.StatusRejected, customLine("Lamp", "piece", 3, "450.00"))

	t.Run("summary matches the listed rows", func(t *testing.T) {
		list, err := env.requests.ListRequests(ctx, admin.AsActor(), ListRequestsInput{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), list.Total)
		assert.Equal(t, int64(3), list.Summary.Total)
		assert.Equal(t, int64(1), list.Summary.Pending)
		assert.Equal(t, int64(1), list.Summary.Approved)
		assert.Equal(t, int64(1), list.Summary.Rejected)
	})

	t.Run("office head is scoped to own office even when asking for another", func(t *testing.T) {
		list, err := env.requests.ListRequests(ctx, headA.AsActor(), ListRequestsInput{
			OfficeID: officeB.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), list.Total)
		for _, row := range list.Requests {
			assert.Equal(t, "Office A", row.OfficeName)
		}
	})

	t.Run("status filter narrows list and summary together", func(t *testing.T) {
		list, err := env.requests.ListRequests(ctx, admin.AsActor(), ListRequestsInput{
			Status: model.StatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), list.Total)
		assert.Equal(t, int64(1), list.Summary.Total)
		assert.Equal(t, int64(1), list.Summary.Approved)
		assert.Zero(t, list.Summary.Pending)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := env.requests.ListRequests(ctx, admin.AsActor(), ListRequestsInput{Status: "shipped"})
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("office head without an office gets nothing", func(t *testing.T) {
		orphan := model.Actor{UserID: headA.ID, Role: model.RoleOfficeHead}
		_, err := env.requests.ListRequests(ctx, orphan, ListRequestsInput{})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.seedOffice(t, "Office A")
	head := env.seedUser(t, "head", model.RoleOfficeHead, &office.ID, "secret123")
	admin := env.seedUser(t, "admin", model.RoleAdmin, nil, "adminpass")

	req := env.seedRequest(t, head, model.StatusPending, customLine("Printer", "unit", 1, "15000.00"))

	t.Run("wrong password blocks the change", func(t *testing.T) {
		_, err := env.requests.UpdateStatus(ctx, admin.AsActor(), req.ID, UpdateStatusInput{
			Status:   model.StatusApproved,
			Password: "wrong",
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

		loaded, err := env.requests.GetRequest(ctx, admin.AsActor(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, loaded.Status)
	})

	t.Run("office head cannot change status", func(t *testing.T) {
		_, err := env.requests.UpdateStatus(ctx, head.AsActor(), req.ID, UpdateStatusInput{
			Status:   model.StatusApproved,
			Password: "secret123",
		})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("admin with correct password approves", func(t *testing.T) {
		updated, err := env.requests.UpdateStatus(ctx, admin.AsActor(), req.ID, UpdateStatusInput{
			Status:   model.StatusApproved,
			Password: "adminpass",
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, updated.Status)
	})

	t.Run("approved can move back to pending", func(t *testing.T) {
		updated, err := env.requests.UpdateStatus(ctx, admin.AsActor(), req.ID, UpdateStatusInput{
			Status:   model.StatusPending,
			Password: "adminpass",
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, updated.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := env.requests.UpdateStatus(ctx, admin.AsActor(), req.ID, UpdateStatusInput{
			Status:   "archived",
			Password: "adminpass",
		})
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestDeleteRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.seedOffice(t, "Office A")
	head := env.seedUser(t, "head", model.RoleOfficeHead, &office.ID, "secret123")
	admin := env.seedUser(t, "admin", model.RoleAdmin, nil, "adminpass")

	t.Run("head deletes own pending request with its lines", func(t *testing.T) {
		req := env.seedRequest(t, head, model.StatusPending, customLine("Fan", "unit", 2, "800.00"))

		err := env.requests.DeleteRequest(ctx, head.AsActor(), req.ID, "secret123")
		require.NoError(t, err)

		var lineCount int64
		require.NoError(t, env.db.Model(&model.RequestItem{}).
			Where("request_id = ?", req.ID).Count(&lineCount).Error)
		assert.Zero(t, lineCount)
	})

	t.Run("head cannot delete an approved request", func(t *testing.T) {
		req := env.seedRequest(t, head, model.StatusApproved, customLine("AC Unit", "unit", 1, "25000.00"))

		err := env.requests.DeleteRequest(ctx, head.AsActor(), req.ID, "secret123")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("admin deletes regardless of status", func(t *testing.T) {
		req := env.seedRequest(t, head, model.StatusRejected, customLine("Shelf", "piece", 3, "2000.00"))

		err := env.requests.DeleteRequest(ctx, admin.AsActor(), req.ID, "adminpass")
		assert.NoError(t, err)
	})

	t.Run("wrong password blocks deletion", func(t *testing.T) {
		req := env.seedRequest(t, head, model.StatusPending, customLine("Clock", "piece", 1, "350.00"))

		err := env.requests.DeleteRequest(ctx, head.AsActor(), req.ID, "wrong")
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

		_, err = env.requests.GetRequest(ctx, head.AsActor(), req.ID)
		assert.NoError(t, err)
	})
}
