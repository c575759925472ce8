package service

import (
	"context"
	"testing"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.seedOffice(t, "Accounting")

	t.Run("creates an office head", func(t *testing.T) {
		user, err := env.users.CreateUser(ctx, CreateUserRequest{
			Username: "jdoe",
			Email:    "jdoe@example.com",
			Password: "secret123",
			FullName: "J. Doe",
			OfficeID: office.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleOfficeHead, user.Role)
		assert.Equal(t, "Accounting", user.OfficeName)

		// Login works with the new credentials.
		_, err = env.auth.Login(ctx, LoginRequest{Username: "jdoe", Password: "secret123"})
		assert.NoError(t, err)
	})

	t.Run("rejects duplicate username or email", func(t *testing.T) {
		_, err := env.users.CreateUser(ctx, CreateUserRequest{
			Username: "other",
			Email:    "jdoe@example.com",
			Password: "secret123",
			FullName: "Other",
			OfficeID: office.ID.String(),
		})
		var duplicateErr *apperror.DuplicateError
		assert.ErrorAs(t, err, &duplicateErr)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := env.users.CreateUser(ctx, CreateUserRequest{
			Username: "short",
			Email:    "short@example.com",
			Password: "12345",
			FullName: "Short",
			OfficeID: office.ID.String(),
		})
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("rejects unknown office", func(t *testing.T) {
		_, err := env.users.CreateUser(ctx, CreateUserRequest{
			Username: "lost",
			Email:    "lost@example.com",
			Password: "secret123",
			FullName: "Lost",
			OfficeID: "11111111-2222-3333-4444-555555555555",
		})
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.seedOffice(t, "Office A")
	admin := env.seedUser(t, "admin", model.RoleAdmin, nil, "adminpass")
	otherAdmin := env.seedUser(t, "admin2", model.RoleAdmin, nil, "adminpass")

	t.Run("cannot delete own account", func(t *testing.T) {
		err := env.users.DeleteUser(ctx, admin.AsActor(), admin.ID, "adminpass")
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("cannot delete an admin account", func(t *testing.T) {
		err := env.users.DeleteUser(ctx, admin.AsActor(), otherAdmin.ID, "adminpass")
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("wrong password blocks deletion", func(t *testing.T) {
		head := env.seedUser(t, "head1", model.RoleOfficeHead, &office.ID, "secret123")
		err := env.users.DeleteUser(ctx, admin.AsActor(), head.ID, "wrong")
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("account with requests is protected", func(t *testing.T) {
		head := env.seedUser(t, "head2", model.RoleOfficeHead, &office.ID, "secret123")
		env.seedRequest(t, head, model.StatusPending, customLine("Desk", "piece", 1, "3000.00"))

		err := env.users.DeleteUser(ctx, admin.AsActor(), head.ID, "adminpass")
		var referencedErr *apperror.ReferencedError
		require.ErrorAs(t, err, &referencedErr)
		assert.Equal(t, int64(1), referencedErr.Count)
	})

	t.Run("clean account deletes", func(t *testing.T) {
		head := env.seedUser(t, "head3", model.RoleOfficeHead, &office.ID, "secret123")

		require.NoError(t, env.users.DeleteUser(ctx, admin.AsActor(), head.ID, "adminpass"))

		_, err := env.users.GetUser(ctx, head.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.seedOffice(t, "Office A")
	admin := env.seedUser(t, "admin", model.RoleAdmin, nil, "adminpass")
	head := env.seedUser(t, "head", model.RoleOfficeHead, &office.ID, "oldpass1")

	t.Run("wrong acting password is rejected", func(t *testing.T) {
		err := env.users.ChangePassword(ctx, admin.AsActor(), head.ID, ChangePasswordRequest{
			NewPassword:     "newpass1",
			ConfirmPassword: "newpass1",
			ActingPassword:  "wrong",
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("mismatched confirmation is rejected", func(t *testing.T) {
		err := env.users.ChangePassword(ctx, admin.AsActor(), head.ID, ChangePasswordRequest{
			NewPassword:     "newpass1",
			ConfirmPassword: "different",
			ActingPassword:  "adminpass",
		})
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("reset takes effect on login", func(t *testing.T) {
		err := env.users.ChangePassword(ctx, admin.AsActor(), head.ID, ChangePasswordRequest{
			NewPassword:     "newpass1",
			ConfirmPassword: "newpass1",
			ActingPassword:  "adminpass",
		})
		require.NoError(t, err)

		_, err = env.auth.Login(ctx, LoginRequest{Username: "head", Password: "oldpass1"})
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

		_, err = env.auth.Login(ctx, LoginRequest{Username: "head", Password: "newpass1"})
		assert.NoError(t, err)
	})
}
