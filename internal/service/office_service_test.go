package service

import (
	"context"
	"testing"

	"procurement_backend/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("create and list ordered by name", func(t *testing.T) {
		_, err := env.offices.CreateOffice(ctx, CreateOfficeRequest{Name: "Registrar"})
		require.NoError(t, err)
		_, err = env.offices.CreateOffice(ctx, CreateOfficeRequest{Name: "Accounting"})
		require.NoError(t, err)

		offices, err := env.offices.ListOffices(ctx)
		require.NoError(t, err)
		require.Len(t, offices, 2)
		assert.Equal(t, "Accounting", offices[0].Name)
		assert.Equal(t, "Registrar", offices[1].Name)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := env.offices.CreateOffice(ctx, CreateOfficeRequest{Name: "Registrar"})
		var duplicateErr *apperror.DuplicateError
		assert.ErrorAs(t, err, &duplicateErr)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := env.offices.CreateOffice(ctx, CreateOfficeRequest{Name: "   "})
		var validationErr *apperror.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}
