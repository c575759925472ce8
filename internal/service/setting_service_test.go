package service

import (
	"context"
	"testing"

	"procurement_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureBlocks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("defaults when nothing configured", func(t *testing.T) {
		blocks, err := env.settings.GetSignatureBlocks(ctx)
		require.NoError(t, err)

		assert.Equal(t, "Requested by", blocks[0].Label)
		assert.Equal(t, "Approved by", blocks[1].Label)
		assert.Equal(t, "Verified by", blocks[2].Label)
		assert.Equal(t, "Received by", blocks[3].Label)
		for _, block := range blocks {
			assert.Empty(t, block.Name)
		}
	})

	t.Run("save and read back", func(t *testing.T) {
		saved := [4]model.SignatureBlock{
			{Label: "Prepared by", Name: "A. Clerk"},
			{Label: "Approved by", Name: "B. Manager"},
			{Label: "Noted by", Name: "C. Director"},
			{Label: "Received by", Name: "D. Custodian"},
		}
		require.NoError(t, env.settings.SaveSignatureBlocks(ctx, saved))

		blocks, err := env.settings.GetSignatureBlocks(ctx)
		require.NoError(t, err)
		assert.Equal(t, saved, blocks)
	})

	t.Run("saving again overwrites", func(t *testing.T) {
		update := [4]model.SignatureBlock{
			{Label: "Prepared by", Name: "New Clerk"},
			{Label: "Approved by", Name: "B. Manager"},
			{Label: "Noted by", Name: "C. Director"},
			{Label: "Received by", Name: "D. Custodian"},
		}
		require.NoError(t, env.settings.SaveSignatureBlocks(ctx, update))

		blocks, err := env.settings.GetSignatureBlocks(ctx)
		require.NoError(t, err)
		assert.Equal(t, "New Clerk", blocks[0].Name)
	})

	t.Run("blank label falls back to default on read", func(t *testing.T) {
		update := [4]model.SignatureBlock{
			{Label: "", Name: "Someone"},
			{Label: "Approved by"},
			{Label: "Noted by"},
			{Label: "Received by"},
		}
		require.NoError(t, env.settings.SaveSignatureBlocks(ctx, update))

		blocks, err := env.settings.GetSignatureBlocks(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Requested by", blocks[0].Label)
		assert.Equal(t, "Someone", blocks[0].Name)
	})
}
