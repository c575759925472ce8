package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportParse(t *testing.T) {
	env := newTestEnv(t)

	t.Run("rejects wrong header", func(t *testing.T) {
		items, errs := env.imports.Parse(strings.NewReader("name,desc,cat\nPaper,,\n"))
		assert.Empty(t, items)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "Invalid header")
	})

	t.Run("accepts header case-insensitively with BOM", func(t *testing.T) {
		csv := "\ufeffItem_Name,Description,Category,Unit_Types,Price\nPaper,,Supplies,ream,285\n"
		items, errs := env.imports.Parse(strings.NewReader(csv))
		assert.Empty(t, errs)
		require.Len(t, items, 1)
		assert.Equal(t, "Paper", items[0].Name)
	})

	t.Run("numbers row errors after the header", func(t *testing.T) {
		csv := "item_name,description,category,unit_types,price\n" +
			",,Supplies,ream,10\n" + // row 1: no name
			"Pen,,Supplies,,5\n" // row 2: no units
		items, errs := env.imports.Parse(strings.NewReader(csv))
		assert.Empty(t, items)
		require.Len(t, errs, 2)
		assert.Equal(t, "Row 1: Item name is required", errs[0])
		assert.Equal(t, "Row 2: Unit types are required", errs[1])
	})

	t.Run("skips blank rows without error", func(t *testing.T) {
		csv := "item_name,description,category,unit_types,price\n" +
			"Paper,,Supplies,ream,285\n" +
			",,,,\n" +
			"Pen,,Supplies,piece,12.5\n"
		items, errs := env.imports.Parse(strings.NewReader(csv))
		assert.Empty(t, errs)
		assert.Len(t, items, 2)
	})

	t.Run("splits quoted unit list on commas", func(t *testing.T) {
		csv := "item_name,description,category,unit_types,price\n" +
			"Paper,,Supplies,\" ream , box \",285\n"
		items, errs := env.imports.Parse(strings.NewReader(csv))
		require.Empty(t, errs)
		require.Len(t, items, 1)
		assert.Equal(t, []string{"ream", "box"}, items[0].UnitTypes)
	})

	t.Run("unparseable price defaults to zero", func(t *testing.T) {
		csv := "item_name,description,category,unit_types,price\n" +
			"Paper,,Supplies,ream,abc\n"
		items, errs := env.imports.Parse(strings.NewReader(csv))
		assert.Empty(t, errs)
		require.Len(t, items, 1)
		assert.True(t, items[0].Price.IsZero())
	})

	t.Run("negative price is a row error", func(t *testing.T) {
		csv := "item_name,description,category,unit_types,price\n" +
			"Paper,,Supplies,ream,-5\n"
		items, errs := env.imports.Parse(strings.NewReader(csv))
		assert.Empty(t, items)
		require.Len(t, errs, 1)
		assert.Equal(t, "Row 1: Price cannot be negative", errs[0])
	})
}

func TestImportConfirm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("inserts new items and creates categories on the fly", func(t *testing.T) {
		csv := "item_name,description,category,unit_types,price\n" +
			"Bond Paper A4,70gsm,Office Supplies,\"ream,box\",285\n" +
			"Ballpoint Pen,Black ink,Office Supplies,piece,12.5\n"
		parsed, errs := env.imports.Parse(strings.NewReader(csv))
		require.Empty(t, errs)

		result, err := env.imports.Import(ctx, parsed)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Zero(t, result.Skipped)
		assert.Empty(t, result.Errors)

		categories, err := env.items.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, "Office Supplies", categories[0].Name)
	})

	t.Run("category names resolve exactly, not case-folded", func(t *testing.T) {
		csv := "item_name,description,category,unit_types,price\n" +
			"Legal Pad,,Paper,piece,55\n" +
			"Sticky Notes,,paper,pad,30\n"
		parsed, errs := env.imports.Parse(strings.NewReader(csv))
		require.Empty(t, errs)

		result, err := env.imports.Import(ctx, parsed)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)

		categories, err := env.items.ListCategories(ctx)
		require.NoError(t, err)
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "Paper")
		assert.Contains(t, names, "paper")
	})

	t.Run("existing names are skipped, not duplicated", func(t *testing.T) {
		csv := "item_name,description,category,unit_types,price\n" +
			"Bond Paper A4,,Office Supplies,ream,300\n" +
			"Correction Tape,,Office Supplies,piece,35\n"
		parsed, errs := env.imports.Parse(strings.NewReader(csv))
		require.Empty(t, errs)

		result, err := env.imports.Import(ctx, parsed)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 1, result.Skipped)
	})
}

func TestImportTemplate(t *testing.T) {
	env := newTestEnv(t)

	content := string(env.imports.TemplateCSV())
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "item_name,description,category,unit_types,price", lines[0])

	// The template must parse cleanly through the importer itself.
	items, errs := env.imports.Parse(strings.NewReader(content))
	assert.Empty(t, errs)
	assert.NotEmpty(t, items)
}
