package sync

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, book.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestParse(t *testing.T) {
	r := buildWorkbook(t, [][]any{
		{"m1", "Drinks", "Cold and hot"},
		{"", "s1", "Coffee", "Brews"},
		{"", "", "d1", "Espresso", "Single shot", "2.50"},
		{"", "", "d2", "Latte", "With milk", "4.00"},
		{"m2", "Food", "Meals"},
		{"", "s2", "Soups", "Warm"},
	})

	menus, err := Parse(r)
	require.NoError(t, err)
	require.Len(t, menus, 2)

	assert.Equal(t, "m1", menus[0].ID)
	assert.Equal(t, "Drinks", menus[0].Title)
	require.Len(t, menus[0].Submenus, 1)

	submenu := menus[0].Submenus[0]
	assert.Equal(t, "s1", submenu.ID)
	assert.Equal(t, "Coffee", submenu.Title)
	require.Len(t, submenu.Dishes, 2)
	assert.Equal(t, SourceDish{ID: "d1", Title: "Espresso", Description: "Single shot", Price: "2.50"}, submenu.Dishes[0])

	assert.Equal(t, "m2", menus[1].ID)
	require.Len(t, menus[1].Submenus, 1)
	assert.Empty(t, menus[1].Submenus[0].Dishes)
}

func TestParseEmptyDishDescriptionClosesSubmenu(t *testing.T) {
	r := buildWorkbook(t, [][]any{
		{"m1", "Drinks", "Cold and hot"},
		{"", "s1", "Coffee", "Brews"},
		{"", "", "d1", "Espresso", "", "2.50"},
		{"", "", "d2", "Latte", "With milk", "4.00"},
		{"", "s2", "Tea", "Leaves"},
		{"", "", "d3", "Earl Grey", "Black", "3.00"},
	})

	menus, err := Parse(r)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	require.Len(t, menus[0].Submenus, 2)

	// d1 closed s1, so d2 was dropped; s2 opened a fresh block for d3.
	assert.Empty(t, menus[0].Submenus[0].Dishes)
	require.Len(t, menus[0].Submenus[1].Dishes, 1)
	assert.Equal(t, "d3", menus[0].Submenus[1].Dishes[0].ID)
}

func TestParseEmptySubmenuDescriptionClosesMenu(t *testing.T) {
	r := buildWorkbook(t, [][]any{
		{"m1", "Drinks", "Cold and hot"},
		{"", "s1", "Coffee"},
		{"", "s2", "Tea", "Leaves"},
		{"", "", "d1", "Earl Grey", "Black", "3.00"},
		{"m2", "Food", "Meals"},
		{"", "s3", "Soups", "Warm"},
	})

	menus, err := Parse(r)
	require.NoError(t, err)
	require.Len(t, menus, 2)

	// s1 closed m1, dropping s2 and its dish; m2 reopened parsing.
	assert.Empty(t, menus[0].Submenus)
	require.Len(t, menus[1].Submenus, 1)
	assert.Equal(t, "s3", menus[1].Submenus[0].ID)
}

func TestParseEmptyMenuDescriptionDropsItsBlock(t *testing.T) {
	r := buildWorkbook(t, [][]any{
		{"m1", "Drinks", "Cold and hot"},
		{"m2", "No description"},
		{"", "s1", "Coffee", "Brews"},
		{"m3", "Food", "Meals"},
		{"", "s2", "Soups", "Warm"},
	})

	menus, err := Parse(r)
	require.NoError(t, err)
	require.Len(t, menus, 2)

	// s1 belonged to the malformed m2 block and must not attach to m1.
	assert.Empty(t, menus[0].Submenus)
	require.Len(t, menus[1].Submenus, 1)
	assert.Equal(t, "s2", menus[1].Submenus[0].ID)
}

func TestParseOrphanRowsIgnored(t *testing.T) {
	// Submenu and dish rows before any menu row have no parent to attach to.
	r := buildWorkbook(t, [][]any{
		{"", "s1", "Coffee", "Brews"},
		{"", "", "d1", "Espresso", "Single shot", "2.50"},
		{"m1", "Drinks", "Cold and hot"},
	})

	menus, err := Parse(r)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Empty(t, menus[0].Submenus)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
