package sync

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SourceDish is a dish row parsed from the workbook.
type SourceDish struct {
	ID          string
	Title       string
	Description string
	Price       string
}

// SourceSubmenu is a submenu row with its dish rows.
type SourceSubmenu struct {
	ID          string
	Title       string
	Description string
	Dishes      []SourceDish
}

// SourceMenu is a menu row with its whole subtree.
type SourceMenu struct {
	ID          string
	Title       string
	Description string
	Submenus    []SourceSubmenu
}

// Parse reads the menu workbook from r and returns the nested menu tree.
//
// The sheet layout is positional: a row with a value in column A starts a
// menu (id/title/description in A/B/C), a row with a value in column B a
// submenu (B/C/D), and a row with a value in column C a dish (C/D/E/F, F
// being the price). An empty description terminates the current block: a
// blank-description dish row closes the submenu above it, a blank-description
// submenu row closes the menu above it, and later child rows are dropped
// until the next block opens.
func Parse(r io.Reader) ([]SourceMenu, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	var menus []SourceMenu
	var menuOpen, submenuOpen bool

	for _, row := range rows {
		switch {
		case cell(row, 0) != "":
			menu := SourceMenu{
				ID:          cell(row, 0),
				Title:       cell(row, 1),
				Description: cell(row, 2),
			}
			if menu.Description == "" {
				menuOpen, submenuOpen = false, false
				continue
			}
			menus = append(menus, menu)
			menuOpen, submenuOpen = true, false

		case cell(row, 1) != "":
			if !menuOpen {
				continue
			}
			submenu := SourceSubmenu{
				ID:          cell(row, 1),
				Title:       cell(row, 2),
				Description: cell(row, 3),
			}
			if submenu.Description == "" {
				menuOpen, submenuOpen = false, false
				continue
			}
			menu := &menus[len(menus)-1]
			menu.Submenus = append(menu.Submenus, submenu)
			submenuOpen = true

		case cell(row, 2) != "":
			if !submenuOpen {
				continue
			}
			dish := SourceDish{
				ID:          cell(row, 2),
				Title:       cell(row, 3),
				Description: cell(row, 4),
				Price:       cell(row, 5),
			}
			if dish.Description == "" {
				submenuOpen = false
				continue
			}
			menu := &menus[len(menus)-1]
			submenu := &menu.Submenus[len(menu.Submenus)-1]
			submenu.Dishes = append(submenu.Dishes, dish)
		}
	}

	return menus, nil
}

// cell returns the trimmed-by-excelize cell value at index i, tolerating the
// short rows GetRows produces when trailing cells are empty.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
