package models

import (
	"github.com/shopspring/decimal"
)

// Menu is the root of the menu hierarchy.
type Menu struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Title       string    `gorm:"column:title;type:varchar(200);not null;uniqueIndex"`
	Description string    `gorm:"column:description;type:text;not null"`
	Submenus    []Submenu `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name.
func (Menu) TableName() string {
	return "menus"
}

// Submenu belongs to exactly one menu. Titles are unique within a menu.
type Submenu struct {
	ID          string `gorm:"column:id;primaryKey;type:varchar(36)"`
	Title       string `gorm:"column:title;type:varchar(200);not null;uniqueIndex:uq_submenus_menu_title"`
	Description string `gorm:"column:description;type:text;not null"`
	MenuID      string `gorm:"column:menu_id;type:varchar(36);not null;uniqueIndex:uq_submenus_menu_title;index"`
	Dishes      []Dish `gorm:"foreignKey:SubmenuID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name.
func (Submenu) TableName() string {
	return "submenus"
}

// Dish belongs to exactly one submenu. The same title may appear twice with
// different descriptions (e.g. portion sizes), so uniqueness is enforced on
// the (title, description) pair within a submenu.
type Dish struct {
	ID          string          `gorm:"column:id;primaryKey;type:varchar(36)"`
	Title       string          `gorm:"column:title;type:varchar(200);not null"`
	Description string          `gorm:"column:description;type:text;not null"`
	SubmenuID   string          `gorm:"column:submenu_id;type:varchar(36);not null;index"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	Discount    int             `gorm:"column:discount;not null;default:0"`
}

// TableName overrides the table name.
func (Dish) TableName() string {
	return "dishes"
}

// MenuView is the read shape of a menu, with derived counters.
type MenuView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	SubmenusCount int    `json:"submenus_count"`
	DishesCount   int    `json:"dishes_count"`
}

// SubmenuView is the read shape of a submenu, with its derived counter.
type SubmenuView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MenuID      string `json:"menu_id"`
	DishesCount int    `json:"dishes_count"`
}

// DishView is the read shape of a dish. Price is the display price: the base
// price reduced by the discount percentage, rounded to two decimal places.
type DishView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SubmenuID   string `json:"submenu_id"`
	Price       string `json:"price"`
	Discount    int    `json:"discount"`
}

// NewDishView builds the read shape for a dish, computing the display price.
func NewDishView(d Dish) DishView {
	return DishView{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		SubmenuID:   d.SubmenuID,
		Price:       DisplayPrice(d.Price, d.Discount),
		Discount:    d.Discount,
	}
}

// SubmenuNode is a submenu with its dishes expanded, used by the full tree.
type SubmenuNode struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Dishes      []DishView `json:"dishes"`
}

// MenuNode is a menu with its whole subtree expanded, used by the full tree.
type MenuNode struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Submenus    []SubmenuNode `json:"submenus"`
}

// MenuPayload carries menu fields for create and update operations.
// ID is optional on create; when present it becomes the entity identity,
// which lets the reconciliation job carry spreadsheet ids into the database.
type MenuPayload struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SubmenuPayload carries submenu fields for create and update operations.
type SubmenuPayload struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DishPayload carries dish fields for create and update operations.
// Price arrives as a string and is normalized by ParsePrice.
type DishPayload struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Discount    int    `json:"discount,omitempty"`
}

// Validate checks payload fields that carry domain constraints.
func (p DishPayload) Validate() error {
	if p.Discount < 0 || p.Discount > 100 {
		return ErrDiscountRange
	}
	if _, err := ParsePrice(p.Price); err != nil {
		return err
	}
	return nil
}
