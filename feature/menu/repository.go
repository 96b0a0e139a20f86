package menu

import (
	"context"
	"errors"
	"fmt"

	"menu-manager/feature/menu/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the persistence gateway for the menu hierarchy.
// Each operation is atomic on its own; cache coordination happens a layer up.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMenus returns every menu with derived counters.
func (r *Repository) ListMenus(ctx context.Context) ([]models.MenuView, error) {
	var menus []models.Menu
	if err := r.db.WithContext(ctx).Order("title").Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}

	submenuCounts, err := r.submenuCountsByMenu(ctx)
	if err != nil {
		return nil, err
	}
	dishCounts, err := r.dishCountsByMenu(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.MenuView, 0, len(menus))
	for _, m := range menus {
		views = append(views, models.MenuView{
			ID:            m.ID,
			Title:         m.Title,
			Description:   m.Description,
			SubmenusCount: submenuCounts[m.ID],
			DishesCount:   dishCounts[m.ID],
		})
	}
	return views, nil
}

// GetMenu returns a single menu with derived counters.
func (r *Repository) GetMenu(ctx context.Context, menuID string) (*models.MenuView, error) {
	var m models.Menu
	err := r.db.WithContext(ctx).First(&m, "id = ?", menuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	return r.menuView(ctx, m)
}

// CreateMenu creates a menu, failing on a duplicate title.
func (r *Repository) CreateMenu(ctx context.Context, payload models.MenuPayload) (*models.MenuView, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Menu{}).
		Where("title = ?", payload.Title).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check menu uniqueness: %w", err)
	}
	if count > 0 {
		return nil, models.ErrMenuExists
	}

	m := models.Menu{
		ID:          orNewID(payload.ID),
		Title:       payload.Title,
		Description: payload.Description,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}
	return &models.MenuView{ID: m.ID, Title: m.Title, Description: m.Description}, nil
}

// UpdateMenu updates a menu's title and description in place.
func (r *Repository) UpdateMenu(ctx context.Context, menuID string, payload models.MenuPayload) (*models.MenuView, error) {
	var m models.Menu
	err := r.db.WithContext(ctx).First(&m, "id = ?", menuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Menu{}).
		Where("title = ? AND id <> ?", payload.Title, menuID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check menu uniqueness: %w", err)
	}
	if count > 0 {
		return nil, models.ErrMenuExists
	}

	m.Title = payload.Title
	m.Description = payload.Description
	if err := r.db.WithContext(ctx).Model(&models.Menu{ID: menuID}).
		Updates(map[string]any{"title": payload.Title, "description": payload.Description}).Error; err != nil {
		return nil, fmt.Errorf("failed to update menu: %w", err)
	}
	return r.menuView(ctx, m)
}

// DeleteMenu deletes a menu; the database cascades to submenus and dishes.
func (r *Repository) DeleteMenu(ctx context.Context, menuID string) error {
	res := r.db.WithContext(ctx).Delete(&models.Menu{}, "id = ?", menuID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete menu: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrMenuNotFound
	}
	return nil
}

// ListSubmenus returns the submenus of a menu with derived counters.
func (r *Repository) ListSubmenus(ctx context.Context, menuID string) ([]models.SubmenuView, error) {
	if err := r.requireMenu(ctx, menuID); err != nil {
		return nil, err
	}

	var submenus []models.Submenu
	if err := r.db.WithContext(ctx).Where("menu_id = ?", menuID).
		Order("title").Find(&submenus).Error; err != nil {
		return nil, fmt.Errorf("failed to list submenus: %w", err)
	}

	dishCounts, err := r.dishCountsBySubmenu(ctx, menuID)
	if err != nil {
		return nil, err
	}

	views := make([]models.SubmenuView, 0, len(submenus))
	for _, s := range submenus {
		views = append(views, models.SubmenuView{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			MenuID:      s.MenuID,
			DishesCount: dishCounts[s.ID],
		})
	}
	return views, nil
}

// GetSubmenu returns a single submenu of a menu with its derived counter.
func (r *Repository) GetSubmenu(ctx context.Context, menuID, submenuID string) (*models.SubmenuView, error) {
	var s models.Submenu
	err := r.db.WithContext(ctx).First(&s, "id = ? AND menu_id = ?", submenuID, menuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrSubmenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submenu: %w", err)
	}
	return r.submenuView(ctx, s)
}

// CreateSubmenu creates a submenu under a menu. The parent must exist and the
// title must be unique within that menu.
func (r *Repository) CreateSubmenu(ctx context.Context, menuID string, payload models.SubmenuPayload) (*models.SubmenuView, error) {
	if err := r.requireMenu(ctx, menuID); err != nil {
		return nil, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submenu{}).
		Where("menu_id = ? AND title = ?", menuID, payload.Title).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check submenu uniqueness: %w", err)
	}
	if count > 0 {
		return nil, models.ErrSubmenuExists
	}

	s := models.Submenu{
		ID:          orNewID(payload.ID),
		Title:       payload.Title,
		Description: payload.Description,
		MenuID:      menuID,
	}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, fmt.Errorf("failed to create submenu: %w", err)
	}
	return &models.SubmenuView{ID: s.ID, Title: s.Title, Description: s.Description, MenuID: s.MenuID}, nil
}

// UpdateSubmenu updates a submenu's title and description in place.
func (r *Repository) UpdateSubmenu(ctx context.Context, menuID, submenuID string, payload models.SubmenuPayload) (*models.SubmenuView, error) {
	var s models.Submenu
	err := r.db.WithContext(ctx).First(&s, "id = ? AND menu_id = ?", submenuID, menuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrSubmenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submenu: %w", err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submenu{}).
		Where("menu_id = ? AND title = ? AND id <> ?", menuID, payload.Title, submenuID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check submenu uniqueness: %w", err)
	}
	if count > 0 {
		return nil, models.ErrSubmenuExists
	}

	s.Title = payload.Title
	s.Description = payload.Description
	if err := r.db.WithContext(ctx).Model(&models.Submenu{ID: submenuID}).
		Updates(map[string]any{"title": payload.Title, "description": payload.Description}).Error; err != nil {
		return nil, fmt.Errorf("failed to update submenu: %w", err)
	}
	return r.submenuView(ctx, s)
}

// DeleteSubmenu deletes a submenu; the database cascades to its dishes.
func (r *Repository) DeleteSubmenu(ctx context.Context, menuID, submenuID string) error {
	res := r.db.WithContext(ctx).Delete(&models.Submenu{}, "id = ? AND menu_id = ?", submenuID, menuID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete submenu: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrSubmenuNotFound
	}
	return nil
}

// ListDishes returns the dishes of a submenu.
func (r *Repository) ListDishes(ctx context.Context, menuID, submenuID string) ([]models.DishView, error) {
	if err := r.requireSubmenu(ctx, menuID, submenuID); err != nil {
		return nil, err
	}

	var dishes []models.Dish
	if err := r.db.WithContext(ctx).Where("submenu_id = ?", submenuID).
		Order("title").Find(&dishes).Error; err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}

	views := make([]models.DishView, 0, len(dishes))
	for _, d := range dishes {
		views = append(views, models.NewDishView(d))
	}
	return views, nil
}

// GetDish returns a single dish of a submenu.
func (r *Repository) GetDish(ctx context.Context, menuID, submenuID, dishID string) (*models.DishView, error) {
	var d models.Dish
	err := r.db.WithContext(ctx).First(&d, "id = ? AND submenu_id = ?", dishID, submenuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrDishNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}
	view := models.NewDishView(d)
	return &view, nil
}

// CreateDish creates a dish under a submenu. The parent must exist and the
// (title, description) pair must be unique within that submenu.
func (r *Repository) CreateDish(ctx context.Context, menuID, submenuID string, payload models.DishPayload) (*models.DishView, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.requireSubmenu(ctx, menuID, submenuID); err != nil {
		return nil, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Dish{}).
		Where("submenu_id = ? AND title = ? AND description = ?", submenuID, payload.Title, payload.Description).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check dish uniqueness: %w", err)
	}
	if count > 0 {
		return nil, models.ErrDishExists
	}

	price, err := models.ParsePrice(payload.Price)
	if err != nil {
		return nil, err
	}
	d := models.Dish{
		ID:          orNewID(payload.ID),
		Title:       payload.Title,
		Description: payload.Description,
		SubmenuID:   submenuID,
		Price:       price,
		Discount:    payload.Discount,
	}
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}
	view := models.NewDishView(d)
	return &view, nil
}

// UpdateDish updates a dish's title, description, price and discount in place.
func (r *Repository) UpdateDish(ctx context.Context, menuID, submenuID, dishID string, payload models.DishPayload) (*models.DishView, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	var d models.Dish
	err := r.db.WithContext(ctx).First(&d, "id = ? AND submenu_id = ?", dishID, submenuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrDishNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Dish{}).
		Where("submenu_id = ? AND title = ? AND description = ? AND id <> ?",
			submenuID, payload.Title, payload.Description, dishID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check dish uniqueness: %w", err)
	}
	if count > 0 {
		return nil, models.ErrDishExists
	}

	price, err := models.ParsePrice(payload.Price)
	if err != nil {
		return nil, err
	}
	d.Title = payload.Title
	d.Description = payload.Description
	d.Price = price
	d.Discount = payload.Discount
	if err := r.db.WithContext(ctx).Model(&models.Dish{ID: dishID}).
		Updates(map[string]any{
			"title":       payload.Title,
			"description": payload.Description,
			"price":       price,
			"discount":    payload.Discount,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to update dish: %w", err)
	}
	view := models.NewDishView(d)
	return &view, nil
}

// DeleteDish deletes a dish.
func (r *Repository) DeleteDish(ctx context.Context, menuID, submenuID, dishID string) error {
	res := r.db.WithContext(ctx).Delete(&models.Dish{}, "id = ? AND submenu_id = ?", dishID, submenuID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete dish: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrDishNotFound
	}
	return nil
}

// FullTree returns every menu with its submenus and dishes expanded.
func (r *Repository) FullTree(ctx context.Context) ([]models.MenuNode, error) {
	var menus []models.Menu
	if err := r.db.WithContext(ctx).
		Preload("Submenus.Dishes").Preload("Submenus").
		Order("title").Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("failed to load full tree: %w", err)
	}

	tree := make([]models.MenuNode, 0, len(menus))
	for _, m := range menus {
		node := models.MenuNode{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Submenus:    make([]models.SubmenuNode, 0, len(m.Submenus)),
		}
		for _, s := range m.Submenus {
			sub := models.SubmenuNode{
				ID:          s.ID,
				Title:       s.Title,
				Description: s.Description,
				Dishes:      make([]models.DishView, 0, len(s.Dishes)),
			}
			for _, d := range s.Dishes {
				sub.Dishes = append(sub.Dishes, models.NewDishView(d))
			}
			node.Submenus = append(node.Submenus, sub)
		}
		tree = append(tree, node)
	}
	return tree, nil
}

// requireMenu fails with ErrMenuNotFound when the menu does not exist.
func (r *Repository) requireMenu(ctx context.Context, menuID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Menu{}).
		Where("id = ?", menuID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check menu existence: %w", err)
	}
	if count == 0 {
		return models.ErrMenuNotFound
	}
	return nil
}

// requireSubmenu fails with ErrSubmenuNotFound when the submenu does not
// exist under the given menu.
func (r *Repository) requireSubmenu(ctx context.Context, menuID, submenuID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submenu{}).
		Where("id = ? AND menu_id = ?", submenuID, menuID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check submenu existence: %w", err)
	}
	if count == 0 {
		return models.ErrSubmenuNotFound
	}
	return nil
}

func (r *Repository) menuView(ctx context.Context, m models.Menu) (*models.MenuView, error) {
	var submenus int64
	if err := r.db.WithContext(ctx).Model(&models.Submenu{}).
		Where("menu_id = ?", m.ID).Count(&submenus).Error; err != nil {
		return nil, fmt.Errorf("failed to count submenus: %w", err)
	}

	var dishes int64
	if err := r.db.WithContext(ctx).Model(&models.Dish{}).
		Joins("JOIN submenus ON submenus.id = dishes.submenu_id").
		Where("submenus.menu_id = ?", m.ID).Count(&dishes).Error; err != nil {
		return nil, fmt.Errorf("failed to count dishes: %w", err)
	}

	return &models.MenuView{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		SubmenusCount: int(submenus),
		DishesCount:   int(dishes),
	}, nil
}

func (r *Repository) submenuView(ctx context.Context, s models.Submenu) (*models.SubmenuView, error) {
	var dishes int64
	if err := r.db.WithContext(ctx).Model(&models.Dish{}).
		Where("submenu_id = ?", s.ID).Count(&dishes).Error; err != nil {
		return nil, fmt.Errorf("failed to count dishes: %w", err)
	}
	return &models.SubmenuView{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		MenuID:      s.MenuID,
		DishesCount: int(dishes),
	}, nil
}

type countRow struct {
	GroupID string `gorm:"column:group_id"`
	N       int    `gorm:"column:n"`
}

func (r *Repository) submenuCountsByMenu(ctx context.Context) (map[string]int, error) {
	var rows []countRow
	if err := r.db.WithContext(ctx).Model(&models.Submenu{}).
		Select("menu_id AS group_id, COUNT(*) AS n").
		Group("menu_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count submenus: %w", err)
	}
	return countMap(rows), nil
}

func (r *Repository) dishCountsByMenu(ctx context.Context) (map[string]int, error) {
	var rows []countRow
	if err := r.db.WithContext(ctx).Model(&models.Dish{}).
		Select("submenus.menu_id AS group_id, COUNT(*) AS n").
		Joins("JOIN submenus ON submenus.id = dishes.submenu_id").
		Group("submenus.menu_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count dishes: %w", err)
	}
	return countMap(rows), nil
}

func (r *Repository) dishCountsBySubmenu(ctx context.Context, menuID string) (map[string]int, error) {
	var rows []countRow
	if err := r.db.WithContext(ctx).Model(&models.Dish{}).
		Select("dishes.submenu_id AS group_id, COUNT(*) AS n").
		Joins("JOIN submenus ON submenus.id = dishes.submenu_id").
		Where("submenus.menu_id = ?", menuID).
		Group("dishes.submenu_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count dishes: %w", err)
	}
	return countMap(rows), nil
}

func countMap(rows []countRow) map[string]int {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.GroupID] = row.N
	}
	return counts
}

// orNewID returns the client-supplied id, or a fresh UUID when absent.
func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
