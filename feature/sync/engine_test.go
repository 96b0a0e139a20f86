package sync

import (
	"context"
	"testing"

	"menu-manager/feature/menu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	menus []SourceMenu
}

func (s stubSource) Load(ctx context.Context) ([]SourceMenu, error) {
	return s.menus, nil
}

// fakeAPI is an in-memory API implementation the engine converges against.
type fakeAPI struct {
	menus    map[string]models.MenuView
	submenus map[string]map[string]models.SubmenuView
	dishes   map[string]map[string]models.DishView
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		menus:    make(map[string]models.MenuView),
		submenus: make(map[string]map[string]models.SubmenuView),
		dishes:   make(map[string]map[string]models.DishView),
	}
}

func (a *fakeAPI) ListMenus(ctx context.Context) ([]models.MenuView, error) {
	views := make([]models.MenuView, 0, len(a.menus))
	for _, m := range a.menus {
		views = append(views, m)
	}
	return views, nil
}

func (a *fakeAPI) CreateMenu(ctx context.Context, payload models.MenuPayload) (*models.MenuView, error) {
	m := models.MenuView{ID: payload.ID, Title: payload.Title, Description: payload.Description}
	a.menus[payload.ID] = m
	a.submenus[payload.ID] = make(map[string]models.SubmenuView)
	return &m, nil
}

func (a *fakeAPI) UpdateMenu(ctx context.Context, menuID string, payload models.MenuPayload) (*models.MenuView, error) {
	m, ok := a.menus[menuID]
	if !ok {
		return nil, models.ErrMenuNotFound
	}
	m.Title = payload.Title
	m.Description = payload.Description
	a.menus[menuID] = m
	return &m, nil
}

func (a *fakeAPI) DeleteMenu(ctx context.Context, menuID string) error {
	if _, ok := a.menus[menuID]; !ok {
		return models.ErrMenuNotFound
	}
	for id := range a.submenus[menuID] {
		delete(a.dishes, id)
	}
	delete(a.submenus, menuID)
	delete(a.menus, menuID)
	return nil
}

func (a *fakeAPI) ListSubmenus(ctx context.Context, menuID string) ([]models.SubmenuView, error) {
	views := make([]models.SubmenuView, 0, len(a.submenus[menuID]))
	for _, s := range a.submenus[menuID] {
		views = append(views, s)
	}
	return views, nil
}

func (a *fakeAPI) CreateSubmenu(ctx context.Context, menuID string, payload models.SubmenuPayload) (*models.SubmenuView, error) {
	if _, ok := a.menus[menuID]; !ok {
		return nil, models.ErrMenuNotFound
	}
	s := models.SubmenuView{ID: payload.ID, Title: payload.Title, Description: payload.Description, MenuID: menuID}
	a.submenus[menuID][payload.ID] = s
	a.dishes[payload.ID] = make(map[string]models.DishView)
	return &s, nil
}

func (a *fakeAPI) UpdateSubmenu(ctx context.Context, menuID, submenuID string, payload models.SubmenuPayload) (*models.SubmenuView, error) {
	s, ok := a.submenus[menuID][submenuID]
	if !ok {
		return nil, models.ErrSubmenuNotFound
	}
	s.Title = payload.Title
	s.Description = payload.Description
	a.submenus[menuID][submenuID] = s
	return &s, nil
}

func (a *fakeAPI) DeleteSubmenu(ctx context.Context, menuID, submenuID string) error {
	if _, ok := a.submenus[menuID][submenuID]; !ok {
		return models.ErrSubmenuNotFound
	}
	delete(a.dishes, submenuID)
	delete(a.submenus[menuID], submenuID)
	return nil
}

func (a *fakeAPI) ListDishes(ctx context.Context, menuID, submenuID string) ([]models.DishView, error) {
	views := make([]models.DishView, 0, len(a.dishes[submenuID]))
	for _, d := range a.dishes[submenuID] {
		views = append(views, d)
	}
	return views, nil
}

func (a *fakeAPI) CreateDish(ctx context.Context, menuID, submenuID string, payload models.DishPayload) (*models.DishView, error) {
	if _, ok := a.submenus[menuID][submenuID]; !ok {
		return nil, models.ErrSubmenuNotFound
	}
	price, err := models.ParsePrice(payload.Price)
	if err != nil {
		return nil, err
	}
	d := models.DishView{
		ID:          payload.ID,
		Title:       payload.Title,
		Description: payload.Description,
		SubmenuID:   submenuID,
		Price:       models.DisplayPrice(price, payload.Discount),
		Discount:    payload.Discount,
	}
	a.dishes[submenuID][payload.ID] = d
	return &d, nil
}

func (a *fakeAPI) UpdateDish(ctx context.Context, menuID, submenuID, dishID string, payload models.DishPayload) (*models.DishView, error) {
	d, ok := a.dishes[submenuID][dishID]
	if !ok {
		return nil, models.ErrDishNotFound
	}
	price, err := models.ParsePrice(payload.Price)
	if err != nil {
		return nil, err
	}
	d.Title = payload.Title
	d.Description = payload.Description
	d.Price = models.DisplayPrice(price, payload.Discount)
	d.Discount = payload.Discount
	a.dishes[submenuID][dishID] = d
	return &d, nil
}

func (a *fakeAPI) DeleteDish(ctx context.Context, menuID, submenuID, dishID string) error {
	if _, ok := a.dishes[submenuID][dishID]; !ok {
		return models.ErrDishNotFound
	}
	delete(a.dishes[submenuID], dishID)
	return nil
}

func sourceTree() []SourceMenu {
	return []SourceMenu{
		{
			ID: "m1", Title: "Drinks", Description: "Cold and hot",
			Submenus: []SourceSubmenu{
				{
					ID: "s1", Title: "Coffee", Description: "Brews",
					Dishes: []SourceDish{
						{ID: "d1", Title: "Espresso", Description: "Single shot", Price: "2.50"},
						{ID: "d2", Title: "Latte", Description: "With milk", Price: "4.00"},
					},
				},
			},
		},
	}
}

func newTestEngine(api API, menus []SourceMenu) *Engine {
	return NewEngine(api, stubSource{menus: menus}, Config{}, zap.NewNop())
}

func TestRunOnceCreatesHierarchy(t *testing.T) {
	api := newFakeAPI()
	engine := newTestEngine(api, sourceTree())

	stats, err := engine.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Created: 4}, stats)

	assert.Equal(t, "Drinks", api.menus["m1"].Title)
	assert.Equal(t, "Coffee", api.submenus["m1"]["s1"].Title)
	assert.Equal(t, "2.50", api.dishes["s1"]["d1"].Price)
	assert.Equal(t, "4.00", api.dishes["s1"]["d2"].Price)
}

func TestRunOnceIsIdempotent(t *testing.T) {
	api := newFakeAPI()
	engine := newTestEngine(api, sourceTree())

	_, err := engine.RunOnce(context.Background())
	require.NoError(t, err)

	stats, err := engine.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Zero(), "second pass issued mutations: %+v", stats)
}

func TestRunOnceUpdatesDriftedFields(t *testing.T) {
	api := newFakeAPI()
	engine := newTestEngine(api, sourceTree())
	ctx := context.Background()

	_, err := engine.RunOnce(ctx)
	require.NoError(t, err)

	// Drift the live data away from the source.
	_, err = api.UpdateMenu(ctx, "m1", models.MenuPayload{Title: "Renamed", Description: "Cold and hot"})
	require.NoError(t, err)
	_, err = api.UpdateDish(ctx, "m1", "s1", "d1", models.DishPayload{
		Title: "Espresso", Description: "Single shot", Price: "9.99",
	})
	require.NoError(t, err)

	stats, err := engine.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Updated: 2}, stats)
	assert.Equal(t, "Drinks", api.menus["m1"].Title)
	assert.Equal(t, "2.50", api.dishes["s1"]["d1"].Price)
}

func TestRunOnceDeletesStaleEntities(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()

	// Live data holds a menu and a dish the source does not know about.
	_, err := api.CreateMenu(ctx, models.MenuPayload{ID: "stale", Title: "Old", Description: "Gone"})
	require.NoError(t, err)

	engine := newTestEngine(api, sourceTree())
	_, err = engine.RunOnce(ctx)
	require.NoError(t, err)

	_, err = api.CreateDish(ctx, "m1", "s1", models.DishPayload{
		ID: "d9", Title: "Phantom", Description: "Not in source", Price: "1.00",
	})
	require.NoError(t, err)

	stats, err := engine.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Deleted)
	assert.NotContains(t, api.menus, "stale")
	assert.NotContains(t, api.dishes["s1"], "d9")
}

func TestRunOncePreservesDiscount(t *testing.T) {
	api := newFakeAPI()
	engine := newTestEngine(api, sourceTree())
	ctx := context.Background()

	_, err := engine.RunOnce(ctx)
	require.NoError(t, err)

	// An operator discounts a dish; its display price diverges from the
	// source price on purpose.
	_, err = api.UpdateDish(ctx, "m1", "s1", "d1", models.DishPayload{
		Title: "Espresso", Description: "Single shot", Price: "2.50", Discount: 50,
	})
	require.NoError(t, err)

	stats, err := engine.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Zero(), "discounted dish triggered mutations: %+v", stats)
	assert.Equal(t, "1.25", api.dishes["s1"]["d1"].Price)

	// A genuine source price change still lands, with the discount intact.
	menus := sourceTree()
	menus[0].Submenus[0].Dishes[0].Price = "3.00"
	engine = newTestEngine(api, menus)

	stats, err = engine.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Updated: 1}, stats)
	assert.Equal(t, "1.50", api.dishes["s1"]["d1"].Price)
	assert.Equal(t, 50, api.dishes["s1"]["d1"].Discount)
}
