package sync

import (
	"context"
	"fmt"
	"time"

	"menu-manager/feature/menu/models"

	"go.uber.org/zap"
)

// API is the surface the engine mutates through. It is the same operation set
// the HTTP facade exposes, so reconciliation traffic flows through the cache
// coordinator like any other client's.
type API interface {
	ListMenus(ctx context.Context) ([]models.MenuView, error)
	CreateMenu(ctx context.Context, payload models.MenuPayload) (*models.MenuView, error)
	UpdateMenu(ctx context.Context, menuID string, payload models.MenuPayload) (*models.MenuView, error)
	DeleteMenu(ctx context.Context, menuID string) error

	ListSubmenus(ctx context.Context, menuID string) ([]models.SubmenuView, error)
	CreateSubmenu(ctx context.Context, menuID string, payload models.SubmenuPayload) (*models.SubmenuView, error)
	UpdateSubmenu(ctx context.Context, menuID, submenuID string, payload models.SubmenuPayload) (*models.SubmenuView, error)
	DeleteSubmenu(ctx context.Context, menuID, submenuID string) error

	ListDishes(ctx context.Context, menuID, submenuID string) ([]models.DishView, error)
	CreateDish(ctx context.Context, menuID, submenuID string, payload models.DishPayload) (*models.DishView, error)
	UpdateDish(ctx context.Context, menuID, submenuID, dishID string, payload models.DishPayload) (*models.DishView, error)
	DeleteDish(ctx context.Context, menuID, submenuID, dishID string) error
}

// Stats counts the mutations a reconciliation pass issued.
type Stats struct {
	Created int
	Updated int
	Deleted int
}

// Zero reports whether the pass issued no mutations at all.
func (s Stats) Zero() bool {
	return s.Created == 0 && s.Updated == 0 && s.Deleted == 0
}

func (s *Stats) add(other Stats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Deleted += other.Deleted
}

// Engine converges the live menu hierarchy to the external source of truth.
type Engine struct {
	api    API
	source Source
	cfg    Config
	logger *zap.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(api API, source Source, cfg Config, logger *zap.Logger) *Engine {
	return &Engine{api: api, source: source, cfg: cfg, logger: logger}
}

// Run executes reconciliation passes until the context is cancelled.
// One pass finishes (or fails) before the next is scheduled, so passes never
// overlap. Errors are logged and retried after a fixed delay; the loop never
// terminates on its own.
func (e *Engine) Run(ctx context.Context) {
	for {
		wait := e.cfg.Interval()

		stats, err := e.RunOnce(ctx)
		if err != nil {
			e.logger.Error("Reconciliation pass failed", zap.Error(err))
			wait = e.cfg.RetryDelay()
		} else if !stats.Zero() {
			e.logger.Info("Reconciliation pass applied changes",
				zap.Int("created", stats.Created),
				zap.Int("updated", stats.Updated),
				zap.Int("deleted", stats.Deleted),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// RunOnce parses the source, diffs it against the live hierarchy and issues
// the mutations needed to converge them. Traversal is strictly top-down so a
// parent always exists before its children are touched.
func (e *Engine) RunOnce(ctx context.Context) (Stats, error) {
	menus, err := e.source.Load(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load source: %w", err)
	}
	return e.syncMenus(ctx, menus)
}

func (e *Engine) syncMenus(ctx context.Context, source []SourceMenu) (Stats, error) {
	var stats Stats

	live, err := e.api.ListMenus(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list live menus: %w", err)
	}
	liveByID := make(map[string]models.MenuView, len(live))
	for _, m := range live {
		liveByID[m.ID] = m
	}

	for _, src := range source {
		current, exists := liveByID[src.ID]
		if !exists {
			// A brand-new menu cannot have divergent children: create the
			// whole subtree unconditionally.
			created, err := e.createMenuTree(ctx, src)
			stats.add(created)
			if err != nil {
				return stats, err
			}
			continue
		}
		delete(liveByID, src.ID)

		if current.Title != src.Title || current.Description != src.Description {
			if _, err := e.api.UpdateMenu(ctx, src.ID, models.MenuPayload{
				Title:       src.Title,
				Description: src.Description,
			}); err != nil {
				return stats, fmt.Errorf("failed to update menu %s: %w", src.ID, err)
			}
			stats.Updated++
		}

		childStats, err := e.syncSubmenus(ctx, src.ID, src.Submenus)
		stats.add(childStats)
		if err != nil {
			return stats, err
		}
	}

	// Live but absent from source: delete, cascade removes descendants.
	for id := range liveByID {
		if err := e.api.DeleteMenu(ctx, id); err != nil {
			return stats, fmt.Errorf("failed to delete menu %s: %w", id, err)
		}
		stats.Deleted++
	}

	return stats, nil
}

func (e *Engine) syncSubmenus(ctx context.Context, menuID string, source []SourceSubmenu) (Stats, error) {
	var stats Stats

	live, err := e.api.ListSubmenus(ctx, menuID)
	if err != nil {
		return stats, fmt.Errorf("failed to list live submenus of %s: %w", menuID, err)
	}
	liveByID := make(map[string]models.SubmenuView, len(live))
	for _, s := range live {
		liveByID[s.ID] = s
	}

	for _, src := range source {
		current, exists := liveByID[src.ID]
		if !exists {
			created, err := e.createSubmenuTree(ctx, menuID, src)
			stats.add(created)
			if err != nil {
				return stats, err
			}
			continue
		}
		delete(liveByID, src.ID)

		if current.Title != src.Title || current.Description != src.Description {
			if _, err := e.api.UpdateSubmenu(ctx, menuID, src.ID, models.SubmenuPayload{
				Title:       src.Title,
				Description: src.Description,
			}); err != nil {
				return stats, fmt.Errorf("failed to update submenu %s: %w", src.ID, err)
			}
			stats.Updated++
		}

		childStats, err := e.syncDishes(ctx, menuID, src.ID, src.Dishes)
		stats.add(childStats)
		if err != nil {
			return stats, err
		}
	}

	for id := range liveByID {
		if err := e.api.DeleteSubmenu(ctx, menuID, id); err != nil {
			return stats, fmt.Errorf("failed to delete submenu %s: %w", id, err)
		}
		stats.Deleted++
	}

	return stats, nil
}

func (e *Engine) syncDishes(ctx context.Context, menuID, submenuID string, source []SourceDish) (Stats, error) {
	var stats Stats

	live, err := e.api.ListDishes(ctx, menuID, submenuID)
	if err != nil {
		return stats, fmt.Errorf("failed to list live dishes of %s: %w", submenuID, err)
	}
	liveByID := make(map[string]models.DishView, len(live))
	for _, d := range live {
		liveByID[d.ID] = d
	}

	for _, src := range source {
		current, exists := liveByID[src.ID]
		if !exists {
			if _, err := e.api.CreateDish(ctx, menuID, submenuID, models.DishPayload{
				ID:          src.ID,
				Title:       src.Title,
				Description: src.Description,
				Price:       src.Price,
			}); err != nil {
				return stats, fmt.Errorf("failed to create dish %s: %w", src.ID, err)
			}
			stats.Created++
			continue
		}
		delete(liveByID, src.ID)

		if dishDrifted(src, current) {
			// Discount is operator-managed and absent from the spreadsheet,
			// so updates carry the live value through.
			if _, err := e.api.UpdateDish(ctx, menuID, submenuID, src.ID, models.DishPayload{
				Title:       src.Title,
				Description: src.Description,
				Price:       src.Price,
				Discount:    current.Discount,
			}); err != nil {
				return stats, fmt.Errorf("failed to update dish %s: %w", src.ID, err)
			}
			stats.Updated++
		}
	}

	for id := range liveByID {
		if err := e.api.DeleteDish(ctx, menuID, submenuID, id); err != nil {
			return stats, fmt.Errorf("failed to delete dish %s: %w", id, err)
		}
		stats.Deleted++
	}

	return stats, nil
}

func (e *Engine) createMenuTree(ctx context.Context, src SourceMenu) (Stats, error) {
	var stats Stats
	if _, err := e.api.CreateMenu(ctx, models.MenuPayload{
		ID:          src.ID,
		Title:       src.Title,
		Description: src.Description,
	}); err != nil {
		return stats, fmt.Errorf("failed to create menu %s: %w", src.ID, err)
	}
	stats.Created++

	for _, submenu := range src.Submenus {
		created, err := e.createSubmenuTree(ctx, src.ID, submenu)
		stats.add(created)
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (e *Engine) createSubmenuTree(ctx context.Context, menuID string, src SourceSubmenu) (Stats, error) {
	var stats Stats
	if _, err := e.api.CreateSubmenu(ctx, menuID, models.SubmenuPayload{
		ID:          src.ID,
		Title:       src.Title,
		Description: src.Description,
	}); err != nil {
		return stats, fmt.Errorf("failed to create submenu %s: %w", src.ID, err)
	}
	stats.Created++

	for _, dish := range src.Dishes {
		if _, err := e.api.CreateDish(ctx, menuID, src.ID, models.DishPayload{
			ID:          dish.ID,
			Title:       dish.Title,
			Description: dish.Description,
			Price:       dish.Price,
		}); err != nil {
			return stats, fmt.Errorf("failed to create dish %s: %w", dish.ID, err)
		}
		stats.Created++
	}
	return stats, nil
}

// dishDrifted reports whether the live dish differs from its source row.
// The live price is the discounted display price, so the source price is
// run through the same discount before comparison to keep passes idempotent.
func dishDrifted(src SourceDish, live models.DishView) bool {
	if live.Title != src.Title || live.Description != src.Description {
		return true
	}
	price, err := models.ParsePrice(src.Price)
	if err != nil {
		// Unparseable source price: let the update path surface the error.
		return true
	}
	return models.DisplayPrice(price, live.Discount) != live.Price
}
