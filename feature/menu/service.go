package menu

import (
	"context"
	"encoding/json"
	"errors"

	"menu-manager/core/cache"
	"menu-manager/feature/menu/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Gateway is the persistence boundary the service coordinates with.
// *Repository satisfies it; tests substitute a fake.
type Gateway interface {
	ListMenus(ctx context.Context) ([]models.MenuView, error)
	GetMenu(ctx context.Context, menuID string) (*models.MenuView, error)
	CreateMenu(ctx context.Context, payload models.MenuPayload) (*models.MenuView, error)
	UpdateMenu(ctx context.Context, menuID string, payload models.MenuPayload) (*models.MenuView, error)
	DeleteMenu(ctx context.Context, menuID string) error

	ListSubmenus(ctx context.Context, menuID string) ([]models.SubmenuView, error)
	GetSubmenu(ctx context.Context, menuID, submenuID string) (*models.SubmenuView, error)
	CreateSubmenu(ctx context.Context, menuID string, payload models.SubmenuPayload) (*models.SubmenuView, error)
	UpdateSubmenu(ctx context.Context, menuID, submenuID string, payload models.SubmenuPayload) (*models.SubmenuView, error)
	DeleteSubmenu(ctx context.Context, menuID, submenuID string) error

	ListDishes(ctx context.Context, menuID, submenuID string) ([]models.DishView, error)
	GetDish(ctx context.Context, menuID, submenuID, dishID string) (*models.DishView, error)
	CreateDish(ctx context.Context, menuID, submenuID string, payload models.DishPayload) (*models.DishView, error)
	UpdateDish(ctx context.Context, menuID, submenuID, dishID string, payload models.DishPayload) (*models.DishView, error)
	DeleteDish(ctx context.Context, menuID, submenuID, dishID string) error

	FullTree(ctx context.Context) ([]models.MenuNode, error)
}

// Service is the cache coordinator: reads go through the cache and fall back
// to the gateway; every mutation evicts the cache keys whose payloads could
// embed data the write changed, before the call returns.
//
// Cache operations are best effort. A cache failure never fails the mutation
// of record; the store's TTL bounds how long a missed invalidation can serve
// stale data.
type Service struct {
	repo   Gateway
	store  cache.Store
	logger *zap.Logger
	group  singleflight.Group
}

// NewService creates a new menu service.
func NewService(repo Gateway, store cache.Store, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// ListMenus returns all menus with derived counters.
func (s *Service) ListMenus(ctx context.Context) ([]models.MenuView, error) {
	return readThrough(ctx, s, keyAllMenus, s.repo.ListMenus)
}

// GetMenu returns a single menu.
func (s *Service) GetMenu(ctx context.Context, menuID string) (*models.MenuView, error) {
	return readThrough(ctx, s, menuKey(menuID), func(ctx context.Context) (*models.MenuView, error) {
		return s.repo.GetMenu(ctx, menuID)
	})
}

// CreateMenu creates a menu and evicts the list caches its counters appear in.
func (s *Service) CreateMenu(ctx context.Context, payload models.MenuPayload) (*models.MenuView, error) {
	item, err := s.repo.CreateMenu(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyAllMenus, keyFullTree)
	s.populate(ctx, menuKey(item.ID), item)
	return item, nil
}

// UpdateMenu updates a menu in place.
func (s *Service) UpdateMenu(ctx context.Context, menuID string, payload models.MenuPayload) (*models.MenuView, error) {
	item, err := s.repo.UpdateMenu(ctx, menuID, payload)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyAllMenus, keyFullTree)
	s.populate(ctx, menuKey(menuID), item)
	return item, nil
}

// DeleteMenu deletes a menu and evicts everything cached beneath its path.
func (s *Service) DeleteMenu(ctx context.Context, menuID string) error {
	if err := s.repo.DeleteMenu(ctx, menuID); err != nil {
		return err
	}
	s.invalidatePrefix(ctx, menuKey(menuID))
	s.invalidate(ctx, keyAllMenus, keyFullTree)
	return nil
}

// ListSubmenus returns the submenus of a menu.
func (s *Service) ListSubmenus(ctx context.Context, menuID string) ([]models.SubmenuView, error) {
	return readThrough(ctx, s, submenusKey(menuID), func(ctx context.Context) ([]models.SubmenuView, error) {
		return s.repo.ListSubmenus(ctx, menuID)
	})
}

// GetSubmenu returns a single submenu.
func (s *Service) GetSubmenu(ctx context.Context, menuID, submenuID string) (*models.SubmenuView, error) {
	return readThrough(ctx, s, submenuKey(menuID, submenuID), func(ctx context.Context) (*models.SubmenuView, error) {
		return s.repo.GetSubmenu(ctx, menuID, submenuID)
	})
}

// CreateSubmenu creates a submenu. The parent menu's cached representations
// embed submenu and dish counters, so they are evicted along with the lists.
func (s *Service) CreateSubmenu(ctx context.Context, menuID string, payload models.SubmenuPayload) (*models.SubmenuView, error) {
	item, err := s.repo.CreateSubmenu(ctx, menuID, payload)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, menuKey(menuID), submenusKey(menuID), keyAllMenus, keyFullTree)
	s.populate(ctx, submenuKey(menuID, item.ID), item)
	return item, nil
}

// UpdateSubmenu updates a submenu in place. Counters are unchanged, so only
// the list views and the tree need eviction.
func (s *Service) UpdateSubmenu(ctx context.Context, menuID, submenuID string, payload models.SubmenuPayload) (*models.SubmenuView, error) {
	item, err := s.repo.UpdateSubmenu(ctx, menuID, submenuID, payload)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, submenusKey(menuID), keyFullTree)
	s.populate(ctx, submenuKey(menuID, submenuID), item)
	return item, nil
}

// DeleteSubmenu deletes a submenu and evicts everything cached beneath its
// path plus the ancestor representations whose counters changed.
func (s *Service) DeleteSubmenu(ctx context.Context, menuID, submenuID string) error {
	if err := s.repo.DeleteSubmenu(ctx, menuID, submenuID); err != nil {
		return err
	}
	s.invalidatePrefix(ctx, submenuKey(menuID, submenuID))
	s.invalidate(ctx, menuKey(menuID), submenusKey(menuID), keyAllMenus, keyFullTree)
	return nil
}

// ListDishes returns the dishes of a submenu.
func (s *Service) ListDishes(ctx context.Context, menuID, submenuID string) ([]models.DishView, error) {
	return readThrough(ctx, s, dishesKey(menuID, submenuID), func(ctx context.Context) ([]models.DishView, error) {
		return s.repo.ListDishes(ctx, menuID, submenuID)
	})
}

// GetDish returns a single dish.
func (s *Service) GetDish(ctx context.Context, menuID, submenuID, dishID string) (*models.DishView, error) {
	return readThrough(ctx, s, dishKey(menuID, submenuID, dishID), func(ctx context.Context) (*models.DishView, error) {
		return s.repo.GetDish(ctx, menuID, submenuID, dishID)
	})
}

// CreateDish creates a dish. A dish changes the counters of both its submenu
// and its menu, so every ancestor representation that embeds a counter is
// evicted.
func (s *Service) CreateDish(ctx context.Context, menuID, submenuID string, payload models.DishPayload) (*models.DishView, error) {
	item, err := s.repo.CreateDish(ctx, menuID, submenuID, payload)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx,
		dishesKey(menuID, submenuID),
		submenuKey(menuID, submenuID),
		submenusKey(menuID),
		menuKey(menuID),
		keyAllMenus,
		keyFullTree,
	)
	s.populate(ctx, dishKey(menuID, submenuID, item.ID), item)
	return item, nil
}

// UpdateDish updates a dish in place. Counters are unchanged.
func (s *Service) UpdateDish(ctx context.Context, menuID, submenuID, dishID string, payload models.DishPayload) (*models.DishView, error) {
	item, err := s.repo.UpdateDish(ctx, menuID, submenuID, dishID, payload)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, dishesKey(menuID, submenuID), keyFullTree)
	s.populate(ctx, dishKey(menuID, submenuID, dishID), item)
	return item, nil
}

// DeleteDish deletes a dish. The deletion moves counters on both ancestors,
// so the whole cached subtree under the owning menu is evicted rather than
// chasing individual keys.
func (s *Service) DeleteDish(ctx context.Context, menuID, submenuID, dishID string) error {
	if err := s.repo.DeleteDish(ctx, menuID, submenuID, dishID); err != nil {
		return err
	}
	s.invalidatePrefix(ctx, menuKey(menuID))
	s.invalidate(ctx, keyAllMenus, keyFullTree)
	return nil
}

// FullTree returns every menu with submenus and dishes expanded.
func (s *Service) FullTree(ctx context.Context) ([]models.MenuNode, error) {
	return readThrough(ctx, s, keyFullTree, s.repo.FullTree)
}

// readThrough serves a read from cache, falling back to the gateway and
// repopulating on a miss. Concurrent misses on the same key are collapsed
// into a single gateway call.
func readThrough[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := s.store.Get(ctx, key)
	if err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Undecodable entry: drop it and fall through to the gateway.
		s.dropKey(ctx, key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		item, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.populate(ctx, key, item)
		return item, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// populate stores a freshly loaded value under key, best effort.
func (s *Service) populate(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate deletes the given keys, best effort.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.store.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// invalidatePrefix deletes every key under prefix, best effort.
func (s *Service) invalidatePrefix(ctx context.Context, prefix string) {
	if err := s.store.DeleteByPrefix(ctx, prefix); err != nil {
		s.logger.Warn("cache prefix invalidation failed", zap.String("prefix", prefix), zap.Error(err))
	}
}

func (s *Service) dropKey(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
