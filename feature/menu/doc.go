// Package menu implements the three-level menu hierarchy API:
// menus, their submenus, and the dishes beneath them.
//
// The package is layered the same way for every entity level:
//
//   - Repository is the persistence gateway (GORM). It owns CRUD, parent
//     existence checks, uniqueness checks and the derived counter queries.
//   - Service is the cache coordinator. Reads check the cache store before
//     falling through to the repository; every mutation evicts the cache
//     keys whose payloads could embed the changed data before returning,
//     which is what keeps derived counters and list views coherent.
//   - Handler maps Fiber routes onto the service and translates the domain
//     error taxonomy to HTTP statuses.
//
// Cache keys mirror the resource paths of the HTTP API, so the whole cached
// subtree of a menu can be evicted with a single prefix deletion when a
// cascade delete or a counter-moving write happens beneath it.
package menu
