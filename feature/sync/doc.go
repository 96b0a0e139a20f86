// Package sync reconciles the live menu hierarchy against an external
// spreadsheet source of truth.
//
// A pass parses the workbook into a nested {menu -> submenus -> dishes}
// tree, diffs each level against the live data (read through the same API
// surface HTTP clients use), and issues create/update/delete operations to
// converge them. Traversal is strictly top-down, so parents exist before
// their children are created; deletions rely on cascade to remove
// descendants.
//
// The engine runs as a supervised loop: one pass at a time, fixed-delay
// retry on failure, never terminating on error. Because its mutations go
// through the cache coordinator, a reconciliation pass keeps the cache
// coherent the same way interactive traffic does.
package sync
