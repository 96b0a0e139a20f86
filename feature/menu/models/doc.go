// Package models defines the menu hierarchy entities, their read/write
// shapes, and the domain error taxonomy.
//
// The hierarchy is a strict tree: Menu owns Submenus, Submenu owns Dishes.
// Counters on the read shapes (submenus_count, dishes_count) are always
// derived from live child rows, never stored.
package models
