// Package database handles database connections and schema migration.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection to the database with encoded
// credentials, pool limits and connection/I/O timeouts baked into the DSN.
//
// # Migrate
//
// Migrate runs GORM AutoMigrate for the entity models. The menu hierarchy
// relies on ON DELETE CASCADE constraints created here, so cascading removal
// of submenus and dishes happens inside the database.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	err = database.Migrate(db, &models.Menu{}, &models.Submenu{}, &models.Dish{})
package database
