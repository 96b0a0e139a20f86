// Package config provides configuration management for the Menu Manager.
//
// It utilizes Viper for loading configuration from environment variables
// and a local .env file, with defaults declared on the config structs.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port)
//   - Database: MySQL connection details
//   - Cache: Redis address and entry TTL
//   - Storage: S3/MinIO credentials and bucket settings (menu spreadsheet source)
//   - Sync: reconciliation job schedule and source location
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
