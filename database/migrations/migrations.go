// Package migrations contains the database migration files. Each file
// registers itself via init(); the package is imported by cmd/vastra so
// every migration is known at CLI startup.
package migrations
