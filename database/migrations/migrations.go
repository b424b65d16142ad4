// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register(), so
// importing this package from the CLI registers everything.
package migrations
