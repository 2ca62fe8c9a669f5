// Package migrations contains the database migration files. Each migration
// registers itself from init(), so importing this package (the CLI does)
// fills the registry.
package migrations
