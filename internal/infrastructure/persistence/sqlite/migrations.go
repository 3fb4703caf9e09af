package sqlite

import "embed"

// MigrationsDir is the directory of Migrations holding the schema files
const MigrationsDir = "migrations"

// Migrations holds the numbered schema files applied at startup
//
//go:embed migrations/*.sql
var Migrations embed.FS
