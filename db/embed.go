// Package db carries the SQL migrations. They are embedded so a
// production binary can migrate its own schema without the source tree.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
