// Package migrations embeds the schema for each sqlstore dialect.
package migrations

import "embed"

// FS holds one directory of migrations per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
