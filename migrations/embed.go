// Package migrations holds the SQL schema of every supported store.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
