// Package assets bundles files shipped inside the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var migrations embed.FS

// Migrations returns the SQL migration scripts, rooted so that files sit at
// the top level (e.g. "001_init.sql").
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		// the embed pattern guarantees the directory exists
		panic(err)
	}
	return sub
}
