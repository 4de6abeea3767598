// Package migrations embeds the versioned SQL schema. Each supported driver
// has its own directory of NNNNNN_name.up.sql / .down.sql pairs with the same
// version numbers.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var files embed.FS

// Drivers lists the directories shipped in this package.
var Drivers = []string{"postgres", "mysql", "sqlite"}

// FS returns the migration files of driver rooted at its directory.
func FS(driver string) (fs.FS, error) {
	for _, d := range Drivers {
		if d == driver {
			return fs.Sub(files, driver)
		}
	}
	return nil, fmt.Errorf("no migrations for driver %q", driver)
}

// UpSQL concatenates every up migration of driver in version order. Tests use
// it to build a schema without going through golang-migrate.
func UpSQL(driver string) (string, error) {
	fsys, err := FS(driver)
	if err != nil {
		return "", err
	}
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return "", err
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		b.Write(raw)
		b.WriteString("\n")
	}
	return b.String(), nil
}
