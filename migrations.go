package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Version is a Flyway migration version: dot-separated numeric components
// compared component-by-component as integers, so V2.1 sorts between V2 and
// V3 and V10 sorts after V9.
type Version []int

// Compare returns -1, 0 or 1. A shorter version sorts before a longer prefix
// match, so V2 < V2.1.
func (v Version) Compare(o Version) int {
	for i := 0; i < len(v) && i < len(o); i++ {
		if v[i] != o[i] {
			if v[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(v) < len(o):
		return -1
	case len(v) > len(o):
		return 1
	}
	return 0
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Migration is a single versioned migration file.
type Migration struct {
	Version     Version
	Description string
	Path        string
}

// Flyway versioned migrations: V<version>__<description>.sql, where the
// version separates numeric components with dots or underscores.
var versionPattern = regexp.MustCompile(`^[Vv]([0-9]+(?:[._][0-9]+)*)__(.+)\.sql$`)

// ParseMigrationName extracts the version and description from a Flyway
// filename. Repeatable (R__), undo (U...) and otherwise non-versioned files
// report ok=false.
func ParseMigrationName(filename string) (Version, string, bool) {
	m := versionPattern.FindStringSubmatch(filename)
	if m == nil {
		return nil, "", false
	}
	raw := strings.ReplaceAll(m[1], "_", ".")
	parts := strings.Split(raw, ".")
	version := make(Version, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, "", false
		}
		version[i] = n
	}
	return version, m[2], true
}

// DiscoverMigrations walks the directory for versioned Flyway SQL files and
// returns them sorted by version. Duplicate versions are rejected.
func DiscoverMigrations(migrationDir string) ([]Migration, error) {
	slog.Debug("scanning migration directory", "directory", migrationDir)
	var migrations []Migration

	err := filepath.WalkDir(migrationDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		version, description, ok := ParseMigrationName(d.Name())
		if !ok {
			if strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
				slog.Info("skipping non-versioned file", "file", d.Name())
			}
			return nil
		}
		slog.Debug("found versioned migration", "file", d.Name(), "version", version.String())
		migrations = append(migrations, Migration{
			Version:     version,
			Description: description,
			Path:        path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk migration directory: %w", err)
	}

	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version.Compare(migrations[j].Version) < 0
	})

	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version.Compare(migrations[i-1].Version) == 0 {
			return nil, fmt.Errorf("duplicate migration version %s: %s and %s",
				migrations[i].Version, filepath.Base(migrations[i-1].Path), filepath.Base(migrations[i].Path))
		}
	}

	slog.Info("discovered migrations", "count", len(migrations))
	return migrations, nil
}
