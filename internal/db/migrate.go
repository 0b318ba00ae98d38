package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ApplyMigrations executes the embedded SQL files in lexical order. Files are
// plain DDL with IF NOT EXISTS guards, so re-running on startup is safe.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	files, err := listMigrations(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, path := range files {
		content, readErr := fs.ReadFile(migrationFiles, path)
		if readErr != nil {
			return readErr
		}
		for _, stmt := range strings.Split(string(content), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, execErr := pool.Exec(ctx, stmt); execErr != nil {
				return fmt.Errorf("exec %s: %w", path, execErr)
			}
		}
	}
	return nil
}

func listMigrations(fsys fs.FS, root string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
