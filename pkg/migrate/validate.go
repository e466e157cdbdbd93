package migrate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateDir checks migration filenames, version uniqueness and that every file
// has Up and Down sections with balanced statement blocks. An empty dir is valid.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	files, err := listMigrations(dir)
	if err != nil {
		return err
	}

	seen := make(map[int64]string, len(files))
	for _, f := range files {
		if prev, ok := seen[f.Version]; ok {
			return fmt.Errorf("duplicate migration version %d in %q and %q", f.Version, prev, f.Name)
		}
		seen[f.Version] = f.Name
		if err := checkAnnotations(filepath.Join(dir, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

func checkAnnotations(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read file %q: %w", path, err)
	}
	defer file.Close()

	var up, down bool
	open := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "-- +goose Up":
			up = true
		case "-- +goose Down":
			down = true
		case "-- +goose StatementBegin":
			open++
		case "-- +goose StatementEnd":
			open--
		}
		if open < 0 || open > 1 {
			return fmt.Errorf("migration %q has unbalanced StatementBegin/StatementEnd", filepath.Base(path))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %q: %w", path, err)
	}

	name := filepath.Base(path)
	switch {
	case !up:
		return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
	case !down:
		return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
	case open != 0:
		return fmt.Errorf("migration %q has an unterminated StatementBegin", name)
	}
	return nil
}
