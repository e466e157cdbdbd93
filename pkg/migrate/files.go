package migrate

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const versionLayout = "20060102150405"

var (
	sqlFileRe      = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)
)

// migrationFile is one goose SQL file named <YYYYMMDDHHMMSS>_<slug>.sql.
type migrationFile struct {
	Name    string
	Version int64
	Slug    string
}

func parseMigrationName(name string) (migrationFile, error) {
	m := sqlFileRe.FindStringSubmatch(name)
	if m == nil {
		return migrationFile{}, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
	}
	version, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return migrationFile{}, fmt.Errorf("migration %q version: %w", name, err)
	}
	return migrationFile{Name: name, Version: version, Slug: m[2]}, nil
}

// listMigrations returns the .sql files of dir in directory order. Other files are ignored.
func listMigrations(dir string) ([]migrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}
	var files []migrationFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		f, err := parseMigrationName(e.Name())
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func slugify(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}
