package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/joho/godotenv"

	configdomain "mojoscan.dev/cli/internal/core/domain/config"
	configports "mojoscan.dev/cli/internal/core/ports/config"
)

// DotEnvLoader reads MOJOSCAN_* assignments from .env files. A value from an
// earlier path wins over the same key in a later one.
type DotEnvLoader struct {
	fs    billy.Filesystem
	paths []string
}

// NewDotEnvLoader creates a loader for the given .env files; missing files are skipped.
func NewDotEnvLoader(fs billy.Filesystem, paths ...string) *DotEnvLoader {
	return &DotEnvLoader{fs: fs, paths: paths}
}

func (l *DotEnvLoader) Name() string { return "dotenv" }

func (l *DotEnvLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	for _, p := range l.paths {
		values, err := l.read(p)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			e, ok, err := fromEnv(name, values[name], "file", fmt.Sprintf("%s:%s", p, name), configdomain.PriorityDotEnv)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			if _, seen := snap[e.Key]; ok && !seen {
				snap[e.Key] = e
			}
		}
	}
	return snap, nil
}

func (l *DotEnvLoader) read(p string) (map[string]string, error) {
	f, err := l.fs.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	return values, nil
}

var _ configports.Loader = (*DotEnvLoader)(nil)
