package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	configdomain "mojoscan.dev/cli/internal/core/domain/config"
	configports "mojoscan.dev/cli/internal/core/ports/config"
)

// StaticLoader returns a fixed snapshot; command-line flags use it.
type StaticLoader struct {
	name string
	snap configdomain.Snapshot
}

// NewFlagLoader creates a loader for values set on the command line.
func NewFlagLoader(values map[string]interface{}) *StaticLoader {
	snap := make(configdomain.Snapshot, len(values))
	for k, v := range values {
		snap[k] = configdomain.Entry{Key: k, Value: v, Source: "flag", SourcePath: "--" + k, Priority: configdomain.PriorityFlag}
	}
	return &StaticLoader{name: "flags", snap: snap}
}

func (l *StaticLoader) Name() string { return l.name }

func (l *StaticLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	return l.snap, nil
}

// Repository merges every loader over the defaults, validates the result
// and resolves it into a Config.
type Repository struct {
	loaders   []configports.Loader
	validator configports.Validator
}

// NewRepository creates a repository; validator may be nil.
func NewRepository(validator configports.Validator, loaders ...configports.Loader) *Repository {
	return &Repository{loaders: loaders, validator: validator}
}

// Load resolves the configuration and returns the merged snapshot with it,
// so callers can report where each value came from.
func (r *Repository) Load(ctx context.Context) (*configdomain.Config, configdomain.Snapshot, error) {
	snap := configdomain.DefaultSnapshot()
	for _, l := range r.loaders {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		s, err := l.Load(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load %s configuration: %w", l.Name(), err)
		}
		snap.Merge(s)
	}

	if r.validator != nil {
		if err := r.validator.Validate(snap); err != nil {
			return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	cfg := configdomain.DefaultConfig()
	if err := cfg.Apply(snap); err != nil {
		return nil, nil, err
	}
	return cfg, snap, nil
}

// Locations lists where configuration files are looked for.
type Locations struct {
	WorkDir string
	HomeDir string

	// ConfigFile is an explicit --config path
	ConfigFile string
}

// DefaultLoaders returns the standard loader chain: flags, environment,
// .env files and the YAML config file. A nil lookupEnv reads the process
// environment.
func DefaultLoaders(fs billy.Filesystem, loc Locations, lookupEnv func(string) (string, bool), flags map[string]interface{}) []configports.Loader {
	env := NewEnvLoader()
	if lookupEnv != nil {
		env = NewEnvLoaderWith(lookupEnv)
	}

	var dotenv, yamlFiles []string
	if loc.WorkDir != "" {
		dotenv = append(dotenv, filepath.Join(loc.WorkDir, ".env"))
		yamlFiles = append(yamlFiles,
			filepath.Join(loc.WorkDir, "mojoscan.yaml"),
			filepath.Join(loc.WorkDir, ".mojoscan.yaml"))
	}
	if loc.HomeDir != "" {
		dotenv = append(dotenv, filepath.Join(loc.HomeDir, ".config", "mojoscan", ".env"))
		yamlFiles = append(yamlFiles, filepath.Join(loc.HomeDir, ".config", "mojoscan", "config.yaml"))
	}
	return []configports.Loader{
		NewFlagLoader(flags),
		env,
		NewDotEnvLoader(fs, dotenv...),
		NewFileLoader(fs, loc.ConfigFile, yamlFiles...),
	}
}
