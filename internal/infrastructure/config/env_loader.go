package config

import (
	"context"
	"os"

	configdomain "mojoscan.dev/cli/internal/core/domain/config"
	configports "mojoscan.dev/cli/internal/core/ports/config"
)

// EnvLoader reads MOJOSCAN_* environment variables.
type EnvLoader struct {
	lookup func(string) (string, bool)
}

func NewEnvLoader() *EnvLoader { return &EnvLoader{lookup: os.LookupEnv} }

// NewEnvLoaderWith reads variables through lookup instead of the process environment.
func NewEnvLoaderWith(lookup func(string) (string, bool)) *EnvLoader {
	return &EnvLoader{lookup: lookup}
}

func (l *EnvLoader) Name() string { return "env" }

// Load implements Loader by returning the environment snapshot.
func (l *EnvLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	for _, name := range EnvNames() {
		raw, ok := l.lookup(name)
		if !ok || raw == "" {
			continue
		}
		e, _, err := fromEnv(name, raw, "env", name, configdomain.PriorityEnv)
		if err != nil {
			return nil, err
		}
		snap[e.Key] = e
	}
	return snap, nil
}

var _ configports.Loader = (*EnvLoader)(nil)
