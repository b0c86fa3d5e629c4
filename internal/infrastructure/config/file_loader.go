package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"

	configdomain "mojoscan.dev/cli/internal/core/domain/config"
	configports "mojoscan.dev/cli/internal/core/ports/config"
)

// fileConfig is the layout of a mojoscan.yaml file. Unset fields leave the
// key to lower priority sources.
type fileConfig struct {
	LogLevel                    *string               `yaml:"logLevel"`
	LogJSON                     *bool                 `yaml:"logJson"`
	Debug                       *bool                 `yaml:"debug"`
	Extractors                  []string              `yaml:"extractors"`
	Includes                    []string              `yaml:"includes"`
	Excludes                    []string              `yaml:"excludes"`
	GoalPrefix                  *string               `yaml:"goalPrefix"`
	Encoding                    *string               `yaml:"encoding"`
	SkipDescriptor              *bool                 `yaml:"skipDescriptor"`
	SkipErrorNoDescriptorsFound *bool                 `yaml:"skipErrorNoDescriptorsFound"`
	RequiredMavenVersion        *string               `yaml:"requiredMavenVersion"`
	RequiredJavaVersion         *string               `yaml:"requiredJavaVersion"`
	OutputDirectory             *string               `yaml:"outputDirectory"`
	Project                     *configdomain.Project `yaml:"project"`
}

// FileLoader reads a YAML configuration file. With an explicit path the file
// must exist; otherwise the first existing candidate is used.
type FileLoader struct {
	fs         billy.Filesystem
	explicit   string
	candidates []string
}

// NewFileLoader creates a loader for path, or for the first of candidates
// found when path is empty.
func NewFileLoader(fs billy.Filesystem, path string, candidates ...string) *FileLoader {
	return &FileLoader{fs: fs, explicit: path, candidates: candidates}
}

func (l *FileLoader) Name() string { return "file" }

func (l *FileLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	p, err := l.locate()
	if err != nil || p == "" {
		return configdomain.Snapshot{}, err
	}

	f, err := l.fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", p, err)
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", p, err)
	}
	return fc.snapshot(p), nil
}

// Path returns the file Load reads, or "" when there is none.
func (l *FileLoader) Path() string {
	p, _ := l.locate()
	return p
}

func (l *FileLoader) locate() (string, error) {
	if l.explicit != "" {
		if _, err := l.fs.Stat(l.explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", l.explicit, err)
		}
		return l.explicit, nil
	}
	for _, c := range l.candidates {
		if _, err := l.fs.Stat(c); err == nil {
			return c, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config file %s: %w", c, err)
		}
	}
	return "", nil
}

func (fc *fileConfig) snapshot(p string) configdomain.Snapshot {
	snap := make(configdomain.Snapshot)
	put := func(key string, v interface{}) {
		snap[key] = configdomain.Entry{Key: key, Value: v, Source: "file", SourcePath: p, Priority: configdomain.PriorityFile}
	}
	if fc.LogLevel != nil {
		put(configdomain.KeyLogLevel, *fc.LogLevel)
	}
	if fc.LogJSON != nil {
		put(configdomain.KeyLogJSON, *fc.LogJSON)
	}
	if fc.Debug != nil {
		put(configdomain.KeyDebug, *fc.Debug)
	}
	if fc.Extractors != nil {
		put(configdomain.KeyExtractors, fc.Extractors)
	}
	if fc.Includes != nil {
		put(configdomain.KeyIncludes, fc.Includes)
	}
	if fc.Excludes != nil {
		put(configdomain.KeyExcludes, fc.Excludes)
	}
	if fc.GoalPrefix != nil {
		put(configdomain.KeyGoalPrefix, *fc.GoalPrefix)
	}
	if fc.Encoding != nil {
		put(configdomain.KeyEncoding, *fc.Encoding)
	}
	if fc.SkipDescriptor != nil {
		put(configdomain.KeySkipDescriptor, *fc.SkipDescriptor)
	}
	if fc.SkipErrorNoDescriptorsFound != nil {
		put(configdomain.KeySkipErrorNoDescriptorsFound, *fc.SkipErrorNoDescriptorsFound)
	}
	if fc.RequiredMavenVersion != nil {
		put(configdomain.KeyRequiredMavenVersion, *fc.RequiredMavenVersion)
	}
	if fc.RequiredJavaVersion != nil {
		put(configdomain.KeyRequiredJavaVersion, *fc.RequiredJavaVersion)
	}
	if fc.OutputDirectory != nil {
		put(configdomain.KeyOutputDirectory, *fc.OutputDirectory)
	}
	if fc.Project != nil {
		put(configdomain.KeyProject, *fc.Project)
	}
	return snap
}

var _ configports.Loader = (*FileLoader)(nil)
