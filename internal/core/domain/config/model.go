package configdomain

import (
	"fmt"
	"sort"

	"mojoscan.dev/cli/internal/core/domain"
)

// Source priorities; a lower number wins.
const (
	PriorityFlag    = 1
	PriorityEnv     = 2
	PriorityDotEnv  = 3
	PriorityFile    = 4
	PriorityDefault = 5
)

// Configuration keys.
const (
	KeyLogLevel                    = "log_level"
	KeyLogJSON                     = "log_json"
	KeyDebug                       = "debug"
	KeyExtractors                  = "extractors"
	KeyIncludes                    = "includes"
	KeyExcludes                    = "excludes"
	KeyGoalPrefix                  = "goal_prefix"
	KeyEncoding                    = "encoding"
	KeySkipDescriptor              = "skip_descriptor"
	KeySkipErrorNoDescriptorsFound = "skip_error_no_descriptors_found"
	KeyRequiredMavenVersion        = "required_maven_version"
	KeyRequiredJavaVersion         = "required_java_version"
	KeyOutputDirectory             = "output_directory"
	KeyProject                     = "project"
)

// Entry represents a single configuration value with provenance and priority.
type Entry struct {
	Key        string
	Value      interface{}
	Source     string
	SourcePath string
	Priority   int
}

// Snapshot is a collection of config entries keyed by field name.
type Snapshot map[string]Entry

// Merge merges another snapshot into this one respecting priority
// (lower number indicates higher priority).
func (s Snapshot) Merge(other Snapshot) {
	for k, e := range other {
		if existing, ok := s[k]; !ok || e.Priority <= existing.Priority {
			s[k] = e
		}
	}
}

// Keys returns the snapshot keys in sorted order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Config is the resolved generator configuration.
type Config struct {
	LogLevel string
	LogJSON  bool
	Debug    bool

	// Extractors lists the active extractor ids; empty means all
	Extractors []string

	IncludePatterns []string
	ExcludePatterns []string

	GoalPrefix string
	Encoding   string

	SkipDescriptor              bool
	SkipErrorNoDescriptorsFound bool

	RequiredMavenVersion string
	RequiredJavaVersion  string

	// OutputDirectory receives META-INF/maven; defaults to the class output directory
	OutputDirectory string

	// Project describes the plugin project; only config files set it
	Project Project
}

// Project is the plugin project section of a config file.
type Project struct {
	domain.Artifact `yaml:",inline"`

	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`

	BaseDir          string   `yaml:"baseDir,omitempty"`
	Classes          string   `yaml:"classes,omitempty"`
	ClassDirectories []string `yaml:"classDirectories,omitempty"`
	SourceRoots      []string `yaml:"sourceRoots,omitempty"`
	ScriptRoots      []string `yaml:"scriptRoots,omitempty"`

	Dependencies []domain.Artifact `yaml:"dependencies,omitempty"`
}

// DefaultConfig returns the configuration used when no source sets a value.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Encoding: "UTF-8",
	}
}

// DefaultSnapshot describes DefaultConfig as snapshot entries.
func DefaultSnapshot() Snapshot {
	d := DefaultConfig()
	snap := make(Snapshot)
	for k, v := range map[string]interface{}{
		KeyLogLevel: d.LogLevel,
		KeyEncoding: d.Encoding,
	} {
		snap[k] = Entry{Key: k, Value: v, Source: "default", Priority: PriorityDefault}
	}
	return snap
}

// Apply copies the snapshot values onto c.
func (c *Config) Apply(snap Snapshot) error {
	for _, key := range snap.Keys() {
		e := snap[key]
		var err error
		switch key {
		case KeyLogLevel:
			err = assign(&c.LogLevel, e)
		case KeyLogJSON:
			err = assign(&c.LogJSON, e)
		case KeyDebug:
			err = assign(&c.Debug, e)
		case KeyExtractors:
			err = assign(&c.Extractors, e)
		case KeyIncludes:
			err = assign(&c.IncludePatterns, e)
		case KeyExcludes:
			err = assign(&c.ExcludePatterns, e)
		case KeyGoalPrefix:
			err = assign(&c.GoalPrefix, e)
		case KeyEncoding:
			err = assign(&c.Encoding, e)
		case KeySkipDescriptor:
			err = assign(&c.SkipDescriptor, e)
		case KeySkipErrorNoDescriptorsFound:
			err = assign(&c.SkipErrorNoDescriptorsFound, e)
		case KeyRequiredMavenVersion:
			err = assign(&c.RequiredMavenVersion, e)
		case KeyRequiredJavaVersion:
			err = assign(&c.RequiredJavaVersion, e)
		case KeyOutputDirectory:
			err = assign(&c.OutputDirectory, e)
		case KeyProject:
			err = assign(&c.Project, e)
		default:
			err = fmt.Errorf("unknown configuration key %q (from %s)", key, e.Source)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func assign[T any](dst *T, e Entry) error {
	v, ok := e.Value.(T)
	if !ok {
		return fmt.Errorf("invalid value for %s from %s: got %T, want %T", e.Key, e.Source, e.Value, *dst)
	}
	*dst = v
	return nil
}
