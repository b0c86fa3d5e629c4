package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	configdomain "mojoscan.dev/cli/internal/core/domain/config"
)

// EnvPrefix starts every environment variable the loaders read.
const EnvPrefix = "MOJOSCAN_"

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindList
)

// setting maps an environment variable suffix to a configuration key.
type setting struct {
	key  string
	kind valueKind
}

var envSettings = map[string]setting{
	"LOG_LEVEL":                       {configdomain.KeyLogLevel, kindString},
	"LOG_JSON":                        {configdomain.KeyLogJSON, kindBool},
	"DEBUG":                           {configdomain.KeyDebug, kindBool},
	"EXTRACTORS":                      {configdomain.KeyExtractors, kindList},
	"INCLUDES":                        {configdomain.KeyIncludes, kindList},
	"EXCLUDES":                        {configdomain.KeyExcludes, kindList},
	"GOAL_PREFIX":                     {configdomain.KeyGoalPrefix, kindString},
	"ENCODING":                        {configdomain.KeyEncoding, kindString},
	"SKIP_DESCRIPTOR":                 {configdomain.KeySkipDescriptor, kindBool},
	"SKIP_ERROR_NO_DESCRIPTORS_FOUND": {configdomain.KeySkipErrorNoDescriptorsFound, kindBool},
	"REQUIRED_MAVEN_VERSION":          {configdomain.KeyRequiredMavenVersion, kindString},
	"REQUIRED_JAVA_VERSION":           {configdomain.KeyRequiredJavaVersion, kindString},
	"OUTPUT_DIRECTORY":                {configdomain.KeyOutputDirectory, kindString},
}

// EnvNames returns every recognised environment variable name, sorted.
func EnvNames() []string {
	names := make([]string, 0, len(envSettings))
	for suffix := range envSettings {
		names = append(names, EnvPrefix+suffix)
	}
	sort.Strings(names)
	return names
}

// fromEnv converts the raw value of the environment variable name into a
// snapshot entry. ok is false for names outside the MOJOSCAN_ set.
func fromEnv(name, raw, source, sourcePath string, priority int) (configdomain.Entry, bool, error) {
	s, ok := envSettings[strings.TrimPrefix(strings.ToUpper(name), EnvPrefix)]
	if !ok || !strings.HasPrefix(strings.ToUpper(name), EnvPrefix) {
		return configdomain.Entry{}, false, nil
	}
	v, err := convert(s.kind, raw)
	if err != nil {
		return configdomain.Entry{}, true, fmt.Errorf("invalid %s: %w", name, err)
	}
	return configdomain.Entry{Key: s.key, Value: v, Source: source, SourcePath: sourcePath, Priority: priority}, true, nil
}

func convert(kind valueKind, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case kindBool:
		return strconv.ParseBool(raw)
	case kindList:
		return splitList(raw), nil
	default:
		return raw, nil
	}
}

// splitList splits a comma separated list, dropping blank items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
