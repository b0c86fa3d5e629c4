package config

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	configdomain "mojoscan.dev/cli/internal/core/domain/config"
	"mojoscan.dev/cli/internal/core/javasource"
	"mojoscan.dev/cli/internal/core/ports"
	configports "mojoscan.dev/cli/internal/core/ports/config"
	"mojoscan.dev/cli/internal/core/scanner"
)

// ConfigValidator validates configuration values
type ConfigValidator struct {
	extractors    map[string]bool
	goalPrefixPat *regexp.Regexp
}

// NewConfigValidator creates a validator accepting the given extractor ids
func NewConfigValidator(knownExtractors []string) *ConfigValidator {
	known := make(map[string]bool, len(knownExtractors))
	for _, id := range knownExtractors {
		known[id] = true
	}
	return &ConfigValidator{
		extractors:    known,
		goalPrefixPat: regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`),
	}
}

// ValidateLogLevel validates a log level name
func (v *ConfigValidator) ValidateLogLevel(level string) error {
	if _, ok := ports.ParseLogLevel(strings.ToLower(level)); !ok {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, error or fatal)", level)
	}
	return nil
}

// ValidateExtractors validates extractor ids against the registered extractors
func (v *ConfigValidator) ValidateExtractors(ids []string) error {
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if !v.extractors[id] {
			return fmt.Errorf("unknown extractor: %s", id)
		}
	}
	return nil
}

// ValidatePatterns validates include or exclude globs
func (v *ConfigValidator) ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("pattern cannot be empty")
		}
		if err := scanner.ValidatePattern(p); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGoalPrefix validates an explicit goal prefix
func (v *ConfigValidator) ValidateGoalPrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	if !v.goalPrefixPat.MatchString(prefix) {
		return fmt.Errorf("invalid goal prefix: %s", prefix)
	}
	return nil
}

// ValidateEncoding validates the Java source encoding name
func (v *ConfigValidator) ValidateEncoding(name string) error {
	_, err := javasource.Encoding(name)
	return err
}

// ValidateVersion validates a required Maven or Java version
func (v *ConfigValidator) ValidateVersion(version string) error {
	if version == "" {
		return nil
	}
	if _, err := semver.NewVersion(version); err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	return nil
}

// ValidateAll validates every known key of snap and returns the failures by key
func (v *ConfigValidator) ValidateAll(snap configdomain.Snapshot) map[string]error {
	errs := make(map[string]error)
	check := func(key string, err error) {
		if err != nil {
			errs[key] = err
		}
	}
	str := func(key string) (string, bool) {
		e, ok := snap[key]
		if !ok {
			return "", false
		}
		s, ok := e.Value.(string)
		if !ok {
			errs[key] = fmt.Errorf("expected a string, got %T", e.Value)
		}
		return s, ok
	}
	list := func(key string) ([]string, bool) {
		e, ok := snap[key]
		if !ok {
			return nil, false
		}
		l, ok := e.Value.([]string)
		if !ok {
			errs[key] = fmt.Errorf("expected a list, got %T", e.Value)
		}
		return l, ok
	}

	if s, ok := str(configdomain.KeyLogLevel); ok {
		check(configdomain.KeyLogLevel, v.ValidateLogLevel(s))
	}
	if l, ok := list(configdomain.KeyExtractors); ok {
		check(configdomain.KeyExtractors, v.ValidateExtractors(l))
	}
	if l, ok := list(configdomain.KeyIncludes); ok {
		check(configdomain.KeyIncludes, v.ValidatePatterns(l))
	}
	if l, ok := list(configdomain.KeyExcludes); ok {
		check(configdomain.KeyExcludes, v.ValidatePatterns(l))
	}
	if s, ok := str(configdomain.KeyGoalPrefix); ok {
		check(configdomain.KeyGoalPrefix, v.ValidateGoalPrefix(s))
	}
	if s, ok := str(configdomain.KeyEncoding); ok {
		check(configdomain.KeyEncoding, v.ValidateEncoding(s))
	}
	if s, ok := str(configdomain.KeyRequiredMavenVersion); ok {
		check(configdomain.KeyRequiredMavenVersion, v.ValidateVersion(s))
	}
	if s, ok := str(configdomain.KeyRequiredJavaVersion); ok {
		check(configdomain.KeyRequiredJavaVersion, v.ValidateVersion(s))
	}
	return errs
}

// Validate implements configports.Validator
func (v *ConfigValidator) Validate(snap configdomain.Snapshot) error {
	errs := v.ValidateAll(snap)
	if len(errs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	joined := make([]error, 0, len(keys))
	for _, k := range keys {
		joined = append(joined, fmt.Errorf("%s (from %s): %w", k, snap[k].Source, errs[k]))
	}
	return errors.Join(joined...)
}

var _ configports.Validator = (*ConfigValidator)(nil)
