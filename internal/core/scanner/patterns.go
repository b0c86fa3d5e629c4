package scanner

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// DefaultIncludes selects every class file.
var DefaultIncludes = []string{"**/*.class"}

// DefaultExcludes are the version-control and editor artifacts never scanned.
var DefaultExcludes = []string{
	"**/*~",
	"**/#*#",
	"**/.#*",
	"**/%*%",
	"**/._*",
	"**/CVS",
	"**/CVS/**",
	"**/.cvsignore",
	"**/RCS",
	"**/RCS/**",
	"**/SCCS",
	"**/SCCS/**",
	"**/vssver.scc",
	"**/project.pj",
	"**/.svn",
	"**/.svn/**",
	"**/.arch-ids",
	"**/.arch-ids/**",
	"**/.bzr",
	"**/.bzr/**",
	"**/.MySCMServerInfo",
	"**/.DS_Store",
	"**/.metadata",
	"**/.metadata/**",
	"**/.hg",
	"**/.hg/**",
	"**/.git",
	"**/.git/**",
	"**/.gitignore",
	"**/BitKeeper",
	"**/BitKeeper/**",
	"**/ChangeSet",
	"**/ChangeSet/**",
	"**/_darcs",
	"**/_darcs/**",
	"**/.darcsrepo",
	"**/.darcsrepo/**",
	"**/-darcs-backup*",
	"**/.darcs-temp-mail",
}

// Matcher selects slash-separated relative paths with include and exclude
// globs. The default excludes always apply.
type Matcher struct {
	includes []string
	excludes []string
}

// NewMatcher validates the patterns. Empty includes select everything.
func NewMatcher(includes, excludes []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range includes {
		p = normalizePattern(p)
		if err := validatePattern(p); err != nil {
			return nil, err
		}
		m.includes = append(m.includes, p)
	}
	for _, p := range append(append([]string(nil), DefaultExcludes...), excludes...) {
		p = normalizePattern(p)
		if err := validatePattern(p); err != nil {
			return nil, err
		}
		m.excludes = append(m.excludes, p)
	}
	return m, nil
}

// normalizePattern uses forward slashes and expands a trailing slash to
// everything below the directory.
func normalizePattern(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if strings.HasSuffix(p, "/") {
		p += "**"
	}
	return p
}

// ValidatePattern reports a syntax error in a glob.
func ValidatePattern(p string) error {
	return validatePattern(normalizePattern(p))
}

func validatePattern(p string) error {
	if _, err := doublestar.Match(p, "x"); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", p, err)
	}
	return nil
}

// Matches reports whether rel is included and not excluded.
func (m *Matcher) Matches(rel string) bool {
	rel = path.Clean(strings.ReplaceAll(rel, "\\", "/"))
	if len(m.includes) > 0 && !matchAny(m.includes, rel) {
		return false
	}
	return !matchAny(m.excludes, rel)
}

// Excluded reports whether a directory is excluded as a whole, so a walk
// can skip it.
func (m *Matcher) Excluded(relDir string) bool {
	relDir = path.Clean(strings.ReplaceAll(relDir, "\\", "/"))
	return matchAny(m.excludes, relDir)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
