package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PluginDescriptor describes a build plugin and the goals it provides. It is
// the aggregate handed to descriptor writers.
type PluginDescriptor struct {
	// GroupID, ArtifactID and Version identify the plugin artifact
	GroupID    string
	ArtifactID string
	Version    string

	// GoalPrefix is the short name used on the command line (e.g. "plugin")
	GoalPrefix string

	// Name and Description are copied from the project
	Name        string
	Description string

	InheritedByDefault bool
	IsolatedRealm      bool

	// RequiredMavenVersion and RequiredJavaVersion are optional and written
	// only when non-empty
	RequiredMavenVersion string
	RequiredJavaVersion  string

	Mojos        []*MojoDescriptor
	Dependencies []Artifact
}

// NewPluginDescriptor creates an empty descriptor for the given project.
func NewPluginDescriptor(project Artifact) *PluginDescriptor {
	return &PluginDescriptor{
		GroupID:            project.GroupID,
		ArtifactID:         project.ArtifactID,
		Version:            project.Version,
		InheritedByDefault: true,
	}
}

// AddMojo appends a goal, failing when the goal name is already taken.
func (p *PluginDescriptor) AddMojo(m *MojoDescriptor) error {
	if existing := p.Mojo(m.Goal); existing != nil {
		return NewExtractionError(CodeDuplicateGoal,
			fmt.Sprintf("goal %q is declared by both %s and %s", m.Goal, existing.Implementation, m.Implementation),
			nil).WithClass(m.Implementation)
	}
	p.Mojos = append(p.Mojos, m)
	return nil
}

// Mojo returns the goal with the given name, or nil.
func (p *PluginDescriptor) Mojo(goal string) *MojoDescriptor {
	for _, m := range p.Mojos {
		if m.Goal == goal {
			return m
		}
	}
	return nil
}

// SortMojos orders goals by name.
func (p *PluginDescriptor) SortMojos() {
	sort.SliceStable(p.Mojos, func(i, j int) bool {
		return p.Mojos[i].Goal < p.Mojos[j].Goal
	})
}

// PluginKey returns group:artifact.
func (p *PluginDescriptor) PluginKey() string {
	return p.GroupID + ":" + p.ArtifactID
}

var (
	mavenInfix  = regexp.MustCompile(`-?maven-?`)
	pluginInfix = regexp.MustCompile(`-?plugin-?`)
)

// GoalPrefixFromArtifactID derives the default goal prefix: "maven-plugin-plugin"
// maps to "plugin", otherwise the "maven" and "plugin" words are removed.
func GoalPrefixFromArtifactID(artifactID string) string {
	if artifactID == "maven-plugin-plugin" {
		return "plugin"
	}
	return pluginInfix.ReplaceAllString(mavenInfix.ReplaceAllString(artifactID, ""), "")
}

// IsReservedArtifactID reports an artifact id of the form maven-*-plugin used
// outside the group that reserves it.
func IsReservedArtifactID(groupID, artifactID string) bool {
	id := strings.ToLower(artifactID)
	return id != "maven-plugin" &&
		strings.HasPrefix(id, "maven-") &&
		strings.HasSuffix(id, "-plugin") &&
		groupID != "org.apache.maven.plugins"
}

// JavaVersionForClassVersion maps a class-file major version to the Java
// release that introduced it: 52 is "1.8", 55 is "11".
func JavaVersionForClassVersion(major int) string {
	switch {
	case major < 45:
		return ""
	case major <= 52:
		return "1." + strconv.Itoa(major-44)
	default:
		return strconv.Itoa(major - 44)
	}
}
