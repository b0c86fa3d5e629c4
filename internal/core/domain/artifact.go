package domain

import (
	"fmt"
	"strings"
)

// Artifact identifies a module: the project being described or one of its
// dependencies.
type Artifact struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	Version    string `yaml:"version"`
	Type       string `yaml:"type,omitempty"`
	Classifier string `yaml:"classifier,omitempty"`
	Scope      string `yaml:"scope,omitempty"`

	// File is the archive or class directory holding the artifact's classes.
	File string `yaml:"file,omitempty"`
}

// ScopeProvided is the dependency scope expected for build-tool API artifacts.
const ScopeProvided = "provided"

// ID returns group:artifact:type[:classifier]:version.
func (a Artifact) ID() string {
	t := a.Type
	if t == "" {
		t = "jar"
	}
	if a.Classifier != "" {
		return fmt.Sprintf("%s:%s:%s:%s:%s", a.GroupID, a.ArtifactID, t, a.Classifier, a.Version)
	}
	return fmt.Sprintf("%s:%s:%s:%s", a.GroupID, a.ArtifactID, t, a.Version)
}

// Key returns group:artifact.
func (a Artifact) Key() string {
	return a.GroupID + ":" + a.ArtifactID
}

func (a Artifact) String() string {
	return a.ID()
}

// ParseArtifact parses "group:artifact:version" with an optional "=file"
// suffix, or "group:artifact:type:version" / "group:artifact:type:classifier:version".
func ParseArtifact(coords string) (Artifact, error) {
	var a Artifact
	if i := strings.Index(coords, "="); i >= 0 {
		a.File = strings.TrimSpace(coords[i+1:])
		coords = coords[:i]
	}
	parts := strings.Split(strings.TrimSpace(coords), ":")
	for _, p := range parts {
		if p == "" {
			return Artifact{}, fmt.Errorf("invalid artifact coordinates %q", coords)
		}
	}
	switch len(parts) {
	case 3:
		a.GroupID, a.ArtifactID, a.Version = parts[0], parts[1], parts[2]
	case 4:
		a.GroupID, a.ArtifactID, a.Type, a.Version = parts[0], parts[1], parts[2], parts[3]
	case 5:
		a.GroupID, a.ArtifactID, a.Type, a.Classifier, a.Version = parts[0], parts[1], parts[2], parts[3], parts[4]
	default:
		return Artifact{}, fmt.Errorf("invalid artifact coordinates %q", coords)
	}
	if a.Type == "" {
		a.Type = "jar"
	}
	return a, nil
}
