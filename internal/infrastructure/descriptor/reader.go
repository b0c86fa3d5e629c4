package descriptor

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"mojoscan.dev/cli/internal/core/domain"
)

type pluginXML struct {
	XMLName              xml.Name        `xml:"plugin"`
	Name                 string          `xml:"name"`
	Description          string          `xml:"description"`
	GroupID              string          `xml:"groupId"`
	ArtifactID           string          `xml:"artifactId"`
	Version              string          `xml:"version"`
	GoalPrefix           string          `xml:"goalPrefix"`
	IsolatedRealm        string          `xml:"isolatedRealm"`
	InheritedByDefault   string          `xml:"inheritedByDefault"`
	RequiredJavaVersion  string          `xml:"requiredJavaVersion"`
	RequiredMavenVersion string          `xml:"requiredMavenVersion"`
	Mojos                []mojoXML       `xml:"mojos>mojo"`
	Dependencies         []dependencyXML `xml:"dependencies>dependency"`
}

type mojoXML struct {
	Goal                     string  `xml:"goal"`
	Description              string  `xml:"description"`
	DependencyResolution     string  `xml:"requiresDependencyResolution"`
	DependencyResolutionV4   string  `xml:"dependencyResolution"`
	RequiresDirectInvocation string  `xml:"requiresDirectInvocation"`
	RequiresProject          string  `xml:"requiresProject"`
	ProjectRequiredV4        string  `xml:"projectRequired"`
	RequiresReports          string  `xml:"requiresReports"`
	Aggregator               string  `xml:"aggregator"`
	RequiresOnline           string  `xml:"requiresOnline"`
	OnlineRequiredV4         string  `xml:"onlineRequired"`
	InheritedByDefault       string  `xml:"inheritedByDefault"`
	Phase                    string  `xml:"phase"`
	ExecutePhase             string  `xml:"executePhase"`
	ExecuteGoal              string  `xml:"executeGoal"`
	ExecuteLifecycle         string  `xml:"executeLifecycle"`
	Implementation           string  `xml:"implementation"`
	Language                 string  `xml:"language"`
	Configurator             string  `xml:"configurator"`
	Composer                 string  `xml:"composer"`
	InstantiationStrategy    string  `xml:"instantiationStrategy"`
	ExecutionStrategy        string  `xml:"executionStrategy"`
	Since                    string  `xml:"since"`
	Deprecated               *string `xml:"deprecated"`
	DependencyCollection     string  `xml:"requiresDependencyCollection"`
	DependencyCollectionV4   string  `xml:"dependencyCollection"`
	ThreadSafe               string  `xml:"threadSafe"`

	Parameters    []parameterXML   `xml:"parameters>parameter"`
	Configuration configurationXML `xml:"configuration"`
	Requirements  []requirementXML `xml:"requirements>requirement"`
}

type parameterXML struct {
	Name           string  `xml:"name"`
	Alias          string  `xml:"alias"`
	Type           string  `xml:"type"`
	Since          string  `xml:"since"`
	Deprecated     *string `xml:"deprecated"`
	Implementation string  `xml:"implementation"`
	Required       string  `xml:"required"`
	Editable       string  `xml:"editable"`
	Description    string  `xml:"description"`
	DefaultValue   string  `xml:"defaultValue"`
	Expression     string  `xml:"expression"`
}

type configurationXML struct {
	Entries []configEntryXML `xml:",any"`
}

type configEntryXML struct {
	XMLName        xml.Name
	Implementation string `xml:"implementation,attr"`
	DefaultValue   string `xml:"default-value,attr"`
	Expression     string `xml:",chardata"`
}

type requirementXML struct {
	Role      string `xml:"role"`
	RoleHint  string `xml:"role-hint"`
	FieldName string `xml:"field-name"`
}

type dependencyXML struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Type       string `xml:"type"`
	Version    string `xml:"version"`
}

// Read parses a plugin.xml document. Requirements are kept on the goal with
// their field names rather than turned back into parameters.
func Read(r io.Reader) (*domain.PluginDescriptor, error) {
	var doc pluginXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, domain.NewExtractionError(domain.CodeExtractionFailed, "cannot parse plugin descriptor", err)
	}

	pd := &domain.PluginDescriptor{
		GroupID:              doc.GroupID,
		ArtifactID:           doc.ArtifactID,
		Version:              doc.Version,
		GoalPrefix:           doc.GoalPrefix,
		Name:                 doc.Name,
		Description:          doc.Description,
		IsolatedRealm:        parseBool(doc.IsolatedRealm, false),
		InheritedByDefault:   parseBool(doc.InheritedByDefault, true),
		RequiredJavaVersion:  doc.RequiredJavaVersion,
		RequiredMavenVersion: doc.RequiredMavenVersion,
	}
	for _, d := range doc.Dependencies {
		pd.Dependencies = append(pd.Dependencies, domain.Artifact{
			GroupID:    d.GroupID,
			ArtifactID: d.ArtifactID,
			Type:       d.Type,
			Version:    d.Version,
		})
	}
	for _, m := range doc.Mojos {
		md, err := m.descriptor()
		if err != nil {
			return nil, err
		}
		if err := pd.AddMojo(md); err != nil {
			return nil, err
		}
	}
	return pd, nil
}

func (m mojoXML) descriptor() (*domain.MojoDescriptor, error) {
	md := &domain.MojoDescriptor{
		Goal:                  m.Goal,
		Implementation:        m.Implementation,
		Language:              m.Language,
		Phase:                 m.Phase,
		ExecutePhase:          m.ExecutePhase,
		ExecuteGoal:           m.ExecuteGoal,
		ExecuteLifecycle:      m.ExecuteLifecycle,
		DependencyResolution:  orDefault(m.DependencyResolution, m.DependencyResolutionV4),
		DependencyCollection:  orDefault(m.DependencyCollection, m.DependencyCollectionV4),
		InstantiationStrategy: m.InstantiationStrategy,
		ExecutionStrategy:     m.ExecutionStrategy,
		ComponentConfigurator: m.Configurator,
		ComponentComposer:     m.Composer,
		ProjectRequired:       parseBool(orDefault(m.RequiresProject, m.ProjectRequiredV4), true),
		RequiresReports:       parseBool(m.RequiresReports, false),
		Aggregator:            parseBool(m.Aggregator, false),
		DirectInvocationOnly:  parseBool(m.RequiresDirectInvocation, false),
		OnlineRequired:        parseBool(orDefault(m.RequiresOnline, m.OnlineRequiredV4), false),
		InheritedByDefault:    parseBool(m.InheritedByDefault, true),
		ThreadSafe:            parseBool(m.ThreadSafe, false),
		Description:           m.Description,
		Since:                 m.Since,
		Deprecated:            m.Deprecated,
	}

	config := make(map[string]configEntryXML, len(m.Configuration.Entries))
	for _, e := range m.Configuration.Entries {
		config[e.XMLName.Local] = e
	}
	for _, px := range m.Parameters {
		p := &domain.Parameter{
			Name:           px.Name,
			Alias:          px.Alias,
			Type:           px.Type,
			Implementation: px.Implementation,
			Required:       parseBool(px.Required, false),
			Editable:       parseBool(px.Editable, true),
			Description:    px.Description,
			Since:          px.Since,
			Deprecated:     px.Deprecated,
			DefaultValue:   px.DefaultValue,
			Expression:     px.Expression,
		}
		if e, ok := config[px.Name]; ok {
			p.DefaultValue = e.DefaultValue
			p.Expression = strings.TrimSpace(e.Expression)
		}
		if err := md.AddParameter(p); err != nil {
			return nil, fmt.Errorf("goal %s: %w", m.Goal, err)
		}
	}
	for _, r := range m.Requirements {
		md.AddRequirement(&domain.Requirement{Role: r.Role, RoleHint: r.RoleHint, FieldName: r.FieldName})
	}
	return md, nil
}

func parseBool(s string, def bool) bool {
	switch strings.TrimSpace(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return def
}
