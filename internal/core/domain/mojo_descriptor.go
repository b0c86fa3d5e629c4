package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Implementation languages.
const (
	LanguageJava = "java"
	LanguageAnt  = "ant-mojo"
)

// Requirement is a declared dependency on an injectable component.
type Requirement struct {
	Role      string
	RoleHint  string
	FieldName string
}

// Parameter is one configurable (or injected) value of a goal.
type Parameter struct {
	Name           string
	Alias          string
	Type           string
	Implementation string
	Required       bool
	Editable       bool
	Expression     string
	DefaultValue   string
	Description    string
	Since          string
	Deprecated     *string

	// Requirement is set when the parameter stands for a component.
	Requirement *Requirement
}

// MojoDescriptor is the merged, inheritance-resolved description of one goal.
type MojoDescriptor struct {
	Goal           string
	Implementation string
	Language       string

	Phase            string
	ExecutePhase     string
	ExecuteGoal      string
	ExecuteLifecycle string

	DependencyResolution  string
	DependencyCollection  string
	InstantiationStrategy string
	ExecutionStrategy     string
	ComponentConfigurator string
	ComponentComposer     string

	ProjectRequired      bool
	RequiresReports      bool
	Aggregator           bool
	DirectInvocationOnly bool
	OnlineRequired       bool
	InheritedByDefault   bool
	ThreadSafe           bool

	Description string
	Since       string
	Deprecated  *string

	Parameters   []*Parameter
	Requirements []*Requirement

	// Source is the extractor that produced the descriptor.
	Source string
}

// NewMojoDescriptor returns a descriptor holding the model defaults.
func NewMojoDescriptor() *MojoDescriptor {
	return &MojoDescriptor{
		Language:              LanguageJava,
		InstantiationStrategy: InstantiationPerLookup.ID(),
		ExecutionStrategy:     ExecutionOncePerSession,
		ProjectRequired:       true,
		InheritedByDefault:    true,
	}
}

// AddParameter appends p, rejecting a second parameter with the same name.
func (m *MojoDescriptor) AddParameter(p *Parameter) error {
	if _, ok := m.Parameter(p.Name); ok {
		return NewInvalidDescriptorError(CodeDuplicateParameter,
			fmt.Sprintf("duplicate parameter %q", p.Name)).WithGoal(m.Goal).WithClass(m.Implementation)
	}
	m.Parameters = append(m.Parameters, p)
	return nil
}

// Parameter looks a parameter up by name.
func (m *MojoDescriptor) Parameter(name string) (*Parameter, bool) {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// AddRequirement appends a goal-level requirement.
func (m *MojoDescriptor) AddRequirement(r *Requirement) {
	m.Requirements = append(m.Requirements, r)
}

// HasRequirementRole reports whether a goal-level requirement has role.
func (m *MojoDescriptor) HasRequirementRole(role string) bool {
	for _, r := range m.Requirements {
		if r.Role == role {
			return true
		}
	}
	return false
}

// SortParameters orders parameters by name.
func (m *MojoDescriptor) SortParameters() {
	sort.SliceStable(m.Parameters, func(i, j int) bool {
		return m.Parameters[i].Name < m.Parameters[j].Name
	})
}

// ComponentRequirements returns the requirements carried by parameters,
// keyed by parameter name in parameter order. A "${component.role#hint}"
// expression counts as a requirement.
func (m *MojoDescriptor) ComponentRequirements() []*Requirement {
	var out []*Requirement
	for _, p := range m.Parameters {
		if r, ok := componentExpression(p.Expression); ok {
			r.FieldName = p.Name
			out = append(out, r)
			continue
		}
		if p.Requirement != nil {
			r := *p.Requirement
			r.FieldName = p.Name
			out = append(out, &r)
		}
	}
	return out
}

// IsComponentParameter reports whether p is injected as a component rather
// than configured.
func IsComponentParameter(p *Parameter) bool {
	if p.Requirement != nil {
		return true
	}
	_, ok := componentExpression(p.Expression)
	return ok
}

func componentExpression(expr string) (*Requirement, bool) {
	const prefix = "${component."
	if !strings.HasPrefix(expr, prefix) || !strings.HasSuffix(expr, "}") {
		return nil, false
	}
	role := expr[len(prefix) : len(expr)-1]
	r := &Requirement{Role: role}
	if i := strings.Index(role, "#"); i > 0 {
		r.Role = role[:i]
		r.RoleHint = role[i+1:]
	}
	return r, true
}

// MavenComponents maps the build-tool objects that are injected by
// expression rather than as components.
var MavenComponents = map[string]string{
	"org.apache.maven.execution.MavenSession":             "${session}",
	"org.apache.maven.project.MavenProject":               "${project}",
	"org.apache.maven.plugin.MojoExecution":               "${mojoExecution}",
	"org.apache.maven.plugin.descriptor.PluginDescriptor": "${plugin}",
	"org.apache.maven.settings.Settings":                  "${settings}",
}

// IsMavenExpression reports whether expr is one of the MavenComponents expressions.
func IsMavenExpression(expr string) bool {
	for _, v := range MavenComponents {
		if v == expr {
			return true
		}
	}
	return false
}
