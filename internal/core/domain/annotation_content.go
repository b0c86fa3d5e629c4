package domain

import (
	"fmt"
	"strings"
)

// Documentation carries the doc text attached to a goal, parameter or component.
type Documentation struct {
	Description string
	Since       string

	// Deprecated is nil when not deprecated; an empty string means
	// deprecated without a reason.
	Deprecated *string
}

// IsDeprecated reports whether a deprecation marker is present.
func (d Documentation) IsDeprecated() bool {
	return d.Deprecated != nil
}

// Deprecation returns a deprecation marker with the given reason.
func Deprecation(reason string) *string {
	return &reason
}

// MojoAnnotationContent is the normalized content of a goal-level annotation.
type MojoAnnotationContent struct {
	Name                         string
	DefaultPhase                 LifecyclePhase
	RequiresDependencyResolution ResolutionScope
	RequiresDependencyCollection ResolutionScope
	InstantiationStrategy        InstantiationStrategy
	ExecutionStrategy            string
	RequiresProject              bool
	RequiresReports              bool
	Aggregator                   bool
	RequiresDirectInvocation     bool
	RequiresOnline               bool
	InheritByDefault             bool
	Configurator                 string
	ThreadSafe                   bool

	Documentation
}

// NewMojoAnnotationContent returns goal content holding the annotation defaults.
func NewMojoAnnotationContent() *MojoAnnotationContent {
	return &MojoAnnotationContent{
		DefaultPhase:                 PhaseNone,
		RequiresDependencyResolution: ScopeNone,
		RequiresDependencyCollection: ScopeNone,
		InstantiationStrategy:        InstantiationPerLookup,
		ExecutionStrategy:            ExecutionOncePerSession,
		RequiresProject:              true,
		InheritByDefault:             true,
	}
}

// ExecuteAnnotationContent describes a forked execution triggered before the goal runs.
type ExecuteAnnotationContent struct {
	Phase       LifecyclePhase
	CustomPhase string
	Goal        string
	Lifecycle   string
}

// NewExecuteAnnotationContent returns execute content holding the annotation defaults.
func NewExecuteAnnotationContent() *ExecuteAnnotationContent {
	return &ExecuteAnnotationContent{Phase: PhaseNone}
}

// EffectivePhase returns the standard phase id when one is set, otherwise
// the custom phase text. A standard phase always wins.
func (e *ExecuteAnnotationContent) EffectivePhase() string {
	if !e.Phase.IsNone() {
		return e.Phase.ID()
	}
	return e.CustomPhase
}

// ParameterAnnotationContent is the normalized content of a parameter
// annotation on a field or setter method.
type ParameterAnnotationContent struct {
	FieldName          string
	ClassName          string
	TypeParameters     []string
	AnnotationOnMethod bool

	Name           string
	Alias          string
	Property       string
	DefaultValue   string
	Required       bool
	Readonly       bool
	Implementation string

	Documentation
}

// NewParameterAnnotationContent returns parameter content for the given
// injection point, holding the annotation defaults.
func NewParameterAnnotationContent(fieldName, className string, typeParameters []string, onMethod bool) *ParameterAnnotationContent {
	return &ParameterAnnotationContent{
		FieldName:          fieldName,
		ClassName:          className,
		TypeParameters:     typeParameters,
		AnnotationOnMethod: onMethod,
	}
}

// Equal compares the identity-relevant members: alias, field name, property,
// default value, required, readonly and implementation.
func (p *ParameterAnnotationContent) Equal(other *ParameterAnnotationContent) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.HashKey() == other.HashKey()
}

// HashKey returns a stable key over the members compared by Equal.
func (p *ParameterAnnotationContent) HashKey() string {
	return strings.Join([]string{
		p.Alias,
		p.FieldName,
		p.Property,
		p.DefaultValue,
		fmt.Sprint(p.Required),
		fmt.Sprint(p.Readonly),
		p.Implementation,
	}, "\x00")
}

// ComponentAnnotationContent is the normalized content of a component
// (requirement injection) annotation.
type ComponentAnnotationContent struct {
	FieldName     string
	RoleClassName string
	Hint          string

	Documentation
}

// NewComponentAnnotationContent returns component content for a field.
func NewComponentAnnotationContent(fieldName string) *ComponentAnnotationContent {
	return &ComponentAnnotationContent{FieldName: fieldName}
}
