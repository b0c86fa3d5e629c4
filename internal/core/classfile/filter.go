package classfile

import "strings"

// Annotation packages of the two plugin API generations.
const (
	V3AnnotationsPackage = "org.apache.maven.plugins.annotations."
	V4AnnotationsPackage = "org.apache.maven.api.plugin.annotations."
)

// Recognized annotation type names.
const (
	MojoV3      = V3AnnotationsPackage + "Mojo"
	ExecuteV3   = V3AnnotationsPackage + "Execute"
	ParameterV3 = V3AnnotationsPackage + "Parameter"
	ComponentV3 = V3AnnotationsPackage + "Component"

	MojoV4      = V4AnnotationsPackage + "Mojo"
	ExecuteV4   = V4AnnotationsPackage + "Execute"
	ParameterV4 = V4AnnotationsPackage + "Parameter"
	ComponentV4 = V4AnnotationsPackage + "Component"

	Deprecated = "java.lang.Deprecated"
)

// Filter selects the annotation types kept at each level. Annotations of
// any other type are dropped while parsing.
type Filter struct {
	Class  map[string]bool
	Field  map[string]bool
	Method map[string]bool
}

// MojoFilter recognizes the goal, execute, parameter and component
// annotations of both API generations plus java.lang.Deprecated.
func MojoFilter() Filter {
	return Filter{
		Class:  set(MojoV3, ExecuteV3, MojoV4, ExecuteV4, Deprecated),
		Field:  set(ParameterV3, ComponentV3, ParameterV4, ComponentV4, Deprecated),
		Method: set(ParameterV3, ParameterV4, Deprecated),
	}
}

// IsV4 reports whether an annotation type belongs to the v4 API package.
func IsV4(typeName string) bool {
	return strings.HasPrefix(typeName, V4AnnotationsPackage)
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// keep reports whether a nil or matching level admits typeName. A nil map
// admits everything.
func keep(level map[string]bool, typeName string) bool {
	return level == nil || level[typeName]
}
