package annotations

import (
	"mojoscan.dev/cli/internal/core/classfile"
	"mojoscan.dev/cli/internal/core/domain"
)

// Each table maps an annotation member name to the setter that stores its
// decoded value. Members missing from a table are rejected.

var mojoDecoders = map[string]func(*domain.MojoAnnotationContent, classfile.Value) error{
	"name": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeString(v, &m.Name)
	},
	"defaultPhase": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeEnum(v, domain.ParseLifecyclePhase, &m.DefaultPhase)
	},
	"requiresDependencyResolution": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeEnum(v, domain.ParseResolutionScope, &m.RequiresDependencyResolution)
	},
	"requiresDependencyCollection": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeEnum(v, domain.ParseResolutionScope, &m.RequiresDependencyCollection)
	},
	"instantiationStrategy": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeEnum(v, domain.ParseInstantiationStrategy, &m.InstantiationStrategy)
	},
	"executionStrategy": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeString(v, &m.ExecutionStrategy)
	},
	"requiresProject": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeBool(v, &m.RequiresProject)
	},
	"requiresReports": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeBool(v, &m.RequiresReports)
	},
	"aggregator": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeBool(v, &m.Aggregator)
	},
	"requiresDirectInvocation": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeBool(v, &m.RequiresDirectInvocation)
	},
	"requiresOnline": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeBool(v, &m.RequiresOnline)
	},
	"inheritByDefault": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeBool(v, &m.InheritByDefault)
	},
	"configurator": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeString(v, &m.Configurator)
	},
	"threadSafe": func(m *domain.MojoAnnotationContent, v classfile.Value) error {
		return decodeBool(v, &m.ThreadSafe)
	},
}

var executeDecoders = map[string]func(*domain.ExecuteAnnotationContent, classfile.Value) error{
	"phase": func(e *domain.ExecuteAnnotationContent, v classfile.Value) error {
		return decodeEnum(v, domain.ParseLifecyclePhase, &e.Phase)
	},
	"customPhase": func(e *domain.ExecuteAnnotationContent, v classfile.Value) error {
		return decodeString(v, &e.CustomPhase)
	},
	"goal": func(e *domain.ExecuteAnnotationContent, v classfile.Value) error {
		return decodeString(v, &e.Goal)
	},
	"lifecycle": func(e *domain.ExecuteAnnotationContent, v classfile.Value) error {
		return decodeString(v, &e.Lifecycle)
	},
}

var parameterDecoders = map[string]func(*domain.ParameterAnnotationContent, classfile.Value) error{
	"name": func(p *domain.ParameterAnnotationContent, v classfile.Value) error {
		return decodeString(v, &p.Name)
	},
	"alias": func(p *domain.ParameterAnnotationContent, v classfile.Value) error {
		return decodeString(v, &p.Alias)
	},
	"property": func(p *domain.ParameterAnnotationContent, v classfile.Value) error {
		return decodeString(v, &p.Property)
	},
	"defaultValue": func(p *domain.ParameterAnnotationContent, v classfile.Value) error {
		return decodeString(v, &p.DefaultValue)
	},
	"required": func(p *domain.ParameterAnnotationContent, v classfile.Value) error {
		return decodeBool(v, &p.Required)
	},
	"readonly": func(p *domain.ParameterAnnotationContent, v classfile.Value) error {
		return decodeBool(v, &p.Readonly)
	},
	"implementation": func(p *domain.ParameterAnnotationContent, v classfile.Value) error {
		return decodeClassOrString(v, &p.Implementation)
	},
}

var componentDecoders = map[string]func(*domain.ComponentAnnotationContent, classfile.Value) error{
	"role": func(c *domain.ComponentAnnotationContent, v classfile.Value) error {
		return decodeClassOrString(v, &c.RoleClassName)
	},
	"hint": func(c *domain.ComponentAnnotationContent, v classfile.Value) error {
		return decodeString(v, &c.Hint)
	},
}

func decodeString(v classfile.Value, dst *string) error {
	s, err := v.AsString()
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func decodeBool(v classfile.Value, dst *bool) error {
	b, err := v.AsBool()
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

// decodeClassOrString accepts a class literal, the form written by the
// compiler, or a plain class name string.
func decodeClassOrString(v classfile.Value, dst *string) error {
	if v.Kind == classfile.KindString {
		*dst = v.String
		return nil
	}
	c, err := v.AsClass()
	if err != nil {
		return err
	}
	*dst = c
	return nil
}

// decodeEnum parses an enum constant by name. Plain strings are accepted too,
// matching annotations written by tools that store enums as text.
func decodeEnum[T any](v classfile.Value, parse func(string) (T, error), dst *T) error {
	if v.Kind != classfile.KindEnum && v.Kind != classfile.KindString {
		_, err := v.AsEnum()
		return err
	}
	parsed, err := parse(v.String)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}
