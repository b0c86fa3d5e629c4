// Package annotations turns the raw annotation values read from a class file
// into typed goal, execute, parameter and component content.
package annotations

import (
	"fmt"

	"mojoscan.dev/cli/internal/core/classfile"
	"mojoscan.dev/cli/internal/core/domain"
)

// Normalizer decodes recognized annotations with one explicit table per
// annotation type. It holds no state and is safe for concurrent use.
type Normalizer struct{}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize builds the scanned class for info. Members left out of an
// annotation keep their documented defaults; a member that cannot be decoded
// fails with an ExtractionError naming the class and member.
func (n *Normalizer) Normalize(info *classfile.ClassInfo) (*domain.ScannedClass, error) {
	sc := domain.NewScannedClass(info.Name, info.SuperName)
	sc.ClassVersion = info.Version

	for _, a := range info.Annotations {
		if classfile.IsV4(a.Type) {
			sc.V4API = true
		}
	}
	_, deprecated := info.Annotation(classfile.Deprecated)

	if a, ok := preferred(info.Annotation, classfile.MojoV3, classfile.MojoV4); ok {
		m := domain.NewMojoAnnotationContent()
		if err := apply(a, mojoDecoders, m); err != nil {
			return nil, decodeError(info.Name, a, err)
		}
		if deprecated {
			m.Deprecated = domain.Deprecation("")
		}
		sc.Mojo = m
	}

	if a, ok := preferred(info.Annotation, classfile.ExecuteV3, classfile.ExecuteV4); ok {
		e := domain.NewExecuteAnnotationContent()
		if err := apply(a, executeDecoders, e); err != nil {
			return nil, decodeError(info.Name, a, err)
		}
		sc.Execute = e
	}

	// fields first so a setter for the same property wins
	members := append(append([]classfile.Member(nil), info.Fields...), info.Methods...)
	for _, m := range members {
		a, ok := preferred(m.Annotation, classfile.ParameterV3, classfile.ParameterV4)
		if !ok {
			continue
		}
		p := domain.NewParameterAnnotationContent(m.Name, m.Type, m.TypeParameters, m.IsMethod())
		if err := apply(a, parameterDecoders, p); err != nil {
			return nil, decodeError(info.Name, a, err).WithMember(m.Name)
		}
		if _, dep := m.Annotation(classfile.Deprecated); dep {
			p.Deprecated = domain.Deprecation("")
		}
		sc.Parameters[p.FieldName] = p
	}

	for _, f := range info.Fields {
		a, ok := preferred(f.Annotation, classfile.ComponentV3, classfile.ComponentV4)
		if !ok {
			continue
		}
		c := domain.NewComponentAnnotationContent(f.Name)
		if err := apply(a, componentDecoders, c); err != nil {
			return nil, decodeError(info.Name, a, err).WithMember(f.Name)
		}
		if c.RoleClassName == "" {
			c.RoleClassName = f.Type
		}
		sc.Components[c.FieldName] = c
	}

	return sc, nil
}

// preferred returns the v3 annotation when present, else the v4 one.
func preferred(lookup func(string) (classfile.Annotation, bool), v3, v4 string) (classfile.Annotation, bool) {
	if a, ok := lookup(v3); ok {
		return a, true
	}
	return lookup(v4)
}

// memberError carries the annotation member that failed to decode.
type memberError struct {
	member string
	err    error
}

func (e *memberError) Error() string {
	return fmt.Sprintf("member %q: %v", e.member, e.err)
}

func (e *memberError) Unwrap() error {
	return e.err
}

func apply[T any](a classfile.Annotation, table map[string]func(T, classfile.Value) error, target T) error {
	for _, name := range a.Order {
		decode, ok := table[name]
		if !ok {
			return &memberError{member: name, err: fmt.Errorf("no such member on %s", a.Type)}
		}
		if err := decode(target, a.Values[name]); err != nil {
			return &memberError{member: name, err: err}
		}
	}
	return nil
}

func decodeError(className string, a classfile.Annotation, err error) *domain.ExtractionError {
	e := domain.NewExtractionError(domain.CodeExtractionFailed,
		fmt.Sprintf("failed to decode @%s", a.Type), err).WithClass(className)
	if me, ok := err.(*memberError); ok {
		e.WithMember(me.member)
	}
	return e
}
