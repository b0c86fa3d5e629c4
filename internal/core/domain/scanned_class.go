package domain

import "sort"

// SourceGroup tells whether a class came from the project's own output or
// from a dependency.
type SourceGroup int

const (
	SourceProject SourceGroup = iota
	SourceDependency
)

func (g SourceGroup) String() string {
	if g == SourceDependency {
		return "dependency"
	}
	return "project"
}

// ScannedClass is everything recovered from one class file that matters for
// descriptor generation.
type ScannedClass struct {
	ClassName       string
	ParentClassName string

	Mojo       *MojoAnnotationContent
	Execute    *ExecuteAnnotationContent
	Parameters map[string]*ParameterAnnotationContent
	Components map[string]*ComponentAnnotationContent

	Artifact     Artifact
	Source       SourceGroup
	ClassVersion int
	V4API        bool
}

// NewScannedClass returns an empty class record.
func NewScannedClass(className, parentClassName string) *ScannedClass {
	return &ScannedClass{
		ClassName:       className,
		ParentClassName: parentClassName,
		Parameters:      make(map[string]*ParameterAnnotationContent),
		Components:      make(map[string]*ComponentAnnotationContent),
	}
}

// HasAnnotations reports whether any descriptor-relevant annotation was found.
func (c *ScannedClass) HasAnnotations() bool {
	return c.Mojo != nil || c.Execute != nil || len(c.Parameters) > 0 || len(c.Components) > 0
}

// ParameterNames returns the parameter field names in sorted order.
func (c *ScannedClass) ParameterNames() []string {
	names := make([]string, 0, len(c.Parameters))
	for n := range c.Parameters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ComponentNames returns the component field names in sorted order.
func (c *ScannedClass) ComponentNames() []string {
	names := make([]string, 0, len(c.Components))
	for n := range c.Components {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy so documentation can be filled in without
// touching a scan result.
func (c *ScannedClass) Clone() *ScannedClass {
	out := *c
	if c.Mojo != nil {
		m := *c.Mojo
		out.Mojo = &m
	}
	if c.Execute != nil {
		e := *c.Execute
		out.Execute = &e
	}
	out.Parameters = make(map[string]*ParameterAnnotationContent, len(c.Parameters))
	for k, v := range c.Parameters {
		p := *v
		p.TypeParameters = append([]string(nil), v.TypeParameters...)
		out.Parameters[k] = &p
	}
	out.Components = make(map[string]*ComponentAnnotationContent, len(c.Components))
	for k, v := range c.Components {
		comp := *v
		out.Components[k] = &comp
	}
	return &out
}
