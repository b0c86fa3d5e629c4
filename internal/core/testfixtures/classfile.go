package testfixtures

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
)

// Annotation type names of the plugin API, as written in test class files.
const (
	MojoAnnotation      = "org.apache.maven.plugins.annotations.Mojo"
	ExecuteAnnotation   = "org.apache.maven.plugins.annotations.Execute"
	ParameterAnnotation = "org.apache.maven.plugins.annotations.Parameter"
	ComponentAnnotation = "org.apache.maven.plugins.annotations.Component"

	MojoV4Annotation      = "org.apache.maven.api.plugin.annotations.Mojo"
	ParameterV4Annotation = "org.apache.maven.api.plugin.annotations.Parameter"

	LifecyclePhaseEnum        = "org.apache.maven.plugins.annotations.LifecyclePhase"
	ResolutionScopeEnum       = "org.apache.maven.plugins.annotations.ResolutionScope"
	InstantiationStrategyEnum = "org.apache.maven.plugins.annotations.InstantiationStrategy"

	DeprecatedAnnotation = "java.lang.Deprecated"
)

// Access flags for WithMethod.
const (
	AccPublic uint16 = 0x0001
	AccStatic uint16 = 0x0008
)

// ObjectDesc returns the field descriptor of a dotted class name.
func ObjectDesc(className string) string {
	return "L" + internalName(className) + ";"
}

func internalName(className string) string {
	return strings.ReplaceAll(className, ".", "/")
}

// AnnotationBuilder provides a builder pattern for annotation instances
// written into test class files
type AnnotationBuilder struct {
	typeName string
	visible  bool
	elements []annotationElement
}

type annotationElement struct {
	name  string
	value elementValue
}

type elementValue struct {
	tag      byte
	str      string
	num      int64
	real     float64
	enumType string
	nested   *AnnotationBuilder
	elements []elementValue
}

// NewAnnotation creates an invisible (class retention) annotation of the given type
func NewAnnotation(typeName string) *AnnotationBuilder {
	return &AnnotationBuilder{typeName: typeName}
}

// Visible marks the annotation as runtime visible
func (a *AnnotationBuilder) Visible() *AnnotationBuilder {
	a.visible = true
	return a
}

// String adds a string member
func (a *AnnotationBuilder) String(name, value string) *AnnotationBuilder {
	return a.add(name, elementValue{tag: 's', str: value})
}

// Bool adds a boolean member
func (a *AnnotationBuilder) Bool(name string, value bool) *AnnotationBuilder {
	n := int64(0)
	if value {
		n = 1
	}
	return a.add(name, elementValue{tag: 'Z', num: n})
}

// Int adds an int member
func (a *AnnotationBuilder) Int(name string, value int32) *AnnotationBuilder {
	return a.add(name, elementValue{tag: 'I', num: int64(value)})
}

// Long adds a long member
func (a *AnnotationBuilder) Long(name string, value int64) *AnnotationBuilder {
	return a.add(name, elementValue{tag: 'J', num: value})
}

// Double adds a double member
func (a *AnnotationBuilder) Double(name string, value float64) *AnnotationBuilder {
	return a.add(name, elementValue{tag: 'D', real: value})
}

// Enum adds an enum constant member
func (a *AnnotationBuilder) Enum(name, enumType, constant string) *AnnotationBuilder {
	return a.add(name, elementValue{tag: 'e', enumType: enumType, str: constant})
}

// Class adds a class literal member
func (a *AnnotationBuilder) Class(name, className string) *AnnotationBuilder {
	return a.add(name, elementValue{tag: 'c', str: className})
}

// Strings adds a string array member
func (a *AnnotationBuilder) Strings(name string, values ...string) *AnnotationBuilder {
	elems := make([]elementValue, 0, len(values))
	for _, v := range values {
		elems = append(elems, elementValue{tag: 's', str: v})
	}
	return a.add(name, elementValue{tag: '[', elements: elems})
}

// Nested adds a nested annotation member
func (a *AnnotationBuilder) Nested(name string, nested *AnnotationBuilder) *AnnotationBuilder {
	return a.add(name, elementValue{tag: '@', nested: nested})
}

func (a *AnnotationBuilder) add(name string, v elementValue) *AnnotationBuilder {
	a.elements = append(a.elements, annotationElement{name: name, value: v})
	return a
}

type memberSpec struct {
	access      uint16
	name        string
	descriptor  string
	signature   string
	annotations []*AnnotationBuilder
	code        bool
}

// ClassBuilder provides a builder pattern for class files. The output is a
// valid class file containing only what the builder was told about, plus
// an opaque Code attribute on methods so readers must skip it.
type ClassBuilder struct {
	name        string
	super       string
	major       uint16
	annotations []*AnnotationBuilder
	fields      []memberSpec
	methods     []memberSpec
}

// NewClassBuilder creates a Java 8 class extending java.lang.Object
func NewClassBuilder(className string) *ClassBuilder {
	return &ClassBuilder{
		name:  className,
		super: "java.lang.Object",
		major: 52,
	}
}

// WithSuper sets the parent class; an empty name writes no super class
func (b *ClassBuilder) WithSuper(className string) *ClassBuilder {
	b.super = className
	return b
}

// WithVersion sets the class-file major version
func (b *ClassBuilder) WithVersion(major uint16) *ClassBuilder {
	b.major = major
	return b
}

// WithAnnotation adds a class-level annotation
func (b *ClassBuilder) WithAnnotation(a *AnnotationBuilder) *ClassBuilder {
	b.annotations = append(b.annotations, a)
	return b
}

// WithField adds a private field
func (b *ClassBuilder) WithField(name, descriptor string, annotations ...*AnnotationBuilder) *ClassBuilder {
	b.fields = append(b.fields, memberSpec{access: 0x0002, name: name, descriptor: descriptor, annotations: annotations})
	return b
}

// WithGenericField adds a private field carrying a Signature attribute
func (b *ClassBuilder) WithGenericField(name, descriptor, signature string, annotations ...*AnnotationBuilder) *ClassBuilder {
	b.fields = append(b.fields, memberSpec{access: 0x0002, name: name, descriptor: descriptor, signature: signature, annotations: annotations})
	return b
}

// WithMethod adds a method with the given access flags
func (b *ClassBuilder) WithMethod(access uint16, name, descriptor string, annotations ...*AnnotationBuilder) *ClassBuilder {
	b.methods = append(b.methods, memberSpec{access: access, name: name, descriptor: descriptor, annotations: annotations, code: true})
	return b
}

// WithGenericMethod adds a method carrying a Signature attribute
func (b *ClassBuilder) WithGenericMethod(access uint16, name, descriptor, signature string, annotations ...*AnnotationBuilder) *ClassBuilder {
	b.methods = append(b.methods, memberSpec{access: access, name: name, descriptor: descriptor, signature: signature, annotations: annotations, code: true})
	return b
}

// Build encodes the class file
func (b *ClassBuilder) Build() []byte {
	pool := newPoolWriter()
	body := &bytes.Buffer{}

	put16(body, 0x0021) // public super
	put16(body, pool.class(b.name))
	if b.super == "" {
		put16(body, 0)
	} else {
		put16(body, pool.class(b.super))
	}
	put16(body, 0) // interfaces

	put16(body, uint16(len(b.fields)))
	for _, f := range b.fields {
		writeMember(body, pool, f)
	}
	put16(body, uint16(len(b.methods)))
	for _, m := range b.methods {
		writeMember(body, pool, m)
	}
	writeAttributes(body, pool, "", b.annotations)

	out := &bytes.Buffer{}
	put32(out, 0xCAFEBABE)
	put16(out, 0)
	put16(out, b.major)
	pool.writeTo(out)
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeMember(w *bytes.Buffer, pool *poolWriter, m memberSpec) {
	put16(w, m.access)
	put16(w, pool.utf8(m.name))
	put16(w, pool.utf8(m.descriptor))

	extra := 0
	if m.code {
		extra = 1
	}
	count, attrs := annotationAttributes(pool, m.signature, m.annotations)
	put16(w, uint16(count+extra))
	if m.code {
		// max_stack, max_locals, code_length=1 (return), no handlers, no attributes
		code := []byte{0, 1, 0, 1, 0, 0, 0, 1, 0xB1, 0, 0, 0, 0}
		put16(w, pool.utf8("Code"))
		put32(w, uint32(len(code)))
		w.Write(code)
	}
	w.Write(attrs)
}

func writeAttributes(w *bytes.Buffer, pool *poolWriter, signature string, annotations []*AnnotationBuilder) {
	count, attrs := annotationAttributes(pool, signature, annotations)
	put16(w, uint16(count+1))
	// SourceFile attribute, skipped by readers
	put16(w, pool.utf8("SourceFile"))
	put32(w, 2)
	put16(w, pool.utf8("Test.java"))
	w.Write(attrs)
}

func annotationAttributes(pool *poolWriter, signature string, annotations []*AnnotationBuilder) (int, []byte) {
	out := &bytes.Buffer{}
	count := 0
	if signature != "" {
		put16(out, pool.utf8("Signature"))
		put32(out, 2)
		put16(out, pool.utf8(signature))
		count++
	}
	var visible, invisible []*AnnotationBuilder
	for _, a := range annotations {
		if a.visible {
			visible = append(visible, a)
		} else {
			invisible = append(invisible, a)
		}
	}
	for _, group := range []struct {
		name string
		list []*AnnotationBuilder
	}{
		{"RuntimeVisibleAnnotations", visible},
		{"RuntimeInvisibleAnnotations", invisible},
	} {
		if len(group.list) == 0 {
			continue
		}
		body := &bytes.Buffer{}
		put16(body, uint16(len(group.list)))
		for _, a := range group.list {
			writeAnnotation(body, pool, a)
		}
		put16(out, pool.utf8(group.name))
		put32(out, uint32(body.Len()))
		out.Write(body.Bytes())
		count++
	}
	return count, out.Bytes()
}

func writeAnnotation(w *bytes.Buffer, pool *poolWriter, a *AnnotationBuilder) {
	put16(w, pool.utf8(ObjectDesc(a.typeName)))
	put16(w, uint16(len(a.elements)))
	for _, e := range a.elements {
		put16(w, pool.utf8(e.name))
		writeElementValue(w, pool, e.value)
	}
}

func writeElementValue(w *bytes.Buffer, pool *poolWriter, v elementValue) {
	w.WriteByte(v.tag)
	switch v.tag {
	case 's':
		put16(w, pool.utf8(v.str))
	case 'Z', 'I', 'B', 'C', 'S':
		put16(w, pool.integer(int32(v.num)))
	case 'J':
		put16(w, pool.long(v.num))
	case 'D':
		put16(w, pool.double(v.real))
	case 'e':
		put16(w, pool.utf8(ObjectDesc(v.enumType)))
		put16(w, pool.utf8(v.str))
	case 'c':
		put16(w, pool.utf8(ObjectDesc(v.str)))
	case '@':
		writeAnnotation(w, pool, v.nested)
	case '[':
		put16(w, uint16(len(v.elements)))
		for _, e := range v.elements {
			writeElementValue(w, pool, e)
		}
	}
}

// poolWriter builds a constant pool, reusing identical entries
type poolWriter struct {
	entries [][]byte
	index   map[string]uint16
	next    uint16
}

func newPoolWriter() *poolWriter {
	return &poolWriter{index: map[string]uint16{}, next: 1}
}

func (p *poolWriter) intern(key string, entry []byte, slots uint16) uint16 {
	if i, ok := p.index[key]; ok {
		return i
	}
	i := p.next
	p.index[key] = i
	p.entries = append(p.entries, entry)
	p.next += slots
	return i
}

func (p *poolWriter) utf8(s string) uint16 {
	e := &bytes.Buffer{}
	e.WriteByte(1)
	put16(e, uint16(len(s)))
	e.WriteString(s)
	return p.intern("u:"+s, e.Bytes(), 1)
}

func (p *poolWriter) class(className string) uint16 {
	nameIdx := p.utf8(internalName(className))
	e := &bytes.Buffer{}
	e.WriteByte(7)
	put16(e, nameIdx)
	return p.intern("c:"+className, e.Bytes(), 1)
}

func (p *poolWriter) integer(v int32) uint16 {
	e := &bytes.Buffer{}
	e.WriteByte(3)
	put32(e, uint32(v))
	return p.intern(string(e.Bytes()), e.Bytes(), 1)
}

func (p *poolWriter) long(v int64) uint16 {
	e := &bytes.Buffer{}
	e.WriteByte(5)
	_ = binary.Write(e, binary.BigEndian, v)
	return p.intern(string(e.Bytes()), e.Bytes(), 2)
}

func (p *poolWriter) double(v float64) uint16 {
	e := &bytes.Buffer{}
	e.WriteByte(6)
	_ = binary.Write(e, binary.BigEndian, math.Float64bits(v))
	return p.intern(string(e.Bytes()), e.Bytes(), 2)
}

func (p *poolWriter) writeTo(w *bytes.Buffer) {
	put16(w, p.next)
	for _, e := range p.entries {
		w.Write(e)
	}
}

func put16(w *bytes.Buffer, v uint16) {
	_ = binary.Write(w, binary.BigEndian, v)
}

func put32(w *bytes.Buffer, v uint32) {
	_ = binary.Write(w, binary.BigEndian, v)
}
