package classfile

import (
	"fmt"
	"io"
)

// ClassDescriptorReader turns the bytes of one compiled class into a
// ClassInfo holding only the annotations it was configured to recognize.
type ClassDescriptorReader interface {
	Read(r io.Reader) (*ClassInfo, error)
}

// ClassInfo is the structural view of a class file needed for descriptor
// extraction. Names are dotted binary names (a.b.Outer$Inner).
type ClassInfo struct {
	Name      string
	SuperName string

	// Version is the class-file major version (52 for Java 8).
	Version int

	Annotations []Annotation
	Fields      []Member
	Methods     []Member
}

// Annotation returns the class-level annotation of the given type.
func (c *ClassInfo) Annotation(typeName string) (Annotation, bool) {
	return findAnnotation(c.Annotations, typeName)
}

// Member is a field, or a setter-style method reported under the name of the
// property it sets.
type Member struct {
	// Name is the field name. For methods it is the property name derived
	// from the setter (setFooBar becomes fooBar).
	Name string

	// Method is the JVM method name; empty for fields.
	Method string

	Descriptor string

	// Type is the Java source type of the field or of the setter argument.
	Type string

	// TypeParameters are the generic arguments of Type taken from the
	// Signature attribute, e.g. [java.lang.String] for List<String>.
	TypeParameters []string

	Access      uint16
	Annotations []Annotation
}

// IsMethod reports whether the member was collected from a setter.
func (m Member) IsMethod() bool {
	return m.Method != ""
}

// Annotation returns the member annotation of the given type.
func (m Member) Annotation(typeName string) (Annotation, bool) {
	return findAnnotation(m.Annotations, typeName)
}

// HasAnnotation reports whether any of the given annotation types is present.
func (m Member) HasAnnotation(typeNames ...string) bool {
	for _, n := range typeNames {
		if _, ok := m.Annotation(n); ok {
			return true
		}
	}
	return false
}

// Annotation is one annotation instance with its explicitly written members.
// Members left at their declared default are absent from Values.
type Annotation struct {
	Type    string
	Visible bool
	Values  map[string]Value
	// Order keeps member names in class-file order.
	Order []string
}

func findAnnotation(list []Annotation, typeName string) (Annotation, bool) {
	for _, a := range list {
		if a.Type == typeName {
			return a, true
		}
	}
	return Annotation{}, false
}

// ValueKind tags the variant held by a Value.
type ValueKind byte

const (
	KindBool ValueKind = iota + 1
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindChar
	KindString
	KindEnum
	KindClass
	KindAnnotation
	KindArray
)

var kindNames = map[ValueKind]string{
	KindBool:       "boolean",
	KindInt:        "int",
	KindLong:       "long",
	KindFloat:      "float",
	KindDouble:     "double",
	KindChar:       "char",
	KindString:     "string",
	KindEnum:       "enum",
	KindClass:      "class",
	KindAnnotation: "annotation",
	KindArray:      "array",
}

func (k ValueKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is an annotation element value. Exactly the fields matching Kind
// are meaningful.
type Value struct {
	Kind ValueKind

	Bool   bool
	Int    int64
	Float  float64
	String string

	// EnumType is the dotted enum class for KindEnum; String holds the constant.
	EnumType string

	// Class holds the dotted class name for KindClass.
	Class string

	Annotation *Annotation
	Elements   []Value
}

// AsString returns the value of a string member.
func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", v.mismatch(KindString)
	}
	return v.String, nil
}

// AsBool returns the value of a boolean member.
func (v Value) AsBool() (bool, error) {
	if v.Kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.Bool, nil
}

// AsEnum returns the constant name of an enum member.
func (v Value) AsEnum() (string, error) {
	if v.Kind != KindEnum {
		return "", v.mismatch(KindEnum)
	}
	return v.String, nil
}

// AsClass returns the dotted class name of a class literal member.
func (v Value) AsClass() (string, error) {
	if v.Kind != KindClass {
		return "", v.mismatch(KindClass)
	}
	return v.Class, nil
}

func (v Value) mismatch(want ValueKind) error {
	return fmt.Errorf("expected %s value, got %s", want, v.Kind)
}

// StringValue builds a string element value.
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

// BoolValue builds a boolean element value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// EnumValue builds an enum element value.
func EnumValue(enumType, constant string) Value {
	return Value{Kind: KindEnum, EnumType: enumType, String: constant}
}

// ClassValue builds a class literal element value.
func ClassValue(className string) Value { return Value{Kind: KindClass, Class: className} }
