package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf16"
)

// ErrMalformedClass is wrapped by every error caused by class bytes that do
// not follow the class-file format.
var ErrMalformedClass = errors.New("malformed class file")

const classMagic = 0xCAFEBABE

// Access flags used by the setter rule.
const (
	AccPublic uint16 = 0x0001
	AccStatic uint16 = 0x0008
)

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Attribute names read by the parser; all others are skipped by length.
const (
	attrVisibleAnnotations   = "RuntimeVisibleAnnotations"
	attrInvisibleAnnotations = "RuntimeInvisibleAnnotations"
	attrSignature            = "Signature"
)

// Parser is the class-file backed ClassDescriptorReader. It reads the
// constant pool, the class header, fields and methods, and the annotation
// and signature attributes. Method bodies, frames and debug attributes are
// never decoded.
type Parser struct {
	filter Filter
}

var _ ClassDescriptorReader = (*Parser)(nil)

// NewParser creates a parser that keeps the annotations admitted by filter.
func NewParser(filter Filter) *Parser {
	return &Parser{filter: filter}
}

// Read consumes r completely and parses it.
func (p *Parser) Read(r io.Reader) (*ClassInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read class bytes: %w", err)
	}
	return p.Parse(data)
}

// Parse decodes one class file.
func (p *Parser) Parse(data []byte) (*ClassInfo, error) {
	c := &cursor{b: data}
	if c.u4() != classMagic {
		if c.err != nil {
			return nil, c.malformed("header")
		}
		return nil, fmt.Errorf("%w: bad magic number", ErrMalformedClass)
	}
	c.u2() // minor version
	info := &ClassInfo{Version: int(c.u2())}

	pool, err := readConstantPool(c)
	if err != nil {
		return nil, err
	}

	c.u2() // access flags
	thisClass, superClass := c.u2(), c.u2()
	if c.err != nil {
		return nil, c.malformed("class header")
	}
	if info.Name, err = pool.className(thisClass); err != nil {
		return nil, err
	}
	if superClass != 0 {
		if info.SuperName, err = pool.className(superClass); err != nil {
			return nil, err
		}
	}
	c.skip(2 * int(c.u2())) // interfaces

	fieldCount := int(c.u2())
	for i := 0; i < fieldCount; i++ {
		m, err := p.readMember(c, pool, false)
		if err != nil {
			return nil, err
		}
		if m != nil {
			info.Fields = append(info.Fields, *m)
		}
	}

	methodCount := int(c.u2())
	for i := 0; i < methodCount; i++ {
		m, err := p.readMember(c, pool, true)
		if err != nil {
			return nil, err
		}
		if m != nil {
			info.Methods = append(info.Methods, *m)
		}
	}

	attrs, err := readAttributes(c, pool)
	if err != nil {
		return nil, err
	}
	info.Annotations, err = p.annotations(attrs, pool, p.filter.Class)
	if err != nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.malformed("class body")
	}
	return info, nil
}

// readMember reads a field or method. Methods that are not setter-shaped
// are consumed and dropped.
func (p *Parser) readMember(c *cursor, pool constantPool, method bool) (*Member, error) {
	access := c.u2()
	nameIdx, descIdx := c.u2(), c.u2()
	if c.err != nil {
		return nil, c.malformed("member header")
	}
	attrs, err := readAttributes(c, pool)
	if err != nil {
		return nil, err
	}
	name, err := pool.utf8(nameIdx)
	if err != nil {
		return nil, err
	}
	desc, err := pool.utf8(descIdx)
	if err != nil {
		return nil, err
	}

	m := &Member{Name: name, Descriptor: desc, Access: access}
	level := p.filter.Field
	if method {
		field, argType, ok, err := setterProperty(access, name, desc)
		if err != nil {
			return nil, fmt.Errorf("%w: method %s%s: %v", ErrMalformedClass, name, desc, err)
		}
		if !ok {
			return nil, nil
		}
		m.Method, m.Name, m.Type = name, field, argType
		level = p.filter.Method
	} else {
		if m.Type, err = TypeName(desc); err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrMalformedClass, name, err)
		}
	}

	if sig, ok := attrs[attrSignature]; ok {
		sc := &cursor{b: sig}
		s, err := pool.utf8(sc.u2())
		if err != nil {
			return nil, err
		}
		if m.TypeParameters, err = TypeArguments(s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
		}
	}

	if m.Annotations, err = p.annotations(attrs, pool, level); err != nil {
		return nil, err
	}
	return m, nil
}

// setterProperty applies the setter rule: a public, non-static addX or setX
// method taking one argument and returning void sets property x.
func setterProperty(access uint16, name, desc string) (string, string, bool, error) {
	if access&AccPublic == 0 || access&AccStatic != 0 {
		return "", "", false, nil
	}
	if len(name) < 4 || !(strings.HasPrefix(name, "add") || strings.HasPrefix(name, "set")) {
		return "", "", false, nil
	}
	args, ret, err := MethodTypes(desc)
	if err != nil {
		return "", "", false, err
	}
	if ret != "void" || len(args) != 1 {
		return "", "", false, nil
	}
	return lowerFirst(name[3:]), args[0], true, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (p *Parser) annotations(attrs map[string][]byte, pool constantPool, level map[string]bool) ([]Annotation, error) {
	var out []Annotation
	for _, attr := range []struct {
		name    string
		visible bool
	}{
		{attrVisibleAnnotations, true},
		{attrInvisibleAnnotations, false},
	} {
		raw, ok := attrs[attr.name]
		if !ok {
			continue
		}
		c := &cursor{b: raw}
		n := int(c.u2())
		for i := 0; i < n; i++ {
			a, err := readAnnotation(c, pool)
			if err != nil {
				return nil, err
			}
			if c.err != nil {
				return nil, c.malformed(attr.name)
			}
			a.Visible = attr.visible
			if keep(level, a.Type) {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func readAnnotation(c *cursor, pool constantPool) (Annotation, error) {
	typeDesc, err := pool.utf8(c.u2())
	if err != nil {
		return Annotation{}, err
	}
	typeName, err := TypeName(typeDesc)
	if err != nil {
		return Annotation{}, fmt.Errorf("%w: annotation type: %v", ErrMalformedClass, err)
	}
	a := Annotation{Type: typeName, Values: map[string]Value{}}
	pairs := int(c.u2())
	for i := 0; i < pairs; i++ {
		name, err := pool.utf8(c.u2())
		if err != nil {
			return Annotation{}, err
		}
		v, err := readElementValue(c, pool)
		if err != nil {
			return Annotation{}, err
		}
		if _, dup := a.Values[name]; !dup {
			a.Order = append(a.Order, name)
		}
		a.Values[name] = v
	}
	return a, nil
}

func readElementValue(c *cursor, pool constantPool) (Value, error) {
	tag := c.u1()
	if c.err != nil {
		return Value{}, c.malformed("element value")
	}
	switch tag {
	case 'B', 'I', 'S':
		e, err := pool.entry(c.u2(), tagInteger)
		return Value{Kind: KindInt, Int: e.num}, err
	case 'C':
		e, err := pool.entry(c.u2(), tagInteger)
		return Value{Kind: KindChar, Int: e.num}, err
	case 'Z':
		e, err := pool.entry(c.u2(), tagInteger)
		return Value{Kind: KindBool, Bool: e.num != 0}, err
	case 'J':
		e, err := pool.entry(c.u2(), tagLong)
		return Value{Kind: KindLong, Int: e.num}, err
	case 'F':
		e, err := pool.entry(c.u2(), tagFloat)
		return Value{Kind: KindFloat, Float: e.real}, err
	case 'D':
		e, err := pool.entry(c.u2(), tagDouble)
		return Value{Kind: KindDouble, Float: e.real}, err
	case 's':
		s, err := pool.utf8(c.u2())
		return Value{Kind: KindString, String: s}, err
	case 'e':
		typeDesc, err := pool.utf8(c.u2())
		if err != nil {
			return Value{}, err
		}
		constant, err := pool.utf8(c.u2())
		if err != nil {
			return Value{}, err
		}
		enumType, err := TypeName(typeDesc)
		if err != nil {
			return Value{}, fmt.Errorf("%w: enum type: %v", ErrMalformedClass, err)
		}
		return EnumValue(enumType, constant), nil
	case 'c':
		desc, err := pool.utf8(c.u2())
		if err != nil {
			return Value{}, err
		}
		name, err := TypeName(desc)
		if err != nil {
			return Value{}, fmt.Errorf("%w: class literal: %v", ErrMalformedClass, err)
		}
		return ClassValue(name), nil
	case '@':
		nested, err := readAnnotation(c, pool)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindAnnotation, Annotation: &nested}, nil
	case '[':
		n := int(c.u2())
		elems := make([]Value, 0, n)
		for i := 0; i < n; i++ {
			v, err := readElementValue(c, pool)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Value{Kind: KindArray, Elements: elems}, nil
	}
	return Value{}, fmt.Errorf("%w: unknown element value tag %q", ErrMalformedClass, tag)
}

func readAttributes(c *cursor, pool constantPool) (map[string][]byte, error) {
	n := int(c.u2())
	attrs := make(map[string][]byte)
	for i := 0; i < n; i++ {
		nameIdx := c.u2()
		length := int(c.u4())
		body := c.bytes(length)
		if c.err != nil {
			return nil, c.malformed("attribute")
		}
		name, err := pool.utf8(nameIdx)
		if err != nil {
			return nil, err
		}
		switch name {
		case attrVisibleAnnotations, attrInvisibleAnnotations, attrSignature:
			attrs[name] = body
		}
	}
	return attrs, nil
}

type cpEntry struct {
	tag  uint8
	str  string
	ref  uint16
	num  int64
	real float64
}

type constantPool []cpEntry

func readConstantPool(c *cursor) (constantPool, error) {
	count := int(c.u2())
	if c.err != nil {
		return nil, c.malformed("constant pool count")
	}
	pool := make(constantPool, count)
	for i := 1; i < count; i++ {
		tag := c.u1()
		e := cpEntry{tag: tag}
		switch tag {
		case tagUtf8:
			raw := c.bytes(int(c.u2()))
			if c.err != nil {
				break
			}
			s, err := decodeModifiedUTF8(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: constant %d: %v", ErrMalformedClass, i, err)
			}
			e.str = s
		case tagInteger:
			e.num = int64(int32(c.u4()))
		case tagFloat:
			e.real = float64(math.Float32frombits(c.u4()))
		case tagLong:
			e.num = int64(c.u8())
		case tagDouble:
			e.real = math.Float64frombits(c.u8())
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.ref = c.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			c.skip(4)
		case tagMethodHandle:
			c.skip(3)
		default:
			if c.err == nil {
				return nil, fmt.Errorf("%w: unknown constant pool tag %d at index %d", ErrMalformedClass, tag, i)
			}
		}
		if c.err != nil {
			return nil, c.malformed("constant pool")
		}
		pool[i] = e
		if tag == tagLong || tag == tagDouble {
			i++
		}
	}
	return pool, nil
}

func (p constantPool) entry(idx uint16, tag uint8) (cpEntry, error) {
	if int(idx) <= 0 || int(idx) >= len(p) {
		return cpEntry{}, fmt.Errorf("%w: constant pool index %d out of range", ErrMalformedClass, idx)
	}
	e := p[idx]
	if e.tag != tag {
		return cpEntry{}, fmt.Errorf("%w: constant %d has tag %d, want %d", ErrMalformedClass, idx, e.tag, tag)
	}
	return e, nil
}

func (p constantPool) utf8(idx uint16) (string, error) {
	e, err := p.entry(idx, tagUtf8)
	return e.str, err
}

func (p constantPool) className(idx uint16) (string, error) {
	e, err := p.entry(idx, tagClass)
	if err != nil {
		return "", err
	}
	name, err := p.utf8(e.ref)
	if err != nil {
		return "", err
	}
	return ClassNameFromInternal(name), nil
}

// decodeModifiedUTF8 decodes the class-file string encoding: NUL is two
// bytes and supplementary characters are stored as surrogate pairs.
func decodeModifiedUTF8(b []byte) (string, error) {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) {
				return "", errors.New("truncated two-byte sequence")
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) {
				return "", errors.New("truncated three-byte sequence")
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("invalid byte 0x%02x", c)
		}
	}
	return string(utf16.Decode(units)), nil
}

// cursor reads big-endian values and remembers the first overrun.
type cursor struct {
	b   []byte
	off int
	err error
}

func (c *cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.off+n > len(c.b) {
		c.err = io.ErrUnexpectedEOF
		return nil
	}
	out := c.b[c.off : c.off+n]
	c.off += n
	return out
}

func (c *cursor) u1() uint8 {
	if b := c.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (c *cursor) u2() uint16 {
	if b := c.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (c *cursor) u4() uint32 {
	if b := c.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (c *cursor) u8() uint64 {
	if b := c.take(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

func (c *cursor) bytes(n int) []byte {
	return c.take(n)
}

func (c *cursor) skip(n int) {
	c.take(n)
}

func (c *cursor) malformed(where string) error {
	return fmt.Errorf("%w: %s at offset %d: %v", ErrMalformedClass, where, c.off, c.err)
}
