package classfile

import (
	"fmt"
	"strings"
)

var primitiveNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// ClassNameFromInternal converts an internal name (java/lang/String) to its
// dotted form.
func ClassNameFromInternal(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// TypeName converts a field descriptor to a Java type name:
// "Ljava/lang/String;" is java.lang.String and "[I" is int[].
func TypeName(descriptor string) (string, error) {
	name, rest, err := parseFieldType(descriptor)
	if err != nil {
		return "", err
	}
	if rest != "" {
		return "", fmt.Errorf("trailing data in descriptor %q", descriptor)
	}
	return name, nil
}

// MethodTypes splits a method descriptor into argument type names and the
// return type name.
func MethodTypes(descriptor string) ([]string, string, error) {
	if !strings.HasPrefix(descriptor, "(") {
		return nil, "", fmt.Errorf("method descriptor %q does not start with '('", descriptor)
	}
	rest := descriptor[1:]
	var args []string
	for {
		if rest == "" {
			return nil, "", fmt.Errorf("unterminated method descriptor %q", descriptor)
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		name, tail, err := parseFieldType(rest)
		if err != nil {
			return nil, "", err
		}
		args = append(args, name)
		rest = tail
	}
	ret, err := TypeName(rest)
	if err != nil {
		return nil, "", err
	}
	return args, ret, nil
}

func parseFieldType(s string) (string, string, error) {
	dims := 0
	for dims < len(s) && s[dims] == '[' {
		dims++
	}
	if dims == len(s) {
		return "", "", fmt.Errorf("incomplete descriptor %q", s)
	}
	s = s[dims:]
	var name string
	switch c := s[0]; c {
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated class type in %q", s)
		}
		name = ClassNameFromInternal(s[1:end])
		s = s[end+1:]
	default:
		p, ok := primitiveNames[c]
		if !ok {
			return "", "", fmt.Errorf("invalid descriptor character %q", c)
		}
		name = p
		s = s[1:]
	}
	return name + strings.Repeat("[]", dims), s, nil
}

// TypeArguments renders a generic signature the way it would read in source
// and returns the comma separated arguments of its first type argument list.
// For a field "Ljava/util/Map<Ljava/lang/String;Ljava/lang/Integer;>;" it
// yields [java.lang.String java.lang.Integer]; for a method signature the
// first parameter carrying type arguments is used.
func TypeArguments(signature string) ([]string, error) {
	if signature == "" {
		return nil, nil
	}
	p := &signatureParser{s: signature}
	var decl string
	var err error
	if strings.HasPrefix(signature, "(") || strings.HasPrefix(signature, "<") {
		decl, err = p.methodDeclaration()
	} else {
		decl, err = p.referenceType()
	}
	if err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", signature, err)
	}
	start := strings.IndexByte(decl, '<')
	if start < 0 {
		return nil, nil
	}
	end := strings.LastIndexByte(decl, '>')
	return strings.Split(decl[start+1:end], ", "), nil
}

type signatureParser struct {
	s   string
	pos int
}

func (p *signatureParser) peek() (byte, error) {
	if p.pos >= len(p.s) {
		return 0, fmt.Errorf("unexpected end at %d", p.pos)
	}
	return p.s[p.pos], nil
}

func (p *signatureParser) expect(c byte) error {
	got, err := p.peek()
	if err != nil {
		return err
	}
	if got != c {
		return fmt.Errorf("expected %q at %d, got %q", c, p.pos, got)
	}
	p.pos++
	return nil
}

// methodDeclaration renders only the parameter list; type parameters,
// return type and throws clauses do not contribute type arguments.
func (p *signatureParser) methodDeclaration() (string, error) {
	c, err := p.peek()
	if err != nil {
		return "", err
	}
	if c == '<' {
		depth := 0
		for p.pos < len(p.s) {
			switch p.s[p.pos] {
			case '<':
				depth++
			case '>':
				depth--
			}
			p.pos++
			if depth == 0 {
				break
			}
		}
	}
	if err := p.expect('('); err != nil {
		return "", err
	}
	var params []string
	for {
		c, err := p.peek()
		if err != nil {
			return "", err
		}
		if c == ')' {
			p.pos++
			break
		}
		t, err := p.javaTypeSignature()
		if err != nil {
			return "", err
		}
		params = append(params, t)
	}
	return "(" + strings.Join(params, ", ") + ")", nil
}

func (p *signatureParser) javaTypeSignature() (string, error) {
	c, err := p.peek()
	if err != nil {
		return "", err
	}
	if name, ok := primitiveNames[c]; ok {
		p.pos++
		return name, nil
	}
	return p.referenceType()
}

func (p *signatureParser) referenceType() (string, error) {
	c, err := p.peek()
	if err != nil {
		return "", err
	}
	switch c {
	case 'L':
		return p.classType()
	case 'T':
		end := strings.IndexByte(p.s[p.pos:], ';')
		if end < 0 {
			return "", fmt.Errorf("unterminated type variable at %d", p.pos)
		}
		name := p.s[p.pos+1 : p.pos+end]
		p.pos += end + 1
		return name, nil
	case '[':
		p.pos++
		elem, err := p.javaTypeSignature()
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	}
	return "", fmt.Errorf("unexpected %q at %d", c, p.pos)
}

func (p *signatureParser) classType() (string, error) {
	if err := p.expect('L'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		c, err := p.peek()
		if err != nil {
			return "", err
		}
		switch c {
		case ';':
			p.pos++
			return b.String(), nil
		case '/':
			b.WriteByte('.')
			p.pos++
		case '.':
			// inner class of a parameterized outer class
			b.WriteByte('.')
			p.pos++
		case '<':
			p.pos++
			args, err := p.typeArguments()
			if err != nil {
				return "", err
			}
			b.WriteString("<" + strings.Join(args, ", ") + ">")
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

func (p *signatureParser) typeArguments() ([]string, error) {
	var args []string
	for {
		c, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch c {
		case '>':
			p.pos++
			return args, nil
		case '*':
			p.pos++
			args = append(args, "?")
		case '+', '-':
			p.pos++
			t, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			bound := "? extends "
			if c == '-' {
				bound = "? super "
			}
			args = append(args, bound+t)
		default:
			t, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			args = append(args, t)
		}
	}
}
