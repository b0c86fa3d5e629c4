// Package javasource reads Java source files far enough to recover type
// declarations, their superclasses, fields and doc comments. Method bodies
// and expressions are skipped.
package javasource

import (
	"fmt"
	"strings"
)

// Field is a field declaration.
type Field struct {
	Name string

	// Type is the declared type as written, without generic arguments.
	Type   string
	Static bool
	Doc    *DocComment
	Owner  *Class
}

// Class is a class, interface, enum or record declaration.
type Class struct {
	// Name is the binary name: nested types are joined with '$'.
	Name       string
	SimpleName string
	Package    string
	Kind       string

	// Super is the superclass as written in the extends clause.
	Super   string
	Imports []string
	Doc     *DocComment
	Fields  []*Field
	File    string

	nested map[string]string
}

// Field returns the field declared with name.
func (c *Class) Field(name string) (*Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

var modifiers = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"final": true, "abstract": true, "transient": true, "volatile": true,
	"synchronized": true, "native": true, "strictfp": true, "default": true,
	"sealed": true,
}

var typeKeywords = map[string]bool{"class": true, "interface": true, "enum": true, "record": true}

type parser struct {
	toks    []token
	pos     int
	pkg     string
	imports []string
	classes []*Class
}

// Parse returns every type declared in src, nested types included.
func Parse(src []byte) ([]*Class, error) {
	toks, err := lex(string(src))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if err := p.file(); err != nil {
		return nil, err
	}
	for _, c := range p.classes {
		c.Imports = p.imports
	}
	return p.classes, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(kind tokenKind, text string) bool {
	if p.peek().is(kind, text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", p.peek().line, fmt.Sprintf(format, args...))
}

func (p *parser) file() error {
	var doc *DocComment
	for p.peek().kind != tokEOF {
		t := p.peek()
		switch {
		case t.kind == tokDoc:
			doc = parseDoc(p.next().text)
		case t.is(tokPunct, ";"):
			p.next()
		case t.is(tokIdent, "package"):
			p.next()
			p.pkg = p.qualifiedName()
			p.accept(tokPunct, ";")
			doc = nil
		case t.is(tokIdent, "import"):
			p.next()
			static := p.accept(tokIdent, "static")
			name := p.qualifiedName()
			if p.accept(tokPunct, ".") && p.accept(tokPunct, "*") {
				name += ".*"
			}
			p.accept(tokPunct, ";")
			if !static {
				p.imports = append(p.imports, name)
			}
			doc = nil
		default:
			if err := p.typeDecl(nil, doc); err != nil {
				return err
			}
			doc = nil
		}
	}
	return nil
}

func (p *parser) qualifiedName() string {
	var b strings.Builder
	if p.peek().kind != tokIdent {
		return ""
	}
	b.WriteString(p.next().text)
	for p.peek().is(tokPunct, ".") && p.peekAt(1).kind == tokIdent {
		p.next()
		b.WriteByte('.')
		b.WriteString(p.next().text)
	}
	return b.String()
}

// modifiers consumes modifiers and annotations, returning the last doc
// comment seen and whether static was among them.
func (p *parser) modifiers(doc *DocComment) (*DocComment, bool, error) {
	static := false
	for {
		t := p.peek()
		switch {
		case t.kind == tokDoc:
			doc = parseDoc(p.next().text)
		case t.is(tokPunct, "@") && !p.peekAt(1).is(tokIdent, "interface"):
			p.next()
			p.qualifiedName()
			if p.peek().is(tokPunct, "(") {
				if err := p.skipBalanced("(", ")"); err != nil {
					return nil, false, err
				}
			}
		case t.kind == tokIdent && modifiers[t.text]:
			if t.text == "static" {
				static = true
			}
			p.next()
		case t.kind == tokIdent && t.text == "non" && p.peekAt(1).is(tokPunct, "-") && p.peekAt(2).is(tokIdent, "sealed"):
			p.next()
			p.next()
			p.next()
		default:
			return doc, static, nil
		}
	}
}

// isTypeStart reports whether a type declaration begins at the current token.
func (p *parser) isTypeStart() bool {
	t := p.peek()
	if t.is(tokPunct, "@") && p.peekAt(1).is(tokIdent, "interface") {
		return true
	}
	if t.kind != tokIdent || !typeKeywords[t.text] {
		return false
	}
	// "record" is a contextual keyword
	return t.text != "record" || (p.peekAt(1).kind == tokIdent && (p.peekAt(2).is(tokPunct, "(") || p.peekAt(2).is(tokPunct, "<")))
}

func (p *parser) typeDecl(outer *Class, doc *DocComment) error {
	doc, _, err := p.modifiers(doc)
	if err != nil {
		return err
	}
	if !p.isTypeStart() {
		return p.errorf("expected type declaration, found %q", p.peek().text)
	}
	kind := p.next().text
	if kind == "@" {
		kind = "@" + p.next().text
	}
	if p.peek().kind != tokIdent {
		return p.errorf("expected type name")
	}
	simple := p.next().text

	c := &Class{SimpleName: simple, Package: p.pkg, Kind: kind, Doc: doc, nested: map[string]string{}}
	switch {
	case outer != nil:
		c.Name = outer.Name + "$" + simple
		outer.nested[simple] = c.Name
	case p.pkg != "":
		c.Name = p.pkg + "." + simple
	default:
		c.Name = simple
	}
	p.classes = append(p.classes, c)

	if p.peek().is(tokPunct, "<") {
		if err := p.skipBalanced("<", ">"); err != nil {
			return err
		}
	}
	if kind == "record" && p.peek().is(tokPunct, "(") {
		if err := p.skipBalanced("(", ")"); err != nil {
			return err
		}
	}
	for !p.peek().is(tokPunct, "{") {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return p.errorf("unexpected end of file in declaration of %s", simple)
		case t.is(tokIdent, "extends") && kind == "class":
			p.next()
			c.Super = p.typeName()
		case t.is(tokPunct, "<"):
			if err := p.skipBalanced("<", ">"); err != nil {
				return err
			}
		default:
			p.next()
		}
	}
	return p.body(c)
}

// typeName reads a type reference, dropping generic arguments and keeping
// array dimensions.
func (p *parser) typeName() string {
	for p.peek().is(tokPunct, "@") {
		p.next()
		p.qualifiedName()
		if p.peek().is(tokPunct, "(") {
			_ = p.skipBalanced("(", ")")
		}
	}
	name := p.qualifiedName()
	for {
		if p.peek().is(tokPunct, "<") {
			if err := p.skipBalanced("<", ">"); err != nil {
				return name
			}
			continue
		}
		if p.peek().is(tokPunct, ".") && p.peekAt(1).kind == tokIdent {
			p.next()
			name += "." + p.next().text
			continue
		}
		break
	}
	for p.peek().is(tokPunct, "[") && p.peekAt(1).is(tokPunct, "]") {
		p.next()
		p.next()
		name += "[]"
	}
	return name
}

func (p *parser) body(c *Class) error {
	if !p.accept(tokPunct, "{") {
		return p.errorf("expected '{'")
	}
	if c.Kind == "enum" {
		if done, err := p.enumConstants(); err != nil || done {
			return err
		}
	}
	var doc *DocComment
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return p.errorf("unexpected end of file in body of %s", c.SimpleName)
		case t.is(tokPunct, "}"):
			p.next()
			return nil
		case t.is(tokPunct, ";"):
			p.next()
			doc = nil
			continue
		case t.kind == tokDoc:
			doc = parseDoc(p.next().text)
			continue
		}

		mark := p.pos
		memberDoc, static, err := p.modifiers(doc)
		if err != nil {
			return err
		}
		doc = nil
		switch {
		case p.isTypeStart():
			p.pos = mark
			if err := p.typeDecl(c, memberDoc); err != nil {
				return err
			}
		case p.peek().is(tokPunct, "{"):
			if err := p.skipBalanced("{", "}"); err != nil {
				return err
			}
		default:
			if err := p.member(c, memberDoc, static); err != nil {
				return err
			}
		}
	}
}

// enumConstants skips the constant list, reporting whether the body ended.
func (p *parser) enumConstants() (bool, error) {
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return false, p.errorf("unexpected end of file in enum")
		case t.is(tokPunct, ";"):
			p.next()
			return false, nil
		case t.is(tokPunct, "}"):
			p.next()
			return true, nil
		case t.is(tokPunct, "("):
			if err := p.skipBalanced("(", ")"); err != nil {
				return false, err
			}
		case t.is(tokPunct, "{"):
			if err := p.skipBalanced("{", "}"); err != nil {
				return false, err
			}
		default:
			p.next()
		}
	}
}

// member reads a method, constructor or field declaration.
func (p *parser) member(c *Class, doc *DocComment, static bool) error {
	if p.peek().is(tokPunct, "<") {
		if err := p.skipBalanced("<", ">"); err != nil {
			return err
		}
	}
	if p.peek().kind != tokIdent {
		return p.errorf("unexpected %q in body of %s", p.peek().text, c.SimpleName)
	}
	typ := p.typeName()
	if p.peek().is(tokPunct, "(") {
		// constructor
		return p.method()
	}
	if p.peek().kind != tokIdent {
		return p.errorf("unexpected %q after type %s", p.peek().text, typ)
	}
	if p.peekAt(1).is(tokPunct, "(") {
		p.next()
		return p.method()
	}

	for {
		if p.peek().kind != tokIdent {
			return p.errorf("expected field name, found %q", p.peek().text)
		}
		name := p.next().text
		fieldType := typ
		for p.peek().is(tokPunct, "[") && p.peekAt(1).is(tokPunct, "]") {
			p.next()
			p.next()
			fieldType += "[]"
		}
		c.Fields = append(c.Fields, &Field{Name: name, Type: fieldType, Static: static, Doc: doc, Owner: c})

		if p.accept(tokPunct, "=") {
			if err := p.skipInitializer(); err != nil {
				return err
			}
		}
		switch {
		case p.accept(tokPunct, ";"):
			return nil
		case p.accept(tokPunct, ","):
			continue
		default:
			return p.errorf("unexpected %q in field declaration", p.peek().text)
		}
	}
}

// method skips a parameter list, throws clause and body.
func (p *parser) method() error {
	if err := p.skipBalanced("(", ")"); err != nil {
		return err
	}
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return p.errorf("unexpected end of file in method")
		case t.is(tokPunct, ";"):
			p.next()
			return nil
		case t.is(tokPunct, "{"):
			return p.skipBalanced("{", "}")
		case t.is(tokIdent, "default"):
			// annotation element default value
			p.next()
			if err := p.skipInitializer(); err != nil {
				return err
			}
		default:
			p.next()
		}
	}
}

// skipInitializer advances to the ';' ending the declaration or to a ','
// that starts the next declarator.
func (p *parser) skipInitializer() error {
	depth := 0
	for {
		t := p.peek()
		if t.kind == tokEOF {
			return p.errorf("unexpected end of file in initializer")
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
				if depth < 0 {
					return p.errorf("unbalanced %q in initializer", t.text)
				}
			case ";":
				if depth == 0 {
					return nil
				}
			case ",":
				if depth == 0 && p.peekAt(1).kind == tokIdent && p.startsDeclarator(p.peekAt(2)) {
					return nil
				}
			}
		}
		p.next()
	}
}

func (p *parser) startsDeclarator(t token) bool {
	return t.is(tokPunct, "=") || t.is(tokPunct, ";") || t.is(tokPunct, ",") || t.is(tokPunct, "[")
}

// skipBalanced consumes from an opening token through its matching close.
func (p *parser) skipBalanced(open, close string) error {
	if !p.accept(tokPunct, open) {
		return p.errorf("expected %q", open)
	}
	depth := 1
	for depth > 0 {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			return fmt.Errorf("line %d: missing %q", t.line, close)
		case t.is(tokPunct, open):
			depth++
		case t.is(tokPunct, close):
			depth--
		}
	}
	return nil
}
