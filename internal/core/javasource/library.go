package javasource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"mojoscan.dev/cli/internal/core/ports"
)

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

var javaLang = map[string]bool{
	"AutoCloseable": true, "Boolean": true, "Byte": true, "CharSequence": true,
	"Character": true, "Class": true, "Cloneable": true, "Comparable": true,
	"Double": true, "Enum": true, "Error": true, "Exception": true,
	"Float": true, "Integer": true, "Iterable": true, "Long": true,
	"Math": true, "Number": true, "Object": true, "Process": true,
	"Record": true, "Runnable": true, "RuntimeException": true, "Short": true,
	"String": true, "StringBuffer": true, "StringBuilder": true, "System": true,
	"Thread": true, "Throwable": true, "Void": true,
}

// Library indexes parsed classes by binary name and resolves the type names
// written in them.
type Library struct {
	classes map[string]*Class
}

// NewLibrary creates a library holding classes.
func NewLibrary(classes ...*Class) *Library {
	l := &Library{classes: make(map[string]*Class)}
	l.Add(classes...)
	return l
}

// Add indexes classes, replacing any with the same name.
func (l *Library) Add(classes ...*Class) {
	for _, c := range classes {
		l.classes[c.Name] = c
	}
}

// Class looks a class up by binary name.
func (l *Library) Class(name string) (*Class, bool) {
	if l == nil {
		return nil, false
	}
	c, ok := l.classes[name]
	return c, ok
}

// Classes returns all classes ordered by name.
func (l *Library) Classes() []*Class {
	out := make([]*Class, 0, len(l.classes))
	for _, c := range l.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of classes.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.classes)
}

// ResolveType turns a type name written inside c into a fully qualified
// name. Names that cannot be resolved are qualified with c's package.
func (l *Library) ResolveType(c *Class, written string) string {
	base := strings.TrimSpace(written)
	dims := ""
	for strings.HasSuffix(base, "[]") {
		base = strings.TrimSuffix(base, "[]")
		dims += "[]"
	}
	if base == "" || primitives[base] {
		return base + dims
	}

	first, rest := base, ""
	if i := strings.IndexByte(base, '.'); i >= 0 {
		first, rest = base[:i], base[i+1:]
		if r, _ := utf8.DecodeRuneInString(first); r < 'A' || r > 'Z' {
			// already qualified
			return base + dims
		}
	}
	resolved := l.resolveSimple(c, first)
	if rest != "" {
		resolved += "$" + strings.ReplaceAll(rest, ".", "$")
	}
	return resolved + dims
}

func (l *Library) resolveSimple(c *Class, simple string) string {
	for scope := c; scope != nil; scope = l.outer(scope) {
		if scope.SimpleName == simple {
			return scope.Name
		}
		if nested, ok := scope.nested[simple]; ok {
			return nested
		}
	}
	for _, imp := range c.Imports {
		if strings.HasSuffix(imp, "."+simple) {
			return imp
		}
	}
	if c.Package != "" {
		if _, ok := l.Class(c.Package + "." + simple); ok {
			return c.Package + "." + simple
		}
	} else if _, ok := l.Class(simple); ok {
		return simple
	}
	for _, imp := range c.Imports {
		if pkg, ok := strings.CutSuffix(imp, ".*"); ok {
			if _, found := l.Class(pkg + "." + simple); found {
				return pkg + "." + simple
			}
		}
	}
	if javaLang[simple] {
		return "java.lang." + simple
	}
	if c.Package != "" {
		return c.Package + "." + simple
	}
	return simple
}

func (l *Library) outer(c *Class) *Class {
	i := strings.LastIndexByte(c.Name, '$')
	if i < 0 {
		return nil
	}
	o, _ := l.Class(c.Name[:i])
	return o
}

// SuperClass returns the parsed superclass of c, if it is in the library.
func (l *Library) SuperClass(c *Class) (*Class, bool) {
	if c.Super == "" {
		return nil, false
	}
	return l.Class(l.ResolveType(c, c.Super))
}

// FindTag searches c and then its superclasses for a class-level tag.
func (l *Library) FindTag(c *Class, name string) (Tag, bool) {
	seen := map[string]bool{}
	for cur := c; cur != nil && !seen[cur.Name]; {
		seen[cur.Name] = true
		if t, ok := cur.Doc.Tag(name); ok {
			return t, true
		}
		next, ok := l.SuperClass(cur)
		if !ok {
			break
		}
		cur = next
	}
	return Tag{}, false
}

// HierarchyFields returns the fields of c and its superclasses by name; a
// field declared lower in the hierarchy hides the inherited one.
func (l *Library) HierarchyFields(c *Class) map[string]*Field {
	var chain []*Class
	seen := map[string]bool{}
	for cur := c; cur != nil && !seen[cur.Name]; {
		seen[cur.Name] = true
		chain = append(chain, cur)
		next, ok := l.SuperClass(cur)
		if !ok {
			break
		}
		cur = next
	}
	fields := make(map[string]*Field)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range chain[i].Fields {
			fields[f.Name] = f
		}
	}
	return fields
}

// FieldType returns the fully qualified type of f.
func (l *Library) FieldType(f *Field) string {
	return l.ResolveType(f.Owner, f.Type)
}

// Loader parses the Java sources found below a set of roots.
type Loader struct {
	fs     billy.Filesystem
	logger ports.LoggingGateway
}

// NewLoader creates a loader reading through fs.
func NewLoader(fs billy.Filesystem, logger ports.LoggingGateway) *Loader {
	return &Loader{fs: fs, logger: logger}
}

// Load parses every .java file below roots. Missing roots are skipped and a
// file that does not parse is logged and skipped. Later roots replace
// classes of earlier ones.
func (ld *Loader) Load(ctx context.Context, roots []string, encoding string) (*Library, error) {
	enc, err := Encoding(encoding)
	if err != nil {
		return nil, err
	}

	lib := NewLibrary()
	for _, root := range roots {
		if root == "" {
			continue
		}
		if _, err := ld.fs.Stat(root); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				ports.Debug(ld.logger, "Skipping missing source root", map[string]interface{}{"root": root})
				continue
			}
			return nil, fmt.Errorf("source root %s: %w", root, err)
		}
		err := util.Walk(ld.fs, root, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if fi.IsDir() || !strings.HasSuffix(p, ".java") {
				return nil
			}
			data, err := util.ReadFile(ld.fs, p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			src, err := decode(enc, data)
			if err != nil {
				return fmt.Errorf("decode %s as %s: %w", p, encoding, err)
			}
			classes, err := Parse(src)
			if err != nil {
				ports.Warn(ld.logger, fmt.Sprintf("Unable to parse %s: ignoring file", p), map[string]interface{}{
					"error": err.Error(),
				})
				return nil
			}
			for _, c := range classes {
				c.File = filepath.ToSlash(p)
			}
			lib.Add(classes...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	ports.Debug(ld.logger, "Parsed Java sources", map[string]interface{}{"classes": lib.Len()})
	return lib, nil
}
