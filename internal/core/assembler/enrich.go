package assembler

import (
	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/javasource"
)

// EnrichFromSources returns a copy of classes whose goal, parameter and
// component documentation is filled from doc comments found in lib. Classes
// without a parsed source are copied unchanged. The input map is not
// modified.
func EnrichFromSources(classes map[string]*domain.ScannedClass, hierarchy map[string]string, lib *javasource.Library) map[string]*domain.ScannedClass {
	out := make(map[string]*domain.ScannedClass, len(classes))
	for name, c := range classes {
		out[name] = c.Clone()
	}
	if lib.Len() == 0 {
		return out
	}

	for name, c := range out {
		src, ok := lib.Class(name)
		if !ok {
			continue
		}

		if c.Mojo != nil {
			c.Mojo.Description = src.Doc.Comment()
			if t, ok := lib.FindTag(src, "since"); ok {
				c.Mojo.Since = t.Value
			}
			if t, ok := lib.FindTag(src, "deprecated"); ok {
				c.Mojo.Deprecated = domain.Deprecation(t.Value)
			}
		}

		fields := lib.HierarchyFields(src)
		for _, anc := range Ancestry(c, out, hierarchy) {
			for fieldName, p := range anc.Parameters {
				if f, ok := fields[fieldName]; ok {
					document(&p.Documentation, f.Doc)
				}
			}
		}
		for fieldName, comp := range c.Components {
			if f, ok := fields[fieldName]; ok {
				document(&comp.Documentation, f.Doc)
			}
		}
	}
	return out
}

func document(d *domain.Documentation, doc *javasource.DocComment) {
	d.Description = doc.Comment()
	if t, ok := doc.Tag("deprecated"); ok {
		d.Deprecated = domain.Deprecation(t.Value)
	}
	if t, ok := doc.Tag("since"); ok {
		d.Since = t.Value
	}
}
