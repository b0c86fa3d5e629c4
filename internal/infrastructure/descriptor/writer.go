package descriptor

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"mojoscan.dev/cli/internal/core/domain"
)

const (
	namespaceV4      = "http://maven.apache.org/PLUGIN/2.0.0"
	schemaLocationV4 = "https://maven.apache.org/xsd/plugin-2.0.0-alpha-10.xsd"
	xsiNamespace     = "http://www.w3.org/2001/XMLSchema-instance"

	noReasonGiven = "No reason given"
)

// Generator is written into the leading comment of every descriptor.
var Generator = "mojoscan dev"

// XMLWriter renders plugin descriptors as plugin.xml documents.
type XMLWriter struct{}

// NewXMLWriter creates a descriptor writer.
func NewXMLWriter() *XMLWriter {
	return &XMLWriter{}
}

// Write renders pd to w. The help variant lists goals and parameters sorted
// by name, hides read-only parameters and omits requirements and
// dependencies. A required build-tool version of 4.x selects the 2.0.0
// descriptor model.
func (x *XMLWriter) Write(w io.Writer, pd *domain.PluginDescriptor, help bool) error {
	v4 := strings.HasPrefix(pd.RequiredMavenVersion, "4.")
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	out := &xmlWriter{enc: enc}

	out.token(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)})
	comment := " Generated by " + Generator
	if help {
		comment += " (for help mojo with limited elements)"
	}
	out.token(xml.Comment(comment + " "))

	if v4 {
		out.start("plugin",
			xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: namespaceV4},
			xml.Attr{Name: xml.Name{Local: "xmlns:xsi"}, Value: xsiNamespace},
			xml.Attr{Name: xml.Name{Local: "xsi:schemaLocation"}, Value: namespaceV4 + " " + schemaLocationV4})
	} else {
		out.start("plugin")
	}
	out.element("name", pd.Name)
	out.element("description", pd.Description)
	out.element("groupId", pd.GroupID)
	out.element("artifactId", pd.ArtifactID)
	out.element("version", pd.Version)
	out.element("goalPrefix", pd.GoalPrefix)
	if !help {
		out.element("isolatedRealm", strconv.FormatBool(pd.IsolatedRealm))
		out.element("inheritedByDefault", strconv.FormatBool(pd.InheritedByDefault))
		if strings.TrimSpace(pd.RequiredJavaVersion) != "" {
			out.element("requiredJavaVersion", pd.RequiredJavaVersion)
		}
		if strings.TrimSpace(pd.RequiredMavenVersion) != "" {
			out.element("requiredMavenVersion", pd.RequiredMavenVersion)
		}
	}

	mojos := append([]*domain.MojoDescriptor(nil), pd.Mojos...)
	sort.SliceStable(mojos, func(i, j int) bool { return mojos[i].Goal < mojos[j].Goal })
	out.start("mojos")
	for _, md := range mojos {
		writeMojo(out, md, help, v4)
	}
	out.end("mojos")

	if !help && !v4 {
		out.start("dependencies")
		for _, dep := range pd.Dependencies {
			out.start("dependency")
			out.element("groupId", dep.GroupID)
			out.element("artifactId", dep.ArtifactID)
			out.element("type", orDefault(dep.Type, "jar"))
			out.element("version", dep.Version)
			out.end("dependency")
		}
		out.end("dependencies")
	}
	out.end("plugin")

	if out.err != nil {
		return fmt.Errorf("write descriptor for %s: %w", pd.PluginKey(), out.err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("write descriptor for %s: %w", pd.PluginKey(), err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeMojo(out *xmlWriter, md *domain.MojoDescriptor, help, v4 bool) {
	out.start("mojo")
	out.element("goal", md.Goal)
	if md.Description != "" {
		out.element("description", md.Description)
	}
	if md.DependencyResolution != "" {
		out.element(pick(v4, "dependencyResolution", "requiresDependencyResolution"), md.DependencyResolution)
	}
	if !v4 {
		out.element("requiresDirectInvocation", strconv.FormatBool(md.DirectInvocationOnly))
	}
	out.element(pick(v4, "projectRequired", "requiresProject"), strconv.FormatBool(md.ProjectRequired))
	if !v4 {
		out.element("requiresReports", strconv.FormatBool(md.RequiresReports))
	}
	out.element("aggregator", strconv.FormatBool(md.Aggregator))
	out.element(pick(v4, "onlineRequired", "requiresOnline"), strconv.FormatBool(md.OnlineRequired))
	out.element("inheritedByDefault", strconv.FormatBool(md.InheritedByDefault))
	out.optional("phase", md.Phase)
	out.optional("executePhase", md.ExecutePhase)
	out.optional("executeGoal", md.ExecuteGoal)
	out.optional("executeLifecycle", md.ExecuteLifecycle)
	out.element("implementation", md.Implementation)
	out.element("language", md.Language)
	out.optional("configurator", md.ComponentConfigurator)
	out.optional("composer", md.ComponentComposer)
	if !v4 {
		out.element("instantiationStrategy", md.InstantiationStrategy)
		out.element("executionStrategy", md.ExecutionStrategy)
	}
	out.optional("since", md.Since)
	if md.Deprecated != nil {
		out.element("deprecated", orDefault(*md.Deprecated, noReasonGiven))
	}
	out.optional(pick(v4, "dependencyCollection", "requiresDependencyCollection"), md.DependencyCollection)
	if !v4 {
		out.element("threadSafe", strconv.FormatBool(md.ThreadSafe))
	}

	params := append([]*domain.Parameter(nil), md.Parameters...)
	if help {
		sort.SliceStable(params, func(i, j int) bool { return params[i].Name < params[j].Name })
	}

	var configuration []*domain.Parameter
	out.start("parameters")
	for _, p := range params {
		if domain.IsComponentParameter(p) || (help && !p.Editable) {
			continue
		}
		expression := normalizeExpression(p.Expression)

		out.start("parameter")
		out.element("name", p.Name)
		out.optional("alias", p.Alias)
		out.element("type", chompGenerics(p.Type))
		out.optional("since", p.Since)
		if p.Deprecated != nil {
			out.element("deprecated", orDefault(*p.Deprecated, noReasonGiven))
		}
		if !v4 {
			out.optional("implementation", p.Implementation)
		}
		out.element("required", strconv.FormatBool(p.Required))
		out.element("editable", strconv.FormatBool(p.Editable))
		out.element("description", p.Description)
		if v4 {
			out.optional("defaultValue", p.DefaultValue)
			out.optional("expression", expression)
		} else if p.DefaultValue != "" || expression != "" {
			configuration = append(configuration, p)
		}
		out.end("parameter")
	}
	out.end("parameters")

	if len(configuration) > 0 {
		out.start("configuration")
		for _, p := range configuration {
			var attrs []xml.Attr
			if t := chompGenerics(p.Type); t != "" {
				attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "implementation"}, Value: t})
			}
			if p.DefaultValue != "" {
				attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "default-value"}, Value: p.DefaultValue})
			}
			out.start(p.Name, attrs...)
			if expression := normalizeExpression(p.Expression); expression != "" {
				out.token(xml.CharData(expression))
			}
			out.end(p.Name)
		}
		out.end("configuration")
	}

	if requirements := Requirements(md); !help && !v4 && len(requirements) > 0 {
		out.start("requirements")
		for _, r := range requirements {
			out.start("requirement")
			out.element("role", r.Role)
			out.optional("role-hint", r.RoleHint)
			out.optional("field-name", r.FieldName)
			out.end("requirement")
		}
		out.end("requirements")
	}
	out.end("mojo")
}

// Requirements lists the components injected into a goal: those carried by
// its parameters first, then goal-level requirements not already covered.
func Requirements(md *domain.MojoDescriptor) []*domain.Requirement {
	out := md.ComponentRequirements()
	seen := make(map[string]bool, len(out))
	for _, r := range out {
		seen[requirementKey(r)] = true
	}
	for _, r := range md.Requirements {
		if key := requirementKey(r); !seen[key] {
			seen[key] = true
			out = append(out, r)
		}
	}
	return out
}

func requirementKey(r *domain.Requirement) string {
	if r.FieldName != "" {
		return "field:" + r.FieldName
	}
	return "role:" + r.Role + "#" + r.RoleHint
}

// normalizeExpression wraps a bare property name in ${...}.
func normalizeExpression(expr string) string {
	if strings.TrimSpace(expr) == "" || strings.Contains(expr, "${") {
		return expr
	}
	return "${" + strings.TrimSpace(expr) + "}"
}

// chompGenerics strips type arguments from a parameter type.
func chompGenerics(t string) string {
	if i := strings.IndexByte(t, '<'); i >= 0 {
		return t[:i]
	}
	return t
}

func pick(v4 bool, ifV4, otherwise string) string {
	if v4 {
		return ifV4
	}
	return otherwise
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// xmlWriter keeps the first encoding error so that element sequences can be
// written without checking every call.
type xmlWriter struct {
	enc *xml.Encoder
	err error
}

func (w *xmlWriter) token(t xml.Token) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(t)
	}
}

func (w *xmlWriter) start(name string, attrs ...xml.Attr) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *xmlWriter) end(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *xmlWriter) element(name, value string) {
	w.start(name)
	if value != "" {
		w.token(xml.CharData(value))
	}
	w.end(name)
}

func (w *xmlWriter) optional(name, value string) {
	if value != "" {
		w.element(name, value)
	}
}
