package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/javasource"
	"mojoscan.dev/cli/internal/core/ports"
)

// JavadocName is the id of the doc comment tag extractor.
const JavadocName = "java-javadoc"

// generatedPluginSources is scanned in addition to the compile source roots.
var generatedPluginSources = filepath.Join("target", "generated-sources", "plugin")

// Javadoc builds descriptors from goal tags (@goal, @parameter, ...) in the
// doc comments of Java sources.
type Javadoc struct {
	loader *javasource.Loader
	logger ports.LoggingGateway
}

// NewJavadoc creates the doc comment tag extractor reading through fs.
func NewJavadoc(fs billy.Filesystem, logger ports.LoggingGateway) *Javadoc {
	return &Javadoc{loader: javasource.NewLoader(fs, logger), logger: logger}
}

func (j *Javadoc) Name() string { return JavadocName }
func (j *Javadoc) Group() GroupKey { return GroupKey{Group: GroupJava, Order: 0} }
func (j *Javadoc) Deprecated() bool { return true }

// Extract parses the compile source roots of req and describes every class
// carrying a @goal tag.
func (j *Javadoc) Extract(ctx context.Context, req *domain.PluginToolsRequest) (*domain.ExtractionResult, error) {
	roots := resolveAll(req.BaseDir, req.CompileSourceRoots)
	if req.BaseDir != "" {
		generated := filepath.Join(req.BaseDir, generatedPluginSources)
		if !contains(roots, generated) {
			roots = append(roots, generated)
		}
	}

	lib, err := j.loader.Load(ctx, roots, req.Encoding)
	if err != nil {
		return nil, err
	}

	res := &domain.ExtractionResult{}
	for _, c := range lib.Classes() {
		if !c.Doc.HasTag("goal") {
			continue
		}
		md, err := j.descriptor(lib, c)
		if err != nil {
			return nil, err
		}
		if err := validate(md); err != nil {
			return nil, err
		}
		res.Mojos = append(res.Mojos, md)
	}
	return res, nil
}

func (j *Javadoc) descriptor(lib *javasource.Library, c *javasource.Class) (*domain.MojoDescriptor, error) {
	md := domain.NewMojoDescriptor()
	md.Language = domain.LanguageJava
	md.Implementation = c.Name
	md.Description = c.Doc.Comment()
	md.Source = JavadocName

	if _, ok := lib.FindTag(c, "aggregator"); ok {
		md.Aggregator = true
	}
	if t, ok := lib.FindTag(c, "configurator"); ok {
		md.ComponentConfigurator = t.Value
	}
	if err := executeTag(lib, c, md); err != nil {
		return nil, err
	}
	if t, ok := lib.FindTag(c, "goal"); ok {
		md.Goal = t.Value
	}
	md.InheritedByDefault = boolTag(lib, c, "inheritByDefault", md.InheritedByDefault)
	if t, ok := lib.FindTag(c, "instantiationStrategy"); ok {
		md.InstantiationStrategy = t.Value
	}

	md.ExecutionStrategy = domain.ExecutionOncePerSession
	if _, ok := lib.FindTag(c, "attainAlways"); ok {
		ports.Warn(j.logger, fmt.Sprintf("@attainAlways in %s is deprecated: please use '@executionStrategy always' instead.", c.Name), nil)
		md.ExecutionStrategy = domain.ExecutionAlways
	}
	if t, ok := lib.FindTag(c, "executionStrategy"); ok {
		md.ExecutionStrategy = t.Value
	}

	if t, ok := lib.FindTag(c, "phase"); ok {
		md.Phase = t.Value
	}
	if t, ok := lib.FindTag(c, "requiresDependencyResolution"); ok {
		md.DependencyResolution = orDefault(t.Value, "runtime")
	}
	if t, ok := lib.FindTag(c, "requiresDependencyCollection"); ok {
		md.DependencyCollection = orDefault(t.Value, "runtime")
	}
	md.DirectInvocationOnly = boolTag(lib, c, "requiresDirectInvocation", md.DirectInvocationOnly)
	md.OnlineRequired = boolTag(lib, c, "requiresOnline", md.OnlineRequired)
	md.ProjectRequired = boolTag(lib, c, "requiresProject", md.ProjectRequired)
	md.RequiresReports = boolTag(lib, c, "requiresReports", md.RequiresReports)

	// deprecation is not inherited
	if t, ok := c.Doc.Tag("deprecated"); ok {
		md.Deprecated = domain.Deprecation(t.Value)
	}
	if t, ok := lib.FindTag(c, "since"); ok {
		md.Since = t.Value
	}
	if t, ok := lib.FindTag(c, "threadSafe"); ok {
		md.ThreadSafe = t.Value == "" || strings.EqualFold(t.Value, "true")
	}

	if err := j.parameters(lib, c, md); err != nil {
		return nil, err
	}
	return md, nil
}

func executeTag(lib *javasource.Library, c *javasource.Class, md *domain.MojoDescriptor) error {
	t, ok := lib.FindTag(c, "execute")
	if !ok {
		return nil
	}
	phase, hasPhase := t.NamedParameter("phase")
	goal, hasGoal := t.NamedParameter("goal")
	switch {
	case !hasPhase && !hasGoal:
		return invalidExecute(c, "@execute tag requires either a 'phase' or 'goal' parameter")
	case hasPhase && hasGoal:
		return invalidExecute(c, "@execute tag can have only one of a 'phase' or 'goal' parameter")
	}
	md.ExecutePhase = phase
	md.ExecuteGoal = goal

	if lifecycle, ok := t.NamedParameter("lifecycle"); ok {
		md.ExecuteLifecycle = lifecycle
		if hasGoal {
			return invalidExecute(c, "@execute lifecycle requires a phase instead of a goal")
		}
	}
	return nil
}

func invalidExecute(c *javasource.Class, msg string) error {
	return domain.NewInvalidDescriptorError(domain.CodeInvalidExecute, c.Name+": "+msg).WithClass(c.Name)
}

// parameters adds every field tagged @parameter or @component, walking the
// superclasses first so that a subclass field replaces an inherited one.
func (j *Javadoc) parameters(lib *javasource.Library, c *javasource.Class, md *domain.MojoDescriptor) error {
	fields := make(map[string]*javasource.Field)
	chain := lineage(lib, c)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range chain[i].Fields {
			if f.Doc.HasTag("parameter") || f.Doc.HasTag("component") {
				fields[f.Name] = f
			}
		}
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := fields[name]
		p := &domain.Parameter{
			Name:        name,
			Type:        lib.FieldType(f),
			Description: f.Doc.Comment(),
		}
		if t, ok := f.Doc.Tag("deprecated"); ok {
			p.Deprecated = domain.Deprecation(t.Value)
		}
		if t, ok := f.Doc.Tag("since"); ok {
			p.Since = t.Value
		}

		if t, ok := f.Doc.Tag("component"); ok {
			j.componentTag(c, t, p)
		} else if err := j.parameterTag(c, f, p, md); err != nil {
			return err
		}
		if err := md.AddParameter(p); err != nil {
			return err
		}
	}
	return nil
}

func (j *Javadoc) componentTag(c *javasource.Class, t javasource.Tag, p *domain.Parameter) {
	role, ok := t.NamedParameter("role")
	if !ok {
		role = p.Type
	}
	hint, ok := t.NamedParameter("roleHint")
	if !ok {
		hint, _ = t.NamedParameter("role-hint")
	}

	if domain.IsMavenExpression(role) {
		ports.Warn(j.logger, fmt.Sprintf(
			"Deprecated @component Javadoc tag for '%s' field in %s: replace with @Parameter( defaultValue = \"%s\", readonly = true )",
			p.Name, c.Name, role), nil)
		p.DefaultValue = role
		p.Required = true
	} else {
		p.Requirement = &domain.Requirement{Role: role, RoleHint: hint}
	}
	p.Editable = false
}

func (j *Javadoc) parameterTag(c *javasource.Class, f *javasource.Field, p *domain.Parameter, md *domain.MojoDescriptor) error {
	t, _ := f.Doc.Tag("parameter")
	where := c.Name + "#" + f.Name

	p.Required = f.Doc.HasTag("required")
	p.Editable = !f.Doc.HasTag("readonly")
	if name, _ := t.NamedParameter("name"); name != "" {
		p.Name = name
	}
	if alias, _ := t.NamedParameter("alias"); alias != "" {
		p.Alias = alias
	}

	expression, _ := t.NamedParameter("expression")
	property, _ := t.NamedParameter("property")
	switch {
	case expression != "" && property != "":
		return domain.NewInvalidDescriptorError(domain.CodeInvalidParameter,
			where+": cannot use both @parameter expression and property").WithClass(c.Name)
	case expression != "":
		ports.Warn(j.logger, where+`: the syntax @parameter expression="${property}" is deprecated, please use @parameter property="property" instead.`, nil)
	case property != "":
		expression = "${" + property + "}"
	}
	p.Expression = expression

	if strings.HasPrefix(expression, "${component.") {
		ports.Warn(j.logger, where+`: the syntax @parameter expression="${component.<role>#<roleHint>}" is deprecated, please use @component role="<role>" roleHint="<roleHint>" instead.`, nil)
	}
	if expression == "${reports}" {
		md.RequiresReports = true
	}

	p.DefaultValue, _ = t.NamedParameter("default-value")
	p.Implementation, _ = t.NamedParameter("implementation")
	return nil
}

// validate checks that every parameter has a name, a type and a description.
func validate(md *domain.MojoDescriptor) error {
	for i, p := range md.Parameters {
		var missing string
		switch {
		case p.Name == "":
			missing = "name"
		case p.Type == "":
			missing = "type"
		case p.Description == "":
			missing = "description"
		default:
			continue
		}
		return domain.NewInvalidDescriptorError(domain.CodeInvalidParameter,
			fmt.Sprintf("parameter #%d (%s) is missing its %s", i, p.Name, missing)).
			WithGoal(md.Goal).WithClass(md.Implementation)
	}
	return nil
}

// lineage returns c and its parsed superclasses, most derived first.
func lineage(lib *javasource.Library, c *javasource.Class) []*javasource.Class {
	var out []*javasource.Class
	seen := make(map[string]bool)
	for cur := c; cur != nil && !seen[cur.Name]; {
		seen[cur.Name] = true
		out = append(out, cur)
		next, ok := lib.SuperClass(cur)
		if !ok {
			break
		}
		cur = next
	}
	return out
}

// boolTag reads a boolean tag found up the hierarchy; a bare tag keeps def.
func boolTag(lib *javasource.Library, c *javasource.Class, name string, def bool) bool {
	t, ok := lib.FindTag(c, name)
	if !ok || t.Value == "" {
		return def
	}
	return strings.EqualFold(t.Value, "true")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if filepath.Clean(v) == filepath.Clean(s) {
			return true
		}
	}
	return false
}
