// Package assembler turns scanned classes into goal descriptors, resolving
// inherited parameters, components and forked executions along each
// goal's superclass chain.
package assembler

import (
	"fmt"
	"sort"
	"strings"

	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/ports"
)

// SourceAnnotations identifies descriptors built from class annotations.
const SourceAnnotations = "java-annotations"

// Assembler builds descriptors from a scan. It keeps no state between calls.
type Assembler struct {
	logger ports.LoggingGateway
}

// New creates an assembler that reports warnings through logger.
func New(logger ports.LoggingGateway) *Assembler {
	return &Assembler{logger: logger}
}

// Assemble builds one descriptor per project class declaring a goal.
// hierarchy maps every class read to its parent so the walk can cross
// classes that carry no annotations; it may be nil.
func (a *Assembler) Assemble(classes map[string]*domain.ScannedClass, hierarchy map[string]string) ([]*domain.MojoDescriptor, error) {
	names := make([]string, 0, len(classes))
	for name, c := range classes {
		if c.Mojo != nil && c.Source == domain.SourceProject {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var out []*domain.MojoDescriptor
	byGoal := make(map[string]*domain.MojoDescriptor)
	for _, name := range names {
		md, err := a.descriptor(classes[name], Ancestry(classes[name], classes, hierarchy))
		if err != nil {
			return nil, err
		}
		if prev, ok := byGoal[md.Goal]; ok {
			return nil, domain.NewExtractionError(domain.CodeDuplicateGoal,
				fmt.Sprintf("goal %q is declared by both %s and %s", md.Goal, prev.Implementation, md.Implementation),
				nil).WithClass(md.Implementation)
		}
		byGoal[md.Goal] = md
		out = append(out, md)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Goal < out[j].Goal })
	return out, nil
}

// Ancestry returns c followed by its annotated ancestors, most derived
// first. The walk crosses classes known only from hierarchy and stops at the
// first class that was never read.
func Ancestry(c *domain.ScannedClass, classes map[string]*domain.ScannedClass, hierarchy map[string]string) []*domain.ScannedClass {
	chain := []*domain.ScannedClass{c}
	seen := map[string]bool{c.ClassName: true}
	parent := c.ParentClassName
	for parent != "" && !seen[parent] {
		seen[parent] = true
		if pc, ok := classes[parent]; ok {
			chain = append(chain, pc)
			parent = pc.ParentClassName
			continue
		}
		next, ok := hierarchy[parent]
		if !ok {
			break
		}
		parent = next
	}
	return chain
}

func (a *Assembler) descriptor(c *domain.ScannedClass, chain []*domain.ScannedClass) (*domain.MojoDescriptor, error) {
	mojo := c.Mojo
	if strings.TrimSpace(mojo.Name) == "" {
		return nil, domain.NewInvalidDescriptorError(domain.CodeInvalidDescriptor, "goal annotation without a name").
			WithClass(c.ClassName)
	}

	md := domain.NewMojoDescriptor()
	md.Goal = mojo.Name
	md.Implementation = c.ClassName
	md.Language = domain.LanguageJava
	md.Source = SourceAnnotations
	md.Description = mojo.Description
	md.Since = mojo.Since
	md.Deprecated = mojo.Deprecated
	md.Phase = mojo.DefaultPhase.ID()
	md.DependencyResolution = mojo.RequiresDependencyResolution.ID()
	md.DependencyCollection = mojo.RequiresDependencyCollection.ID()
	md.InstantiationStrategy = mojo.InstantiationStrategy.ID()
	md.ExecutionStrategy = mojo.ExecutionStrategy
	md.ComponentConfigurator = mojo.Configurator
	md.ProjectRequired = mojo.RequiresProject
	md.RequiresReports = mojo.RequiresReports
	md.Aggregator = mojo.Aggregator
	md.DirectInvocationOnly = mojo.RequiresDirectInvocation
	md.OnlineRequired = mojo.RequiresOnline
	md.InheritedByDefault = mojo.InheritByDefault
	md.ThreadSafe = mojo.ThreadSafe

	if err := a.applyExecute(md, chain); err != nil {
		return nil, err
	}

	for _, p := range mergeParameters(chain) {
		param, err := parameter(p)
		if err != nil {
			return nil, err.WithGoal(md.Goal).WithClass(c.ClassName)
		}
		if err := md.AddParameter(param); err != nil {
			return nil, err
		}
	}
	for _, comp := range mergeComponents(chain) {
		if err := md.AddParameter(a.component(c.ClassName, comp)); err != nil {
			return nil, err
		}
	}
	md.SortParameters()
	return md, nil
}

// applyExecute copies the nearest Execute annotation of the chain.
func (a *Assembler) applyExecute(md *domain.MojoDescriptor, chain []*domain.ScannedClass) error {
	var exec *domain.ExecuteAnnotationContent
	for _, c := range chain {
		if c.Execute != nil {
			exec = c.Execute
			break
		}
	}
	if exec == nil {
		return nil
	}

	phase := exec.EffectivePhase()
	if exec.Lifecycle != "" && exec.Goal != "" && phase == "" {
		return domain.NewExtractionError(domain.CodeInvalidExecute,
			"@Execute lifecycle requires a phase instead of a goal", nil).WithClass(md.Implementation)
	}
	if exec.Goal != "" && phase != "" {
		ports.Warn(a.logger, fmt.Sprintf("@Execute in %s sets both goal '%s' and phase '%s': the phase takes precedence",
			md.Implementation, exec.Goal, phase), nil)
	}
	md.ExecutePhase = phase
	md.ExecuteGoal = exec.Goal
	md.ExecuteLifecycle = exec.Lifecycle
	return nil
}

// mergeParameters folds the chain oldest ancestor first so the most derived
// declaration of a field wins.
func mergeParameters(chain []*domain.ScannedClass) []*domain.ParameterAnnotationContent {
	merged := make(map[string]*domain.ParameterAnnotationContent)
	for i := len(chain) - 1; i >= 0; i-- {
		for name, p := range chain[i].Parameters {
			merged[name] = p
		}
	}
	out := make([]*domain.ParameterAnnotationContent, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldName < out[j].FieldName })
	return out
}

func mergeComponents(chain []*domain.ScannedClass) []*domain.ComponentAnnotationContent {
	merged := make(map[string]*domain.ComponentAnnotationContent)
	for i := len(chain) - 1; i >= 0; i-- {
		for name, comp := range chain[i].Components {
			merged[name] = comp
		}
	}
	out := make([]*domain.ComponentAnnotationContent, 0, len(merged))
	for _, comp := range merged {
		out = append(out, comp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldName < out[j].FieldName })
	return out
}

func parameter(p *domain.ParameterAnnotationContent) (*domain.Parameter, *domain.InvalidDescriptorError) {
	name := p.Name
	if name == "" {
		name = p.FieldName
	}
	if strings.ContainsAny(p.Property, "${}") {
		return nil, domain.NewInvalidDescriptorError(domain.CodeInvalidParameter,
			fmt.Sprintf("Invalid property for parameter '%s', forbidden characters ${}: %s", name, p.Property))
	}
	param := &domain.Parameter{
		Name:           name,
		Alias:          p.Alias,
		Type:           p.ClassName,
		Implementation: p.Implementation,
		Required:       p.Required,
		Editable:       !p.Readonly,
		DefaultValue:   p.DefaultValue,
		Description:    p.Description,
		Since:          p.Since,
		Deprecated:     p.Deprecated,
	}
	if p.Property != "" {
		param.Expression = "${" + p.Property + "}"
	}
	return param, nil
}

// component turns a component field into a parameter. Build-tool objects
// are injected by expression instead of as components.
func (a *Assembler) component(className string, comp *domain.ComponentAnnotationContent) *domain.Parameter {
	param := &domain.Parameter{
		Name:        comp.FieldName,
		Description: comp.Description,
		Since:       comp.Since,
		Deprecated:  comp.Deprecated,
	}
	if expr, ok := domain.MavenComponents[comp.RoleClassName]; ok {
		ports.Warn(a.logger, fmt.Sprintf(
			"Deprecated @Component annotation for '%s' field in %s: replace with @Parameter( defaultValue = \"%s\", readonly = true )",
			comp.FieldName, className, expr), nil)
		param.DefaultValue = expr
		param.Type = comp.RoleClassName
		param.Required = true
		return param
	}
	param.Requirement = &domain.Requirement{Role: comp.RoleClassName, RoleHint: comp.Hint}
	return param
}
