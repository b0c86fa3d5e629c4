package testfixtures

import (
	"math/rand"

	"mojoscan.dev/cli/internal/core/domain"
)

// ScannedClassBuilder provides a builder pattern for creating scanned classes
type ScannedClassBuilder struct {
	class *domain.ScannedClass
}

// NewScannedClassBuilder creates a project class extending java.lang.Object
func NewScannedClassBuilder(className string) *ScannedClassBuilder {
	c := domain.NewScannedClass(className, "java.lang.Object")
	c.ClassVersion = 52
	return &ScannedClassBuilder{class: c}
}

// WithParent sets the parent class name
func (b *ScannedClassBuilder) WithParent(parent string) *ScannedClassBuilder {
	b.class.ParentClassName = parent
	return b
}

// WithGoal attaches goal content with the annotation defaults and the given name
func (b *ScannedClassBuilder) WithGoal(name string) *ScannedClassBuilder {
	m := domain.NewMojoAnnotationContent()
	m.Name = name
	b.class.Mojo = m
	return b
}

// WithMojo attaches the given goal content
func (b *ScannedClassBuilder) WithMojo(m *domain.MojoAnnotationContent) *ScannedClassBuilder {
	b.class.Mojo = m
	return b
}

// WithExecute attaches execute content
func (b *ScannedClassBuilder) WithExecute(e *domain.ExecuteAnnotationContent) *ScannedClassBuilder {
	b.class.Execute = e
	return b
}

// WithParameter adds a String parameter with the given default value
func (b *ScannedClassBuilder) WithParameter(field, defaultValue string) *ScannedClassBuilder {
	p := domain.NewParameterAnnotationContent(field, "java.lang.String", nil, false)
	p.DefaultValue = defaultValue
	b.class.Parameters[field] = p
	return b
}

// WithParameterContent adds the given parameter content
func (b *ScannedClassBuilder) WithParameterContent(p *domain.ParameterAnnotationContent) *ScannedClassBuilder {
	b.class.Parameters[p.FieldName] = p
	return b
}

// WithComponent adds a component with the given role
func (b *ScannedClassBuilder) WithComponent(field, role string) *ScannedClassBuilder {
	c := domain.NewComponentAnnotationContent(field)
	c.RoleClassName = role
	b.class.Components[field] = c
	return b
}

// FromDependency tags the class as coming from the given artifact
func (b *ScannedClassBuilder) FromDependency(a domain.Artifact) *ScannedClassBuilder {
	b.class.Artifact = a
	b.class.Source = domain.SourceDependency
	return b
}

// Build returns the class
func (b *ScannedClassBuilder) Build() *domain.ScannedClass {
	return b.class
}

// MojoDescriptorBuilder provides a builder pattern for creating goal descriptors
type MojoDescriptorBuilder struct {
	mojo *domain.MojoDescriptor
}

// NewMojoDescriptorBuilder creates a descriptor holding the model defaults
func NewMojoDescriptorBuilder(goal string) *MojoDescriptorBuilder {
	m := domain.NewMojoDescriptor()
	m.Goal = goal
	m.Implementation = "org.acme." + goal + "Mojo"
	return &MojoDescriptorBuilder{mojo: m}
}

// WithImplementation sets the implementing class
func (b *MojoDescriptorBuilder) WithImplementation(impl string) *MojoDescriptorBuilder {
	b.mojo.Implementation = impl
	return b
}

// WithDescription sets the description
func (b *MojoDescriptorBuilder) WithDescription(d string) *MojoDescriptorBuilder {
	b.mojo.Description = d
	return b
}

// WithPhase sets the default phase id
func (b *MojoDescriptorBuilder) WithPhase(phase string) *MojoDescriptorBuilder {
	b.mojo.Phase = phase
	return b
}

// WithParameter appends a parameter
func (b *MojoDescriptorBuilder) WithParameter(p *domain.Parameter) *MojoDescriptorBuilder {
	b.mojo.Parameters = append(b.mojo.Parameters, p)
	return b
}

// WithRequirement appends a goal-level requirement
func (b *MojoDescriptorBuilder) WithRequirement(role, hint, field string) *MojoDescriptorBuilder {
	b.mojo.Requirements = append(b.mojo.Requirements, &domain.Requirement{Role: role, RoleHint: hint, FieldName: field})
	return b
}

// Build returns the descriptor
func (b *MojoDescriptorBuilder) Build() *domain.MojoDescriptor {
	return b.mojo
}

// SamplePlugin returns a plugin descriptor with two goals for writer tests
func SamplePlugin() *domain.PluginDescriptor {
	pd := domain.NewPluginDescriptor(domain.Artifact{GroupID: "org.acme", ArtifactID: "acme-maven-plugin", Version: "1.0.0"})
	pd.GoalPrefix = "acme"
	pd.Name = "Acme Plugin"
	pd.Description = "Builds acme things."
	pd.RequiredJavaVersion = "1.8"
	pd.Dependencies = []domain.Artifact{{GroupID: "org.acme", ArtifactID: "acme-core", Version: "2.1", Type: "jar"}}

	since := "1.1"
	pd.Mojos = []*domain.MojoDescriptor{
		NewMojoDescriptorBuilder("touch").
			WithDescription("Touches a file.").
			WithPhase("process-resources").
			WithParameter(&domain.Parameter{
				Name: "outputDirectory", Type: "java.io.File", Required: true, Editable: true,
				Expression: "${project.build.directory}", DefaultValue: "${project.build.directory}",
				Description: "Where to touch.", Since: since,
			}).
			WithParameter(&domain.Parameter{
				Name: "project", Type: "org.apache.maven.project.MavenProject", Required: true,
				DefaultValue: "${project}", Description: "The project.",
			}).
			WithParameter(&domain.Parameter{
				Name: "helper", Type: "org.acme.Helper",
				Requirement: &domain.Requirement{Role: "org.acme.Helper", RoleHint: "fast"},
			}).
			Build(),
		NewMojoDescriptorBuilder("clean").
			WithDescription("Cleans up.").
			Build(),
	}
	return pd
}

// RandomHierarchy builds a linear chain of scanned classes, root first,
// where each class declares a random subset of the given parameter names
// with a default naming the declaring class. The last class carries goal.
func RandomHierarchy(rng *rand.Rand, depth int, names []string, goal string) []*domain.ScannedClass {
	classes := make([]*domain.ScannedClass, 0, depth)
	parent := ""
	for i := 0; i < depth; i++ {
		name := "org.acme.Level" + string(rune('A'+i))
		b := NewScannedClassBuilder(name)
		if parent != "" {
			b.WithParent(parent)
		}
		for _, n := range names {
			if rng.Intn(2) == 0 {
				b.WithParameter(n, name)
			}
		}
		if i == depth-1 {
			b.WithGoal(goal)
		}
		classes = append(classes, b.Build())
		parent = name
	}
	return classes
}
