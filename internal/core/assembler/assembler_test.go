package assembler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/javasource"
	"mojoscan.dev/cli/internal/core/testfixtures"
)

func classMap(classes ...*domain.ScannedClass) map[string]*domain.ScannedClass {
	m := make(map[string]*domain.ScannedClass, len(classes))
	for _, c := range classes {
		m[c.ClassName] = c
	}
	return m
}

func assemble(t *testing.T, classes map[string]*domain.ScannedClass, hierarchy map[string]string) ([]*domain.MojoDescriptor, *testfixtures.RecordingLogger, error) {
	t.Helper()
	logger := testfixtures.NewRecordingLogger()
	mojos, err := New(logger).Assemble(classes, hierarchy)
	return mojos, logger, err
}

func paramNames(md *domain.MojoDescriptor) []string {
	var names []string
	for _, p := range md.Parameters {
		names = append(names, p.Name)
	}
	return names
}

// TestAssemble_FooMojo tests the descriptor built for a goal with parameters, components and an execute annotation
func TestAssemble_FooMojo(t *testing.T) {
	mojo := domain.NewMojoAnnotationContent()
	mojo.Name = "foo"
	mojo.DefaultPhase = domain.PhaseCompile
	mojo.ThreadSafe = true

	exec := domain.NewExecuteAnnotationContent()
	exec.Goal = "compiler"
	exec.Lifecycle = "my-lifecycle"
	exec.Phase = domain.PhasePackage

	bar := domain.NewParameterAnnotationContent("bar", "java.lang.String", nil, false)
	bar.DefaultValue = "coolbar"
	bar.Required = true

	foo := testfixtures.NewScannedClassBuilder("org.acme.FooMojo").
		WithParent("org.acme.AbstractFooMojo").
		WithMojo(mojo).
		WithExecute(exec).
		WithParameterContent(bar).
		WithParameter("beer", "coolbeer").
		WithComponent("artifactFactory", "org.apache.maven.artifact.factory.ArtifactFactory").
		WithComponent("projectHelper", "org.apache.maven.project.MavenProjectHelper").
		Build()
	foo.Components["projectHelper"].Hint = "default"

	mojos, logger, err := assemble(t, classMap(foo), map[string]string{
		"org.acme.FooMojo":         "org.acme.AbstractFooMojo",
		"org.acme.AbstractFooMojo": "org.apache.maven.plugin.AbstractMojo",
	})
	require.NoError(t, err)
	require.Len(t, mojos, 1)

	md := mojos[0]
	assert.Equal(t, "foo", md.Goal)
	assert.Equal(t, "org.acme.FooMojo", md.Implementation)
	assert.Equal(t, domain.LanguageJava, md.Language)
	assert.Equal(t, SourceAnnotations, md.Source)
	assert.Equal(t, "compile", md.Phase)
	assert.Equal(t, "package", md.ExecutePhase)
	assert.Equal(t, "compiler", md.ExecuteGoal)
	assert.Equal(t, "my-lifecycle", md.ExecuteLifecycle)
	assert.Equal(t, "per-lookup", md.InstantiationStrategy)
	assert.Equal(t, domain.ExecutionOncePerSession, md.ExecutionStrategy)
	assert.Empty(t, md.DependencyResolution)
	assert.True(t, md.ThreadSafe)
	assert.True(t, md.ProjectRequired)
	assert.True(t, md.InheritedByDefault)

	assert.Equal(t, []string{"artifactFactory", "bar", "beer", "projectHelper"}, paramNames(md))
	p, _ := md.Parameter("bar")
	assert.Equal(t, "coolbar", p.DefaultValue)
	assert.True(t, p.Required)
	assert.True(t, p.Editable)
	assert.Equal(t, "java.lang.String", p.Type)

	helper, _ := md.Parameter("projectHelper")
	require.NotNil(t, helper.Requirement)
	assert.Equal(t, domain.Requirement{Role: "org.apache.maven.project.MavenProjectHelper", RoleHint: "default"}, *helper.Requirement)
	assert.False(t, helper.Editable)
	assert.Len(t, md.ComponentRequirements(), 2)

	assert.True(t, logger.HasWarning("sets both goal 'compiler' and phase 'package'"), logger.Warnings())
}

// TestAssemble_InheritanceOverride tests that the most derived parameter declaration wins across A → B → C
func TestAssemble_InheritanceOverride(t *testing.T) {
	a := testfixtures.NewScannedClassBuilder("org.acme.A").
		WithParameter("x", "from-a").
		WithParameter("a", "a").
		Build()
	b := testfixtures.NewScannedClassBuilder("org.acme.B").
		WithParent("org.acme.A").
		WithParameter("x", "from-b").
		WithParameter("y", "from-b").
		Build()
	c := testfixtures.NewScannedClassBuilder("org.acme.C").
		WithParent("org.acme.B").
		WithGoal("c").
		WithParameter("x", "from-c").
		Build()

	mojos, _, err := assemble(t, classMap(a, b, c), nil)
	require.NoError(t, err)
	require.Len(t, mojos, 1)

	md := mojos[0]
	assert.Equal(t, []string{"a", "x", "y"}, paramNames(md))
	x, _ := md.Parameter("x")
	assert.Equal(t, "from-c", x.DefaultValue)
	y, _ := md.Parameter("y")
	assert.Equal(t, "from-b", y.DefaultValue)
}

// TestAssemble_WalksUnannotatedIntermediates tests that the parent walk crosses classes without annotations and stops at unknown ones
func TestAssemble_WalksUnannotatedIntermediates(t *testing.T) {
	base := testfixtures.NewScannedClassBuilder("org.acme.Base").
		WithParent("org.other.Unknown").
		WithParameter("skip", "false").
		Build()
	leaf := testfixtures.NewScannedClassBuilder("org.acme.Leaf").
		WithParent("org.acme.Middle").
		WithGoal("leaf").
		Build()
	hierarchy := map[string]string{
		"org.acme.Leaf":   "org.acme.Middle",
		"org.acme.Middle": "org.acme.Base",
		"org.acme.Base":   "org.other.Unknown",
	}

	mojos, _, err := assemble(t, classMap(base, leaf), hierarchy)
	require.NoError(t, err)
	assert.Equal(t, []string{"skip"}, paramNames(mojos[0]))

	mojos, _, err = assemble(t, classMap(base, leaf), nil)
	require.NoError(t, err)
	assert.Empty(t, mojos[0].Parameters, "without the hierarchy the walk ends at the unknown intermediate")
}

// TestAssemble_DependencyGoalsAreIgnored tests that goals never come from dependency classes while their parameters are inherited
func TestAssemble_DependencyGoalsAreIgnored(t *testing.T) {
	dep := testfixtures.NewScannedClassBuilder("org.lib.LibMojo").
		WithGoal("lib").
		WithParameter("libParam", "v").
		FromDependency(domain.Artifact{GroupID: "org.lib", ArtifactID: "lib", Version: "1"}).
		Build()
	own := testfixtures.NewScannedClassBuilder("org.acme.Own").
		WithParent("org.lib.LibMojo").
		WithGoal("own").
		Build()

	mojos, _, err := assemble(t, classMap(dep, own), nil)
	require.NoError(t, err)
	require.Len(t, mojos, 1)
	assert.Equal(t, "own", mojos[0].Goal)
	assert.Equal(t, []string{"libParam"}, paramNames(mojos[0]))
}

// TestAssemble_ExecuteInheritance tests that execute content is found up the chain and that a standard phase wins over custom text
func TestAssemble_ExecuteInheritance(t *testing.T) {
	exec := domain.NewExecuteAnnotationContent()
	exec.Phase = domain.PhaseGenerateSources
	exec.CustomPhase = "my-custom-phase"

	parent := testfixtures.NewScannedClassBuilder("org.acme.Parent").WithExecute(exec).Build()
	child := testfixtures.NewScannedClassBuilder("org.acme.Child").WithParent("org.acme.Parent").WithGoal("child").Build()

	mojos, logger, err := assemble(t, classMap(parent, child), nil)
	require.NoError(t, err)
	assert.Equal(t, "generate-sources", mojos[0].ExecutePhase)
	assert.Empty(t, logger.Warnings())

	custom := domain.NewExecuteAnnotationContent()
	custom.CustomPhase = "my-custom-phase"
	parent.Execute = custom
	mojos, _, err = assemble(t, classMap(parent, child), nil)
	require.NoError(t, err)
	assert.Equal(t, "my-custom-phase", mojos[0].ExecutePhase)
}

// TestAssemble_Failures tests the errors raised while assembling
func TestAssemble_Failures(t *testing.T) {
	lifecycleWithGoal := domain.NewExecuteAnnotationContent()
	lifecycleWithGoal.Goal = "compile"
	lifecycleWithGoal.Lifecycle = "custom"

	badProperty := domain.NewParameterAnnotationContent("dir", "java.io.File", nil, false)
	badProperty.Property = "${dir}"

	clash := domain.NewParameterAnnotationContent("other", "java.lang.String", nil, false)
	clash.Name = "helper"

	tests := []struct {
		name    string
		classes []*domain.ScannedClass
		code    domain.ErrorCode
		errMsg  string
	}{
		{
			name: "duplicate goal",
			classes: []*domain.ScannedClass{
				testfixtures.NewScannedClassBuilder("org.acme.One").WithGoal("same").Build(),
				testfixtures.NewScannedClassBuilder("org.acme.Two").WithGoal("same").Build(),
			},
			code:   domain.CodeDuplicateGoal,
			errMsg: `goal "same" is declared by both org.acme.One and org.acme.Two`,
		},
		{
			name:    "missing goal name",
			classes: []*domain.ScannedClass{testfixtures.NewScannedClassBuilder("org.acme.Nameless").WithGoal("").Build()},
			code:    domain.CodeInvalidDescriptor,
			errMsg:  "goal annotation without a name",
		},
		{
			name: "lifecycle with goal",
			classes: []*domain.ScannedClass{
				testfixtures.NewScannedClassBuilder("org.acme.Fork").WithGoal("fork").WithExecute(lifecycleWithGoal).Build(),
			},
			code:   domain.CodeInvalidExecute,
			errMsg: "lifecycle requires a phase",
		},
		{
			name: "property with expression characters",
			classes: []*domain.ScannedClass{
				testfixtures.NewScannedClassBuilder("org.acme.Prop").WithGoal("prop").WithParameterContent(badProperty).Build(),
			},
			code:   domain.CodeInvalidParameter,
			errMsg: "Invalid property for parameter 'dir', forbidden characters ${}: ${dir}",
		},
		{
			name: "parameter and component share a name",
			classes: []*domain.ScannedClass{
				testfixtures.NewScannedClassBuilder("org.acme.Clash").
					WithGoal("clash").
					WithParameterContent(clash).
					WithComponent("helper", "org.acme.Helper").
					Build(),
			},
			code:   domain.CodeDuplicateParameter,
			errMsg: `duplicate parameter "helper"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := assemble(t, classMap(tt.classes...), nil)
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.CodeOf(err))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// TestAssemble_MavenComponents tests that build-tool objects become read-only expression parameters
func TestAssemble_MavenComponents(t *testing.T) {
	c := testfixtures.NewScannedClassBuilder("org.acme.Info").
		WithGoal("info").
		WithComponent("project", "org.apache.maven.project.MavenProject").
		WithComponent("session", "org.apache.maven.execution.MavenSession").
		Build()

	mojos, logger, err := assemble(t, classMap(c), nil)
	require.NoError(t, err)

	project, ok := mojos[0].Parameter("project")
	require.True(t, ok)
	assert.Equal(t, "${project}", project.DefaultValue)
	assert.Equal(t, "org.apache.maven.project.MavenProject", project.Type)
	assert.True(t, project.Required)
	assert.False(t, project.Editable)
	assert.Nil(t, project.Requirement)
	assert.Empty(t, mojos[0].ComponentRequirements())

	assert.True(t, logger.HasWarning(
		`Deprecated @Component annotation for 'project' field in org.acme.Info: replace with @Parameter( defaultValue = "${project}", readonly = true )`),
		logger.Warnings())
	assert.Len(t, logger.Warnings(), 2)
}

// TestAssemble_SortedOutput tests that goals and parameters come out in name order
func TestAssemble_SortedOutput(t *testing.T) {
	mojos, _, err := assemble(t, classMap(
		testfixtures.NewScannedClassBuilder("org.acme.Z").WithGoal("zeta").WithParameter("b", "").WithParameter("a", "").Build(),
		testfixtures.NewScannedClassBuilder("org.acme.A").WithGoal("alpha").Build(),
		testfixtures.NewScannedClassBuilder("org.acme.M").WithGoal("mid").Build(),
	), nil)
	require.NoError(t, err)
	var goals []string
	for _, m := range mojos {
		goals = append(goals, m.Goal)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, goals)
	assert.Equal(t, []string{"a", "b"}, paramNames(mojos[2]))
}

// TestAssemble_CyclicHierarchy tests that a parent cycle terminates
func TestAssemble_CyclicHierarchy(t *testing.T) {
	a := testfixtures.NewScannedClassBuilder("org.acme.A").WithParent("org.acme.B").WithGoal("a").WithParameter("p", "a").Build()
	b := testfixtures.NewScannedClassBuilder("org.acme.B").WithParent("org.acme.A").WithParameter("q", "b").Build()

	mojos, _, err := assemble(t, classMap(a, b), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "q"}, paramNames(mojos[0]))
}

// TestAssemble_InheritanceProperty tests that every parameter resolves to its most derived declaration
func TestAssemble_InheritanceProperty(t *testing.T) {
	names := []string{"alpha", "beta", "gamma", "delta"}
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(1, 6).Draw(t, "depth")
		seed := rapid.Int64().Draw(t, "seed")
		chain := testfixtures.RandomHierarchy(rand.New(rand.NewSource(seed)), depth, names, "goal")

		mojos, err := New(nil).Assemble(classMap(chain...), nil)
		if err != nil {
			t.Fatalf("assemble: %v", err)
		}
		if len(mojos) != 1 {
			t.Fatalf("expected one goal, got %d", len(mojos))
		}

		for _, name := range names {
			want := ""
			for i := len(chain) - 1; i >= 0; i-- {
				if _, ok := chain[i].Parameters[name]; ok {
					want = chain[i].ClassName
					break
				}
			}
			p, ok := mojos[0].Parameter(name)
			if want == "" {
				if ok {
					t.Fatalf("parameter %s declared nowhere but present", name)
				}
				continue
			}
			if !ok || p.DefaultValue != want {
				t.Fatalf("parameter %s: got %+v, want default %s", name, p, want)
			}
		}
	})
}

// TestEnrichFromSources tests that doc comments fill in goal and parameter documentation without touching the input
func TestEnrichFromSources(t *testing.T) {
	base := testfixtures.NewScannedClassBuilder("org.acme.BaseMojo").WithParameter("skip", "false").Build()
	touch := testfixtures.NewScannedClassBuilder("org.acme.TouchMojo").
		WithParent("org.acme.BaseMojo").
		WithGoal("touch").
		WithParameter("outputDirectory", "${project.build.directory}").
		WithComponent("helper", "org.acme.Helper").
		Build()
	classes := classMap(base, touch)

	baseSrc, err := javasource.Parse([]byte(`package org.acme;
/** @since 0.9 */
public abstract class BaseMojo {
    /**
     * Skips the goal.
     * @since 1.1
     */
    private boolean skip;
}`))
	require.NoError(t, err)
	touchSrc, err := javasource.Parse([]byte(`package org.acme;
/**
 * Touches a file.
 * @deprecated use other
 */
public class TouchMojo extends BaseMojo {
    /** Where to touch. */
    private java.io.File outputDirectory;
    /** A helper. @deprecated */
    private Helper helper;
}`))
	require.NoError(t, err)
	lib := javasource.NewLibrary(append(baseSrc, touchSrc...)...)

	enriched := EnrichFromSources(classes, nil, lib)

	got := enriched["org.acme.TouchMojo"]
	assert.Equal(t, "Touches a file.", got.Mojo.Description)
	assert.Equal(t, "0.9", got.Mojo.Since, "class tags are searched up the source hierarchy")
	require.NotNil(t, got.Mojo.Deprecated)
	assert.Equal(t, "use other", *got.Mojo.Deprecated)
	assert.Equal(t, "Where to touch.", got.Parameters["outputDirectory"].Description)
	assert.Equal(t, "A helper. @deprecated", got.Components["helper"].Description)

	inherited := enriched["org.acme.BaseMojo"].Parameters["skip"]
	assert.Equal(t, "Skips the goal.", inherited.Description)
	assert.Equal(t, "1.1", inherited.Since)

	assert.Empty(t, touch.Mojo.Description, "input classes are left untouched")
	assert.Empty(t, base.Parameters["skip"].Description)

	mojos, err := New(nil).Assemble(enriched, nil)
	require.NoError(t, err)
	skip, _ := mojos[0].Parameter("skip")
	assert.Equal(t, "Skips the goal.", skip.Description)
}
