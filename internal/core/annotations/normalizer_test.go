package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mojoscan.dev/cli/internal/core/classfile"
	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/testfixtures"
)

func normalize(t *testing.T, b *testfixtures.ClassBuilder) (*domain.ScannedClass, error) {
	t.Helper()
	info, err := classfile.NewParser(classfile.MojoFilter()).Parse(b.Build())
	require.NoError(t, err)
	return NewNormalizer().Normalize(info)
}

// TestNormalize_FooMojo tests a goal class with parameters, components and an execute annotation
func TestNormalize_FooMojo(t *testing.T) {
	b := testfixtures.NewClassBuilder("org.acme.FooMojo").
		WithSuper("org.apache.maven.plugin.AbstractMojo").
		WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoAnnotation).
			String("name", "foo").
			Enum("defaultPhase", testfixtures.LifecyclePhaseEnum, "COMPILE").
			Enum("requiresDependencyResolution", testfixtures.ResolutionScopeEnum, "COMPILE_PLUS_RUNTIME").
			Enum("instantiationStrategy", testfixtures.InstantiationStrategyEnum, "SINGLETON").
			Bool("threadSafe", true)).
		WithAnnotation(testfixtures.NewAnnotation(testfixtures.ExecuteAnnotation).
			String("goal", "compiler").
			String("lifecycle", "my-lifecycle").
			Enum("phase", testfixtures.LifecyclePhaseEnum, "PACKAGE")).
		WithField("bar", testfixtures.ObjectDesc("java.lang.String"),
			testfixtures.NewAnnotation(testfixtures.ParameterAnnotation).
				String("defaultValue", "coolbar").
				Bool("required", true)).
		WithField("beer", testfixtures.ObjectDesc("java.lang.String"),
			testfixtures.NewAnnotation(testfixtures.ParameterAnnotation).
				String("defaultValue", "coolbeer")).
		WithField("artifactFactory", testfixtures.ObjectDesc("org.apache.maven.artifact.factory.ArtifactFactory"),
			testfixtures.NewAnnotation(testfixtures.ComponentAnnotation)).
		WithField("projectHelper", testfixtures.ObjectDesc("org.apache.maven.project.MavenProjectHelper"),
			testfixtures.NewAnnotation(testfixtures.ComponentAnnotation).
				Class("role", "org.apache.maven.project.DefaultMavenProjectHelper").
				String("hint", "default"))

	sc, err := normalize(t, b)
	require.NoError(t, err)

	assert.Equal(t, "org.acme.FooMojo", sc.ClassName)
	assert.Equal(t, "org.apache.maven.plugin.AbstractMojo", sc.ParentClassName)
	assert.Equal(t, 52, sc.ClassVersion)
	assert.False(t, sc.V4API)

	require.NotNil(t, sc.Mojo)
	assert.Equal(t, "foo", sc.Mojo.Name)
	assert.Equal(t, domain.PhaseCompile, sc.Mojo.DefaultPhase)
	assert.Equal(t, domain.ScopeCompilePlusRuntime, sc.Mojo.RequiresDependencyResolution)
	assert.Equal(t, domain.InstantiationSingleton, sc.Mojo.InstantiationStrategy)
	assert.True(t, sc.Mojo.ThreadSafe)
	assert.True(t, sc.Mojo.RequiresProject, "unset members keep their defaults")
	assert.False(t, sc.Mojo.IsDeprecated())

	require.NotNil(t, sc.Execute)
	assert.Equal(t, "compiler", sc.Execute.Goal)
	assert.Equal(t, "my-lifecycle", sc.Execute.Lifecycle)
	assert.Equal(t, domain.PhasePackage, sc.Execute.Phase)

	assert.Equal(t, []string{"bar", "beer"}, sc.ParameterNames())
	bar := sc.Parameters["bar"]
	assert.Equal(t, "coolbar", bar.DefaultValue)
	assert.True(t, bar.Required)
	assert.Equal(t, "java.lang.String", bar.ClassName)
	assert.False(t, bar.AnnotationOnMethod)

	assert.Equal(t, []string{"artifactFactory", "projectHelper"}, sc.ComponentNames())
	assert.Equal(t, "org.apache.maven.artifact.factory.ArtifactFactory", sc.Components["artifactFactory"].RoleClassName,
		"role defaults to the field type")
	assert.Equal(t, "org.apache.maven.project.DefaultMavenProjectHelper", sc.Components["projectHelper"].RoleClassName)
	assert.Equal(t, "default", sc.Components["projectHelper"].Hint)
}

// TestNormalize_NoAnnotations tests that a plain class carries nothing
func TestNormalize_NoAnnotations(t *testing.T) {
	sc, err := normalize(t, testfixtures.NewClassBuilder("org.acme.Plain").
		WithField("x", "I").
		WithMethod(testfixtures.AccPublic, "setX", "(I)V"))
	require.NoError(t, err)
	assert.False(t, sc.HasAnnotations())
}

// TestNormalize_DefaultsRoundTrip tests that annotations without members equal the documented defaults
func TestNormalize_DefaultsRoundTrip(t *testing.T) {
	sc, err := normalize(t, testfixtures.NewClassBuilder("org.acme.Defaults").
		WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoAnnotation)).
		WithAnnotation(testfixtures.NewAnnotation(testfixtures.ExecuteAnnotation)).
		WithField("p", testfixtures.ObjectDesc("java.io.File"), testfixtures.NewAnnotation(testfixtures.ParameterAnnotation)))
	require.NoError(t, err)

	assert.Equal(t, domain.NewMojoAnnotationContent(), sc.Mojo)
	assert.Equal(t, domain.NewExecuteAnnotationContent(), sc.Execute)
	assert.True(t, domain.NewParameterAnnotationContent("p", "java.io.File", nil, false).Equal(sc.Parameters["p"]))
	assert.False(t, sc.Parameters["p"].Required)
	assert.False(t, sc.Parameters["p"].Readonly)
}

// TestNormalize_BooleanMembersRoundTrip tests that written boolean members are stored as written
func TestNormalize_BooleanMembersRoundTrip(t *testing.T) {
	members := []string{"requiresProject", "requiresReports", "aggregator", "requiresDirectInvocation", "requiresOnline", "inheritByDefault", "threadSafe"}
	rapid.Check(t, func(rt *rapid.T) {
		values := make(map[string]bool, len(members))
		ann := testfixtures.NewAnnotation(testfixtures.MojoAnnotation).String("name", "g")
		for _, m := range members {
			if rapid.Bool().Draw(rt, m+"_set") {
				v := rapid.Bool().Draw(rt, m)
				values[m] = v
				ann.Bool(m, v)
			}
		}
		sc, err := normalize(t, testfixtures.NewClassBuilder("org.acme.G").WithAnnotation(ann))
		if err != nil {
			rt.Fatalf("normalize: %v", err)
		}

		want := domain.NewMojoAnnotationContent()
		want.Name = "g"
		for m, v := range values {
			switch m {
			case "requiresProject":
				want.RequiresProject = v
			case "requiresReports":
				want.RequiresReports = v
			case "aggregator":
				want.Aggregator = v
			case "requiresDirectInvocation":
				want.RequiresDirectInvocation = v
			case "requiresOnline":
				want.RequiresOnline = v
			case "inheritByDefault":
				want.InheritByDefault = v
			case "threadSafe":
				want.ThreadSafe = v
			}
		}
		if *want != *sc.Mojo {
			rt.Fatalf("got %+v, want %+v", *sc.Mojo, *want)
		}
	})
}

// TestNormalize_SetterParameter tests parameters declared on setter methods
func TestNormalize_SetterParameter(t *testing.T) {
	sc, err := normalize(t, testfixtures.NewClassBuilder("org.acme.Setter").
		WithGenericMethod(testfixtures.AccPublic, "setIncludes", "(Ljava/util/List;)V",
			"(Ljava/util/List<Ljava/lang/String;>;)V",
			testfixtures.NewAnnotation(testfixtures.ParameterAnnotation).String("property", "includes")))
	require.NoError(t, err)

	p := sc.Parameters["includes"]
	require.NotNil(t, p)
	assert.True(t, p.AnnotationOnMethod)
	assert.Equal(t, "java.util.List", p.ClassName)
	assert.Equal(t, []string{"java.lang.String"}, p.TypeParameters)
	assert.Equal(t, "includes", p.Property)
}

// TestNormalize_Deprecated tests the java.lang.Deprecated marker on goals and parameters
func TestNormalize_Deprecated(t *testing.T) {
	dep := testfixtures.NewAnnotation(testfixtures.DeprecatedAnnotation).Visible()
	sc, err := normalize(t, testfixtures.NewClassBuilder("org.acme.Old").
		WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoAnnotation).String("name", "old")).
		WithAnnotation(dep).
		WithField("p", "I", testfixtures.NewAnnotation(testfixtures.ParameterAnnotation), dep))
	require.NoError(t, err)

	require.NotNil(t, sc.Mojo.Deprecated)
	assert.Equal(t, "", *sc.Mojo.Deprecated)
	require.NotNil(t, sc.Parameters["p"].Deprecated)
}

// TestNormalize_V4Annotations tests the v4 API package and v3 precedence
func TestNormalize_V4Annotations(t *testing.T) {
	sc, err := normalize(t, testfixtures.NewClassBuilder("org.acme.V4").
		WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoV4Annotation).String("name", "four")).
		WithField("p", "I", testfixtures.NewAnnotation(testfixtures.ParameterV4Annotation).String("defaultValue", "4")))
	require.NoError(t, err)
	assert.True(t, sc.V4API)
	assert.Equal(t, "four", sc.Mojo.Name)
	assert.Equal(t, "4", sc.Parameters["p"].DefaultValue)

	sc, err = normalize(t, testfixtures.NewClassBuilder("org.acme.Both").
		WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoV4Annotation).String("name", "four")).
		WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoAnnotation).String("name", "three")))
	require.NoError(t, err)
	assert.True(t, sc.V4API)
	assert.Equal(t, "three", sc.Mojo.Name)
}

// TestNormalize_DecodeFailures tests that conversion failures name the class and member
func TestNormalize_DecodeFailures(t *testing.T) {
	tests := []struct {
		name       string
		class      *testfixtures.ClassBuilder
		wantMember string
	}{
		{
			name: "unknown_goal_member",
			class: testfixtures.NewClassBuilder("org.acme.Bad").
				WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoAnnotation).String("nmae", "typo")),
			wantMember: "nmae",
		},
		{
			name: "unknown_phase",
			class: testfixtures.NewClassBuilder("org.acme.Bad").
				WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoAnnotation).
					Enum("defaultPhase", testfixtures.LifecyclePhaseEnum, "LAUNCH")),
			wantMember: "defaultPhase",
		},
		{
			name: "wrong_value_kind",
			class: testfixtures.NewClassBuilder("org.acme.Bad").
				WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoAnnotation).Int("threadSafe", 1)),
			wantMember: "threadSafe",
		},
		{
			name: "parameter_member",
			class: testfixtures.NewClassBuilder("org.acme.Bad").
				WithField("count", "I", testfixtures.NewAnnotation(testfixtures.ParameterAnnotation).Bool("defaultValue", true)),
			wantMember: "count",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalize(t, tt.class)
			require.Error(t, err)
			assert.True(t, domain.IsExtraction(err))

			var ee *domain.ExtractionError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, "org.acme.Bad", ee.Class)
			assert.Equal(t, tt.wantMember, ee.Member)
		})
	}
}
