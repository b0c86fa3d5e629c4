package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLifecyclePhase_ParseAndID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    LifecyclePhase
		wantID  string
		wantErr bool
	}{
		{name: "none", input: "NONE", want: PhaseNone, wantID: ""},
		{name: "compile", input: "COMPILE", want: PhaseCompile, wantID: "compile"},
		{name: "process_resources", input: "PROCESS_RESOURCES", want: PhaseProcessResources, wantID: "process-resources"},
		{name: "site_deploy", input: "SITE_DEPLOY", want: PhaseSiteDeploy, wantID: "site-deploy"},
		{name: "lowercase_id_rejected", input: "compile", wantErr: true},
		{name: "unknown", input: "LAUNCH", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLifecyclePhase(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantID, got.ID())
		})
	}
}

func TestLifecyclePhase_EveryPhaseHasDistinctID(t *testing.T) {
	seen := map[string]LifecyclePhase{}
	for _, p := range LifecyclePhases() {
		id := p.ID()
		if p == PhaseNone {
			assert.Empty(t, id)
			continue
		}
		assert.NotEmpty(t, id, "phase %s", p)
		assert.Equal(t, strings.ToLower(strings.ReplaceAll(string(p), "_", "-")), id)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = p
	}
}

func TestResolutionScope_IDs(t *testing.T) {
	assert.Equal(t, "", ScopeNone.ID())
	assert.Equal(t, "compile", ScopeCompile.ID())
	assert.Equal(t, "compile+runtime", ScopeCompilePlusRuntime.ID())
	assert.Equal(t, "runtime", ScopeRuntime.ID())
	assert.Equal(t, "runtime+system", ScopeRuntimePlusSystem.ID())
	assert.Equal(t, "test", ScopeTest.ID())

	_, err := ParseResolutionScope("PROVIDED")
	assert.Error(t, err)
}

func TestInstantiationStrategy_IDs(t *testing.T) {
	for name, id := range map[string]string{
		"PER_LOOKUP": "per-lookup",
		"SINGLETON":  "singleton",
		"KEEP_ALIVE": "keep-alive",
		"POOLABLE":   "poolable",
	} {
		s, err := ParseInstantiationStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, id, s.ID())
	}
}

func TestMojoAnnotationContent_Defaults(t *testing.T) {
	m := NewMojoAnnotationContent()

	assert.Equal(t, PhaseNone, m.DefaultPhase)
	assert.Equal(t, ScopeNone, m.RequiresDependencyResolution)
	assert.Equal(t, ScopeNone, m.RequiresDependencyCollection)
	assert.Equal(t, InstantiationPerLookup, m.InstantiationStrategy)
	assert.Equal(t, "once-per-session", m.ExecutionStrategy)
	assert.True(t, m.RequiresProject)
	assert.True(t, m.InheritByDefault)
	assert.False(t, m.RequiresReports)
	assert.False(t, m.Aggregator)
	assert.False(t, m.RequiresDirectInvocation)
	assert.False(t, m.RequiresOnline)
	assert.False(t, m.ThreadSafe)
	assert.Empty(t, m.Configurator)
	assert.False(t, m.IsDeprecated())
}

func TestExecuteAnnotationContent_StandardPhaseOverridesCustom(t *testing.T) {
	e := NewExecuteAnnotationContent()
	e.CustomPhase = "my-phase"
	assert.Equal(t, "my-phase", e.EffectivePhase())

	e.Phase = PhasePackage
	assert.Equal(t, "package", e.EffectivePhase())
}

func TestParameterAnnotationContent_Equality(t *testing.T) {
	base := func() *ParameterAnnotationContent {
		p := NewParameterAnnotationContent("bar", "java.lang.String", nil, false)
		p.DefaultValue = "coolbar"
		p.Required = true
		return p
	}

	a, b := base(), base()
	b.Description = "docs do not take part"
	b.ClassName = "java.io.File"
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.HashKey(), b.HashKey())

	b.Readonly = true
	assert.False(t, a.Equal(b))

	c := base()
	c.Implementation = "java.util.ArrayList"
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestScannedClass_HasAnnotations(t *testing.T) {
	c := NewScannedClass("a.B", "java.lang.Object")
	assert.False(t, c.HasAnnotations())

	c.Components["x"] = NewComponentAnnotationContent("x")
	assert.True(t, c.HasAnnotations())
}

func TestScannedClass_CloneIsDeep(t *testing.T) {
	c := NewScannedClass("a.B", "")
	c.Mojo = NewMojoAnnotationContent()
	c.Mojo.Name = "b"
	c.Parameters["p"] = NewParameterAnnotationContent("p", "int", []string{"x"}, false)

	clone := c.Clone()
	clone.Mojo.Description = "changed"
	clone.Parameters["p"].Description = "changed"
	clone.Parameters["p"].TypeParameters[0] = "y"

	assert.Empty(t, c.Mojo.Description)
	assert.Empty(t, c.Parameters["p"].Description)
	assert.Equal(t, "x", c.Parameters["p"].TypeParameters[0])
}

func TestMojoDescriptor_AddParameterRejectsDuplicates(t *testing.T) {
	m := NewMojoDescriptor()
	m.Goal = "foo"
	require.NoError(t, m.AddParameter(&Parameter{Name: "bar"}))

	err := m.AddParameter(&Parameter{Name: "bar"})
	require.Error(t, err)
	assert.True(t, IsInvalidDescriptor(err))
	assert.Equal(t, CodeDuplicateParameter, CodeOf(err))
}

func TestMojoDescriptor_ComponentRequirements(t *testing.T) {
	m := NewMojoDescriptor()
	require.NoError(t, m.AddParameter(&Parameter{Name: "plain", Expression: "${plain}"}))
	require.NoError(t, m.AddParameter(&Parameter{Name: "legacy", Expression: "${component.org.Foo#fast}"}))
	require.NoError(t, m.AddParameter(&Parameter{Name: "comp", Requirement: &Requirement{Role: "org.Bar"}}))

	reqs := m.ComponentRequirements()
	require.Len(t, reqs, 2)
	assert.Equal(t, Requirement{Role: "org.Foo", RoleHint: "fast", FieldName: "legacy"}, *reqs[0])
	assert.Equal(t, Requirement{Role: "org.Bar", FieldName: "comp"}, *reqs[1])

	plain, _ := m.Parameter("plain")
	assert.False(t, IsComponentParameter(plain))
}

func TestPluginDescriptor_AddMojoRejectsDuplicateGoal(t *testing.T) {
	pd := NewPluginDescriptor(Artifact{GroupID: "g", ArtifactID: "a", Version: "1"})
	require.NoError(t, pd.AddMojo(&MojoDescriptor{Goal: "foo", Implementation: "a.Foo"}))

	err := pd.AddMojo(&MojoDescriptor{Goal: "foo", Implementation: "a.OtherFoo"})
	require.Error(t, err)
	assert.True(t, IsExtraction(err))
	assert.Equal(t, CodeDuplicateGoal, CodeOf(err))
	assert.Contains(t, err.Error(), "a.OtherFoo")
}

func TestPluginDescriptor_SortMojos(t *testing.T) {
	pd := &PluginDescriptor{Mojos: []*MojoDescriptor{{Goal: "z"}, {Goal: "a"}, {Goal: "m"}}}
	pd.SortMojos()
	assert.Equal(t, "a", pd.Mojos[0].Goal)
	assert.Equal(t, "m", pd.Mojos[1].Goal)
	assert.Equal(t, "z", pd.Mojos[2].Goal)
}

func TestGoalPrefixFromArtifactID(t *testing.T) {
	tests := []struct {
		artifactID string
		want       string
	}{
		{"maven-plugin-plugin", "plugin"},
		{"maven-compiler-plugin", "compiler"},
		{"build-helper-maven-plugin", "build-helper"},
		{"exec-maven-plugin", "exec"},
		{"foo", "foo"},
	}
	for _, tt := range tests {
		t.Run(tt.artifactID, func(t *testing.T) {
			assert.Equal(t, tt.want, GoalPrefixFromArtifactID(tt.artifactID))
		})
	}
}

func TestGoalPrefixFromArtifactID_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[a-z]{1,8}`).Filter(func(s string) bool {
			return !strings.Contains(s, "maven") && !strings.Contains(s, "plugin")
		}).Draw(t, "word")
		layout := rapid.SampledFrom([]string{"maven-%s-plugin", "%s-maven-plugin", "%s-plugin"}).Draw(t, "layout")

		got := GoalPrefixFromArtifactID(fmt.Sprintf(layout, word))
		if got != word {
			t.Fatalf("prefix of %q = %q, want %q", fmt.Sprintf(layout, word), got, word)
		}
	})
}

func TestIsReservedArtifactID(t *testing.T) {
	assert.True(t, IsReservedArtifactID("com.acme", "maven-foo-plugin"))
	assert.False(t, IsReservedArtifactID("org.apache.maven.plugins", "maven-foo-plugin"))
	assert.False(t, IsReservedArtifactID("com.acme", "foo-maven-plugin"))
	assert.False(t, IsReservedArtifactID("com.acme", "maven-plugin"))
}

func TestJavaVersionForClassVersion(t *testing.T) {
	assert.Equal(t, "1.1", JavaVersionForClassVersion(45))
	assert.Equal(t, "1.5", JavaVersionForClassVersion(49))
	assert.Equal(t, "1.8", JavaVersionForClassVersion(52))
	assert.Equal(t, "9", JavaVersionForClassVersion(53))
	assert.Equal(t, "11", JavaVersionForClassVersion(55))
	assert.Equal(t, "17", JavaVersionForClassVersion(61))
	assert.Equal(t, "", JavaVersionForClassVersion(0))
}

func TestParseArtifact(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Artifact
		wantErr bool
	}{
		{
			name:  "gav_with_file",
			input: "org.apache.maven:maven-plugin-api:3.9.6=/repo/api.jar",
			want:  Artifact{GroupID: "org.apache.maven", ArtifactID: "maven-plugin-api", Version: "3.9.6", Type: "jar", File: "/repo/api.jar"},
		},
		{
			name:  "with_classifier",
			input: "g:a:jar:tests:1.0",
			want:  Artifact{GroupID: "g", ArtifactID: "a", Type: "jar", Classifier: "tests", Version: "1.0"},
		},
		{name: "too_short", input: "g:a", wantErr: true},
		{name: "empty_part", input: "g::1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArtifact(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "g:a:jar:tests:1.0", Artifact{GroupID: "g", ArtifactID: "a", Classifier: "tests", Version: "1.0"}.ID())
}

func TestErrors_KindsAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	ee := NewExtractionError(CodeExtractionFailed, "cannot read archive", cause).WithFile("/x.jar").WithClass("a.B").WithMember("name")
	wrapped := fmt.Errorf("scan: %w", ee)

	assert.True(t, IsExtraction(wrapped))
	assert.False(t, IsInvalidDescriptor(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "EXTRACTION_FAILED: cannot read archive (file /x.jar, class a.B#name): boom", ee.Error())

	ie := NewInvalidDescriptorError(CodeInvalidParameter, "bad property").WithGoal("foo")
	assert.True(t, IsInvalidDescriptor(ie))
	assert.Equal(t, CodeInvalidParameter, CodeOf(ie))
	assert.Equal(t, ErrorCode(""), CodeOf(cause))
}
