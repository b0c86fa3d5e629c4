package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/testfixtures"
)

type stubExtractor struct {
	name       string
	group      GroupKey
	deprecated bool
	result     *domain.ExtractionResult
	err        error
	calls      int
}

func (s *stubExtractor) Name() string { return s.name }
func (s *stubExtractor) Group() GroupKey { return s.group }
func (s *stubExtractor) Deprecated() bool { return s.deprecated }

func (s *stubExtractor) Extract(ctx context.Context, req *domain.PluginToolsRequest) (*domain.ExtractionResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return &domain.ExtractionResult{}, nil
	}
	return s.result, nil
}

func goals(names ...string) *domain.ExtractionResult {
	res := &domain.ExtractionResult{}
	for _, n := range names {
		res.Mojos = append(res.Mojos, testfixtures.NewMojoDescriptorBuilder(n).Build())
	}
	return res
}

func newPlugin() *domain.PluginDescriptor {
	return domain.NewPluginDescriptor(domain.Artifact{GroupID: "org.acme", ArtifactID: "acme-maven-plugin", Version: "1.0"})
}

// TestGroupKey_Less tests that the java group always runs first
func TestGroupKey_Less(t *testing.T) {
	tests := []struct {
		name string
		a, b GroupKey
		want bool
	}{
		{"java before ant", GroupKey{GroupJava, 5}, GroupKey{GroupAnt, 0}, true},
		{"ant after java", GroupKey{GroupAnt, 0}, GroupKey{GroupJava, 5}, false},
		{"java before any other group", GroupKey{GroupJava, 0}, GroupKey{"beanshell", 0}, true},
		{"other groups by name", GroupKey{GroupAnt, 3}, GroupKey{"beanshell", 0}, true},
		{"order inside a group", GroupKey{GroupJava, 0}, GroupKey{GroupJava, 1}, true},
		{"equal keys", GroupKey{GroupJava, 1}, GroupKey{GroupJava, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Less(tt.b))
		})
	}
	assert.Equal(t, "java:1", GroupKey{GroupJava, 1}.String())
}

// TestRegistry_Ordered tests extractor selection and run order
func TestRegistry_Ordered(t *testing.T) {
	ant := &stubExtractor{name: "ant", group: GroupKey{GroupAnt, 0}}
	annotations := &stubExtractor{name: "java-annotations", group: GroupKey{GroupJava, 1}}
	javadoc := &stubExtractor{name: "java-javadoc", group: GroupKey{GroupJava, 0}}
	r := NewRegistry(nil, ant, annotations, javadoc)

	assert.Equal(t, []string{"java-javadoc", "java-annotations", "ant"}, r.Names())

	ordered, err := r.Ordered([]string{"ant", " ", "java-annotations", "ant"})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, "java-annotations", ordered[0].Name())
	assert.Equal(t, "ant", ordered[1].Name())

	_, err = r.Ordered([]string{"beanshell"})
	require.Error(t, err)
	assert.True(t, domain.IsExtraction(err))
	assert.Contains(t, err.Error(), "No mojo extractor with 'beanshell' id.")
}

// TestRegistry_Populate tests collecting goals from several extractors
func TestRegistry_Populate(t *testing.T) {
	tests := []struct {
		name       string
		extractors []*stubExtractor
		skipEmpty  bool
		wantGoals  []string
		wantCode   domain.ErrorCode
		wantWarn   string
	}{
		{
			name: "goals from every extractor",
			extractors: []*stubExtractor{
				{name: "java-annotations", group: GroupKey{GroupJava, 1}, result: goals("b", "a")},
				{name: "ant", group: GroupKey{GroupAnt, 0}, result: goals("c")},
			},
			wantGoals: []string{"b", "a", "c"},
		},
		{
			name: "deprecated extractor warns",
			extractors: []*stubExtractor{
				{name: "java-javadoc", group: GroupKey{GroupJava, 0}, deprecated: true, result: goals("old")},
			},
			wantGoals: []string{"old"},
			wantWarn:  "Deprecated extractor java-javadoc extracted 1 descriptor. Upgrade your Mojo definitions. You should use Mojo Annotations instead of Javadoc tags.",
		},
		{
			name: "same goal from two extractors",
			extractors: []*stubExtractor{
				{name: "java-annotations", group: GroupKey{GroupJava, 1}, result: goals("touch")},
				{name: "ant", group: GroupKey{GroupAnt, 0}, result: goals("touch")},
			},
			wantCode: domain.CodeDuplicateGoal,
		},
		{
			name: "nothing found",
			extractors: []*stubExtractor{
				{name: "java-annotations", group: GroupKey{GroupJava, 1}},
			},
			wantCode: domain.CodeNoDescriptors,
		},
		{
			name: "nothing found but allowed",
			extractors: []*stubExtractor{
				{name: "java-annotations", group: GroupKey{GroupJava, 1}},
			},
			skipEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testfixtures.NewRecordingLogger()
			r := NewRegistry(logger)
			for _, e := range tt.extractors {
				r.Register(e)
			}
			pd := newPlugin()
			req := &domain.PluginToolsRequest{SkipErrorNoDescriptorsFound: tt.skipEmpty}

			summary, err := r.Populate(context.Background(), req, nil, pd)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, domain.CodeOf(err))
				return
			}
			require.NoError(t, err)

			var got []string
			for _, m := range pd.Mojos {
				got = append(got, m.Goal)
			}
			assert.Equal(t, tt.wantGoals, got)
			assert.Equal(t, len(tt.wantGoals), summary.Total())
			if tt.wantWarn != "" {
				assert.True(t, logger.HasWarning(tt.wantWarn), logger.Warnings())
			} else {
				assert.Empty(t, logger.Warnings())
			}
		})
	}
}

// TestRegistry_PopulateSummary tests the metadata gathered across extractors
func TestRegistry_PopulateSummary(t *testing.T) {
	annotations := &stubExtractor{name: "java-annotations", group: GroupKey{GroupJava, 1}, result: &domain.ExtractionResult{
		Mojos:           goals("touch").Mojos,
		MavenAPIVersion: "3.9.6",
		MaxClassVersion: 55,
	}}
	javadoc := &stubExtractor{name: "java-javadoc", group: GroupKey{GroupJava, 0}, deprecated: true}
	r := NewRegistry(nil, annotations, javadoc)

	summary, err := r.Populate(context.Background(), &domain.PluginToolsRequest{}, nil, newPlugin())
	require.NoError(t, err)
	assert.Equal(t, []Count{{"java-javadoc", 0}, {"java-annotations", 1}}, summary.Counts)
	assert.Equal(t, "3.9.6", summary.MavenAPIVersion)
	assert.Equal(t, 55, summary.MaxClassVersion)
}

// TestRegistry_PopulateFailures tests that extractor failures stop the run
func TestRegistry_PopulateFailures(t *testing.T) {
	boom := errors.New("boom")
	failing := &stubExtractor{name: "java-javadoc", group: GroupKey{GroupJava, 0}, err: boom}
	later := &stubExtractor{name: "ant", group: GroupKey{GroupAnt, 0}, result: goals("x")}
	r := NewRegistry(nil, failing, later)

	_, err := r.Populate(context.Background(), &domain.PluginToolsRequest{}, nil, newPlugin())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "java-javadoc extractor")
	assert.Zero(t, later.calls)

	_, err = r.Populate(context.Background(), &domain.PluginToolsRequest{}, []string{"unknown"}, newPlugin())
	assert.True(t, domain.IsExtraction(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRegistry(nil, later).Populate(ctx, &domain.PluginToolsRequest{}, nil, newPlugin())
	assert.ErrorIs(t, err, context.Canceled)
}

// TestResolve tests making request paths absolute
func TestResolve(t *testing.T) {
	assert.Equal(t, "/p/target/classes", resolve("/p", "target/classes"))
	assert.Equal(t, "/abs", resolve("/p", "/abs"))
	assert.Equal(t, "rel", resolve("", "rel"))
	assert.Empty(t, resolve("/p", ""))
	assert.Equal(t, []string{"/p/a", "/b"}, resolveAll("/p", []string{"a", "", "/b"}))
}
