package di

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mojoscan.dev/cli/internal/core/testfixtures"
	"mojoscan.dev/cli/internal/interfaces/cli"
)

func newTestContainer(t *testing.T, env map[string]string) (*Container, billy.Filesystem, *bytes.Buffer) {
	t.Helper()
	fs := memfs.New()
	logs := &bytes.Buffer{}
	c := NewContainerWith(Options{
		FS:        fs,
		WorkDir:   "/work",
		HomeDir:   "/home/dev",
		LogOutput: logs,
		LookupEnv: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
	})
	return c, fs, logs
}

func run(t *testing.T, c *Container, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCommand(c.GetCLIContainer())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeCleanMojo(t *testing.T, fs billy.Filesystem) {
	t.Helper()
	clean := testfixtures.NewClassBuilder("org.acme.CleanMojo").
		WithSuper("org.apache.maven.plugin.AbstractMojo").
		WithVersion(61).
		WithAnnotation(testfixtures.NewAnnotation(testfixtures.MojoAnnotation).
			String("name", "clean").
			Bool("threadSafe", true)).
		WithField("skip", "Z", testfixtures.NewAnnotation(testfixtures.ParameterAnnotation).String("property", "clean.skip"))
	require.NoError(t, util.WriteFile(fs, "/work/target/classes/"+testfixtures.ClassPath("org.acme.CleanMojo"), clean.Build(), 0o644))
}

func TestContainer_GenerateAndValidate(t *testing.T) {
	c, fs, logs := newTestContainer(t, nil)
	writeCleanMojo(t, fs)

	out, err := run(t, c, "generate",
		"--group-id", "org.acme", "--artifact-id", "acme-maven-plugin", "--plugin-version", "1.0.0",
		"--required-maven-version", "3.9.0")
	require.NoError(t, err, logs.String())
	assert.Contains(t, out, "org.acme:acme-maven-plugin")
	assert.Contains(t, out, "clean")
	assert.Contains(t, out, "Wrote /work/target/classes/META-INF/maven/plugin.xml")

	xml, err := util.ReadFile(fs, "/work/target/classes/META-INF/maven/plugin.xml")
	require.NoError(t, err)
	assert.Contains(t, string(xml), "<requiredMavenVersion>3.9.0</requiredMavenVersion>")
	assert.Contains(t, string(xml), "<requiredJavaVersion>17</requiredJavaVersion>")
	assert.Contains(t, string(xml), "<threadSafe>true</threadSafe>")
	assert.Contains(t, logs.String(), "java-annotations mojo extractor found 1 mojo descriptor.")

	out, err = run(t, c, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "No problems found")
}

func TestContainer_ConfigSources(t *testing.T) {
	c, fs, _ := newTestContainer(t, map[string]string{"MOJOSCAN_GOAL_PREFIX": "fromenv"})
	require.NoError(t, util.WriteFile(fs, "/work/mojoscan.yaml", []byte("goalPrefix: fromfile\nencoding: ISO-8859-1\n"), 0o644))

	out, err := run(t, c, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "config file: /work/mojoscan.yaml")
	assert.Regexp(t, `goal_prefix\s+fromenv\s+.*env MOJOSCAN_GOAL_PREFIX`, out)
	assert.Regexp(t, `encoding\s+ISO-8859-1\s+.*file /work/mojoscan.yaml`, out)
	assert.Regexp(t, `log_level\s+info\s+.*default`, out)
}

func TestContainer_NoGoals(t *testing.T) {
	c, _, _ := newTestContainer(t, nil)

	_, err := run(t, c, "generate", "--group-id", "org.acme", "--artifact-id", "empty-maven-plugin", "--plugin-version", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No mojo definitions were found for plugin: org.acme:empty-maven-plugin.")

	out, err := run(t, c, "generate", "--group-id", "org.acme", "--artifact-id", "empty-maven-plugin", "--plugin-version", "1",
		"--skip-error-no-descriptors-found", "--skip-descriptor")
	require.NoError(t, err)
	assert.NotContains(t, out, "Wrote")
}

func TestContainer_InvalidConfiguration(t *testing.T) {
	c, _, _ := newTestContainer(t, map[string]string{"MOJOSCAN_EXTRACTORS": "groovy"})

	_, err := run(t, c, "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extractor: groovy")
}

func TestContainer_Scan(t *testing.T) {
	c, fs, _ := newTestContainer(t, nil)
	writeCleanMojo(t, fs)

	out, err := run(t, c, "scan", "--artifact-id", "acme-maven-plugin")
	require.NoError(t, err)
	assert.Contains(t, out, "org.acme.CleanMojo")
	assert.Contains(t, out, "1 annotated classes")
}

func TestKnownExtractors(t *testing.T) {
	c, _, _ := newTestContainer(t, nil)
	_, err := c.Bootstrap(context.Background(), cli.BootstrapOptions{})
	require.NoError(t, err)
	assert.ElementsMatch(t, KnownExtractors(), c.Registry.Names())
	assert.Equal(t, "java-javadoc", c.Registry.Names()[0], "the java group runs first")
}
