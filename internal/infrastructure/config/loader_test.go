package config

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mojoscan.dev/cli/internal/core/domain"
	configdomain "mojoscan.dev/cli/internal/core/domain/config"
)

func envOf(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

func TestEnvLoader_Load(t *testing.T) {
	loader := NewEnvLoaderWith(envOf(map[string]string{
		"MOJOSCAN_LOG_LEVEL":       "debug",
		"MOJOSCAN_SKIP_DESCRIPTOR": "true",
		"MOJOSCAN_EXTRACTORS":      "java-annotations, ant,",
		"MOJOSCAN_GOAL_PREFIX":     "",
		"KM_LOG_LEVEL":             "error",
	}))

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{configdomain.KeyExtractors, configdomain.KeyLogLevel, configdomain.KeySkipDescriptor}, snap.Keys())
	assert.Equal(t, "debug", snap[configdomain.KeyLogLevel].Value)
	assert.Equal(t, true, snap[configdomain.KeySkipDescriptor].Value)
	assert.Equal(t, []string{"java-annotations", "ant"}, snap[configdomain.KeyExtractors].Value)
	assert.Equal(t, configdomain.PriorityEnv, snap[configdomain.KeyLogLevel].Priority)
	assert.Equal(t, "MOJOSCAN_LOG_LEVEL", snap[configdomain.KeyLogLevel].SourcePath)
}

func TestEnvLoader_InvalidBool(t *testing.T) {
	loader := NewEnvLoaderWith(envOf(map[string]string{"MOJOSCAN_DEBUG": "sometimes"}))
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid MOJOSCAN_DEBUG")
}

func TestDotEnvLoader_Load(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/work/.env", []byte("MOJOSCAN_ENCODING=ISO-8859-1\nOTHER=1\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/home/.config/mojoscan/.env",
		[]byte("MOJOSCAN_ENCODING=UTF-16\nMOJOSCAN_INCLUDES=org/acme/**\n"), 0o644))

	loader := NewDotEnvLoader(fs, "/work/.env", "/missing/.env", "/home/.config/mojoscan/.env")
	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ISO-8859-1", snap[configdomain.KeyEncoding].Value, "the first file wins")
	assert.Equal(t, "/work/.env:MOJOSCAN_ENCODING", snap[configdomain.KeyEncoding].SourcePath)
	assert.Equal(t, []string{"org/acme/**"}, snap[configdomain.KeyIncludes].Value)
	assert.Equal(t, configdomain.PriorityDotEnv, snap[configdomain.KeyIncludes].Priority)
	assert.Len(t, snap, 2)
}

const sampleYAML = `
logLevel: warn
excludes: ["**/internal/**"]
requiredMavenVersion: 3.6.3
project:
  groupId: org.acme
  artifactId: acme-maven-plugin
  version: 1.0.0
  name: Acme Plugin
  classes: target/classes
  dependencies:
    - groupId: org.apache.maven
      artifactId: maven-plugin-api
      version: 3.9.6
      file: lib/maven-plugin-api.jar
`

func TestFileLoader_Load(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/work/.mojoscan.yaml", []byte(sampleYAML), 0o644))

	loader := NewFileLoader(fs, "", "/work/mojoscan.yaml", "/work/.mojoscan.yaml")
	assert.Equal(t, "/work/.mojoscan.yaml", loader.Path())

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "warn", snap[configdomain.KeyLogLevel].Value)
	assert.Equal(t, []string{"**/internal/**"}, snap[configdomain.KeyExcludes].Value)
	assert.Equal(t, "3.6.3", snap[configdomain.KeyRequiredMavenVersion].Value)

	project, ok := snap[configdomain.KeyProject].Value.(configdomain.Project)
	require.True(t, ok)
	assert.Equal(t, "acme-maven-plugin", project.ArtifactID)
	assert.Equal(t, "target/classes", project.Classes)
	require.Len(t, project.Dependencies, 1)
	assert.Equal(t, "lib/maven-plugin-api.jar", project.Dependencies[0].File)
}

func TestFileLoader_Errors(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/bad.yaml", []byte("logLevel: warn\ncolour: blue\n"), 0o644))

	_, err := NewFileLoader(fs, "/bad.yaml").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file /bad.yaml")

	_, err = NewFileLoader(fs, "/nowhere.yaml").Load(context.Background())
	require.Error(t, err, "an explicit config file must exist")

	snap, err := NewFileLoader(fs, "", "/nowhere.yaml").Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestRepository_Load(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/work/mojoscan.yaml", []byte(sampleYAML), 0o644))
	require.NoError(t, util.WriteFile(fs, "/work/.env", []byte("MOJOSCAN_LOG_LEVEL=info\nMOJOSCAN_GOAL_PREFIX=dotenv\n"), 0o644))

	repo := NewRepository(NewConfigValidator([]string{"ant"}),
		NewFlagLoader(map[string]interface{}{configdomain.KeyGoalPrefix: "flag"}),
		NewEnvLoaderWith(envOf(map[string]string{"MOJOSCAN_LOG_LEVEL": "error"})),
		NewDotEnvLoader(fs, "/work/.env"),
		NewFileLoader(fs, "", "/work/mojoscan.yaml"),
	)

	cfg, snap, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel, "environment beats .env and file")
	assert.Equal(t, "flag", cfg.GoalPrefix, "flags beat everything")
	assert.Equal(t, "UTF-8", cfg.Encoding)
	assert.Equal(t, "default", snap[configdomain.KeyEncoding].Source)
	assert.Equal(t, []string{"**/internal/**"}, cfg.ExcludePatterns)
	assert.Equal(t, domain.Artifact{GroupID: "org.acme", ArtifactID: "acme-maven-plugin", Version: "1.0.0"}, cfg.Project.Artifact)
}

func TestRepository_ValidationFailure(t *testing.T) {
	repo := NewRepository(NewConfigValidator([]string{"ant"}),
		NewFlagLoader(map[string]interface{}{configdomain.KeyExtractors: []string{"groovy"}}))

	_, _, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "unknown extractor: groovy")
}

func TestDefaultLoaders(t *testing.T) {
	loaders := DefaultLoaders(memfs.New(), Locations{WorkDir: "/w", HomeDir: "/h"}, envOf(nil), nil)
	names := make([]string, len(loaders))
	for i, l := range loaders {
		names[i] = l.Name()
	}
	assert.Equal(t, []string{"flags", "env", "dotenv", "file"}, names)
}
