package extractor

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/testfixtures"
)

const echoMetadata = `<pluginMetadata>
  <mojos>
    <mojo>
      <goal>echo</goal>
      <call>echo-target</call>
      <phase>validate</phase>
      <requiresDependencyResolution>compile</requiresDependencyResolution>
      <requiresProject>false</requiresProject>
      <description>Echoes a message.</description>
      <deprecation>use the echo goal of another plugin</deprecation>
      <execution>
        <phase>initialize</phase>
      </execution>
      <components>
        <component>
          <role>org.acme.Printer</role>
          <hint>console</hint>
        </component>
      </components>
      <parameters>
        <parameter>
          <name>message</name>
          <property>echo.message</property>
          <required>true</required>
          <expression>${echo.message}</expression>
          <type>java.lang.String</type>
          <description>The message.</description>
        </parameter>
        <parameter>
          <name>basedir</name>
          <type>java.io.File</type>
          <readonly>true</readonly>
          <defaultValue>${project.basedir}</defaultValue>
          <description>Overrides the implicit base directory.</description>
        </parameter>
      </parameters>
    </mojo>
    <mojo>
      <goal>quiet</goal>
    </mojo>
  </mojos>
</pluginMetadata>`

// TestScript_Extract tests pairing metadata with its script and copying the scripts
func TestScript_Extract(t *testing.T) {
	fs := memfs.New()
	writeSources(t, fs, map[string]string{
		"/p/src/main/scripts/org/acme/echo.mojos.xml": echoMetadata,
		"/p/src/main/scripts/org/acme/echo.build.xml": "<project/>",
		"/p/src/main/scripts/readme.txt":              "not a script",
	})

	logger := testfixtures.NewRecordingLogger()
	res, err := NewScript(fs, logger).Extract(context.Background(), &domain.PluginToolsRequest{
		BaseDir:           "/p",
		OutputDirectory:   "target/classes",
		ScriptSourceRoots: []string{"src/main/scripts", "src/missing"},
	})
	require.NoError(t, err)
	require.Len(t, res.Mojos, 2)

	echo := res.Mojos[0]
	assert.Equal(t, "echo", echo.Goal)
	assert.Equal(t, "org/acme/echo.build.xml:echo-target", echo.Implementation)
	assert.Equal(t, domain.LanguageAnt, echo.Language)
	assert.Equal(t, "map-oriented", echo.ComponentComposer)
	assert.Equal(t, "map-oriented", echo.ComponentConfigurator)
	assert.Equal(t, AntName, echo.Source)
	assert.Equal(t, "validate", echo.Phase)
	assert.Equal(t, "initialize", echo.ExecutePhase)
	assert.Equal(t, "compile", echo.DependencyResolution)
	assert.False(t, echo.ProjectRequired)
	assert.Equal(t, "Echoes a message.", echo.Description)
	require.NotNil(t, echo.Deprecated)
	assert.Equal(t, "use the echo goal of another plugin", *echo.Deprecated)

	assert.Equal(t, []string{"echo.message", "basedir", "messageLevel", "project", "session", "mojoExecution"}, paramNames(echo))
	message, _ := echo.Parameter("echo.message")
	assert.True(t, message.Required)
	assert.True(t, message.Editable)
	basedir, _ := echo.Parameter("basedir")
	assert.Equal(t, "Overrides the implicit base directory.", basedir.Description, "declared parameters win over implicit ones")
	assert.False(t, basedir.Editable)

	assert.True(t, echo.HasRequirementRole("org.acme.Printer"))
	assert.True(t, echo.HasRequirementRole("org.apache.maven.project.path.PathTranslator"))

	quiet := res.Mojos[1]
	assert.Equal(t, "org/acme/echo.build.xml", quiet.Implementation, "no call keeps the bare script path")
	assert.True(t, quiet.ProjectRequired)
	assert.Len(t, quiet.Parameters, len(implicitParameters))

	copied, err := util.ReadFile(fs, "/p/target/classes/org/acme/echo.build.xml")
	require.NoError(t, err)
	assert.Equal(t, "<project/>", string(copied))
	_, err = fs.Stat("/p/target/classes/readme.txt")
	assert.Error(t, err)
}

// TestScript_Failures tests metadata that cannot be turned into descriptors
func TestScript_Failures(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]string
		code   domain.ErrorCode
		errMsg string
	}{
		{
			name:   "metadata without script",
			files:  map[string]string{"/s/orphan.mojos.xml": "<pluginMetadata/>"},
			code:   domain.CodeOrphanedMetadata,
			errMsg: "Found orphaned plugin metadata file: /s/orphan.mojos.xml",
		},
		{
			name: "parameter without name",
			files: map[string]string{
				"/s/a.mojos.xml": "<pluginMetadata><mojos><mojo><goal>a</goal><parameters><parameter><type>int</type></parameter></parameters></mojo></mojos></pluginMetadata>",
				"/s/a.build.xml": "<project/>",
			},
			code:   domain.CodeInvalidParameter,
			errMsg: "Mojo: 'a' has a parameter without either property or name attributes. Please specify one.",
		},
		{
			name: "duplicate parameter",
			files: map[string]string{
				"/s/a.mojos.xml": "<pluginMetadata><mojos><mojo><goal>a</goal><parameters><parameter><name>x</name></parameter><parameter><property>x</property></parameter></parameters></mojo></mojos></pluginMetadata>",
				"/s/a.build.xml": "<project/>",
			},
			code:   domain.CodeDuplicateParameter,
			errMsg: "duplicate parameters detected for mojo a",
		},
		{
			name: "malformed metadata",
			files: map[string]string{
				"/s/a.mojos.xml": "<pluginMetadata><mojos>",
				"/s/a.build.xml": "<project/>",
			},
			code:   domain.CodeExtractionFailed,
			errMsg: "Error extracting mojo descriptor from script: /s/a.mojos.xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			writeSources(t, fs, tt.files)
			_, err := NewScript(fs, nil).Extract(context.Background(), &domain.PluginToolsRequest{ScriptSourceRoots: []string{"/s"}})
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.CodeOf(err))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// TestScript_NoRoots tests that a project without scripts yields nothing
func TestScript_NoRoots(t *testing.T) {
	res, err := NewScript(memfs.New(), nil).Extract(context.Background(), &domain.PluginToolsRequest{
		ScriptSourceRoots: []string{"/nowhere"},
		OutputDirectory:   "/out",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Mojos)
}
