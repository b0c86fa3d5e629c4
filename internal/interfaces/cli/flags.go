package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mojoscan.dev/cli/internal/core/domain"
	configdomain "mojoscan.dev/cli/internal/core/domain/config"
)

// configFlags maps command-line flags onto configuration keys
var configFlags = []struct {
	flag string
	key  string
}{
	{"debug", configdomain.KeyDebug},
	{"log-level", configdomain.KeyLogLevel},
	{"log-json", configdomain.KeyLogJSON},
	{"extractor", configdomain.KeyExtractors},
	{"include", configdomain.KeyIncludes},
	{"exclude", configdomain.KeyExcludes},
	{"goal-prefix", configdomain.KeyGoalPrefix},
	{"encoding", configdomain.KeyEncoding},
	{"skip-descriptor", configdomain.KeySkipDescriptor},
	{"skip-error-no-descriptors-found", configdomain.KeySkipErrorNoDescriptorsFound},
	{"required-maven-version", configdomain.KeyRequiredMavenVersion},
	{"required-java-version", configdomain.KeyRequiredJavaVersion},
	{"output", configdomain.KeyOutputDirectory},
}

// collectOverrides returns the configuration keys set explicitly on the command line
func collectOverrides(cmd *cobra.Command) (map[string]interface{}, error) {
	overrides := make(map[string]interface{})
	for _, cf := range configFlags {
		f := cmd.Flags().Lookup(cf.flag)
		if f == nil || !f.Changed {
			continue
		}

		var (
			v   interface{}
			err error
		)
		switch f.Value.Type() {
		case "bool":
			v, err = cmd.Flags().GetBool(cf.flag)
		case "stringSlice":
			v, err = cmd.Flags().GetStringSlice(cf.flag)
		default:
			v = f.Value.String()
		}
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", cf.flag, err)
		}
		overrides[cf.key] = v
	}
	return overrides, nil
}

// addScanFlags adds the class selection flags shared by generate and scan
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("include", nil, "Glob of class files to scan (repeatable)")
	cmd.Flags().StringSlice("exclude", nil, "Glob of class files to skip (repeatable)")
	cmd.Flags().String("encoding", "", "Encoding of Java sources")
	cmd.Flags().Bool("skip-error-no-descriptors-found", false, "Do not fail when no goal is found")
}

// ProjectFlags describes the plugin project on the command line; set values
// override the project section of the config file
type ProjectFlags struct {
	GroupID     string
	ArtifactID  string
	Version     string
	Name        string
	Description string

	BaseDir      string
	Classes      string
	ClassDirs    []string
	SourceRoots  []string
	ScriptRoots  []string
	Dependencies []string
}

func addProjectFlags(cmd *cobra.Command, pf *ProjectFlags) {
	cmd.Flags().StringVar(&pf.GroupID, "group-id", "", "Plugin group id")
	cmd.Flags().StringVar(&pf.ArtifactID, "artifact-id", "", "Plugin artifact id")
	cmd.Flags().StringVar(&pf.Version, "plugin-version", "", "Plugin version")
	cmd.Flags().StringVar(&pf.Name, "name", "", "Plugin name")
	cmd.Flags().StringVar(&pf.Description, "description", "", "Plugin description")
	cmd.Flags().StringVar(&pf.BaseDir, "basedir", "", "Project base directory (default is the working directory)")
	cmd.Flags().StringVar(&pf.Classes, "classes", "", "Class output directory (default is target/classes)")
	cmd.Flags().StringSliceVar(&pf.ClassDirs, "class-dir", nil, "Additional class directory to scan (repeatable)")
	cmd.Flags().StringSliceVar(&pf.SourceRoots, "source-root", nil, "Java source root (default is src/main/java)")
	cmd.Flags().StringSliceVar(&pf.ScriptRoots, "script-root", nil, "Script source root (default is src/main/scripts)")
	cmd.Flags().StringArrayVar(&pf.Dependencies, "dependency", nil, "Dependency as group:artifact:version=path.jar (repeatable)")
}

const (
	defaultClasses    = "target/classes"
	defaultSourceRoot = "src/main/java"
	defaultScriptRoot = "src/main/scripts"
)

// BuildRequest merges the configured project with pf into an extraction request
func BuildRequest(rt *Runtime, pf *ProjectFlags) (*domain.PluginToolsRequest, error) {
	p := rt.Config.Project

	pick := func(flag, configured, def string) string {
		switch {
		case flag != "":
			return flag
		case configured != "":
			return configured
		}
		return def
	}
	picks := func(flag, configured []string, def string) []string {
		switch {
		case len(flag) > 0:
			return flag
		case len(configured) > 0:
			return configured
		}
		return []string{def}
	}

	baseDir := pick(pf.BaseDir, p.BaseDir, rt.WorkDir)
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(rt.WorkDir, baseDir)
	}

	req := &domain.PluginToolsRequest{
		Project: domain.Artifact{
			GroupID:    pick(pf.GroupID, p.GroupID, ""),
			ArtifactID: pick(pf.ArtifactID, p.ArtifactID, ""),
			Version:    pick(pf.Version, p.Version, ""),
			Type:       "maven-plugin",
		},
		ProjectName:                 pick(pf.Name, p.Name, ""),
		ProjectDescription:          pick(pf.Description, p.Description, ""),
		BaseDir:                     baseDir,
		OutputDirectory:             pick(pf.Classes, p.Classes, defaultClasses),
		CompileSourceRoots:          picks(pf.SourceRoots, p.SourceRoots, defaultSourceRoot),
		ScriptSourceRoots:           picks(pf.ScriptRoots, p.ScriptRoots, defaultScriptRoot),
		IncludePatterns:             rt.Config.IncludePatterns,
		ExcludePatterns:             rt.Config.ExcludePatterns,
		Encoding:                    rt.Config.Encoding,
		SkipErrorNoDescriptorsFound: rt.Config.SkipErrorNoDescriptorsFound,
	}
	if len(pf.ClassDirs) > 0 || len(p.ClassDirectories) > 0 {
		req.ClassDirectories = append([]string{req.OutputDirectory}, picks(pf.ClassDirs, p.ClassDirectories, "")...)
	}

	req.Dependencies = append(req.Dependencies, p.Dependencies...)
	for _, coords := range pf.Dependencies {
		a, err := domain.ParseArtifact(coords)
		if err != nil {
			return nil, fmt.Errorf("invalid --dependency: %w", err)
		}
		req.Dependencies = append(req.Dependencies, a)
	}
	return req, nil
}
