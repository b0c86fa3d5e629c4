package extractor

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/ports"
	"mojoscan.dev/cli/internal/core/scanner"
)

// AntName is the id of the Ant script extractor.
const AntName = "ant"

const (
	metadataExtension = ".mojos.xml"
	scriptExtension   = ".build.xml"

	// implBasePlaceholder stands for the script path until the metadata is
	// paired with its script.
	implBasePlaceholder = "<REPLACE-WITH-MOJO-PATH>"

	mapOriented    = "map-oriented"
	pathTranslator = "org.apache.maven.project.path.PathTranslator"
)

// Script builds descriptors for Ant-scripted goals: a foo.mojos.xml
// metadata file describes the goals implemented by the foo.build.xml script
// next to it. Scripts are copied to the output directory.
type Script struct {
	fs     billy.Filesystem
	logger ports.LoggingGateway
}

// NewScript creates the Ant script extractor reading and writing through fs.
func NewScript(fs billy.Filesystem, logger ports.LoggingGateway) *Script {
	return &Script{fs: fs, logger: logger}
}

func (s *Script) Name() string { return AntName }
func (s *Script) Group() GroupKey { return GroupKey{Group: GroupAnt, Order: 0} }
func (s *Script) Deprecated() bool { return true }

// scriptRoot is one script source root and the matching files below it.
type scriptRoot struct {
	dir   string
	files []string
}

// Extract reads the metadata files under the script source roots of req.
func (s *Script) Extract(ctx context.Context, req *domain.PluginToolsRequest) (*domain.ExtractionResult, error) {
	roots := resolveAll(req.BaseDir, req.ScriptSourceRoots)
	sort.Strings(roots)

	scripts, err := s.gather(ctx, roots, scriptExtension)
	if err != nil {
		return nil, err
	}
	metadata, err := s.gather(ctx, roots, metadataExtension)
	if err != nil {
		return nil, err
	}

	res := &domain.ExtractionResult{}
	for _, root := range metadata {
		for _, file := range root.files {
			mojos, err := s.fromMetadata(root.dir, file)
			if err != nil {
				return nil, err
			}
			res.Mojos = append(res.Mojos, mojos...)
		}
	}

	if err := s.copyScripts(scripts, resolve(req.BaseDir, req.OutputDirectory)); err != nil {
		return nil, err
	}
	return res, nil
}

// gather lists the files ending in ext below each existing root.
func (s *Script) gather(ctx context.Context, roots []string, ext string) ([]scriptRoot, error) {
	matcher, err := scanner.NewMatcher([]string{"**/*" + ext}, nil)
	if err != nil {
		return nil, err
	}

	var out []scriptRoot
	for _, dir := range roots {
		if _, err := s.fs.Stat(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				ports.Debug(s.logger, "Skipping missing script root", map[string]interface{}{"path": dir})
				continue
			}
			return nil, domain.NewExtractionError(domain.CodeExtractionFailed, "cannot access script root", err).WithFile(dir)
		}
		ports.Debug(s.logger, "Scanning script dir", map[string]interface{}{"path": dir, "extension": ext})

		root := scriptRoot{dir: dir}
		walkErr := util.Walk(s.fs, dir, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if fi.IsDir() {
				if rel != "." && matcher.Excluded(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(rel, ext) && matcher.Matches(rel) {
				root.files = append(root.files, p)
			}
			return nil
		})
		if walkErr != nil {
			if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
				return nil, walkErr
			}
			return nil, domain.NewExtractionError(domain.CodeExtractionFailed, "cannot walk script root", walkErr).WithFile(dir)
		}
		sort.Strings(root.files)
		out = append(out, root)
	}
	return out, nil
}

func (s *Script) fromMetadata(root, file string) ([]*domain.MojoDescriptor, error) {
	base := strings.TrimSuffix(filepath.Base(file), metadataExtension)
	script := filepath.Join(filepath.Dir(file), base+scriptExtension)
	if _, err := s.fs.Stat(script); err != nil {
		return nil, domain.NewInvalidDescriptorError(domain.CodeOrphanedMetadata,
			"Found orphaned plugin metadata file: "+file).WithCause(err)
	}
	rel, err := filepath.Rel(root, script)
	if err != nil {
		return nil, domain.NewExtractionError(domain.CodeExtractionFailed, "cannot relativize script path", err).WithFile(script)
	}
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")

	data, err := util.ReadFile(s.fs, file)
	if err != nil {
		return nil, domain.NewExtractionError(domain.CodeExtractionFailed, "cannot read plugin metadata", err).WithFile(file)
	}
	var meta pluginMetadata
	if err := xml.Unmarshal(data, &meta); err != nil {
		return nil, domain.NewExtractionError(domain.CodeExtractionFailed,
			"Error extracting mojo descriptor from script: "+file, err).WithFile(file)
	}

	out := make([]*domain.MojoDescriptor, 0, len(meta.Mojos))
	for _, m := range meta.Mojos {
		md, err := m.descriptor()
		if err != nil {
			return nil, err
		}
		addImplicitParameters(md)
		if !md.HasRequirementRole(pathTranslator) {
			md.AddRequirement(&domain.Requirement{Role: pathTranslator})
		}

		md.Implementation = rel + strings.TrimPrefix(md.Implementation, implBasePlaceholder)
		md.Language = domain.LanguageAnt
		md.ComponentComposer = mapOriented
		md.ComponentConfigurator = mapOriented
		md.Source = AntName
		out = append(out, md)
	}
	return out, nil
}

// implicitParameters are added to every Ant goal that does not declare them.
var implicitParameters = []domain.Parameter{
	{
		Name:         "basedir",
		Alias:        "ant.basedir",
		Type:         "java.io.File",
		Expression:   "${antBasedir}",
		DefaultValue: "${basedir}",
		Description:  "The base directory from which to execute the Ant script.",
		Editable:     true,
		Required:     true,
	},
	{
		Name:         "messageLevel",
		Alias:        "ant.messageLevel",
		Type:         "java.lang.String",
		Expression:   "${antMessageLevel}",
		DefaultValue: "info",
		Description:  "The message-level used to tune the verbosity of Ant logging.",
		Editable:     true,
	},
	{
		Name:         "project",
		Type:         "org.apache.maven.project.MavenProject",
		DefaultValue: "${project}",
		Description:  "The current MavenProject instance, which contains classpath elements.",
		Required:     true,
	},
	{
		Name:         "session",
		Type:         "org.apache.maven.execution.MavenSession",
		DefaultValue: "${session}",
		Description:  "The current MavenSession instance, which is used for plugin-style expression resolution.",
		Required:     true,
	},
	{
		Name:         "mojoExecution",
		Type:         "org.apache.maven.plugin.MojoExecution",
		DefaultValue: "${mojoExecution}",
		Description:  "The current Maven MojoExecution instance, which contains information about the mojo currently executing.",
		Required:     true,
	},
}

func addImplicitParameters(md *domain.MojoDescriptor) {
	for _, p := range implicitParameters {
		if _, ok := md.Parameter(p.Name); ok {
			continue
		}
		p := p
		md.Parameters = append(md.Parameters, &p)
	}
}

func (s *Script) copyScripts(roots []scriptRoot, outputDir string) error {
	if outputDir == "" {
		return nil
	}
	for _, root := range roots {
		for _, file := range root.files {
			rel, err := filepath.Rel(root.dir, file)
			if err != nil {
				return err
			}
			dst := filepath.Join(outputDir, rel)
			if err := s.copyFile(file, dst); err != nil {
				return domain.NewExtractionError(domain.CodeExtractionFailed,
					fmt.Sprintf("Cannot copy script file: %s to output: %s", file, dst), err).WithFile(file)
			}
			ports.Debug(s.logger, "Copied script", map[string]interface{}{"from": file, "to": dst})
		}
	}
	return nil
}

func (s *Script) copyFile(src, dst string) error {
	if err := s.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := s.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := s.fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// pluginMetadata is the <pluginMetadata> document of a .mojos.xml file.
type pluginMetadata struct {
	XMLName xml.Name       `xml:"pluginMetadata"`
	Mojos   []mojoMetadata `xml:"mojos>mojo"`
}

type mojoMetadata struct {
	Goal                         string              `xml:"goal"`
	Phase                        string              `xml:"phase"`
	Call                         *string             `xml:"call"`
	RequiresDependencyResolution string              `xml:"requiresDependencyResolution"`
	RequiresProject              *bool               `xml:"requiresProject"`
	RequiresReports              bool                `xml:"requiresReports"`
	Aggregator                   bool                `xml:"aggregator"`
	RequiresOnline               bool                `xml:"requiresOnline"`
	RequiresDirectInvocation     bool                `xml:"requiresDirectInvocation"`
	InheritByDefault             *bool               `xml:"inheritByDefault"`
	Execution                    *executionMetadata  `xml:"execution"`
	Components                   []componentMetadata `xml:"components>component"`
	Parameters                   []parameterMetadata `xml:"parameters>parameter"`
	Description                  string              `xml:"description"`
	Deprecation                  *string             `xml:"deprecation"`
	Since                        string              `xml:"since"`
}

type executionMetadata struct {
	Phase     string `xml:"phase"`
	Goal      string `xml:"goal"`
	Lifecycle string `xml:"lifecycle"`
}

type componentMetadata struct {
	Role string `xml:"role"`
	Hint string `xml:"hint"`
}

type parameterMetadata struct {
	Name         string  `xml:"name"`
	Alias        string  `xml:"alias"`
	Property     string  `xml:"property"`
	Required     bool    `xml:"required"`
	Readonly     bool    `xml:"readonly"`
	Expression   string  `xml:"expression"`
	DefaultValue string  `xml:"defaultValue"`
	Type         string  `xml:"type"`
	Description  string  `xml:"description"`
	Deprecation  *string `xml:"deprecation"`
	Since        string  `xml:"since"`
}

func (m mojoMetadata) descriptor() (*domain.MojoDescriptor, error) {
	md := domain.NewMojoDescriptor()
	md.Implementation = implBasePlaceholder
	if m.Call != nil {
		md.Implementation += ":" + *m.Call
	}
	md.Goal = m.Goal
	md.Phase = m.Phase
	md.DependencyResolution = m.RequiresDependencyResolution
	md.Aggregator = m.Aggregator
	md.DirectInvocationOnly = m.RequiresDirectInvocation
	md.OnlineRequired = m.RequiresOnline
	md.RequiresReports = m.RequiresReports
	if m.InheritByDefault != nil {
		md.InheritedByDefault = *m.InheritByDefault
	}
	if m.RequiresProject != nil {
		md.ProjectRequired = *m.RequiresProject
	}
	md.Description = m.Description
	md.Deprecated = m.Deprecation
	md.Since = m.Since
	if e := m.Execution; e != nil {
		md.ExecutePhase = e.Phase
		md.ExecuteGoal = e.Goal
		md.ExecuteLifecycle = e.Lifecycle
	}

	for _, pm := range m.Parameters {
		name := pm.Property
		if name == "" {
			name = pm.Name
		}
		if name == "" {
			return nil, domain.NewInvalidDescriptorError(domain.CodeInvalidParameter,
				fmt.Sprintf("Mojo: '%s' has a parameter without either property or name attributes. Please specify one.", m.Goal)).
				WithGoal(m.Goal)
		}
		p := &domain.Parameter{
			Name:         name,
			Alias:        pm.Alias,
			Type:         pm.Type,
			Required:     pm.Required,
			Editable:     !pm.Readonly,
			Expression:   pm.Expression,
			DefaultValue: pm.DefaultValue,
			Description:  pm.Description,
			Since:        pm.Since,
			Deprecated:   pm.Deprecation,
		}
		if err := md.AddParameter(p); err != nil {
			return nil, fmt.Errorf("duplicate parameters detected for mojo %s: %w", m.Goal, err)
		}
	}

	for _, c := range m.Components {
		md.AddRequirement(&domain.Requirement{Role: c.Role, RoleHint: c.Hint})
	}
	return md, nil
}
