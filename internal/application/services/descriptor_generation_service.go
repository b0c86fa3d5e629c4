package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	appports "mojoscan.dev/cli/internal/application/ports"
	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/extractor"
	"mojoscan.dev/cli/internal/core/ports"
	"mojoscan.dev/cli/internal/core/scanner"
)

// GenerateRequest carries a project request together with the generator settings
type GenerateRequest struct {
	Project *domain.PluginToolsRequest

	// Extractors selects the extractor ids to run; empty runs all
	Extractors []string

	GoalPrefix           string
	RequiredMavenVersion string
	RequiredJavaVersion  string

	// DescriptorDirectory receives META-INF/maven; defaults to the project's output directory
	DescriptorDirectory string
	SkipDescriptor      bool
}

// GenerateResult is what one Generate call produced
type GenerateResult struct {
	Plugin  *domain.PluginDescriptor
	Summary *extractor.Summary

	// Written lists the descriptor files, empty when writing was skipped
	Written []string
}

// DescriptorGenerationService runs project requests through the extractors and descriptor writer
type DescriptorGenerationService struct {
	registry *extractor.Registry
	scanner  appports.ClassScanner
	writer   appports.DescriptorWriter
	logger   ports.LoggingGateway
}

// NewDescriptorGenerationService creates a new descriptor generation service
func NewDescriptorGenerationService(
	registry *extractor.Registry,
	scanner appports.ClassScanner,
	writer appports.DescriptorWriter,
	logger ports.LoggingGateway,
) *DescriptorGenerationService {
	return &DescriptorGenerationService{
		registry: registry,
		scanner:  scanner,
		writer:   writer,
		logger:   logger,
	}
}

// Generate builds the plugin descriptor of req.Project and writes it unless skipped
func (s *DescriptorGenerationService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	project := req.Project
	if project == nil {
		return nil, fmt.Errorf("no project given")
	}
	a := project.Project
	if a.ArtifactID == "" {
		return nil, fmt.Errorf("project artifact id is required")
	}

	if domain.IsReservedArtifactID(a.GroupID, a.ArtifactID) {
		ports.Warn(s.logger, fmt.Sprintf(
			"Artifact Ids of the format maven-___-plugin are reserved for plugins in the Group Id org.apache.maven.plugins. "+
				"Please change your artifactId to the format ___-maven-plugin. Found: %s", a.ArtifactID), nil)
	}

	pd := domain.NewPluginDescriptor(a)
	pd.Name = project.ProjectName
	pd.Description = project.ProjectDescription
	pd.GoalPrefix = req.GoalPrefix
	if pd.GoalPrefix == "" {
		pd.GoalPrefix = domain.GoalPrefixFromArtifactID(a.ArtifactID)
	} else if pd.GoalPrefix != domain.GoalPrefixFromArtifactID(a.ArtifactID) {
		ports.Warn(s.logger, fmt.Sprintf("Goal prefix is specified as: '%s'. Maven currently expects it to be '%s'.",
			pd.GoalPrefix, domain.GoalPrefixFromArtifactID(a.ArtifactID)), nil)
	}
	for _, dep := range project.Dependencies {
		dep.File = ""
		dep.Scope = ""
		pd.Dependencies = append(pd.Dependencies, dep)
	}

	summary, err := s.registry.Populate(ctx, project, req.Extractors, pd)
	if err != nil {
		return nil, fmt.Errorf("failed to extract goal descriptors: %w", err)
	}

	if pd.RequiredMavenVersion, err = requiredVersion("Maven", req.RequiredMavenVersion, summary.MavenAPIVersion); err != nil {
		return nil, err
	}
	if pd.RequiredJavaVersion, err = requiredVersion("Java", req.RequiredJavaVersion,
		domain.JavaVersionForClassVersion(summary.MaxClassVersion)); err != nil {
		return nil, err
	}

	result := &GenerateResult{Plugin: pd, Summary: summary}
	if req.SkipDescriptor {
		ports.Info(s.logger, "Skipping plugin descriptor generation", nil)
		return result, nil
	}

	outputDir := req.DescriptorDirectory
	if outputDir == "" {
		outputDir = project.OutputDirectory
	}
	if outputDir == "" {
		return nil, fmt.Errorf("no output directory for the plugin descriptor")
	}
	if !filepath.IsAbs(outputDir) && project.BaseDir != "" {
		outputDir = filepath.Join(project.BaseDir, outputDir)
	}

	result.Written, err = s.writer.WriteAll(outputDir, pd)
	if err != nil {
		return nil, fmt.Errorf("failed to write plugin descriptor: %w", err)
	}
	ports.Info(s.logger, fmt.Sprintf("Wrote %d goal%s to %s", len(pd.Mojos), pluralS(len(pd.Mojos)), result.Written[0]), nil)
	return result, nil
}

// requiredVersion picks the explicit version, else the detected one, and checks its syntax
func requiredVersion(what, explicit, detected string) (string, error) {
	v := explicit
	if v == "" {
		v = detected
	}
	if v == "" {
		return "", nil
	}
	if _, err := semver.NewVersion(v); err != nil {
		return "", fmt.Errorf("invalid required %s version %q: %w", what, v, err)
	}
	return v, nil
}

// Scan returns the annotated classes of the project without assembling goals
func (s *DescriptorGenerationService) Scan(ctx context.Context, project *domain.PluginToolsRequest) (*scanner.Result, error) {
	deps := make([]domain.Artifact, 0, len(project.Dependencies))
	for _, d := range project.Dependencies {
		if d.File != "" && !filepath.IsAbs(d.File) && project.BaseDir != "" {
			d.File = filepath.Join(project.BaseDir, d.File)
		}
		deps = append(deps, d)
	}
	var dirs []string
	for _, dir := range project.ClassRoots() {
		if !filepath.IsAbs(dir) && project.BaseDir != "" {
			dir = filepath.Join(project.BaseDir, dir)
		}
		dirs = append(dirs, dir)
	}

	res, err := s.scanner.Scan(ctx, scanner.Request{
		ClassDirectories: dirs,
		Dependencies:     deps,
		IncludePatterns:  project.IncludePatterns,
		ExcludePatterns:  project.ExcludePatterns,
		Project:          project.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan classes: %w", err)
	}
	return res, nil
}

// Inspect reads a stored descriptor and reports consistency problems
func (s *DescriptorGenerationService) Inspect(path string) (*domain.PluginDescriptor, []string, error) {
	pd, err := s.writer.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return pd, Check(pd), nil
}

// Check lists the problems a build tool would reject in pd
func Check(pd *domain.PluginDescriptor) []string {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if pd.GroupID == "" || pd.ArtifactID == "" || pd.Version == "" {
		add("plugin coordinates are incomplete: %s:%s:%s", pd.GroupID, pd.ArtifactID, pd.Version)
	}
	if pd.GoalPrefix == "" {
		add("plugin has no goal prefix")
	}
	if len(pd.Mojos) == 0 {
		add("plugin declares no goals")
	}
	for _, v := range []struct{ what, version string }{
		{"Maven", pd.RequiredMavenVersion},
		{"Java", pd.RequiredJavaVersion},
	} {
		if v.version == "" {
			continue
		}
		if _, err := semver.NewVersion(v.version); err != nil {
			add("invalid required %s version %q", v.what, v.version)
		}
	}

	for _, md := range pd.Mojos {
		if md.Implementation == "" {
			add("goal %s has no implementation", md.Goal)
		}
		if md.Phase != "" && !knownPhase(md.Phase) {
			add("goal %s binds to unknown phase %s", md.Goal, md.Phase)
		}
		if md.ExecuteGoal != "" && md.ExecuteLifecycle != "" {
			add("goal %s forks both goal %s and lifecycle %s", md.Goal, md.ExecuteGoal, md.ExecuteLifecycle)
		}
		for _, p := range md.Parameters {
			if strings.TrimSpace(p.Type) == "" {
				add("parameter %s of goal %s has no type", p.Name, md.Goal)
			}
		}
	}
	return problems
}

func knownPhase(id string) bool {
	for _, p := range domain.LifecyclePhases() {
		if p.ID() == id {
			return true
		}
	}
	return false
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
