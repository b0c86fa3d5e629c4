package extractor

import (
	"context"

	"github.com/go-git/go-billy/v5"

	"mojoscan.dev/cli/internal/core/assembler"
	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/javasource"
	"mojoscan.dev/cli/internal/core/ports"
	"mojoscan.dev/cli/internal/core/scanner"
)

// AnnotationsName is the id of the class annotation extractor.
const AnnotationsName = "java-annotations"

// Annotations builds descriptors from annotated class files. Doc comments
// of the matching Java sources, when present, supply the descriptions.
type Annotations struct {
	scanner   *scanner.Scanner
	loader    *javasource.Loader
	assembler *assembler.Assembler
	logger    ports.LoggingGateway
}

// NewAnnotations creates the class annotation extractor reading through fs.
func NewAnnotations(fs billy.Filesystem, logger ports.LoggingGateway) *Annotations {
	return &Annotations{
		scanner:   scanner.New(fs, logger),
		loader:    javasource.NewLoader(fs, logger),
		assembler: assembler.New(logger),
		logger:    logger,
	}
}

func (a *Annotations) Name() string { return AnnotationsName }
func (a *Annotations) Group() GroupKey { return GroupKey{Group: GroupJava, Order: 1} }
func (a *Annotations) Deprecated() bool { return false }

// Extract scans the class directories and dependencies of req.
func (a *Annotations) Extract(ctx context.Context, req *domain.PluginToolsRequest) (*domain.ExtractionResult, error) {
	deps := make([]domain.Artifact, 0, len(req.Dependencies))
	for _, d := range req.Dependencies {
		d.File = resolve(req.BaseDir, d.File)
		deps = append(deps, d)
	}

	res, err := a.scanner.Scan(ctx, scanner.Request{
		ClassDirectories: resolveAll(req.BaseDir, req.ClassRoots()),
		Dependencies:     deps,
		IncludePatterns:  req.IncludePatterns,
		ExcludePatterns:  req.ExcludePatterns,
		Project:          req.Project,
	})
	if err != nil {
		return nil, err
	}

	classes := res.Classes
	if roots := resolveAll(req.BaseDir, req.CompileSourceRoots); len(roots) > 0 {
		lib, err := a.loader.Load(ctx, roots, req.Encoding)
		if err != nil {
			return nil, err
		}
		classes = assembler.EnrichFromSources(classes, res.Hierarchy, lib)
	}

	mojos, err := a.assembler.Assemble(classes, res.Hierarchy)
	if err != nil {
		return nil, err
	}
	return &domain.ExtractionResult{
		Mojos:           mojos,
		MavenAPIVersion: res.MavenAPIVersion,
		MaxClassVersion: res.MaxClassVersion,
	}, nil
}
