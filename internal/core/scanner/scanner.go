// Package scanner reads class directories and dependency archives and folds
// the annotated classes it finds into one result per request.
package scanner

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"mojoscan.dev/cli/internal/core/annotations"
	"mojoscan.dev/cli/internal/core/classfile"
	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/ports"
)

// scannableClass matches class paths without a dash anywhere, which skips
// package-info, module-info and generated classes.
var scannableClass = regexp.MustCompile(`^[^-]+\.class$`)

// Build-tool API artifacts whose version is reported as the API in use.
const (
	mavenGroupID          = "org.apache.maven"
	mavenPluginAPI        = "maven-plugin-api"
	mavenAPICore          = "maven-api-core"
	archiveEntrySeparator = "!/"
)

// Request describes one scan.
type Request struct {
	// ClassDirectories hold the project's own compiled classes.
	ClassDirectories []string

	// Dependencies are archives or directories scanned for inherited
	// metadata; their goal annotations are dropped.
	Dependencies []domain.Artifact

	IncludePatterns []string
	ExcludePatterns []string

	Project domain.Artifact

	// MavenAPIVersion, when set, is kept instead of the detected version.
	MavenAPIVersion string
}

// Result is the outcome of one scan. It is built fresh per request.
type Result struct {
	// Classes holds every class carrying descriptor-relevant annotations.
	Classes map[string]*domain.ScannedClass

	// Hierarchy maps every class read, annotated or not, to its parent.
	Hierarchy map[string]string

	MavenAPIVersion string

	// MaxClassVersion is the highest class-file major version seen in the
	// project's own class directories.
	MaxClassVersion int
}

// Scanner dispatches class entries to a ClassDescriptorReader and the
// annotation normalizer. It keeps no per-request state.
type Scanner struct {
	fs         billy.Filesystem
	reader     classfile.ClassDescriptorReader
	normalizer *annotations.Normalizer
	logger     ports.LoggingGateway
}

// New creates a scanner reading through fs.
func New(fs billy.Filesystem, logger ports.LoggingGateway) *Scanner {
	return &Scanner{
		fs:         fs,
		reader:     classfile.NewParser(classfile.MojoFilter()),
		normalizer: annotations.NewNormalizer(),
		logger:     logger,
	}
}

// WithReader replaces the class reader.
func (s *Scanner) WithReader(r classfile.ClassDescriptorReader) *Scanner {
	s.reader = r
	return s
}

// source is one directory or archive together with how its classes are tagged.
type source struct {
	path      string
	artifact  domain.Artifact
	group     domain.SourceGroup
	stripMojo bool
}

// Scan reads dependencies first and project class directories last, so
// project classes replace same-named dependency classes.
func (s *Scanner) Scan(ctx context.Context, req Request) (*Result, error) {
	includes := req.IncludePatterns
	if len(includes) == 0 {
		includes = DefaultIncludes
	}
	matcher, err := NewMatcher(includes, req.ExcludePatterns)
	if err != nil {
		return nil, domain.NewExtractionError(domain.CodeExtractionFailed, "invalid include or exclude pattern", err)
	}

	res := &Result{
		Classes:         make(map[string]*domain.ScannedClass),
		Hierarchy:       make(map[string]string),
		MavenAPIVersion: req.MavenAPIVersion,
	}

	var sources []source
	for _, dep := range req.Dependencies {
		sources = append(sources, source{path: dep.File, artifact: dep, group: domain.SourceDependency, stripMojo: true})
		if res.MavenAPIVersion == "" && dep.GroupID == mavenGroupID &&
			(dep.ArtifactID == mavenPluginAPI || dep.ArtifactID == mavenAPICore) {
			res.MavenAPIVersion = dep.Version
		}
	}
	for _, dir := range req.ClassDirectories {
		sources = append(sources, source{path: dir, artifact: req.Project, group: domain.SourceProject})
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.scanSource(ctx, res, src, matcher); err != nil {
			return nil, err
		}
	}

	ports.Debug(s.logger, "Scan complete", map[string]interface{}{
		"classes":        len(res.Classes),
		"hierarchy":      len(res.Hierarchy),
		"maven_api":      res.MavenAPIVersion,
		"max_class_vers": res.MaxClassVersion,
	})
	return res, nil
}

func (s *Scanner) scanSource(ctx context.Context, res *Result, src source, matcher *Matcher) error {
	if src.path == "" {
		return nil
	}
	info, err := s.fs.Stat(src.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ports.Debug(s.logger, "Skipping missing class source", map[string]interface{}{"path": src.path})
			return nil
		}
		return domain.NewExtractionError(domain.CodeExtractionFailed, "cannot access class source", err).WithFile(src.path)
	}
	if info.IsDir() {
		return s.scanDirectory(ctx, res, src, matcher)
	}
	return s.scanArchive(ctx, res, src, info.Size())
}

func (s *Scanner) scanDirectory(ctx context.Context, res *Result, src source, matcher *Matcher) error {
	root := filepath.Clean(src.path)
	walkErr := util.Walk(s.fs, root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if fi.IsDir() {
			if rel != "." && matcher.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !matcher.Matches(rel) || !scannableClass.MatchString(rel) {
			return nil
		}
		return s.scanFile(res, src, p, rel)
	})
	if walkErr != nil {
		if domain.IsExtraction(walkErr) || errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return walkErr
		}
		return domain.NewExtractionError(domain.CodeExtractionFailed, "cannot walk class directory", walkErr).WithFile(root)
	}
	return nil
}

func (s *Scanner) scanFile(res *Result, src source, p, rel string) error {
	f, err := s.fs.Open(p)
	if err != nil {
		return domain.NewExtractionError(domain.CodeExtractionFailed, "cannot open class file", err).WithFile(p)
	}
	defer f.Close()
	return s.analyze(res, f, src, rel, p)
}

func (s *Scanner) scanArchive(ctx context.Context, res *Result, src source, size int64) error {
	f, err := s.fs.Open(src.path)
	if err != nil {
		return domain.NewExtractionError(domain.CodeExtractionFailed, "cannot open archive", err).WithFile(src.path)
	}
	defer f.Close()

	zr, err := zip.NewReader(f, size)
	if err != nil {
		return domain.NewExtractionError(domain.CodeExtractionFailed, "cannot read archive", err).WithFile(src.path)
	}
	for _, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.FileInfo().IsDir() || !scannableClass.MatchString(entry.Name) {
			continue
		}
		if err := s.scanEntry(res, src, entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanEntry(res *Result, src source, entry *zip.File) error {
	rc, err := entry.Open()
	if err != nil {
		s.warnSkipped(entry.Name, src.path, err)
		return nil
	}
	defer rc.Close()
	return s.analyze(res, rc, src, entry.Name, src.path+archiveEntrySeparator+entry.Name)
}

// analyze reads one class named name, found at where. A class that does not
// parse is logged and skipped; an annotation that does not decode fails the
// scan.
func (s *Scanner) analyze(res *Result, r io.Reader, src source, name, where string) error {
	info, err := s.reader.Read(r)
	if err != nil {
		s.warnSkipped(name, src.path, err)
		return nil
	}

	sc, err := s.normalizer.Normalize(info)
	if err != nil {
		var ee *domain.ExtractionError
		if errors.As(err, &ee) && ee.File == "" {
			ee.WithFile(where)
		}
		return err
	}

	res.Hierarchy[sc.ClassName] = sc.ParentClassName
	if src.group == domain.SourceProject && sc.ClassVersion > res.MaxClassVersion {
		res.MaxClassVersion = sc.ClassVersion
	}

	if src.stripMojo {
		sc.Mojo = nil
	}
	sc.Artifact = src.artifact
	sc.Source = src.group

	if !sc.HasAnnotations() {
		// a later source may still replace an annotated class of the same name
		delete(res.Classes, sc.ClassName)
		return nil
	}
	ports.Debug(s.logger, "Found annotated class", map[string]interface{}{
		"class":  sc.ClassName,
		"source": src.group.String(),
		"goal":   sc.Mojo != nil,
	})
	res.Classes[sc.ClassName] = sc
	return nil
}

func (s *Scanner) warnSkipped(name, container string, err error) {
	ports.Warn(s.logger, fmt.Sprintf("Error analyzing class %s in %s: ignoring class", name, container), map[string]interface{}{
		"error": err.Error(),
	})
}
