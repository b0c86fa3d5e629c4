// Package extractor defines the goal descriptor extractors and the registry
// that runs them in order and collects their descriptors into a plugin
// descriptor.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/ports"
)

// Extractor groups.
const (
	GroupJava = "java"
	GroupAnt  = "ant"
)

// GroupKey orders extractors: by group, with the java group always first,
// then by order inside the group.
type GroupKey struct {
	Group string
	Order int
}

// Less reports whether k sorts before o.
func (k GroupKey) Less(o GroupKey) bool {
	if k.Group != o.Group {
		if k.Group == GroupJava || o.Group == GroupJava {
			return k.Group == GroupJava
		}
		return k.Group < o.Group
	}
	return k.Order < o.Order
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s:%d", k.Group, k.Order)
}

// Extractor produces goal descriptors from one kind of project input.
type Extractor interface {
	// Name is the id used to activate the extractor
	Name() string

	// Group places the extractor in the run order
	Group() GroupKey

	// Deprecated extractors still run but warn when they find goals
	Deprecated() bool

	// Extract builds the descriptors for req. The result is owned by the caller.
	Extract(ctx context.Context, req *domain.PluginToolsRequest) (*domain.ExtractionResult, error)
}

// Summary reports what a Populate run found.
type Summary struct {
	// Counts holds the number of goals per extractor, in run order
	Counts []Count

	MavenAPIVersion string
	MaxClassVersion int
}

// Count is the number of goals one extractor found.
type Count struct {
	Extractor string
	Goals     int
}

// Total returns the number of goals found by all extractors.
func (s *Summary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c.Goals
	}
	return n
}

// Registry holds the known extractors by name.
type Registry struct {
	extractors map[string]Extractor
	logger     ports.LoggingGateway
}

// NewRegistry creates a registry holding extractors.
func NewRegistry(logger ports.LoggingGateway, extractors ...Extractor) *Registry {
	r := &Registry{extractors: make(map[string]Extractor), logger: logger}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds e, replacing an extractor with the same name.
func (r *Registry) Register(e Extractor) {
	r.extractors[e.Name()] = e
}

// Names returns the registered extractor names in run order.
func (r *Registry) Names() []string {
	all := make([]Extractor, 0, len(r.extractors))
	for _, e := range r.extractors {
		all = append(all, e)
	}
	sortExtractors(all)
	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.Name()
	}
	return names
}

// Ordered returns the active extractors in run order. An empty active list
// selects every registered extractor; blank names are ignored.
func (r *Registry) Ordered(active []string) ([]Extractor, error) {
	var out []Extractor
	if len(active) == 0 {
		for _, e := range r.extractors {
			out = append(out, e)
		}
	} else {
		seen := make(map[string]bool)
		for _, name := range active {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			e, ok := r.extractors[name]
			if !ok {
				return nil, domain.NewExtractionError(domain.CodeExtractionFailed,
					fmt.Sprintf("No mojo extractor with '%s' id.", name), nil)
			}
			out = append(out, e)
		}
	}
	sortExtractors(out)
	return out, nil
}

func sortExtractors(list []Extractor) {
	sort.SliceStable(list, func(i, j int) bool {
		gi, gj := list[i].Group(), list[j].Group()
		if gi == gj {
			return list[i].Name() < list[j].Name()
		}
		return gi.Less(gj)
	})
}

// Populate runs the active extractors for req and adds their goals to pd.
// It fails when two extractors declare the same goal, and when no goal was
// found at all unless req allows it.
func (r *Registry) Populate(ctx context.Context, req *domain.PluginToolsRequest, active []string, pd *domain.PluginDescriptor) (*Summary, error) {
	extractors, err := r.Ordered(active)
	if err != nil {
		return nil, err
	}
	ports.Debug(r.logger, fmt.Sprintf("Using %d mojo extractors.", len(extractors)), nil)

	summary := &Summary{}
	byGroup := make(map[string]int)
	for _, e := range extractors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ports.Debug(r.logger, fmt.Sprintf("Applying %s mojo extractor", e.Name()), nil)

		res, err := e.Extract(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%s extractor: %w", e.Name(), err)
		}

		n := len(res.Mojos)
		ports.Info(r.logger, fmt.Sprintf("%s mojo extractor found %d mojo descriptor%s.", e.Name(), n, plural(n)), nil)
		if e.Deprecated() && n > 0 {
			msg := fmt.Sprintf("Deprecated extractor %s extracted %d descriptor%s. Upgrade your Mojo definitions.", e.Name(), n, plural(n))
			if e.Group().Group == GroupJava {
				msg += " You should use Mojo Annotations instead of Javadoc tags."
			}
			ports.Warn(r.logger, msg, nil)
		}
		byGroup[e.Group().Group] += n

		for _, md := range res.Mojos {
			if err := pd.AddMojo(md); err != nil {
				return nil, err
			}
		}
		summary.Counts = append(summary.Counts, Count{Extractor: e.Name(), Goals: n})
		if summary.MavenAPIVersion == "" {
			summary.MavenAPIVersion = res.MavenAPIVersion
		}
		if res.MaxClassVersion > summary.MaxClassVersion {
			summary.MaxClassVersion = res.MaxClassVersion
		}
	}
	ports.Debug(r.logger, "Discovered descriptors by groups", map[string]interface{}{"groups": byGroup})

	if summary.Total() == 0 && !req.SkipErrorNoDescriptorsFound {
		return nil, domain.NewInvalidDescriptorError(domain.CodeNoDescriptors,
			fmt.Sprintf("No mojo definitions were found for plugin: %s.", pd.PluginKey()))
	}
	return summary, nil
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// resolve makes p absolute against base unless it already is.
func resolve(base, p string) string {
	if p == "" || base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func resolveAll(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = resolve(base, p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
