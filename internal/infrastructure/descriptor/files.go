package descriptor

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/ports"
)

// DescriptorPath is the location of plugin.xml below the class output directory.
const DescriptorPath = "META-INF/maven/plugin.xml"

// HelpDescriptorPath returns the location of the help descriptor of pd.
func HelpDescriptorPath(pd *domain.PluginDescriptor) string {
	return path.Join("META-INF/maven", pd.GroupID, pd.ArtifactID, "plugin-help.xml")
}

// FileWriter writes the plugin and help descriptors into an output directory.
type FileWriter struct {
	fs     billy.Filesystem
	xml    *XMLWriter
	logger ports.LoggingGateway
}

// NewFileWriter creates a writer storing descriptors through fs.
func NewFileWriter(fs billy.Filesystem, logger ports.LoggingGateway) *FileWriter {
	return &FileWriter{fs: fs, xml: NewXMLWriter(), logger: logger}
}

// WriteAll writes plugin.xml and plugin-help.xml below outputDir and returns
// the paths written. Files whose content is unchanged are left untouched.
func (f *FileWriter) WriteAll(outputDir string, pd *domain.PluginDescriptor) ([]string, error) {
	targets := []struct {
		rel  string
		help bool
	}{
		{DescriptorPath, false},
		{HelpDescriptorPath(pd), true},
	}

	written := make([]string, 0, len(targets))
	for _, t := range targets {
		var buf bytes.Buffer
		if err := f.xml.Write(&buf, pd, t.help); err != nil {
			return written, err
		}
		dst := f.fs.Join(outputDir, t.rel)
		changed, err := f.store(dst, buf.Bytes())
		if err != nil {
			return written, fmt.Errorf("write %s: %w", dst, err)
		}
		ports.Debug(f.logger, "Wrote plugin descriptor", map[string]interface{}{"path": dst, "changed": changed})
		written = append(written, dst)
	}
	return written, nil
}

// store writes data to dst unless dst already holds exactly data.
func (f *FileWriter) store(dst string, data []byte) (bool, error) {
	if existing, err := util.ReadFile(f.fs, dst); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := f.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	return true, util.WriteFile(f.fs, dst, data, 0o644)
}

// ReadFile parses the descriptor stored at p.
func (f *FileWriter) ReadFile(p string) (*domain.PluginDescriptor, error) {
	file, err := f.fs.Open(p)
	if err != nil {
		return nil, domain.NewExtractionError(domain.CodeExtractionFailed, "cannot open plugin descriptor", err).WithFile(p)
	}
	defer file.Close()

	pd, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return pd, nil
}
