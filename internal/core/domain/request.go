package domain

// PluginToolsRequest carries everything an extractor may read about the
// project whose plugin descriptor is being generated.
type PluginToolsRequest struct {
	Project            Artifact
	ProjectName        string
	ProjectDescription string

	// BaseDir resolves relative roots below.
	BaseDir string

	// OutputDirectory is the class output directory; scripts are copied here.
	OutputDirectory string

	// ClassDirectories are scanned for annotated classes (defaults to OutputDirectory).
	ClassDirectories   []string
	CompileSourceRoots []string
	ScriptSourceRoots  []string

	// Dependencies are scanned for inherited annotation metadata.
	Dependencies []Artifact

	IncludePatterns []string
	ExcludePatterns []string
	Encoding        string

	SkipErrorNoDescriptorsFound bool
}

// ClassRoots returns the class directories to scan.
func (r *PluginToolsRequest) ClassRoots() []string {
	if len(r.ClassDirectories) > 0 {
		return r.ClassDirectories
	}
	if r.OutputDirectory != "" {
		return []string{r.OutputDirectory}
	}
	return nil
}

// ExtractionResult is what one extractor contributes for a request.
type ExtractionResult struct {
	Mojos []*MojoDescriptor

	// MavenAPIVersion is the version of the build-tool API artifact found
	// among the dependencies, if any.
	MavenAPIVersion string

	// MaxClassVersion is the highest class-file major version scanned.
	MaxClassVersion int
}
