package ports

import (
	"context"

	"mojoscan.dev/cli/internal/core/domain"
	"mojoscan.dev/cli/internal/core/scanner"
)

// DescriptorWriter stores plugin descriptors and reads them back
type DescriptorWriter interface {
	// WriteAll writes the plugin and help descriptors below outputDir and
	// returns the paths written
	WriteAll(outputDir string, pd *domain.PluginDescriptor) ([]string, error)

	// ReadFile parses a stored plugin descriptor
	ReadFile(path string) (*domain.PluginDescriptor, error)
}

// ClassScanner reads annotated classes from class directories and archives
type ClassScanner interface {
	Scan(ctx context.Context, req scanner.Request) (*scanner.Result, error)
}
