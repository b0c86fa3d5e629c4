package di

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"

	"mojoscan.dev/cli/internal/application/services"
	"mojoscan.dev/cli/internal/core/extractor"
	"mojoscan.dev/cli/internal/core/ports"
	"mojoscan.dev/cli/internal/core/scanner"
	"mojoscan.dev/cli/internal/infrastructure/config"
	"mojoscan.dev/cli/internal/infrastructure/descriptor"
	"mojoscan.dev/cli/internal/infrastructure/fsys"
	"mojoscan.dev/cli/internal/infrastructure/logging"
	"mojoscan.dev/cli/internal/interfaces/cli"
)

// Options describes the environment the container is built for
type Options struct {
	FS      billy.Filesystem
	WorkDir string
	HomeDir string

	// LogOutput receives log lines; defaults to stderr
	LogOutput io.Writer

	// LookupEnv reads environment variables; defaults to os.LookupEnv
	LookupEnv func(string) (string, bool)
}

// Container holds all application dependencies
type Container struct {
	FS      billy.Filesystem
	options Options

	// Built by Bootstrap once the command line is parsed
	Logger   *logging.HCLogGateway
	Registry *extractor.Registry
	Service  *services.DescriptorGenerationService

	// CLI
	CLIContainer *cli.CLIContainer
}

// NewContainer creates the container for the native filesystem and the
// process working directory
func NewContainer() (*Container, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	homeDir, _ := os.UserHomeDir()
	return NewContainerWith(Options{FS: fsys.NewNative(), WorkDir: workDir, HomeDir: homeDir}), nil
}

// NewContainerWith creates a container for opts
func NewContainerWith(opts Options) *Container {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	c := &Container{FS: opts.FS, options: opts}
	c.CLIContainer = &cli.CLIContainer{Bootstrap: c.Bootstrap}
	return c
}

// KnownExtractors lists the extractor ids the registry is built with
func KnownExtractors() []string {
	return []string{extractor.AnnotationsName, extractor.JavadocName, extractor.AntName}
}

// Bootstrap loads the configuration and wires the components that depend on it
func (c *Container) Bootstrap(ctx context.Context, opts cli.BootstrapOptions) (*cli.Runtime, error) {
	// 1. Load configuration
	loaders := config.DefaultLoaders(c.FS, config.Locations{
		WorkDir:    c.options.WorkDir,
		HomeDir:    c.options.HomeDir,
		ConfigFile: opts.ConfigFile,
	}, c.options.LookupEnv, opts.Flags)
	repo := config.NewRepository(config.NewConfigValidator(KnownExtractors()), loaders...)

	cfg, snap, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Initialize logging
	level, _ := ports.ParseLogLevel(strings.ToLower(cfg.LogLevel))
	if cfg.Debug {
		level = ports.LogLevelDebug
	}
	c.Logger = logging.NewHCLogGateway(logging.Options{
		Level:  level,
		Output: c.options.LogOutput,
		JSON:   cfg.LogJSON,
	})

	// 3. Initialize extractors
	c.Registry = extractor.NewRegistry(c.Logger,
		extractor.NewAnnotations(c.FS, c.Logger),
		extractor.NewJavadoc(c.FS, c.Logger),
		extractor.NewScript(c.FS, c.Logger),
	)

	// 4. Initialize application services
	c.Service = services.NewDescriptorGenerationService(
		c.Registry,
		scanner.New(c.FS, c.Logger),
		descriptor.NewFileWriter(c.FS, c.Logger),
		c.Logger,
	)

	rt := &cli.Runtime{
		Config:   cfg,
		Snapshot: snap,
		Service:  c.Service,
		Logger:   c.Logger,
		WorkDir:  c.options.WorkDir,
	}
	for _, l := range loaders {
		if fl, ok := l.(*config.FileLoader); ok {
			rt.ConfigFile = fl.Path()
		}
	}

	ports.Debug(c.Logger, "Container initialized", map[string]interface{}{
		"extractors": c.Registry.Names(),
		"log_level":  string(level),
	})
	return rt, nil
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}
