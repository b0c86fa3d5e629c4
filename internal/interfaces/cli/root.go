package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"mojoscan.dev/cli/internal/application/services"
	"mojoscan.dev/cli/internal/core/domain"
	configdomain "mojoscan.dev/cli/internal/core/domain/config"
	"mojoscan.dev/cli/internal/core/ports"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// BootstrapOptions carries what the command line says about configuration
type BootstrapOptions struct {
	// ConfigFile is an explicit --config path
	ConfigFile string

	// Flags holds the configuration keys set by flags
	Flags map[string]interface{}
}

// Runtime is the configured application a command runs against
type Runtime struct {
	Config   *configdomain.Config
	Snapshot configdomain.Snapshot
	Service  *services.DescriptorGenerationService
	Logger   ports.LoggingGateway

	// WorkDir resolves relative project paths
	WorkDir string

	// ConfigFile is the YAML file that was read, if any
	ConfigFile string
}

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	// Bootstrap loads the configuration and builds the runtime; it runs
	// once flags are parsed
	Bootstrap func(ctx context.Context, opts BootstrapOptions) (*Runtime, error)

	runtime *Runtime
}

// Runtime returns the runtime built for the running command
func (c *CLIContainer) Runtime() *Runtime {
	return c.runtime
}

// NewRootCommand RootCommand represents the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "mojoscan",
		Short: "mojoscan - build plugin descriptor generator",
		Long: `mojoscan extracts goal (Mojo) descriptors from compiled plugin classes,
legacy Javadoc tags and Ant script metadata, and writes the plugin.xml
descriptor a build tool needs to load the plugin.

Goals declared in dependency archives are not exposed, but their
parameters and components are inherited by project goals extending them.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			overrides, err := collectOverrides(cmd)
			if err != nil {
				return err
			}

			rt, err := container.Bootstrap(cmd.Context(), BootstrapOptions{ConfigFile: configFile, Flags: overrides})
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			container.runtime = rt
			return nil
		},
	}

	// Set custom version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	// Add persistent flags
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is ./mojoscan.yaml or $HOME/.config/mojoscan/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	// Add subcommands
	rootCmd.AddCommand(NewGenerateCommand(container))
	rootCmd.AddCommand(NewScanCommand(container))
	rootCmd.AddCommand(NewValidateCommand(container))
	rootCmd.AddCommand(NewBrowseCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// describeError adds the failure class to descriptor errors
func describeError(err error) string {
	var invalid *domain.InvalidDescriptorError
	var extraction *domain.ExtractionError
	switch {
	case errors.As(err, &invalid):
		return fmt.Sprintf("invalid plugin descriptor: %v", err)
	case errors.As(err, &extraction):
		return fmt.Sprintf("extraction failed: %v", err)
	case errors.Is(err, context.Canceled):
		return "interrupted"
	}
	return err.Error()
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context, container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		os.Exit(1)
	}
}
