package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/sketchdraw/internal/config"
	"github.com/ironsheep/sketchdraw/internal/studio"
)

var (
	version = "dev"     // semantic version (e.g., "v1.2.3")
	commit  = "unknown" // git commit SHA
	date    = "unknown" // build timestamp
)

// SetVersion sets the version information displayed by --version.
// The main package calls it with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// options holds the persistent flags and the configuration they resolve to.
type options struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

// openStudio builds a studio from the loaded configuration.
func (o *options) openStudio(ctx context.Context) (*studio.Studio, error) {
	return studio.Open(o.cfg, loggerFromContext(ctx))
}

// Execute runs the sketchdraw CLI and returns an error if any command fails.
// Cancelling ctx stops a running MCP server.
//
//	func main() {
//	    cli.SetVersion("v1.0.0", "abc123", "2025-12-20")
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "sketchdraw",
		Short:         "sketchdraw turns photos into line drawings",
		Long:          `sketchdraw converts images into line art made of traced edge polylines and stippled shading, renders pencil sketches, and keeps a history of saved drawings. It can run as an MCP server so clients can drive the drawing canvas.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logLevel(opts.verbose, os.Getenv(envLogLevel))
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			path := config.Resolve(opts.configPath)
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if path != "" {
				logger.Debug("Loaded config", "path", path)
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("sketchdraw %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" when present)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newDrawCmd(opts))
	root.AddCommand(newSketchCmd(opts))
	root.AddCommand(newHistoryCmd(opts))

	return root
}
