package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/sketchdraw/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the drawing studio as an MCP (Model Context Protocol) server.

Requests are read from stdin one JSON-RPC message per line and responses are
written to stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := opts.openStudio(ctx)
			if err != nil {
				return err
			}
			srv := server.New(st, loggerFromContext(ctx), version)
			return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
