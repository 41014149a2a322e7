package commands

import (
	"fmt"
	"net"
	"os"
	"os/signal"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/jview/pkg/printers"
	"tableflip.dev/jview/pkg/store"
	"tableflip.dev/jview/pkg/web"
)

func addServe(topLevel *cobra.Command) {
	addr := ""

	cmd := &cobra.Command{
		Use:   "serve",
		Short: base.Wrap80("Serve the JSON and XML viewer pages over HTTP."),
		Long: base.Wrap80(`Viewer URLs produced by 'jview open' and the paste area resolve against this
server. It reads records from the configured store, so the store must be the
persistent disk backend for records written by other jview processes to be visible.`),
		Example: `
jview serve
jview serve --addr 127.0.0.1:0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.log.Sync()

			pp := printers.PrettyPrint{Out: cmd.OutOrStdout()}
			if _, ok := e.bridge.(*store.Memory); ok {
				pp.Warn("Using the in-memory store: only records written through this server's process are visible.")
			}
			if addr == "" {
				addr = e.cfg.ViewerAddr()
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
			defer stop()

			s := web.New(web.Config{
				Addr:   addr,
				Bridge: e.bridge,
				Log:    e.log,
				OnListening: func(a net.Addr) {
					pp.Status("Viewer listening on http://%s", a.String())
				},
			})
			if err := s.Run(ctx); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default viewer.addr from the config, "+store.DefaultViewerAddr+").")

	topLevel.AddCommand(cmd)
}
