package commands

import (
	"errors"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/tui/treeview"
)

func addView(topLevel *cobra.Command) {
	var (
		kind      string
		token     string
		collapsed bool
		follow    bool
	)

	cmd := &cobra.Command{
		Use:   "view [viewer-url]",
		Short: base.Wrap80("Browse a stored record as a collapsible tree in the terminal."),
		Example: `
jview view 'http://127.0.0.1:7483/json-viewer?k=lq2x9a0k3b7c1'
jview view --kind xml --token lq2x9a0k3b7c1 --collapsed
jview view --kind json --follow
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := treeview.Options{
				Token:     token,
				Collapsed: collapsed,
				Follow:    follow,
			}
			if len(args) == 1 {
				k, t, err := handoff.ParseViewerURL(args[0])
				if err != nil {
					return err
				}
				opts.Kind, opts.Token = k, t
			} else {
				k, err := format.ParseKind(kind)
				if err != nil {
					return err
				}
				if !handoff.Viewable(k) {
					return handoff.ErrNotViewable
				}
				opts.Kind = k
			}
			if opts.Token == "" && !opts.Follow {
				return errors.New("a viewer URL, --token or --follow is required")
			}

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.log.Sync()
			opts.Bridge = e.bridge
			opts.Log = e.log
			return treeview.Run(commandContext(cmd), opts)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(format.JSON), "Record kind when no URL is given: json or xml.")
	cmd.Flags().StringVar(&token, "token", "", "Record token when no URL is given.")
	cmd.Flags().BoolVar(&collapsed, "collapsed", false, "Start with every node collapsed.")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Switch to each new record as it is stored.")
	_ = cmd.RegisterFlagCompletionFunc("token", func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return tokenCompletions(cmd.Flag("kind").Value.String(), toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
