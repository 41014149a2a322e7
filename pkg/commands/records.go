package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/jview/pkg/commands/options"
	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/runner/records"
)

func addRecords(topLevel *cobra.Command) {
	kind := ""

	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"ls"},
		Short:   base.Wrap80("List the records handed to the viewer."),
		Example: `
jview records
jview records --kind xml --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.log.Sync()

			r := records.Records{
				Bridge:  e.bridge,
				BaseURL: e.cfg.ViewerBase(),
				Output:  oo.Output(),
				Out:     cmd.OutOrStdout(),
			}
			if kind != "" {
				k, err := format.ParseKind(kind)
				if err != nil {
					return oo.HandleError(err)
				}
				r.Kind = k
			}
			return oo.HandleError(r.Do(commandContext(cmd)))
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only list records of this kind: json or xml.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
