package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/jview/pkg/commands/options"
	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/launch"
	"tableflip.dev/jview/pkg/runner/open"
)

var viewable = []format.Kind{format.JSON, format.XML}

func addOpen(topLevel *cobra.Command) {
	in := &options.InputOptions{}
	ko := &options.KindOptions{}
	noBrowser := false

	cmd := &cobra.Command{
		Use:   "open [file]",
		Short: base.Wrap80("Store JSON or XML as a record and open the tree viewer for it."),
		Long: base.Wrap80(`The text is validated first; invalid input is reported and nothing is stored.
The viewer URL points at the HTTP viewer started by 'jview serve'.`),
		Example: `
jview open response.json
jview open -i --text '<a><b/></a>'
jview open --no-browser < feed.xml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.Read(cmd, args)
			if err != nil {
				return oo.HandleError(err)
			}
			if ko.Interactive {
				if err := ko.Prompt(cmd, viewable); err != nil {
					return err
				}
			}
			e, err := loadEnv()
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.log.Sync()

			var opener handoff.Opener
			if !noBrowser {
				opener = launch.Browser{}
			}
			o := open.Open{
				Kind:    ko.Kind,
				Text:    text,
				Handoff: e.handoff(opener),
				Output:  oo.Output(),
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(o.Do(commandContext(cmd)))
		},
	}

	options.AddInputArgs(cmd, in)
	options.AddKindArg(cmd, ko, viewable)
	options.AddKindPromptArg(cmd, ko)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Store the record and print the viewer URL without opening a browser.")

	topLevel.AddCommand(cmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
