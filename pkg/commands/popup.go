package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/jview/pkg/commands/options"
	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/launch"
	"tableflip.dev/jview/pkg/tui/popup"
)

func addPopup(topLevel *cobra.Command) {
	ko := &options.KindOptions{}
	var (
		text      string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "popup [file]",
		Short: base.Wrap80("Open the paste area: switch format, beautify, minify, copy or hand off to the viewer."),
		Example: `
jview popup
jview popup --kind xml feed.xml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdin belongs to the terminal UI, so only files and --text seed the area.
			if len(args) == 1 {
				in := &options.InputOptions{}
				var err error
				if text, err = in.Read(cmd, args); err != nil {
					return err
				}
			}
			opts := popup.Options{Text: text}
			if ko.Kind != format.Auto {
				k, err := format.ParseKind(ko.Kind)
				if err != nil {
					return err
				}
				opts.Kind = k
			}

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.log.Sync()

			var opener handoff.Opener
			if !noBrowser {
				opener = launch.Browser{}
			}
			opts.Handoff = e.handoff(opener)
			return popup.Run(commandContext(cmd), opts)
		},
	}

	options.AddKindArg(cmd, ko, format.Kinds)
	cmd.Flags().StringVarP(&text, "text", "t", "", "Initial text of the paste area.")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Store records without opening a browser.")

	topLevel.AddCommand(cmd)
}
