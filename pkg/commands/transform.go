package commands

import (
	"fmt"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/jview/pkg/commands/options"
	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/runner/transform"
)

func addTransform(topLevel *cobra.Command, name string, minify bool) {
	in := &options.InputOptions{}
	ko := &options.KindOptions{}
	copyOut := false

	short := "Pretty-print JSON, XML or HTML."
	if minify {
		short = "Minify JSON, XML or HTML."
	}

	cmd := &cobra.Command{
		Use:   name + " [file]",
		Short: base.Wrap80(short),
		Example: fmt.Sprintf(`
jview %[1]s data.json
curl -s https://example.com/feed.xml | jview %[1]s
jview %[1]s --kind json --text '{"a":1}' --copy
`, name),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.Read(cmd, args)
			if err != nil {
				return oo.HandleError(err)
			}
			t := transform.Transform{
				Kind:   ko.Kind,
				Text:   text,
				Minify: minify,
				Copy:   copyOut,
				Output: oo.Output(),
				Out:    cmd.OutOrStdout(),
				Err:    cmd.ErrOrStderr(),
			}
			return oo.HandleError(t.Do(commandContext(cmd)))
		},
	}

	options.AddInputArgs(cmd, in)
	options.AddKindArg(cmd, ko, format.Kinds)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "Also copy the result to the clipboard.")

	topLevel.AddCommand(cmd)
}
