package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/jview/pkg/commands/options"
)

var (
	oo = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "jview",
		Short: base.Wrap80("Beautify, minify and browse JSON, XML and HTML from the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addTransform(topLevel, "beautify", false)
	addTransform(topLevel, "minify", true)
	addOpen(topLevel)
	addView(topLevel)
	addPopup(topLevel)
	addServe(topLevel)
	addRecords(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}
