package options

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/jview/pkg/printers"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// Output is the runner output name for the selected mode.
func (o *OutputOptions) Output() string {
	if o.JSON {
		return "json"
	}
	return ""
}

func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		return printers.JSON(color.Output, out)
	}
	return err
}
