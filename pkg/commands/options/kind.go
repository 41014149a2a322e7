package options

import (
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"tableflip.dev/jview/pkg/format"
)

// KindOptions
type KindOptions struct {
	Kind        string
	Interactive bool
}

func AddKindArg(cmd *cobra.Command, o *KindOptions, kinds []format.Kind) {
	names := make([]string, 0, len(kinds)+1)
	names = append(names, format.Auto)
	for _, k := range kinds {
		names = append(names, string(k))
	}
	cmd.Flags().StringVarP(&o.Kind, "kind", "k", format.Auto,
		"Input format. One of "+strings.Join(names, ", ")+".")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

func AddKindPromptArg(cmd *cobra.Command, o *KindOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Choose the format interactively.`)
}

// Prompt asks for the kind interactively.
func (o *KindOptions) Prompt(cmd *cobra.Command, kinds []format.Kind) error {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Label | bold }}",
		Inactive: "   {{ .Label }}",
		Selected: "{{ .Label | bold }}",
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Format",
		Items:     kinds,
		Templates: templates,
		Size:      len(kinds),
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    nopCloser{cmd.OutOrStdout()},
	}

	i, _, err := prompt.Run()
	if err != nil {
		return err
	}
	o.Kind = string(kinds[i])
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
