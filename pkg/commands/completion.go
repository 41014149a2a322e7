package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(jview completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(jview completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func tokenCompletions(kind, toComplete string) []string {
	k, err := format.ParseKind(kind)
	if err != nil || !handoff.Viewable(k) {
		return nil
	}
	_, bridge, err := store.Load(nil)
	if err != nil {
		return nil
	}
	lister, ok := bridge.(store.Lister)
	if !ok {
		return nil
	}
	keys, err := lister.Keys(context.Background(), handoff.KeyPrefix(k)+toComplete)
	if err != nil {
		return nil
	}
	tokens := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, token, ok := handoff.ParseKey(key); ok && strings.HasPrefix(token, toComplete) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
