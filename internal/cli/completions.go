package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// completePublishActions provides shell completion for --action values.
func completePublishActions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, a := range sqlaction.PublishActions {
		if strings.HasPrefix(strings.ToLower(string(a)), strings.ToLower(toComplete)) {
			matches = append(matches, string(a))
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeInputFiles returns a completion function limited to the given
// extensions (without the leading dot).
func completeInputFiles(extensions ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return extensions, cobra.ShellCompDirectiveFilterFileExt
	}
}
