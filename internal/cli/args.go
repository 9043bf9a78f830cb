package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OptionalPath accepts zero or one positional <path> argument. When absent,
// the path comes from --path or the INPUT_PATH environment variable.
func OptionalPath(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf(`accepts at most 1 arg(s), received %d

Usage: %s

Example:
  %s ./Database.dacpac`, len(args), cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}
