package cli

import (
	"github.com/spf13/cobra"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

var scriptFlags deployFlagValues

var scriptCmd = &cobra.Command{
	Use:   "script [path]",
	Short: "Execute a .sql script",
	Long: `Script executes a T-SQL file against the target database.

The script is split on GO separator lines and the batches run in order over
a single connection; execution stops at the first failing batch. sqlcmd
style $(Name) variables are substituted from sqlaction.yaml, --var-file
and --var, and :setvar lines in the script.

Examples:
  sqlaction script ./seed.sql --connection-string "$CONN"

  sqlaction script ./grants.sql --var-file prod.env --var Environment=prod`,
	Args:              OptionalPath,
	ValidArgsFunction: completeInputFiles("sql"),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeploy(cmd, &scriptFlags, sqlaction.ModeScriptExecute, args)
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	addConnectionFlags(scriptCmd, &scriptFlags)
	addScriptFlags(scriptCmd, &scriptFlags)
}
