package cli

import (
	"github.com/spf13/cobra"
)

var runFlags deployFlagValues

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Deploy, choosing the mode from the input file extension",
	Long: `Run is the GitHub Action entry point. The mode follows the input file:

  .dacpac   same as "sqlaction publish"
  .sql      same as "sqlaction script"
  .sqlproj  same as "sqlaction build"

Every input can come from the action's environment (INPUT_PATH,
INPUT_CONNECTION-STRING, INPUT_ACTION, INPUT_ARGUMENTS,
INPUT_BUILD-ARGUMENTS), so the action can invoke "sqlaction run" with no
arguments.`,
	Args:              OptionalPath,
	ValidArgsFunction: completeInputFiles("dacpac", "sql", "sqlproj"),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeploy(cmd, &runFlags, "", args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addConnectionFlags(runCmd, &runFlags)
	addPublishFlags(runCmd, &runFlags)
	addBuildFlags(runCmd, &runFlags)
	addScriptFlags(runCmd, &runFlags)
}
