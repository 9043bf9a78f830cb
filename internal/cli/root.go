package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

const banner = `           _            _   _
 ___  __ _| | __ _  ___| |_(_) ___  _ __
/ __|/ _` + "`" + ` | |/ _` + "`" + ` |/ __| __| |/ _ \| '_ \
\__ \ (_| | | (_| | (__| |_| | (_) | | | |
|___/\__, |_|\__,_|\___|\__|_|\___/|_| |_|
        |_|`

var rootCmd = &cobra.Command{
	Use:   "sqlaction",
	Short: "Deploy SQL Server databases from CI",
	Long: banner + `

sqlaction deploys to SQL Server and Azure SQL in one of three modes,
chosen by the input file:

  .dacpac   published with SqlPackage
  .sql      executed batch by batch over a single connection
  .sqlproj  built with dotnet build, then the resulting .dacpac is published

Inputs can be given as flags, as GitHub Action inputs (INPUT_*), or as
defaults in sqlaction.yaml. The connection string may also come from
$SQLACTION_CONNECTION_STRING.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or connection string
  11 - Database connection failed
  13 - SQL execution failed
  15 - SqlPackage not found
  16 - Input file could not be read
  17 - SqlPackage or dotnet build failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout, os.Stderr)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().Duration("timeout", sqlaction.DefaultTimeout,
		"Upper bound for the whole run, including SqlPackage and dotnet build\n"+
			"Precedence: --timeout > sqlaction.yaml timeout > 30m\n"+
			"Examples: 90s, 10m, 1h")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	if !verbose {
		// GitHub sets RUNNER_DEBUG when a workflow is re-run with debug logging.
		verbose = os.Getenv("RUNNER_DEBUG") == "1"
	}
	return verbose
}

// getTimeoutFlag returns the --timeout value and whether the user set it.
func getTimeoutFlag(cmd *cobra.Command) (time.Duration, bool) {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil || timeout <= 0 {
		return sqlaction.DefaultTimeout, false
	}
	return timeout, cmd.Flags().Changed("timeout")
}
