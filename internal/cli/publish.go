package cli

import (
	"github.com/spf13/cobra"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

var publishFlags deployFlagValues

var publishCmd = &cobra.Command{
	Use:   "publish [path]",
	Short: "Publish a .dacpac with SqlPackage",
	Long: `Publish runs SqlPackage against a compiled database package.

The command line has the form:
  "<sqlpackage>" /Action:<action> /TargetConnectionString:"<conn>" /SourceFile:"<path>" <arguments>

SqlPackage is located through $SQLPACKAGE_PATH, --sqlpackage-path,
sqlaction.yaml, $PATH, the dotnet tools directory, and on Windows the
SQL Server installation folders.

Examples:
  # Publish with defaults
  sqlaction publish ./bin/Release/Db.dacpac --connection-string "$CONN"

  # Generate a deployment report instead of publishing
  sqlaction publish Db.dacpac --action DeployReport --arguments "/OutputPath:report.xml"`,
	Args:              OptionalPath,
	ValidArgsFunction: completeInputFiles("dacpac"),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeploy(cmd, &publishFlags, sqlaction.ModePackagePublish, args)
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	addConnectionFlags(publishCmd, &publishFlags)
	addPublishFlags(publishCmd, &publishFlags)
}
