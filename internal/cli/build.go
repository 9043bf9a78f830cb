package cli

import (
	"github.com/spf13/cobra"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

var buildFlags deployFlagValues

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build a .sqlproj and publish the result",
	Long: `Build runs "dotnet build" on a SQL project and publishes the produced
.dacpac with SqlPackage.

The package is expected at <output>/<name>.dacpac, where <output> comes
from -o, --output or -p:OutputPath (default bin/<configuration> next to the
project) and <name> from -p:TargetName (default the project file name).

Examples:
  sqlaction build ./Db/Db.sqlproj --connection-string "$CONN"

  sqlaction build Db.sqlproj --build-arguments "-c Release -o ./out"`,
	Args:              OptionalPath,
	ValidArgsFunction: completeInputFiles("sqlproj"),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeploy(cmd, &buildFlags, sqlaction.ModeBuildPublish, args)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addConnectionFlags(buildCmd, &buildFlags)
	addBuildFlags(buildCmd, &buildFlags)
	buildCmd.Flags().StringVar(&buildFlags.sqlpackagePath, "sqlpackage-path", "",
		"Path to the SqlPackage executable (see 'sqlaction publish --help')")
}
