package action

import (
	"strings"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// FormatSQLPackageCommand renders the SqlPackage command line:
//
//	"<tool>" /Action:<action> /TargetConnectionString:"<conn>" /SourceFile:"<file>"[ <extra>]
//
// The /Action segment is left out when action is PublishActionNone.
// extra is appended verbatim when non-empty.
func FormatSQLPackageCommand(toolPath string, action sqlaction.PublishAction, connectionString, sourceFile, extra string) string {
	var b strings.Builder
	b.WriteString(`"` + toolPath + `"`)
	if action != sqlaction.PublishActionNone {
		b.WriteString(" /Action:" + string(action))
	}
	b.WriteString(` /TargetConnectionString:"` + connectionString + `"`)
	b.WriteString(` /SourceFile:"` + sourceFile + `"`)
	if extra != "" {
		b.WriteString(" " + extra)
	}
	return b.String()
}

// FormatBuildCommand renders the dotnet build command line:
//
//	dotnet build "<project>" -p:NetCoreBuild=true <buildArgs>
//
// buildArgs is appended verbatim.
func FormatBuildCommand(projectPath, buildArgs string) string {
	return `dotnet build "` + projectPath + `" -p:NetCoreBuild=true ` + buildArgs
}
