package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

func TestFormatSQLPackageCommand(t *testing.T) {
	tests := []struct {
		name   string
		action sqlaction.PublishAction
		extra  string
		want   string
	}{
		{
			name:   "publish with extra arguments",
			action: sqlaction.PublishActionPublish,
			extra:  "/TargetTimeout:20",
			want:   `"sqlpackage" /Action:Publish /TargetConnectionString:"Server=s;Initial Catalog=d" /SourceFile:"./pkg.dacpac" /TargetTimeout:20`,
		},
		{
			name:   "script without extra arguments",
			action: sqlaction.PublishActionScript,
			want:   `"sqlpackage" /Action:Script /TargetConnectionString:"Server=s;Initial Catalog=d" /SourceFile:"./pkg.dacpac"`,
		},
		{
			name:   "deploy report",
			action: sqlaction.PublishActionDeployReport,
			want:   `"sqlpackage" /Action:DeployReport /TargetConnectionString:"Server=s;Initial Catalog=d" /SourceFile:"./pkg.dacpac"`,
		},
		{
			name:   "no action qualifier",
			action: sqlaction.PublishActionNone,
			want:   `"sqlpackage" /TargetConnectionString:"Server=s;Initial Catalog=d" /SourceFile:"./pkg.dacpac"`,
		},
		{
			name:   "extra arguments are not escaped",
			action: sqlaction.PublishActionPublish,
			extra:  `/p:BlockOnPossibleDataLoss=false /v:Env="prod"`,
			want:   `"sqlpackage" /Action:Publish /TargetConnectionString:"Server=s;Initial Catalog=d" /SourceFile:"./pkg.dacpac" /p:BlockOnPossibleDataLoss=false /v:Env="prod"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSQLPackageCommand("sqlpackage", tt.action, "Server=s;Initial Catalog=d", "./pkg.dacpac", tt.extra)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSQLPackageCommand_WindowsToolPathKeepsBackslashes(t *testing.T) {
	got := FormatSQLPackageCommand(`C:\Program Files\Microsoft SQL Server\160\DAC\bin\SqlPackage.exe`,
		sqlaction.PublishActionPublish, "cs", "a.dacpac", "")
	assert.Equal(t, `"C:\Program Files\Microsoft SQL Server\160\DAC\bin\SqlPackage.exe" /Action:Publish /TargetConnectionString:"cs" /SourceFile:"a.dacpac"`, got)
}

func TestFormatBuildCommand(t *testing.T) {
	assert.Equal(t,
		`dotnet build "./db/Db.sqlproj" -p:NetCoreBuild=true -c Release`,
		FormatBuildCommand("./db/Db.sqlproj", "-c Release"))
	assert.Equal(t,
		`dotnet build "Db.sqlproj" -p:NetCoreBuild=true `,
		FormatBuildCommand("Db.sqlproj", ""))
}
