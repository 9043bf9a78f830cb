package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/sqlaction/internal/config"
	"github.com/vvka-141/sqlaction/internal/db"
	"github.com/vvka-141/sqlaction/internal/params"
	"github.com/vvka-141/sqlaction/internal/toolchain"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// EnvConnectionString is read when no flag or action input supplies a
// connection string.
const EnvConnectionString = "SQLACTION_CONNECTION_STRING"

// deployFlagValues holds flag values shared by the deploy commands.
// Each command registers only the flags it uses.
type deployFlagValues struct {
	connectionString string
	path             string
	action           string
	arguments        string
	buildArguments   string
	vars             []string
	varFiles         []string
	sqlpackagePath   string
	cloudSQLInstance string
	configDir        string
}

func addConnectionFlags(cmd *cobra.Command, f *deployFlagValues) {
	cmd.Flags().StringVar(&f.connectionString, "connection-string", "",
		"SQL Server connection string (ADO.NET format)\n"+
			"Precedence: --connection-string > $INPUT_CONNECTION-STRING > $"+EnvConnectionString+"\n"+
			"Example: Server=tcp:srv.database.windows.net;Initial Catalog=db;User Id=u;Password=p")
	cmd.Flags().StringVar(&f.path, "path", "",
		"Input file (alternative to the positional argument; falls back to $INPUT_PATH)")
	cmd.Flags().StringVar(&f.configDir, "config-dir", ".",
		"Directory containing "+config.ConfigFileName)
	cmd.Flags().StringVar(&f.cloudSQLInstance, "cloudsql-instance", "",
		"Google Cloud SQL instance (project:region:instance) to dial through the Cloud SQL connector")
}

func addPublishFlags(cmd *cobra.Command, f *deployFlagValues) {
	cmd.Flags().StringVar(&f.action, "action", "",
		"SqlPackage action: Publish|Script|DeployReport|DriftReport (default Publish)")
	cmd.Flags().StringVar(&f.arguments, "arguments", "",
		"Additional SqlPackage arguments appended verbatim\n"+
			"Example: --arguments \"/p:DropObjectsNotInSource=true\"")
	cmd.Flags().StringVar(&f.sqlpackagePath, "sqlpackage-path", "",
		"Path to the SqlPackage executable\n"+
			"Precedence: --sqlpackage-path > $SQLPACKAGE_PATH > sqlaction.yaml > search of PATH and ~/.dotnet/tools")
	_ = cmd.RegisterFlagCompletionFunc("action", completePublishActions)
}

func addBuildFlags(cmd *cobra.Command, f *deployFlagValues) {
	cmd.Flags().StringVar(&f.buildArguments, "build-arguments", "",
		"Additional dotnet build arguments\n"+
			"Example: --build-arguments \"-c Release\"")
}

func addScriptFlags(cmd *cobra.Command, f *deployFlagValues) {
	cmd.Flags().StringSliceVar(&f.vars, "var", nil,
		"sqlcmd scripting variables as key=value pairs (can be specified multiple times)\n"+
			"Referenced in scripts as $(key)")
	cmd.Flags().StringSliceVar(&f.varFiles, "var-file", nil,
		"Load scripting variables from .env files (can be specified multiple times)\n"+
			"Later files override earlier ones, --var overrides all")
}

// settings is a fully resolved invocation.
type settings struct {
	mode           sqlaction.Mode
	connection     *sqlaction.ConnectionConfig
	path           string
	action         sqlaction.PublishAction
	arguments      string
	buildArguments string
	variables      map[string]string
	sqlpackagePath string
	timeout        time.Duration
	verbose        bool
}

// resolver merges flags, action inputs, environment and sqlaction.yaml.
// Precedence: flag > environment > sqlaction.yaml > default.
type resolver struct {
	cmd    *cobra.Command
	flags  *deployFlagValues
	getenv func(string) string
}

// input reads a GitHub Action input. The runner exports input "build-arguments"
// as INPUT_BUILD-ARGUMENTS; the underscore spelling is accepted for shells
// that cannot set hyphenated names.
func (r *resolver) input(name string) string {
	upper := strings.ToUpper(name)
	if v := r.getenv("INPUT_" + upper); v != "" {
		return v
	}
	return r.getenv("INPUT_" + strings.ReplaceAll(upper, "-", "_"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// resolve builds settings for mode. An empty mode is inferred from the
// input file extension.
func (r *resolver) resolve(mode sqlaction.Mode, args []string) (*settings, error) {
	_ = godotenv.Load()

	f := r.flags
	projectCfg, err := config.Load(f.configDir)
	if errors.Is(err, config.ErrConfigNotFound) {
		projectCfg = &config.ProjectConfig{}
	} else if err != nil {
		return nil, err
	}

	var positional string
	if len(args) > 0 {
		positional = args[0]
	}
	path := firstNonEmpty(positional, f.path, r.input("path"))
	if path == "" {
		return nil, fmt.Errorf("%w: no input file given (pass <path>, --path, or set INPUT_PATH)", sqlaction.ErrInvalidConfig)
	}
	if mode == "" {
		if mode, err = inferMode(path); err != nil {
			return nil, err
		}
	}

	var yamlConnection string
	if projectCfg.ConnectionStringEnv != "" {
		yamlConnection = r.getenv(projectCfg.ConnectionStringEnv)
	}
	connStr := firstNonEmpty(f.connectionString, r.input("connection-string"), yamlConnection, r.getenv(EnvConnectionString))
	if connStr == "" {
		return nil, fmt.Errorf("%w: no connection string given (use --connection-string or $%s)", sqlaction.ErrInvalidConfig, EnvConnectionString)
	}
	connection, err := db.ParseConnectionString(connStr)
	if err != nil {
		return nil, err
	}
	connection.CloudSQLInstance = firstNonEmpty(f.cloudSQLInstance, r.input("cloudsql-instance"), projectCfg.CloudSQLInstance)

	s := &settings{
		mode:           mode,
		connection:     connection,
		path:           path,
		arguments:      firstNonEmpty(f.arguments, r.input("arguments"), projectCfg.Arguments),
		buildArguments: firstNonEmpty(f.buildArguments, r.input("build-arguments"), projectCfg.BuildArguments),
		sqlpackagePath: firstNonEmpty(f.sqlpackagePath, r.getenv(toolchain.EnvSQLPackagePath), projectCfg.SQLPackagePath),
		verbose:        getVerboseFlag(r.cmd),
	}

	if mode == sqlaction.ModePackagePublish {
		s.action = sqlaction.PublishActionPublish
		if name := firstNonEmpty(f.action, r.input("action"), projectCfg.Action); name != "" {
			if s.action, err = sqlaction.ParsePublishAction(name); err != nil {
				return nil, err
			}
		}
	}

	if s.timeout, err = r.timeout(projectCfg); err != nil {
		return nil, err
	}
	if s.variables, err = r.variables(projectCfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *resolver) timeout(projectCfg *config.ProjectConfig) (time.Duration, error) {
	timeout, explicit := getTimeoutFlag(r.cmd)
	if explicit {
		return timeout, nil
	}
	fromYAML, err := projectCfg.TimeoutDuration()
	if err != nil {
		return 0, err
	}
	if fromYAML > 0 {
		return fromYAML, nil
	}
	return timeout, nil
}

// variables layers sqlaction.yaml < --var-file < --var.
func (r *resolver) variables(projectCfg *config.ProjectConfig) (map[string]string, error) {
	fromFiles, err := params.LoadVariableFiles(r.flags.varFiles...)
	if err != nil {
		return nil, err
	}
	fromFlags, err := params.ParseKeyValuePairs(r.flags.vars)
	if err != nil {
		return nil, err
	}
	return params.Merge(projectCfg.Variables, fromFiles, fromFlags), nil
}

// inferMode maps an input file extension to a deployment mode.
func inferMode(path string) (sqlaction.Mode, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case sqlaction.DacpacExtension:
		return sqlaction.ModePackagePublish, nil
	case ".sql":
		return sqlaction.ModeScriptExecute, nil
	case ".sqlproj":
		return sqlaction.ModeBuildPublish, nil
	default:
		return "", fmt.Errorf("%w: cannot infer mode from %q (expected .dacpac, .sql or .sqlproj)", sqlaction.ErrInvalidConfig, path)
	}
}

// actionConfig converts settings into the dispatcher's configuration variant.
func (s *settings) actionConfig() (sqlaction.ActionConfig, error) {
	switch s.mode {
	case sqlaction.ModePackagePublish:
		return sqlaction.PackagePublishConfig{
			Connection:     s.connection,
			PackagePath:    s.path,
			Action:         s.action,
			ExtraArguments: s.arguments,
		}, nil
	case sqlaction.ModeScriptExecute:
		return sqlaction.ScriptExecuteConfig{
			Connection: s.connection,
			ScriptPath: s.path,
		}, nil
	case sqlaction.ModeBuildPublish:
		return sqlaction.BuildPublishConfig{
			Connection:     s.connection,
			ProjectPath:    s.path,
			BuildArguments: s.buildArguments,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", sqlaction.ErrUnsupportedMode, s.mode)
}

func newResolver(cmd *cobra.Command, f *deployFlagValues) *resolver {
	return &resolver{cmd: cmd, flags: f, getenv: os.Getenv}
}
