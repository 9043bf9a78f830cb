package sqlaction

import (
	"errors"
	"fmt"
	"strings"
)

// Mode identifies which strategy an ActionConfig selects.
type Mode string

const (
	ModePackagePublish Mode = "dacpac"
	ModeScriptExecute  Mode = "sql"
	ModeBuildPublish   Mode = "sqlproj"
)

// PublishAction is the SqlPackage operation to run against a .dacpac.
type PublishAction string

// Recognized SqlPackage actions. The zero value omits the /Action qualifier.
const (
	PublishActionNone         PublishAction = ""
	PublishActionPublish      PublishAction = "Publish"
	PublishActionScript       PublishAction = "Script"
	PublishActionDeployReport PublishAction = "DeployReport"
	PublishActionDriftReport  PublishAction = "DriftReport"
)

// PublishActions lists the actions a user may request.
var PublishActions = []PublishAction{
	PublishActionPublish,
	PublishActionScript,
	PublishActionDeployReport,
	PublishActionDriftReport,
}

// ParsePublishAction matches a user supplied action name case-insensitively.
func ParsePublishAction(value string) (PublishAction, error) {
	for _, a := range PublishActions {
		if strings.EqualFold(value, string(a)) {
			return a, nil
		}
	}
	return PublishActionNone, fmt.Errorf("%w: unknown SqlPackage action %q", ErrInvalidConfig, value)
}

// ActionConfig is the closed set of configurations the dispatcher accepts.
// Exactly one variant is populated per invocation:
// PackagePublishConfig, ScriptExecuteConfig or BuildPublishConfig.
type ActionConfig interface {
	// Mode returns the discriminant for the variant.
	Mode() Mode

	// Validate checks required fields and returns a joined error for every problem found.
	Validate() error

	isActionConfig()
}

// PackagePublishConfig publishes a precompiled .dacpac with SqlPackage.
type PackagePublishConfig struct {
	Connection *ConnectionConfig

	// PackagePath is the .dacpac file to publish.
	PackagePath string

	// Action is the SqlPackage operation; PublishActionNone omits /Action.
	Action PublishAction

	// ExtraArguments are appended verbatim to the SqlPackage command line.
	// The caller is trusted: no escaping or validation is applied.
	ExtraArguments string
}

func (PackagePublishConfig) Mode() Mode      { return ModePackagePublish }
func (PackagePublishConfig) isActionConfig() {}

// Validate checks the package publish configuration.
func (c PackagePublishConfig) Validate() error {
	var errs []error
	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("connection is required: %w", ErrInvalidConfig))
	}
	if c.PackagePath == "" {
		errs = append(errs, fmt.Errorf("package path is required: %w", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// ScriptExecuteConfig runs a SQL script file against the target database.
type ScriptExecuteConfig struct {
	Connection *ConnectionConfig

	// ScriptPath is the .sql file to execute.
	ScriptPath string
}

func (ScriptExecuteConfig) Mode() Mode      { return ModeScriptExecute }
func (ScriptExecuteConfig) isActionConfig() {}

// Validate checks the script execution configuration.
func (c ScriptExecuteConfig) Validate() error {
	var errs []error
	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("connection is required: %w", ErrInvalidConfig))
	}
	if c.ScriptPath == "" {
		errs = append(errs, fmt.Errorf("script path is required: %w", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// BuildPublishConfig builds a SQL project with dotnet and publishes the resulting .dacpac.
type BuildPublishConfig struct {
	Connection *ConnectionConfig

	// ProjectPath is the .sqlproj file to build.
	ProjectPath string

	// BuildArguments are appended verbatim to the dotnet build command line.
	BuildArguments string
}

func (BuildPublishConfig) Mode() Mode      { return ModeBuildPublish }
func (BuildPublishConfig) isActionConfig() {}

// Validate checks the build and publish configuration.
func (c BuildPublishConfig) Validate() error {
	var errs []error
	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("connection is required: %w", ErrInvalidConfig))
	}
	if c.ProjectPath == "" {
		errs = append(errs, fmt.Errorf("project path is required: %w", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}
