// Package action implements the sqlaction dispatcher.
//
// The dispatcher receives one sqlaction.ActionConfig variant and runs the
// matching strategy:
//
//   - PackagePublishConfig: locate SqlPackage and publish a .dacpac
//   - ScriptExecuteConfig:  read a .sql file and execute it against the target
//   - BuildPublishConfig:   dotnet build a .sqlproj, then publish its .dacpac
//
// Steps within a strategy are strictly sequential and every failure aborts the
// remaining steps. Nothing is rolled back: a successful build leaves its
// artifact on disk even when the publish step fails.
//
// All host interaction goes through injected collaborators (tool locator,
// argument parser, SQL executor, process runner, file reader), so the
// dispatcher itself holds no state between invocations.
package action
