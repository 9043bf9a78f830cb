// Package params collects sqlcmd scripting variables for script execution.
//
// Variables come from --var key=value flags and from .env style files
// passed with --var-file. Scripts reference them as $(Name).
//
//	vars, err := params.Merge(fileVars, flagVars)
//
// Later sources override earlier ones.
package params
