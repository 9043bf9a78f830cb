package db

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

var (
	variableReference = regexp.MustCompile(`\$\(([A-Za-z_][A-Za-z0-9_]*)\)`)
	setvarDirective   = regexp.MustCompile(`(?i)^\s*:setvar\s+([A-Za-z_][A-Za-z0-9_]*)(?:\s+(.*?))?\s*$`)
)

// SubstituteVariables expands sqlcmd-style $(Name) references. Names are
// case-insensitive. Lines holding a ":setvar Name value" directive define
// a variable for the rest of the script and are blanked, keeping line
// numbers intact; values from vars
// take precedence over :setvar, as with sqlcmd -v.
//
// A reference to an undefined variable is an ErrInvalidConfig error.
func SubstituteVariables(script string, vars map[string]string) (string, error) {
	defined := make(map[string]string, len(vars))
	fixed := make(map[string]bool, len(vars))
	for name, value := range vars {
		defined[strings.ToLower(name)] = value
		fixed[strings.ToLower(name)] = true
	}

	lines := strings.Split(script, "\n")
	out := make([]string, 0, len(lines))
	var missing []string
	for _, line := range lines {
		if m := setvarDirective.FindStringSubmatch(strings.TrimSuffix(line, "\r")); m != nil {
			name := strings.ToLower(m[1])
			if !fixed[name] {
				defined[name] = unquoteSetvar(m[2])
			}
			out = append(out, "")
			continue
		}

		line = variableReference.ReplaceAllStringFunc(line, func(ref string) string {
			name := variableReference.FindStringSubmatch(ref)[1]
			value, ok := defined[strings.ToLower(name)]
			if !ok {
				missing = append(missing, name)
				return ref
			}
			return value
		})
		out = append(out, line)
	}

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: scripting variable %q is not defined", sqlaction.ErrInvalidConfig, missing[0])
	}
	return strings.Join(out, "\n"), nil
}

func unquoteSetvar(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return strings.ReplaceAll(v[1:len(v)-1], `""`, `"`)
	}
	return v
}
