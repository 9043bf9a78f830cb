// Package args parses free-form dotnet/SqlPackage style argument strings.
package args

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// slashFlag matches MSBuild style switches such as /p:Name=Value or /t:Build.
// Plain absolute paths like /tmp/out do not match.
var slashFlag = regexp.MustCompile(`^/[A-Za-z][A-Za-z-]*[:=]`)

// Parser implements sqlaction.ArgumentParser.
// Recognized forms:
//
//	--name value   --name=value   -n value   -n:value
//	-p:Key=Value   /p:Key=Value   -property:Key=Value
//
// A flag followed by another flag (or nothing) has a nil value.
// Positional tokens that do not follow a flag are ignored, as is anything
// after a pipe or command separator and the target of a redirection.
// When a name repeats, the last occurrence wins.
type Parser struct{}

// New creates a Parser.
func New() Parser {
	return Parser{}
}

// ParseCommandArguments tokenizes argString with shell quoting rules and
// collects the named arguments.
func (Parser) ParseCommandArguments(argString string) (sqlaction.Arguments, error) {
	result := sqlaction.Arguments{}
	if strings.TrimSpace(argString) == "" {
		return result, nil
	}

	if runtime.GOOS == "windows" {
		// Backslashes are path separators on Windows, not escapes.
		argString = strings.ReplaceAll(argString, `\`, `\\`)
	}

	tokens, err := tokenize(argString)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot tokenize arguments %q: %v", sqlaction.ErrInvalidConfig, argString, err)
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !isFlag(tok) {
			continue
		}

		name, value, hasValue := splitFlag(tok)
		if name == "" {
			continue
		}
		if !hasValue && i+1 < len(tokens) && !isFlag(tokens[i+1]) {
			value, hasValue = tokens[i+1], true
			i++
		}

		if hasValue {
			v := value
			result[name] = &v
		} else {
			result[name] = nil
		}
	}

	return result, nil
}

// tokenize splits s with shell quoting rules. The text is handed to a shell
// unchanged, so operators are legal: redirections are skipped together with
// their target, and a pipe or command separator ends the arguments.
func tokenize(s string) ([]string, error) {
	var tokens []string
	rest := []rune(s)
	redirected := false
	for {
		p := shellwords.NewParser()
		words, err := p.Parse(string(rest))
		if err != nil {
			return nil, err
		}
		if redirected && len(words) > 0 {
			words = words[1:]
		}
		tokens = append(tokens, words...)

		if p.Position < 0 {
			return tokens, nil
		}
		n, ok := redirection(rest[p.Position:])
		if !ok {
			return tokens, nil
		}
		rest = rest[p.Position+n:]
		redirected = true
	}
}

// redirection returns the length of the redirection operator at the start
// of op ("2>", ">>", ">&", "&>", "<"), or false for any other operator.
func redirection(op []rune) (int, bool) {
	i := 0
	for i < len(op) && op[i] >= '0' && op[i] <= '9' {
		i++
	}
	if i < len(op) && op[i] == '&' {
		if i+1 < len(op) && op[i+1] == '>' {
			i++
		} else {
			return 0, false
		}
	}
	if i >= len(op) || (op[i] != '>' && op[i] != '<') {
		return 0, false
	}
	dir := op[i]
	i++
	if i < len(op) && op[i] == dir {
		i++
	}
	if i < len(op) && op[i] == '&' {
		i++
	}
	return i, true
}

// FindArgument returns the value of the first candidate present with a value.
func (Parser) FindArgument(args sqlaction.Arguments, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := args[normalizeName(name)]; ok && v != nil {
			return *v, true
		}
	}
	return "", false
}

func isFlag(tok string) bool {
	if len(tok) > 1 && tok[0] == '-' {
		return true
	}
	return slashFlag.MatchString(tok)
}

// splitFlag separates a flag token into its normalized name and inline value.
func splitFlag(tok string) (name, value string, hasValue bool) {
	body := strings.TrimLeft(tok, "-/")
	lower := strings.ToLower(body)

	if strings.HasPrefix(lower, "p:") || strings.HasPrefix(lower, "property:") {
		_, prop, _ := strings.Cut(body, ":")
		key, val, ok := strings.Cut(prop, "=")
		return normalizeName("p:" + key), val, ok
	}

	if strings.HasPrefix(tok, "--") {
		key, val, ok := strings.Cut(body, "=")
		return normalizeName(key), val, ok
	}

	if idx := strings.IndexAny(body, ":="); idx >= 0 {
		return normalizeName(body[:idx]), body[idx+1:], true
	}
	return normalizeName(body), "", false
}

// normalizeName lowercases a flag name, drops leading dashes and slashes,
// and folds the "property:" prefix into "p:".
func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimLeft(strings.TrimSpace(name), "-/"))
	if rest, ok := strings.CutPrefix(n, "property:"); ok {
		n = "p:" + rest
	}
	return n
}
