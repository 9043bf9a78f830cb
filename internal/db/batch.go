package db

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/microsoft/go-mssqldb/batch"
)

// Batch is one unit of T-SQL sent to the server, delimited by GO.
type Batch struct {
	SQL string
	// Line is the 1-based script line the batch starts on.
	Line int
	// Count is how many times the batch runs ("GO 5" runs it five times).
	Count int
}

const (
	batchSeparator = "GO"
	// maxRepeat matches the cap batch.Split applies to "GO n".
	maxRepeat = 1000
)

// separator is a GO line: the batch before it ends at at, the next one
// starts at next.
type separator struct {
	at    int
	next  int
	count int
}

// SplitBatches splits a script on GO separator lines. Candidate separators
// come from the driver's batch splitter; a candidate counts only when GO is
// alone on its line (optionally followed by a repeat count and a line
// comment) and the text before it does not end inside a comment, string
// literal or quoted identifier. Batch text is taken from the script as
// written. Empty batches and batches repeated zero times are dropped.
func SplitBatches(script string) []Batch {
	script = strings.ReplaceAll(strings.TrimPrefix(script, "\uFEFF"), "\r\n", "\n")

	var batches []Batch
	from := 0
	for _, sep := range candidateSeparators(script) {
		if sep.at < from || unterminated(script[from:sep.at]) {
			continue
		}
		batches = appendBatch(batches, script, from, sep.at, sep.count)
		from = sep.next
	}
	return appendBatch(batches, script, from, len(script), 1)
}

func appendBatch(batches []Batch, script string, from, to, count int) []Batch {
	text := script[from:to]
	sql := strings.TrimSpace(text)
	if sql == "" || count == 0 {
		return batches
	}
	lead := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	return append(batches, Batch{
		SQL:   sql,
		Line:  1 + strings.Count(script[:from+lead], "\n"),
		Count: count,
	})
}

// candidateSeparators locates, in script order, the GO lines batch.Split
// cut the script at. batch.Split returns only text, so each piece is found
// again in the script: a piece ends where its separator starts and begins
// right after the previous one.
func candidateSeparators(script string) []separator {
	var seps []separator
	add := func(lineStart int) {
		if len(seps) > 0 && seps[len(seps)-1].at == lineStart {
			return
		}
		if sep, ok := parseSeparator(script, lineStart); ok {
			seps = append(seps, sep)
		}
	}

	pieces := batch.Split(script, batchSeparator)
	pos := 0
	for i := 0; i < len(pieces); i++ {
		start, end := locate(script, pos, pieces[i])
		if start > 0 {
			add(lineStart(script, start-1))
		}
		if hasSeparatorAt(script, end) {
			add(lineStart(script, end))
			// batch.Split repeats the text for "GO n"; skip the copies.
			for n := emittedCopies(script[end+len(batchSeparator):]); n > 1 && i+1 < len(pieces) && pieces[i+1] == pieces[i]; n-- {
				i++
			}
		}
		pos = end
	}
	return seps
}

// locate finds piece in script at or after from. batch.Split drops
// backslash line continuations inside string literals, so a piece that is
// not a plain substring is matched with those skipped.
func locate(script string, from int, piece string) (int, int) {
	if i := strings.Index(script[from:], piece); i >= 0 {
		return from + i, from + i + len(piece)
	}
	for start := from; start < len(script); start++ {
		if end, ok := matchContinued(script, start, piece); ok {
			return start, end
		}
	}
	return from, min(from+len(piece), len(script))
}

func matchContinued(script string, start int, piece string) (int, bool) {
	i, j := start, 0
	for j < len(piece) {
		switch {
		case i >= len(script):
			return 0, false
		case script[i] == piece[j]:
			i++
			j++
		case strings.HasPrefix(script[i:], "\\\n"):
			i += 2
		default:
			return 0, false
		}
	}
	return i, true
}

func hasSeparatorAt(script string, pos int) bool {
	rest := script[pos:]
	return len(rest) >= len(batchSeparator) && strings.EqualFold(rest[:len(batchSeparator)], batchSeparator)
}

func lineStart(script string, pos int) int {
	return strings.LastIndexByte(script[:pos], '\n') + 1
}

// parseSeparator reports whether the line starting at start is a GO line.
func parseSeparator(script string, start int) (separator, bool) {
	lineEnd, next := len(script), len(script)
	if nl := strings.IndexByte(script[start:], '\n'); nl >= 0 {
		lineEnd = start + nl
		next = lineEnd + 1
	}

	line := strings.TrimSpace(script[start:lineEnd])
	if !hasSeparatorAt(line, 0) {
		return separator{}, false
	}
	tail := line[len(batchSeparator):]
	if c := strings.Index(tail, "--"); c >= 0 {
		tail = tail[:c]
	}
	tail = strings.TrimSpace(tail)

	count := 1
	if tail != "" {
		n, err := strconv.Atoi(tail)
		if err != nil || n < 0 {
			return separator{}, false
		}
		count = min(n, maxRepeat)
	}
	return separator{at: start, next: next, count: count}, true
}

// emittedCopies reports how many times batch.Split emitted the text before
// a separator, given what follows the GO token.
func emittedCopies(rest string) int {
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return 1
	}
	line := rest[:nl]
	d := strings.IndexFunc(line, unicode.IsNumber)
	if d < 0 {
		return 1
	}
	digits := line[d:]
	if k := strings.IndexFunc(digits, func(r rune) bool { return !unicode.IsNumber(r) }); k >= 0 {
		digits = digits[:k]
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 1
	}
	return int(min(max(n, 0), maxRepeat))
}

// unterminated reports whether sql ends inside a block comment, a string
// literal or a bracketed or double-quoted identifier.
func unterminated(sql string) bool {
	var closer byte
	depth := 0
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		var next byte
		if i+1 < len(sql) {
			next = sql[i+1]
		}

		switch {
		case closer != 0:
			if c == closer {
				if next == closer {
					i++
				} else {
					closer = 0
				}
			}
		case depth > 0:
			if c == '*' && next == '/' {
				depth--
				i++
			} else if c == '/' && next == '*' {
				depth++
				i++
			}
		case c == '-' && next == '-':
			nl := strings.IndexByte(sql[i:], '\n')
			if nl < 0 {
				return false
			}
			i += nl
		case c == '/' && next == '*':
			depth++
			i++
		case c == '\'' || c == '"':
			closer = c
		case c == '[':
			closer = ']'
		}
	}
	return closer != 0 || depth > 0
}
