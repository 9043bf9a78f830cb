package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Calculator computes script checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized content.
	CalculateNormalized(content []byte) string
}

// SHA256 implements Calculator with SHA-256 and hex output.
// It is a zero-size type and safe for concurrent use.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256([]byte(c.normalize(string(content))))
	return hex.EncodeToString(hash[:])
}

type commentState int

const (
	csNormal commentState = iota
	csLineComment
	csBlockComment
	csSingleQuote
	csBracket
	csDoubleQuote
)

// normalize strips comments, collapses whitespace runs to one space and
// lowercases code. Literals ('...'), bracketed names ([...]) and quoted
// names ("...") are copied verbatim. Block comments nest as in T-SQL.
func (c SHA256) normalize(content string) string {
	content = strings.TrimPrefix(content, "\uFEFF")

	var b strings.Builder
	b.Grow(len(content))

	state := csNormal
	blockDepth := 0
	pendingSpace := false

	emit := func(r rune) {
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}

	for i := 0; i < len(content); {
		r, size := utf8.DecodeRuneInString(content[i:])
		var next byte
		if i+size < len(content) {
			next = content[i+size]
		}

		switch state {
		case csNormal:
			switch {
			case r == '-' && next == '-':
				state = csLineComment
				pendingSpace = true
				i += 2
				continue
			case r == '/' && next == '*':
				state = csBlockComment
				blockDepth = 1
				pendingSpace = true
				i += 2
				continue
			case unicode.IsSpace(r):
				pendingSpace = true
			case r == '\'':
				state = csSingleQuote
				emit(r)
			case r == '[':
				state = csBracket
				emit(r)
			case r == '"':
				state = csDoubleQuote
				emit(r)
			default:
				emit(unicode.ToLower(r))
			}

		case csLineComment:
			if r == '\n' {
				state = csNormal
			}

		case csBlockComment:
			if r == '/' && next == '*' {
				blockDepth++
				i += 2
				continue
			}
			if r == '*' && next == '/' {
				blockDepth--
				i += 2
				if blockDepth == 0 {
					state = csNormal
				}
				continue
			}

		case csSingleQuote, csBracket, csDoubleQuote:
			b.WriteRune(r)
			closer := closingRune(state)
			if r == closer {
				// A doubled closer is an escaped character, not the end.
				if rune(next) == closer {
					b.WriteByte(next)
					i += size + 1
					continue
				}
				state = csNormal
			}
		}
		i += size
	}

	return b.String()
}

func closingRune(state commentState) rune {
	switch state {
	case csBracket:
		return ']'
	case csDoubleQuote:
		return '"'
	default:
		return '\''
	}
}
