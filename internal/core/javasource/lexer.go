package javasource

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokPunct
	tokLiteral
	tokDoc
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// lex splits Java source into identifiers, single-character punctuation,
// literals and doc comments. Other comments and whitespace are dropped.
func lex(src string) ([]token, error) {
	var toks []token
	line := 1
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f':
			i++
		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				i = len(src)
			} else {
				i += end
			}
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, fmt.Errorf("line %d: unterminated comment", line)
			}
			text := src[i : i+2+end+2]
			// "/**/" is an empty block comment, not a doc comment
			if strings.HasPrefix(text, "/**") && len(text) > 4 {
				toks = append(toks, token{kind: tokDoc, text: text, line: line})
			}
			line += strings.Count(text, "\n")
			i += len(text)
		case strings.HasPrefix(src[i:], `"""`):
			end := strings.Index(src[i+3:], `"""`)
			if end < 0 {
				return nil, fmt.Errorf("line %d: unterminated text block", line)
			}
			text := src[i : i+3+end+3]
			toks = append(toks, token{kind: tokLiteral, text: text, line: line})
			line += strings.Count(text, "\n")
			i += len(text)
		case c == '"' || c == '\'':
			n, err := quoted(src[i:], c)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			toks = append(toks, token{kind: tokLiteral, text: src[i : i+n], line: line})
			i += n
		case c >= '0' && c <= '9':
			start := i
			for i < len(src) && (isIdentByte(src[i]) || src[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokLiteral, text: src[start:i], line: line})
		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			if r == '_' || r == '$' || unicode.IsLetter(r) {
				start := i
				for i < len(src) {
					r, size = utf8.DecodeRuneInString(src[i:])
					if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
						break
					}
					i += size
				}
				toks = append(toks, token{kind: tokIdent, text: src[start:i], line: line})
				continue
			}
			toks = append(toks, token{kind: tokPunct, text: src[i : i+size], line: line})
			i += size
		}
	}
	return append(toks, token{kind: tokEOF, line: line}), nil
}

// quoted returns the length of the string or char literal at the start of s.
func quoted(s string, q byte) (int, error) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\n':
			return 0, fmt.Errorf("newline in literal")
		case q:
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unterminated literal")
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
