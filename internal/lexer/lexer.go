// Package lexer turns Verilog source text into the token sequence consumed
// by the flow graph. It recognizes just enough of the language to classify
// backtick preprocessor directives; everything else passes through as
// ordinary tokens.
package lexer

import (
	"strings"

	"github.com/veripp/veripp"
)

// Lex splits src into tokens. Conditional directives and `define get their
// dedicated kinds, the macro name following a directive becomes an
// identifier token, and the remainder of a `define line its body. Every
// other line is tokenized into ordinary word, number and operator tokens,
// closed by an ordinary newline token. Unknown backtick words (macro usages)
// stay ordinary; expanding them is not this tool's job.
func Lex(src string) []veripp.Token {
	var seq []veripp.Token
	for _, line := range splitLines(src) {
		seq = appendLine(seq, line)
	}
	return seq
}

func appendLine(seq []veripp.Token, line srcLine) []veripp.Token {
	trim := strings.TrimSpace(line.text)
	if strings.HasPrefix(trim, "`") {
		if toks, ok := directiveTokens(trim); ok {
			return append(seq, toks...)
		}
	}
	toks := scanLine(line.text)
	seq = append(seq, toks...)
	if line.hasNL && len(toks) > 0 {
		seq = append(seq, veripp.Token{Kind: veripp.Ordinary, Text: "\n"})
	}
	return seq
}

// directiveTokens converts a full directive line into tokens. Lines whose
// backtick word is not a preprocessor keyword are reported as not handled so
// the caller can lex them as ordinary text.
func directiveTokens(trim string) ([]veripp.Token, bool) {
	fields := splitDirective(trim)
	kind, ok := directiveKinds[fields.cmd]
	if !ok {
		return nil, false
	}
	toks := []veripp.Token{{Kind: kind, Text: "`" + fields.cmd}}
	switch kind {
	case veripp.Ifdef, veripp.Ifndef, veripp.Elsif:
		if name := firstWord(fields.arg); name != "" {
			toks = append(toks, veripp.Token{Kind: veripp.Identifier, Text: name})
		}
	case veripp.Define:
		name := firstWord(fields.arg)
		if name != "" {
			toks = append(toks, veripp.Token{Kind: veripp.Identifier, Text: name})
		}
		if body := strings.TrimSpace(fields.arg[len(name):]); body != "" {
			toks = append(toks, veripp.Token{Kind: veripp.DefineBody, Text: body})
		}
	}
	return toks, true
}

var directiveKinds = map[string]veripp.Kind{
	"ifdef":  veripp.Ifdef,
	"ifndef": veripp.Ifndef,
	"elsif":  veripp.Elsif,
	"else":   veripp.Else,
	"endif":  veripp.Endif,
	"define": veripp.Define,
}

type directiveFields struct {
	cmd string
	arg string
}

func splitDirective(trim string) directiveFields {
	// trim begins with '`'
	trim = strings.TrimSpace(trim[1:])
	if trim == "" {
		return directiveFields{}
	}
	sp := strings.Fields(trim)
	cmd := sp[0]
	arg := strings.TrimSpace(trim[len(cmd):])
	return directiveFields{cmd: cmd, arg: arg}
}

func firstWord(s string) string {
	if s == "" || !isIdentStart(s[0]) {
		return ""
	}
	i := 1
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return s[:i]
}

type srcLine struct {
	text  string
	hasNL bool
}

func splitLines(s string) []srcLine {
	if s == "" {
		return nil
	}
	lines := make([]srcLine, 0, 16)
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, srcLine{text: s, hasNL: false})
			break
		}
		lines = append(lines, srcLine{text: s[:i], hasNL: true})
		s = s[i+1:]
		if s == "" {
			break
		}
	}
	return lines
}

// scanLine lexes one line of ordinary source text. Comments are dropped,
// strings survive as single tokens, anything unrecognized becomes a
// one-character token.
func scanLine(line string) []veripp.Token {
	toks := make([]veripp.Token, 0, 8)
	emit := func(text string) {
		toks = append(toks, veripp.Token{Kind: veripp.Ordinary, Text: text})
	}
	for i := 0; i < len(line); {
		ch := line[i]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			i++
			continue
		}
		if ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			break
		}
		if ch == '/' && i+1 < len(line) && line[i+1] == '*' {
			i += 2
			for i+1 < len(line) {
				if line[i] == '*' && line[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
			continue
		}
		if ch == '"' {
			start := i
			i++
			for i < len(line) {
				ch = line[i]
				i++
				if ch == '\\' && i < len(line) {
					i++
					continue
				}
				if ch == '"' {
					break
				}
			}
			emit(line[start:i])
			continue
		}
		if isIdentStart(ch) || ch == '`' || ch == '$' {
			j := i + 1
			for j < len(line) && isIdentPart(line[j]) {
				j++
			}
			emit(line[i:j])
			i = j
			continue
		}
		if ch >= '0' && ch <= '9' {
			j := i + 1
			for j < len(line) && isNumberPart(line[j]) {
				j++
			}
			emit(line[i:j])
			i = j
			continue
		}
		emit(string(ch))
		i++
	}
	return toks
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// isNumberPart accepts the characters of Verilog sized literals such as
// 8'hFF or 4'b1010 in addition to plain digits.
func isNumberPart(b byte) bool {
	return isIdentPart(b) || b == '\''
}
