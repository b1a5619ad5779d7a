// Package shell turns a command line into a Pipeline of Stages.
//
// The grammar is deliberately small:
//
//	line     = stage { "|" stage }
//	stage    = word { word | redirect }
//	redirect = ( "<" | ">" | ">>" ) word
//
// Double quotes group words containing whitespace or operator characters and
// the caret (^) takes the next character literally, inside or outside double
// quotes. Single quotes group a fully literal span: nothing inside them is
// special, not even the caret.
package shell

import (
	"strings"
	"unicode"
)

const (
	// EscapeChar makes the following character literal.
	EscapeChar = '^'
	// QuoteChar toggles quoting.
	QuoteChar = '"'
	// LiteralQuoteChar toggles a span with no escapes.
	LiteralQuoteChar = '\''

	OpPipe         = "|"
	OpRedirectIn   = "<"
	OpRedirectOut  = ">"
	OpRedirectApnd = ">>"
)

// Token is a single word of a command line.
type Token struct {
	// Text is the word with quotes and escapes removed.
	Text string
	// Operator is set for unquoted, unescaped pipe and redirect operators.
	Operator bool
}

func word(s string) Token { return Token{Text: s} }
func op(s string) Token   { return Token{Text: s, Operator: true} }

// Tokenize splits line on unquoted whitespace.
//
// Unterminated quotes are not an error, the quote stays open until the end of
// the input and whatever was collected is emitted as the final token. A
// trailing escape character with nothing after it is dropped, along with the
// word it started if nothing else did.
func Tokenize(line string) []Token {
	var (
		tokens    []Token
		current   strings.Builder
		inQuotes  bool
		inLiteral bool
		escaped   bool
		// started tracks whether the current word exists, so "" yields an
		// empty token. quoted is set once a quote contributed to it.
		started bool
		quoted  bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, word(current.String()))
		}
		current.Reset()
		started = false
		quoted = false
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case escaped:
			current.WriteRune(r)
			started = true
			escaped = false

		case inLiteral && r == LiteralQuoteChar:
			inLiteral = false

		case inLiteral:
			current.WriteRune(r)

		case r == EscapeChar:
			escaped = true
			started = true

		case r == QuoteChar:
			inQuotes = !inQuotes
			started = true
			quoted = true

		case r == LiteralQuoteChar && !inQuotes:
			inLiteral = true
			started = true
			quoted = true

		case inQuotes:
			current.WriteRune(r)

		case unicode.IsSpace(r):
			flush()

		case r == '|' || r == '<':
			flush()
			tokens = append(tokens, op(string(r)))

		case r == '>':
			flush()
			if i+1 < len(runes) && runes[i+1] == '>' {
				tokens = append(tokens, op(OpRedirectApnd))
				i++
			} else {
				tokens = append(tokens, op(OpRedirectOut))
			}

		default:
			current.WriteRune(r)
			started = true
		}
	}

	// A lone trailing escape marks the word as started but adds nothing.
	if started && (current.Len() > 0 || !escaped || quoted) {
		tokens = append(tokens, word(current.String()))
	}

	return tokens
}
