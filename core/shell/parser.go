package shell

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned by Parse for a line with no words.
var ErrEmpty = errors.New("empty command line")

// SyntaxError describes a malformed pipeline.
type SyntaxError struct {
	// Stage is the zero based index of the offending stage.
	Stage int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in stage %d: %s", e.Stage+1, e.Msg)
}

// Stage is one command of a pipeline.
type Stage struct {
	Name string
	Args []string

	// InputRedirect is the file read as the pipeline's input, only ever set on
	// the first stage.
	InputRedirect string
	// OutputRedirect is the file the pipeline's output is written to, only
	// ever set on the last stage.
	OutputRedirect string
	// Append is set when OutputRedirect was given with >>.
	Append bool
}

// Pipeline is a non-empty list of stages, each feeding the next.
type Pipeline struct {
	Stages []Stage
}

// First returns the first stage.
func (p *Pipeline) First() *Stage { return &p.Stages[0] }

// Last returns the last stage.
func (p *Pipeline) Last() *Stage { return &p.Stages[len(p.Stages)-1] }

// Parse tokenizes line and splits it into stages.
//
// Redirects are only accepted on the boundary stages: < on the first stage
// and > or >> on the last. A redirect anywhere else is rejected with a
// *SyntaxError rather than passed through as an argument.
func Parse(line string) (*Pipeline, error) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return nil, ErrEmpty
	}

	segments := SplitStages(tokens)
	last := len(segments) - 1

	p := &Pipeline{}
	for i, seg := range segments {
		stage, err := resolveStage(seg, i, i == 0, i == last)
		if err != nil {
			return nil, err
		}
		p.Stages = append(p.Stages, stage)
	}

	return p, nil
}

// SplitStages splits tokens on the pipe operator. The result always has one
// more entry than there are pipe operators, possibly empty ones.
func SplitStages(tokens []Token) [][]Token {
	segments := [][]Token{nil}
	for _, tok := range tokens {
		if tok.Operator && tok.Text == OpPipe {
			segments = append(segments, nil)
			continue
		}
		segments[len(segments)-1] = append(segments[len(segments)-1], tok)
	}
	return segments
}

// resolveStage extracts redirects from a single stage's tokens.
func resolveStage(tokens []Token, index int, first, last bool) (Stage, error) {
	var (
		stage         Stage
		words         []string
		hasIn, hasOut bool
	)

	fail := func(format string, a ...interface{}) (Stage, error) {
		return Stage{}, &SyntaxError{Stage: index, Msg: fmt.Sprintf(format, a...)}
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !tok.Operator {
			words = append(words, tok.Text)
			continue
		}

		if i+1 >= len(tokens) || tokens[i+1].Operator {
			return fail("%s requires a file name", tok.Text)
		}
		target := tokens[i+1].Text
		i++
		if target == "" {
			return fail("%s requires a file name", tok.Text)
		}

		switch tok.Text {
		case OpRedirectIn:
			switch {
			case !first:
				return fail("input redirection is only allowed on the first command")
			case hasIn:
				return fail("multiple input redirections")
			}
			hasIn = true
			stage.InputRedirect = target

		case OpRedirectOut, OpRedirectApnd:
			switch {
			case !last:
				return fail("output redirection is only allowed on the last command")
			case hasOut:
				return fail("multiple output redirections")
			}
			hasOut = true
			stage.OutputRedirect = target
			stage.Append = tok.Text == OpRedirectApnd

		default:
			return fail("unexpected operator %q", tok.Text)
		}
	}

	if len(words) == 0 {
		return fail("missing command")
	}

	stage.Name = words[0]
	stage.Args = append([]string(nil), words[1:]...)
	return stage, nil
}
