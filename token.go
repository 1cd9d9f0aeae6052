package veripp

import "fmt"

// Kind classifies a token for flow graph construction. The enumerator only
// ever looks at the kind; the text is carried through to the output untouched.
type Kind int

const (
	// Ordinary is any token that is not part of a preprocessor construct.
	// Only ordinary tokens appear in materialized variants.
	Ordinary Kind = iota
	// Identifier is the macro name following `ifdef/`ifndef/`elsif/`define.
	Identifier
	Ifdef
	Ifndef
	Elsif
	Else
	Endif
	Define
	DefineBody
)

var kindNames = [...]string{
	Ordinary:   "ordinary",
	Identifier: "identifier",
	Ifdef:      "ifdef",
	Ifndef:     "ifndef",
	Elsif:      "elsif",
	Else:       "else",
	Endif:      "endif",
	Define:     "define",
	DefineBody: "define-body",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsDirective reports whether the token belongs to a preprocessor construct.
// Directive tokens steer the flow graph but never appear in variant output.
func (k Kind) IsDirective() bool { return k != Ordinary }

// isBranch reports whether the directive has a true and a false successor.
func (k Kind) isBranch() bool { return k == Ifdef || k == Ifndef || k == Elsif }

// isBlockTail reports whether the token continues an open conditional block.
// Such positions are reached through block edges, never through the plain
// next-token edge.
func (k Kind) isBlockTail() bool { return k == Elsif || k == Else || k == Endif }

// Token is one unit of the source sequence. Tokens are referenced by their
// index in the sequence and must not be mutated once handed to a FlowTree.
type Token struct {
	Kind Kind
	Text string
}
