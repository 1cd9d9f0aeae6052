package veripp

import "github.com/pkg/errors"

// MaxConditionalMacros bounds the number of distinct macro names a single
// file may test in its conditionals. The limit is checked during Build.
const MaxConditionalMacros = 128

var (
	// ErrMissingMacroName reports a `ifdef/`ifndef/`elsif with no macro
	// identifier following it.
	ErrMissingMacroName = errors.New("conditional directive not followed by a macro identifier")
	// ErrTooManyMacros reports a file whose conditionals test more distinct
	// macros than MaxConditionalMacros.
	ErrTooManyMacros = errors.New("conditional macro limit exceeded")
	// ErrUnbalancedConditional reports a stray `elsif/`else/`endif or a
	// conditional block left unclosed at the end of the sequence.
	ErrUnbalancedConditional = errors.New("unbalanced conditional directives")
)

// FlowTree holds the successor-edge table built over one token sequence,
// together with the conditional blocks discovered along the way. Build must
// succeed before GenerateVariants may run; a failed Build leaves no usable
// edge table behind.
type FlowTree struct {
	seq    []Token
	edges  [][]int
	blocks []conditionalBlock

	macroIDs  map[string]int // macro name -> discovery-order ID, from 1
	condMacro []int          // branch position -> macro ID, 0 elsewhere
	built     bool
}

// conditionalBlock is one complete `ifdef/`ifndef ... `endif grouping.
// Positions index into the source sequence; els is -1 when the block has
// no `else.
type conditionalBlock struct {
	open    int
	negated bool // opened by `ifndef
	elsifs  []int
	els     int
	endif   int
}

// NewFlowTree wraps seq without inspecting it. The sequence must stay
// unchanged for the lifetime of the tree.
func NewFlowTree(seq []Token) *FlowTree {
	return &FlowTree{seq: seq}
}

// Build scans the sequence once, grouping conditional directives into blocks
// and filling the edge table. It fails on the first structural problem and
// leaves the tree unbuilt.
func (t *FlowTree) Build() error {
	t.edges = make([][]int, len(t.seq))
	t.condMacro = make([]int, len(t.seq))
	t.macroIDs = make(map[string]int)
	t.blocks = nil
	t.built = false

	var open []conditionalBlock
	for pos, tok := range t.seq {
		switch tok.Kind {
		case Ifdef, Ifndef:
			id, err := t.macroAt(pos)
			if err != nil {
				return err
			}
			t.condMacro[pos] = id
			open = append(open, conditionalBlock{
				open:    pos,
				negated: tok.Kind == Ifndef,
				els:     -1,
				endif:   -1,
			})
		case Elsif:
			if len(open) == 0 {
				return errors.Wrapf(ErrUnbalancedConditional, "`elsif at token %d has no open block", pos)
			}
			id, err := t.macroAt(pos)
			if err != nil {
				return err
			}
			t.condMacro[pos] = id
			top := &open[len(open)-1]
			top.elsifs = append(top.elsifs, pos)
		case Else:
			if len(open) == 0 {
				return errors.Wrapf(ErrUnbalancedConditional, "`else at token %d has no open block", pos)
			}
			open[len(open)-1].els = pos
		case Endif:
			if len(open) == 0 {
				return errors.Wrapf(ErrUnbalancedConditional, "`endif at token %d has no open block", pos)
			}
			top := open[len(open)-1]
			top.endif = pos
			t.addBlockEdges(top)
			t.blocks = append(t.blocks, top)
			open = open[:len(open)-1]
		default:
			// Plain next-token edge, unless the next token continues a
			// block; those transitions come from block edges instead.
			next := pos + 1
			if next < len(t.seq) && !t.seq[next].Kind.isBlockTail() {
				t.addEdge(pos, next)
			}
		}
	}
	if len(open) > 0 {
		return errors.Wrapf(ErrUnbalancedConditional,
			"conditional opened at token %d is never closed", open[len(open)-1].open)
	}
	t.built = true
	return nil
}

// macroAt resolves the macro ID for the branch directive at pos, assigning a
// fresh ID the first time the name is seen.
func (t *FlowTree) macroAt(pos int) (int, error) {
	next := pos + 1
	if next >= len(t.seq) || t.seq[next].Kind != Identifier {
		return 0, errors.Wrapf(ErrMissingMacroName, "after `%s at token %d", t.seq[pos].Kind, pos)
	}
	name := t.seq[next].Text
	if id, ok := t.macroIDs[name]; ok {
		return id, nil
	}
	if len(t.macroIDs) >= MaxConditionalMacros {
		return 0, errors.Wrapf(ErrTooManyMacros, "macro %q is the %dth distinct name", name, len(t.macroIDs)+1)
	}
	id := len(t.macroIDs) + 1
	t.macroIDs[name] = id
	return id, nil
}

// addBlockEdges wires a completed block. The first edge out of a branch
// directive assumes its condition is true, the second assumes it is false.
func (t *FlowTree) addBlockEdges(b conditionalBlock) {
	hasElsif := len(b.elsifs) > 0
	hasElse := b.els >= 0

	// Condition true: fall through into the branch body.
	t.addEdge(b.open, b.open+1)
	// Condition false: first `elsif, else `else, else `endif.
	switch {
	case hasElsif:
		t.addEdge(b.open, b.elsifs[0])
	case hasElse:
		t.addEdge(b.open, b.els)
	default:
		t.addEdge(b.open, b.endif)
	}

	for i, pos := range b.elsifs {
		t.addEdge(pos, pos+1)
		switch {
		case i+1 < len(b.elsifs):
			t.addEdge(pos, b.elsifs[i+1])
		case hasElse:
			t.addEdge(pos, b.els)
		default:
			t.addEdge(pos, b.endif)
		}
	}

	if hasElse {
		t.addEdge(b.els, b.els+1)
	}

	// Convergence: every branch tail rejoins at `endif.
	t.addEdge(b.endif-1, b.endif)
	for _, pos := range b.elsifs {
		t.addEdge(pos-1, b.endif)
	}
	if hasElse {
		t.addEdge(b.els-1, b.endif)
	}

	// Chain `endif to the following token, unless that token continues an
	// enclosing block.
	next := b.endif + 1
	if next < len(t.seq) && !t.seq[next].Kind.isBlockTail() {
		t.addEdge(b.endif, next)
	}
}

// addEdge appends to without introducing a duplicate successor. Empty branch
// bodies would otherwise wire the same transition twice.
func (t *FlowTree) addEdge(from, to int) {
	for _, succ := range t.edges[from] {
		if succ == to {
			return
		}
	}
	t.edges[from] = append(t.edges[from], to)
}

// Successors returns the successor positions of the token at pos, ordered
// [true branch, false branch] for branching directives.
func (t *FlowTree) Successors(pos int) []int {
	if pos < 0 || pos >= len(t.edges) {
		return nil
	}
	return append([]int(nil), t.edges[pos]...)
}

// Macros returns the conditional macro names in discovery order.
func (t *FlowTree) Macros() []string {
	names := make([]string, len(t.macroIDs))
	for name, id := range t.macroIDs {
		names[id-1] = name
	}
	return names
}
