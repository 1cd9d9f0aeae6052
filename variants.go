package veripp

import "github.com/pkg/errors"

// Event tells a VariantReceiver why it is being invoked.
type Event int

const (
	// Visiting carries the path prefix accumulated so far; exploration
	// beneath the current token has not finished.
	Visiting Event = iota
	// Completed carries one full directive-free variant.
	Completed
)

func (e Event) String() string {
	switch e {
	case Visiting:
		return "visiting"
	case Completed:
		return "completed"
	default:
		return "event(?)"
	}
}

// VariantReceiver consumes enumeration progress. It is called once per
// visited token with Visiting and once per completed path with Completed.
// seq is owned by the enumerator and only valid for the duration of the
// call; copy it to keep it. variant is the 0-based ordinal the next
// completed variant will carry. Returning false on a Visiting event stops
// exploration beneath the current token; the rest of the tree is still
// walked. The return value of a Completed event is ignored.
type VariantReceiver func(seq []Token, variant int, event Event) bool

// walker carries all mutable state of one enumeration and is exclusively
// owned by a single GenerateVariants call.
type walker struct {
	tree     *FlowTree
	receiver VariantReceiver

	// assumed maps a macro ID to the truth value fixed for it on the
	// current path. Absence means the macro is still undecided.
	assumed  map[int]bool
	out      []Token
	variants int
}

// GenerateVariants walks the flow graph depth first from the first token,
// reporting every visited prefix and every completed variant to receiver.
// Build must have succeeded first. The tree itself stays read-only, but the
// walk state is not shareable: concurrent calls on one tree each get their
// own walker, while receiver invocations always happen on the calling
// goroutine.
func (t *FlowTree) GenerateVariants(receiver VariantReceiver) error {
	if !t.built {
		return errors.New("flow graph has not been built")
	}
	if len(t.seq) == 0 {
		receiver(nil, 0, Completed)
		return nil
	}
	w := &walker{tree: t, receiver: receiver, assumed: make(map[int]bool)}
	w.walk(0)
	return nil
}

func (w *walker) walk(pos int) {
	if !w.receiver(w.out, w.variants, Visiting) {
		return
	}
	tok := w.tree.seq[pos]
	if !tok.Kind.IsDirective() {
		w.out = append(w.out, tok)
	}

	if tok.Kind.isBranch() {
		id := w.tree.condMacro[pos]
		negated := tok.Kind == Ifndef
		succ := w.tree.edges[pos]
		if defined, ok := w.assumed[id]; ok {
			// Truth already fixed on this path: follow the one edge the
			// assumption selects, no re-branching.
			if defined != negated {
				w.walk(succ[0])
			} else {
				w.walk(succ[1])
			}
		} else {
			w.assumed[id] = !negated
			w.walk(succ[0])
			w.assumed[id] = negated
			w.walk(succ[1])
			// Sibling paths above re-decide this macro independently.
			delete(w.assumed, id)
		}
	} else {
		for _, next := range w.tree.edges[pos] {
			w.walk(next)
		}
	}

	if pos == len(w.tree.seq)-1 {
		w.receiver(w.out, w.variants, Completed)
		w.variants++
	}
	if !tok.Kind.IsDirective() {
		w.out = w.out[:len(w.out)-1]
	}
}
