package veripp

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

// seq flattens tokens, token slices and plain strings (ordinary tokens) into
// one sequence.
func seq(parts ...any) []Token {
	var s []Token
	for _, part := range parts {
		switch p := part.(type) {
		case string:
			s = append(s, Token{Kind: Ordinary, Text: p})
		case Token:
			s = append(s, p)
		case []Token:
			s = append(s, p...)
		default:
			panic(fmt.Sprintf("seq: unsupported part %T", part))
		}
	}
	return s
}

func ifdef(name string) []Token {
	return []Token{{Kind: Ifdef, Text: "`ifdef"}, {Kind: Identifier, Text: name}}
}

func ifndef(name string) []Token {
	return []Token{{Kind: Ifndef, Text: "`ifndef"}, {Kind: Identifier, Text: name}}
}

func elsif(name string) []Token {
	return []Token{{Kind: Elsif, Text: "`elsif"}, {Kind: Identifier, Text: name}}
}

var (
	els   = Token{Kind: Else, Text: "`else"}
	endif = Token{Kind: Endif, Text: "`endif"}
)

func TestBuildEdges(t *testing.T) {
	for _, tt := range []struct {
		name  string
		seq   []Token
		edges [][]int
	}{
		{
			"no directives",
			seq("a", "b", "c"),
			[][]int{{1}, {2}, nil},
		},
		{
			"single ifdef",
			seq(ifdef("A"), "b", endif, "x"),
			[][]int{
				{1, 3}, // ifdef: true -> body, false -> endif
				{2},
				{3}, // convergence
				{4}, // endif chains to next token
				nil,
			},
		},
		{
			"ifdef elsif else",
			seq(ifdef("A"), "a", elsif("B"), "b", els, "c", endif, "x"),
			[][]int{
				{1, 3}, // ifdef: true -> A, false -> elsif
				{2},
				{8},    // tail of ifdef body -> endif
				{4, 6}, // elsif: true -> B, false -> else
				{5},
				{8}, // tail of elsif body -> endif
				{7}, // else falls into its body
				{8}, // tail of else body -> endif
				{9},
				nil,
			},
		},
		{
			"empty bodies link directive to directive",
			seq(ifdef("A"), els, endif),
			[][]int{
				{1, 2}, // true -> identifier, false -> else
				{3},    // identifier is the true branch's tail
				{3},    // fallthrough and convergence collapse to one edge
				nil,
			},
		},
		{
			"sequential blocks chain through endif",
			seq(ifdef("A"), "a", endif, ifdef("B"), "b", endif, "x"),
			[][]int{
				{1, 3},
				{2},
				{3},
				{4}, // endif -> next block
				{5, 7},
				{6},
				{7},
				{8},
				nil,
			},
		},
		{
			"nested block",
			seq(ifdef("A"), "a1", ifdef("B"), "b1", endif, "a2", endif, "x"),
			[][]int{
				{1, 8},
				{2},
				{3},
				{4, 6},
				{5},
				{6},
				{7},
				{8},
				{9},
				nil,
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewFlowTree(tt.seq)
			if err := tree.Build(); err != nil {
				t.Fatalf("build error: %v", err)
			}
			if diff := cmp.Diff(tt.edges, tree.edges); diff != "" {
				t.Errorf("edge table mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		seq  []Token
		want error
	}{
		{
			"ifdef without macro name",
			seq(Token{Kind: Ifdef, Text: "`ifdef"}, "b", endif),
			ErrMissingMacroName,
		},
		{
			"ifdef at end of input",
			seq("a", Token{Kind: Ifdef, Text: "`ifdef"}),
			ErrMissingMacroName,
		},
		{
			"elsif without macro name",
			seq(ifdef("A"), "a", Token{Kind: Elsif, Text: "`elsif"}, "b", endif),
			ErrMissingMacroName,
		},
		{
			"stray endif",
			seq("a", endif),
			ErrUnbalancedConditional,
		},
		{
			"stray else",
			seq("a", els, "b"),
			ErrUnbalancedConditional,
		},
		{
			"stray elsif",
			seq(elsif("A"), "b"),
			ErrUnbalancedConditional,
		},
		{
			"unclosed block",
			seq(ifdef("A"), "b"),
			ErrUnbalancedConditional,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFlowTree(tt.seq).Build()
			if err == nil {
				t.Fatal("expected build error")
			}
			if errors.Cause(err) != tt.want {
				t.Errorf("got %v, want cause %v", err, tt.want)
			}
		})
	}
}

func TestBuildMacroLimit(t *testing.T) {
	var s []Token
	for i := 0; i <= MaxConditionalMacros; i++ {
		s = append(s, seq(ifdef(fmt.Sprintf("M%d", i)), endif)...)
	}
	err := NewFlowTree(s).Build()
	if err == nil {
		t.Fatal("expected build error")
	}
	if errors.Cause(err) != ErrTooManyMacros {
		t.Errorf("got %v, want cause %v", err, ErrTooManyMacros)
	}

	// One fewer block stays within the limit.
	s = s[:len(s)-3]
	if err := NewFlowTree(s).Build(); err != nil {
		t.Errorf("unexpected build error: %v", err)
	}
}

func TestMacroIdentityTable(t *testing.T) {
	tree := NewFlowTree(seq(
		ifdef("B"), "a", elsif("A"), "b", endif,
		ifdef("A"), "c", endif, // reuses A's ID
	))
	if err := tree.Build(); err != nil {
		t.Fatalf("build error: %v", err)
	}
	if diff := cmp.Diff([]string{"B", "A"}, tree.Macros()); diff != "" {
		t.Errorf("discovery order mismatch (-want +got):\n%s", diff)
	}
	// Same macro name, same ID at every referencing directive.
	if got, want := tree.condMacro[7], tree.condMacro[3]; got != want {
		t.Errorf("macro A got ID %d at second block, %d at first", got, want)
	}
}

func TestSuccessorsCopies(t *testing.T) {
	tree := NewFlowTree(seq("a", "b"))
	if err := tree.Build(); err != nil {
		t.Fatalf("build error: %v", err)
	}
	succ := tree.Successors(0)
	succ[0] = 99
	if diff := cmp.Diff([]int{1}, tree.Successors(0)); diff != "" {
		t.Errorf("edge table was mutated through Successors (-want +got):\n%s", diff)
	}
	if tree.Successors(-1) != nil || tree.Successors(2) != nil {
		t.Error("out-of-range positions should have no successors")
	}
}
