// Package veripp enumerates the preprocessing variants of a Verilog token
// sequence: every distinct token stream obtainable by assigning truth values
// to the macros tested by `ifdef/`ifndef/`elsif conditionals.
//
// The work happens in two strictly ordered phases. Build turns the sequence
// into a flow graph whose branch directives carry one successor per truth
// value, and GenerateVariants walks that graph depth first, materializing
// one directive-free token sequence per reachable truth combination.
package veripp

import "strings"

// EnumerateVariants builds the flow graph for seq and reports every variant
// to receiver. It fails only when the graph cannot be built.
func EnumerateVariants(seq []Token, receiver VariantReceiver) error {
	t := NewFlowTree(seq)
	if err := t.Build(); err != nil {
		return err
	}
	return t.GenerateVariants(receiver)
}

// Variants collects every complete variant of seq.
func Variants(seq []Token) ([][]Token, error) {
	var all [][]Token
	err := EnumerateVariants(seq, func(v []Token, _ int, event Event) bool {
		if event == Completed {
			all = append(all, append([]Token(nil), v...))
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// Format renders a variant as source text: tokens separated by single
// spaces, newline tokens emitted verbatim.
func Format(seq []Token) string {
	var b strings.Builder
	atLineStart := true
	for _, tok := range seq {
		if tok.Text == "\n" {
			b.WriteByte('\n')
			atLineStart = true
			continue
		}
		if !atLineStart {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
		atLineStart = false
	}
	return b.String()
}
