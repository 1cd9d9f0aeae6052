package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/veripp/veripp"
	"github.com/veripp/veripp/internal/lexer"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "veripp",
		Short: "Enumerate preprocessing variants of Verilog source",
		Long: "Veripp builds a flow graph over the conditional-compilation\n" +
			"directives of a Verilog file and walks it to produce every\n" +
			"distinct directive-free variant of the source.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVariantsCmd())
	cmd.AddCommand(newGraphCmd())
	return cmd
}

// buildTree lexes the named file (or stdin for "-" / no argument) and builds
// its flow graph.
func buildTree(args []string) (*veripp.FlowTree, []veripp.Token, error) {
	var bs []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		bs, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nil, errors.Wrap(err, "reading stdin")
		}
	} else {
		bs, err = os.ReadFile(args[0])
		if err != nil {
			return nil, nil, err
		}
	}
	seq := lexer.Lex(string(bs))
	tree := veripp.NewFlowTree(seq)
	if err := tree.Build(); err != nil {
		return nil, nil, err
	}
	return tree, seq, nil
}
