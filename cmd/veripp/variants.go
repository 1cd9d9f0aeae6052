package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veripp/veripp"
)

func newVariantsCmd() *cobra.Command {
	var countOnly bool
	var max int
	cmd := &cobra.Command{
		Use:   "variants [file]",
		Short: "Print every preprocessing variant of a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := buildTree(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			count := 0
			err = tree.GenerateVariants(func(seq []veripp.Token, variant int, event veripp.Event) bool {
				if event != veripp.Completed {
					return max <= 0 || count < max
				}
				count++
				if !countOnly {
					fmt.Fprintf(out, "// ---- variant %d ----\n", variant)
					text := veripp.Format(seq)
					fmt.Fprint(out, text)
					if text != "" && !strings.HasSuffix(text, "\n") {
						fmt.Fprintln(out)
					}
				}
				return true
			})
			if err != nil {
				return err
			}
			slog.Info("enumeration finished", "variants", count)
			if countOnly {
				fmt.Fprintln(out, count)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&countOnly, "count", "n", false, "print only the number of variants")
	cmd.Flags().IntVar(&max, "max", 0, "stop after this many variants (0 = all)")
	return cmd
}

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Dump the token flow graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, seq, err := buildTree(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if macros := tree.Macros(); len(macros) > 0 {
				fmt.Fprintf(out, "// macros: %s\n", strings.Join(macros, ", "))
			}
			for pos, tok := range seq {
				fmt.Fprintf(out, "%4d %-12s %-16q -> %v\n",
					pos, tok.Kind, tok.Text, tree.Successors(pos))
			}
			return nil
		},
	}
	return cmd
}
