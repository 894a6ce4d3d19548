package main

import (
	"fmt"

	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"hackasm/pkg/asm"
)

var (
	symbolsPretty     bool
	symbolsPredefined bool
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols program.asm",
	Short: "Assemble a program and list its labels and variables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		if prog.assembler == nil {
			return errors.New("symbols need assembly source, not a .hack file")
		}

		var syms []asm.Symbol
		for _, s := range prog.assembler.Symbols().Symbols() {
			if s.Kind == asm.SymbolPredefined && !symbolsPredefined {
				continue
			}
			syms = append(syms, s)
		}

		out := cmd.OutOrStdout()
		if symbolsPretty {
			printer := pp.New()
			printer.SetOutput(out)
			printer.Println(syms)
			return nil
		}
		for _, s := range syms {
			fmt.Fprintf(out, "%-24s %6d  %s\n", s.Name, s.Address, s.Kind)
		}
		return nil
	},
}

func init() {
	symbolsCmd.Flags().BoolVar(&symbolsPretty, "pretty", false, "pretty-print the table structure")
	symbolsCmd.Flags().BoolVar(&symbolsPredefined, "all", false, "include predefined symbols")
	rootCmd.AddCommand(symbolsCmd)
}
