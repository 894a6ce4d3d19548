package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hackasm/pkg/asm"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm program.hack|program.asm",
	Short: "Print a program as address, machine word and mnemonic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for addr, w := range prog.words {
			fmt.Fprintf(out, "%5d  %016b  %s\n", addr, w, asm.Disassemble(w))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
