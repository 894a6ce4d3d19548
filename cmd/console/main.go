package main

import (
	"os"

	"github.com/spf13/cobra"

	"hackasm/pkg/asm"
	"hackasm/pkg/cpu"
	"hackasm/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Headless tools for Hack programs",
	Long: `Console runs Hack programs without a window, disassembles .hack files
and lists the symbol table the assembler builds for a program.

Every command accepts either assembly source (.asm) or assembled machine
code (.hack); source is assembled in memory first.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadedProgram is a program ready for the emulator. sourceMap and
// assembler are nil when it was read from a .hack file.
type loadedProgram struct {
	words     []uint16
	sourceMap map[uint16]int
	assembler *asm.Assembler
}

func loadProgram(path string) (*loadedProgram, error) {
	text, err := utils.ReadSource(path)
	if err != nil {
		return nil, err
	}

	if utils.IsHackFile(path) {
		words, err := cpu.ParseHack(text)
		if err != nil {
			return nil, err
		}
		return &loadedProgram{words: words}, nil
	}

	a := asm.NewAssembler()
	machine, sourceMap, err := a.Assemble(text)
	if err != nil {
		return nil, err
	}
	words, err := cpu.ParseHack(asm.Format(machine))
	if err != nil {
		return nil, err
	}
	return &loadedProgram{words: words, sourceMap: sourceMap, assembler: a}, nil
}
