package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"hackasm/pkg/asm"
	"hackasm/pkg/cpu"
)

type runOptions struct {
	cycles     uint64
	trace      bool
	ram        []string
	key        uint16
	screenshot string
	scale      int
	snapshot   string
	restore    string
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run program.asm|program.hack",
	Short: "Run a program on the Hack CPU emulator",
	Long: `Run loads a program into ROM and executes it until it halts or the
cycle limit is reached. A program halts when it runs past its last
instruction or enters the usual @END / 0;JMP idle loop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProgram(cmd.OutOrStdout(), args[0], runOpts)
	},
}

func init() {
	runCmd.Flags().Uint64Var(&runOpts.cycles, "cycles", 10_000_000, "maximum number of instructions to execute")
	runCmd.Flags().BoolVar(&runOpts.trace, "trace", false, "print every executed instruction")
	runCmd.Flags().StringSliceVar(&runOpts.ram, "ram", nil, "preset RAM before running, as addr=value (repeatable)")
	runCmd.Flags().Uint16Var(&runOpts.key, "key", 0, "key code held down for the whole run")
	runCmd.Flags().StringVar(&runOpts.screenshot, "screenshot", "", "write the screen to this PNG file after running")
	runCmd.Flags().IntVar(&runOpts.scale, "scale", 1, "screenshot scale factor")
	runCmd.Flags().StringVar(&runOpts.snapshot, "snapshot", "", "write a machine snapshot archive after running")
	runCmd.Flags().StringVar(&runOpts.restore, "restore", "", "resume from a snapshot archive instead of starting fresh")
	rootCmd.AddCommand(runCmd)
}

func runProgram(out io.Writer, path string, opts runOptions) error {
	prog, err := loadProgram(path)
	if err != nil {
		return err
	}

	vm := cpu.NewCPU()
	if err := vm.LoadWords(prog.words); err != nil {
		return err
	}
	if opts.restore != "" {
		if err := vm.RestoreFromFile(opts.restore); err != nil {
			return err
		}
	}

	for _, assignment := range opts.ram {
		addr, value, err := parseAssignment(assignment)
		if err != nil {
			return err
		}
		vm.WriteMem(addr, value)
	}
	if opts.key != 0 {
		vm.SetKey(opts.key)
	}

	if opts.trace {
		traceRun(out, vm, prog.sourceMap, opts.cycles)
	} else {
		vm.RunCycles(opts.cycles)
	}

	status := "halted"
	if !vm.Halted {
		status = "cycle limit reached"
	}
	fmt.Fprintf(out, "run complete (%s after %d cycles): PC=%d A=%d D=%d\n", status, vm.Cycles, vm.PC, vm.A, int16(vm.D))
	for i := 0; i < 16; i++ {
		if vm.RAM[i] != 0 {
			fmt.Fprintf(out, "  R%-2d = %d\n", i, int16(vm.RAM[i]))
		}
	}

	if opts.screenshot != "" {
		if err := vm.SaveScreenshot(opts.screenshot, opts.scale); err != nil {
			return err
		}
	}
	if opts.snapshot != "" {
		if err := vm.HibernateToFile(opts.snapshot); err != nil {
			return err
		}
	}
	return nil
}

// traceRun steps the CPU one instruction at a time, printing the address,
// the instruction and its source line when known.
func traceRun(out io.Writer, vm *cpu.CPU, sourceMap map[uint16]int, limit uint64) {
	for i := uint64(0); i < limit && !vm.Halted; i++ {
		pc := vm.PC
		if int(pc) >= vm.ProgramLen {
			vm.Step()
			break
		}
		text := asm.Disassemble(vm.ROM[pc])
		if line, ok := sourceMap[pc]; ok {
			fmt.Fprintf(out, "%5d  %-16s line %d\n", pc, text, line)
		} else {
			fmt.Fprintf(out, "%5d  %s\n", pc, text)
		}
		vm.Step()
	}
}

// parseAssignment parses addr=value, where addr may be a number or one of
// the predefined symbols such as R1 or SCREEN.
func parseAssignment(s string) (uint16, uint16, error) {
	name, rawValue, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, errors.Errorf("invalid RAM assignment %q, want addr=value", s)
	}

	addr, ok := asm.NewSymbolTable().Lookup(name)
	if !ok {
		n, err := strconv.ParseUint(name, 0, 16)
		if err != nil {
			return 0, 0, errors.Errorf("invalid RAM address %q", name)
		}
		addr = int(n)
	}

	value, err := strconv.ParseInt(rawValue, 0, 32)
	if err != nil || value < -32768 || value > 65535 {
		return 0, 0, errors.Errorf("invalid RAM value %q", rawValue)
	}
	return uint16(addr), uint16(value), nil
}
