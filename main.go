//go:build !js

package main

import (
	"flag"
	"fmt"
	"os"

	"hackasm/pkg/asm"
	"hackasm/pkg/cpu"
	"hackasm/pkg/utils"
)

const defaultOutput = "out.hack"

func main() {
	inPath := flag.String("in", "", "input assembly file path (or first positional argument)")
	outPath := flag.String("out", "", "output .hack file path (or second positional argument, default: out.hack)")
	runProgram := flag.Bool("run", false, "run the generated program on the Hack CPU emulator")
	runBinPath := flag.String("run-bin", "", "run an existing .hack file on the Hack CPU emulator")
	maxCycles := flag.Uint64("cycles", 10_000_000, "maximum number of instructions to execute when running")
	screenshot := flag.String("screenshot", "", "write the screen to this PNG file after running")
	snapshot := flag.String("snapshot", "", "write a machine snapshot archive after running")
	flag.Parse()

	if *inPath == "" && flag.NArg() > 0 {
		*inPath = flag.Arg(0)
	}
	if *outPath == "" && flag.NArg() > 1 {
		*outPath = flag.Arg(1)
	}

	if *runProgram && *runBinPath != "" {
		fmt.Fprintln(os.Stderr, "use either -run or -run-bin, not both")
		os.Exit(2)
	}

	var program []uint16
	if *inPath != "" {
		source, err := utils.ReadSource(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read input file %q: %v\n", *inPath, err)
			os.Exit(1)
		}

		words, _, err := asm.Assemble(source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "assembly failed: %v\n", err)
			os.Exit(1)
		}

		output := *outPath
		if output == "" {
			output = defaultOutput
		}

		if err := writeHack(output, words); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write output file %q: %v\n", output, err)
			os.Exit(1)
		}

		fmt.Printf("assembled %d words -> %s\n", len(words), output)

		if *runProgram {
			program, err = cpu.ParseHack(asm.Format(words))
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to decode assembled program: %v\n", err)
				os.Exit(1)
			}
		}
	}

	if *inPath == "" && *runBinPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: provide an input .asm file, or -run-bin <file> to run an existing .hack file")
		flag.Usage()
		os.Exit(2)
	}

	switch {
	case *runBinPath != "":
		text, err := utils.ReadSource(*runBinPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %q: %v\n", *runBinPath, err)
			os.Exit(1)
		}
		program, err = cpu.ParseHack(text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to decode %q: %v\n", *runBinPath, err)
			os.Exit(1)
		}
	case *runProgram:
		if *inPath == "" {
			fmt.Fprintln(os.Stderr, "-run requires an input file, or use -run-bin <file>")
			os.Exit(2)
		}
	default:
		return
	}

	vm, err := runProgramWords(program, *maxCycles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
	printState(vm)

	if *screenshot != "" {
		if err := vm.SaveScreenshot(*screenshot, 1); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write screenshot %q: %v\n", *screenshot, err)
			os.Exit(1)
		}
	}
	if *snapshot != "" {
		if err := vm.HibernateToFile(*snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write snapshot %q: %v\n", *snapshot, err)
			os.Exit(1)
		}
	}
}

// writeHack writes the words in .hack format. It is only called after a
// successful assembly, so a failed run never leaves an output file behind.
func writeHack(path string, words []string) error {
	return os.WriteFile(path, []byte(asm.Format(words)), 0o644)
}

func runProgramWords(program []uint16, maxCycles uint64) (*cpu.CPU, error) {
	vm := cpu.NewCPU()
	if err := vm.LoadWords(program); err != nil {
		return nil, err
	}
	vm.RunCycles(maxCycles)
	return vm, nil
}

func printState(vm *cpu.CPU) {
	status := "halted"
	if !vm.Halted {
		status = "cycle limit reached"
	}
	fmt.Printf(
		"run complete (%s after %d cycles): PC=%d A=%d D=%d R0=%d R1=%d R2=%d\n",
		status,
		vm.Cycles,
		vm.PC,
		vm.A,
		int16(vm.D),
		int16(vm.RAM[0]),
		int16(vm.RAM[1]),
		int16(vm.RAM[2]),
	)
}
