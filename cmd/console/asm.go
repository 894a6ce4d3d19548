package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"hackasm/pkg/asm"
	"hackasm/pkg/utils"
)

var asmOutput string

var asmCmd = &cobra.Command{
	Use:   "asm program.asm",
	Short: "Assemble a program next to its source",
	Long: `Asm assembles a program and writes the machine code beside the source,
replacing its extension with .hack, unless -o names another file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fullPath, _, err := utils.GetPathInfo(args[0])
		if err != nil {
			return err
		}
		if utils.IsHackFile(fullPath) {
			return errors.Errorf("%s is already machine code", args[0])
		}

		source, err := utils.ReadSource(fullPath)
		if err != nil {
			return err
		}
		words, _, err := asm.Assemble(source)
		if err != nil {
			return err
		}

		out := asmOutput
		if out == "" {
			out = utils.ReplaceExt(fullPath, ".hack")
		}
		if err := os.WriteFile(out, []byte(asm.Format(words)), 0o644); err != nil {
			return errors.Wrapf(err, "write %s", out)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "assembled %d words -> %s\n", len(words), out)
		return nil
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "output .hack file")
	rootCmd.AddCommand(asmCmd)
}
