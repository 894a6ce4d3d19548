package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"hackasm/pkg/asm"
)

// mustAssemble assembles Hack source into ROM words.
func mustAssemble(t testing.TB, code string) []uint16 {
	t.Helper()
	text, _, err := asm.Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	words, err := ParseHack(asm.Format(text))
	if err != nil {
		t.Fatalf("ParseHack failed: %v", err)
	}
	return words
}

// loadProgram returns a CPU with code assembled into ROM.
func loadProgram(t testing.TB, code string) *CPU {
	t.Helper()
	c := NewCPU()
	if err := c.LoadWords(mustAssemble(t, code)); err != nil {
		t.Fatalf("LoadWords failed: %v", err)
	}
	return c
}

// dumpState renders the registers for failure messages.
func dumpState(c *CPU) string {
	return spew.Sdump(struct {
		A, D, PC   uint16
		Halted     bool
		Cycles     uint64
		ProgramLen int
	}{c.A, c.D, c.PC, c.Halted, c.Cycles, c.ProgramLen})
}
