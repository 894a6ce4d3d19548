package asm

import (
	"errors"
	"strings"
)

// Assembler translates Hack assembly into machine words. Each call to
// Assemble starts from a fresh symbol table.
type Assembler struct {
	symbols *SymbolTable
}

// NewAssembler returns an Assembler whose Symbols are nil until the first
// call to Assemble.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble translates code with a new Assembler.
func Assemble(code string) ([]string, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

// Assemble returns one 16-character binary word per instruction and a map
// from instruction address to source line number. On error no words are
// returned.
func (a *Assembler) Assemble(code string) ([]string, map[uint16]int, error) {
	a.symbols = NewSymbolTable()

	lines := Normalize(strings.Split(code, "\n"))

	instructions, err := a.pass1(lines)
	if err != nil {
		return nil, nil, err
	}

	return a.pass2(instructions)
}

// Symbols returns the table built by the last call to Assemble.
func (a *Assembler) Symbols() *SymbolTable {
	return a.symbols
}

// pass1 binds labels to the address of the next instruction and returns
// the remaining lines.
func (a *Assembler) pass1(lines []SourceLine) ([]SourceLine, error) {
	instructions := make([]SourceLine, 0, len(lines))
	address := 0

	for _, line := range lines {
		name, ok := parseLabel(line.Text)
		if !ok {
			instructions = append(instructions, line)
			address++
			continue
		}

		if err := a.symbols.DefineLabel(name, address); err != nil {
			var dup *DuplicateLabelError
			if errors.As(err, &dup) {
				dup.Line = line.LineNo
				dup.Text = line.Text
			}
			return nil, err
		}
	}

	return instructions, nil
}

func (a *Assembler) pass2(lines []SourceLine) ([]string, map[uint16]int, error) {
	words := make([]string, 0, len(lines))
	sourceMap := make(map[uint16]int, len(lines))

	for _, line := range lines {
		word, err := encodeLine(line, a.symbols)
		if err != nil {
			return nil, nil, err
		}
		sourceMap[uint16(len(words))] = line.LineNo
		words = append(words, word)
	}

	return words, sourceMap, nil
}

// Format joins words into the .hack text format: one word per line, no
// trailing newline.
func Format(words []string) string {
	return strings.Join(words, "\n")
}
