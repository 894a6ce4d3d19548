package asm

import "fmt"

// SyntaxError reports a line that is neither a label, an A-instruction
// nor a C-instruction.
type SyntaxError struct {
	Line int
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Text)
}

// EncodingError reports a C-instruction whose comp, dest or jump field is
// not in its table.
type EncodingError struct {
	Line     int
	Text     string
	Field    string // "comp", "dest" or "jump"
	Mnemonic string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("unknown %s mnemonic '%s' on line %d: %s", e.Field, e.Mnemonic, e.Line, e.Text)
}

// DuplicateLabelError reports a label that is already in the symbol table,
// either from an earlier definition or as a predefined symbol.
type DuplicateLabelError struct {
	Line int
	Text string
	Name string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("duplicate label '%s' on line %d: %s", e.Name, e.Line, e.Text)
}
