package asm

import (
	"fmt"
	"strings"
)

// MaxLiteral is the largest constant an A-instruction can load; bit 15
// marks a C-instruction.
const MaxLiteral = 0x7FFF

const cInstructionPrefix = "111"

var compTable = map[string]string{
	"0":  "0101010",
	"1":  "0111111",
	"-1": "0111010",

	"D": "0001100",
	"A": "0110000",
	"M": "1110000",

	"!D": "0001101",
	"!A": "0110001",
	"!M": "1110001",

	"-D": "0001111",
	"-A": "0110011",
	"-M": "1110011",

	"D+1": "0011111",
	"A+1": "0110111",
	"M+1": "1110111",

	"D-1": "0001110",
	"A-1": "0110010",
	"M-1": "1110010",

	"D+A": "0000010",
	"D+M": "1000010",

	"D-A": "0010011",
	"D-M": "1010011",

	"A-D": "0000111",
	"M-D": "1000111",

	"D&A": "0000000",
	"D&M": "1000000",

	"D|A": "0010101",
	"D|M": "1010101",
}

var destTable = map[string]string{
	"":    "000",
	"M":   "001",
	"D":   "010",
	"MD":  "011",
	"A":   "100",
	"AM":  "101",
	"AD":  "110",
	"AMD": "111",
}

var jumpTable = map[string]string{
	"":    "000",
	"JGT": "001",
	"JEQ": "010",
	"JGE": "011",
	"JLT": "100",
	"JNE": "101",
	"JLE": "110",
	"JMP": "111",
}

// cInstruction holds the three fields of dest=comp;jump.
type cInstruction struct {
	dest string
	comp string
	jump string
}

// encodeLine encodes one cleaned, non-label line.
func encodeLine(line SourceLine, st *SymbolTable) (string, error) {
	if operand, ok := parseAInstruction(line.Text); ok {
		if !isValidOperand(operand) {
			return "", &SyntaxError{Line: line.LineNo, Text: line.Text}
		}
		return formatWord(st.Resolve(operand)), nil
	}

	c, ok := parseCInstruction(line.Text)
	if !ok {
		return "", &SyntaxError{Line: line.LineNo, Text: line.Text}
	}

	comp, ok := compTable[c.comp]
	if !ok {
		return "", &EncodingError{Line: line.LineNo, Text: line.Text, Field: "comp", Mnemonic: c.comp}
	}
	dest, ok := destTable[c.dest]
	if !ok {
		return "", &EncodingError{Line: line.LineNo, Text: line.Text, Field: "dest", Mnemonic: c.dest}
	}
	jump, ok := jumpTable[c.jump]
	if !ok {
		return "", &EncodingError{Line: line.LineNo, Text: line.Text, Field: "jump", Mnemonic: c.jump}
	}

	return cInstructionPrefix + comp + dest + jump, nil
}

// parseLabel reports whether text is (name) with a non-empty name.
func parseLabel(text string) (string, bool) {
	if len(text) < 3 || text[0] != '(' || text[len(text)-1] != ')' {
		return "", false
	}
	name := text[1 : len(text)-1]
	if strings.ContainsAny(name, "()") {
		return "", false
	}
	return name, true
}

// parseAInstruction reports whether text is @ followed by a non-empty operand.
func parseAInstruction(text string) (string, bool) {
	if len(text) < 2 || text[0] != '@' {
		return "", false
	}
	return text[1:], true
}

// parseCInstruction splits text into dest, comp and jump. It only checks
// structure; the fields are validated against the tables by the caller.
func parseCInstruction(text string) (cInstruction, bool) {
	if strings.ContainsAny(text, "@()") {
		return cInstruction{}, false
	}

	var c cInstruction
	rest := text

	if eq := strings.IndexByte(rest, '='); eq >= 0 {
		c.dest = rest[:eq]
		rest = rest[eq+1:]
		if c.dest == "" || strings.ContainsRune(c.dest, ';') {
			return cInstruction{}, false
		}
	}

	if semi := strings.IndexByte(rest, ';'); semi >= 0 {
		c.jump = rest[semi+1:]
		rest = rest[:semi]
		if c.jump == "" {
			return cInstruction{}, false
		}
	}

	c.comp = rest
	if c.comp == "" || strings.ContainsAny(c.comp, "=;") || strings.ContainsAny(c.jump, "=;") {
		return cInstruction{}, false
	}
	return c, true
}

// isValidOperand rejects decimal literals that do not fit in 15 bits.
// Any other operand names a symbol.
func isValidOperand(operand string) bool {
	if !isDecimal(operand) {
		return true
	}
	value, ok := parseLiteral(operand)
	return ok && value <= MaxLiteral
}

func formatWord(value int) string {
	return fmt.Sprintf("%016b", uint16(value))
}
