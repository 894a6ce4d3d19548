package asm

import (
	"fmt"
	"strconv"
)

var (
	compByCode = invert(compTable)
	destByCode = invert(destTable)
	jumpByCode = invert(jumpTable)
)

func invert(table map[string]string) map[string]string {
	out := make(map[string]string, len(table))
	for mnemonic, code := range table {
		out[code] = mnemonic
	}
	return out
}

// ParseWord decodes a 16-character binary machine word.
func ParseWord(s string) (uint16, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("machine word must be 16 bits, got %d: %q", len(s), s)
	}
	value, err := strconv.ParseUint(s, 2, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid machine word %q", s)
	}
	return uint16(value), nil
}

// Disassemble renders a machine word as Hack assembly. Bit patterns with no
// comp mnemonic render as ???.
func Disassemble(word uint16) string {
	if word&0x8000 == 0 {
		return fmt.Sprintf("@%d", word)
	}

	bits := formatWord(int(word))
	comp, ok := compByCode[bits[3:10]]
	if !ok {
		comp = "???"
	}
	dest := destByCode[bits[10:13]]
	jump := jumpByCode[bits[13:16]]

	text := comp
	if dest != "" {
		text = dest + "=" + text
	}
	if jump != "" {
		text += ";" + jump
	}
	return text
}
