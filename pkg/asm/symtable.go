package asm

import (
	"sort"
	"strconv"
)

// FirstVariableAddress is the RAM address given to the first variable.
const FirstVariableAddress = 16

// SymbolKind tells where a symbol table entry came from.
type SymbolKind int

const (
	SymbolPredefined SymbolKind = iota
	SymbolLabel
	SymbolVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolPredefined:
		return "predefined"
	case SymbolLabel:
		return "label"
	case SymbolVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Symbol is one symbol table entry.
type Symbol struct {
	Name    string
	Address int
	Kind    SymbolKind
}

// predefinedSymbols is copied into every new table and never modified.
var predefinedSymbols = map[string]int{
	"R0":     0,
	"R1":     1,
	"R2":     2,
	"R3":     3,
	"R4":     4,
	"R5":     5,
	"R6":     6,
	"R7":     7,
	"R8":     8,
	"R9":     9,
	"R10":    10,
	"R11":    11,
	"R12":    12,
	"R13":    13,
	"R14":    14,
	"R15":    15,
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"SCREEN": 16384,
	"KBD":    24576,
}

// SymbolTable maps symbol names to addresses for a single assembly run.
// Names are case-sensitive and entries are never removed.
type SymbolTable struct {
	addrs   map[string]int
	kinds   map[string]SymbolKind
	nextVar int
}

// NewSymbolTable returns a table seeded with the predefined Hack symbols.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{
		addrs:   make(map[string]int, len(predefinedSymbols)),
		kinds:   make(map[string]SymbolKind, len(predefinedSymbols)),
		nextVar: FirstVariableAddress,
	}
	for name, addr := range predefinedSymbols {
		st.addrs[name] = addr
		st.kinds[name] = SymbolPredefined
	}
	return st
}

// DefineLabel binds name to an instruction address. Names already in the
// table, labels or predefined symbols alike, are rejected.
func (st *SymbolTable) DefineLabel(name string, address int) error {
	if _, exists := st.addrs[name]; exists {
		return &DuplicateLabelError{Name: name}
	}
	st.addrs[name] = address
	st.kinds[name] = SymbolLabel
	return nil
}

// Resolve returns the value of a decimal literal, or the address of a
// known symbol. An unknown symbol becomes a variable at the next free RAM
// address, so later calls with the same name return the same address.
func (st *SymbolTable) Resolve(token string) int {
	if value, ok := parseLiteral(token); ok {
		return value
	}
	if addr, ok := st.addrs[token]; ok {
		return addr
	}
	addr := st.nextVar
	st.nextVar++
	st.addrs[token] = addr
	st.kinds[token] = SymbolVariable
	return addr
}

// Lookup returns the address bound to name without defining anything.
func (st *SymbolTable) Lookup(name string) (int, bool) {
	addr, ok := st.addrs[name]
	return addr, ok
}

// Symbols returns every entry ordered by address, then by name.
func (st *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(st.addrs))
	for name, addr := range st.addrs {
		out = append(out, Symbol{Name: name, Address: addr, Kind: st.kinds[name]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Address != out[j].Address {
			return out[i].Address < out[j].Address
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func parseLiteral(token string) (int, bool) {
	if !isDecimal(token) {
		return 0, false
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return value, true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
