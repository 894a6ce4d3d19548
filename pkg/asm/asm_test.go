package asm

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestHelperFunctions(t *testing.T) {
	operandTests := []struct {
		input string
		want  bool
	}{
		{"0", true},
		{"32767", true},
		{"32768", false},
		{"99999999999999999999", false},
		{"-1", true},
		{"SCREEN", true},
		{"1x", true},
		{"foo-bar", true},
	}
	for _, tc := range operandTests {
		if got := isValidOperand(tc.input); got != tc.want {
			t.Errorf("isValidOperand(%q) = %v; want %v", tc.input, got, tc.want)
		}
	}

	if got := formatWord(5); got != "0000000000000101" {
		t.Errorf("formatWord(5) = %q", got)
	}
}

func TestParseCInstruction(t *testing.T) {
	tests := []struct {
		text   string
		want   cInstruction
		wantOk bool
	}{
		{"D=A", cInstruction{dest: "D", comp: "A"}, true},
		{"0;JMP", cInstruction{comp: "0", jump: "JMP"}, true},
		{"AMD=M+1;JNE", cInstruction{dest: "AMD", comp: "M+1", jump: "JNE"}, true},
		{"D+1", cInstruction{comp: "D+1"}, true},
		{"D#A", cInstruction{comp: "D#A"}, true},
		{"=D", cInstruction{}, false},
		{"D;", cInstruction{}, false},
		{"D=", cInstruction{}, false},
		{"D=A=M", cInstruction{}, false},
		{"D;JMP;JMP", cInstruction{}, false},
		{"0;D=A", cInstruction{}, false},
		{"(LOOP", cInstruction{}, false},
		{"D=@1", cInstruction{}, false},
	}

	for _, tc := range tests {
		got, ok := parseCInstruction(tc.text)
		if ok != tc.wantOk {
			t.Errorf("parseCInstruction(%q) ok = %v, want %v", tc.text, ok, tc.wantOk)
			continue
		}
		if ok && !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseCInstruction(%q) = %+v, want %+v", tc.text, got, tc.want)
		}
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOk bool
	}{
		{"(LOOP)", "LOOP", true},
		{"(a.b$c)", "a.b$c", true},
		{"()", "", false},
		{"(LOOP", "", false},
		{"LOOP)", "", false},
		{"((X))", "", false},
		{"@LOOP", "", false},
	}

	for _, tc := range tests {
		got, ok := parseLabel(tc.text)
		if ok != tc.wantOk || got != tc.want {
			t.Errorf("parseLabel(%q) = %q, %v; want %q, %v", tc.text, got, ok, tc.want, tc.wantOk)
		}
	}
}

func TestEncodeComputeInstruction(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"D+1", "1110011111000000"},
		{"0;JMP", "1110101010000111"},
		{"D;JGT", "1110001100000001"},
		{"AMD=M-1", "1111110010111000"},
		{"MD=D|M;JLE", "1111010101011110"},
		{"A=!A", "1110110001100000"},
		{"D=D&A", "1110000000010000"},
		{"M=-1", "1110111010001000"},
	}

	st := NewSymbolTable()
	for _, tc := range tests {
		got, err := encodeLine(SourceLine{Text: tc.text, LineNo: 1}, st)
		if err != nil {
			t.Errorf("encodeLine(%q) error: %v", tc.text, err)
			continue
		}
		if got != tc.want {
			t.Errorf("encodeLine(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestCompCodesAreDistinct(t *testing.T) {
	if len(compTable) != 28 {
		t.Fatalf("compTable has %d entries, want 28", len(compTable))
	}
	seen := make(map[string]string)
	for mnemonic, code := range compTable {
		if len(code) != 7 {
			t.Errorf("comp %q code %q is not 7 bits", mnemonic, code)
		}
		if other, ok := seen[code]; ok {
			t.Errorf("comp %q and %q share code %s", mnemonic, other, code)
		}
		seen[code] = mnemonic
	}
}

func TestAssembleScenario(t *testing.T) {
	code := `
@2
D=A
@3
D=D+A
@0
M=D
`
	want := []string{
		"0000000000000010",
		"1110110000010000",
		"0000000000000011",
		"1110000010010000",
		"0000000000000000",
		"1110001100001000",
	}

	got, _, err := Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble() =\n%s\nwant\n%s", Format(got), Format(want))
	}
}

func TestAssembleLabels(t *testing.T) {
	code := `
// Forward and backward references
   @END        // 0
   0;JMP       // 1
(LOOP)
   @LOOP       // 2
   D;JGT       // 3
(END)
   @END        // 4
   0;JMP       // 5
`
	got, _, err := Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 words, got %d", len(got))
	}

	if got[0] != formatWord(4) {
		t.Errorf("forward @END = %s, want %s", got[0], formatWord(4))
	}
	if got[2] != formatWord(2) {
		t.Errorf("backward @LOOP = %s, want %s", got[2], formatWord(2))
	}
	if got[4] != formatWord(4) {
		t.Errorf("@END = %s, want %s", got[4], formatWord(4))
	}
}

func TestAssembleVariables(t *testing.T) {
	code := `
@i
M=1
@sum
M=0
@i
D=M
@UNKNOWNVAR
@sum
@UNKNOWNVAR
@R13
@SCREEN
`
	a := NewAssembler()
	got, _, err := a.Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := map[int]int{
		0:  16, // i
		2:  17, // sum
		4:  16, // i again
		6:  18, // UNKNOWNVAR
		7:  17, // sum again
		8:  18, // UNKNOWNVAR again
		9:  13,
		10: 16384,
	}
	for idx, addr := range want {
		if got[idx] != formatWord(addr) {
			t.Errorf("word %d = %s, want %s (%d)", idx, got[idx], formatWord(addr), addr)
		}
	}

	if addr, ok := a.Symbols().Lookup("UNKNOWNVAR"); !ok || addr != 18 {
		t.Errorf("Lookup(UNKNOWNVAR) = %d, %v; want 18, true", addr, ok)
	}
}

func TestAssembleLabelIsNotVariable(t *testing.T) {
	code := `
@x
(x2)
@x2
@y
`
	got, _, err := Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := []string{formatWord(16), formatWord(1), formatWord(17)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAssembleFreeFormSymbols(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"dash in variable", "@foo-bar", []string{"0000000000010000"}},
		{"leading digit variable", "@1abc\n@x\n@1abc", []string{formatWord(16), formatWord(17), formatWord(16)}},
		{"negative number is a variable", "@-1", []string{formatWord(16)}},
		{"dash in label", "(a-b)\n@a-b\n0;JMP", []string{formatWord(0), "1110101010000111"}},
		{"leading digit label", "@0\n(9lives)\n@9lives", []string{formatWord(0), formatWord(1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := Assemble(tc.code)
			if err != nil {
				t.Fatalf("Assemble failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAssemblerSymbolsBeforeRun(t *testing.T) {
	a := NewAssembler()
	if a.Symbols() != nil {
		t.Fatal("expected nil symbols before the first Assemble")
	}
	if _, _, err := a.Assemble("@x"); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if addr, ok := a.Symbols().Lookup("x"); !ok || addr != 16 {
		t.Errorf("Lookup(x) = %d, %v; want 16, true", addr, ok)
	}
}

func TestAssembleWordCount(t *testing.T) {
	code := `
// header comment

(START)
  @R0 // load
  D=M

(LOOP)
  @LOOP
  0;JMP
   // trailing
`
	got, _, err := Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("expected 4 words, got %d", len(got))
	}
}

func TestAssembleDeterministic(t *testing.T) {
	code := "@foo\nM=1\n(L)\n@bar\nD=M\n@L\n0;JMP\n@foo\n"

	a := NewAssembler()
	first, _, err := a.Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	second, _, err := a.Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	third, _, err := Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if Format(first) != Format(second) || Format(first) != Format(third) {
		t.Errorf("outputs differ:\n%s\n--\n%s\n--\n%s", Format(first), Format(second), Format(third))
	}
}

func TestAssembleErrors(t *testing.T) {
	t.Run("unknown comp", func(t *testing.T) {
		_, _, err := Assemble("@1\nD=D#A\n")
		var encErr *EncodingError
		if !errors.As(err, &encErr) {
			t.Fatalf("expected EncodingError, got %v", err)
		}
		if encErr.Line != 2 || encErr.Field != "comp" || encErr.Mnemonic != "D#A" || encErr.Text != "D=D#A" {
			t.Errorf("unexpected error fields: %+v", encErr)
		}
	})

	t.Run("unknown dest", func(t *testing.T) {
		_, _, err := Assemble("DM=1")
		var encErr *EncodingError
		if !errors.As(err, &encErr) || encErr.Field != "dest" || encErr.Mnemonic != "DM" {
			t.Fatalf("expected dest EncodingError, got %v", err)
		}
	})

	t.Run("unknown jump", func(t *testing.T) {
		_, _, err := Assemble("0;JUMP")
		var encErr *EncodingError
		if !errors.As(err, &encErr) || encErr.Field != "jump" || encErr.Mnemonic != "JUMP" {
			t.Fatalf("expected jump EncodingError, got %v", err)
		}
	})

	syntaxTests := []struct {
		name string
		code string
		line int
	}{
		{"empty operand", "@", 1},
		{"literal overflows", "D=A\n@99999999999999999999", 2},
		{"literal too large", "@40000", 1},
		{"missing dest", "=D", 1},
		{"unbalanced label", "\n\n(LOOP", 3},
		{"empty label", "()", 1},
	}
	for _, tc := range syntaxTests {
		t.Run(tc.name, func(t *testing.T) {
			words, _, err := Assemble(tc.code)
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
			if synErr.Line != tc.line {
				t.Errorf("line = %d, want %d", synErr.Line, tc.line)
			}
			if words != nil {
				t.Errorf("expected no words on error, got %v", words)
			}
		})
	}

	t.Run("duplicate label", func(t *testing.T) {
		_, _, err := Assemble("(A1)\n@A1\n(A1)\n0;JMP")
		var dupErr *DuplicateLabelError
		if !errors.As(err, &dupErr) {
			t.Fatalf("expected DuplicateLabelError, got %v", err)
		}
		if dupErr.Name != "A1" || dupErr.Line != 3 || dupErr.Text != "(A1)" {
			t.Errorf("unexpected error fields: %+v", dupErr)
		}
	})

	t.Run("label shadows predefined", func(t *testing.T) {
		_, _, err := Assemble("(SCREEN)\n0;JMP")
		var dupErr *DuplicateLabelError
		if !errors.As(err, &dupErr) {
			t.Fatalf("expected DuplicateLabelError, got %v", err)
		}
	})

	t.Run("first error wins", func(t *testing.T) {
		_, _, err := Assemble("D=D#A\n@")
		var encErr *EncodingError
		if !errors.As(err, &encErr) {
			t.Fatalf("expected EncodingError, got %v", err)
		}
	})

	t.Run("message", func(t *testing.T) {
		_, _, err := Assemble("@1\n  foo bar ( ")
		if err == nil || !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "foobar(") {
			t.Errorf("unexpected error message: %v", err)
		}
	})
}

func TestFormat(t *testing.T) {
	got := Format([]string{"0000000000000001", "1110101010000111"})
	if got != "0000000000000001\n1110101010000111" {
		t.Errorf("Format() = %q", got)
	}
	if Format(nil) != "" {
		t.Errorf("Format(nil) should be empty")
	}
}
