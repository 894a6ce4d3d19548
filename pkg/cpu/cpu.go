package cpu

import (
	"strings"

	"github.com/pkg/errors"

	"hackasm/pkg/asm"
)

const (
	ROMSize = 32768
	RAMSize = 32768

	// ScreenBase is the first word of the 512x256 memory-mapped screen.
	ScreenBase   uint16 = 16384
	ScreenWords         = 8192
	ScreenWidth         = 512
	ScreenHeight        = 256
	WordsPerRow         = ScreenWidth / 16

	// KBDAddr holds the code of the key currently pressed, or 0.
	KBDAddr uint16 = 24576
)

// Destination bits of a C-instruction.
const (
	DestM uint16 = 0x1
	DestD uint16 = 0x2
	DestA uint16 = 0x4
)

// Jump conditions of a C-instruction.
const (
	JumpNone uint16 = iota
	JumpGT
	JumpEQ
	JumpGE
	JumpLT
	JumpNE
	JumpLE
	JumpAlways
)

// Some comp codes, including the a bit.
const (
	CompZero      uint16 = 0x2A // 0
	CompOne       uint16 = 0x3F // 1
	CompMinusOne  uint16 = 0x3A // -1
	CompD         uint16 = 0x0C // D
	CompA         uint16 = 0x30 // A
	CompM         uint16 = 0x70 // M
	CompDPlusOne  uint16 = 0x1F // D+1
	CompDPlusA    uint16 = 0x02 // D+A
	CompDPlusM    uint16 = 0x42 // D+M
	CompDMinusM   uint16 = 0x53 // D-M
	CompMMinusOne uint16 = 0x72 // M-1
)

// CPU is a Hack computer: 32K words of ROM, 32K words of RAM with the
// screen and keyboard mapped into it, and the A, D and PC registers.
type CPU struct {
	A  uint16
	D  uint16
	PC uint16

	ROM [ROMSize]uint16
	RAM [RAMSize]uint16

	// ProgramLen is the number of words loaded into ROM. Running past it halts.
	ProgramLen int

	Halted bool
	Cycles uint64
}

func NewCPU() *CPU {
	return &CPU{}
}

// EncodeInstruction builds a C-instruction from a 7-bit comp code (a bit
// included), dest bits and a jump condition.
func EncodeInstruction(comp, dest, jump uint16) uint16 {
	return 0xE000 | (comp&0x7F)<<6 | (dest&0x07)<<3 | jump&0x07
}

// LoadWords copies a program into ROM and resets the registers.
func (c *CPU) LoadWords(words []uint16) error {
	if len(words) > ROMSize {
		return errors.Errorf("program too large for ROM: %d words > %d words", len(words), ROMSize)
	}
	c.ROM = [ROMSize]uint16{}
	copy(c.ROM[:], words)
	c.ProgramLen = len(words)
	c.Reset()
	return nil
}

// LoadHack parses .hack text, one 16-character binary word per line, and
// loads it into ROM.
func (c *CPU) LoadHack(text string) error {
	words, err := ParseHack(text)
	if err != nil {
		return err
	}
	return c.LoadWords(words)
}

// ParseHack decodes .hack text. Blank lines are ignored.
func ParseHack(text string) ([]uint16, error) {
	var words []uint16
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w, err := asm.ParseWord(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
		words = append(words, w)
	}
	return words, nil
}

// Reset clears the registers and the halt flag. Memory is left alone.
func (c *CPU) Reset() {
	c.A = 0
	c.D = 0
	c.PC = 0
	c.Halted = false
	c.Cycles = 0
}

// SetKey stores the code of the key currently held down; 0 means none.
func (c *CPU) SetKey(code uint16) {
	c.RAM[KBDAddr] = code
}

// ReadMem returns RAM[addr]; addresses past the end of RAM read as 0.
func (c *CPU) ReadMem(addr uint16) uint16 {
	if int(addr) >= RAMSize {
		return 0
	}
	return c.RAM[addr]
}

// WriteMem stores val in RAM[addr]. The keyboard register and addresses
// past the end of RAM are not writable.
func (c *CPU) WriteMem(addr uint16, val uint16) {
	if int(addr) >= RAMSize || addr == KBDAddr {
		return
	}
	c.RAM[addr] = val
}

// ALU computes the Hack ALU function selected by the six control bits
// zx nx zy ny f no and reports whether the result is zero or negative.
func ALU(x, y uint16, control uint16) (out uint16, zr, ng bool) {
	if control&0x20 != 0 {
		x = 0
	}
	if control&0x10 != 0 {
		x = ^x
	}
	if control&0x08 != 0 {
		y = 0
	}
	if control&0x04 != 0 {
		y = ^y
	}
	if control&0x02 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if control&0x01 != 0 {
		out = ^out
	}
	return out, out == 0, out&0x8000 != 0
}

func shouldJump(jump uint16, zr, ng bool) bool {
	switch {
	case jump&0x4 != 0 && ng:
		return true
	case jump&0x2 != 0 && zr:
		return true
	case jump&0x1 != 0 && !zr && !ng:
		return true
	}
	return false
}

// Step executes one instruction. The CPU halts when the PC leaves the
// loaded program or the program enters the `(END) @END 0;JMP` idle loop.
func (c *CPU) Step() {
	if c.Halted {
		return
	}
	if int(c.PC) >= c.ProgramLen {
		c.Halted = true
		return
	}

	instr := c.ROM[c.PC]
	c.Cycles++

	if instr&0x8000 == 0 {
		c.A = instr
		c.PC++
		return
	}

	addr := c.A
	y := c.A
	if instr&0x1000 != 0 {
		y = c.ReadMem(addr)
	}

	out, zr, ng := ALU(c.D, y, (instr>>6)&0x3F)

	dest := (instr >> 3) & 0x07
	if dest&DestM != 0 {
		c.WriteMem(addr, out)
	}
	if dest&DestD != 0 {
		c.D = out
	}
	if dest&DestA != 0 {
		c.A = out
	}

	jump := instr & 0x07
	if !shouldJump(jump, zr, ng) {
		c.PC++
		return
	}

	if jump == JumpAlways && c.isIdleLoop(addr) {
		c.Halted = true
	}
	c.PC = addr
}

// isIdleLoop reports whether an unconditional jump from PC to target is
// the two-instruction loop @target; 0;JMP.
func (c *CPU) isIdleLoop(target uint16) bool {
	return c.PC > 0 && target == c.PC-1 && c.ROM[target] == target
}

// Run steps until the CPU halts.
func (c *CPU) Run() {
	for !c.Halted {
		c.Step()
	}
}

// RunCycles executes at most n instructions and returns how many ran.
func (c *CPU) RunCycles(n uint64) uint64 {
	start := c.Cycles
	for i := uint64(0); i < n && !c.Halted; i++ {
		c.Step()
	}
	return c.Cycles - start
}
