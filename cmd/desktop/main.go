package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"hackasm/pkg/asm"
	"hackasm/pkg/cpu"
	"hackasm/pkg/utils"
)

const statusHeight = 16

type Game struct {
	vm             *cpu.CPU
	screenImg      *ebiten.Image // reused 512×256 canvas
	cyclesPerFrame int
	scale          int
	heldChar       uint16
	message        string
}

// specialKeys maps non-printing keys to their Hack keyboard codes.
var specialKeys = map[ebiten.Key]uint16{
	ebiten.KeyEnter:     128,
	ebiten.KeyBackspace: 129,
	ebiten.KeyLeft:      130,
	ebiten.KeyUp:        131,
	ebiten.KeyRight:     132,
	ebiten.KeyDown:      133,
	ebiten.KeyHome:      134,
	ebiten.KeyEnd:       135,
	ebiten.KeyPageUp:    136,
	ebiten.KeyPageDown:  137,
	ebiten.KeyInsert:    138,
	ebiten.KeyDelete:    139,
	ebiten.KeyEscape:    140,
	ebiten.KeyF1:        141,
	ebiten.KeyF2:        142,
	ebiten.KeyF3:        143,
	ebiten.KeyF4:        144,
	ebiten.KeyF5:        145,
	ebiten.KeyF6:        146,
	ebiten.KeyF7:        147,
	ebiten.KeyF8:        148,
	ebiten.KeyF9:        149,
	ebiten.KeyF10:       150,
	ebiten.KeyF11:       151,
}

// keyToHack returns the Hack code of a special key.
func keyToHack(key ebiten.Key) (uint16, bool) {
	code, ok := specialKeys[key]
	return code, ok
}

// charToHack returns the Hack code of a typed character. Only printable
// ASCII has one.
func charToHack(r rune) (uint16, bool) {
	if r < 32 || r > 126 {
		return 0, false
	}
	return uint16(r), true
}

// currentKey works out the code the keyboard register should hold this
// frame: a held special key wins, then the last typed character while any
// key is still down.
func (g *Game) currentKey(pressed []ebiten.Key) uint16 {
	for _, r := range ebiten.AppendInputChars(nil) {
		if code, ok := charToHack(r); ok {
			g.heldChar = code
		}
	}
	if len(pressed) == 0 {
		g.heldChar = 0
		return 0
	}
	for _, k := range pressed {
		if code, ok := keyToHack(k); ok {
			return code
		}
	}
	return g.heldChar
}

func (g *Game) Update() error {
	pressed := inpututil.AppendPressedKeys(nil)
	g.vm.SetKey(g.currentKey(pressed))

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		name := fmt.Sprintf("hack-%s.png", time.Now().Format("20060102-150405"))
		if err := g.vm.SaveScreenshot(name, g.scale); err != nil {
			g.message = err.Error()
		} else {
			g.message = "saved " + name
		}
	}

	g.vm.RunCycles(uint64(g.cyclesPerFrame))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screenImg == nil {
		g.screenImg = ebiten.NewImage(cpu.ScreenWidth, cpu.ScreenHeight)
	}
	g.screenImg.WritePixels(g.vm.GetFramebufferRGBA())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.screenImg, op)

	ebitenutil.DebugPrintAt(screen, g.status(), 4, cpu.ScreenHeight*g.scale)
}

func (g *Game) status() string {
	state := "running"
	if g.vm.Halted {
		state = "halted"
	}
	s := fmt.Sprintf("%s  PC=%d A=%d D=%d KBD=%d cycles=%d",
		state, g.vm.PC, g.vm.A, int16(g.vm.D), g.vm.RAM[cpu.KBDAddr], g.vm.Cycles)
	if g.message != "" {
		s += "  " + g.message
	}
	return s
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cpu.ScreenWidth * g.scale, cpu.ScreenHeight*g.scale + statusHeight
}

func loadProgram(path string) ([]uint16, error) {
	text, err := utils.ReadSource(path)
	if err != nil {
		return nil, err
	}
	if utils.IsHackFile(path) {
		return cpu.ParseHack(text)
	}
	machine, _, err := asm.Assemble(text)
	if err != nil {
		return nil, err
	}
	return cpu.ParseHack(asm.Format(machine))
}

func main() {
	cyclesPerFrame := flag.Int("cycles-per-frame", 50000, "instructions executed per frame")
	scale := flag.Int("scale", 2, "window scale factor")
	restore := flag.String("restore", "", "resume from a snapshot archive")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [flags] program.asm|program.hack")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *scale < 1 {
		*scale = 1
	}

	program, err := loadProgram(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load program: %v", err)
	}

	vm := cpu.NewCPU()
	if err := vm.LoadWords(program); err != nil {
		log.Fatalf("Failed to load program: %v", err)
	}
	if *restore != "" {
		if err := vm.RestoreFromFile(*restore); err != nil {
			log.Fatalf("Failed to restore snapshot: %v", err)
		}
	}

	game := &Game{vm: vm, cyclesPerFrame: *cyclesPerFrame, scale: *scale}
	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Hack Computer")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
