package cpu

import (
	"image"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"hackasm/pkg/grid"
)

// Pixel returns whether the screen pixel at (x, y) is black.
// Bit 0 of each screen word is its leftmost pixel.
func (c *CPU) Pixel(x, y int) bool {
	word := c.RAM[int(ScreenBase)+grid.GetIndex(x/16, y, WordsPerRow)]
	return word&(1<<(x%16)) != 0
}

// GetFramebufferRGBA decodes the screen memory map into a 512×256 RGBA8888
// byte slice (length 512*256*4). Set bits are black, clear bits white.
func (c *CPU) GetFramebufferRGBA() []byte {
	pixels := make([]byte, ScreenWidth*ScreenHeight*4)

	for wordIdx := 0; wordIdx < ScreenWords; wordIdx++ {
		word := c.RAM[int(ScreenBase)+wordIdx]
		col, row := grid.GetGridCoords(wordIdx, WordsPerRow)
		for bit := 0; bit < 16; bit++ {
			var v byte = 0xFF
			if word&(1<<bit) != 0 {
				v = 0x00
			}
			pixelIdx := grid.GetIndex(col*16+bit, row, ScreenWidth) * 4
			pixels[pixelIdx+0] = v
			pixels[pixelIdx+1] = v
			pixels[pixelIdx+2] = v
			pixels[pixelIdx+3] = 0xFF
		}
	}

	return pixels
}

// GetFramebufferImage returns the screen as an *image.RGBA.
func (c *CPU) GetFramebufferImage() *image.RGBA {
	return &image.RGBA{
		Pix:    c.GetFramebufferRGBA(),
		Stride: ScreenWidth * 4,
		Rect:   image.Rect(0, 0, ScreenWidth, ScreenHeight),
	}
}

// ScaledFramebuffer returns the screen enlarged by an integer factor with
// nearest-neighbour sampling. Factors below 2 return the plain framebuffer.
func (c *CPU) ScaledFramebuffer(scale int) *image.RGBA {
	src := c.GetFramebufferImage()
	if scale < 2 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, ScreenWidth*scale, ScreenHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveScreenshot encodes the screen as a PNG, scaled by scale, and writes it
// to filename.
func (c *CPU) SaveScreenshot(filename string, scale int) error {
	img := c.ScaledFramebuffer(scale)
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create screenshot")
	}
	defer f.Close()
	return errors.Wrap(png.Encode(f, img), "encode screenshot")
}
