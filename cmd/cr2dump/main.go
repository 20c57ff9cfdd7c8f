// Command cr2dump drives the decode pipeline over a synthesized
// Bayer-mosaic plane and writes a PNG preview plus a formatted summary
// of the run. It exists to exercise the library end to end, not as a
// real CR2 file reader -- production callers supply their own raw
// entropy bytes and metadata parsed from the TIFF/IFD container.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/google/uuid"

	cr2 "github.com/tristanseifert/cr2decode"
	"github.com/tristanseifert/cr2decode/border"
	"github.com/tristanseifert/cr2decode/debayer"
	"github.com/tristanseifert/cr2decode/huffman"
)

func main() {
	size := flag.Int("size", 64, "edge length, in pixels, of the synthesized square test plane")
	out := flag.String("out", "cr2dump.png", "path to write the PNG preview to")
	algo := flag.String("algo", "bilinear", "debayer algorithm: bilinear or lmmse")
	flag.Parse()

	runID := uuid.New()

	algorithm := debayer.AlgoBilinear
	if *algo == "lmmse" {
		algorithm = debayer.AlgoLMMSE
	}

	raw, opts := synthesize(*size, algorithm)

	img, err := cr2.Decode(raw, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cr2dump: run %s: decode failed: %v\n", runID, err)
		os.Exit(1)
	}

	if err := writePNG(*out, img); err != nil {
		fmt.Fprintf(os.Stderr, "cr2dump: run %s: writing preview: %v\n", runID, err)
		os.Exit(1)
	}

	p := message.NewPrinter(language.English)
	p.Printf("run %s: decoded %d x %d (%d samples) with %s, wrote %s\n",
		runID, img.Width, img.Height, img.Width*img.Height*3, debayer.Name(algorithm), *out)
}

// synthesize builds a flat-grey Bayer plane (every sample equal to
// mid-grey at 8-bit precision) and the matching DecodeOptions: a
// single Huffman code maps every sample to SSSS category 0, so the
// entropy stream is simply zero bits, one per sample.
func synthesize(size, algorithm int) ([]byte, cr2.DecodeOptions) {
	tbl := huffman.New()
	_ = tbl.Insert(0b0, 1, 0)

	totalBits := size * size
	raw := make([]byte, (totalBits+7)/8)

	opts := cr2.NewDecodeOptions().
		WithGeometry(8, size, size, 1).
		WithSlice(0, size).
		WithTables([4]*huffman.Table{tbl, nil, nil, nil}, [4]int{0, 0, 0, 0}).
		WithBorders(border.Borders{Top: 0, Right: size - 1, Bottom: size - 1, Left: 0}).
		WithAlgorithm(algorithm).
		WithCameraMatrix([3][3]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		})

	return raw, opts
}

func writePNG(path string, img *cr2.Image) error {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for row := 0; row < img.Height; row++ {
		for col := 0; col < img.Width; col++ {
			off := (row*img.Width + col) * 3
			out.Set(col, row, color.NRGBA{
				R: to8(img.Pix[off+0]),
				G: to8(img.Pix[off+1]),
				B: to8(img.Pix[off+2]),
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, out)
}

// to8 maps a linear ProPhoto sample (full scale ~1.0) to an 8-bit
// preview value, clamping at both ends; this is a display convenience
// only, not part of the decode pipeline's own edge policy.
func to8(v float32) uint8 {
	scaled := v * 255
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
