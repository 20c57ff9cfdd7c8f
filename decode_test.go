package cr2

import (
	"math"
	"testing"

	"github.com/tristanseifert/cr2decode/border"
	"github.com/tristanseifert/cr2decode/debayer"
	"github.com/tristanseifert/cr2decode/huffman"
)

// oneBitZeroTable builds a Huffman table where the single code "0"
// (1 bit) maps to SSSS category 0, so every sample decodes to delta 0
// regardless of the remainder of the bitstream.
func oneBitZeroTable(t *testing.T) *huffman.Table {
	t.Helper()
	tbl := huffman.New()
	if err := tbl.Insert(0b0, 1, 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return tbl
}

func TestDecodeConstantPlaneRoundTrips(t *testing.T) {
	tbl := oneBitZeroTable(t)

	const size = 8
	raw := make([]byte, size*size/8) // all-zero bits: every SSSS is 0

	o := NewDecodeOptions().
		WithGeometry(8, size, size, 1).
		WithSlice(0, size).
		WithTables([4]*huffman.Table{tbl, nil, nil, nil}, [4]int{0, 0, 0, 0}).
		WithBorders(border.Borders{Top: 0, Right: size - 1, Bottom: size - 1, Left: 0}).
		WithAlgorithm(debayer.AlgoBilinear).
		WithCameraMatrix([3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})

	img, err := Decode(raw, o)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if img.Width != size || img.Height != size {
		t.Fatalf("image is %dx%d, want %dx%d", img.Width, img.Height, size, size)
	}

	// Mid-grey (128 at 8-bit precision) through WB=1, black=0, bilinear
	// debayer, and an identity-camXYZ matrix must reproduce itself as a
	// uniform float value at every pixel and channel (the same
	// row-normalized-T fixed-point argument as colorspace's own test).
	want := 128.0 / 16384.0
	for i, v := range img.Pix {
		if math.Abs(float64(v)-want) > 1e-4 {
			t.Fatalf("Pix[%d] = %v, want ~%v", i, v, want)
		}
	}
}

func TestDecodeOptionsValidateRejectsMissingTable(t *testing.T) {
	o := NewDecodeOptions().WithGeometry(8, 8, 8, 1).
		WithBorders(border.Borders{Top: 0, Right: 7, Bottom: 7, Left: 0})
	if err := o.Validate(); err == nil {
		t.Fatal("expected error when no table is assigned to component 0")
	}
}

func TestDecodeOptionsValidateRejectsBadPredictor(t *testing.T) {
	tbl := oneBitZeroTable(t)
	o := NewDecodeOptions().
		WithGeometry(8, 8, 8, 1).
		WithTables([4]*huffman.Table{tbl, nil, nil, nil}, [4]int{0, 0, 0, 0}).
		WithBorders(border.Borders{Top: 0, Right: 7, Bottom: 7, Left: 0}).
		WithPredictor(2)
	if err := o.Validate(); err == nil {
		t.Fatal("expected error for unsupported predictor mode")
	}
}
