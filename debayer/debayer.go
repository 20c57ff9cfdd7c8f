// Package debayer reconstructs a three-component RGB raster from a
// single-component Bayer-mosaic sensor plane: a black-subtract and
// white-balance pre-pass followed by bilinear or LMMSE interpolation
// of the two missing color components at every pixel.
package debayer

import "github.com/tristanseifert/cr2decode/cr2errors"

// Algorithm codes, matching the external interface described in
// SPEC_FULL.md: small integers so a host can select one without
// depending on this package's Go identifiers.
const (
	AlgoBilinear = 1
	AlgoLMMSE    = 2
)

// Minimum border, in pixels on every edge, each algorithm needs beyond
// the area it is asked to interpolate.
const (
	bilinearBorder = 2
	lmmseBorder    = 10
)

// Options configures a Debayer call: per-CFA-color white balance
// multipliers and black levels (indexed 0=R,1=G1,2=G2,3=B), the
// vertical phase shift from border.DetectVerticalShift, which
// algorithm to run, and LMMSE's optional median-filter pass count.
type Options struct {
	WhiteBalance [4]float64
	Black        [4]uint16
	VShift       int
	Algorithm    int
	MedianPasses int // LMMSE only; 0 disables it, matching the upstream default
}

// Validate reports whether o describes a runnable configuration.
func (o Options) Validate() error {
	if _, ok := funcs[o.Algorithm]; !ok {
		return cr2errors.ErrUnsupported
	}
	if o.MedianPasses < 0 {
		return cr2errors.ErrUnsupported
	}
	return nil
}

// colorAt returns the CFA color index (0=R,1=G1,2=G2,3=B) for a pixel
// at (row,col), phase-shifted by vShift on the row index.
func colorAt(row, col, vShift int) int {
	return (((row + vShift) & 1) << 1) | (col & 1)
}

// prePass applies black subtraction and white-balance scaling to every
// input pixel, writing the result into a 4-component scratch plane at
// the slot matching that pixel's native CFA color; the other three
// slots at that offset stay zero. This runs unconditionally before
// either interpolation algorithm.
func prePass(in []uint16, width, height int, o Options) []float64 {
	scratch := make([]float64, width*height*4)

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			color := colorAt(row, col, o.VShift)
			raw := int32(in[row*width+col]) - int32(o.Black[color])
			if raw < 0 {
				raw = 0
			}
			v := float64(raw) * o.WhiteBalance[color]

			off := (row*width+col)*4 + color
			scratch[off] = v
		}
	}

	return scratch
}

// Debayer runs the configured algorithm over in (width*height 16-bit
// CFA samples) and returns a width*height three-component (R,G,B)
// interleaved 16-bit raster.
func Debayer(in []uint16, width, height int, o Options) ([]uint16, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || len(in) < width*height {
		return nil, cr2errors.ErrDimension
	}

	var border int
	switch o.Algorithm {
	case AlgoBilinear:
		border = bilinearBorder
	case AlgoLMMSE:
		border = lmmseBorder
	}
	if width <= 2*border || height <= 2*border {
		return nil, cr2errors.ErrDimension
	}

	scratch := prePass(in, width, height, o)

	interp, ok := funcs[o.Algorithm]
	if !ok {
		return nil, cr2errors.ErrUnsupported
	}
	return interp(scratch, width, height, o.VShift, o.MedianPasses), nil
}

func clamp16(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v + 0.5)
}
