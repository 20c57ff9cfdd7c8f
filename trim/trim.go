// Package trim crops a sensor plane to its active area, discarding the
// masked border once the border package has read what it needs from it.
package trim

import "github.com/tristanseifert/cr2decode/cr2errors"

// Borders mirrors border.Borders; duplicated here so this package does
// not need to import border just for a coordinate tuple.
type Borders struct {
	Top, Right, Bottom, Left int
}

// Trim crops plane (rowWidth samples per row) to the active area
// described by b, compacting rows forward in place. It returns the
// number of samples written, which is always
// (b.Right-b.Left+1) * (b.Bottom-b.Top+1).
//
// This is safe to do in place because the source row for any
// destination row is always at or after the destination's own offset:
// the copy is strictly forward with a non-increasing destination
// cursor relative to its source.
func Trim(plane []uint16, rowWidth int, b Borders) (int, error) {
	pixelsPerLine := b.Right - b.Left + 1
	if pixelsPerLine <= 0 || b.Bottom < b.Top {
		return 0, cr2errors.ErrDimension
	}
	if rowWidth <= 0 || b.Right >= rowWidth {
		return 0, cr2errors.ErrDimension
	}

	dst := 0
	for row := b.Top; row <= b.Bottom; row++ {
		srcStart := row*rowWidth + b.Left
		if srcStart+pixelsPerLine > len(plane) {
			return 0, cr2errors.ErrDimension
		}
		copy(plane[dst:dst+pixelsPerLine], plane[srcStart:srcStart+pixelsPerLine])
		dst += pixelsPerLine
	}

	return dst, nil
}
