// Package border analyzes the masked sensor border CR2 carries around
// the active image area: detecting whether the visible CFA rows are
// shifted by one line, and estimating a per-color black level from the
// masked columns.
package border

// Borders is the four-element sensor border descriptor, clockwise from
// top, in inclusive pixel coordinates: (Top, Right, Bottom, Left).
type Borders struct {
	Top, Right, Bottom, Left int
}

// bayerColor returns the CFA color index for a line/column pair, zero
// origin within the active area: 0=R, 1=G1, 2=G2, 3=B for the fixed
// RG/GB layout.
func bayerColor(l, c int) int {
	return ((l & 1) << 1) | (c & 1)
}

// DetectVerticalShift compares the green-channel sums against the
// red/blue sums across the active area bounded by b: natural content
// has the two greens closer to each other than red is to blue, so a
// reversal implies the visible rows start one line later than the CFA
// tile boundary. Returns 0 (no shift) or 1 (shift by one row).
func DetectVerticalShift(plane []uint16, rowWidth int, b Borders) int {
	var sums [4]float64

	for line, l := b.Top, 0; line <= b.Bottom; line, l = line+1, l+1 {
		rowOff := line * rowWidth
		for col, c := b.Left, 0; col <= b.Right; col, c = col+1, c+1 {
			sums[bayerColor(l, c)] += float64(plane[rowOff+col])
		}
	}

	if abs(sums[0]-sums[3]) < abs(sums[1]-sums[2]) {
		return 1
	}
	return 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// BlackLevels estimates the per-CFA-color black level by averaging the
// masked columns to the left of the active area, skipping the first two
// columns to avoid edge noise. levels is indexed by the same 0..3 color
// scheme as DetectVerticalShift.
//
// As documented in spec, this accumulation does not factor in a
// vertical shift: the masked region is assumed to carry no real CFA
// information, so shifting it would only rotate which bucket noise
// lands in. This matches the original implementation's behavior,
// preserved here deliberately rather than "fixed".
func BlackLevels(plane []uint16, rowWidth, numRows, left int) [4]uint16 {
	var sums [4]uint64
	var counts [4]uint64

	for row := 0; row < numRows; row++ {
		rowOff := row * rowWidth
		for col := 2; col < left; col++ {
			color := bayerColor(row, col)
			sums[color] += uint64(plane[rowOff+col])
			counts[color]++
		}
	}

	var levels [4]uint16
	for c := 0; c < 4; c++ {
		if counts[c] > 0 {
			levels[c] = uint16(sums[c] / counts[c])
		}
	}
	return levels
}
