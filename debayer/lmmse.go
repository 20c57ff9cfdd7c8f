package debayer

import "math"

// lmmse reconstructs green using Zhang & Wu's linear minimum mean
// square error estimator: a directional color-difference estimate per
// axis, low-pass filtered with a 9-tap Gaussian-like kernel, then
// recombined with the unfiltered estimate by local signal/noise
// variance, and the two axes cross-weighted by each other's variance
// -- then reconstructs red and blue from color-difference planes built
// on top of the completed green plane, optionally smoothed by a 3x3
// median filter.
//
// Unlike the bilinear path, this algorithm reads (and mirrors) samples
// up to 10 pixels beyond the requested area; the caller is responsible
// for ensuring that margin exists, which debayer.Debayer enforces via
// lmmseBorder.
//
// The estimator works on samples normalized to [0,1] (divided by
// lmmseScale), which is the range its [0,1] and [-1,0] clamps assume;
// the result is scaled back to 16 bits on output.
func lmmse(scratch []float64, width, height, vShift, medianPasses int) []uint16 {
	const lmmseScale = 65535.0
	native := func(row, col int) float64 {
		row = mirror(row, height)
		col = mirror(col, width)
		c := colorAt(row, col, vShift)
		return scratch[(row*width+col)*4+c] / lmmseScale
	}

	g := greenPlane(native, width, height, vShift)

	rDiff := diffPlane(native, g, width, height, vShift, 0)
	bDiff := diffPlane(native, g, width, height, vShift, 3)

	rFull := fillDiff(rDiff, width, height, vShift, 0)
	bFull := fillDiff(bDiff, width, height, vShift, 3)

	for i := 0; i < medianPasses; i++ {
		rFull = median3x3(rFull, width, height)
		bFull = median3x3(bFull, width, height)
	}

	out := make([]uint16, width*height*3)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			gv := g[idx]
			off := idx * 3
			out[off+0] = clamp16((gv + rFull[idx]) * lmmseScale)
			out[off+1] = clamp16(gv * lmmseScale)
			out[off+2] = clamp16((gv + bFull[idx]) * lmmseScale)
		}
	}
	return out
}

func mirror(i, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2*n - 2
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// lowPassTaps holds the normalized 9-tap h(k)=exp(-k^2/8) low-pass
// kernel, k=0..4; the full symmetric kernel reuses taps[1:] on both
// sides of center.
var lowPassTaps = func() [5]float64 {
	var h [5]float64
	for k := 0; k < 5; k++ {
		h[k] = math.Exp(-float64(k*k) / 8)
	}
	sum := h[0] + 2*(h[1]+h[2]+h[3]+h[4])
	for k := range h {
		h[k] /= sum
	}
	return h
}()

// ulim clamps v to [lo,hi] in either order.
func ulim(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// colorDiffAtColorSite estimates the green-minus-native-color
// difference at a site native to R or B, along one axis (horizontal
// when dRow==0,dCol==1; vertical when dRow==1,dCol==0). The 5-tap
// estimate is clamped against its near (green) neighbors when the
// local diagonal-smoothed value suggests an edge, and to [0,1]
// otherwise.
func colorDiffAtColorSite(native func(int, int) float64, row, col, dRow, dCol int) float64 {
	center := native(row, col)
	near0 := native(row-dRow, col-dCol)
	near1 := native(row+dRow, col+dCol)
	far0 := native(row-2*dRow, col-2*dCol)
	far1 := native(row+2*dRow, col+2*dCol)

	diag := native(row-1, col-1) + native(row-1, col+1) + native(row+1, col-1) + native(row+1, col+1)
	v0 := 0.0625*diag + 0.25*center

	raw := -0.25*(far0+far1) + 0.5*(near0+center+near1)
	y := v0 + 0.5*raw

	if center > 1.75*y {
		raw = ulim(raw, near0, near1)
	} else {
		raw = ulim(raw, 0, 1)
	}
	return raw - center
}

// greenAtGreenSite estimates, at a native green site along one axis,
// the green-minus-color difference against the two axis-adjacent
// opposite-color samples: the negated 5-tap estimate is clamped to
// [-1,0] and the green sample added back. It returns a difference, the
// same quantity colorDiffAtColorSite returns at R/B sites, so both site
// kinds share one plane per axis.
func greenAtGreenSite(native func(int, int) float64, row, col, dRow, dCol int) float64 {
	center := native(row, col)
	near0 := native(row-dRow, col-dCol)
	near1 := native(row+dRow, col+dCol)
	far0 := native(row-2*dRow, col-2*dCol)
	far1 := native(row+2*dRow, col+2*dCol)

	raw := 0.25*(far0+far1) - 0.5*(near0+center+near1)
	raw = ulim(raw, -1, 0)
	return raw + center
}

// lowPass convolves plane with the 9-tap Gaussian-like kernel along
// one axis, mirroring out-of-bounds taps.
func lowPass(plane []float64, width, height, dRow, dCol int) []float64 {
	tap := func(row, col, k int) float64 {
		r := mirror(row+k*dRow, height)
		c := mirror(col+k*dCol, width)
		return plane[r*width+c]
	}

	out := make([]float64, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			sum := lowPassTaps[0] * tap(row, col, 0)
			for k := 1; k <= 4; k++ {
				sum += lowPassTaps[k] * (tap(row, col, -k) + tap(row, col, k))
			}
			out[row*width+col] = sum
		}
	}
	return out
}

// lmmseCombine computes the signal/noise-variance weighted estimate
// for one axis at (row,col): vx is the local variance of the
// low-pass-filtered plane (the signal), vn is the local variance of
// the raw-minus-filtered residual (the noise), and x is their
// variance-weighted blend of the raw and filtered center values. v is
// returned alongside x so the two axes can be cross-weighted by each
// other's v.
func lmmseCombine(raw, filtered []float64, width, height, row, col, dRow, dCol int) (x, v float64) {
	var taps, ftaps [9]float64
	for k := -4; k <= 4; k++ {
		r := mirror(row+k*dRow, height)
		c := mirror(col+k*dCol, width)
		idx := r*width + c
		taps[k+4] = raw[idx]
		ftaps[k+4] = filtered[idx]
	}

	var mu float64
	for _, t := range ftaps {
		mu += t
	}
	mu /= 9

	const eps = 1e-7
	vx := eps
	for _, t := range ftaps {
		d := t - mu
		vx += d * d
	}
	vn := eps
	for i := range taps {
		p := taps[i] - ftaps[i]
		vn += p * p
	}

	x = (taps[4]*vx + ftaps[4]*vn) / (vx + vn)
	v = vx * vn / (vx + vn)
	return x, v
}

// greenPlane fills in the missing green samples at every R/B site
// using Zhang & Wu's LMMSE estimator: a per-axis green-minus-color
// difference estimate at every site is low-pass filtered, then
// combined with the raw estimate by local signal/noise variance; the
// two axes' combined differences are finally cross-weighted by each
// other's variance before being added back to the native sample.
func greenPlane(native func(int, int) float64, width, height, vShift int) []float64 {
	diffH := make([]float64, width*height)
	diffV := make([]float64, width*height)

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			if colorAt(row, col, vShift) == 1 || colorAt(row, col, vShift) == 2 {
				diffH[idx] = greenAtGreenSite(native, row, col, 0, 1)
				diffV[idx] = greenAtGreenSite(native, row, col, 1, 0)
				continue
			}
			diffH[idx] = colorDiffAtColorSite(native, row, col, 0, 1)
			diffV[idx] = colorDiffAtColorSite(native, row, col, 1, 0)
		}
	}

	lpH := lowPass(diffH, width, height, 0, 1)
	lpV := lowPass(diffV, width, height, 1, 0)

	g := make([]float64, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			if colorAt(row, col, vShift) == 1 || colorAt(row, col, vShift) == 2 {
				g[idx] = native(row, col)
				continue
			}
			xh, vh := lmmseCombine(diffH, lpH, width, height, row, col, 0, 1)
			xv, vv := lmmseCombine(diffV, lpV, width, height, row, col, 1, 0)
			combined := (xh*vv + xv*vh) / (vh + vv + 1e-12)
			g[idx] = native(row, col) + combined
		}
	}
	return g
}

// diffPlane returns, at every site native to CFA color `color`, the
// signed difference between the raw sample and the already-estimated
// green value there; every other site is zero, mirroring the scratch
// layout fed to the bilinear path.
func diffPlane(native func(int, int) float64, g []float64, width, height, vShift, color int) []float64 {
	out := make([]float64, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if colorAt(row, col, vShift) != color {
				continue
			}
			idx := row*width + col
			out[idx] = native(row, col) - g[idx]
		}
	}
	return out
}

// fillDiff spreads a sparse color-difference plane (nonzero only at
// its native color's sites) across every pixel using the same
// diagonal/axial neighbor patterns as the bilinear interpolator,
// operating on differences instead of raw samples. Unlike green
// reconstruction, a color-difference site never has all four cardinal
// neighbors carrying the same opposite color, so green sites must use
// the row- or column-only axial average matching their G1/G2 parity,
// exactly as bilinear.go does for raw samples.
func fillDiff(diff []float64, width, height, vShift, color int) []float64 {
	at := func(row, col int) float64 { return diff[row*width+col] }

	diagonal := func(row, col int) float64 {
		var sum float64
		var n int
		if row > 0 && col > 0 {
			sum += at(row-1, col-1)
			n++
		}
		if row > 0 && col < width-1 {
			sum += at(row-1, col+1)
			n++
		}
		if row < height-1 && col > 0 {
			sum += at(row+1, col-1)
			n++
		}
		if row < height-1 && col < width-1 {
			sum += at(row+1, col+1)
			n++
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}
	axialRow := func(row, col int) float64 {
		var sum float64
		var n int
		if col > 0 {
			sum += at(row, col-1)
			n++
		}
		if col < width-1 {
			sum += at(row, col+1)
			n++
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}
	axialCol := func(row, col int) float64 {
		var sum float64
		var n int
		if row > 0 {
			sum += at(row-1, col)
			n++
		}
		if row < height-1 {
			sum += at(row+1, col)
			n++
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}

	out := make([]float64, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			switch colorAt(row, col, vShift) {
			case color:
				out[idx] = diff[idx]
			case 3 - color:
				out[idx] = diagonal(row, col)
			case 1: // G1: row neighbors are red, column neighbors are blue
				if color == 0 {
					out[idx] = axialRow(row, col)
				} else {
					out[idx] = axialCol(row, col)
				}
			case 2: // G2: row neighbors are blue, column neighbors are red
				if color == 0 {
					out[idx] = axialCol(row, col)
				} else {
					out[idx] = axialRow(row, col)
				}
			}
		}
	}
	return out
}

// median3x3 applies a single pass of a 3x3 median filter, clamping
// window taps to the nearest in-bounds row/column at the edges.
func median3x3(plane []float64, width, height int) []float64 {
	out := make([]float64, width*height)
	var window [9]float64

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			n := 0
			for dr := -1; dr <= 1; dr++ {
				r := row + dr
				if r < 0 {
					r = 0
				}
				if r >= height {
					r = height - 1
				}
				for dc := -1; dc <= 1; dc++ {
					c := col + dc
					if c < 0 {
						c = 0
					}
					if c >= width {
						c = width - 1
					}
					window[n] = plane[r*width+c]
					n++
				}
			}
			out[row*width+col] = median9(window)
		}
	}
	return out
}

func median9(w [9]float64) float64 {
	for i := 1; i < 9; i++ {
		v := w[i]
		j := i - 1
		for j >= 0 && w[j] > v {
			w[j+1] = w[j]
			j--
		}
		w[j+1] = v
	}
	return w[4]
}
