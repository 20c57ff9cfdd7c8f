// Package colorspace converts a debayered 16-bit interleaved RGB
// raster, sampled in a camera's native color space, into linear
// ProPhoto RGB (D65-adapted) interleaved float32 samples.
package colorspace

import "github.com/tristanseifert/cr2decode/cr2errors"

// ProPhotoMatrix is the fixed D65-adapted ProPhoto RGB primaries
// matrix every camera matrix is normalized against.
var ProPhotoMatrix = [3][3]float64{
	{0.529317, 0.330092, 0.140588},
	{0.098368, 0.873465, 0.028169},
	{0.016879, 0.117663, 0.865457},
}

// fullScale is the full-scale divisor applied to 16-bit debayered
// samples before the matrix transform, matching the 14-bit sensor
// data CR2 carries.
const fullScale = 16384.0

// MakeConversionMatrix derives the camera-to-working matrix for a
// camera's camXYZ calibration matrix (camera RGB to CIE XYZ):
//
//  1. T = camXYZ * ProPhotoMatrix
//  2. each row of T is normalized to sum to 1
//  3. M = (TᵀT)⁻¹ · Tᵀ, the Moore-Penrose left pseudo-inverse of T, via
//     Gauss-Jordan elimination on the augmented matrix [TᵀT | I]
//
// For the square, invertible T this produces, M·T reduces to
// (TᵀT)⁻¹Tᵀ·T = I: M is T's exact inverse, not merely a least-squares
// fit, which is what lets a row-normalized T leave a uniform gray
// input unchanged.
func MakeConversionMatrix(camXYZ [3][3]float64) ([3][3]float64, error) {
	t := multiply3x3(camXYZ, ProPhotoMatrix)
	normalizeRows(&t)

	tt := transpose3x3(t)
	ttt := multiply3x3(tt, t)

	inv, err := invert3x3(ttt)
	if err != nil {
		return [3][3]float64{}, err
	}

	return multiply3x3(inv, tt), nil
}

func multiply3x3(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func transpose3x3(a [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = a[i][j]
		}
	}
	return out
}

func normalizeRows(m *[3][3]float64) {
	for i := 0; i < 3; i++ {
		sum := m[i][0] + m[i][1] + m[i][2]
		if sum == 0 {
			continue
		}
		m[i][0] /= sum
		m[i][1] /= sum
		m[i][2] /= sum
	}
}

// invert3x3 inverts a via Gauss-Jordan elimination with partial
// pivoting on the augmented [a | I] matrix.
func invert3x3(a [3][3]float64) ([3][3]float64, error) {
	var aug [3][6]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			aug[i][j] = a[i][j]
		}
		aug[i][3+i] = 1
	}

	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if abs(aug[row][col]) > abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if abs(aug[pivot][col]) < 1e-12 {
			return [3][3]float64{}, cr2errors.ErrMatrixSingular
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		pv := aug[col][col]
		for j := 0; j < 6; j++ {
			aug[col][j] /= pv
		}

		for row := 0; row < 3; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			for j := 0; j < 6; j++ {
				aug[row][j] -= factor * aug[col][j]
			}
		}
	}

	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = aug[i][3+j]
		}
	}
	return out, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Convert applies m to a width*height three-component 16-bit
// interleaved raster, returning a newly allocated three-component
// float32 interleaved raster of the same dimensions. Each input
// sample is divided by fullScale before the matrix multiply; there is
// no output clamping, matching the no-clamp edge policy described in
// SPEC_FULL.md -- callers may clip before display.
func Convert(in []uint16, width, height int, m [3][3]float64) ([]float32, error) {
	if width <= 0 || height <= 0 || len(in) < width*height*3 {
		return nil, cr2errors.ErrDimension
	}

	out := make([]float32, width*height*3)
	for i := 0; i < width*height; i++ {
		off := i * 3
		r := float64(in[off+0]) / fullScale
		g := float64(in[off+1]) / fullScale
		b := float64(in[off+2]) / fullScale

		out[off+0] = float32(m[0][0]*r + m[0][1]*g + m[0][2]*b)
		out[off+1] = float32(m[1][0]*r + m[1][1]*g + m[1][2]*b)
		out[off+2] = float32(m[2][0]*r + m[2][1]*g + m[2][2]*b)
	}
	return out, nil
}
