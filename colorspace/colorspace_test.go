package colorspace

import (
	"math"
	"testing"
)

var identity = [3][3]float64{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

func TestNormalizedRowsSumToOne(t *testing.T) {
	tMat := multiply3x3(identity, ProPhotoMatrix)
	normalizeRows(&tMat)

	for i := 0; i < 3; i++ {
		sum := tMat[i][0] + tMat[i][1] + tMat[i][2]
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestConversionMatrixInvertsNormalizedT(t *testing.T) {
	m, err := MakeConversionMatrix(identity)
	if err != nil {
		t.Fatalf("MakeConversionMatrix: %v", err)
	}

	tMat := multiply3x3(identity, ProPhotoMatrix)
	normalizeRows(&tMat)

	product := multiply3x3(m, tMat)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(product[i][j]-want) > 1e-6 {
				t.Errorf("M*T[%d][%d] = %v, want %v", i, j, product[i][j], want)
			}
		}
	}
}

func TestConvertUniformGrayIsFixedPointUnderRowNormalizedMatrix(t *testing.T) {
	m, err := MakeConversionMatrix(identity)
	if err != nil {
		t.Fatalf("MakeConversionMatrix: %v", err)
	}

	// Each row of the normalized T sums to 1, so (1,1,1) is a
	// fixed point of T and therefore of its inverse M too: a uniform
	// gray input must come out the same uniform gray.
	const width, height = 2, 2
	in := make([]uint16, width*height*3)
	for i := range in {
		in[i] = 8192 // 0.5 * fullScale
	}

	out, err := Convert(in, width, height, m)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	for i := 0; i < width*height; i++ {
		off := i * 3
		for c := 0; c < 3; c++ {
			if math.Abs(float64(out[off+c])-0.5) > 1e-5 {
				t.Errorf("pixel %d component %d = %v, want 0.5", i, c, out[off+c])
			}
		}
	}
}

func TestMakeConversionMatrixRejectsSingularInput(t *testing.T) {
	var zero [3][3]float64
	if _, err := MakeConversionMatrix(zero); err == nil {
		t.Fatal("expected ErrMatrixSingular for a zero camXYZ matrix")
	}
}

func TestConvertRejectsUndersizedBuffer(t *testing.T) {
	m, _ := MakeConversionMatrix(identity)
	if _, err := Convert(make([]uint16, 5), 2, 2, m); err == nil {
		t.Fatal("expected dimension error for undersized input buffer")
	}
}
