package unslice

import (
	"errors"
	"testing"

	"github.com/tristanseifert/cr2decode/cr2errors"
)

func TestUnsliceTwoSlices(t *testing.T) {
	// components=2, samplesPerLine=6, lines=2, descriptor [1,4] => sliceWidth=2.
	in := make([]uint16, 24)
	for i := range in {
		in[i] = uint16(i)
	}

	out, err := Unslice(in, Descriptor{N: 1, Width: 4}, 6, 2, 2)
	if err != nil {
		t.Fatalf("Unslice: %v", err)
	}

	// Row 0: slice0 occupies cols[0,2) -> values 0..3 (values 4..7 are
	// slice0's row 1), slice1 occupies cols[2,6) -> values 8..15, since
	// the slice-major copy order finishes both rows of slice0 before
	// starting slice1.
	wantRow0 := []uint16{0, 1, 2, 3, 8, 9, 10, 11, 12, 13, 14, 15}
	for i, want := range wantRow0 {
		if out[i] != want {
			t.Errorf("row0[%d] = %d, want %d", i, out[i], want)
		}
	}
}

func TestUnsliceTruncated(t *testing.T) {
	in := make([]uint16, 4)
	_, err := Unslice(in, Descriptor{N: 1, Width: 4}, 6, 2, 2)
	if !errors.Is(err, cr2errors.ErrDecodeTruncated) {
		t.Fatalf("expected ErrDecodeTruncated, got %v", err)
	}
}

func TestUnsliceRowMajorNoOverlap(t *testing.T) {
	in := make([]uint16, 2*4*1)
	for i := range in {
		in[i] = uint16(i + 1) // all nonzero, to detect untouched slots
	}
	out, err := Unslice(in, Descriptor{N: 0, Width: 4}, 4, 2, 1)
	if err != nil {
		t.Fatalf("Unslice: %v", err)
	}
	for i, v := range out {
		if v == 0 {
			t.Errorf("output slot %d untouched", i)
		}
	}
}
