package lossless

import (
	"errors"
	"testing"

	"github.com/tristanseifert/cr2decode/cr2errors"
	"github.com/tristanseifert/cr2decode/huffman"
)

func oneBitZeroTable(t *testing.T) *huffman.Table {
	t.Helper()
	tbl := huffman.New()
	if err := tbl.Insert(0b0, 1, 0); err != nil {
		t.Fatalf("building table: %v", err)
	}
	return tbl
}

func TestStartOfRowPredictionIsMidGrey(t *testing.T) {
	d, err := New(8, 4, 4, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Release()

	tbl := oneBitZeroTable(t)
	if err := d.SetTable(0, tbl); err != nil {
		t.Fatalf("SetTable: %v", err)
	}

	// 16 samples, each a 1-bit zero codeword with no extension bits: two
	// zero bytes supply exactly 16 bits.
	if err := d.Go([]byte{0x00, 0x00}); err != nil {
		t.Fatalf("Go: %v", err)
	}
	if !d.Done() {
		t.Fatal("decode did not complete")
	}

	for i, v := range d.Output() {
		if v != 128 {
			t.Errorf("sample %d = %d, want 128", i, v)
		}
	}
}

func TestPredictorResetsAtEveryRowStart(t *testing.T) {
	// 2x2, 8-bit, single component. Table: SSSS 0 -> code '0' (1 bit),
	// SSSS 1 -> code '10' (2 bits) plus one sign/magnitude extension bit.
	tbl := huffman.New()
	if err := tbl.Insert(0b0, 1, 0); err != nil {
		t.Fatalf("insert ssss0: %v", err)
	}
	if err := tbl.Insert(0b10, 2, 1); err != nil {
		t.Fatalf("insert ssss1: %v", err)
	}

	d, err := New(8, 2, 2, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Release()
	if err := d.SetTable(0, tbl); err != nil {
		t.Fatalf("SetTable: %v", err)
	}

	// Deltas in raster order: 0, +1, +1, -1.
	// Bits: '0' | '10' '1' | '10' '1' | '10' '0'  => 0101101100 + padding.
	if err := d.Go([]byte{0x5B, 0x00}); err != nil {
		t.Fatalf("Go: %v", err)
	}

	want := []uint16{128, 129, 129, 128}
	got := d.Output()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMarkerHaltsDecodeAndReportsOffset(t *testing.T) {
	d, err := New(8, 4, 1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Release()
	if err := d.SetTable(0, oneBitZeroTable(t)); err != nil {
		t.Fatalf("SetTable: %v", err)
	}

	err = d.Go([]byte{0xFF, 0xD9})
	if err == nil {
		t.Fatal("expected marker error")
	}
	var merr *cr2errors.MarkerError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *cr2errors.MarkerError, got %T (%v)", err, err)
	}
	if merr.Offset != 0 {
		t.Errorf("Offset = %d, want 0", merr.Offset)
	}
	if d.Done() {
		t.Fatal("Done() should be false after a marker halt")
	}
}

func TestTruncatedStreamIsReported(t *testing.T) {
	d, err := New(8, 4, 4, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Release()
	if err := d.SetTable(0, oneBitZeroTable(t)); err != nil {
		t.Fatalf("SetTable: %v", err)
	}

	// Only a single bit of data for 16 samples worth of codewords.
	if err := d.Go([]byte{0x00}); err == nil {
		t.Fatal("expected truncation error")
	} else if !errors.Is(err, cr2errors.ErrDecodeTruncated) {
		t.Fatalf("expected ErrDecodeTruncated, got %v", err)
	}
}

func TestPredictorModeOtherThanOneRejected(t *testing.T) {
	d, err := New(8, 2, 2, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Release()

	for mode := 2; mode <= 7; mode++ {
		if err := d.SetPredictor(mode); !errors.Is(err, cr2errors.ErrUnsupported) {
			t.Errorf("SetPredictor(%d) = %v, want ErrUnsupported", mode, err)
		}
	}
	if err := d.SetPredictor(1); err != nil {
		t.Errorf("SetPredictor(1) = %v, want nil", err)
	}
}
