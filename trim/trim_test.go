package trim

import "testing"

func TestTrimCropsToActiveArea(t *testing.T) {
	// 6-wide, 5-row plane; active area rows [1,3], cols [2,4].
	const rowWidth, numRows = 6, 5
	plane := make([]uint16, rowWidth*numRows)
	for row := 0; row < numRows; row++ {
		for col := 0; col < rowWidth; col++ {
			plane[row*rowWidth+col] = uint16(row*100 + col)
		}
	}

	b := Borders{Top: 1, Right: 4, Bottom: 3, Left: 2}
	n, err := Trim(plane, rowWidth, b)
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}

	wantLen := (b.Right - b.Left + 1) * (b.Bottom - b.Top + 1)
	if n != wantLen {
		t.Fatalf("Trim returned %d, want %d", n, wantLen)
	}

	want := []uint16{
		102, 103, 104, // row 1, cols 2-4
		202, 203, 204, // row 2
		302, 303, 304, // row 3
	}
	for i, v := range want {
		if plane[i] != v {
			t.Errorf("plane[%d] = %d, want %d", i, plane[i], v)
		}
	}
}

func TestTrimRejectsBadBounds(t *testing.T) {
	plane := make([]uint16, 16)
	if _, err := Trim(plane, 4, Borders{Top: 0, Right: 10, Bottom: 3, Left: 0}); err == nil {
		t.Fatal("expected dimension error for right >= rowWidth")
	}
	if _, err := Trim(plane, 4, Borders{Top: 2, Right: 3, Bottom: 1, Left: 0}); err == nil {
		t.Fatal("expected dimension error for bottom < top")
	}
}
