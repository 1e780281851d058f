package tilegrid

import "testing"

func TestXYToHilbert_Unique(t *testing.T) {
	for _, n := range []uint64{2, 4, 8} {
		seen := make(map[uint64]bool)
		for x := uint64(0); x < n; x++ {
			for y := uint64(0); y < n; y++ {
				d := xyToHilbert(x, y, n)
				if d >= n*n {
					t.Errorf("xyToHilbert(%d, %d, %d) = %d, out of range [0, %d)", x, y, n, d, n*n)
				}
				if seen[d] {
					t.Errorf("xyToHilbert(%d, %d, %d) = %d is duplicate", x, y, n, d)
				}
				seen[d] = true
			}
		}
	}
}

func TestSortTilesByHilbert_Neighbours(t *testing.T) {
	// A full 4x4 block ordered along the curve must step to an adjacent
	// tile every time.
	var tiles []Tile
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			tiles = append(tiles, Tile{Matrix: 2, Col: col, Row: row})
		}
	}
	SortTilesByHilbert(tiles)

	if tiles[0] != (Tile{Matrix: 2}) {
		t.Errorf("first tile = %v, want 2/0/0", tiles[0])
	}
	for i := 1; i < len(tiles); i++ {
		dc := tiles[i].Col - tiles[i-1].Col
		dr := tiles[i].Row - tiles[i-1].Row
		if dc*dc+dr*dr != 1 {
			t.Errorf("tiles %v -> %v are not neighbours", tiles[i-1], tiles[i])
		}
	}
}

func TestNextPow2(t *testing.T) {
	tests := []struct {
		in   int
		want uint64
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {375, 512}, {1024, 1024},
	}
	for _, tt := range tests {
		if got := nextPow2(tt.in); got != tt.want {
			t.Errorf("nextPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
