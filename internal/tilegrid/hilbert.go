package tilegrid

import "sort"

// xyToHilbert converts (x, y) to a Hilbert curve index for an n x n grid.
// n must be a power of two.
func xyToHilbert(x, y, n uint64) uint64 {
	var d uint64
	s := n / 2
	for s > 0 {
		var rx, ry uint64
		if (x & s) > 0 {
			rx = 1
		}
		if (y & s) > 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)
		// Rotate quadrant.
		if ry == 0 {
			if rx == 1 {
				x = s*2 - 1 - x
				y = s*2 - 1 - y
			}
			x, y = y, x
		}
		s /= 2
	}
	return d
}

// nextPow2 returns the smallest power of two >= v (and at least 1).
func nextPow2(v int) uint64 {
	n := uint64(1)
	for n < uint64(v) {
		n <<= 1
	}
	return n
}

// SortTilesByHilbert orders tiles of one matrix along a Hilbert curve so that
// consecutive tiles are neighbours in the grid. Swiss grids are not square
// powers of two, so the curve is laid over the smallest power-of-two square
// covering the largest column/row index.
//
// All tiles must belong to the same matrix.
func SortTilesByHilbert(tiles []Tile) {
	if len(tiles) <= 1 {
		return
	}
	maxIdx := 0
	for _, t := range tiles {
		if t.Col > maxIdx {
			maxIdx = t.Col
		}
		if t.Row > maxIdx {
			maxIdx = t.Row
		}
	}
	n := nextPow2(maxIdx + 1)

	// Precompute indices so each value is computed once rather than on every
	// comparison.
	indices := make([]uint64, len(tiles))
	for i, t := range tiles {
		indices[i] = xyToHilbert(uint64(t.Col), uint64(t.Row), n)
	}

	sort.Sort(hilbertSorter{tiles: tiles, indices: indices})
}

type hilbertSorter struct {
	tiles   []Tile
	indices []uint64
}

func (s hilbertSorter) Len() int           { return len(s.tiles) }
func (s hilbertSorter) Less(i, j int) bool { return s.indices[i] < s.indices[j] }
func (s hilbertSorter) Swap(i, j int) {
	s.tiles[i], s.tiles[j] = s.tiles[j], s.tiles[i]
	s.indices[i], s.indices[j] = s.indices[j], s.indices[i]
}
