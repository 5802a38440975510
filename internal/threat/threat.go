// Package threat holds the expected-threat surface used to value pitch
// positions. The grid is loaded once and immutable for a match.
package threat

import (
	"fmt"

	"github.com/Vicathor/PM-ABMS/internal/pitch"
)

const (
	GridCols = 12 // across the width (x)
	GridRows = 8  // along the length (y)
)

type Grid struct {
	width  float64
	length float64
	cells  [GridCols][GridRows]float64
}

// New builds a grid over the given pitch dimensions from a zone table keyed
// "<col>_<row>". Missing zones read as zero.
func New(width, length float64, table map[string]float64) (*Grid, error) {
	if width <= 0 || length <= 0 {
		return nil, fmt.Errorf("threat: non-positive pitch dimensions %gx%g", width, length)
	}
	g := &Grid{width: width, length: length}
	for cx := 0; cx < GridCols; cx++ {
		for cy := 0; cy < GridRows; cy++ {
			g.cells[cx][cy] = table[fmt.Sprintf("%d_%d", cx, cy)]
		}
	}
	return g, nil
}

// NewToy builds the synthetic gradient used at toy realism: threat rises
// towards the attacking end, central lanes score slightly higher, and the
// penalty-area zones get a flat bump.
func NewToy(width, length float64) (*Grid, error) {
	table := map[string]float64{}
	for cx := 0; cx < GridCols; cx++ {
		for cy := 0; cy < GridRows; cy++ {
			base := float64(cy) / float64(GridRows)
			central := 1.0 - absf(float64(cx)-6.0)/6.0*0.2
			if cy >= 6 && cx >= 3 && cx <= 9 {
				base += 0.3
			}
			v := base * central
			if v > 1.0 {
				v = 1.0
			}
			table[fmt.Sprintf("%d_%d", cx, cy)] = v
		}
	}
	return New(width, length, table)
}

// Value resolves a continuous position to its zone value. Out-of-range and
// non-finite positions clamp to the nearest valid cell.
func (g *Grid) Value(pos pitch.Vec2) float64 {
	if !pos.Finite() {
		return 0
	}
	cx := clampIdx(int(pos.X/g.width*GridCols), GridCols-1)
	cy := clampIdx(int(pos.Y/g.length*GridRows), GridRows-1)
	return g.cells[cx][cy]
}

// Delta is the xThreat gained moving from one position to another.
func (g *Grid) Delta(from, to pitch.Vec2) float64 {
	return g.Value(to) - g.Value(from)
}

func clampIdx(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
