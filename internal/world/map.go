package world

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Biome identifies the battlefield terrain flavour supplied by the world map.
type Biome string

const (
	BiomePlains Biome = "plains"
	BiomeForest Biome = "scarletia_crimson_forest"
	BiomeSwamp  Biome = "swamp"
	BiomeWater  Biome = "water"
)

// Contains reports whether the biome name contains sub, e.g. "forest".
func (b Biome) Contains(sub string) bool {
	return sub != "" && strings.Contains(string(b), sub)
}

// IceWallTurns is how many unit turns a spawned ice wall persists.
const IceWallTurns = 2

var (
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrBlocked     = errors.New("cell blocked")
	ErrOccupied    = errors.New("cell occupied")
)

// Tile is a single battlefield cell.
type Tile struct {
	Biome    Biome `json:"biome"`
	Rough    bool  `json:"rough"` // costs two movement points unless terrain is ignored
	Obstacle bool  `json:"obstacle"`
}

// Grid holds the battlefield tiles, transient ice walls and unit occupancy.
// A cell holds at most one unit.
type Grid struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Biome  Biome `json:"biome"`

	tiles     []Tile
	occupants map[Offset]int
	iceWalls  map[Offset]int // cell → remaining turns
}

// NewGrid creates an empty grid where every tile carries the given biome.
func NewGrid(width, height int, biome Biome) *Grid {
	g := &Grid{
		Width:     width,
		Height:    height,
		Biome:     biome,
		tiles:     make([]Tile, width*height),
		occupants: make(map[Offset]int),
		iceWalls:  make(map[Offset]int),
	}
	for i := range g.tiles {
		g.tiles[i].Biome = biome
	}
	return g
}

// InBounds returns true if the cell lies on the grid.
func (g *Grid) InBounds(o Offset) bool {
	return o.X >= 0 && o.X < g.Width && o.Y >= 0 && o.Y < g.Height
}

// Tile returns the tile at o, or nil if out of bounds.
func (g *Grid) Tile(o Offset) *Tile {
	if !g.InBounds(o) {
		return nil
	}
	return &g.tiles[o.Y*g.Width+o.X]
}

// BiomeAt returns the biome of the tile at o, falling back to the grid biome.
func (g *Grid) BiomeAt(o Offset) Biome {
	if t := g.Tile(o); t != nil && t.Biome != "" {
		return t.Biome
	}
	return g.Biome
}

// SetObstacle marks a cell as impassable.
func (g *Grid) SetObstacle(o Offset) {
	if t := g.Tile(o); t != nil {
		t.Obstacle = true
	}
}

// Obstacles returns all obstacle cells in row-major order.
func (g *Grid) Obstacles() []Offset {
	var out []Offset
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.tiles[y*g.Width+x].Obstacle {
				out = append(out, Offset{X: x, Y: y})
			}
		}
	}
	return out
}

// AddIceWall spawns an ice wall segment on a free cell.
func (g *Grid) AddIceWall(o Offset, turns int) error {
	if !g.InBounds(o) {
		return ErrOutOfBounds
	}
	if g.Blocked(o) {
		return ErrBlocked
	}
	if _, ok := g.occupants[o]; ok {
		return ErrOccupied
	}
	g.iceWalls[o] = turns
	return nil
}

// HasIceWall reports whether an ice wall stands on the cell.
func (g *Grid) HasIceWall(o Offset) bool {
	_, ok := g.iceWalls[o]
	return ok
}

// IceWalls returns the ice wall cells sorted row-major.
func (g *Grid) IceWalls() []Offset {
	out := make([]Offset, 0, len(g.iceWalls))
	for o := range g.iceWalls {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// TickIceWalls decrements every ice wall and melts those that expire.
func (g *Grid) TickIceWalls() {
	for o := range g.iceWalls {
		g.iceWalls[o]--
		if g.iceWalls[o] <= 0 {
			delete(g.iceWalls, o)
		}
	}
}

// Blocked reports whether terrain (obstacle or ice wall) blocks the cell.
// Out-of-bounds cells are blocked.
func (g *Grid) Blocked(o Offset) bool {
	t := g.Tile(o)
	if t == nil {
		return true
	}
	return t.Obstacle || g.HasIceWall(o)
}

// Occupant returns the id of the unit on the cell.
func (g *Grid) Occupant(o Offset) (int, bool) {
	id, ok := g.occupants[o]
	return id, ok
}

// Free reports whether a unit may enter the cell.
func (g *Grid) Free(o Offset) bool {
	if g.Blocked(o) {
		return false
	}
	_, taken := g.occupants[o]
	return !taken
}

// Place puts a unit on an empty cell.
func (g *Grid) Place(id int, o Offset) error {
	if !g.InBounds(o) {
		return fmt.Errorf("place unit %d at %v: %w", id, o, ErrOutOfBounds)
	}
	if g.Blocked(o) {
		return fmt.Errorf("place unit %d at %v: %w", id, o, ErrBlocked)
	}
	if other, ok := g.occupants[o]; ok && other != id {
		return fmt.Errorf("place unit %d at %v: %w", id, o, ErrOccupied)
	}
	g.occupants[o] = id
	return nil
}

// Move relocates a unit. The destination is validated before the source
// cell is released, so a failed move leaves the grid untouched.
func (g *Grid) Move(id int, from, to Offset) error {
	if from == to {
		return nil
	}
	if err := g.Place(id, to); err != nil {
		return err
	}
	if cur, ok := g.occupants[from]; ok && cur == id {
		delete(g.occupants, from)
	}
	return nil
}

// Vacate clears the cell.
func (g *Grid) Vacate(o Offset) {
	delete(g.occupants, o)
}

// Neighbors returns the in-bounds cells adjacent to o.
func (g *Grid) Neighbors(o Offset) []Offset {
	a := OffsetToAxial(o)
	out := make([]Offset, 0, 6)
	for _, d := range NeighborDirections {
		n := AxialToOffset(Axial{Q: a.Q + d.Q, R: a.R + d.R})
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// LineOfSight reports whether no obstacle or ice wall lies strictly between
// a and b. Units do not block sight.
func (g *Grid) LineOfSight(a, b Offset) bool {
	for _, c := range Line(a, b) {
		if g.Blocked(c) {
			return false
		}
	}
	return true
}

// MoveCost returns the movement points needed to enter o.
func (g *Grid) MoveCost(o Offset, ignoreTerrain bool) int {
	if t := g.Tile(o); t != nil && t.Rough && !ignoreTerrain {
		return 2
	}
	return 1
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, biome=%s, obstacles=%d, units=%d)",
		g.Width, g.Height, g.Biome, len(g.Obstacles()), len(g.occupants))
}
