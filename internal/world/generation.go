// Battlefield generation using layered simplex noise.
// One layer ranks candidate cells for obstacles, a second marks rough ground.
package world

import (
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds battlefield generation parameters.
type GenConfig struct {
	Width     int     // Grid columns
	Height    int     // Grid rows
	Seed      int64   // Random seed (0 = random)
	Obstacles int     // Number of impassable cells to place
	Biome     Biome   // Terrain flavour of the whole field
	RoughLvl  float64 // Noise threshold above which ground is rough (0.0–1.0)
}

// DefaultGenConfig returns the standard 10×10 battlefield.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:     10,
		Height:    10,
		Obstacles: 4,
		Biome:     BiomePlains,
		RoughLvl:  0.78,
	}
}

// Generate creates a battlefield. The same seed always yields the same field.
// Obstacles only appear away from the deployment columns so both armies can
// always be placed.
func Generate(cfg GenConfig) *Grid {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.Biome == "" {
		cfg.Biome = BiomePlains
	}

	obstacleNoise := opensimplex.NewNormalized(seed)
	roughNoise := opensimplex.NewNormalized(seed + 1)

	g := NewGrid(cfg.Width, cfg.Height, cfg.Biome)

	type candidate struct {
		cell  Offset
		score float64
	}
	var candidates []candidate

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			o := Offset{X: x, Y: y}
			// Offset → cartesian for hex-shaped noise sampling.
			px := float64(x) * 1.5
			py := float64(y)*math.Sqrt(3.0) + float64(x&1)*math.Sqrt(3.0)/2

			if octaveNoise(roughNoise, px, py, 2, 0.15, 0.5) > cfg.RoughLvl {
				g.Tile(o).Rough = true
			}
			if x >= 2 && x <= cfg.Width-3 && y >= 1 && y <= cfg.Height-2 {
				candidates = append(candidates, candidate{
					cell:  o,
					score: octaveNoise(obstacleNoise, px, py, 3, 0.35, 0.5),
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	for i := 0; i < cfg.Obstacles && i < len(candidates); i++ {
		t := g.Tile(candidates[i].cell)
		t.Obstacle = true
		t.Rough = false
	}

	return g
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// RoughCount returns how many tiles are rough ground.
func RoughCount(g *Grid) int {
	n := 0
	for _, t := range g.tiles {
		if t.Rough {
			n++
		}
	}
	return n
}
