package subunit

import (
	"math"

	"github.com/laastos/combfold/geom"
)

// cellKey identifies one bucket of the uniform spatial hash.
type cellKey struct{ x, y, z int32 }

// Grid is a uniform 3-D bucket hash over a BB's own backbone points,
// keyed by floor(coord/r) per axis. It is built once at load time and is
// read-only thereafter; concurrent queries are safe.
type Grid struct {
	resolution float64
	buckets    map[cellKey][]int
}

func cellOf(p geom.Vec, r float64) cellKey {
	return cellKey{
		x: int32(math.Floor(p.X / r)),
		y: int32(math.Floor(p.Y / r)),
		z: int32(math.Floor(p.Z / r)),
	}
}

// newGrid buckets points (the BB's own local-frame backbone points) by
// cell size resolution. Points are bucketed directly rather than into a
// pre-allocated dense bounding-box array, so no bounding box, and no
// margin around one, is involved in construction or in queries.
func newGrid(points []geom.Vec, resolution float64) *Grid {
	g := &Grid{resolution: resolution, buckets: make(map[cellKey][]int, len(points))}
	for i, p := range points {
		k := cellOf(p, resolution)
		g.buckets[k] = append(g.buckets[k], i)
	}
	return g
}

// neighbors calls f with every point index of own points in p's cell and
// its 26 neighboring cells.
func (g *Grid) neighbors(p geom.Vec, f func(idx int)) {
	c := cellOf(p, g.resolution)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				k := cellKey{c.x + dx, c.y + dy, c.z + dz}
				for _, idx := range g.buckets[k] {
					f(idx)
				}
			}
		}
	}
}
