package footprint

import (
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// boundGeometry encodes a tile extent as a closed single-ring polygon.
func boundGeometry(b orb.Bound, builder *flatbuffers.Builder) *writer.Geometry {
	g := writer.NewGeometry(builder)
	g.SetType(flattypes.GeometryTypePolygon)
	xy, ends := polygonToXYEnds(boundToPolygon(b))
	g.SetXY(xy)
	g.SetEnds(ends)
	return g
}

func boundToPolygon(b orb.Bound) orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{b.Min[0], b.Min[1]},
			{b.Max[0], b.Min[1]},
			{b.Max[0], b.Max[1]},
			{b.Min[0], b.Max[1]},
			{b.Min[0], b.Min[1]},
		},
	}
}

func polygonToXYEnds(poly orb.Polygon) ([]float64, []uint32) {
	n := 0
	for _, ring := range poly {
		n += len(ring)
	}

	xy := make([]float64, 0, n*2)
	ends := make([]uint32, 0, len(poly))

	var end uint32
	for _, ring := range poly {
		for _, p := range ring {
			xy = append(xy, p[0], p[1])
		}
		end += uint32(len(ring))
		ends = append(ends, end)
	}

	return xy, ends
}

// polygonFromFGB decodes a polygon geometry. Other geometry types and
// polygons without coordinates yield nil.
func polygonFromFGB(g *flattypes.Geometry) orb.Polygon {
	if g == nil || g.Type() != flattypes.GeometryTypePolygon {
		return nil
	}

	xyLen := g.XyLength()
	if xyLen < 2 {
		return nil
	}

	// No ends means a single ring.
	endsLen := g.EndsLength()
	if endsLen == 0 {
		return orb.Polygon{ringFromXY(g, 0, uint32(xyLen/2))}
	}

	poly := make(orb.Polygon, 0, endsLen)
	var start uint32
	for i := 0; i < endsLen; i++ {
		end := g.Ends(i)
		poly = append(poly, ringFromXY(g, start, end))
		start = end
	}

	return poly
}

func ringFromXY(g *flattypes.Geometry, start, end uint32) orb.Ring {
	xyLen := g.XyLength()
	if end < start || int(start)*2 >= xyLen {
		return nil
	}
	if n := uint32(xyLen / 2); end > n {
		end = n
	}

	ring := make(orb.Ring, 0, end-start)
	for j := start; j < end; j++ {
		idx := int(j) * 2
		ring = append(ring, orb.Point{g.Xy(idx), g.Xy(idx + 1)})
	}
	return ring
}
