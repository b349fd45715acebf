package scene

import "math"

// Bounds is an axis-aligned bounding box in scene coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns MaxX-MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY-MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Overlaps reports whether b and o intersect, including touching edges.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// ElementBounds returns the bounds of e, accounting for rotation and for
// the points of linear elements.
func ElementBounds(e Element) Bounds {
	var local []point
	if len(e.Points) > 0 {
		for _, p := range e.Points {
			local = append(local, point{p[0], p[1]})
		}
	} else {
		local = []point{{0, 0}, {e.Width, 0}, {e.Width, e.Height}, {0, e.Height}}
	}

	lb := boundsOf(local)
	if e.Angle == 0 {
		return Bounds{e.X + lb.MinX, e.Y + lb.MinY, e.X + lb.MaxX, e.Y + lb.MaxY}
	}

	// Rotate around the centre of the local box.
	cx, cy := (lb.MinX+lb.MaxX)/2, (lb.MinY+lb.MaxY)/2
	sin, cos := math.Sincos(e.Angle)
	world := make([]point, len(local))
	for i, p := range local {
		dx, dy := p.x-cx, p.y-cy
		world[i] = point{
			x: e.X + cx + dx*cos - dy*sin,
			y: e.Y + cy + dx*sin + dy*cos,
		}
	}
	return boundsOf(world)
}

// CommonBounds returns the union of the bounds of elements. It returns the
// zero Bounds for an empty slice.
func CommonBounds(elements []Element) Bounds {
	if len(elements) == 0 {
		return Bounds{}
	}
	b := Bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, e := range elements {
		eb := ElementBounds(e)
		b.MinX = min(b.MinX, eb.MinX)
		b.MinY = min(b.MinY, eb.MinY)
		b.MaxX = max(b.MaxX, eb.MaxX)
		b.MaxY = max(b.MaxY, eb.MaxY)
	}
	return b
}

type point struct{ x, y float64 }

func boundsOf(pts []point) Bounds {
	b := Bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		b.MinX = min(b.MinX, p.x)
		b.MinY = min(b.MinY, p.y)
		b.MaxX = max(b.MaxX, p.x)
		b.MaxY = max(b.MaxY, p.y)
	}
	return b
}
