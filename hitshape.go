package tactile

import "sort"

// Vec2 is a 2D point used by polygon hit shapes.
type Vec2 struct {
	X, Y float64
}

// HitShape is a testable hit region in surface coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangle with its origin at the top-left
// corner. Edges count as inside.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point falls within the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	if x < r.X || y < r.Y {
		return false
	}
	return x <= r.X+r.Width && y <= r.Y+r.Height
}

// HitCircle is a circular area around a center point. The boundary
// counts as inside.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether the point falls within the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx, dy := x-c.CenterX, y-c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon in either winding order. A concave
// point set gives wrong answers; split it into convex pieces.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether the point falls within the polygon: it must
// sit on the same side of every edge. Points on an edge count as inside.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	var pos, neg bool
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		switch cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X); {
		case cross > 0:
			pos = true
		case cross < 0:
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// --- ShapeHitTester ---

// Region binds a hit shape to a machine at a z level. Details, when
// set, computes the hit-detail payload for a contact resolved onto this
// region; it must produce the machine's declared kind.
type Region struct {
	Shape   HitShape
	Machine Machine
	Z       int
	Details func(c Contact) HitDetails
}

// ShapeHitTester is a ready-made HitTester over a flat list of shaped
// regions. The topmost region (highest Z; later insertion wins ties)
// containing a contact's position is the hit. Captured entries are
// confirmed when the captor's own region contains the position, denied
// otherwise.
type ShapeHitTester struct {
	regions []Region
	sorted  bool
}

// NewShapeHitTester creates an empty shape hit tester.
func NewShapeHitTester() *ShapeHitTester {
	return &ShapeHitTester{sorted: true}
}

// Add registers a region. Machines may own any number of regions.
func (t *ShapeHitTester) Add(reg Region) {
	t.regions = append(t.regions, reg)
	t.sorted = false
}

// Remove drops every region owned by the given machine.
func (t *ShapeHitTester) Remove(m Machine) {
	kept := t.regions[:0]
	for _, reg := range t.regions {
		if reg.Machine != m {
			kept = append(kept, reg)
		}
	}
	for i := len(kept); i < len(t.regions); i++ {
		t.regions[i] = Region{}
	}
	t.regions = kept
}

// HitTest resolves each pending event against the region list.
func (t *ShapeHitTester) HitTest(uncaptured, captured []PendingHit) {
	if !t.sorted {
		sort.SliceStable(t.regions, func(i, j int) bool {
			return t.regions[i].Z < t.regions[j].Z
		})
		t.sorted = true
	}

	for i := range uncaptured {
		ph := &uncaptured[i]
		if reg := t.topmost(ph.Contact.X, ph.Contact.Y); reg != nil {
			ph.Machine = reg.Machine.ID()
			if reg.Details != nil {
				ph.Details = reg.Details(ph.Contact)
			}
		}
	}

	for i := range captured {
		ph := &captured[i]
		reg := t.topmost(ph.Contact.X, ph.Contact.Y)
		if reg == nil || reg.Machine.ID() != ph.Machine {
			// Not over the captor: deny, never reassign.
			ph.Machine = 0
			continue
		}
		if reg.Details != nil {
			ph.Details = reg.Details(ph.Contact)
		}
	}
}

// topmost returns the highest region containing (x, y), or nil.
// Iterates backward so higher Z (and later insertion) wins.
func (t *ShapeHitTester) topmost(x, y float64) *Region {
	for i := len(t.regions) - 1; i >= 0; i-- {
		if t.regions[i].Shape.Contains(x, y) {
			return &t.regions[i]
		}
	}
	return nil
}
