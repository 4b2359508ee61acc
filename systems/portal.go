package systems

// PortalID names a portal.
type PortalID string

// Portal identities. Exactly one of each exists and they form a single pair.
const (
	BorderPortalID PortalID = "border"
	PointPortalID  PortalID = "point"
)

// PortalKind distinguishes the capture geometry.
type PortalKind uint8

const (
	// PortalBorder captures anything inside the viewport edge band.
	PortalBorder PortalKind = iota
	// PortalPoint captures within a circle around its centre.
	PortalPoint
)

// String returns the kind name.
func (k PortalKind) String() string {
	if k == PortalPoint {
		return "point"
	}
	return "border"
}

// Portal is a teleport zone paired with another portal.
type Portal struct {
	ID       PortalID
	Pair     PortalID
	Kind     PortalKind
	Entrance bool // only entrances accept agents

	// Anchor and radius. For the border portal the anchor is the
	// viewport origin and the radius is the band width.
	X, Y   float32
	Radius float32

	// Extent of the border portal.
	Width, Height float32

	Color string
}

// PortalRegistry holds the border/point portal pair and keeps it sized to the viewport.
// Portals are created once and mutated in place on resize.
type PortalRegistry struct {
	portals [2]Portal
	params  PortalParams
}

// NewPortalRegistry creates the portal pair for a w x h viewport.
func NewPortalRegistry(w, h float32, params PortalParams) *PortalRegistry {
	r := &PortalRegistry{params: params}
	r.portals[0] = Portal{
		ID:       BorderPortalID,
		Pair:     PointPortalID,
		Kind:     PortalBorder,
		Entrance: true,
		Radius:   params.BorderWidth,
		Color:    params.BorderColor,
	}
	r.portals[1] = Portal{
		ID:       PointPortalID,
		Pair:     BorderPortalID,
		Kind:     PortalPoint,
		Entrance: params.PointEntrance,
		Color:    params.PointColor,
	}
	r.Resize(w, h)
	return r
}

// Resize recomputes portal geometry for a new viewport.
func (r *PortalRegistry) Resize(w, h float32) {
	border := &r.portals[0]
	border.Width = w
	border.Height = h

	point := &r.portals[1]
	point.X = w * 0.5
	point.Y = h * 0.5
	point.Radius = min(w, h) * r.params.PointRadiusFraction
}

// Get looks a portal up by id.
func (r *PortalRegistry) Get(id PortalID) (*Portal, bool) {
	for i := range r.portals {
		if r.portals[i].ID == id {
			return &r.portals[i], true
		}
	}
	return nil, false
}

// Paired returns the portal that id teleports into.
func (r *PortalRegistry) Paired(id PortalID) (*Portal, bool) {
	p, ok := r.Get(id)
	if !ok {
		return nil, false
	}
	return r.Get(p.Pair)
}

// Border returns the border portal.
func (r *PortalRegistry) Border() *Portal {
	return &r.portals[0]
}

// Point returns the point portal.
func (r *PortalRegistry) Point() *Portal {
	return &r.portals[1]
}

// All returns a copy of both portals.
func (r *PortalRegistry) All() []Portal {
	out := make([]Portal, len(r.portals))
	copy(out, r.portals[:])
	return out
}

// Params returns the transit parameters the registry was built with.
func (r *PortalRegistry) Params() PortalParams {
	return r.params
}

// SetParams replaces transit parameters and reapplies geometry.
func (r *PortalRegistry) SetParams(params PortalParams) {
	r.params = params
	r.portals[0].Radius = params.BorderWidth
	r.portals[1].Entrance = params.PointEntrance
	r.Resize(r.portals[0].Width, r.portals[0].Height)
}
