package entities

// PaintSlot is the container slot that carries a door's paint token
const PaintSlot = "paint"

// PaintToken carries a paint style between a door and its assembly
type PaintToken struct {
	Style string
}

// PaintableKind tells the paint system how an entity treats its token
type PaintableKind int

const (
	// PaintableDoor stamps the token with its skin when the token leaves
	PaintableDoor PaintableKind = iota
	// PaintableAssembly only adopts the skin of an inserted token
	PaintableAssembly
)

// Paintable marks an entity whose skin comes from a paint group
type Paintable struct {
	Kind         PaintableKind
	Group        string
	DefaultStyle string
}
