package entities

// Tool is an item an actor can pry a door with
type Tool struct {
	Name string
	// ForcePowered lets the tool pry doors that still have power
	ForcePowered bool
	// PryModifier is the tool's base pry time multiplier, 1 when zero
	PryModifier float64
}

// BaseModifier returns PryModifier, defaulting to 1
func (t *Tool) BaseModifier() float64 {
	if t == nil || t.PryModifier <= 0 {
		return 1
	}
	return t.PryModifier
}
