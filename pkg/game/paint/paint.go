// Package paint keeps a door's cosmetic skin across deconstruction.
//
// A paint token sits in the door's paint slot. Inserting it applies the
// skin of its style; removing it stamps the door's current style back onto
// the token so an assembly built from the door can adopt the same skin.
package paint

import (
	"log/slog"

	"airlock/pkg/engine/appearance"
	"airlock/pkg/engine/component"
	"airlock/pkg/engine/container"
	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/game/entities"
	"airlock/pkg/game/state"
)

// Transfer is the detached paint record carried between two entities
type Transfer struct {
	Style string
}

// System syncs paint tokens with door and assembly skins
type System struct {
	station *state.Station
	lookup  Lookup
	log     *slog.Logger

	paintables *component.Store[*entities.Paintable]
	tokens     *component.Store[*entities.PaintToken]
}

// New creates the paint system and subscribes to paint slot notifications
func New(st *state.Station, lookup Lookup) *System {
	s := &System{
		station:    st,
		lookup:     lookup,
		log:        st.Log.With("system", "paint"),
		paintables: component.NewStore[*entities.Paintable](),
		tokens:     component.NewStore[*entities.PaintToken](),
	}
	event.Subscribe(st.Bus, s.onInserted)
	event.Subscribe(st.Bus, s.onRemoving)
	st.Entities.OnDestroy(s.forget)
	return s
}

// Add makes h paintable and declares its paint slot
func (s *System) Add(h entity.Handle, p *entities.Paintable) {
	s.paintables.Set(h, p)
	s.station.Containers.Ensure(h, entities.PaintSlot)
}

// Paintable returns h's paint settings
func (s *System) Paintable(h entity.Handle) (*entities.Paintable, bool) {
	return s.paintables.Get(h)
}

// NewToken spawns a loose paint token carrying style
func (s *System) NewToken(style string) entity.Handle {
	h := s.station.Spawn()
	s.tokens.Set(h, &entities.PaintToken{Style: style})
	return h
}

// Token returns the token component of h
func (s *System) Token(h entity.Handle) (*entities.PaintToken, bool) {
	return s.tokens.Get(h)
}

// Held returns the token in h's paint slot
func (s *System) Held(h entity.Handle) (entity.Handle, bool) {
	return s.station.Containers.Contained(h, entities.PaintSlot)
}

// Skin returns the skin path currently shown by h
func (s *System) Skin(h entity.Handle) (string, bool) {
	return s.station.Appearance.String(h, appearance.BaseSkin)
}

// Apply shows the skin of style on h. Unknown styles are logged and leave
// the skin untouched.
func (s *System) Apply(h entity.Handle, style string) bool {
	p, ok := s.paintables.Get(h)
	if !ok {
		return false
	}
	path, ok := s.lookup.Path(p.Group, style)
	if !ok {
		s.log.Error("paint style not defined",
			"entity", h.String(),
			"group", p.Group,
			"style", style,
		)
		return false
	}
	s.station.Appearance.Set(h, appearance.BaseSkin, path)
	return true
}

// Stamp reads h's current style: the style of its shown skin, or the
// default style when it was never painted.
func (s *System) Stamp(h entity.Handle) (Transfer, bool) {
	p, ok := s.paintables.Get(h)
	if !ok {
		return Transfer{}, false
	}
	if path, ok := s.Skin(h); ok {
		if style, ok := s.lookup.Style(p.Group, path); ok {
			return Transfer{Style: style}, true
		}
		s.log.Error("skin has no style in paint group",
			"entity", h.String(),
			"group", p.Group,
			"skin", path,
		)
	}
	if p.DefaultStyle == "" {
		return Transfer{}, false
	}
	return Transfer{Style: p.DefaultStyle}, true
}

// Move carries the paint token from one entity's paint slot to another's.
// The token is either in to's slot afterwards or back in from's.
func (s *System) Move(from, to entity.Handle) bool {
	cm := s.station.Containers
	if !cm.Has(to, entities.PaintSlot) {
		return false
	}
	if _, occupied := cm.Contained(to, entities.PaintSlot); occupied {
		return false
	}
	tok, ok := cm.Remove(from, entities.PaintSlot)
	if !ok {
		return false
	}
	if cm.Insert(to, entities.PaintSlot, tok) {
		return true
	}
	if !cm.Insert(from, entities.PaintSlot, tok) {
		s.log.Warn("paint token lost during move", "from", from.String(), "token", tok.String())
	}
	return false
}

func (s *System) onInserted(owner entity.Handle, ev *container.Inserted) {
	if ev.Slot != entities.PaintSlot || !s.paintables.Has(owner) {
		return
	}
	tok, ok := s.tokens.Get(ev.Entity)
	if !ok {
		return
	}
	s.Apply(owner, tok.Style)
}

// onRemoving stamps the door's style onto the token before it leaves
func (s *System) onRemoving(owner entity.Handle, ev *container.Removing) {
	if ev.Slot != entities.PaintSlot {
		return
	}
	p, ok := s.paintables.Get(owner)
	if !ok || p.Kind != entities.PaintableDoor {
		return
	}
	tok, ok := s.tokens.Get(ev.Entity)
	if !ok {
		return
	}
	if tr, ok := s.Stamp(owner); ok {
		tok.Style = tr.Style
	}
}

func (s *System) forget(h entity.Handle) {
	s.paintables.Remove(h)
	s.tokens.Remove(h)
}
