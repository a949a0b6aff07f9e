package menu

import (
	"fmt"

	engineinput "airlock/pkg/engine/input"
	"airlock/pkg/engine/entity"
	"airlock/pkg/game/airlock"
	"airlock/pkg/game/renderer"
)

// WireMenuItem is one wire on a door's maintenance panel.
type WireMenuItem struct {
	Status airlock.WireStatus
	r      *renderer.Terminal
}

// GetLabel returns the display label for this wire.
func (w *WireMenuItem) GetLabel() string {
	if w.r != nil {
		return w.r.Wire(w.Status)
	}
	state := "intact"
	if w.Status.IsCut {
		state = "cut"
	}
	return fmt.Sprintf("WIRE{%s} %s %s", w.Status.ID, state, w.Status.Light.Label)
}

// IsSelectable returns whether this wire can be worked on.
func (w *WireMenuItem) IsSelectable() bool {
	return true
}

// GetHelpText returns help text for this wire.
func (w *WireMenuItem) GetHelpText() string {
	return "ACTION{cut}, ACTION{mend} or ACTION{pulse} this wire"
}

// WirePanelHandler drives the wire interface of one door for one user.
type WirePanelHandler struct {
	sys  *airlock.System
	door entity.Handle
	user entity.Handle
	name string
	r    *renderer.Terminal
}

// NewWirePanelHandler creates the wire interface for door. r may be nil.
func NewWirePanelHandler(sys *airlock.System, door, user entity.Handle, name string, r *renderer.Terminal) *WirePanelHandler {
	return &WirePanelHandler{sys: sys, door: door, user: user, name: name, r: r}
}

// GetTitle returns the menu title.
func (h *WirePanelHandler) GetTitle() string {
	return fmt.Sprintf("Maintenance panel: %s", h.name)
}

// GetInstructions returns the menu instructions.
func (h *WirePanelHandler) GetInstructions() string {
	return "ACTION{cut} <wire>, ACTION{mend} <wire>, ACTION{pulse} <wire>, ACTION{close} to leave"
}

// GetMenuItems lists the door's wires. A closed panel shows nothing to work on.
func (h *WirePanelHandler) GetMenuItems() []MenuItem {
	panel, ok := h.sys.WirePanel(h.door)
	if !ok {
		return []MenuItem{&InfoMenuItem{Label: "No maintenance panel."}}
	}
	if !panel.Open {
		return []MenuItem{&InfoMenuItem{Label: "The maintenance panel is screwed shut."}}
	}
	var items []MenuItem
	for _, ws := range h.sys.WireStatus(h.door) {
		items = append(items, &WireMenuItem{Status: ws, r: h.r})
	}
	if len(items) == 0 {
		items = append(items, &InfoMenuItem{Label: "The panel is empty."})
	}
	return items
}

// Find selects a wire by id
func (h *WirePanelHandler) Find(items []MenuItem, key string) int {
	for i, item := range items {
		if w, ok := item.(*WireMenuItem); ok && w.Status.ID == key {
			return i
		}
	}
	return -1
}

// OnActivate cuts, mends or pulses the chosen wire.
func (h *WirePanelHandler) OnActivate(item MenuItem, index int, intent engineinput.Intent) (bool, string) {
	w, ok := item.(*WireMenuItem)
	if !ok {
		return false, ""
	}
	id := w.Status.ID

	var done bool
	switch intent.Action {
	case engineinput.ActionCut:
		done = h.sys.CutWire(h.door, id, h.user)
	case engineinput.ActionMend:
		done = h.sys.MendWire(h.door, id, h.user)
	case engineinput.ActionPulse:
		done = h.sys.PulseWire(h.door, id, h.user)
	default:
		return false, w.GetHelpText()
	}

	verb := engineinput.ActionName(intent.Action)
	if !done {
		return false, fmt.Sprintf("DENIED{%s} has no effect on WIRE{%s}", verb, id)
	}
	return false, fmt.Sprintf("OK{%s} WIRE{%s}", verb, id)
}

// OnExit is called when the user leaves the panel.
func (h *WirePanelHandler) OnExit() {}
