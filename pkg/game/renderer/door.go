package renderer

import (
	"fmt"
	"strings"
	"time"

	"airlock/pkg/engine/entity"
	"airlock/pkg/game/airlock"
	"airlock/pkg/game/entities"
	"airlock/pkg/game/setup"
)

// Status light icons
const (
	IconLightOff   = "○"
	IconLightOn    = "●"
	IconLightBlink = "◐"
)

// DoorView is everything the shell shows about one door
type DoorView struct {
	Name      string
	State     entities.DoorState
	Powered   bool
	Bolted    bool
	AutoClose bool
	Pending   time.Duration
	Armed     bool
	Prying    bool
	PanelOpen bool
	HasPanel  bool
	Wires     []airlock.WireStatus
	Group     string
	Style     string
	Assembly  bool
}

// Describe collects the view of h from the world's systems
func Describe(w *setup.World, h entity.Handle) DoorView {
	v := DoorView{Name: w.NameOf(h)}

	if p, ok := w.Paint.Paintable(h); ok {
		v.Group = p.Group
		v.Assembly = p.Kind == entities.PaintableAssembly
		if tr, ok := w.Paint.Stamp(h); ok {
			v.Style = tr.Style
		}
	}

	a, ok := w.Airlocks.Airlock(h)
	if !ok {
		return v
	}
	v.State = a.State
	v.Powered = a.Powered
	v.Bolted = a.Bolted
	v.AutoClose = a.AutoClose
	v.Pending, v.Armed = w.Airlocks.PendingAutoClose(h)
	v.Prying = w.Airlocks.Prying(h)
	if panel, ok := w.Airlocks.WirePanel(h); ok {
		v.HasPanel = true
		v.PanelOpen = panel.Open
		v.Wires = w.Airlocks.WireStatus(h)
	}
	return v
}

// Door renders a one-line door summary
func (t *Terminal) Door(v DoorView) string {
	var b strings.Builder
	b.WriteString(t.colorDoor.Sprint(v.Name))

	if v.Assembly {
		b.WriteString(" " + t.colorSubtle.Sprint("[assembly]"))
		if v.Style != "" {
			fmt.Fprintf(&b, " %s/%s", v.Group, v.Style)
		}
		return b.String()
	}

	fmt.Fprintf(&b, " [%s]", t.state(v.State))

	if v.Powered {
		b.WriteString(" " + t.colorOK.Sprint("powered"))
	} else {
		b.WriteString(" " + t.colorDenied.Sprint("unpowered"))
	}
	if v.Bolted {
		b.WriteString(" " + t.colorWarning.Sprint("bolted"))
	}
	switch {
	case v.Armed:
		fmt.Fprintf(&b, " auto-close in %s", v.Pending)
	case !v.AutoClose:
		b.WriteString(" " + t.colorSubtle.Sprint("held open"))
	}
	if v.Prying {
		b.WriteString(" " + t.colorWarning.Sprint("being pried"))
	}
	if v.HasPanel && v.PanelOpen {
		b.WriteString(" panel open")
	}
	if v.Style != "" {
		fmt.Fprintf(&b, " %s/%s", v.Group, v.Style)
	}
	return b.String()
}

func (t *Terminal) state(s entities.DoorState) string {
	label := t.translate("DOOR_STATE_" + s.String())
	switch s {
	case entities.DoorOpen:
		return t.colorOK.Sprint(label)
	case entities.DoorDenying:
		return t.colorDenied.Sprint(label)
	case entities.DoorClosed:
		return label
	default:
		return t.colorWarning.Sprint(label)
	}
}

// StatusLight renders a wire's indicator as icon plus label
func (t *Terminal) StatusLight(l entities.StatusLight) string {
	icon := IconLightOff
	switch l.State {
	case entities.LightOn:
		icon = IconLightOn
	case entities.LightBlinkingSlow, entities.LightBlinkingFast:
		icon = IconLightBlink
	}
	if l.State != entities.LightOff && l.Color == "red" {
		icon = t.colorDenied.Sprint(icon)
	}
	return icon + " " + l.Label
}

// Wire renders one line of the wire panel
func (t *Terminal) Wire(ws airlock.WireStatus) string {
	cond := t.colorOK.Sprint("intact")
	if ws.IsCut {
		cond = t.colorDenied.Sprint("cut")
	}
	return fmt.Sprintf("%s %s %s", t.colorWire.Sprint(ws.ID), cond, t.StatusLight(ws.Light))
}
