package airlock

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"airlock/pkg/engine/appearance"
	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/game/entities"
	"airlock/pkg/game/power"
	"airlock/pkg/game/state"
)

type fixture struct {
	st   *state.Station
	net  *power.Network
	sys  *System
	door entity.Handle
	user entity.Handle
}

// newFixture creates a station with one closed airlock carrying a bolt wire.
// The door is powered when powered is true. The user is interactive.
func newFixture(t *testing.T, powered bool) *fixture {
	t.Helper()
	st := state.NewStation(slog.New(slog.NewTextHandler(io.Discard, nil)))
	net := power.NewNetwork(st.Bus)
	sys := New(st, net, nil)

	door := st.Spawn()
	sys.Add(door, nil)
	sys.AttachBoltWire(door)
	net.SetPowered(door, powered)

	user := st.Spawn()
	st.AddActor(user)
	return &fixture{st: st, net: net, sys: sys, door: door, user: user}
}

func (f *fixture) airlock(t *testing.T) *entities.Airlock {
	t.Helper()
	a, ok := f.sys.Airlock(f.door)
	if !ok {
		t.Fatal("door has no airlock")
	}
	return a
}

// openDoor drives the door to Open through the guarded path
func (f *fixture) openDoor(t *testing.T) {
	t.Helper()
	if v := f.sys.TryOpen(f.door, f.user); !v.Allowed {
		t.Fatalf("TryOpen = %v, want allowed", v)
	}
	f.st.Tick(f.airlock(t).OpenDuration)
	if got := f.sys.State(f.door); got != entities.DoorOpen {
		t.Fatalf("state after opening = %v, want Open", got)
	}
}

func (f *fixture) closeDoor(t *testing.T) {
	t.Helper()
	if v := f.sys.TryClose(f.door, f.user); !v.Allowed {
		t.Fatalf("TryClose = %v, want allowed", v)
	}
	f.st.Tick(f.airlock(t).CloseDuration)
	if got := f.sys.State(f.door); got != entities.DoorClosed {
		t.Fatalf("state after closing = %v, want Closed", got)
	}
}

func TestTryOpen_PoweredArmsAutoClose(t *testing.T) {
	f := newFixture(t, true)
	a := f.airlock(t)
	a.AutoCloseDelay = 4 * time.Second
	a.AutoCloseDelayModifier = 1.5

	v := f.sys.TryOpen(f.door, f.user)
	if !v.Allowed {
		t.Fatalf("TryOpen = %v, want allowed", v)
	}
	if a.State != entities.DoorOpening || !a.Partial {
		t.Errorf("after TryOpen state=%v partial=%v, want Opening, true", a.State, a.Partial)
	}

	f.st.Tick(a.OpenDuration)
	if a.State != entities.DoorOpen {
		t.Fatalf("state = %v, want Open", a.State)
	}
	rem, armed := f.sys.PendingAutoClose(f.door)
	if !armed || rem != 6*time.Second {
		t.Errorf("PendingAutoClose = %v, %v, want 6s, true", rem, armed)
	}

	f.st.Tick(6 * time.Second)
	if a.State != entities.DoorClosing {
		t.Errorf("state after auto-close delay = %v, want Closing", a.State)
	}
	f.st.Tick(a.CloseDuration)
	if a.State != entities.DoorClosed {
		t.Errorf("state = %v, want Closed", a.State)
	}
}

func TestActivate_KeepOpenClickSuppressesAutoClose(t *testing.T) {
	f := newFixture(t, true)
	a := f.airlock(t)
	a.KeepOpenIfClicked = true
	f.openDoor(t)

	if !f.sys.Activate(f.door, f.user) {
		t.Fatal("Activate = false, want handled")
	}
	if a.AutoClose {
		t.Error("AutoClose = true after keep-open click, want false")
	}
	if _, armed := f.sys.PendingAutoClose(f.door); armed {
		t.Error("auto-close still pending after keep-open click")
	}

	f.st.Tick(time.Minute)
	if a.State != entities.DoorOpen {
		t.Errorf("state = %v, want Open (manual close only)", a.State)
	}

	// Power cycling must not re-arm a suppressed door.
	f.net.SetPowered(f.door, false)
	f.net.SetPowered(f.door, true)
	if _, armed := f.sys.PendingAutoClose(f.door); armed {
		t.Error("power gain re-armed a suppressed auto-close")
	}

	f.closeDoor(t)
}

func TestActivate_KeepOpenClickOnClosedDoorStaysOpen(t *testing.T) {
	f := newFixture(t, true)
	a := f.airlock(t)
	a.KeepOpenIfClicked = true

	if !f.sys.Activate(f.door, f.user) {
		t.Fatal("Activate = false, want handled")
	}
	if a.State != entities.DoorOpening {
		t.Fatalf("state after click = %v, want Opening", a.State)
	}
	f.st.Tick(a.OpenDuration)
	if a.State != entities.DoorOpen {
		t.Fatalf("state = %v, want Open", a.State)
	}
	if a.AutoClose {
		t.Error("AutoClose = true after keep-open click, want false")
	}
	if _, armed := f.sys.PendingAutoClose(f.door); armed {
		t.Error("auto-close armed on a door opened by a keep-open click")
	}

	f.st.Tick(a.AutoCloseAfter() + a.CloseDuration)
	if a.State != entities.DoorOpen {
		t.Errorf("state = %v, want Open (keep-open door closed itself)", a.State)
	}
}

func TestAutoClose_ReenabledAfterFullCycle(t *testing.T) {
	f := newFixture(t, true)
	a := f.airlock(t)
	a.KeepOpenIfClicked = true

	f.openDoor(t)
	f.sys.Activate(f.door, f.user)
	f.closeDoor(t)

	if !a.AutoClose {
		t.Fatal("AutoClose = false after closing, want true")
	}
	f.openDoor(t)
	if _, armed := f.sys.PendingAutoClose(f.door); !armed {
		t.Error("auto-close not armed on the next open cycle")
	}
}

func TestPulseWire_UnpoweredForcesBoltsAndBlocksOpen(t *testing.T) {
	f := newFixture(t, false)
	f.sys.SetPanelOpen(f.door, true)

	if !f.sys.PulseWire(f.door, BoltWireID, f.user) {
		t.Fatal("PulseWire = false, want true")
	}
	if !f.sys.IsBolted(f.door) {
		t.Fatal("unpowered pulse did not force the bolts down")
	}

	v := f.sys.TryOpen(f.door, f.user)
	if v.Allowed || !v.Has(ReasonBolted) {
		t.Errorf("TryOpen = %v, want denied with bolted", v)
	}
	if got := f.sys.State(f.door); got != entities.DoorClosed {
		t.Errorf("state = %v, want Closed (no deny cycle without power)", got)
	}
}

func TestCanPry_BoltsBlockEvenForceTools(t *testing.T) {
	f := newFixture(t, true)
	f.sys.SetBolted(f.door, true, false)

	plain := &entities.Tool{Name: "crowbar"}
	v := f.sys.CanPry(f.door, f.user, plain)
	if v.Allowed || !v.Has(ReasonBolted) || !v.Has(ReasonPowered) {
		t.Errorf("CanPry(crowbar) = %v, want denied with bolted and powered", v)
	}

	jaws := &entities.Tool{Name: "jaws", ForcePowered: true}
	v = f.sys.CanPry(f.door, f.user, jaws)
	if v.Allowed || !v.Has(ReasonBolted) || v.Has(ReasonPowered) {
		t.Errorf("CanPry(jaws) = %v, want denied with bolted only", v)
	}

	if len(f.st.Messages) == 0 {
		t.Error("no popup shown for the refused pry")
	}
}

func TestBoltedDoorNeverOpens(t *testing.T) {
	for _, powered := range []bool{true, false} {
		f := newFixture(t, powered)
		f.sys.SetBolted(f.door, true, false)

		v := f.sys.TryOpen(f.door, f.user)
		if v.Allowed || !v.Has(ReasonBolted) {
			t.Errorf("powered=%v: TryOpen = %v, want denied with bolted", powered, v)
		}
		f.st.Tick(time.Second)
		if got := f.sys.State(f.door); got != entities.DoorClosed {
			t.Errorf("powered=%v: state = %v, want Closed", powered, got)
		}
	}
}

func TestUnpoweredDoorDoesNotOpen(t *testing.T) {
	f := newFixture(t, false)
	v := f.sys.TryOpen(f.door, f.user)
	if v.Allowed || !v.Has(ReasonUnpowered) || v.Has(ReasonBolted) {
		t.Errorf("TryOpen = %v, want denied with unpowered only", v)
	}
}

func TestTryOpen_CollaboratorVetoShowsDeny(t *testing.T) {
	f := newFixture(t, true)
	event.Subscribe(f.st.Bus, func(h entity.Handle, ev *BeforeDoorOpened) {
		ev.CancelWith("no-access")
	})
	var sounds []string
	event.Subscribe(f.st.Bus, func(h entity.Handle, ev *SoundRequested) {
		sounds = append(sounds, ev.Sound)
	})

	v := f.sys.TryOpen(f.door, f.user)
	if v.Allowed || !v.Has("no-access") {
		t.Fatalf("TryOpen = %v, want denied with no-access", v)
	}
	a := f.airlock(t)
	if a.State != entities.DoorDenying {
		t.Fatalf("state = %v, want Denying", a.State)
	}
	if len(sounds) != 1 || sounds[0] != SoundDeny {
		t.Errorf("sounds = %v, want [deny]", sounds)
	}
	f.st.Tick(a.DenyDuration)
	if a.State != entities.DoorClosed {
		t.Errorf("state after deny = %v, want Closed", a.State)
	}
}

func TestDeny_SuppressedByCollaborator(t *testing.T) {
	f := newFixture(t, true)
	event.Subscribe(f.st.Bus, func(h entity.Handle, ev *BeforeDoorDenied) { ev.Cancel() })
	if f.sys.Deny(f.door) {
		t.Error("Deny = true, want false when a collaborator cancels")
	}
	if got := f.sys.State(f.door); got != entities.DoorClosed {
		t.Errorf("state = %v, want Closed", got)
	}
}

func TestTryClose_GuardedByBoltsAndPower(t *testing.T) {
	f := newFixture(t, true)
	f.openDoor(t)

	f.sys.SetBolted(f.door, true, false)
	v := f.sys.TryClose(f.door, f.user)
	if v.Allowed || !v.Has(ReasonBolted) {
		t.Errorf("TryClose on bolted door = %v, want denied with bolted", v)
	}
	if got := f.sys.State(f.door); got != entities.DoorOpen {
		t.Errorf("state = %v, want Open", got)
	}
}

func TestTryClose_WrongState(t *testing.T) {
	f := newFixture(t, true)
	if v := f.sys.TryClose(f.door, f.user); v.Allowed || !v.Has(ReasonWrongState) {
		t.Errorf("TryClose on closed door = %v, want wrong-state", v)
	}
}

func TestPartialClose_CompletesWithoutPower(t *testing.T) {
	f := newFixture(t, true)
	f.openDoor(t)
	a := f.airlock(t)

	f.net.SetPowered(f.door, false)
	if !f.sys.ForceClose(f.door) {
		t.Fatal("ForceClose = false")
	}
	f.st.Tick(a.CloseDuration)
	if a.State != entities.DoorClosed {
		t.Errorf("pried-closed door state = %v, want Closed", a.State)
	}
	if a.Partial {
		t.Error("Partial still set after the close finished")
	}
}

func TestPartialClose_ObstructionBouncesOpen(t *testing.T) {
	f := newFixture(t, true)
	f.openDoor(t)
	a := f.airlock(t)

	event.Subscribe(f.st.Bus, func(h entity.Handle, ev *BeforeDoorClosed) {
		if ev.Partial {
			ev.CancelWith("obstructed")
		}
	})

	f.closeDoorStart(t)
	f.st.Tick(a.CloseDuration)
	if a.State != entities.DoorOpening {
		t.Fatalf("state = %v, want Opening after obstruction", a.State)
	}
	f.st.Tick(a.OpenDuration)
	if a.State != entities.DoorOpen {
		t.Errorf("state = %v, want Open", a.State)
	}
}

func (f *fixture) closeDoorStart(t *testing.T) {
	t.Helper()
	if v := f.sys.TryClose(f.door, f.user); !v.Allowed {
		t.Fatalf("TryClose = %v, want allowed", v)
	}
}

func TestPowerLoss_DisarmsAndGainRearms(t *testing.T) {
	f := newFixture(t, true)
	f.openDoor(t)

	f.net.SetPowered(f.door, false)
	if _, armed := f.sys.PendingAutoClose(f.door); armed {
		t.Fatal("auto-close pending after power loss")
	}
	if f.st.Appearance.Bool(f.door, appearance.Powered) {
		t.Error("appearance Powered = true after power loss")
	}
	f.st.Tick(time.Minute)
	if got := f.sys.State(f.door); got != entities.DoorOpen {
		t.Fatalf("unpowered door moved to %v", got)
	}

	f.net.SetPowered(f.door, true)
	rem, armed := f.sys.PendingAutoClose(f.door)
	if !armed || rem != f.airlock(t).AutoCloseAfter() {
		t.Errorf("PendingAutoClose after power gain = %v, %v, want %v, true", rem, armed, f.airlock(t).AutoCloseAfter())
	}
}

func TestArm_CancelledByCollaborator(t *testing.T) {
	f := newFixture(t, true)
	event.Subscribe(f.st.Bus, func(h entity.Handle, ev *BeforeDoorAutoClose) { ev.Cancel() })
	f.openDoor(t)
	if _, armed := f.sys.PendingAutoClose(f.door); armed {
		t.Error("auto-close armed although a collaborator cancelled it")
	}
}

func TestArm_NoopWhenBolted(t *testing.T) {
	f := newFixture(t, true)
	f.openDoor(t)
	f.sys.Disarm(f.door)
	f.sys.SetBolted(f.door, true, false)
	if f.sys.Arm(f.door) {
		t.Error("Arm on bolted door = true, want false")
	}
}

func TestDisarm_Idempotent(t *testing.T) {
	f := newFixture(t, true)
	f.openDoor(t)
	if !f.sys.Disarm(f.door) {
		t.Error("first Disarm = false, want true")
	}
	if f.sys.Disarm(f.door) {
		t.Error("second Disarm = true, want false")
	}
}

func TestDisarm_LeavesTransitionTimer(t *testing.T) {
	f := newFixture(t, true)
	f.sys.TryOpen(f.door, f.user)
	if f.sys.Disarm(f.door) {
		t.Error("Disarm cancelled the opening timer")
	}
	f.st.Tick(f.airlock(t).OpenDuration)
	if got := f.sys.State(f.door); got != entities.DoorOpen {
		t.Errorf("state = %v, want Open", got)
	}
}

func TestAutoClose_RetriesAfterVeto(t *testing.T) {
	f := newFixture(t, true)
	blocked := true
	event.Subscribe(f.st.Bus, func(h entity.Handle, ev *BeforeDoorClosed) {
		if blocked && !ev.Partial {
			ev.CancelWith("obstructed")
		}
	})
	f.openDoor(t)
	a := f.airlock(t)

	f.st.Tick(a.AutoCloseAfter())
	if a.State != entities.DoorOpen {
		t.Fatalf("state = %v, want Open while obstructed", a.State)
	}
	if _, armed := f.sys.PendingAutoClose(f.door); !armed {
		t.Fatal("auto-close not re-armed after a vetoed attempt")
	}

	blocked = false
	f.st.Tick(a.AutoCloseAfter() + a.CloseDuration)
	if a.State != entities.DoorClosed {
		t.Errorf("state = %v, want Closed", a.State)
	}
}

func TestPanelVisibility(t *testing.T) {
	f := newFixture(t, true)
	panel, _ := f.sys.WirePanel(f.door)
	if !panel.Visible {
		t.Fatal("panel hidden on a closed door")
	}
	f.openDoor(t)
	if panel.Visible || f.st.Appearance.Bool(f.door, appearance.PanelVisible) {
		t.Error("panel visible on an open door")
	}
	f.closeDoor(t)
	if !panel.Visible {
		t.Error("panel hidden after closing")
	}

	f.airlock(t).OpenPanelVisible = true
	f.openDoor(t)
	if !panel.Visible {
		t.Error("panel hidden on open door with OpenPanelVisible")
	}
}

func TestBoltLights(t *testing.T) {
	f := newFixture(t, true)
	f.sys.SetBolted(f.door, true, true)
	if !f.st.Appearance.Bool(f.door, appearance.BoltLights) {
		t.Error("bolt lights off on powered, bolted, closed door")
	}
	f.net.SetPowered(f.door, false)
	if f.st.Appearance.Bool(f.door, appearance.BoltLights) {
		t.Error("bolt lights on without power")
	}
}

func TestToggleBolts_NeedsPower(t *testing.T) {
	f := newFixture(t, false)
	v := f.sys.ToggleBolts(f.door, f.user)
	if v.Allowed || !v.Has(ReasonUnpowered) {
		t.Errorf("ToggleBolts unpowered = %v, want denied unpowered", v)
	}
	f.net.SetPowered(f.door, true)
	if v := f.sys.ToggleBolts(f.door, f.user); !v.Allowed || !f.sys.IsBolted(f.door) {
		t.Errorf("ToggleBolts powered = %v bolted=%v, want allowed, true", v, f.sys.IsBolted(f.door))
	}
}

func TestSetBolted_FeedbackSounds(t *testing.T) {
	f := newFixture(t, true)
	var sounds []string
	event.Subscribe(f.st.Bus, func(h entity.Handle, ev *SoundRequested) { sounds = append(sounds, ev.Sound) })

	f.sys.SetBolted(f.door, true, true)
	f.sys.SetBolted(f.door, true, true)
	f.sys.SetBolted(f.door, false, false)
	f.sys.SetBolted(f.door, true, false)

	if len(sounds) != 1 || sounds[0] != SoundBoltsDown {
		t.Errorf("sounds = %v, want [bolts_down]", sounds)
	}
}

func TestActivate_OpenPanelOpensWireInterface(t *testing.T) {
	f := newFixture(t, true)
	f.sys.SetPanelOpen(f.door, true)

	var opened []entity.Handle
	event.Subscribe(f.st.Bus, func(h entity.Handle, ev *WirePanelOpened) { opened = append(opened, ev.User) })

	if !f.sys.Activate(f.door, f.user) {
		t.Fatal("Activate = false, want handled")
	}
	if len(opened) != 1 || opened[0] != f.user {
		t.Errorf("WirePanelOpened users = %v, want [%v]", opened, f.user)
	}
	if got := f.sys.State(f.door); got != entities.DoorClosed {
		t.Errorf("state = %v, want Closed (interaction consumed)", got)
	}

	// A non-interactive actor falls through to the door toggle.
	npc := f.st.Spawn()
	f.sys.Activate(f.door, npc)
	if got := f.sys.State(f.door); got != entities.DoorOpening {
		t.Errorf("state after npc click = %v, want Opening", got)
	}
}

func TestActivate_TogglesDoor(t *testing.T) {
	f := newFixture(t, true)
	f.sys.Activate(f.door, f.user)
	f.st.Tick(f.airlock(t).OpenDuration)
	if got := f.sys.State(f.door); got != entities.DoorOpen {
		t.Fatalf("state = %v, want Open", got)
	}
	f.sys.Activate(f.door, f.user)
	if got := f.sys.State(f.door); got != entities.DoorClosing {
		t.Errorf("state = %v, want Closing", got)
	}
}

func TestDestroyedDoor_PendingWorkIsDropped(t *testing.T) {
	f := newFixture(t, true)
	f.openDoor(t)
	f.st.Destroy(f.door)

	if ran := f.st.Tick(time.Minute); ran != 0 {
		t.Errorf("Tick ran %d callbacks for a destroyed door, want 0", ran)
	}
	if _, ok := f.sys.Airlock(f.door); ok {
		t.Error("airlock component kept after destroy")
	}
	if v := f.sys.TryOpen(f.door, f.user); !v.Has(ReasonAbsent) {
		t.Errorf("TryOpen on destroyed door = %v, want absent", v)
	}
}

func TestMissingCollaborator_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	st := state.NewStation(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	sys := New(st, power.NewNetwork(st.Bus), nil)
	user := st.Spawn()

	bare := st.Spawn()
	checks := []struct {
		name string
		v    Verdict
		op   string
	}{
		{"TryOpen", sys.TryOpen(bare, user), "op=open"},
		{"TryClose", sys.TryClose(bare, user), "op=close"},
		{"CanPry", sys.CanPry(bare, user, &entities.Tool{Name: "crowbar"}), "op=pry"},
		{"ToggleBolts", sys.ToggleBolts(bare, user), "op=bolts"},
	}
	for _, c := range checks {
		if !c.v.Has(ReasonAbsent) {
			t.Errorf("%s(no airlock) = %v, want absent", c.name, c.v)
		}
		if !strings.Contains(buf.String(), c.op) {
			t.Errorf("%s(no airlock) logged nothing with %s:\n%s", c.name, c.op, buf.String())
		}
	}

	door := st.Spawn()
	sys.Add(door, nil)
	buf.Reset()
	if sys.CutWire(door, BoltWireID, user) {
		t.Error("CutWire on door without panel = true")
	}
	if !strings.Contains(buf.String(), `msg="wire panel absent"`) || !strings.Contains(buf.String(), "level=DEBUG") {
		t.Errorf("CutWire without panel did not log at debug:\n%s", buf.String())
	}
}
