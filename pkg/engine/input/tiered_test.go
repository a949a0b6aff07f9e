package input

import (
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestParseLine_AliasesAndArgs(t *testing.T) {
	tests := []struct {
		line   string
		action Action
		args   []string
	}{
		{"open", ActionOpen, []string{}},
		{"  Pulse bolt  ", ActionPulse, []string{"bolt"}},
		{"pry crowbar", ActionPry, []string{"crowbar"}},
		{"t 5s", ActionTick, []string{"5s"}},
		{"", ActionNone, nil},
		{"dance now", ActionNone, []string{"dance", "now"}},
	}
	for _, tt := range tests {
		got := ParseLine(tt.line)
		if got.Action != tt.action {
			t.Errorf("ParseLine(%q).Action = %v, want %v", tt.line, ActionName(got.Action), ActionName(tt.action))
		}
		if len(got.Args) != len(tt.args) || (len(tt.args) > 0 && !reflect.DeepEqual(got.Args, tt.args)) {
			t.Errorf("ParseLine(%q).Args = %v, want %v", tt.line, got.Args, tt.args)
		}
	}
}

func TestIntent_ArgDefault(t *testing.T) {
	in := ParseLine("tick")
	if got := in.Arg(0, "1s"); got != "1s" {
		t.Errorf("Arg(0, 1s) = %q, want 1s", got)
	}
}

func TestGetBindingsByAction_Sorted(t *testing.T) {
	codes := GetBindingsByAction()[ActionQuit]
	want := []string{"exit", "q", "quit"}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("bindings for Quit = %v, want %v", codes, want)
	}
}

func TestReader_ReadLine(t *testing.T) {
	r := NewReader(strings.NewReader("open\r\nclose"))
	if got, err := r.ReadLine(); err != nil || got != "open" {
		t.Errorf("ReadLine = %q, %v, want open, nil", got, err)
	}
	if got, err := r.ReadLine(); err != nil || got != "close" {
		t.Errorf("ReadLine = %q, %v, want close, nil", got, err)
	}
	if _, err := r.ReadLine(); err != io.EOF {
		t.Errorf("ReadLine at end err = %v, want io.EOF", err)
	}
}

func TestReader_NextIntent(t *testing.T) {
	r := NewReader(strings.NewReader("cut bolt\nbuild medbay\n"))
	in, err := r.NextIntent()
	if err != nil || in.Action != ActionCut || in.Arg(0, "") != "bolt" {
		t.Errorf("NextIntent = %+v, %v, want Cut bolt", in, err)
	}
	in, _ = r.NextIntent()
	if in.Action != ActionConstruct {
		t.Errorf("NextIntent action = %v, want Construct", ActionName(in.Action))
	}
	if _, err := r.NextIntent(); err != io.EOF {
		t.Errorf("NextIntent at end err = %v, want io.EOF", err)
	}
}
