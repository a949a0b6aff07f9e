// Package menu provides a line-driven menu system for the shell.
package menu

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	engineinput "airlock/pkg/engine/input"
	"airlock/pkg/game/renderer"
)

// MenuItem represents a single item in a menu.
type MenuItem interface {
	// GetLabel returns the display label for this menu item.
	GetLabel() string
	// IsSelectable returns whether this item can be selected.
	IsSelectable() bool
	// GetHelpText returns optional help text for this item.
	GetHelpText() string
}

// MenuHandler handles menu item activation.
type MenuHandler interface {
	// OnActivate is called when a command names an item.
	// Returns true if the menu should close, and any help text to display.
	OnActivate(item MenuItem, index int, intent engineinput.Intent) (shouldClose bool, helpText string)
	// OnExit is called when the menu is exited.
	OnExit()
	// GetTitle returns the menu title.
	GetTitle() string
	// GetInstructions returns the menu instructions.
	GetInstructions() string
}

// DynamicMenuHandler extends MenuHandler with dynamic menu items.
// RunMenuDynamic calls GetMenuItems each loop iteration so the menu can refresh.
type DynamicMenuHandler interface {
	MenuHandler
	GetMenuItems() []MenuItem
}

// IntentSource yields parsed command lines
type IntentSource interface {
	NextIntent() (engineinput.Intent, error)
}

// InfoMenuItem is a non-selectable line of information.
type InfoMenuItem struct {
	Label string
}

// GetLabel returns the display label for this info menu item.
func (i *InfoMenuItem) GetLabel() string {
	return i.Label
}

// IsSelectable returns whether this info item can be selected.
func (i *InfoMenuItem) IsSelectable() bool {
	return false
}

// GetHelpText returns help text for this info item.
func (i *InfoMenuItem) GetHelpText() string {
	return ""
}

// RunMenuDynamic shows the handler's items and feeds commands to it until
// the handler closes the menu, the user quits, or src runs dry.
//
// The first argument of a command selects the item, either by its number
// in the listing or by a label the handler's Find understands.
func RunMenuDynamic(src IntentSource, r renderer.Renderer, handler DynamicMenuHandler) error {
	defer handler.OnExit()
	helpText := ""

	for {
		items := handler.GetMenuItems()
		render(r, items, helpText, handler)
		helpText = ""

		intent, err := src.NextIntent()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading menu command: %w", err)
		}

		switch intent.Action {
		case engineinput.ActionQuit, engineinput.ActionClose:
			return nil
		case engineinput.ActionNone:
			// Ignore
		case engineinput.ActionHelp:
			helpText = handler.GetInstructions()
		default:
			idx := selectItem(items, intent.Arg(0, ""), handler)
			if idx < 0 {
				helpText = fmt.Sprintf("No such entry: %q", intent.Arg(0, ""))
				continue
			}
			shouldClose, text := handler.OnActivate(items[idx], idx, intent)
			helpText = text
			if shouldClose {
				return nil
			}
		}
	}
}

// Finder is an optional interface for handlers that can look items up by name
type Finder interface {
	Find(items []MenuItem, key string) int
}

// selectItem resolves key to a selectable item index, or -1.
// Numbers count selectable items only, as listed by render.
func selectItem(items []MenuItem, key string, handler MenuHandler) int {
	idx := -1
	if n, err := strconv.Atoi(key); err == nil {
		for i, item := range items {
			if !item.IsSelectable() {
				continue
			}
			n--
			if n == 0 {
				idx = i
				break
			}
		}
	} else if f, ok := handler.(Finder); ok {
		idx = f.Find(items, key)
	}
	if idx < 0 || idx >= len(items) || !items[idx].IsSelectable() {
		return -1
	}
	return idx
}

func render(r renderer.Renderer, items []MenuItem, helpText string, handler MenuHandler) {
	r.ShowMessage(r.FormatText("=== %s ===", handler.GetTitle()))
	n := 0
	for _, item := range items {
		label := r.FormatText(item.GetLabel())
		if !item.IsSelectable() {
			r.ShowMessage("   " + r.StyleText(label, renderer.StyleSubtle))
			continue
		}
		n++
		r.ShowMessage(fmt.Sprintf("%2d %s", n, label))
	}
	if helpText != "" {
		r.ShowMessage(r.FormatText(helpText))
	}
}
