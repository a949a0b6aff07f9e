// Package renderer turns door state into terminal text
package renderer

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/gookit/color"

	"airlock/pkg/engine/terminal"
)

// Localizer resolves GT{} markup keys
type Localizer interface {
	Get(key string, vars ...interface{}) string
}

// Terminal is the text renderer used by the shell
type Terminal struct {
	out io.Writer
	loc Localizer

	colorAction      color.Style
	colorActionShort color.Style
	colorDenied      color.Style
	colorOK          color.Style
	colorWarning     color.Style
	colorSubtle      color.Style
	colorDoor        color.Style
	colorWire        color.Style

	regexpStringFunctions *regexp.Regexp
}

// New creates a terminal renderer writing to out (stdout when nil)
func New(out io.Writer, loc Localizer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{
		out:              out,
		loc:              loc,
		colorAction:      color.Style{color.FgMagenta},
		colorActionShort: color.Style{color.FgMagenta, color.OpBold},
		colorDenied:      color.Style{color.FgRed, color.OpBold},
		colorOK:          color.Style{color.FgGreen, color.OpBold},
		colorWarning:     color.Style{color.FgYellow},
		colorSubtle:      color.Style{color.FgGray, color.OpBold},
		colorDoor:        color.Style{color.FgCyan, color.OpBold},
		colorWire:        color.Style{color.FgBlue},

		regexpStringFunctions: regexp.MustCompile(`([A-Z_]*){([a-z A-Z0-9_,:.\-]+)}`),
	}
}

// SetColor turns ANSI colour output on or off for every renderer
func SetColor(enabled bool) {
	color.Enable = enabled
}

// StyleText applies a style to text
func (t *Terminal) StyleText(text string, style TextStyle) string {
	switch style {
	case StyleAction:
		return t.colorAction.Sprint(text)
	case StyleActionShort:
		return t.colorActionShort.Sprint(text)
	case StyleDenied:
		return t.colorDenied.Sprint(text)
	case StyleOK:
		return t.colorOK.Sprint(text)
	case StyleWarning:
		return t.colorWarning.Sprint(text)
	case StyleSubtle:
		return t.colorSubtle.Sprint(text)
	case StyleDoor:
		return t.colorDoor.Sprint(text)
	case StyleWire:
		return t.colorWire.Sprint(text)
	default:
		return text
	}
}

// FormatText formats a message with the markup system:
// GT{key} translates, ACTION{word} highlights a command, DOOR{name},
// WIRE{id}, DENIED{text} and OK{text} colour their operand.
func (t *Terminal) FormatText(msg string, args ...any) string {
	ret := msg
	if len(args) > 0 {
		ret = fmt.Sprintf(msg, args...)
	}

	matches := t.regexpStringFunctions.FindAllStringSubmatch(ret, -1)

	for _, match := range matches {
		function := match[1]
		operand := match[2]

		var val string

		switch function {
		case "GT":
			val = t.translate(operand)
		case "ACTION":
			val = t.colorActionShort.Sprint(operand[0:1]) + t.colorAction.Sprint(operand[1:])
		case "DOOR":
			val = t.colorDoor.Sprint(operand)
		case "WIRE":
			val = t.colorWire.Sprint(operand)
		case "DENIED":
			val = t.colorDenied.Sprint(operand)
		case "OK":
			val = t.colorOK.Sprint(operand)
		default:
			val = fmt.Sprintf("ERROR, function not found: %v -> %v", function, operand)
		}

		ret = strings.Replace(ret, match[0], val, 1)
	}

	return ret
}

func (t *Terminal) translate(key string) string {
	if t.loc == nil {
		return key
	}
	return t.loc.Get(key)
}

// ShowMessage displays a message to the user
func (t *Terminal) ShowMessage(msg string) {
	fmt.Fprintln(t.out, msg)
}

// Rule returns a horizontal separator as wide as the terminal, capped at 60
func (t *Terminal) Rule() string {
	w := terminal.GetWidth()
	if w > 60 || w <= 0 {
		w = 60
	}
	return t.colorSubtle.Sprint(strings.Repeat("─", w))
}

// Messages renders the station message log, oldest first
func (t *Terminal) Messages(msgs []string) string {
	if len(msgs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString("- ")
		b.WriteString(t.FormatText(m))
		b.WriteString("\n")
	}
	return b.String()
}
