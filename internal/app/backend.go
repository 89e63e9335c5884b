package app

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/tool"
)

// doubleClickWindow is the maximum gap between presses that still counts as
// a double click.
const doubleClickWindow = 400 * time.Millisecond

// handleKey translates a terminal key event and dispatches it as a shortcut.
func (a *App) handleKey(ev *tcell.EventKey) {
	combo := comboFromKey(ev)
	if combo == "" {
		return
	}
	if combo == "ctrl+q" {
		a.Stop()
		return
	}

	ctx := a.host.FullContext(a.host.ActiveTool())
	outcome := a.host.Shortcuts().Execute(combo, tool.ShortcutEvent{}, ctx)
	if outcome.Handled {
		a.logger.Debug("shortcut handled", "combo", combo, "tool", outcome.ToolID)
	}
}

// handleMouse translates a terminal mouse event into pointer events for the
// active tool.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0
	wasPressed := a.buttons&tcell.Button1 != 0
	a.buttons = buttons

	pointer := a.host.PointerState()

	switch {
	case pressed && !wasPressed:
		pointer.Down = true
		pointer.StartX, pointer.StartY = float64(x), float64(y)
		pointer.LastX, pointer.LastY = float64(x), float64(y)

		now := time.Now().UnixMilli()
		isDouble := now-a.lastDown <= doubleClickWindow.Milliseconds() &&
			x == a.lastDownX && y == a.lastDownY
		a.lastDown = now
		a.lastDownX, a.lastDownY = x, y

		a.publish(event.TopicPointerDown, x, y, ev.Modifiers())
		if isDouble {
			a.publish(event.TopicCanvasDoubleClick, x, y, ev.Modifiers())
		}

	case !pressed && wasPressed:
		pointer.Down = false
		pointer.LastX, pointer.LastY = float64(x), float64(y)
		a.publish(event.TopicPointerUp, x, y, ev.Modifiers())

	case pressed:
		pointer.LastX, pointer.LastY = float64(x), float64(y)
		a.publish(event.TopicPointerMove, x, y, ev.Modifiers())
	}
}

// publish addresses a pointer event to the active tool.
func (a *App) publish(topic event.Topic, x, y int, mods tcell.ModMask) {
	a.host.Bus().Publish(topic, event.PointerEvent{
		Topic:  topic,
		ToolID: a.host.ActiveTool(),
		X:      float64(x),
		Y:      float64(y),
		Shift:  mods&tcell.ModShift != 0,
		Ctrl:   mods&tcell.ModCtrl != 0,
		Alt:    mods&tcell.ModAlt != 0,
		Meta:   mods&tcell.ModMeta != 0,
	})
}

// comboFromKey converts a tcell key event into a shortcut combination. The
// shortcut manager normalizes token order and case.
func comboFromKey(ev *tcell.EventKey) string {
	var parts []string
	mods := ev.Modifiers()

	// tcell strips ModShift from rune keys; a shifted letter arrives as
	// the uppercase rune with no modifier, so derive shift from case.
	shift := mods&tcell.ModShift != 0
	if ev.Key() == tcell.KeyRune && unicode.IsUpper(ev.Rune()) {
		shift = true
	}

	if mods&tcell.ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if mods&tcell.ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if shift {
		parts = append(parts, "shift")
	}
	if mods&tcell.ModMeta != 0 {
		parts = append(parts, "meta")
	}

	base := baseKey(ev)
	if base == "" {
		return ""
	}
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ && len(parts) == 0 {
		parts = append(parts, "ctrl")
	}

	parts = append(parts, base)
	return strings.Join(parts, "+")
}

// baseKey names the non-modifier key of an event.
func baseKey(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return "space"
		}
		return strings.ToLower(string(r))
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyDelete:
		return "delete"
	case tcell.KeyInsert:
		return "insert"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyPgUp:
		return "pageup"
	case tcell.KeyPgDn:
		return "pagedown"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	}

	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		return string(rune('a' + ev.Key() - tcell.KeyCtrlA))
	}
	if ev.Key() >= tcell.KeyF1 && ev.Key() <= tcell.KeyF12 {
		return "f" + strconv.Itoa(int(ev.Key()-tcell.KeyF1)+1)
	}
	return ""
}

// render draws the status line: the active tool, its cursor, and the
// registered tool list.
func (a *App) render() {
	if a.screen == nil {
		return
	}
	a.screen.Clear()

	width, height := a.screen.Size()
	if height == 0 {
		return
	}

	active := a.host.ActiveTool()
	label := active
	if def := a.host.Plugin(active); def != nil && def.Metadata.Label != "" {
		label = def.Metadata.Label
	}

	status := " " + label + " [" + a.host.Cursor() + "]  tools: " +
		strings.Join(a.host.RegisteredTools(), " ") + "  (ctrl+q quits)"

	style := tcell.StyleDefault.Reverse(true)
	row := height - 1
	for col := 0; col < width; col++ {
		r := ' '
		if col < len(status) {
			r = rune(status[col])
		}
		a.screen.SetContent(col, row, r, nil, style)
	}
	a.screen.Show()
}
