package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/tool"
)

// pointerTable builds the Lua argument for a pointer handler.
func pointerTable(L *lua.LState, ev event.PointerEvent) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("topic", lua.LString(ev.Topic))
	t.RawSetString("x", lua.LNumber(ev.X))
	t.RawSetString("y", lua.LNumber(ev.Y))
	if ev.ElementID != "" {
		t.RawSetString("element", lua.LString(ev.ElementID))
	}
	t.RawSetString("subpath", lua.LNumber(ev.SubpathIndex))
	t.RawSetString("shift", lua.LBool(ev.Shift))
	t.RawSetString("ctrl", lua.LBool(ev.Ctrl))
	t.RawSetString("alt", lua.LBool(ev.Alt))
	t.RawSetString("meta", lua.LBool(ev.Meta))
	return t
}

// shortcutTable builds the Lua argument for a shortcut handler.
func shortcutTable(L *lua.LState, ev tool.ShortcutEvent) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("combo", lua.LString(ev.Combo))
	t.RawSetString("editable", lua.LBool(ev.TargetEditable))
	return t
}

// call invokes a Lua function with the given arguments, discarding results.
func call(L *lua.LState, fn *lua.LFunction, args ...lua.LValue) error {
	L.Push(fn)
	for _, arg := range args {
		L.Push(arg)
	}
	if err := L.PCall(len(args), 0, nil); err != nil {
		return fmt.Errorf("lua call: %w", err)
	}
	return nil
}

// tableString reads a string field, or "".
func tableString(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// tableFunc reads a function field, or nil.
func tableFunc(t *lua.LTable, key string) *lua.LFunction {
	if fn, ok := t.RawGetString(key).(*lua.LFunction); ok {
		return fn
	}
	return nil
}

// tableTable reads a table field, or nil.
func tableTable(t *lua.LTable, key string) *lua.LTable {
	if sub, ok := t.RawGetString(key).(*lua.LTable); ok {
		return sub
	}
	return nil
}

// toGoValue converts a Lua value for store-slice installation. Functions and
// userdata do not cross into the store.
func toGoValue(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		m := make(map[string]any)
		v.ForEach(func(k, val lua.LValue) {
			m[k.String()] = toGoValue(val)
		})
		return m
	default:
		return nil
	}
}
