package plugin

import (
	"context"

	"github.com/dshills/cellgl/internal/notification"
	plua "github.com/dshills/cellgl/internal/plugin/lua"
	lua "github.com/yuin/gopher-lua"
)

func (h *Host) moduleFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"notify":  h.luaNotify,
		"error":   h.kindFunc(notification.KindError),
		"warning": h.kindFunc(notification.KindWarning),
		"info":    h.kindFunc(notification.KindInfo),
		"success": h.kindFunc(notification.KindSuccess),
		"log":     h.luaLog,
	}
}

// cellgl.notify(kind, title, message)
func (h *Host) luaNotify(L *lua.LState) int {
	kind, err := notification.ParseKind(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	return h.publish(L, kind, 2)
}

// kindFunc builds cellgl.<kind>(title, message).
func (h *Host) kindFunc(kind notification.Kind) lua.LGFunction {
	return func(L *lua.LState) int {
		return h.publish(L, kind, 1)
	}
}

func (h *Host) publish(L *lua.LState, kind notification.Kind, first int) int {
	title := L.CheckString(first)
	msg := checkMessage(L, first+1)

	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	n := notification.Notification{Kind: kind, Title: title, Message: msg}
	if err := notification.Publish(ctx, h.bus, n); err != nil {
		L.RaiseError("publish %s notification: %v", kind, err)
	}
	return 0
}

// checkMessage accepts nil, a string or a sequence of strings.
func checkMessage(L *lua.LState, n int) notification.Message {
	switch v := L.Get(n).(type) {
	case *lua.LNilType:
		return notification.Text("")
	case lua.LString:
		return notification.Text(string(v))
	case *lua.LTable:
		lines, ok := plua.StringList(v)
		if !ok {
			L.ArgError(n, "message table must be a sequence of strings")
		}
		return notification.Lines(lines...)
	default:
		L.TypeError(n, lua.LTString)
	}
	return notification.Message{}
}

// cellgl.log(msg)
func (h *Host) luaLog(L *lua.LState) int {
	h.log.Info("lua: %s", L.ToStringMeta(L.CheckAny(1)).String())
	return 0
}
