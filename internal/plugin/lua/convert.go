package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// ToGoValue converts scalars and tables. Sequences become []any, other
// tables map[string]any; functions and cycles become nil.
func ToGoValue(lv lua.LValue) any {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
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
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = toGo(v, visited)
	})
	return m
}

// StringList reads a sequence of strings. ok is false if any element is
// not a string or the table has non-sequence keys.
func StringList(t *lua.LTable) (list []string, ok bool) {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })
	if count != n {
		return nil, false
	}
	list = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, isStr := t.RawGetInt(i).(lua.LString)
		if !isStr {
			return nil, false
		}
		list = append(list, string(s))
	}
	return list, true
}
