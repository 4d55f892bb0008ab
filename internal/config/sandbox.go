package config

import (
	lua "github.com/yuin/gopher-lua"
)

// newSandboxedVM returns a Lua state stripped of everything that can reach
// the filesystem, spawn processes or load more code. string, table and math
// stay available.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	for _, name := range []string{"os", "io", "require", "dofile", "loadfile", "load", "loadstring", "debug", "module", "package"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
