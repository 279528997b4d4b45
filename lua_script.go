// lua_script.go - Lua scripting hook for the debugger's `script` command

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// RunLuaScript loads and executes path against cpu, exposing step(),
// reg(name), setreg(name, val), peek(addr), and poke(addr, val) as global
// Lua functions. This is the monitor's `script` command, a small sandbox
// standing in for the semicolon-macro language the engine this replaces
// used for batch debugger commands.
func RunLuaScript(cpu DebuggableCPU, path string) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("step", L.NewFunction(func(L *lua.LState) int {
		cpu.Step()
		return 0
	}))

	L.SetGlobal("reg", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		for _, r := range cpu.GetRegisters() {
			if r.Name == name {
				L.Push(lua.LNumber(r.Value))
				return 1
			}
		}
		L.Push(lua.LNumber(0))
		return 1
	}))

	L.SetGlobal("setreg", L.NewFunction(func(L *lua.LState) int {
		// Only pc is writable through this hook; the general registers are
		// exposed read-only since nothing else in the debugger surface
		// needs to mutate them, and cpu.reg.Set is unexported outside cpu.go.
		name := L.CheckString(1)
		val := uint64(L.CheckNumber(2))
		if name == "pc" {
			if c, ok := cpu.(*Cpu); ok {
				c.pc = val
			}
		}
		return 0
	}))

	L.SetGlobal("peek", L.NewFunction(func(L *lua.LState) int {
		addr := uint64(L.CheckNumber(1))
		data, err := cpu.ReadMemory(addr, 1)
		if err != nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(data[0]))
		return 1
	}))

	L.SetGlobal("poke", L.NewFunction(func(L *lua.LState) int {
		addr := uint64(L.CheckNumber(1))
		val := byte(L.CheckNumber(2))
		if c, ok := cpu.(*Cpu); ok {
			mem := c.bus.Dram().Bytes()
			off := addr - MemOff
			if addr >= MemOff && off < uint64(len(mem)) {
				mem[off] = val
			}
		}
		return 0
	}))

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}
