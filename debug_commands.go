// debug_commands.go - Command parser and handlers for the monitor

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// MonitorCommand is a parsed REPL line. Name is empty for a bare step
// (an empty line steps one instruction).
type MonitorCommand struct {
	Name string
	Args []string
}

// ParseCommand splits a raw input line into a command name and arguments,
// lower-casing the command name so abbreviations are case-insensitive. It
// never fails: an unrecognized or malformed line comes back as a command
// ExecuteCommand silently ignores, so the REPL recovers from bad input
// without aborting.
func ParseCommand(input string) MonitorCommand {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return MonitorCommand{}
	}
	return MonitorCommand{Name: strings.ToLower(fields[0]), Args: fields[1:]}
}

// parseHex parses a bare or 0x-prefixed hex address.
func parseHex(s string) (uint64, bool) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	return v, err == nil
}

// ExecuteCommand runs one parsed command against the monitor's CPU.
func ExecuteCommand(m *Monitor, cmd MonitorCommand) {
	switch cmd.Name {
	case "":
		m.cpu.Step()
		printRegisters(m)

	case "p":
		printRegisters(m)

	case "m":
		if len(cmd.Args) != 2 {
			return
		}
		begin, ok1 := parseHex(cmd.Args[0])
		end, ok2 := parseHex(cmd.Args[1])
		if !ok1 || !ok2 || end < begin {
			return
		}
		dumpMemory(m, begin, end)

	case "uart":
		fmt.Fprintln(m.out, m.cpu.UartDump())

	case "b":
		if len(cmd.Args) != 1 {
			return
		}
		addr, ok := parseHex(cmd.Args[0])
		if !ok {
			return
		}
		m.cpu.SetBreakpoint(addr)
		for m.cpu.GetPC() != addr {
			m.cpu.Step()
		}
		m.cpu.ClearBreakpoint()
		printRegisters(m)

	case "script":
		if len(cmd.Args) != 1 {
			return
		}
		if err := RunLuaScript(m.cpu, cmd.Args[0]); err != nil {
			fmt.Fprintln(m.out, err)
		}
	}
}

func printRegisters(m *Monitor) {
	for _, r := range m.cpu.GetRegisters() {
		fmt.Fprintf(m.out, "%-8s = %016x\n", r.Name, r.Value)
	}
}

// dumpMemory prints [begin, end) 16 bytes per row, hex-addressed.
func dumpMemory(m *Monitor, begin, end uint64) {
	for addr := begin; addr < end; addr += 16 {
		n := end - addr
		if n > 16 {
			n = 16
		}
		data, err := m.cpu.ReadMemory(addr, int(n))
		if err != nil {
			fmt.Fprintf(m.out, "%016x: <fault>\n", addr)
			continue
		}
		fmt.Fprintf(m.out, "%016x: % x\n", addr, data)
	}
}
