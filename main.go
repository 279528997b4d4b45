// main.go - Entry point for rv64emu

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

const defaultMemSize = 128 * 1024 * 1024

func main() {
	imagePath := flag.String("f", "", "load a hex-text memory image")
	memSize := flag.Uint64("m", defaultMemSize, "override DRAM size, in bytes")
	elfPath := flag.String("elf", "", "load an ELF64 executable")
	drivePath := flag.String("drive", "", "VirtIO block backing file")
	debugFlag := flag.String("debug", "", "enable the debugger; optional hex address to free-run until")
	features := flag.Bool("features", false, "print compiled features and exit")
	flag.Parse()

	if *features {
		printFeatures()
		return
	}

	// flag.String can't distinguish "flag absent" from "flag given with an
	// empty value", and --debug's address argument is optional, so the
	// presence of the flag itself (not its value) decides whether the
	// debugger is enabled.
	debugEnabled := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "debug" {
			debugEnabled = true
		}
	})

	dram := NewDram(*memSize)
	var bootMtime, bootMtimecmp uint64
	bus := NewBus(dram, &bootMtime, &bootMtimecmp) // rewired onto the Cpu's own counters by NewCpu

	uart := NewUart()
	bus.RegisterDevice(UartBase, UartEnd, uart)
	bus.AttachUartDebug(uart)

	plic := NewPlic()
	bus.RegisterDevice(PlicBase, PlicEnd, plic)

	virtio := NewVirtio()
	bus.RegisterDevice(VirtioBase, VirtioEnd, virtio)
	virtio.AttachBus(bus)
	if *drivePath != "" {
		data, err := os.ReadFile(*drivePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rv64emu: --drive: %v\n", err)
			os.Exit(1)
		}
		virtio.AttachBacking(data)
	}

	cpu := NewCpu(bus, *memSize)

	switch {
	case *elfPath != "":
		entry, err := LoadELFFile(*elfPath, dram)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rv64emu: %v\n", err)
			os.Exit(1)
		}
		cpu.pc = entry
		cpu.reg.Set(2, StackBottom) // sp
	case *imagePath != "":
		if err := LoadHexImageFile(*imagePath, dram); err != nil {
			fmt.Fprintf(os.Stderr, "rv64emu: %v\n", err)
			os.Exit(1)
		}
		cpu.reg.Set(2, StackBottom)
	default:
		fmt.Fprintln(os.Stderr, "rv64emu: nothing to run; pass -f or --elf")
		os.Exit(1)
	}

	if !debugEnabled {
		runInteractive(cpu, uart)
		return
	}

	mon := NewMonitor(cpu, os.Stdin, os.Stdout)
	if *debugFlag == "" {
		mon.RunSingleStep()
		return
	}
	addr, err := strconv.ParseUint(trimHexPrefix(*debugFlag), 16, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv64emu: --debug: bad address %q\n", *debugFlag)
		os.Exit(1)
	}
	mon.RunFreeUntil(addr)
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		return s[2:]
	}
	return s
}

// runInteractive drives the CPU to completion with the UART wired to the
// host terminal, for a non-debugger run. There is no halt instruction in
// this instruction set, so this is the same free-run loop the debugger's
// RunFreeUntil uses, just without a stopping address: the host kills the
// process to end the session.
func runInteractive(cpu *Cpu, uart *Uart) {
	host := NewUartHost(uart)
	host.Start()
	defer host.Stop()

	for {
		cpu.Step()
	}
}
