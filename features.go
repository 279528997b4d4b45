package main

import (
	"fmt"
	"runtime"
	"sort"
)

// Version is the emulator's reported version string.
const Version = "0.1.0"

// compiledFeatures tracks build-time feature flags via init() registration.
var compiledFeatures []string

func init() {
	compiledFeatures = append(compiledFeatures,
		"rv64ima", "sv39-mmu", "pmp", "uart-16550", "plic", "virtio-blk-mmio", "lua-script")
}

func printFeatures() {
	fmt.Printf("rv64emu %s\n", Version)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Compiled features:")

	sort.Strings(compiledFeatures)
	for _, f := range compiledFeatures {
		fmt.Printf("  %s\n", f)
	}
	if len(compiledFeatures) == 0 {
		fmt.Println("  (none)")
	}
}
