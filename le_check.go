//go:build amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm

// le_check.go - the bus and DRAM backend assume a little-endian host
// (multi-byte loads/stores use binary.LittleEndian directly on the
// backing slice rather than going through per-byte shifts).
//
// This file compiles on known LE targets. The sibling file be_unsupported.go
// contains a deliberate compile error for any architecture not listed here.

package main
