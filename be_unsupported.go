//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

// be_unsupported.go - the bus and DRAM backend store words with
// binary.LittleEndian directly on the backing slice; this fails on a
// big-endian host. See le_check.go.

package main

var _ = "rv64emu requires a little-endian architecture" + 1
