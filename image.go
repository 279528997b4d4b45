package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// LoadHexImage parses a whitespace-trimmed hex-text memory image and
// writes it into dram starting at offset 0, per spec's `-f` format: each
// pair of hex digits is one byte, and each run of four bytes is a 32-bit
// word written in little-endian order, so the byte order within every
// 4-byte chunk is reversed relative to how it reads in the source text.
func LoadHexImage(text string, dram *Dram) error {
	clean := strings.Join(strings.Fields(text), "")
	if len(clean)%2 != 0 {
		return fmt.Errorf("image: odd number of hex digits")
	}
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return fmt.Errorf("image: %w", err)
	}

	mem := dram.Bytes()
	if uint64(len(raw)) > uint64(len(mem)) {
		return fmt.Errorf("image: %d bytes exceeds dram size %d", len(raw), len(mem))
	}

	for i := 0; i+4 <= len(raw); i += 4 {
		mem[i], mem[i+1], mem[i+2], mem[i+3] = raw[i+3], raw[i+2], raw[i+1], raw[i]
	}
	// A trailing partial word (not a multiple of 4 bytes) is copied as-is.
	if rem := len(raw) % 4; rem != 0 {
		copy(mem[len(raw)-rem:len(raw)], raw[len(raw)-rem:])
	}

	return nil
}

// LoadHexImageFile reads path and loads it via LoadHexImage.
func LoadHexImageFile(path string, dram *Dram) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("image: %w", err)
	}
	return LoadHexImage(string(data), dram)
}
