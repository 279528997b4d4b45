package main

import "sync"

// UART register offsets from UartBase. THR/RBR/DLL, IER/DLH, and IIR/FCR
// each alias the same offset depending on LCR.DLAB; see uart.rs in the
// reference implementation this is grounded on.
const (
	UartBase = 0x1000_0000
	UartEnd  = 0x1000_0007

	uartTHR = UartBase + 0 // write: transmit holding (DLAB=0)
	uartRBR = UartBase + 0 // read:  receive buffer    (DLAB=0)
	uartDLL = UartBase + 0 // DLAB=1: divisor latch low
	uartIER = UartBase + 1 // DLAB=0: interrupt enable
	uartDLH = UartBase + 1 // DLAB=1: divisor latch high
	uartIIR = UartBase + 2 // read:  interrupt identification
	uartFCR = UartBase + 2 // write: FIFO control
	uartLCR = UartBase + 3 // line control
	uartMCR = UartBase + 4 // modem control
	uartLSR = UartBase + 5 // line status
	uartMSR = UartBase + 6 // modem status
	uartSR  = UartBase + 7 // scratch
)

// LCR bits.
const (
	lcrDLAB byte = 1 << 7 // divisor latch access bit
)

// LSR bits.
const (
	lsrRDR  byte = 1 << 0 // receive data ready
	lsrOE   byte = 1 << 1 // overrun error
	lsrTHE  byte = 1 << 5 // transmit holding register empty
	lsrTEMT byte = 1 << 6 // transmitter empty
)

// Uart is a 16550-compatible device owning its own register file. It
// keeps the ring-buffer-plus-mutex shape of the terminal device this
// replaces, but answers the real 16550 register map instead of a bespoke
// status/echo scheme: THR/RBR/DLL aliasing through LCR.DLAB, IIR/FCR,
// LSR.THE/RDR handshake. OutputFn, when set, receives every THR write
// immediately (wired to host stdout by uart_host.go); InputFn is left
// nil and bytes arrive instead via PushInput from the host adapter.
type Uart struct {
	mu sync.Mutex

	rbr byte // receive buffer
	thr byte // transmit holding (shadow, for debugger dump only)
	dll byte
	dlh byte
	ier byte
	iir byte
	fcr byte
	lcr byte
	mcr byte
	lsr byte
	msr byte
	sr  byte

	rxBuf  [256]byte
	rxHead int
	rxTail int
	rxLen  int

	OutputFn func(byte)
}

// NewUart returns a 16550 device with LSR.THE set (transmitter idle) and
// IIR reporting "no interrupt pending", matching real 16550 reset state.
func NewUart() *Uart {
	return &Uart{
		iir: 1,
		lsr: lsrTHE | lsrTEMT,
	}
}

func (u *Uart) dlab() bool {
	return u.lcr&lcrDLAB != 0
}

// Load implements Device.
func (u *Uart) Load(size, addr uint64) (uint64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch addr {
	case uartRBR: // == uartDLL
		if u.dlab() {
			return uint64(u.dll), nil
		}
		return uint64(u.readRBRLocked()), nil
	case uartIER: // == uartDLH
		if u.dlab() {
			return uint64(u.dlh), nil
		}
		return uint64(u.ier), nil
	case uartIIR:
		return uint64(u.iir), nil
	case uartLCR:
		return uint64(u.lcr), nil
	case uartMCR:
		return uint64(u.mcr), nil
	case uartLSR:
		return uint64(u.lsrLocked()), nil
	case uartMSR:
		return uint64(u.msr), nil
	case uartSR:
		return uint64(u.sr), nil
	default:
		return 0, &EmuError{Kind: InvalidAddress, Msg: "invalid read to uart register"}
	}
}

// Store implements Device.
func (u *Uart) Store(size, addr, val uint64) error {
	u.mu.Lock()
	var out byte
	var haveOut bool

	switch addr {
	case uartTHR: // == uartDLL
		if u.dlab() {
			u.dll = byte(val)
			break
		}
		u.thr = byte(val)
		out = u.thr
		haveOut = true
	case uartIER: // == uartDLH
		if u.dlab() {
			u.dlh = byte(val)
			break
		}
		u.ier = byte(val)
	case uartFCR:
		u.fcr = byte(val)
	case uartLCR:
		u.lcr = byte(val)
	case uartMCR:
		u.mcr = byte(val)
	case uartSR:
		u.sr = byte(val)
	default:
		u.mu.Unlock()
		return &EmuError{Kind: InvalidAddress, Msg: "invalid write to uart register"}
	}
	fn := u.OutputFn
	u.mu.Unlock()

	if haveOut && fn != nil {
		fn(out)
	}
	return nil
}

// readRBRLocked returns the next received byte, clearing LSR.RDR when the
// input queue drains. Caller holds u.mu.
func (u *Uart) readRBRLocked() byte {
	if u.rxLen == 0 {
		return u.rbr
	}
	b := u.rxBuf[u.rxHead]
	u.rxHead = (u.rxHead + 1) % len(u.rxBuf)
	u.rxLen--
	u.rbr = b
	return b
}

func (u *Uart) lsrLocked() byte {
	lsr := u.lsr &^ lsrRDR
	if u.rxLen > 0 {
		lsr |= lsrRDR
	}
	u.lsr = lsr
	return lsr
}

// PushInput enqueues a host keystroke into the receive FIFO. Called from
// uart_host.go's stdin reader, never from within the CPU's own goroutine.
func (u *Uart) PushInput(b byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.rxLen >= len(u.rxBuf) {
		u.lsr |= lsrOE
		return
	}
	u.rxBuf[u.rxTail] = b
	u.rxTail = (u.rxTail + 1) % len(u.rxBuf)
	u.rxLen++
}

// Dump returns a snapshot of the register file for the debugger's `uart`
// command.
func (u *Uart) Dump() [11]byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return [11]byte{u.rbr, u.dll, u.ier, u.dlh, u.iir, u.fcr, u.lcr, u.mcr, u.lsrLocked(), u.msr, u.sr}
}
