package main

import "fmt"

// ErrorKind tags the fatal-to-host conditions the core can raise. Most of
// these have an architectural counterpart that the trap unit converts into
// an exception instead of aborting the process; see trap.go.
type ErrorKind int

const (
	InvalidInstruction ErrorKind = iota
	InvalidRegister
	InvalidAddress
	MisalignedReservation
	PageFault
	PMPFault
	Unimplemented
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInstruction:
		return "InvalidInstruction"
	case InvalidRegister:
		return "InvalidRegister"
	case InvalidAddress:
		return "InvalidAddress"
	case MisalignedReservation:
		return "MisalignedReservation"
	case PageFault:
		return "PageFault"
	case PMPFault:
		return "PMPFault"
	case Unimplemented:
		return "Unimplemented"
	default:
		return "Unknown"
	}
}

// EmuError is the fatal-to-host error type. InvalidRegister and
// InvalidAddress stay fatal per spec; PageFault, PMPFault and
// InvalidInstruction are caught by the execution loop and converted into
// architectural exceptions before they ever reach main's panic handler.
type EmuError struct {
	Kind ErrorKind
	Msg  string
}

func (e *EmuError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}
