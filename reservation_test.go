package main

import "testing"

func TestReservationSetAndTest(t *testing.T) {
	r := NewReservations(4096)
	r.Set(0x100, 4)
	if !r.Test(0x100, 4) {
		t.Fatalf("expected reservation held at 0x100/4")
	}
	if r.Test(0x100, 8) {
		t.Fatalf("width mismatch should not test true")
	}
	if r.Test(0x104, 4) {
		t.Fatalf("address mismatch should not test true")
	}
}

func TestReservationClear(t *testing.T) {
	r := NewReservations(4096)
	r.Set(0x200, 8)
	r.Clear()
	if r.Test(0x200, 8) {
		t.Fatalf("expected no reservation held after Clear")
	}
}

func TestReservationLRSCSuccessScenario(t *testing.T) {
	r := NewReservations(4096)
	r.Set(0x40, 8)
	ok := r.Test(0x40, 8)
	r.Clear()
	if !ok {
		t.Fatalf("SC immediately following LR at the same address should succeed")
	}
	if r.Test(0x40, 8) {
		t.Fatalf("SC must unconditionally clear the reservation")
	}
}

func TestReservationSecondSCFailsAfterClear(t *testing.T) {
	r := NewReservations(4096)
	r.Set(0x40, 4)
	r.Test(0x40, 4)
	r.Clear()
	if r.Test(0x40, 4) {
		t.Fatalf("a second SC without an intervening LR must fail")
	}
}

func TestNewReservationsHandlesTinyMemory(t *testing.T) {
	r := NewReservations(0)
	if len(r.bits) == 0 {
		t.Fatalf("expected at least one byte of reservation bitmap")
	}
}
