package state

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestStore_UpdateAndSnapshot(t *testing.T) {
	var s Store
	s.Reset("/var/log/app.log", 120)

	before := time.Now()
	s.Update(3, 180, nil)

	snap := s.Snapshot()
	if snap.Path != "/var/log/app.log" {
		t.Fatalf("Path = %q, want /var/log/app.log", snap.Path)
	}
	if snap.Offset != 180 {
		t.Fatalf("Offset = %d, want 180", snap.Offset)
	}
	if snap.LinesIngested != 3 {
		t.Fatalf("LinesIngested = %d, want 3", snap.LinesIngested)
	}
	if snap.LastPoll.Before(before) || snap.LastGrowth.Before(before) {
		t.Fatalf("LastPoll/LastGrowth = %v/%v, want >= %v", snap.LastPoll, snap.LastGrowth, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store
	s.Reset("app.log", 0)
	s.Update(2, 40, nil)

	origErr := errors.New("boom")
	s.Update(0, 0, origErr)

	snap := s.Snapshot()
	if snap.Offset != 40 || snap.LinesIngested != 2 {
		t.Fatalf("offset/lines changed on error: got %d/%d want 40/2", snap.Offset, snap.LinesIngested)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.IsStalled(2) {
		t.Fatal("IsStalled(2) = true, want false with 0 failures")
	}

	s.Update(0, 0, errors.New("fail 1"))
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsStalled(2) {
		t.Fatalf("after 1 failure: failures=%d stalled=%v", snap.ConsecutiveFailures, snap.IsStalled(2))
	}

	s.Update(0, 0, errors.New("fail 2"))
	if snap = s.Snapshot(); !snap.IsStalled(2) {
		t.Fatal("IsStalled(2) = false, want true with 2 failures")
	}

	s.Update(0, 10, nil)
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsStalled(2) {
		t.Fatalf("after success: failures=%d stalled=%v", snap.ConsecutiveFailures, snap.IsStalled(2))
	}
}

func TestSnapshot_IsStalledDefaultThreshold(t *testing.T) {
	snap := Snapshot{ConsecutiveFailures: DefaultStallThreshold - 1}
	if snap.IsStalled(0) {
		t.Fatal("IsStalled(0) = true below default threshold")
	}
	snap.ConsecutiveFailures++
	if !snap.IsStalled(0) {
		t.Fatal("IsStalled(0) = false at default threshold")
	}
}
