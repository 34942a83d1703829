package conflict

import (
	"testing"
)

func TestHasOverlapHalfOpen(t *testing.T) {
	ix := NewIndex()
	key := Key("Park-A/Field-1", "2025-05-03")
	ix.Add(key, 600, 690) // 10:00-11:30

	if !ix.HasOverlap(key, 660, 720) { // 11:00-12:00
		t.Error("11:00-12:00 must conflict with 10:00-11:30")
	}
	if ix.HasOverlap(key, 690, 750) { // 11:30-12:30 shares only an edge
		t.Error("11:30-12:30 must not conflict with 10:00-11:30")
	}
	if ix.OverlapCount(key, 660, 720) != 1 {
		t.Error("expected exactly one conflicting range")
	}
}

func TestKeyIsCaseInsensitiveOnField(t *testing.T) {
	if Key("Park-A/Field-1", "2025-05-03") != Key("park-a/field-1", "2025-05-03") {
		t.Error("field keys must compare case-insensitively")
	}
	if Key("park-a/field-1", "2025-05-03") == Key("park-a/field-1", "2025-05-04") {
		t.Error("different dates must bucket separately")
	}
}

func TestSplitByOverlapOrderSensitiveAndTotal(t *testing.T) {
	ix := NewIndex()
	ix.Add(Key("park-a/field-1", "2025-05-03"), 600, 660)

	candidates := []Candidate{
		{SlotID: "c1", FieldKey: "park-a/field-1", GameDate: "2025-05-03", StartMin: 630, EndMin: 690}, // hits preload
		{SlotID: "c2", FieldKey: "park-a/field-1", GameDate: "2025-05-03", StartMin: 660, EndMin: 720}, // fits
		{SlotID: "c3", FieldKey: "park-a/field-1", GameDate: "2025-05-03", StartMin: 660, EndMin: 720}, // duplicate of c2
		{SlotID: "c4", FieldKey: "park-b/field-9", GameDate: "2025-05-03", StartMin: 600, EndMin: 660}, // other field
	}

	accepted, conflicts := ix.SplitByOverlap(candidates)
	if len(accepted)+len(conflicts) != len(candidates) {
		t.Fatalf("split must be total: %d + %d != %d", len(accepted), len(conflicts), len(candidates))
	}
	if len(accepted) != 2 || accepted[0].SlotID != "c2" || accepted[1].SlotID != "c4" {
		t.Fatalf("unexpected accepted set: %+v", accepted)
	}
	if len(conflicts) != 2 || conflicts[0].SlotID != "c1" || conflicts[1].SlotID != "c3" {
		t.Fatalf("unexpected conflict set: %+v", conflicts)
	}
}

func TestSplitByOverlapFirstWinsWithinBatch(t *testing.T) {
	ix := NewIndex()
	candidates := []Candidate{
		{SlotID: "a", FieldKey: "park-a/field-1", GameDate: "2025-06-01", StartMin: 540, EndMin: 600},
		{SlotID: "b", FieldKey: "park-a/field-1", GameDate: "2025-06-01", StartMin: 540, EndMin: 600},
	}
	accepted, conflicts := ix.SplitByOverlap(candidates)
	if len(accepted) != 1 || accepted[0].SlotID != "a" {
		t.Fatalf("first candidate must win, got %+v", accepted)
	}
	if len(conflicts) != 1 || conflicts[0].SlotID != "b" {
		t.Fatalf("second candidate must conflict, got %+v", conflicts)
	}
}
