package state

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestWorldFinders(t *testing.T) {
	w := NewWorld(7, 3)
	w.SetFactions([]Faction{
		{ID: 1, Index: 0, Name: "Alpha"},
		{ID: 2, Index: 1, Name: "Beta"},
	})
	w.SetAreas([]Area{
		{ID: 10, RegionID: 3, Index: 0, Name: "A"},
		{ID: 11, RegionID: 4, Index: 0, Name: "B"},
	})
	w.SetObjectives([]Objective{
		{ID: 100, RegionID: 3, Index: 0, Name: "North"},
	})
	w.SetServers([]Server{
		{ID: 7, RegionID: 3, AreaIDs: []int64{10}},
		{ID: 8, RegionID: 4, AreaIDs: []int64{11}},
	})

	if f := w.FindFactionByID(2); f == nil || f.Name != "Beta" {
		t.Errorf("FindFactionByID(2) = %v, want Beta", f)
	}
	if f := w.FindFactionByIndex(0); f == nil || f.Name != "Alpha" {
		t.Errorf("FindFactionByIndex(0) = %v, want Alpha", f)
	}
	if f := w.FindFactionByID(99); f != nil {
		t.Errorf("FindFactionByID(99) = %v, want nil", f)
	}

	if a := w.FindAreaByRegionAndIndex(4, 0); a == nil || a.Name != "B" {
		t.Errorf("FindAreaByRegionAndIndex(4, 0) = %v, want B", a)
	}
	if o := w.FindObjectiveByID(100); o == nil || o.Name != "North" {
		t.Errorf("FindObjectiveByID(100) = %v, want North", o)
	}
	if s := w.FindServerByAreaID(11); s == nil || s.ID != 8 {
		t.Errorf("FindServerByAreaID(11) = %v, want server 8", s)
	}
	if s := w.FindServerByAreaID(99); s != nil {
		t.Errorf("FindServerByAreaID(99) = %v, want nil", s)
	}
}

func TestWorldActiveAreas(t *testing.T) {
	w := NewWorld(1, 1)
	w.SetActiveAreaIndexes([]int{0, 2})

	testutil.AssertEqual(t, "area 0", w.IsAreaActive(0), true)
	testutil.AssertEqual(t, "area 1", w.IsAreaActive(1), false)
	testutil.AssertEqual(t, "area 2", w.IsAreaActive(2), true)

	w.SetActiveAreaIndexes([]int{1})
	testutil.AssertEqual(t, "area 0 after replace", w.IsAreaActive(0), false)
	testutil.AssertEqual(t, "area 1 after replace", w.IsAreaActive(1), true)
}

func TestSetObjectiveOwner(t *testing.T) {
	w := NewWorld(1, 1)
	w.SetFactions(DefaultFactions())
	w.SetObjectives([]Objective{
		{ID: 100, Index: 0, FactionID: -1, FactionIndex: -1},
	})

	fac := w.FindFactionByIndex(1)
	updated := w.SetObjectiveOwner(0, fac)
	if updated == nil {
		t.Fatal("expected updated objective")
	}
	testutil.AssertEqual(t, "returned faction index", updated.FactionIndex, 1)
	testutil.AssertEqual(t, "returned faction id", updated.FactionID, fac.ID)
	testutil.AssertEqual(t, "stored faction index", w.FindObjectiveByIndex(0).FactionIndex, 1)

	if got := w.SetObjectiveOwner(42, fac); got != nil {
		t.Errorf("SetObjectiveOwner(42) = %v, want nil", got)
	}
}

func TestApplyServerUpdate(t *testing.T) {
	w := NewWorld(1, 1)
	w.SetServers([]Server{{ID: 2, RegionID: 1, PrivateAddr: "10.0.0.2"}})

	// Update to a known server replaces the record.
	w.ApplyServerUpdate(Server{ID: 2, RegionID: 1, PrivateAddr: "10.0.0.20", Active: true})
	s := w.FindServerByID(2)
	if s == nil {
		t.Fatal("expected server 2")
	}
	testutil.AssertEqual(t, "replaced addr", s.PrivateAddr, "10.0.0.20")
	testutil.AssertEqual(t, "replaced active", s.Active, true)

	// Update for an unknown server inserts it.
	w.ApplyServerUpdate(Server{ID: 3, RegionID: 1})
	if w.FindServerByID(3) == nil {
		t.Error("expected server 3 to be inserted")
	}
}

func TestFactionColorSafe(t *testing.T) {
	w := NewWorld(1, 1)
	w.SetFactions(DefaultFactions())

	testutil.AssertEqual(t, "known faction", w.FactionColorSafe(0), "#FFFF00")
	testutil.AssertEqual(t, "unclaimed", w.FactionColorSafe(-1), "#7F7F7F")
	testutil.AssertEqual(t, "out of range", w.FactionColorSafe(9), "#7F7F7F")
}
