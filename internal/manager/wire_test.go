package manager

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-frontline/internal/state"
	"github.com/pixil98/go-testutil"
)

func TestAreaSubmissionFlipsX(t *testing.T) {
	a := state.Area{
		RegionID: 3,
		Index:    1,
		Name:     "East",
		Position: state.Vec3{X: 250, Y: 10, Z: -5},
		Size:     state.Vec3{X: 100, Y: 100, Z: 100},
	}

	sub := areaToSubmission(&a)
	testutil.AssertEqual(t, "x flipped", sub.X, float64(-250))
	testutil.AssertEqual(t, "y untouched", sub.Y, float64(10))
	testutil.AssertEqual(t, "z untouched", sub.Z, float64(-5))
	testutil.AssertEqual(t, "size not flipped", sub.SizeX, float64(100))
}

func TestAreaRecordFlipsXBack(t *testing.T) {
	serverID := int64(7)
	rec := areaRecord{
		ID: 10, RegionID: 3, Index: 1, Name: "East",
		X: -250, Y: 10, Z: -5,
		SizeX: 100, SizeY: 100, SizeZ: 100,
		ServerID: &serverID,
	}

	a := rec.toState()
	testutil.AssertEqual(t, "x flipped back", a.Position.X, float64(250))
	testutil.AssertEqual(t, "server id", a.ServerID, int64(7))

	rec.ServerID = nil
	testutil.AssertEqual(t, "missing server id", rec.toState().ServerID, int64(-1))
}

func TestObjectiveSubmission(t *testing.T) {
	o := state.Objective{
		RegionID:               3,
		Index:                  2,
		Name:                   "Bridge",
		Position:               state.Vec3{X: 40, Y: 1, Z: 2},
		InitialFactionIndex:    1,
		AreaIndex:              0,
		LinkedObjectiveIndexes: []int{0, 1},
	}

	sub := objectiveToSubmission(&o)
	testutil.AssertEqual(t, "x flipped", sub.X, float64(-40))
	if sub.InitialFactionIndex == nil || *sub.InitialFactionIndex != 1 {
		t.Errorf("initial faction = %v, want 1", sub.InitialFactionIndex)
	}
	testutil.AssertEqual(t, "link count", len(sub.LinkedObjectiveIndexes), 2)

	// Unclaimed objectives omit the initial faction entirely.
	o.InitialFactionIndex = -1
	if sub := objectiveToSubmission(&o); sub.InitialFactionIndex != nil {
		t.Errorf("initial faction = %v, want nil", sub.InitialFactionIndex)
	}
}

func TestObjectiveRecordOptionalFields(t *testing.T) {
	var rec objectiveRecord
	if err := json.Unmarshal([]byte(`{
		"id": 100, "regionId": 3, "index": 2, "name": "Bridge",
		"x": -40, "y": 1, "z": 2,
		"factionId": 2, "factionIndex": 1,
		"linkedObjectiveIds": [101], "linkedObjectiveIndexes": [3]
	}`), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o := rec.toState()
	testutil.AssertEqual(t, "x flipped back", o.Position.X, float64(40))
	testutil.AssertEqual(t, "faction id", o.FactionID, int64(2))
	testutil.AssertEqual(t, "faction index", o.FactionIndex, 1)
	testutil.AssertEqual(t, "missing initial faction id", o.InitialFactionID, int64(-1))
	testutil.AssertEqual(t, "missing initial faction index", o.InitialFactionIndex, -1)
	testutil.AssertEqual(t, "missing area id", o.AreaID, int64(-1))
	testutil.AssertEqual(t, "missing area index", o.AreaIndex, -1)
	testutil.AssertEqual(t, "link id", o.LinkedObjectiveIDs[0], int64(101))
	testutil.AssertEqual(t, "link index", o.LinkedObjectiveIndexes[0], 3)
}

func TestJoinResponseResumeTransform(t *testing.T) {
	var resp joinResponse
	if err := json.Unmarshal([]byte(`{
		"id": 55, "factionId": 2, "name": "Scout", "token": "tok",
		"serverId": 7, "x": -40, "y": 1, "z": 2, "yaw": 90, "pitch": -10
	}`), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr := resp.ResumeTransform()
	if tr == nil {
		t.Fatal("expected resume transform")
	}
	testutil.AssertEqual(t, "x flipped back", tr.Position.X, float64(40))
	testutil.AssertEqual(t, "yaw", tr.Facing.Yaw, float64(90))
	testutil.AssertEqual(t, "pitch", tr.Facing.Pitch, float64(-10))
}

func TestJoinResponseResumeTransform_Partial(t *testing.T) {
	tests := map[string]string{
		"no resume fields": `{"id": 55, "factionId": 2}`,
		"missing pitch":    `{"id": 55, "factionId": 2, "serverId": 7, "x": 1, "y": 2, "z": 3, "yaw": 0}`,
		"missing server":   `{"id": 55, "factionId": 2, "x": 1, "y": 2, "z": 3, "yaw": 0, "pitch": 0}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var resp joinResponse
			if err := json.Unmarshal([]byte(body), &resp); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr := resp.ResumeTransform(); tr != nil {
				t.Errorf("resume = %v, want nil", tr)
			}
		})
	}
}
