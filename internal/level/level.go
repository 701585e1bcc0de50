// Package level discovers this node's local view of the world from authored
// level geometry. Areas and objectives are JSON assets on disk; discovery
// assigns dense zero-based local indexes in load order, resolves objective
// area membership by bounding-volume containment, and resolves and checks the
// authored objective link graph. The result seeds the world state before the
// manager overwrites it with globally-IDed records.
package level

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-frontline/internal/state"
)

// Level is the discovered local geometry, expressed as world-state records
// (global IDs still unassigned, -1).
type Level struct {
	Areas      []state.Area
	Objectives []state.Objective

	// ActiveAreaIndexes is the provisional active set used until the manager
	// assigns the real one: just the first discovered area.
	ActiveAreaIndexes []int
}

// Discover loads the authored areas and objectives for this node's region.
// Index assignment follows asset load order, which is sorted by filename, so
// repeated discovery of the same layout yields the same indexes.
func Discover(areasDir, objectivesDir string, serverID, regionID int64) (*Level, error) {
	areaAssets, err := loadAssets[*AreaSpec](areasDir)
	if err != nil {
		return nil, fmt.Errorf("loading areas: %w", err)
	}

	objectiveAssets, err := loadAssets[*ObjectiveSpec](objectivesDir)
	if err != nil {
		return nil, fmt.Errorf("loading objectives: %w", err)
	}

	lvl := &Level{}

	for i, a := range areaAssets {
		lvl.Areas = append(lvl.Areas, state.Area{
			ID:       -1,
			RegionID: regionID,
			Index:    i,
			Name:     a.Spec.Name,
			Position: a.Spec.Position,
			Size:     a.Spec.Size,
			ServerID: serverID,
		})
	}

	if len(lvl.Areas) == 0 {
		// A level with no authored areas still needs one covering the play
		// space, or nothing would ever be capturable.
		slog.Warn("no areas authored, generating a default area covering the level")
		lvl.Areas = append(lvl.Areas, state.Area{
			ID:       -1,
			RegionID: regionID,
			Index:    0,
			Name:     "A",
			Size:     state.Vec3{X: 10000, Y: 10000, Z: 10000},
			ServerID: serverID,
		})
	}

	lvl.ActiveAreaIndexes = []int{lvl.Areas[0].Index}

	if err := lvl.buildObjectives(objectiveAssets, regionID); err != nil {
		return nil, err
	}

	return lvl, nil
}

func (l *Level) buildObjectives(assets []asset[*ObjectiveSpec], regionID int64) error {
	indexByID := make(map[string]int, len(assets))
	for i, a := range assets {
		indexByID[a.Identifier] = i
	}

	for i, a := range assets {
		initialFaction := -1
		if a.Spec.InitialFactionIndex != nil {
			initialFaction = *a.Spec.InitialFactionIndex
		}

		areaIndex := l.containingAreaIndex(a.Spec.Position)
		if areaIndex == -1 {
			slog.Warn("objective is not within an area", "objective", a.Spec.Name)
		}

		links := make([]int, 0, len(a.Spec.Links))
		for _, target := range a.Spec.Links {
			ti, ok := indexByID[target]
			if !ok {
				return fmt.Errorf("objective %q links to unknown objective %q", a.Identifier, target)
			}
			links = append(links, ti)
		}

		l.Objectives = append(l.Objectives, state.Objective{
			ID:                     -1,
			RegionID:               regionID,
			Index:                  i,
			Name:                   a.Spec.Name,
			Position:               a.Spec.Position,
			InitialFactionID:       -1,
			InitialFactionIndex:    initialFaction,
			FactionID:              -1,
			FactionIndex:           initialFaction,
			AreaID:                 -1,
			AreaIndex:              areaIndex,
			LinkedObjectiveIndexes: links,
		})
	}

	return l.checkLinkSymmetry(assets)
}

// checkLinkSymmetry enforces that a link from A to B is matched by a link
// from B back to A. This is an authoring invariant: runtime code relies on it
// and never re-checks.
func (l *Level) checkLinkSymmetry(assets []asset[*ObjectiveSpec]) error {
	for i := range l.Objectives {
		for _, j := range l.Objectives[i].LinkedObjectiveIndexes {
			if !containsInt(l.Objectives[j].LinkedObjectiveIndexes, i) {
				return fmt.Errorf("objective %q links to %q without a back-link",
					assets[i].Identifier, assets[j].Identifier)
			}
		}
	}
	return nil
}

// containingAreaIndex returns the index of the first area whose bounding
// volume contains p, or -1. Area.Size is the full extent of the box centered
// on Area.Position.
func (l *Level) containingAreaIndex(p state.Vec3) int {
	for i := range l.Areas {
		a := &l.Areas[i]
		if abs(p.X-a.Position.X)*2 <= a.Size.X &&
			abs(p.Y-a.Position.Y)*2 <= a.Size.Y &&
			abs(p.Z-a.Position.Z)*2 <= a.Size.Z {
			return a.Index
		}
	}
	return -1
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
