package state

// IsObjectiveTakeable reports whether the faction may legally capture the
// objective. The objective must be active on this node and not already held by
// the faction, and then either be unclaimed, be linked to an objective the
// faction already holds, have no links at all, or the faction must hold no
// active objectives anywhere (a faction with nothing may take anything).
func (w *World) IsObjectiveTakeable(objectiveIndex, factionIndex int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	obj := w.findObjectiveByIndexLocked(objectiveIndex)

	return obj != nil &&
		(obj.AreaIndex == -1 || w.isAreaActiveLocked(obj.AreaIndex)) &&
		obj.FactionIndex != factionIndex &&
		(obj.FactionIndex == -1 ||
			w.isLinkedToFriendlyLocked(obj, factionIndex) ||
			w.numActiveObjectivesByFactionLocked(factionIndex) <= 0 ||
			len(obj.LinkedObjectiveIndexes) == 0)
}

// NumActiveObjectivesByFaction counts the objectives held by the faction that
// are currently active on this node (or global, i.e. outside any area).
func (w *World) NumActiveObjectivesByFaction(factionIndex int) int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.numActiveObjectivesByFactionLocked(factionIndex)
}

func (w *World) numActiveObjectivesByFactionLocked(factionIndex int) int {
	count := 0
	for i := range w.objectives {
		obj := &w.objectives[i]
		if (obj.AreaIndex == -1 || w.isAreaActiveLocked(obj.AreaIndex)) && obj.FactionIndex == factionIndex {
			count++
		}
	}
	return count
}

// IsLinkedToFriendlyObjective reports whether any objective linked to the
// given one is already held by the faction.
func (w *World) IsLinkedToFriendlyObjective(objectiveIndex, factionIndex int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	obj := w.findObjectiveByIndexLocked(objectiveIndex)
	return obj != nil && w.isLinkedToFriendlyLocked(obj, factionIndex)
}

func (w *World) isLinkedToFriendlyLocked(obj *Objective, factionIndex int) bool {
	for _, linked := range obj.LinkedObjectiveIndexes {
		if lo := w.findObjectiveByIndexLocked(linked); lo != nil && lo.FactionIndex == factionIndex {
			return true
		}
	}
	return false
}

// IsLinkedToEnemyObjective reports whether any objective linked to the given
// one is held by some other faction. Bots use this to find frontline targets.
func (w *World) IsLinkedToEnemyObjective(objectiveIndex, factionIndex int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	obj := w.findObjectiveByIndexLocked(objectiveIndex)
	if obj == nil {
		return false
	}
	for _, linked := range obj.LinkedObjectiveIndexes {
		if lo := w.findObjectiveByIndexLocked(linked); lo != nil && lo.FactionIndex != factionIndex {
			return true
		}
	}
	return false
}
