package state

// DefaultFactions returns the placeholder faction set used until the manager
// provides the real one.
func DefaultFactions() []Faction {
	return []Faction{
		{ID: 1, Index: 0, Name: "Alpha", Color: "#FFFF00"},
		{ID: 2, Index: 1, Name: "Beta", Color: "#00AAFF"},
		{ID: 3, Index: 2, Name: "Gamma", Color: "#AA00FF"},
	}
}

// FactionColorSafe returns the color of the faction at the given index, or a
// neutral gray for anything out of range (including unclaimed, -1).
func (w *World) FactionColorSafe(factionIndex int) string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if factionIndex >= 0 && factionIndex < len(w.factions) {
		return w.factions[factionIndex].Color
	}
	return "#7F7F7F"
}
