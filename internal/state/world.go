package state

import "sync"

// World is the single in-memory registry of factions, areas, objectives and
// sibling servers known to this node, plus the set of areas this node actively
// simulates. Collections are replaced wholesale from manager responses and
// events; everything else only reads.
//
// Collections are small (tens to low hundreds of entries) so lookups are
// linear scans. Finders return nil when nothing matches.
type World struct {
	mu sync.RWMutex

	serverID int64
	regionID int64

	activeAreaIndexes []int

	factions   []Faction
	areas      []Area
	objectives []Objective
	servers    []Server
}

func NewWorld(serverID, regionID int64) *World {
	return &World{
		serverID: serverID,
		regionID: regionID,
	}
}

func (w *World) ServerID() int64 { return w.serverID }
func (w *World) RegionID() int64 { return w.regionID }

// ActiveAreaIndexes returns a copy of the active-area index set.
func (w *World) ActiveAreaIndexes() []int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]int, len(w.activeAreaIndexes))
	copy(out, w.activeAreaIndexes)
	return out
}

// SetActiveAreaIndexes replaces the active-area index set. Ownership is
// manager-driven: this is only called from local discovery defaults and from
// ServerUpdated events naming this node.
func (w *World) SetActiveAreaIndexes(indexes []int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.activeAreaIndexes = append([]int(nil), indexes...)
}

// IsAreaActive reports whether this node simulates the given area index.
func (w *World) IsAreaActive(areaIndex int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.isAreaActiveLocked(areaIndex)
}

func (w *World) isAreaActiveLocked(areaIndex int) bool {
	for _, idx := range w.activeAreaIndexes {
		if idx == areaIndex {
			return true
		}
	}
	return false
}

func (w *World) SetFactions(factions []Faction) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.factions = append([]Faction(nil), factions...)
}

func (w *World) SetAreas(areas []Area) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.areas = append([]Area(nil), areas...)
}

func (w *World) SetObjectives(objectives []Objective) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.objectives = append([]Objective(nil), objectives...)
}

func (w *World) SetServers(servers []Server) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.servers = append([]Server(nil), servers...)
}

func (w *World) NumFactions() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.factions)
}

// Factions returns a copy of the faction list.
func (w *World) Factions() []Faction {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return append([]Faction(nil), w.factions...)
}

// Areas returns a copy of the area list.
func (w *World) Areas() []Area {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return append([]Area(nil), w.areas...)
}

// Objectives returns a copy of the objective list.
func (w *World) Objectives() []Objective {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return append([]Objective(nil), w.objectives...)
}

func (w *World) FindFactionByID(id int64) *Faction {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for i := range w.factions {
		if w.factions[i].ID == id {
			return &w.factions[i]
		}
	}
	return nil
}

func (w *World) FindFactionByIndex(index int) *Faction {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for i := range w.factions {
		if w.factions[i].Index == index {
			return &w.factions[i]
		}
	}
	return nil
}

func (w *World) FindAreaByID(id int64) *Area {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for i := range w.areas {
		if w.areas[i].ID == id {
			return &w.areas[i]
		}
	}
	return nil
}

func (w *World) FindAreaByIndex(index int) *Area {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for i := range w.areas {
		if w.areas[i].Index == index {
			return &w.areas[i]
		}
	}
	return nil
}

func (w *World) FindAreaByRegionAndIndex(regionID int64, index int) *Area {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for i := range w.areas {
		if w.areas[i].RegionID == regionID && w.areas[i].Index == index {
			return &w.areas[i]
		}
	}
	return nil
}

func (w *World) FindObjectiveByID(id int64) *Objective {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.findObjectiveByIDLocked(id)
}

func (w *World) findObjectiveByIDLocked(id int64) *Objective {
	for i := range w.objectives {
		if w.objectives[i].ID == id {
			return &w.objectives[i]
		}
	}
	return nil
}

func (w *World) FindObjectiveByIndex(index int) *Objective {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.findObjectiveByIndexLocked(index)
}

func (w *World) findObjectiveByIndexLocked(index int) *Objective {
	for i := range w.objectives {
		if w.objectives[i].Index == index {
			return &w.objectives[i]
		}
	}
	return nil
}

func (w *World) FindObjectiveByRegionAndIndex(regionID int64, index int) *Objective {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for i := range w.objectives {
		if w.objectives[i].RegionID == regionID && w.objectives[i].Index == index {
			return &w.objectives[i]
		}
	}
	return nil
}

func (w *World) FindServerByID(id int64) *Server {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.findServerByIDLocked(id)
}

func (w *World) findServerByIDLocked(id int64) *Server {
	for i := range w.servers {
		if w.servers[i].ID == id {
			return &w.servers[i]
		}
	}
	return nil
}

func (w *World) FindServerByAreaID(areaID int64) *Server {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for i := range w.servers {
		for _, id := range w.servers[i].AreaIDs {
			if id == areaID {
				return &w.servers[i]
			}
		}
	}
	return nil
}

// ApplyServerUpdate replaces the record for a server reported by the manager,
// inserting it if the server was not known yet.
func (w *World) ApplyServerUpdate(rec Server) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s := w.findServerByIDLocked(rec.ID); s != nil {
		*s = rec
		return
	}

	w.servers = append(w.servers, rec)
}

// SetObjectiveOwner records a change of ownership and returns a copy of the
// updated objective, or nil when the objective is unknown. Ownership changes
// flow exclusively through the capture engine.
func (w *World) SetObjectiveOwner(objectiveIndex int, faction *Faction) *Objective {
	w.mu.Lock()
	defer w.mu.Unlock()

	obj := w.findObjectiveByIndexLocked(objectiveIndex)
	if obj == nil {
		return nil
	}

	obj.FactionID = faction.ID
	obj.FactionIndex = faction.Index

	cp := *obj
	return &cp
}
