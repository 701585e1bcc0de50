package manager

import "github.com/pixil98/go-frontline/internal/state"

// The manager lives in a right-handed coordinate space while the simulation
// is left-handed: the X axis is negated on every wire crossing, in both
// directions. wireX is the only place the flip happens.
func wireX(x float64) float64 { return -x }

type factionRecord struct {
	ID    int64  `json:"id"`
	Index int    `json:"index"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Score int    `json:"score"`
}

func (r *factionRecord) toState() state.Faction {
	return state.Faction{
		ID:    r.ID,
		Index: r.Index,
		Name:  r.Name,
		Color: r.Color,
		Score: r.Score,
	}
}

type serverRecord struct {
	ID                  int64   `json:"id"`
	RegionID            int64   `json:"regionId"`
	Enabled             bool    `json:"enabled"`
	Active              bool    `json:"active"`
	PrivateIP           string  `json:"privateIp"`
	PublicIP            string  `json:"publicIp"`
	PublicWebSocketPort int     `json:"publicWebSocketPort"`
	AreaIDs             []int64 `json:"areaIds"`
	AreaIndexes         []int   `json:"areaIndexes"`
}

func (r *serverRecord) toState() state.Server {
	return state.Server{
		ID:          r.ID,
		RegionID:    r.RegionID,
		Enabled:     r.Enabled,
		Active:      r.Active,
		PrivateAddr: r.PrivateIP,
		PublicAddr:  r.PublicIP,
		PublicPort:  r.PublicWebSocketPort,
		AreaIDs:     append([]int64(nil), r.AreaIDs...),
		AreaIndexes: append([]int(nil), r.AreaIndexes...),
	}
}

type areaSubmission struct {
	RegionID int64   `json:"regionId"`
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	SizeX    float64 `json:"sizeX"`
	SizeY    float64 `json:"sizeY"`
	SizeZ    float64 `json:"sizeZ"`
}

func areaToSubmission(a *state.Area) areaSubmission {
	return areaSubmission{
		RegionID: a.RegionID,
		Index:    a.Index,
		Name:     a.Name,
		X:        wireX(a.Position.X),
		Y:        a.Position.Y,
		Z:        a.Position.Z,
		SizeX:    a.Size.X,
		SizeY:    a.Size.Y,
		SizeZ:    a.Size.Z,
	}
}

type areaRecord struct {
	ID       int64   `json:"id"`
	RegionID int64   `json:"regionId"`
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	SizeX    float64 `json:"sizeX"`
	SizeY    float64 `json:"sizeY"`
	SizeZ    float64 `json:"sizeZ"`
	ServerID *int64  `json:"serverId"`
}

func (r *areaRecord) toState() state.Area {
	serverID := int64(-1)
	if r.ServerID != nil {
		serverID = *r.ServerID
	}
	return state.Area{
		ID:       r.ID,
		RegionID: r.RegionID,
		Index:    r.Index,
		Name:     r.Name,
		Position: state.Vec3{X: wireX(r.X), Y: r.Y, Z: r.Z},
		Size:     state.Vec3{X: r.SizeX, Y: r.SizeY, Z: r.SizeZ},
		ServerID: serverID,
	}
}

type objectiveSubmission struct {
	RegionID               int64   `json:"regionId"`
	Index                  int     `json:"index"`
	Name                   string  `json:"name"`
	X                      float64 `json:"x"`
	Y                      float64 `json:"y"`
	Z                      float64 `json:"z"`
	SizeX                  float64 `json:"sizeX"`
	SizeY                  float64 `json:"sizeY"`
	SizeZ                  float64 `json:"sizeZ"`
	InitialFactionIndex    *int    `json:"initialFactionIndex"`
	LinkedObjectiveIndexes []int   `json:"linkedObjectiveIndexes"`
	AreaIndex              int     `json:"areaIndex"`
}

func objectiveToSubmission(o *state.Objective) objectiveSubmission {
	sub := objectiveSubmission{
		RegionID:               o.RegionID,
		Index:                  o.Index,
		Name:                   o.Name,
		X:                      wireX(o.Position.X),
		Y:                      o.Position.Y,
		Z:                      o.Position.Z,
		SizeX:                  1,
		SizeY:                  1,
		SizeZ:                  1,
		LinkedObjectiveIndexes: append([]int{}, o.LinkedObjectiveIndexes...),
		AreaIndex:              o.AreaIndex,
	}
	if o.InitialFactionIndex != -1 {
		idx := o.InitialFactionIndex
		sub.InitialFactionIndex = &idx
	}
	return sub
}

type objectiveRecord struct {
	ID                     int64   `json:"id"`
	RegionID               int64   `json:"regionId"`
	Index                  int     `json:"index"`
	Name                   string  `json:"name"`
	X                      float64 `json:"x"`
	Y                      float64 `json:"y"`
	Z                      float64 `json:"z"`
	InitialFactionID       *int64  `json:"initialFactionId"`
	InitialFactionIndex    *int    `json:"initialFactionIndex"`
	FactionID              *int64  `json:"factionId"`
	FactionIndex           *int    `json:"factionIndex"`
	AreaID                 *int64  `json:"areaId"`
	AreaIndex              *int    `json:"areaIndex"`
	LinkedObjectiveIDs     []int64 `json:"linkedObjectiveIds"`
	LinkedObjectiveIndexes []int   `json:"linkedObjectiveIndexes"`
}

func (r *objectiveRecord) toState() state.Objective {
	return state.Objective{
		ID:                     r.ID,
		RegionID:               r.RegionID,
		Index:                  r.Index,
		Name:                   r.Name,
		Position:               state.Vec3{X: wireX(r.X), Y: r.Y, Z: r.Z},
		InitialFactionID:       int64OrNeg(r.InitialFactionID),
		InitialFactionIndex:    intOrNeg(r.InitialFactionIndex),
		FactionID:              int64OrNeg(r.FactionID),
		FactionIndex:           intOrNeg(r.FactionIndex),
		AreaID:                 int64OrNeg(r.AreaID),
		AreaIndex:              intOrNeg(r.AreaIndex),
		LinkedObjectiveIDs:     append([]int64(nil), r.LinkedObjectiveIDs...),
		LinkedObjectiveIndexes: append([]int(nil), r.LinkedObjectiveIndexes...),
	}
}

type joinRequest struct {
	ServerID  int64  `json:"serverId"`
	UserID    *int64 `json:"userId,omitempty"`
	FactionID *int64 `json:"factionId,omitempty"`
	Human     bool   `json:"human"`
	Token     string `json:"token,omitempty"`
}

type joinResponse struct {
	ID        int64  `json:"id"`
	FactionID int64  `json:"factionId"`
	Name      string `json:"name"`
	Token     string `json:"token"`

	// Optional resume location. Only meaningful when every field below is
	// present.
	ServerID *int64   `json:"serverId"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Z        *float64 `json:"z"`
	Yaw      *float64 `json:"yaw"`
	Pitch    *float64 `json:"pitch"`
}

// ResumeTransform returns the staged resume position carried by the response,
// flipped back into simulation space, or nil if the response has none.
func (r *joinResponse) ResumeTransform() *state.Transform {
	if r.ServerID == nil || r.X == nil || r.Y == nil || r.Z == nil || r.Yaw == nil || r.Pitch == nil {
		return nil
	}
	return &state.Transform{
		Position: state.Vec3{X: wireX(*r.X), Y: *r.Y, Z: *r.Z},
		Facing:   state.Facing{Yaw: *r.Yaw, Pitch: *r.Pitch},
	}
}

type navigateRequest struct {
	UserID            int64   `json:"userId"`
	SourceServerID    int64   `json:"sourceServerId"`
	DestinationAreaID int64   `json:"destinationAreaId"`
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	Z                 float64 `json:"z"`
	Yaw               float64 `json:"yaw"`
	Pitch             float64 `json:"pitch"`
}

type navigateResponse struct {
	DestinationServerID int64  `json:"destinationServerId"`
	IP                  string `json:"ip"`
	Port                int    `json:"port"`
	WebSocketURL        string `json:"webSocketUrl"`
}

func intOrNeg(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func int64OrNeg(p *int64) int64 {
	if p == nil {
		return -1
	}
	return *p
}
