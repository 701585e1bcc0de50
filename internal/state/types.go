package state

// Vec3 is a position or extent in the region's coordinate space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Facing is a view direction in degrees.
type Facing struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Transform is a position plus facing, used for spawn/resume points.
type Transform struct {
	Position Vec3
	Facing   Facing
}

// Faction is one of the competing sides. ID is the manager-assigned global ID
// (-1 until known); Index is the stable local index used everywhere else.
type Faction struct {
	ID    int64
	Index int
	Name  string
	Color string
	Score int
}

// Area is a spatial subdivision of a region. Discovered from level geometry at
// startup; Index is assigned in discovery order and never changes.
type Area struct {
	ID       int64
	RegionID int64
	Index    int
	Name     string
	Position Vec3
	Size     Vec3
	ServerID int64
}

// Objective is a contestable point of faction control. FactionIndex is -1
// while unclaimed. AreaIndex is -1 when the objective sits outside any area.
type Objective struct {
	ID                     int64
	RegionID               int64
	Index                  int
	Name                   string
	Position               Vec3
	InitialFactionID       int64
	InitialFactionIndex    int
	FactionID              int64
	FactionIndex           int
	AreaID                 int64
	AreaIndex              int
	LinkedObjectiveIDs     []int64
	LinkedObjectiveIndexes []int
}

// Server is any node in the region, including this one.
type Server struct {
	ID          int64
	RegionID    int64
	Enabled     bool
	Active      bool
	PrivateAddr string
	PublicAddr  string
	PublicPort  int
	AreaIDs     []int64
	AreaIndexes []int
}
