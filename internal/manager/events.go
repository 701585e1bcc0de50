package manager

// Broker subjects. The node holds one subscription (SubjectEvents, the global
// fan-out topic); the remaining subjects are publish-only destinations, so
// outbound messages carry no discriminator beyond their subject.
const (
	SubjectEvents           = "world.events"
	SubjectObjectiveTaken   = "world.objectiveTaken"
	SubjectServerStarted    = "world.serverStarted"
	SubjectServerPawns      = "world.serverPawns"
	SubjectUserDefeatedUser = "world.serverUserDefeatedUser"
)

// eventEnvelope peeks the discriminator off an inbound event.
type eventEnvelope struct {
	EventType string `json:"eventType"`
}

type objectiveTakenEvent struct {
	EventType   string `json:"eventType"`
	ObjectiveID int64  `json:"objectiveId"`
	FactionID   int64  `json:"factionId"`
}

type serverUpdatedEvent struct {
	EventType           string  `json:"eventType"`
	ServerID            int64   `json:"serverId"`
	RegionID            int64   `json:"regionId"`
	Enabled             bool    `json:"enabled"`
	Active              bool    `json:"active"`
	PrivateIP           string  `json:"privateIp"`
	PublicIP            string  `json:"publicIp"`
	PublicWebSocketPort int     `json:"publicWebSocketPort"`
	AreaIDs             []int64 `json:"areaIds"`
	AreaIndexes         []int   `json:"areaIndexes"`
}

type worldUpdatedEvent struct {
	EventType string `json:"eventType"`
	World     struct {
		ID           int64    `json:"id"`
		Version      int64    `json:"version"`
		ManagerHosts []string `json:"managerHosts"`
	} `json:"world"`
}

type serverStartedEvent struct {
	EventType   string `json:"eventType"`
	ServerID    int64  `json:"serverId"`
	PrivateIP   string `json:"privateIp"`
	ManagerHost string `json:"managerHost"`
}

type userDefeatedUserEvent struct {
	EventType      string `json:"eventType"`
	UserID         int64  `json:"userId"`
	DefeatedUserID int64  `json:"defeatedUserId"`
}

type pawnReport struct {
	UUID        string  `json:"uuid"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ServerID    int64   `json:"serverId"`
	Index       int     `json:"index"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	Yaw         float64 `json:"yaw"`
	Pitch       float64 `json:"pitch"`
	UserID      *int64  `json:"userId"`
	Human       bool    `json:"human"`
	FactionID   *int64  `json:"factionId"`
}

type serverPawnsEvent struct {
	EventType string       `json:"eventType"`
	ServerID  int64        `json:"serverId"`
	Pawns     []pawnReport `json:"pawns"`
}
