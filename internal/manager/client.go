package manager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pixil98/go-frontline/internal/state"
)

// BasicAuthUsername is the fixed service identity every node authenticates
// with; only the password varies per deployment.
const BasicAuthUsername = "server"

// Client makes the ad-hoc REST calls to the manager. It is safe for use from
// multiple goroutines; it keeps no mutable state.
type Client struct {
	httpc    *http.Client
	baseURL  string
	serverID int64
	username string
	password string
}

// NewClient creates a client for the manager at baseURL (scheme://host:port),
// acting as the given server.
func NewClient(baseURL string, serverID int64, password string) *Client {
	return &Client{
		httpc:    &http.Client{},
		baseURL:  baseURL,
		serverID: serverID,
		username: BasicAuthUsername,
		password: password,
	}
}

func (c *Client) url(suffix string) string {
	return fmt.Sprintf("%s/api/servers/%d/%s", c.baseURL, c.serverID, suffix)
}

// do performs one request/response cycle, mapping failures onto the
// transport/protocol/decode taxonomy. out may be nil to discard the body.
func (c *Client) do(ctx context.Context, op, method, url string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.SetBasicAuth(c.username, c.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProtocolError{Op: op, Status: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &DecodeError{Op: op, Err: err}
		}
	}

	return nil
}

// Factions fetches the current faction list.
func (c *Client) Factions(ctx context.Context) ([]state.Faction, error) {
	var records []factionRecord
	if err := c.do(ctx, "factions", http.MethodGet, c.url("factions"), nil, &records); err != nil {
		return nil, err
	}

	factions := make([]state.Faction, len(records))
	for i := range records {
		factions[i] = records[i].toState()
	}
	return factions, nil
}

// Servers fetches the known server nodes for this region's world.
func (c *Client) Servers(ctx context.Context) ([]state.Server, error) {
	var records []serverRecord
	if err := c.do(ctx, "servers", http.MethodGet, c.url("servers"), nil, &records); err != nil {
		return nil, err
	}

	servers := make([]state.Server, len(records))
	for i := range records {
		servers[i] = records[i].toState()
	}
	return servers, nil
}

// SubmitAreas submits this node's authored areas. The node's list is
// authoritative for names and positions; the manager assigns and returns
// global IDs.
func (c *Client) SubmitAreas(ctx context.Context, areas []state.Area) ([]state.Area, error) {
	subs := make([]areaSubmission, len(areas))
	for i := range areas {
		subs[i] = areaToSubmission(&areas[i])
	}

	var records []areaRecord
	if err := c.do(ctx, "areas", http.MethodPost, c.url("areas"), subs, &records); err != nil {
		return nil, err
	}

	out := make([]state.Area, len(records))
	for i := range records {
		out[i] = records[i].toState()
	}
	return out, nil
}

// SubmitObjectives submits this node's authored objectives. Objectives
// outside any area are not accepted by the manager and must be filtered by
// the caller.
func (c *Client) SubmitObjectives(ctx context.Context, objectives []state.Objective) ([]state.Objective, error) {
	subs := make([]objectiveSubmission, len(objectives))
	for i := range objectives {
		subs[i] = objectiveToSubmission(&objectives[i])
	}

	var records []objectiveRecord
	if err := c.do(ctx, "objectives", http.MethodPost, c.url("objectives"), subs, &records); err != nil {
		return nil, err
	}

	out := make([]state.Objective, len(records))
	for i := range records {
		out[i] = records[i].toState()
	}
	return out, nil
}

// JoinResult is the identity the manager assigned to a joining session.
type JoinResult struct {
	UserID    int64
	FactionID int64
	Name      string
	Token     string

	// Resume is a staged spawn transform, or nil when the manager has no
	// resume position for this user.
	Resume *state.Transform
}

// UserJoin authenticates/joins a session against the manager. userID and
// factionID may be -1 when unknown; token may be empty.
func (c *Client) UserJoin(ctx context.Context, userID, factionID int64, human bool, token string) (*JoinResult, error) {
	req := joinRequest{
		ServerID: c.serverID,
		Human:    human,
		Token:    token,
	}
	if userID != -1 {
		req.UserID = &userID
	}
	if factionID != -1 {
		req.FactionID = &factionID
	}

	var resp joinResponse
	if err := c.do(ctx, "userJoin", http.MethodPost, c.url("userJoin"), &req, &resp); err != nil {
		return nil, err
	}

	return &JoinResult{
		UserID:    resp.ID,
		FactionID: resp.FactionID,
		Name:      resp.Name,
		Token:     resp.Token,
		Resume:    resp.ResumeTransform(),
	}, nil
}

// NavigateResult is where a session should reconnect to reach the node owning
// its destination area.
type NavigateResult struct {
	DestinationServerID int64
	Addr                string
	Port                int
	WebSocketURL        string
}

// UserNavigate asks the manager to relocate a user to the node owning the
// destination area, reporting the user's current transform so it can be
// resumed there.
func (c *Client) UserNavigate(ctx context.Context, userID, destinationAreaID int64, at state.Transform) (*NavigateResult, error) {
	req := navigateRequest{
		UserID:            userID,
		SourceServerID:    c.serverID,
		DestinationAreaID: destinationAreaID,
		X:                 wireX(at.Position.X),
		Y:                 at.Position.Y,
		Z:                 at.Position.Z,
		Yaw:               at.Facing.Yaw,
		Pitch:             at.Facing.Pitch,
	}

	var resp navigateResponse
	if err := c.do(ctx, "userAutoNavigate", http.MethodPost, c.url("userAutoNavigate"), &req, &resp); err != nil {
		return nil, err
	}

	if resp.DestinationServerID <= 0 || resp.IP == "" || resp.Port <= 0 || resp.WebSocketURL == "" {
		return nil, &DecodeError{Op: "userAutoNavigate", Err: fmt.Errorf("incomplete navigate response")}
	}

	return &NavigateResult{
		DestinationServerID: resp.DestinationServerID,
		Addr:                resp.IP,
		Port:                resp.Port,
		WebSocketURL:        resp.WebSocketURL,
	}, nil
}
