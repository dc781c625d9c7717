package missions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"meridian-missions/claimd/internal/authn"
)

// Client talks to the mission endpoints with a per-identity credential.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, baseURL: baseURL}
}

// completionEntry tolerates both field names the server has used for the
// numeric completion identifier.
type completionEntry struct {
	MissionID    *int `json:"mission_id"`
	MissionIDAlt *int `json:"missionId"`
}

func (e completionEntry) id() (int, bool) {
	if e.MissionID != nil {
		return *e.MissionID, true
	}
	if e.MissionIDAlt != nil {
		return *e.MissionIDAlt, true
	}
	return 0, false
}

// Completions fetches the identity's recorded completions. Entries without
// a numeric identifier are dropped; the count of dropped entries is
// returned so callers can surface the anomaly.
func (c *Client) Completions(ctx context.Context, cred authn.Credential) (map[int]struct{}, int, error) {
	endpoint := c.baseURL + "/missions.api/get?wallet_id=" + url.QueryEscape(cred.WalletID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	cred.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch completions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetch completions: status %d", resp.StatusCode)
	}

	var entries []completionEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, 0, fmt.Errorf("decode completions: %w", err)
	}

	claimed := make(map[int]struct{}, len(entries))
	dropped := 0
	for _, entry := range entries {
		id, ok := entry.id()
		if !ok {
			dropped++
			continue
		}
		claimed[id] = struct{}{}
	}
	return claimed, dropped, nil
}

// Claim records one mission for the identity. A non-2xx status is an error;
// the caller decides whether to keep going.
func (c *Client) Claim(ctx context.Context, cred authn.Credential, missionID int) error {
	body, err := json.Marshal(struct {
		WalletID  string `json:"wallet_id"`
		MissionID int    `json:"mission_id"`
	}{WalletID: cred.WalletID, MissionID: missionID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/missions.api/record", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	cred.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("record mission %d: %w", missionID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("record mission %d: status %d", missionID, resp.StatusCode)
	}
	return nil
}
