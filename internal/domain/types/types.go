// Package types contains read shapes shared by the HTTP API and the service.
package types

// Hit is one ranked search result.
type Hit struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Position  string `json:"position"`
	Team      string `json:"team,omitempty"`
	Score     int    `json:"score"`
	MatchKind string `json:"match_kind"`
}

// Resolution mirrors the stored outcome of a roster-import request.
type Resolution struct {
	ImportID   string `json:"import_id"`
	Label      string `json:"label"`
	Outcome    string `json:"outcome"`
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	Score      int    `json:"score,omitempty"`
	ResolvedAt string `json:"resolved_at"`
}
