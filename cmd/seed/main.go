// Command seed populates a running pilon instance with a sample NFL
// roster and fires a few searches against it. Intended for local
// development and smoke testing.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
)

const requestTimeout = 5 * time.Second

type player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Status   string `json:"status"`
}

// samplePlayers is a small, position-diverse slice of well-known names so
// seeded searches exercise every scoring tier.
var samplePlayers = []player{
	{Name: "Patrick Mahomes", Position: "QB", Team: "KC"},
	{Name: "Josh Allen", Position: "QB", Team: "BUF"},
	{Name: "Lamar Jackson", Position: "QB", Team: "BAL"},
	{Name: "Saquon Barkley", Position: "RB", Team: "PHI"},
	{Name: "Christian McCaffrey", Position: "RB", Team: "SF"},
	{Name: "Aaron Jones", Position: "RB", Team: "MIN"},
	{Name: "Justin Jefferson", Position: "WR", Team: "MIN"},
	{Name: "Ja'Marr Chase", Position: "WR", Team: "CIN"},
	{Name: "Tyreek Hill", Position: "WR", Team: "MIA"},
	{Name: "Travis Kelce", Position: "TE", Team: "KC"},
	{Name: "Mark Andrews", Position: "TE", Team: "BAL"},
	{Name: "Justin Tucker", Position: "K", Team: "BAL"},
	{Name: "Shaquill Griffin", Position: "DEF", Team: "MIN"},
	{Name: "Aaron Banks", Position: "DEF", Team: "GB"},
}

var sampleQueries = []string{"mahomes", "saquon", "patrick mahomes", "mahommes", "aar"}

func main() {
	baseURL := flag.String("url", "http://localhost:9090", "pilon base URL")
	searches := flag.Bool("search", true, "run sample searches after seeding")
	flag.Parse()

	client := &http.Client{Timeout: requestTimeout}

	for _, p := range samplePlayers {
		p.ID = uuid.NewString()
		p.Status = "active"
		if err := postJSON(client, *baseURL+"/players", p); err != nil {
			fmt.Fprintf(os.Stderr, "seeding %s failed: %v\n", p.Name, err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded %d players\n", len(samplePlayers))

	if !*searches {
		return
	}
	for _, q := range sampleQueries {
		resp, err := client.Get(*baseURL + "/search?q=" + url.QueryEscape(q))
		if err != nil {
			fmt.Fprintf(os.Stderr, "search %q failed: %v\n", q, err)
			os.Exit(1)
		}
		var body struct {
			Results []struct {
				Name      string `json:"name"`
				Score     int    `json:"score"`
				MatchKind string `json:"match_kind"`
			} `json:"results"`
		}
		err = json.NewDecoder(resp.Body).Decode(&body)
		_ = resp.Body.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "decoding search %q failed: %v\n", q, err)
			os.Exit(1)
		}
		fmt.Printf("q=%-16s -> %d results", q, len(body.Results))
		if len(body.Results) > 0 {
			top := body.Results[0]
			fmt.Printf(", top: %s (%d, %s)", top.Name, top.Score, top.MatchKind)
		}
		fmt.Println()
	}
}

func postJSON(client *http.Client, url string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("posting: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
