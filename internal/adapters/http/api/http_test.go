package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pilon/fantasygrid/internal/adapters/http/api"
	"github.com/pilon/fantasygrid/internal/adapters/repository"
	"github.com/pilon/fantasygrid/internal/domain/match"
	"github.com/pilon/fantasygrid/internal/domain/model"
	"github.com/pilon/fantasygrid/internal/domain/rank"
	"github.com/pilon/fantasygrid/internal/domain/types"
)

// mockDeps satisfies api.Dependencies and api.StatsProvider with overridable
// function fields; unset fields answer with benign defaults.
type mockDeps struct {
	searchFn           func(ctx context.Context, query string, pos model.Position, limit int) ([]types.Hit, error)
	resolveFn          func(ctx context.Context, query string, pos model.Position) (rank.Outcome, error)
	upsertFn           func(ctx context.Context, c model.Candidate) error
	playerFn           func(ctx context.Context, id string) (model.Candidate, error)
	removeFn           func(ctx context.Context, id string) error
	seenAndRecordFn    func(ctx context.Context, id string) bool
	enqueueFn          func(ctx context.Context, req model.ImportRequest) (string, bool)
	importResolutionFn func(ctx context.Context, importID string) (model.Resolution, error)

	unrecorded []string
}

func (m *mockDeps) Search(ctx context.Context, query string, pos model.Position, limit int) ([]types.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, pos, limit)
	}
	return []types.Hit{}, nil
}

func (m *mockDeps) Resolve(ctx context.Context, query string, pos model.Position) (rank.Outcome, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, query, pos)
	}
	return rank.Outcome{Kind: rank.OutcomeNoMatch}, nil
}

func (m *mockDeps) UpsertPlayer(ctx context.Context, c model.Candidate) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, c)
	}
	return nil
}

func (m *mockDeps) Player(ctx context.Context, id string) (model.Candidate, error) {
	if m.playerFn != nil {
		return m.playerFn(ctx, id)
	}
	return model.Candidate{}, fmt.Errorf("player %q: %w", id, repository.ErrNotFound)
}

func (m *mockDeps) RemovePlayer(ctx context.Context, id string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, id)
	}
	return fmt.Errorf("player %q: %w", id, repository.ErrNotFound)
}

func (m *mockDeps) SeenAndRecord(ctx context.Context, id string) bool {
	if m.seenAndRecordFn != nil {
		return m.seenAndRecordFn(ctx, id)
	}
	return false
}

func (m *mockDeps) Unrecord(_ context.Context, id string) {
	m.unrecorded = append(m.unrecorded, id)
}

func (m *mockDeps) EnqueueImport(ctx context.Context, req model.ImportRequest) (string, bool) {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, req)
	}
	if req.ImportID == "" {
		req.ImportID = "generated-id"
	}
	return req.ImportID, true
}

func (m *mockDeps) ImportResolution(ctx context.Context, importID string) (model.Resolution, error) {
	if m.importResolutionFn != nil {
		return m.importResolutionFn(ctx, importID)
	}
	return model.Resolution{}, fmt.Errorf("import %q: %w", importID, repository.ErrNotFound)
}

func (m *mockDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, deps, 100).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSearchHandler(t *testing.T) {
	Convey("Given the search route", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When a valid query matches", func() {
			deps.searchFn = func(_ context.Context, query string, pos model.Position, limit int) ([]types.Hit, error) {
				So(query, ShouldEqual, "mahomes")
				So(pos, ShouldEqual, model.PositionQB)
				So(limit, ShouldEqual, 5)
				return []types.Hit{{PlayerID: "p1", Name: "Patrick Mahomes", Score: 60, MatchKind: "substring"}}, nil
			}
			rec := do(mux, http.MethodGet, "/search?q=mahomes&position=qb&limit=5", "")

			Convey("Then it responds 200 with the hits", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Query   string      `json:"query"`
					Results []types.Hit `json:"results"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Query, ShouldEqual, "mahomes")
				So(resp.Results, ShouldHaveLength, 1)
				So(resp.Results[0].Name, ShouldEqual, "Patrick Mahomes")
			})
		})

		Convey("When q is missing", func() {
			rec := do(mux, http.MethodGet, "/search", "")

			Convey("Then it responds 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the position is unknown", func() {
			rec := do(mux, http.MethodGet, "/search?q=mahomes&position=GK", "")

			Convey("Then it responds 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the limit is not a positive number", func() {
			rec := do(mux, http.MethodGet, "/search?q=mahomes&limit=zero", "")

			Convey("Then it responds 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the limit exceeds the cap", func() {
			rec := do(mux, http.MethodGet, "/search?q=mahomes&limit=101", "")

			Convey("Then it responds 400 with the limit code", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "limit_exceeded")
			})
		})

		Convey("When the matcher rejects the input", func() {
			deps.searchFn = func(context.Context, string, model.Position, int) ([]types.Hit, error) {
				return nil, fmt.Errorf("empty query: %w", match.ErrInvalidInput)
			}
			rec := do(mux, http.MethodGet, "/search?q=%20", "")

			Convey("Then invalid input maps to 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the method is not GET", func() {
			rec := do(mux, http.MethodPost, "/search?q=mahomes", "")

			Convey("Then it responds 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestResolveHandler(t *testing.T) {
	Convey("Given the resolve route", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When the label resolves to a match", func() {
			deps.resolveFn = func(context.Context, string, model.Position) (rank.Outcome, error) {
				return rank.Outcome{
					Kind: rank.OutcomeMatched,
					Best: match.Result{
						Candidate: model.Candidate{ID: "p1", DisplayName: "Patrick Mahomes"},
						Score:     100,
						Kind:      match.KindExact,
					},
				}, nil
			}
			rec := do(mux, http.MethodGet, "/resolve?q=patrick%20mahomes", "")

			Convey("Then the outcome carries the player", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["outcome"], ShouldEqual, "matched")
				So(resp["player_id"], ShouldEqual, "p1")
				So(resp["score"], ShouldEqual, 100)
			})
		})

		Convey("When nothing matches", func() {
			rec := do(mux, http.MethodGet, "/resolve?q=tom%20brady", "")

			Convey("Then player fields are omitted", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["outcome"], ShouldEqual, "no_match")
				So(resp, ShouldNotContainKey, "player_id")
				So(resp, ShouldNotContainKey, "score")
			})
		})

		Convey("When q is missing", func() {
			rec := do(mux, http.MethodGet, "/resolve", "")

			Convey("Then it responds 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestPlayersHandler(t *testing.T) {
	Convey("Given the players routes", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When a valid player is posted", func() {
			var stored model.Candidate
			deps.upsertFn = func(_ context.Context, c model.Candidate) error {
				stored = c
				return nil
			}
			body := `{"id":"p1","name":"Patrick Mahomes","position":"QB","team":"KC"}`
			rec := do(mux, http.MethodPost, "/players", body)

			Convey("Then it responds 201 and defaults the status", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				So(stored.Status, ShouldEqual, model.StatusActive)
				So(stored.Position, ShouldEqual, model.PositionQB)
			})
		})

		Convey("When the body is not JSON", func() {
			rec := do(mux, http.MethodPost, "/players", "not-json")

			Convey("Then it responds 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When required fields are missing", func() {
			rec := do(mux, http.MethodPost, "/players", `{"id":"p1","position":"QB"}`)

			Convey("Then it responds 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the status is unknown", func() {
			body := `{"id":"p1","name":"Patrick Mahomes","position":"QB","status":"benched"}`
			rec := do(mux, http.MethodPost, "/players", body)

			Convey("Then it responds 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When fetching a stored player", func() {
			deps.playerFn = func(context.Context, string) (model.Candidate, error) {
				return model.Candidate{ID: "p1", DisplayName: "Patrick Mahomes", Position: model.PositionQB, Status: model.StatusActive}, nil
			}
			rec := do(mux, http.MethodGet, "/players/p1", "")

			Convey("Then it responds 200 with the record", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "Patrick Mahomes")
			})
		})

		Convey("When fetching an unknown player", func() {
			rec := do(mux, http.MethodGet, "/players/ghost", "")

			Convey("Then it responds 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When deleting a stored player", func() {
			deps.removeFn = func(context.Context, string) error { return nil }
			rec := do(mux, http.MethodDelete, "/players/p1", "")

			Convey("Then it responds 204", func() {
				So(rec.Code, ShouldEqual, http.StatusNoContent)
			})
		})

		Convey("When the player path is malformed", func() {
			rec := do(mux, http.MethodGet, "/players/p1/extra", "")

			Convey("Then it responds 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestImportsHandler(t *testing.T) {
	Convey("Given the imports routes", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When an import without an id is submitted", func() {
			rec := do(mux, http.MethodPost, "/imports", `{"label":"P. Mahomes"}`)

			Convey("Then it is accepted with a generated id", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)

				var ack map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "accepted")
				So(ack["import_id"], ShouldEqual, "generated-id")
				So(ack["duplicate"], ShouldEqual, false)
			})
		})

		Convey("When a caller-supplied id was already seen", func() {
			deps.seenAndRecordFn = func(_ context.Context, id string) bool { return id == "imp-1" }
			rec := do(mux, http.MethodPost, "/imports", `{"import_id":"imp-1","label":"P. Mahomes"}`)

			Convey("Then it acknowledges the duplicate without enqueuing", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var ack map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "duplicate")
				So(ack["duplicate"], ShouldEqual, true)
			})
		})

		Convey("When the queue is full", func() {
			deps.enqueueFn = func(context.Context, model.ImportRequest) (string, bool) { return "", false }
			rec := do(mux, http.MethodPost, "/imports", `{"import_id":"imp-2","label":"P. Mahomes"}`)

			Convey("Then it responds 429 and rolls back the seen id", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.unrecorded, ShouldResemble, []string{"imp-2"})
			})
		})

		Convey("When the label is missing", func() {
			rec := do(mux, http.MethodPost, "/imports", `{"import_id":"imp-3"}`)

			Convey("Then it responds 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When polling a resolved import", func() {
			deps.importResolutionFn = func(context.Context, string) (model.Resolution, error) {
				return model.Resolution{
					ImportID:   "imp-4",
					Label:      "mahommes",
					Outcome:    "low_confidence",
					PlayerID:   "p1",
					PlayerName: "Patrick Mahomes",
					Score:      35,
					ResolvedAt: time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC),
				}, nil
			}
			rec := do(mux, http.MethodGet, "/imports/imp-4", "")

			Convey("Then the resolution is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp types.Resolution
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Outcome, ShouldEqual, "low_confidence")
				So(resp.PlayerName, ShouldEqual, "Patrick Mahomes")
				So(resp.Score, ShouldEqual, 35)
				So(resp.ResolvedAt, ShouldEqual, "2026-08-31T12:00:00Z")
			})
		})

		Convey("When polling a pending import", func() {
			rec := do(mux, http.MethodGet, "/imports/imp-pending", "")

			Convey("Then it responds 404 until a worker records it", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStatsHandler(t *testing.T) {
	Convey("Given the stats route", t, func() {
		mux := newMux(&mockDeps{})

		Convey("When stats are requested", func() {
			rec := do(mux, http.MethodGet, "/stats", "")

			Convey("Then the provider snapshot is served as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"started":true`)
			})
		})
	})
}
