package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// threePlayers is the smallest payload with one player under the minutes
// threshold.
const threePlayers = `{
  "teams": [{"id": 1, "name": "Arsenal", "short_name": "ARS"}],
  "element_types": [
    {"id": 1, "singular_name_short": "GKP"},
    {"id": 2, "singular_name_short": "DEF"},
    {"id": 3, "singular_name_short": "MID"},
    {"id": 4, "singular_name_short": "FWD"}
  ],
  "elements": [
    {"id": 1, "web_name": "Raya", "team": 1, "element_type": 1, "minutes": 1800, "now_cost": 55, "total_points": 120},
    {"id": 2, "web_name": "Saliba", "team": 1, "element_type": 2, "minutes": 900, "now_cost": 60, "total_points": 110},
    {"id": 3, "web_name": "Nwaneri", "team": 1, "element_type": 3, "minutes": 120, "now_cost": 45, "total_points": 14}
  ]
}`

// season covers every position, a malformed declared value, ids given as
// strings, an unknown team, a non-player element type and undeclared fields.
const season = `{
  "teams": [
    {"id": 1, "name": "Arsenal", "short_name": "ARS"},
    {"id": 12, "name": "Liverpool", "short_name": "LIV"}
  ],
  "element_types": [
    {"id": 1, "singular_name_short": "GKP"},
    {"id": 2, "singular_name_short": "DEF"},
    {"id": 3, "singular_name_short": "MID"},
    {"id": 4, "singular_name_short": "FWD"},
    {"id": 5, "singular_name_short": "AM"}
  ],
  "elements": [
    {"id": 1, "code": 111, "first_name": "David", "second_name": "Raya", "web_name": "Raya", "team": 1, "element_type": 1,
     "minutes": 1800, "now_cost": 55, "total_points": 120, "form": "4.0", "news": "", "photo": "111.jpg", "status": "a",
     "chance_of_playing_next_round": null, "ict_index_rank": 80, "selected_by_percent": "21.3",
     "in_dreamteam": false, "custom_flag": true, "nickname": "Dave", "xg_text": "0.0"},
    {"id": 2, "code": 222, "first_name": "William", "second_name": "Saliba", "web_name": "Saliba", "team": "1", "element_type": "2",
     "minutes": 1710, "now_cost": 60, "total_points": 110, "form": "3.5", "news": "", "photo": "222.jpg", "status": "a",
     "chance_of_playing_next_round": 100, "ict_index_rank": 60, "selected_by_percent": "30.1",
     "in_dreamteam": true, "custom_flag": false, "nickname": "Willy", "xg_text": "1.5"},
    {"id": 3, "code": 333, "first_name": "Mohamed", "second_name": "Salah", "web_name": "M.Salah", "team": 12, "element_type": 3,
     "minutes": 2000, "now_cost": 130, "total_points": 210, "form": "8.1", "news": "", "photo": "333.jpg", "status": "a",
     "chance_of_playing_next_round": null, "ict_index_rank": 1, "selected_by_percent": "60.2",
     "in_dreamteam": true, "custom_flag": true, "nickname": "Mo", "xg_text": "12.4"},
    {"id": 4, "code": 444, "first_name": "Cody", "second_name": "Gakpo", "web_name": "Gakpo", "team": 12, "element_type": 4,
     "minutes": 900, "now_cost": 75, "total_points": 95, "form": "n/a", "news": "Knock", "photo": "444.jpg", "status": "d",
     "chance_of_playing_next_round": 75, "ict_index_rank": 40, "selected_by_percent": "5.0",
     "in_dreamteam": false, "custom_flag": false, "nickname": "Cody", "xg_text": "4.2"},
    {"id": 5, "code": 555, "first_name": "Ethan", "second_name": "Nwaneri", "web_name": "Nwaneri", "team": 1, "element_type": 3,
     "minutes": 299, "now_cost": 45, "total_points": 14, "form": "1.0", "news": "", "photo": "555.jpg", "status": "a",
     "chance_of_playing_next_round": null, "ict_index_rank": 300, "selected_by_percent": "0.4",
     "in_dreamteam": false, "custom_flag": false, "nickname": "Eth", "xg_text": "0.3"},
    {"id": 6, "web_name": "Ghost", "team": 99, "element_type": 2, "minutes": 3000, "now_cost": 40, "total_points": 1},
    {"id": 7, "web_name": "Arteta", "team": 1, "element_type": 5, "minutes": 3000, "now_cost": 10, "total_points": 40}
  ]
}`

func mustBootstrap(t *testing.T, payload string) *Bootstrap {
	t.Helper()
	b, err := decodeBootstrap([]byte(payload))
	require.NoError(t, err)
	return b
}

func mustTable(t *testing.T, payload string) *Table {
	t.Helper()
	return BuildTable(mustBootstrap(t, payload), DefaultSchema(), BuildOptions{MinMinutes: DEFAULT_MIN_MINUTES})
}

// stubFetcher serves a fixed payload and counts calls.
type stubFetcher struct {
	mu    sync.Mutex
	b     *Bootstrap
	err   error
	calls int
}

func (s *stubFetcher) Fetch(ctx context.Context) (*Bootstrap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.b, nil
}

func (s *stubFetcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// newFPLServer serves payload as the bootstrap-static endpoint.
func newFPLServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}
