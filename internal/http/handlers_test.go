package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/auth"
	"github.com/mauv0809/tampere-cricket/internal/availability"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/config"
	"github.com/mauv0809/tampere-cricket/internal/database"
	"github.com/mauv0809/tampere-cricket/internal/metrics"
	"github.com/mauv0809/tampere-cricket/internal/notifier"
	slacknotifier "github.com/mauv0809/tampere-cricket/internal/notifier/slack"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/processor"
	"github.com/mauv0809/tampere-cricket/internal/profile"
	"github.com/mauv0809/tampere-cricket/internal/pubsub"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/scheduler"
	"github.com/mauv0809/tampere-cricket/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

type testEnv struct {
	server   *Server
	players  player.Store
	auth     *auth.Authenticator
	notifier *notifier.MockNotifier
	pubsub   *pubsub.MockPubSubClient
	metrics  *metrics.Service
}

// setupTestServer wires the real stores against an in-memory database and
// mocks every outbound client.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	return setupTestServerIn(t, time.UTC)
}

// setupTestServerIn builds the server for a club whose dates and times are
// read in loc.
func setupTestServerIn(t *testing.T, loc *time.Location) *testEnv {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	players := player.New(db)
	statsStore := stats.New(db, nil)
	rankings := ranking.NewService(ranking.New(db), nil)
	avail := availability.NewService(availability.New(db), 2, loc)
	challengeStore := challenge.New(db)
	challenges := challenge.NewService(challengeStore, players, avail, loc)
	mockNotifier := notifier.NewMock()
	mockPubSub := pubsub.NewMock()
	authenticator := auth.New("test-secret", time.Hour)

	env := &testEnv{
		players:  players,
		auth:     authenticator,
		notifier: mockNotifier,
		pubsub:   mockPubSub,
		metrics:  metricsSvc,
	}
	env.server = NewServer(Deps{
		DB:             db,
		Processor:      processor.New(challenges, players, statsStore, rankings, mockNotifier, metricsSvc, mockPubSub),
		Challenges:     challenges,
		Players:        players,
		Stats:          statsStore,
		Rankings:       rankings,
		Profiles:       profile.NewService(players, statsStore, rankings, challengeStore, 30, loc),
		Availability:   avail,
		Jobs:           scheduler.NewJobs(statsStore, rankings, mockNotifier, metricsSvc, 2),
		Auth:           authenticator,
		PubSub:         mockPubSub,
		Slack:          slacknotifier.NewNotifier("", "", time.UTC, metricsSvc),
		MetricsHandler: metrics.NewMetricsHandler(reg),
		Cfg:            config.Config{Slack: config.SlackConfig{SigningSecret: testSlackSigningSecret}},
		Location:       loc,
	})
	return env
}

// addPlayer stores a player with a complete profile and returns its id and
// bearer token.
func (e *testEnv) addPlayer(t *testing.T, username string, admin bool) (string, string) {
	t.Helper()
	p := &player.Player{
		Username:     username,
		FirstName:    username,
		Phone:        "+358401234567",
		Bio:          "Nets on Tuesdays",
		BattingStyle: "right-handed",
		BowlingStyle: "leg spin",
		YearsPlaying: 4,
		IsAdmin:      admin,
	}
	require.NoError(t, e.players.Create(context.Background(), p))
	token, err := e.auth.Issue(p.ID, admin)
	require.NoError(t, err)
	return p.ID, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func tomorrow() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format(availability.DateLayout)
}

func TestHealthCheckHandler(t *testing.T) {
	env := setupTestServer(t)

	rr := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestCreatePlayerHandler(t *testing.T) {
	env := setupTestServer(t)

	rr := env.do(t, http.MethodPost, "/players", "", map[string]any{"username": "ravi", "first_name": "Ravi"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	reg := decode[registration](t, rr)
	assert.Equal(t, "ravi", reg.Player.Username)
	actor, err := env.auth.Parse(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Player.ID, actor.PlayerID)
	assert.False(t, actor.Admin)

	rr = env.do(t, http.MethodPost, "/players", "", map[string]any{"username": "ravi"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, http.MethodPost, "/players", "", map[string]any{"first_name": "Nameless"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, map[string]any{"username": "is required"}, body["fields"])

	rr = env.do(t, http.MethodPost, "/players", "", map[string]any{"username": "ravi2", "shoe_size": 44})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "unknown fields are rejected")
}

func TestChallengeLifecycle(t *testing.T) {
	env := setupTestServer(t)
	aman, amanToken := env.addPlayer(t, "aman", false)
	ville, villeToken := env.addPlayer(t, "ville", false)
	_, adminToken := env.addPlayer(t, "admin", true)

	draft := map[string]any{
		"challenge_type": "BATTING",
		"metric":         "runs",
		"opponent_id":    ville,
		"date":           tomorrow(),
		"time":           "18:00",
	}

	rr := env.do(t, http.MethodPost, "/challenges", "", draft)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "creating needs a player")

	rr = env.do(t, http.MethodPost, "/challenges", amanToken, draft)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[challenge.Challenge](t, rr)
	assert.Equal(t, challenge.StatusPending, created.Status)
	assert.Equal(t, aman, created.ChallengerID)
	require.NotNil(t, created.ScheduledAt)
	assert.Equal(t, 18, created.ScheduledAt.UTC().Hour())

	t.Run("second active challenge is refused", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/challenges", amanToken, draft)
		require.Equal(t, http.StatusConflict, rr.Code)
		body := decode[map[string]any](t, rr)
		assert.Equal(t, created.ID, body["blocking_challenge_id"])
	})

	t.Run("challenger cannot accept", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/challenges/"+created.ID+"/accept", amanToken, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	rr = env.do(t, http.MethodPost, "/challenges/"+created.ID+"/accept", villeToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, challenge.StatusAccepted, decode[challenge.Challenge](t, rr).Status)
	require.Len(t, env.notifier.AcceptedCalls, 1)

	rr = env.do(t, http.MethodPost, "/challenges/"+created.ID+"/accept", villeToken, nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "accepting twice is a state conflict")

	scores := map[string]any{
		"challenger": map[string]int{"runs": 34, "fours": 3},
		"opponent":   map[string]int{"runs": 21},
	}
	rr = env.do(t, http.MethodPost, "/challenges/"+created.ID+"/result", villeToken, scores)
	assert.Equal(t, http.StatusForbidden, rr.Code, "only admins record results")

	rr = env.do(t, http.MethodPost, "/challenges/"+created.ID+"/result", adminToken, scores)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	detail := decode[map[string]json.RawMessage](t, rr)
	var completed challenge.Challenge
	require.NoError(t, json.Unmarshal(detail["challenge"], &completed))
	assert.Equal(t, challenge.StatusCompleted, completed.Status)
	require.NotNil(t, completed.WinnerID)
	assert.Equal(t, aman, *completed.WinnerID)
	assert.Contains(t, string(detail["result"]), `"runs":34`)

	require.Len(t, env.notifier.Completed(), 1)
	sent := env.pubsub.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, pubsub.EventChallengeCompleted, sent[0].Topic)

	t.Run("statistics and leaderboard follow the result", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/players/"+aman+"/stats", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		st := decode[stats.Statistics](t, rr)
		assert.Equal(t, 1, st.Wins)
		assert.Equal(t, 34, st.Runs)

		rr = env.do(t, http.MethodGet, "/leaderboard", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		page := decode[ranking.Page](t, rr)
		require.Len(t, page.Entries, 2, "the admin has no matches and is unranked")
		assert.Equal(t, aman, page.Entries[0].PlayerID)
		assert.Equal(t, 1, page.Entries[0].Rank)

		rr = env.do(t, http.MethodGet, "/leaderboard?q=vil", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		page = decode[ranking.Page](t, rr)
		require.Len(t, page.Entries, 1)
		assert.Equal(t, 2, page.Entries[0].Rank)

		rr = env.do(t, http.MethodGet, "/leaderboard?board=fielding", "", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("profile", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/players/"+ville+"/profile", "", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		prof := decode[map[string]any](t, rr)
		assert.Equal(t, true, prof["profile_complete"])
		assert.Len(t, prof["recent_matches"], 1)
	})

	t.Run("listing", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/challenges?status=COMPLETED", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		list := decode[challengeListResponse](t, rr)
		assert.Len(t, list.Challenges, 1)
		assert.Equal(t, 1, list.Counts[challenge.StatusCompleted])
		assert.Equal(t, 1, list.Total)

		rr = env.do(t, http.MethodGet, "/challenges?status=LOST", "", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

type challengeListResponse struct {
	Challenges []challenge.Challenge `json:"challenges"`
	Counts     challenge.Counts      `json:"counts"`
	Total      int                   `json:"total"`
}

type registration struct {
	Player player.Player `json:"player"`
	Token  string        `json:"token"`
}

func TestCreateChallenge_TodayInClubTimezone(t *testing.T) {
	helsinki, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)
	env := setupTestServerIn(t, helsinki)
	_, token := env.addPlayer(t, "aman", false)
	ville, _ := env.addPlayer(t, "ville", false)

	today := time.Now().In(helsinki).Format(availability.DateLayout)
	rr := env.do(t, http.MethodPost, "/challenges", token, map[string]any{
		"challenge_type": "BATTING",
		"metric":         "runs",
		"opponent_id":    ville,
		"date":           today,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[challenge.Challenge](t, rr)
	require.NotNil(t, created.ScheduledAt)
	assert.Equal(t, today, created.ScheduledAt.In(helsinki).Format(availability.DateLayout))
	assert.Equal(t, 0, created.ScheduledAt.In(helsinki).Hour(), "a date without a time is local midnight")

	yesterday := time.Now().In(helsinki).AddDate(0, 0, -1).Format(availability.DateLayout)
	rr = env.do(t, http.MethodPost, "/challenges", token, map[string]any{
		"challenge_type": "BATTING",
		"metric":         "runs",
		"date":           yesterday,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}

func TestChallengeNotFound(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.addPlayer(t, "aman", false)

	rr := env.do(t, http.MethodGet, "/challenges/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"challenge not found"}`, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/challenges/missing/decline", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateChallenge_Validation(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.addPlayer(t, "aman", false)

	rr := env.do(t, http.MethodPost, "/challenges", token, map[string]any{"challenge_type": "FIELDING"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Contains(t, body["fields"], "challenge_type")

	rr = env.do(t, http.MethodPost, "/challenges", token, map[string]any{"challenge_type": "BATTING", "metric": "runs", "time": "18:00"})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "a time needs a date")

	rr = env.do(t, http.MethodPost, "/challenges", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPubSubChallengeCompleted(t *testing.T) {
	env := setupTestServer(t)
	aman, _ := env.addPlayer(t, "aman", false)

	data, err := msgpack.Marshal(pubsub.CompletedEvent{
		ChallengeID:  "c1",
		Participants: []string{aman},
		CompletedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	push := map[string]any{
		"message":      map[string]any{"data": data, "messageId": "m1"},
		"subscription": "projects/test/subscriptions/challenge-completed",
	}

	rr := env.do(t, http.MethodPost, "/pubsub/challenge-completed", "", push)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "OK", rr.Body.String())

	rr = env.do(t, http.MethodPost, "/pubsub/challenge-completed", "", "not an envelope")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	push["message"] = map[string]any{"data": []byte("garbage")}
	rr = env.do(t, http.MethodPost, "/pubsub/challenge-completed", "", push)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminRoutes(t *testing.T) {
	env := setupTestServer(t)
	aman, token := env.addPlayer(t, "aman", false)
	_, adminToken := env.addPlayer(t, "admin", true)

	rr := env.do(t, http.MethodPost, "/admin/recompute-stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = env.do(t, http.MethodPost, "/admin/recompute-stats", token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPost, "/admin/recompute-stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"recomputed":2}`, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/admin/recompute-stats?player_id="+aman, adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, aman, decode[stats.Statistics](t, rr).PlayerID)

	rr = env.do(t, http.MethodPost, "/admin/rank-snapshot", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Empty(t, env.notifier.LeaderboardCalls, "nobody is ranked yet")

	rr = env.do(t, http.MethodDelete, "/players/"+aman, adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, player.StatusDeleted, decode[player.Player](t, rr).Status)
}

func TestGroundsAndAvailability(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.addPlayer(t, "aman", false)
	_, adminToken := env.addPlayer(t, "admin", true)

	ground := map[string]any{"name": "Hervanta Oval", "location": "Hervanta", "capacity": 40}
	rr := env.do(t, http.MethodPost, "/grounds", token, ground)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPost, "/grounds", adminToken, ground)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	g := decode[availability.Ground](t, rr)
	assert.True(t, g.IsAvailable)

	date := tomorrow()
	slot := map[string]any{"date": date, "start_time": "18:00", "end_time": "19:00", "price": 5}
	rr = env.do(t, http.MethodPost, "/grounds/"+g.ID+"/slots", adminToken, slot)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/grounds/missing/slots", adminToken, slot)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	slot["start_time"] = "6pm"
	rr = env.do(t, http.MethodPost, "/grounds/"+g.ID+"/slots", adminToken, slot)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/grounds", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Hervanta Oval")

	rr = env.do(t, http.MethodGet, "/availability?date="+date, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	day := decode[availability.Day](t, rr)
	require.Len(t, day.Slots, 1)
	assert.Equal(t, "18:00 - 19:00", day.Slots[0].Display)
	assert.True(t, day.Slots[0].IsAvailable)

	rr = env.do(t, http.MethodGet, "/availability?date=tomorrow", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestServer(t)
	env.metrics.IncSnapshotRuns()

	rr := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "cricket_")
}

// slackCommand builds a slash command request signed the way Slack signs them.
func slackCommand(t *testing.T, target string, form url.Values, secret string) *http.Request {
	t.Helper()
	body := form.Encode()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(fmt.Sprintf("v0:%d:%s", timestamp, body)))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func sendSlackCommand(t *testing.T, env *testEnv, req *http.Request) (*httptest.ResponseRecorder, slackapi.Message) {
	t.Helper()
	rr := httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)
	var msg slackapi.Message
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg), rr.Body.String())
	}
	return rr, msg
}

func TestSlackCommands(t *testing.T) {
	env := setupTestServer(t)
	env.addPlayer(t, "ravi", false)

	t.Run("leaderboard", func(t *testing.T) {
		rr, msg := sendSlackCommand(t, env, slackCommand(t, "/slack/command/leaderboard", url.Values{"text": {"batting"}}, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.Len(t, msg.Blocks.BlockSet, 2)
		assert.Equal(t, "🏆 Batting Leaderboard 🏆", msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock).Text.Text)
	})

	t.Run("unknown board", func(t *testing.T) {
		rr, _ := sendSlackCommand(t, env, slackCommand(t, "/slack/command/leaderboard", url.Values{"text": {"weekly"}}, testSlackSigningSecret))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("player stats by username", func(t *testing.T) {
		rr, msg := sendSlackCommand(t, env, slackCommand(t, "/slack/command/player-stats", url.Values{"text": {"  RAVI "}}, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.Len(t, msg.Blocks.BlockSet, 2)
		assert.Equal(t, "📊 Stats for ravi", msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock).Text.Text)
	})

	t.Run("unknown player", func(t *testing.T) {
		rr, msg := sendSlackCommand(t, env, slackCommand(t, "/slack/command/player-stats", url.Values{"text": {"nobody"}}, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, msg.Blocks.BlockSet, 1)
		section := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
		assert.Equal(t, `Could not find a player called "nobody".`, section.Text.Text)
	})

	t.Run("missing player name", func(t *testing.T) {
		rr, _ := sendSlackCommand(t, env, slackCommand(t, "/slack/command/player-stats", url.Values{"text": {""}}, testSlackSigningSecret))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		rr, _ := sendSlackCommand(t, env, slackCommand(t, "/slack/command/leaderboard", url.Values{}, "wrong-secret"))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unsigned", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/slack/command/leaderboard", strings.NewReader(""))
		rr, _ := sendSlackCommand(t, env, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
