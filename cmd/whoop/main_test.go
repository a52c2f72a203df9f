package main

import (
	"bytes"
	"context"
	"encoding/json"
		"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arvarik/whoop-go/v2/internal/tokenfile"
	"github.com/arvarik/whoop-go/v2/whoop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// testCLI runs root commands against an isolated config directory.
type testCLI struct {
	app    *app
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"CLIENT_ID", "CLIENT_SECRET", "ACCESS_TOKEN", "TOKEN_FILE", "BASE_URL", "OUTPUT"} {
		t.Setenv("WHOOP_"+k, "")
	}

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	a := newApp(out, errOut)
	a.now = func() time.Time { return testNow }
	return &testCLI{app: a, out: out, errOut: errOut}
}

func (c *testCLI) set(key string, value any) {
	c.app.v.Set(key, value)
}

func (c *testCLI) run(args ...string) error {
	cmd := newRootCmd(c.app)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

const cycleJSON = `{
	"id": 93845,
	"user_id": 10129,
	"created_at": "2026-02-28T11:25:44Z",
	"updated_at": "2026-02-28T14:25:44Z",
	"start": "2026-02-28T05:00:00Z",
	"end": "2026-03-01T05:00:00Z",
	"timezone_offset": "-05:00",
	"score_state": "SCORED",
	"score": {"strain": 12.4, "kilojoule": 8288.3, "average_heart_rate": 68, "max_heart_rate": 141}
}`

const recoveryJSON = `{
	"cycle_id": 93845,
	"sleep_id": "3fa85f64-5717-4562-b3fc-2c963f66afa6",
	"user_id": 10129,
	"created_at": "2026-02-28T11:25:44Z",
	"updated_at": "2026-02-28T14:25:44Z",
	"score_state": "SCORED",
	"score": {"user_calibrating": false, "recovery_score": 44, "resting_heart_rate": 64, "hrv_rmssd_milli": 31.8}
}`

const workoutJSON = `{
	"id": "ecfc6a15-4661-442f-a9a4-f160dd7afae8",
	"user_id": 10129,
	"created_at": "2026-02-28T11:25:44Z",
	"updated_at": "2026-02-28T14:25:44Z",
	"start": "2026-02-28T12:00:00Z",
	"end": "2026-02-28T12:45:00Z",
	"timezone_offset": "-05:00",
	"sport_name": "running",
	"score_state": "PENDING_SCORE"
}`

// queries records the query string of the last request per path.
type queries struct {
	mu   sync.Mutex
	last map[string]url.Values
}

func (q *queries) get(path string) url.Values {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.last[path]
}

// newAPIServer serves a small slice of the WHOOP API. Every request must carry
// the bearer token "Bearer " + accessToken.
func newAPIServer(t *testing.T, accessToken string) (*httptest.Server, *queries) {
	t.Helper()
	seen := &queries{last: make(map[string]url.Values)}

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}

	mux.HandleFunc("GET /v2/user/profile/basic", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"user_id": 10129, "email": "jsmith123@whoop.com", "first_name": "John", "last_name": "Smith"}`)
	})
	mux.HandleFunc("GET /v2/user/measurement/body", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"height_meter": 1.8288, "weight_kilogram": 90.7185, "max_heart_rate": 200}`)
	})
	mux.HandleFunc("GET /v2/cycle", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"records": [`+cycleJSON+`], "next_token": "MTIzOjEyMzEyMw"}`)
	})
	mux.HandleFunc("GET /v2/recovery", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"records": [`+recoveryJSON+`]}`)
	})
	mux.HandleFunc("GET /v2/activity/workout", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("nextToken") == "" {
			writeJSON(w, `{"records": [`+workoutJSON+`], "next_token": "p2"}`)
			return
		}
		writeJSON(w, `{"records": [`+workoutJSON+`]}`)
	})
	mux.HandleFunc("DELETE /v2/user/access", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.mu.Lock()
		seen.last[r.URL.Path] = r.URL.Query()
		seen.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("invalid token"))
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts, seen
}

func TestProfile_StaticTokenJSON(t *testing.T) {
	ts, _ := newAPIServer(t, "static-token")
	cli := newTestCLI(t)
	cli.set("access_token", "static-token")
	cli.set("base_url", ts.URL)

	require.NoError(t, cli.run("profile", "-o", "json"))

	var got whoop.BasicProfile
	require.NoError(t, json.Unmarshal(cli.out.Bytes(), &got))
	assert.Equal(t, int64(10129), got.UserID)
	assert.Equal(t, "John", got.FirstName)
}

func TestProfile_TableOutput(t *testing.T) {
	ts, _ := newAPIServer(t, "static-token")
	cli := newTestCLI(t)
	cli.set("access_token", "static-token")
	cli.set("base_url", ts.URL)

	require.NoError(t, cli.run("profile"))

	out := cli.out.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "jsmith123@whoop.com")
}

func TestBody_YAMLOutput(t *testing.T) {
	ts, _ := newAPIServer(t, "static-token")
	cli := newTestCLI(t)
	cli.set("access_token", "static-token")
	cli.set("base_url", ts.URL)

	require.NoError(t, cli.run("body", "--output", "yaml"))

	assert.Contains(t, cli.out.String(), "height_meter: 1.8288")
	assert.Contains(t, cli.out.String(), "max_heart_rate: 200")
}

func TestConfigFile(t *testing.T) {
	ts, _ := newAPIServer(t, "from-file")
	cli := newTestCLI(t)

	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "whoop")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	cfg := fmt.Sprintf("access_token: from-file\nbase_url: %s\noutput: json\n", ts.URL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o600))

	require.NoError(t, cli.run("profile"))
	assert.Contains(t, cli.out.String(), `"first_name": "John"`)
}

func TestEnvironmentOverridesConfig(t *testing.T) {
	ts, _ := newAPIServer(t, "from-env")
	cli := newTestCLI(t)
	t.Setenv("WHOOP_ACCESS_TOKEN", "from-env")
	t.Setenv("WHOOP_BASE_URL", ts.URL)

	require.NoError(t, cli.run("profile", "-o", "json"))
	assert.Contains(t, cli.out.String(), `"user_id": 10129`)
}

func TestNotLoggedIn(t *testing.T) {
	cli := newTestCLI(t)

	err := cli.run("profile")
	require.ErrorIs(t, err, errNotLoggedIn)
	assert.Equal(t, exitCodeAuthRequired, exitCode(err))
}

func TestUnknownOutputFormat(t *testing.T) {
	cli := newTestCLI(t)
	cli.set("access_token", "t")

	err := cli.run("profile", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
	assert.Equal(t, exitCodeError, exitCode(err))
}

func TestStaticTokenRejected(t *testing.T) {
	ts, _ := newAPIServer(t, "good")
	cli := newTestCLI(t)
	cli.set("access_token", "bad")
	cli.set("base_url", ts.URL)

	err := cli.run("profile")
	var authErr *whoop.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, exitCodeAuthRequired, exitCode(err))
}

func TestOAuthRefreshOnUnauthorized(t *testing.T) {
	ts, _ := newAPIServer(t, "new-access")

	var tokenCalls atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "r1", r.PostForm.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"new-access","token_type":"bearer","expires_in":3600,"refresh_token":"r2","scope":"offline read:profile"}`))
	}))
	t.Cleanup(tokenSrv.Close)

	cli := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, tokenfile.Save(path, whoop.Token{AccessToken: "old-access", TokenType: "bearer", RefreshToken: "r1"}, testNow.Add(-2*time.Hour)))

	cli.set("client_id", "id")
	cli.set("client_secret", "secret")
	cli.set("token_url", tokenSrv.URL)
	cli.set("base_url", ts.URL)

	require.NoError(t, cli.run("profile", "-o", "json", "--token-file", path))
	assert.Contains(t, cli.out.String(), `"first_name": "John"`)
	assert.Equal(t, int32(1), tokenCalls.Load())

	saved, err := tokenfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "new-access", saved.AccessToken)
	assert.Equal(t, "r2", saved.RefreshToken)
	assert.Equal(t, testNow, saved.ObtainedAt)
}

func newStaticCLI(t *testing.T, ts *httptest.Server) *testCLI {
	t.Helper()
	cli := newTestCLI(t)
	cli.set("access_token", "t")
	cli.set("base_url", ts.URL)
	return cli
}

func TestCyclesList(t *testing.T) {
	ts, seen := newAPIServer(t, "t")
	cli := newStaticCLI(t, ts)

	require.NoError(t, cli.run("cycles", "list", "--limit", "5", "--start", "2026-02-01T00:00:00Z"))

	q := seen.get("/v2/cycle")
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "2026-02-01T00:00:00Z", q.Get("start"))
	assert.False(t, q.Has("end"))

	assert.Contains(t, cli.out.String(), "93845")
	assert.Contains(t, cli.out.String(), "12.4")
	assert.Contains(t, cli.errOut.String(), "--next-token MTIzOjEyMzEyMw")
}

func TestCyclesList_NextToken(t *testing.T) {
	ts, seen := newAPIServer(t, "t")
	cli := newStaticCLI(t, ts)

	require.NoError(t, cli.run("cycle", "list", "--next-token", "abc", "-o", "json"))
	assert.Equal(t, "abc", seen.get("/v2/cycle").Get("nextToken"))

	var got []whoop.Cycle
	require.NoError(t, json.Unmarshal(cli.out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(93845), got[0].ID)
}

func TestWorkoutsList_All(t *testing.T) {
	ts, _ := newAPIServer(t, "t")
	cli := newStaticCLI(t, ts)

	require.NoError(t, cli.run("workouts", "list", "--all", "-o", "json"))

	var got []whoop.Workout
	require.NoError(t, json.Unmarshal(cli.out.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.NotContains(t, cli.errOut.String(), "More results")
}

func TestList_InvalidTime(t *testing.T) {
	cli := newTestCLI(t)
	cli.set("access_token", "t")

	err := cli.run("sleep", "list", "--end", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--end")
}

func TestGet_InvalidIDs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"sleep", "get", "not-a-uuid"}, "invalid id"},
		{[]string{"workouts", "get", "123"}, "invalid id"},
		{[]string{"cycles", "get", "abc"}, "invalid cycle id"},
		{[]string{"recovery", "get", "3fa85f64-5717-4562-b3fc-2c963f66afa6"}, "invalid cycle id"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			cli := newTestCLI(t)
			cli.set("access_token", "t")

			err := cli.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	ts, _ := newAPIServer(t, "t")
	cli := newStaticCLI(t, ts)

	err := cli.run("workouts", "get", "ecfc6a15-4661-442f-a9a4-f160dd7afae8")
	require.ErrorIs(t, err, whoop.ErrNotFound)
	assert.Equal(t, exitCodeError, exitCode(err))
}

func TestSummary(t *testing.T) {
	ts, seen := newAPIServer(t, "t")
	cli := newStaticCLI(t, ts)

	require.NoError(t, cli.run("summary", "-o", "json"))

	var got summary
	require.NoError(t, json.Unmarshal(cli.out.Bytes(), &got))
	require.NotNil(t, got.Profile)
	require.NotNil(t, got.Body)
	require.NotNil(t, got.Cycle)
	require.NotNil(t, got.Recovery)
	assert.Equal(t, "John", got.Profile.FirstName)
	assert.Equal(t, 200, got.Body.MaxHeartRate)
	assert.Equal(t, int64(93845), got.Cycle.ID)
	assert.InDelta(t, 44, got.Recovery.Score.RecoveryScore, 0.001)

	assert.Equal(t, "1", seen.get("/v2/cycle").Get("limit"))
	assert.Equal(t, "1", seen.get("/v2/recovery").Get("limit"))
}

func TestSummary_Table(t *testing.T) {
	ts, _ := newAPIServer(t, "t")
	cli := newStaticCLI(t, ts)

	require.NoError(t, cli.run("summary"))
	assert.Contains(t, cli.out.String(), "44%")
	assert.Contains(t, cli.out.String(), "31.8 ms")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitCodeAuthRequired, exitCode(fmt.Errorf("wrapped: %w", errNotLoggedIn)))
	assert.Equal(t, exitCodeAuthRequired, exitCode(&whoop.AuthenticationError{StatusCode: 401}))
	assert.Equal(t, exitCodeError, exitCode(&whoop.RateLimitError{}))
	assert.Equal(t, exitCodeError, exitCode(fmt.Errorf("boom")))
}

func TestParseTime(t *testing.T) {
	got, err := parseTime("2026-02-24T05:00:00-08:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 2, 24, 13, 0, 0, 0, time.UTC)))

	got, err = parseTime("2026-02-24")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 24, 0, 0, 0, 0, time.Local), got)

	_, err = parseTime("24/02/2026")
	assert.Error(t, err)
}
