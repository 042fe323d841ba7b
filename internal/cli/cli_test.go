package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/config"
	"github.com/SeamusWaldron/gocube_sim/internal/metrics"
	"github.com/SeamusWaldron/gocube_sim/internal/recorder"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
	"github.com/SeamusWaldron/gocube_sim/internal/stream"
)

// testEnv isolates a test from the user's home directory and config.
func testEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvDB, "")
	return filepath.Join(home, "test.db")
}

// resetFlags restores every flag to its default so commands do not see
// values left over from an earlier run.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-format", "json"))
	err := rootCmd.Execute()
	return out.String(), err
}

// seedSession records a shuffled session followed by the given solving
// twists, "R U" when none are given.
func seedSession(t *testing.T, path string, notation ...string) string {
	t.Helper()
	db, err := storage.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cube := gocube.NewCube(gocube.WithTwistDuration(0), gocube.WithSeed(5))
	session := recorder.NewSession(db, cube, nil)
	id, err := session.Start("seeded", "test")
	if err != nil {
		t.Fatal(err)
	}

	moves := "R U"
	if len(notation) > 0 {
		moves = notation[0]
	}
	cube.Shuffle(4)
	cube.Settle()
	if err := cube.Apply(moves); err != nil {
		t.Fatal(err)
	}
	if err := session.End(); err != nil {
		t.Fatal(err)
	}
	return id
}

// run executes args and fails the test on error.
func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func expectOutput(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output is missing %q:\n%s", w, out)
		}
	}
}

func TestTwistCommand(t *testing.T) {
	testEnv(t)

	expectOutput(t, run(t, "twist", "R U r u"),
		"Moves:       4",
		"Solved:      no",
		"WCA:         R U R' U'",
	)
	expectOutput(t, run(t, "twist", "--wca", "R U R' U'"), "Twists:      R U r u")
	expectOutput(t, run(t, "twist", "R", "r"), "Solved:      yes", "Phase:       Solved")

	if _, err := execute(t, "twist", "R Q"); err == nil {
		t.Error("bad notation was accepted")
	}
}

func TestShuffleCommand(t *testing.T) {
	testEnv(t)

	first := run(t, "shuffle", "6", "--seed", "7", "--alphabet", "RU", "--wca")
	expectOutput(t, first, "Shuffle:", "WCA:")

	if second := run(t, "shuffle", "6", "--seed", "7", "--alphabet", "RU", "--wca"); second != first {
		t.Errorf("seeded shuffles differ:\n%s\n%s", first, second)
	}

	line := strings.SplitN(first, "\n", 2)[0]
	if n := len(strings.Fields(strings.TrimPrefix(line, "Shuffle:"))); n != 6 {
		t.Errorf("shuffle has %d twists, want 6", n)
	}

	if _, err := execute(t, "shuffle", "0"); err == nil {
		t.Error("zero-length shuffle was accepted")
	}
}

func TestSessionsCommands(t *testing.T) {
	path := testEnv(t)
	id := seedSession(t, path)

	expectOutput(t, run(t, "sessions", "list", "--db", path), id, "seeded")
	expectOutput(t, run(t, "sessions", "show", id[:8], "--db", path),
		"Session "+id,
		"Notes:      seeded",
	)

	out := run(t, "sessions", "show", "--last", "--json", "--db", path)
	var summary struct {
		SessionID string `json:"session_id"`
		Moves     int    `json:"moves"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("show --json: %v\n%s", err, out)
	}
	if summary.SessionID != id || summary.Moves != 2 {
		t.Errorf("summary = %+v", summary)
	}

	if out := run(t, "sessions", "export", id, "--db", path); out != "R U\n" {
		t.Errorf("export = %q", out)
	}
	if out := run(t, "sessions", "export", "--last", "--format", "wca", "--db", path); out != "R U\n" {
		t.Errorf("wca export = %q", out)
	}

	file := filepath.Join(t.TempDir(), "twists.json")
	run(t, "sessions", "export", id, "--format", "json", "-o", file, "--db", path)
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var records []exportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 6 {
		t.Fatalf("exported %d records, want 6", len(records))
	}
	if !records[0].Shuffle || records[5].Notation != "U" {
		t.Errorf("records = %+v", records)
	}

	expectOutput(t, run(t, "sessions", "trends", "--db", path), "Sessions:     1 (0 solved)")

	if _, err := execute(t, "sessions", "export", id, "--format", "csv", "--db", path); err == nil {
		t.Error("csv export was accepted")
	}
	if _, err := execute(t, "sessions", "show", "--db", path); err == nil {
		t.Error("show needs an ID or --last")
	}

	expectOutput(t, run(t, "sessions", "delete", id, "--db", path), "Deleted session "+id)
	expectOutput(t, run(t, "sessions", "list", "--db", path), "No sessions recorded yet")
}

func TestSessionsShowRepeatedSequences(t *testing.T) {
	path := testEnv(t)
	id := seedSession(t, path, "R U r u R U r u")

	expectOutput(t, run(t, "sessions", "show", id, "--db", path),
		"Repeated sequences:",
		"R U r u",
	)
	expectOutput(t, run(t, "sessions", "trends", "--db", path),
		"Repeated sequences:",
		"R U r u",
	)

	out := run(t, "sessions", "show", id, "--json", "--db", path)
	var summary struct {
		NGrams struct {
			TopNGrams map[string][]struct {
				Count int `json:"count"`
			} `json:"top_ngrams"`
		} `json:"ngrams"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatal(err)
	}
	if top := summary.NGrams.TopNGrams["4"]; len(top) == 0 || top[0].Count != 2 {
		t.Errorf("4-grams = %+v", top)
	}
}

func TestReplayCommand(t *testing.T) {
	path := testEnv(t)
	id := seedSession(t, path)

	expectOutput(t, run(t, "replay", id, "--steps", "--db", path),
		"Replay matches the recording",
		"(shuffle)",
		"Twists:      6",
	)

	db, err := storage.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE twists SET fingerprint = 'bad' WHERE session_id = ? AND seq = 5`, id); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "replay", "--last", "--db", path)
	if err == nil {
		t.Error("tampered recording replayed cleanly")
	}
	expectOutput(t, out, "mismatch at twist 5 (twist): recorded bad")
}

func TestStatusCommand(t *testing.T) {
	path := testEnv(t)
	seedSession(t, path)

	expectOutput(t, run(t, "status", "--db", path),
		"Database: "+path,
		"Sessions: 1 (0 solved)",
		"No active session",
	)

	stateFile, err := recorder.LoadDefaultStateFile()
	if err != nil {
		t.Fatal(err)
	}
	if err := stateFile.Activate("0123456789abcdef", time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}

	expectOutput(t, run(t, "status", "--db", path),
		"Active session: 0123456789abcdef",
		"  Open for ",
		"play --resume 01234567",
	)
}

func TestBadConfig(t *testing.T) {
	testEnv(t)
	file := filepath.Join(t.TempDir(), "cubesim.yaml")
	if err := os.WriteFile(file, []byte("server:\n  tick_rate: -1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "twist", "R", "--config", file)
	if err == nil || !strings.Contains(err.Error(), "tick_rate") {
		t.Errorf("err = %v, want a tick_rate complaint", err)
	}
}

func TestServeMux(t *testing.T) {
	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	hub := stream.NewHub(nil)
	defer hub.Close()
	collector := metrics.NewCollector()
	collector.Attach(cube)
	collector.TrackClients(hub.ClientCount)
	hub.Attach(cube)

	srv := httptest.NewServer(newServeMux(config.Default().Server, hub, collector))
	defer srv.Close()

	get := func(path string) string {
		t.Helper()
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		return string(body)
	}

	if body := get("/healthz"); body != "ok\n" {
		t.Errorf("healthz = %q", body)
	}

	if err := cube.Apply("R"); err != nil {
		t.Fatal(err)
	}
	expectOutput(t, get("/metrics"), `cubesim_twists_total{kind="move",letter="R"} 1`)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var ev stream.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Type != stream.TypeState || ev.Fingerprint != cube.FingerprintHex() {
		t.Errorf("first event = %+v", ev)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		1500 * time.Millisecond: "1.50s",
		125 * time.Second:       "2m5.0s",
	}
	for d, want := range tests {
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}
