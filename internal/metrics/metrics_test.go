package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func expectLines(t *testing.T, out string, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if !strings.Contains(out, l) {
			t.Errorf("metrics missing %q", l)
		}
	}
}

func TestCollectorCountsTwists(t *testing.T) {
	c := NewCollector()
	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	c.Attach(cube)

	if err := cube.Apply("R R Y"); err != nil {
		t.Fatal(err)
	}
	cube.TwistMoves(gocube.MustTwist('F', 0))
	cube.Settle()

	expectLines(t, scrape(t, c),
		`cubesim_twists_total{kind="move",letter="R"} 2`,
		`cubesim_twists_total{kind="rotation",letter="Y"} 1`,
		`cubesim_twists_total{kind="spring",letter="F"} 1`,
		"cubesim_moves 2",
		"cubesim_solved 0",
		"cubesim_twist_interval_seconds_count 3",
	)
}

func TestCollectorShufflesAndPhases(t *testing.T) {
	c := NewCollector()
	cube := gocube.NewCube(gocube.WithTwistDuration(0), gocube.WithSeed(1))
	c.Attach(cube)

	cube.Shuffle(3, "U")
	cube.Settle()

	out := scrape(t, c)
	expectLines(t, out,
		`cubesim_twists_total{kind="shuffle",letter="U"} 3`,
		"cubesim_shuffles_total 1",
		"cubesim_solved 0",
	)
	if strings.Contains(out, `cubesim_phases_total{phase="solved"}`) {
		t.Error("no phase should be reached yet")
	}

	if err := cube.Apply("U"); err != nil {
		t.Fatal(err)
	}
	expectLines(t, scrape(t, c),
		`cubesim_phases_total{phase="solved"} 1`,
		"cubesim_solved 1",
	)
}

func TestTrackClients(t *testing.T) {
	c := NewCollector()
	n := 3
	c.TrackClients(func() int { return n })

	expectLines(t, scrape(t, c), "cubesim_stream_clients 3")
	n = 0
	expectLines(t, scrape(t, c), "cubesim_stream_clients 0")
}
