package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/davidMcneil/brains-and-bets/internal/gameapi"
	"github.com/davidMcneil/brains-and-bets/internal/gametest"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BRAINS_SETTINGS_BACKEND", "sqlite")
	t.Setenv("BRAINS_SETTINGS_PATH", filepath.Join(t.TempDir(), "settings.db"))
	t.Setenv("BRAINS_BASE_SERVER_PATH", "")
	os.Unsetenv("BRAINS_BASE_SERVER_PATH")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out, zerolog.Nop())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("brainsbets %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestUsage(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t)
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
	if !strings.Contains(out, "usage: brainsbets") {
		t.Errorf("expected usage text, got %q", out)
	}

	if _, err := runCLI(t, "-base", "http://x/", "frobnicate"); !errors.Is(err, errUsage) {
		t.Errorf("expected errUsage for unknown command, got %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	setupEnv(t)

	if out := mustRun(t, "config", "get"); !strings.Contains(out, "base_server_path is not set") {
		t.Errorf("unexpected get output: %q", out)
	}
	mustRun(t, "config", "set", "http://stored.test/api/v1/game/")
	if out := mustRun(t, "config", "get"); strings.TrimSpace(out) != "http://stored.test/api/v1/game/" {
		t.Errorf("unexpected get output after set: %q", out)
	}
	mustRun(t, "config", "unset")
	if out := mustRun(t, "config", "get"); !strings.Contains(out, "not set") {
		t.Errorf("unexpected get output after unset: %q", out)
	}
}

func TestGameCommandsWithStoredBase(t *testing.T) {
	setupEnv(t)
	srv := gametest.New()
	defer srv.Close()

	mustRun(t, "config", "set", srv.BaseURL())

	if out := mustRun(t, "create", "quiz", "ada"); out != "ok (200)\n" {
		t.Errorf("create output: %q", out)
	}
	mustRun(t, "join", "quiz", "bob")
	mustRun(t, "answer", "quiz", "bob", "about", "ninety")

	out := mustRun(t, "state", "quiz")
	if !strings.Contains(out, "players: ada, bob") {
		t.Errorf("state output missing players: %q", out)
	}
	if !strings.Contains(out, "answers: 1/2") {
		t.Errorf("state output missing answer count: %q", out)
	}

	last, ok := srv.LastRequest()
	if !ok || last.Method != "GET" || last.Path != "/api/v1/game/quiz" {
		t.Errorf("unexpected last request: %+v", last)
	}
	if last.Header.Get("User-Agent") != "brains-and-bets-cli" {
		t.Errorf("unexpected user agent: %q", last.Header.Get("User-Agent"))
	}
}

func TestGuessAndWager(t *testing.T) {
	setupEnv(t)
	srv := gametest.New()
	defer srv.Close()
	srv.AddPlayer("g", "ada")

	mustRun(t, "-base", srv.BaseURL(), "guess", "g", "ada", "12.5")
	last, _ := srv.LastRequest()
	body, err := last.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if last.Path != "/api/v1/game/g/guess" || body["guess"] != 12.5 {
		t.Errorf("unexpected guess request: %s %v", last.Path, body)
	}

	mustRun(t, "-base", srv.BaseURL(), "wager", "g", "ada", "2.25")
	last, _ = srv.LastRequest()
	body, _ = last.JSON()
	if last.Path != "/api/v1/game/g/wager" || body["wager"] != 2.25 || body["guess"] != nil {
		t.Errorf("unexpected wager request: %s %v", last.Path, body)
	}

	mustRun(t, "-base", srv.BaseURL(), "wager", "g", "ada", "3", "40")
	last, _ = srv.LastRequest()
	body, _ = last.JSON()
	if body["guess"] != 40.0 || body["wager"] != 3.0 {
		t.Errorf("unexpected wager body: %v", body)
	}

	if _, err := runCLI(t, "-base", srv.BaseURL(), "wager", "g", "ada", "lots"); err == nil {
		t.Errorf("expected error for invalid amount")
	}
}

func TestScoreCommands(t *testing.T) {
	setupEnv(t)
	srv := gametest.New()
	defer srv.Close()
	srv.SetScores("g", map[string]float64{"bob": 3, "ada": 7})
	t.Setenv("BRAINS_BASE_SERVER_PATH", srv.BaseURL())

	out := mustRun(t, "score", "g")
	if out != "1. ada 7\n2. bob 3\n" {
		t.Errorf("unexpected leaderboard: %q", out)
	}

	out = mustRun(t, "round-score", "g")
	if out != "no scores yet\n" {
		t.Errorf("unexpected round score output: %q", out)
	}
}

func TestExitAndDelete(t *testing.T) {
	setupEnv(t)
	srv := gametest.New()
	defer srv.Close()

	mustRun(t, "-base", srv.BaseURL(), "create", "g", "ada")
	mustRun(t, "-base", srv.BaseURL(), "exit", "g", "ada")
	mustRun(t, "-base", srv.BaseURL(), "delete", "g")

	reqs := srv.Requests()
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(reqs))
	}
	if reqs[1].Method != "DELETE" || reqs[1].Path != "/api/v1/game/g/exit" {
		t.Errorf("unexpected exit request: %s %s", reqs[1].Method, reqs[1].Path)
	}
	if reqs[2].Method != "DELETE" || reqs[2].Path != "/api/v1/game/g" {
		t.Errorf("unexpected delete request: %s %s", reqs[2].Method, reqs[2].Path)
	}
}

func TestWatch(t *testing.T) {
	setupEnv(t)
	srv := gametest.New()
	defer srv.Close()
	srv.AddPlayer("g", "ada")

	out := mustRun(t, "-base", srv.BaseURL(), "watch", "-n", "3", "-interval", "1ms", "g")
	if strings.Count(out, "players:") != 1 {
		t.Errorf("expected unchanged state to print once, got %q", out)
	}
	if n := len(srv.Requests()); n != 3 {
		t.Errorf("expected 3 polls, got %d", n)
	}
}

func TestServerErrorIsReturned(t *testing.T) {
	setupEnv(t)
	srv := gametest.New()
	defer srv.Close()

	_, err := runCLI(t, "-base", srv.BaseURL(), "join", "missing", "ada")
	var httpErr *gameapi.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *gameapi.HTTPError, got %T: %v", err, err)
	}
	if httpErr.Name != gameapi.ErrNameGameNotFound {
		t.Errorf("unexpected error name %q", httpErr.Name)
	}
}

func TestUnsetBaseFailsAtTransport(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "state", "g")
	var netErr *gameapi.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *gameapi.NetworkError, got %T: %v", err, err)
	}
}

func TestClosest(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"closest", "7", "ann=2", "bob=10", "cat=5"}, "cat (5)\n"},
		{[]string{"closest", "1", "ann=2", "bob=10"}, "no guess at or below 1\n"},
		{[]string{"closest", "10", "ann=2", "bob=10"}, "bob (10)\n"},
		{[]string{"closest", "3"}, "no guess at or below 3\n"},
	}
	for _, tt := range tests {
		if out := mustRun(t, tt.args...); out != tt.want {
			t.Errorf("%v: got %q, want %q", tt.args, out, tt.want)
		}
	}

	if _, err := runCLI(t, "closest", "3", "ann"); !errors.Is(err, errUsage) {
		t.Errorf("expected usage error for malformed pair, got %v", err)
	}
}
