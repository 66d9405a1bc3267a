package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var files = map[string]string{
	"/uploads/a.bin":     "aaaaa",
	"/uploads/b.bin":     "bbb",
	"/uploads/music.ogg": strings.Repeat("x", 100000),
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method == http.MethodGet {
			io.WriteString(w, body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCmd(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"multidl"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func checkFile(t *testing.T, p, want string) {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Errorf("Can't read %q: %v", p, err)
		return
	}
	if string(b) != want {
		t.Errorf("%q: content differs, got %d bytes, want %d", p, len(b), len(want))
	}
}

func TestDownloadCommand(t *testing.T) {
	srv := newServer(t)

	for _, headless := range []bool{true, false} {
		t.Run("headless="+strconv.FormatBool(headless), func(t *testing.T) {
			dir := t.TempDir()
			args := []string{"download", "-n", "2", "-d", dir}
			if headless {
				args = append(args, "--headless")
			}
			for p := range files {
				args = append(args, srv.URL+p)
			}
			code, _, stderr := runCmd(args...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr: %s", code, stderr)
			}
			for p, body := range files {
				checkFile(t, filepath.Join(dir, filepath.Base(p)), body)
			}
		})
	}
}

func TestDownloadCommandFailure(t *testing.T) {
	srv := newServer(t)
	dir := t.TempDir()

	code, _, stderr := runCmd("download", "--headless", "-d", dir, srv.URL+"/uploads/missing.bin", srv.URL+"/uploads/a.bin")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	want := "Couldn't download URL: " + srv.URL + "/uploads/missing.bin. Error: 404 Not Found"
	if !strings.Contains(stderr, want) {
		t.Errorf("stderr should contain %q, got %q", want, stderr)
	}
	checkFile(t, filepath.Join(dir, "a.bin"), "aaaaa")

	code, _, _ = runCmd("download", "--headless", "--policy", "ignore", "-d", dir, srv.URL+"/uploads/missing.bin")
	if code != 0 {
		t.Errorf("exit code with ignore policy = %d, want 0", code)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown command", []string{"upload"}, `Unknown command "upload"`},
		{"unknown flag", []string{"download", "--nope"}, "unknown flag: --nope"},
		{"bad policy", []string{"download", "--policy", "maybe", "http://localhost/a"}, "invalid policy 'maybe'"},
		{"bad limit", []string{"download", "-n", "0", "http://localhost/a"}, "invalid max-tasks 0"},
		{"bad location", []string{"download", "ftp://localhost/a"}, `Invalid location "ftp://localhost/a"`},
		{"get without url", []string{"get"}, "one URL is expected"},
		{"fetch without url", []string{"fetch"}, "one URL and an optional file name are expected"},
		{"bad log level", []string{"fetch", "-l", "LOUD", "http://localhost/a"}, "invalid log level 'LOUD'"},
		{"missing config", []string{"fetch", "--config", "does-not-exist.yaml", "http://localhost/a"}, "Can't read configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCmd(tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr should contain %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestGetAndFetch(t *testing.T) {
	srv := newServer(t)

	t.Run("get", func(t *testing.T) {
		dir := t.TempDir()
		code, stdout, stderr := runCmd("get", "-d", dir, srv.URL+"/uploads/music.ogg")
		if code != 0 {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr)
		}
		checkFile(t, filepath.Join(dir, "music.ogg"), files["/uploads/music.ogg"])
		if !strings.Contains(stdout, "music.ogg: 100000 bytes") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("get headless", func(t *testing.T) {
		dir := t.TempDir()
		code, stdout, stderr := runCmd("get", "--headless", "-d", dir, srv.URL+"/uploads/b.bin")
		if code != 0 {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr)
		}
		checkFile(t, filepath.Join(dir, "b.bin"), "bbb")
		if !strings.Contains(stdout, "b.bin: 3 bytes") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var stdout, stderr bytes.Buffer
		code := run(ctx, []string{"multidl", "get", "-d", t.TempDir(), srv.URL + "/uploads/missing.bin"}, &stdout, &stderr)
		if code != 1 {
			t.Fatalf("exit code = %d, want 1", code)
		}
		if ctx.Err() != nil {
			t.Errorf("get should not wait for a display without bar")
		}
		if !strings.Contains(stderr.String(), "404 Not Found") {
			t.Errorf("stderr should name the status, got %q", stderr.String())
		}
	})

	t.Run("fetch with name", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "copy.bin")
		code, stdout, stderr := runCmd("fetch", srv.URL+"/uploads/b.bin", dest)
		if code != 0 {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr)
		}
		checkFile(t, dest, "bbb")
		if !strings.Contains(stdout, "copy.bin: 3 bytes") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("fetch into directory", func(t *testing.T) {
		dir := t.TempDir()
		code, _, stderr := runCmd("fetch", "-d", dir, srv.URL+"/uploads/a.bin")
		if code != 0 {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr)
		}
		checkFile(t, filepath.Join(dir, "a.bin"), "aaaaa")
	})
}

func TestDemoCommand(t *testing.T) {
	start := time.Now()
	code, _, stderr := runCmd("demo", "--headless", "--tasks", "4", "--steps", "2", "--min-delay", "1ms", "--max-delay", "5ms", "-n", "2")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if time.Since(start) > 10*time.Second {
		t.Errorf("demo took too long")
	}
	if !strings.Contains(stderr, "[PROGRESS] done 4/4 finished") {
		t.Errorf("the headless display should log the aggregate, got %q", stderr)
	}
}

func TestHelp(t *testing.T) {
	code, _, stderr := runCmd("help")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	for _, want := range []string{"Command download", "Command get", "Command fetch", "Command demo", "MULTIDL_MAX_TASKS"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("help should contain %q", want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "multidl.yaml")
	err := os.WriteFile(conf, []byte(strings.Join([]string{
		"max_tasks: 5",
		"policy: ignore",
		"timeout: 30s",
		"locations:",
		"  - https://example.com/a.bin",
		"  - https://example.com/b.bin",
	}, "\n")), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("MULTIDL_DIR", "/from/env")
	t.Setenv("MULTIDL_LOG_LEVEL", "INFO")

	a := &app{stdout: io.Discard, stderr: io.Discard}
	a.SetFlags()
	if err := a.fsDownload.Parse([]string{"--config", conf, "-n", "3", "--log-level", "TRACE"}); err != nil {
		t.Fatal(err)
	}
	got, err := a.loadConfig(a.fsDownload)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	want := Config{
		MaxTasks:    3,
		Policy:      "ignore",
		Directory:   "/from/env",
		DefaultName: "video.mp4",
		Timeout:     30 * time.Second,
		LogLevel:    "TRACE",
		Locations:   []string{"https://example.com/a.bin", "https://example.com/b.bin"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loadConfig() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(dumpConfig(got), "MaxTasks:") {
		t.Errorf("dumpConfig() = %q", dumpConfig(got))
	}
}

func TestConfigDefaults(t *testing.T) {
	a := &app{stdout: io.Discard, stderr: io.Discard}
	a.SetFlags()
	if err := a.fsDownload.Parse(nil); err != nil {
		t.Fatal(err)
	}
	got, err := a.loadConfig(a.fsDownload)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	want := Config{MaxTasks: 2, Policy: "collect", DefaultName: "video.mp4", LogLevel: "ERROR"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loadConfig() mismatch (-want +got):\n%s", diff)
	}
}
