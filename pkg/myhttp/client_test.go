package myhttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/simulot/multidl/pkg/models"
)

type recorder struct {
	lines []string
}

func (r *recorder) Printf(f string, a ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(f, a...))
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		conf    []func(c *Client)
		agent   string
		timeout time.Duration
	}{
		{"default", nil, UserAgent, 0},
		{"with agent", []func(c *Client){WithUserAgent("Given Agent")}, "Given Agent", 0},
		{"with timeout", []func(c *Client){WithTimeout(time.Second)}, UserAgent, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.conf...)
			if c.userAgent != tt.agent {
				t.Errorf("Want userAgent to be %q, but got %q", tt.agent, c.userAgent)
			}
			if c.Client.Timeout != tt.timeout {
				t.Errorf("Want timeout %s, but got %s", tt.timeout, c.Client.Timeout)
			}
		})
	}
}

func TestHeadAndGet(t *testing.T) {
	var gotAgent, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotMethod = r.Method
		w.Header().Set("Content-Length", "5")
		if r.Method == http.MethodGet {
			io.WriteString(w, "hello")
		}
	}))
	defer srv.Close()

	rec := &recorder{}
	c := NewClient(WithUserAgent("tester"), WithLogger(rec))

	resp, err := c.Head(context.Background(), srv.URL+"/file.bin")
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	resp.Body.Close()
	if gotMethod != http.MethodHead || gotAgent != "tester" {
		t.Errorf("server saw %s with agent %q", gotMethod, gotAgent)
	}
	if resp.ContentLength != 5 {
		t.Errorf("ContentLength = %d, want 5", resp.ContentLength)
	}

	resp, err = c.Get(context.Background(), srv.URL+"/file.bin")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(b) != "hello" {
		t.Errorf("body = %q, want %q", b, "hello")
	}
	if len(rec.lines) != 4 || !strings.HasPrefix(rec.lines[0], "[HTTPCLIENT] HEAD ") {
		t.Errorf("unexpected log lines %q", rec.lines)
	}
}

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient()
	resp, err := c.Head(context.Background(), srv.URL+"/missing")
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	err = CheckStatus(resp)
	if err == nil {
		t.Fatal("CheckStatus() should fail on 404")
	}
	if !models.IsKind(err, models.KindStatus) || models.StatusCode(err) != http.StatusNotFound {
		t.Errorf("CheckStatus() = %v, want a 404 status error", err)
	}
	if !strings.Contains(err.Error(), srv.URL+"/missing") {
		t.Errorf("error should name the URL, got %q", err)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()

	_, err := NewClient().Get(context.Background(), u)
	if err == nil {
		t.Fatal("Get() on a closed server should fail")
	}
	if !models.IsKind(err, models.KindTransport) {
		t.Errorf("Get() error = %v, want a transport error", err)
	}
}
