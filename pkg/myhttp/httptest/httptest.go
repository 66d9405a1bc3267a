// Package httptest provides an in-memory http.RoundTripper to mock remote files
package httptest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
)

// File is a mocked remote file
type File struct {
	Body       []byte
	HideLength bool  // No Content-Length on HEAD
	Status     int   // 0 means 200
	Err        error // Returned by RoundTrip instead of a response
}

// Transport serves the files by URL path. Unknown paths get a 404.
type Transport struct {
	mu       sync.Mutex
	files    map[string]File
	requests []string
}

// New create a Transport and configures it
func New(conf ...func(t *Transport)) *Transport {
	t := &Transport{
		files: map[string]File{},
	}
	for _, fn := range conf {
		fn(t)
	}
	return t
}

// WithFile serves body at path
func WithFile(path string, body string) func(t *Transport) {
	return func(t *Transport) {
		t.files[path] = File{Body: []byte(body)}
	}
}

// WithUnknownLength serves body at path without giving its size to HEAD requests
func WithUnknownLength(path string, body string) func(t *Transport) {
	return func(t *Transport) {
		t.files[path] = File{Body: []byte(body), HideLength: true}
	}
}

// WithStatus answers status to all requests on path
func WithStatus(path string, status int) func(t *Transport) {
	return func(t *Transport) {
		t.files[path] = File{Status: status}
	}
}

// WithError fails all requests on path
func WithError(path string, err error) func(t *Transport) {
	return func(t *Transport) {
		t.files[path] = File{Err: err}
	}
}

// RoundTrip implements the http.RoundTripper interface
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, r.Method+" "+r.URL.Path)
	f, ok := t.files[r.URL.Path]
	t.mu.Unlock()

	if err := r.Context().Err(); err != nil {
		return nil, err
	}
	if !ok {
		f = File{Status: http.StatusNotFound}
	}
	if f.Err != nil {
		return nil, fmt.Errorf("Transport.RoundTrip: %w", f.Err)
	}
	if f.Status == 0 {
		f.Status = http.StatusOK
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/octet-stream")
	resp := &http.Response{
		Status:        strconv.Itoa(f.Status) + " " + http.StatusText(f.Status),
		StatusCode:    f.Status,
		Proto:         "HTTP/1.0",
		ProtoMajor:    1,
		ProtoMinor:    0,
		Body:          http.NoBody,
		ContentLength: int64(len(f.Body)),
		Close:         true,
		Request:       r,
		Header:        header,
	}
	switch {
	case r.Method == http.MethodHead && f.HideLength:
		resp.ContentLength = -1
	case r.Method != http.MethodHead:
		resp.Body = io.NopCloser(bytes.NewReader(f.Body))
	}
	if resp.ContentLength >= 0 {
		header.Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	return resp, nil
}

// Requests returns the received requests as "METHOD path"
func (t *Transport) Requests() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.requests...)
}
