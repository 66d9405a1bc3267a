package download

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		name string
		u    string
		want string
	}{
		{"nested path", "https://example.com/a/b/example.mp4", "example.mp4"},
		{"query ignored", "https://example.com/file.wav?token=1#frag", "file.wav"},
		{"no path", "https://example.com", DefaultName},
		{"root", "https://example.com/", DefaultName},
		{"trailing slash", "https://example.com/dir/", DefaultName},
		{"percent encoded", "https://example.com/my%20file.png", "my file.png"},
		{"encoded slash", "https://example.com/a%2Fb.txt", "a-b.txt"},
		{"decomposed accent", "https://example.com/cafe%CC%81.jpg", "café.jpg"},
		{"unsafe characters", "https://example.com/what%3F%3Cyes%3E.ogg", "whatyes.ogg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.u)
			if err != nil {
				t.Fatal(err)
			}
			if got := FileNameFromURL(u, DefaultName); got != tt.want {
				t.Errorf("FileNameFromURL(%q) = %q, want %q", tt.u, got, tt.want)
			}
		})
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://file-examples-com.github.io/uploads/2017/10/file_example_JPG_1MB.jpg", "https://file-examples-com.github.io/uploads/2017/10/file_example_JPG_1MB.jpg", false},
		{"  HTTP://Example.COM:80/a/./b/../c.bin ", "http://example.com/a/c.bin", false},
		{"ftp://example.com/file", "", true},
		{"/relative/path", "", true},
		{"not a url at all", "", true},
		{"http://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := ParseLocation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && u.String() != tt.want {
				t.Errorf("ParseLocation() = %q, want %q", u, tt.want)
			}
		})
	}
}

func TestPathClean(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"a/b/../c", filepath.FromSlash("a/c")},
		{"~/Downloads", filepath.Join(home, "Downloads")},
		{"~", home},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := PathClean(tt.in); got != tt.want {
				t.Errorf("PathClean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
