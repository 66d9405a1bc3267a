package download

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/purell"
	"github.com/simulot/multidl/pkg/models"
	"golang.org/x/text/unicode/norm"
)

// DefaultName is used when the location has no usable last path segment
const DefaultName = "video.mp4"

var fileNameReplacer = strings.NewReplacer("/", "-", "\\", "-", "!", "", "?", "", ":", "-", "*", "-", "|", "-", "\"", "", ">", "", "<", "", "\x00", "")

// FileNameCleaner return a safe file name
func FileNameCleaner(s string) string {
	return strings.TrimSpace(fileNameReplacer.Replace(s))
}

// FileNameFromURL gives the last segment of the location path, percent-decoded and cleaned.
// When the path ends with a slash or is empty, def is returned.
//
//	https://host/a/b/example.mp4 -> example.mp4
//	https://host/                -> def
func FileNameFromURL(u *url.URL, def string) string {
	p := u.EscapedPath()
	seg := p[strings.LastIndex(p, "/")+1:]
	if s, err := url.PathUnescape(seg); err == nil {
		seg = s
	}
	seg = FileNameCleaner(norm.NFC.String(seg))
	if seg == "" || seg == "." || seg == ".." {
		return def
	}
	return seg
}

// ParseLocation normalises the given string and checks it's an absolute http(s) URL
func ParseLocation(s string) (*url.URL, error) {
	n, err := purell.NormalizeURLString(strings.TrimSpace(s), purell.FlagsSafe|purell.FlagRemoveDotSegments)
	if err != nil {
		return nil, models.NewError(models.KindTransport, err, "Invalid location %q", s)
	}
	u, err := url.Parse(n)
	if err != nil {
		return nil, models.NewError(models.KindTransport, err, "Invalid location %q", s)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, models.NewError(models.KindTransport, nil, "Invalid location %q: an absolute http or https URL is expected", s)
	}
	return u, nil
}

// PathClean replace ~/ by user's home directory and
// call path.Clean to secure the path
func PathClean(p string) string {
	if p == "" {
		return p
	}
	p = path.Clean(filepath.ToSlash(p))
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			p = path.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return filepath.FromSlash(p)
}
