package util

import (
	"strings"

	"github.com/jgivc/anexofetch/internal/common"
)

// ResolveURL makes href absolute against origin (scheme and host, no
// trailing path). http and https hrefs are returned as is.
func ResolveURL(origin, href string) string {
	if isAbsolute(href) {
		return href
	}

	if strings.HasPrefix(href, "//") {
		if i := strings.Index(origin, "://"); i > 0 {
			return origin[:i+1] + href
		}

		return "https:" + href
	}

	origin = strings.TrimSuffix(origin, "/")
	if strings.HasPrefix(href, "/") {
		return origin + href
	}

	return origin + "/" + href
}

// FileName returns the segment after the last slash of href.
func FileName(href string) (string, error) {
	name := href[strings.LastIndex(href, "/")+1:]
	if name == "" || name == "." || name == ".." {
		return "", common.ErrEmptyFileName
	}

	return name, nil
}

// isAbsolute reports whether href is an http or https URL.
func isAbsolute(href string) bool {
	lower := strings.ToLower(href)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
