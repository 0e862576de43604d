package funnelenvy

import (
	"strings"
	"time"
)

// HTTPRequestTimeout is the default timeout for all HTTP requests to FunnelEnvy.
const HTTPRequestTimeout = 60 * time.Second

// absoluteURL resolves scheme-relative URLs (e.g. "//cdn2.funnelenvy.com/...") to https.
func absoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
