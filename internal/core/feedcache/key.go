package feedcache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

// Key derives the cache key for a request to the named view.
// It depends only on the view, method, path and raw query string, so
// "/?page=1" and "/?page=2" get distinct entries and different views never share one.
func Key(view string, r *http.Request) string {
	target := r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	sum := sha256.Sum256([]byte(r.Method + " " + target))
	return view + ":" + hex.EncodeToString(sum[:])
}
