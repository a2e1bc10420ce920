// Package gzip compresses responses for clients accepting gzip encoding.
package gzip

import (
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzhttp"
)

const minSize = 1024

var wrap = newWrapper()

func newWrapper() func(http.Handler) http.HandlerFunc {
	w, err := gzhttp.NewWrapper(
		gzhttp.MinSize(minSize),
		gzhttp.ContentTypeFilter(compressible),
	)
	if err != nil {
		panic(err)
	}
	return w
}

// compressible skips the archive formats gzhttp already knows plus XLSX
// exports, which are zip files under an office content type.
func compressible(ct string) bool {
	if strings.Contains(strings.ToLower(ct), "openxmlformats") {
		return false
	}
	return gzhttp.DefaultContentTypeFilter(ct)
}

func GzipHandler(next http.Handler) http.Handler {
	return wrap(next)
}
