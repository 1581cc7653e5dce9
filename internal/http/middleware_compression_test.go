package httpx

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionListBody is large and repetitive so gzip savings are obvious.
var sessionListBody = `{"sessions":[` + strings.TrimSuffix(strings.Repeat(
	`{"id":"f3b6","subject_id":"auth0|ops","status":"active","ip":"10.0.0.1"},`, 400), ",") + `]}`

func compressedEcho(contentType string, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		if body != "" {
			_, _ = w.Write([]byte(body))
		}
	})
}

func serveCompressed(t *testing.T, cfg CompressionConfig, next http.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	Compression(cfg)(next).ServeHTTP(w, r)
	return w
}

func gunzip(t *testing.T, payload []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(plain)
}

func TestCompressionNegotiation(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		level          int
		wantGzip       bool
	}{
		{name: "plain gzip", acceptEncoding: "gzip", level: gzip.DefaultCompression, wantGzip: true},
		{name: "gzip among alternatives", acceptEncoding: "br, gzip, deflate", level: gzip.DefaultCompression, wantGzip: true},
		{name: "fastest level", acceptEncoding: "gzip", level: gzip.BestSpeed, wantGzip: true},
		{name: "smallest level", acceptEncoding: "gzip", level: gzip.BestCompression, wantGzip: true},
		{name: "header absent", acceptEncoding: "", level: gzip.DefaultCompression, wantGzip: false},
		{name: "gzip not offered", acceptEncoding: "deflate, br", level: gzip.DefaultCompression, wantGzip: false},
		{name: "gzip refused via qvalue", acceptEncoding: "gzip;q=0", level: gzip.DefaultCompression, wantGzip: false},
		{name: "gzip accepted via qvalue", acceptEncoding: "gzip;q=0.8", level: gzip.DefaultCompression, wantGzip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
			if tt.acceptEncoding != "" {
				r.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := serveCompressed(t, CompressionConfig{Level: tt.level},
				compressedEcho("application/json", http.StatusOK, sessionListBody), r)

			require.Equal(t, http.StatusOK, w.Code)
			if !tt.wantGzip {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				assert.Equal(t, sessionListBody, w.Body.String())
				return
			}
			assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))
			assert.Empty(t, w.Header().Get("Content-Length"))
			assert.Less(t, w.Body.Len(), len(sessionListBody))
			assert.Equal(t, sessionListBody, gunzip(t, w.Body.Bytes()))
		})
	}
}

func TestCompressionStatusCodes(t *testing.T) {
	tests := []struct {
		status   int
		wantGzip bool
	}{
		{status: http.StatusOK, wantGzip: true},
		{status: http.StatusNotFound, wantGzip: true},
		{status: http.StatusInternalServerError, wantGzip: true},
		{status: http.StatusNoContent, wantGzip: false},
		{status: http.StatusNotModified, wantGzip: false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			body := sessionListBody
			if !tt.wantGzip {
				// 204 and 304 carry no body at all.
				body = ""
			}
			r := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
			r.Header.Set("Accept-Encoding", "gzip")
			w := serveCompressed(t, CompressionConfig{Level: gzip.DefaultCompression},
				compressedEcho("application/json", tt.status, body), r)

			require.Equal(t, tt.status, w.Code)
			if tt.wantGzip {
				assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			} else {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
			}
		})
	}
}

func TestCompressionContentTypes(t *testing.T) {
	tests := []struct {
		contentType string
		wantGzip    bool
	}{
		{contentType: "application/json", wantGzip: true},
		{contentType: "application/json; charset=utf-8", wantGzip: true},
		{contentType: "text/html", wantGzip: true},
		{contentType: "text/css", wantGzip: true},
		{contentType: "application/javascript", wantGzip: true},
		{contentType: "image/svg+xml", wantGzip: true},
		{contentType: "image/png", wantGzip: false},
		{contentType: "application/pdf", wantGzip: false},
		{contentType: "application/zip", wantGzip: false},
		{contentType: "video/mp4", wantGzip: false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
			r.Header.Set("Accept-Encoding", "gzip")
			w := serveCompressed(t, CompressionConfig{Level: gzip.DefaultCompression},
				compressedEcho(tt.contentType, http.StatusOK, sessionListBody), r)

			require.Equal(t, http.StatusOK, w.Code)
			got := w.Header().Get("Content-Encoding")
			if tt.wantGzip {
				assert.Equal(t, "gzip", got)
			} else {
				assert.Empty(t, got)
				assert.Equal(t, sessionListBody, w.Body.String())
			}
		})
	}
}

func TestCompressionSkipsHEAD(t *testing.T) {
	r := httptest.NewRequest(http.MethodHead, "/api/sessions", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := serveCompressed(t, CompressionConfig{Level: gzip.DefaultCompression},
		compressedEcho("application/json", http.StatusOK, ""), r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestCompressionLeavesExistingEncoding(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "br")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pre-encoded"))
	})
	r := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := serveCompressed(t, CompressionConfig{Level: gzip.DefaultCompression}, next, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "pre-encoded", w.Body.String())
}
