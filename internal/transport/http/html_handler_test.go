package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestServeDashboardApp(t *testing.T) {
	frontend := fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte("<html>dashboard</html>")},
		"app.js":     &fstest.MapFile{Data: []byte("console.log('hi')")},
	}
	handler := ServeDashboardApp(frontend)

	tests := []struct {
		name         string
		path         string
		expectedBody string
	}{
		{"root serves index", "/", "<html>dashboard</html>"},
		{"existing asset", "/app.js", "console.log('hi')"},
		{"unknown path falls back to index", "/some/client/route", "<html>dashboard</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expectedBody, rec.Body.String())
		})
	}
}

func TestServeDashboardApp_MissingIndex(t *testing.T) {
	handler := ServeDashboardApp(fstest.MapFS{})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
