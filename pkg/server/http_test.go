package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPRoutes(t *testing.T) {
	srv := httptest.NewServer(NewHTTPHandler(newTestHandler(t), "1.2.3"))
	defer srv.Close()

	steps := []struct {
		description string
		method      string
		path        string
		wantCode    int
		wantCount   int
	}{
		{description: "health before load", method: http.MethodGet, path: "/healthz", wantCode: http.StatusOK},
		{description: "bad date", method: http.MethodPost, path: "/load?date=11/20/2025", wantCode: http.StatusBadRequest},
		{description: "upstream failure", method: http.MethodPost, path: "/load?date=2025-11-19", wantCode: http.StatusBadGateway},
		{description: "load", method: http.MethodPost, path: "/load?date=2025-11-20", wantCode: http.StatusOK, wantCount: 3},
		{description: "snapshot", method: http.MethodGet, path: "/snapshot", wantCode: http.StatusOK, wantCount: 3},
		{description: "suggest", method: http.MethodGet, path: "/suggest?q=alp", wantCode: http.StatusOK, wantCount: 2},
		{description: "blank suggest", method: http.MethodGet, path: "/suggest?q=%20%20", wantCode: http.StatusOK},
		{description: "select", method: http.MethodPost, path: "/select/30", wantCode: http.StatusOK},
		{description: "select missing", method: http.MethodPost, path: "/select/404", wantCode: http.StatusNotFound},
		{description: "wrong method", method: http.MethodGet, path: "/load?date=2025-11-20", wantCode: http.StatusMethodNotAllowed},
	}

	for _, st := range steps {
		req, err := http.NewRequest(st.method, srv.URL+st.path, nil)
		if err != nil {
			t.Fatalf("%s: %v", st.description, err)
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s: %v", st.description, err)
		}
		if res.StatusCode != st.wantCode {
			t.Errorf("%s: code = %d, want %d", st.description, res.StatusCode, st.wantCode)
		}
		if st.wantCode != http.StatusMethodNotAllowed {
			var body Response
			if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
				t.Errorf("%s: decoding body: %v", st.description, err)
			} else if body.Count != st.wantCount {
				t.Errorf("%s: count = %d, want %d", st.description, body.Count, st.wantCount)
			}
		}
		res.Body.Close()
	}
}

func TestHTTPVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHTTPHandler(newTestHandler(t), "1.2.3").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "rankjump v1.2.3" {
		t.Errorf("body = %q", got)
	}
}
