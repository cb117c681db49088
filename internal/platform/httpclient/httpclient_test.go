package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoJSON_DecodesAndKeepsRawQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.Header.Get("X-Api-Key") != "k" {
			t.Errorf("missing header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewWithBaseURL: %v", err)
	}

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.GetJSON(context.Background(), `/x?search=a:"b"+c:"d"&limit=1`, map[string]string{"X-Api-Key": "k"}, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected decoded body")
	}
	if gotQuery != `search=a:%22b%22+c:%22d%22&limit=1` && gotQuery != `search=a:"b"+c:"d"&limit=1` {
		t.Fatalf("unexpected raw query %q", gotQuery)
	}
}

func TestDoJSON_Non2xxReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(time.Second)
	err := c.GetJSON(context.Background(), srv.URL+"/missing", nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
	if IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("IsStatus matched wrong code")
	}
}

func TestResolveURL_RelativeRequiresBase(t *testing.T) {
	c := New(0)
	if _, err := c.resolveURL("/path"); err == nil {
		t.Fatalf("expected error without BaseURL")
	}
	if _, err := NewWithBaseURL("::bad", time.Second); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}
