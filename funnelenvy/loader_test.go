package funnelenvy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestScriptURL(t *testing.T) {
	tests := map[string]string{
		"testOrgId": "//cdn2.funnelenvy.com/organization/testOrgId/backstage-client.js",
		"":          "//cdn2.funnelenvy.com/organization//backstage-client.js",
		"a b/c":     "//cdn2.funnelenvy.com/organization/a b/c/backstage-client.js",
	}
	for id, expected := range tests {
		if result := ScriptURL(id); result != expected {
			t.Errorf("Expected url: %s but have: %s", expected, result)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	if result := absoluteURL("//backstage.funnelenvy.com"); result != "https://backstage.funnelenvy.com" {
		t.Errorf("Expected https url but have: %s", result)
	}
	if result := absoluteURL("http://127.0.0.1:8080"); result != "http://127.0.0.1:8080" {
		t.Errorf("Expected url to be unchanged but have: %s", result)
	}
}

func TestHTTPScriptLoader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/organization/testOrgId/backstage-client.js":
			w.Header().Set("Content-Type", "application/javascript")
			_, _ = w.Write([]byte("window.FunnelEnvy = function FunnelEnvy() {};"))
		case "/organization/empty/backstage-client.js":
			w.Header().Set("Content-Type", "application/javascript")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := HTTPScriptLoader{}
	if err := loader.LoadScript(context.Background(), server.URL+"/organization/testOrgId/backstage-client.js"); err != nil {
		t.Errorf("Expected script to load but have: %v", err)
	}
	if err := loader.LoadScript(context.Background(), server.URL+"/organization/empty/backstage-client.js"); err == nil {
		t.Error("Expected an error for an empty script")
	}
	if err := loader.LoadScript(context.Background(), server.URL+"/organization/missing/backstage-client.js"); err == nil {
		t.Error("Expected an error for a missing script")
	}
}
