package roster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownload(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantError  bool
	}{
		{"ok", http.StatusOK, "xlsx-bytes", false},
		{"forbidden", http.StatusForbidden, "denied", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("exportFormat") != "xlsx" {
					t.Errorf("exportFormat = %q", r.URL.Query().Get("exportFormat"))
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			dest := filepath.Join(t.TempDir(), "out", "result.xlsx")
			if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(dest, []byte("previous"), 0644); err != nil {
				t.Fatal(err)
			}

			err := Download(context.Background(), nil, server.URL+"/Export?exportFormat=xlsx", dest)

			data, readErr := os.ReadFile(dest)
			if readErr != nil {
				t.Fatalf("reading dest: %v", readErr)
			}

			if tt.wantError {
				if err == nil {
					t.Error("Download() expected error")
				}
				if string(data) != "previous" {
					t.Errorf("failed download replaced file with %q", data)
				}
				return
			}
			if err != nil {
				t.Fatalf("Download() error: %v", err)
			}
			if string(data) != tt.body {
				t.Errorf("downloaded %q, want %q", data, tt.body)
			}
		})
	}
}
