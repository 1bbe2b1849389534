package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"1.2.0", "1.1.0", true},
		{"1.1.1", "1.1.0", true},
		{"2.0.0", "1.9.9", true},
		{"1.10.0", "1.9.0", true},
		{"1.1.0", "1.1.0", false},
		{"1.0.0", "1.1.0", false},
		{"1.1.0", "2.0.0", false},
		{"1.1.0", "", false},
		{"1.1.0", "dev", false},
		{"bad", "1.0.0", false},
		{"1.0.0", "bad", false},
		{"1.0", "1.0.0", false},
	}
	for _, tt := range tests {
		got := isNewer(tt.latest, tt.current)
		if got != tt.want {
			t.Errorf("isNewer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
		}
	}
}

func testUpdater(t *testing.T, current string) *updater {
	t.Helper()
	exe := filepath.Join(t.TempDir(), releaseAsset)
	require.NoError(t, os.WriteFile(exe, []byte("old"), 0o755))
	return &updater{
		current: current,
		exe:     exe,
		client:  http.DefaultClient,
		log:     zap.NewNop().Sugar(),
	}
}

func releaseServer(t *testing.T, tag string, assets ...string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		rel := ghRelease{TagName: tag}
		for _, a := range assets {
			rel.Assets = append(rel.Assets, ghAsset{Name: a, BrowserDownloadURL: srv.URL + "/download/" + a})
		}
		_ = json.NewEncoder(w).Encode(rel)
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("new"))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdaterCheck(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		assets  []string
		current string
		wantVer string
		wantURL bool
		wantErr bool
	}{
		{"newer release", "v1.3.0", []string{"nvtoggle.exe"}, "1.2.0", "1.3.0", true, false},
		{"asset name case-insensitive", "v1.3.0", []string{"NvToggle.exe"}, "1.2.0", "1.3.0", true, false},
		{"up to date", "v1.2.0", []string{"nvtoggle.exe"}, "1.2.0", "", false, false},
		{"dev build", "v9.9.9", []string{"nvtoggle.exe"}, "dev", "", false, false},
		{"missing asset", "v1.3.0", []string{"other.zip"}, "1.2.0", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := releaseServer(t, tt.tag, tt.assets...)
			u := testUpdater(t, tt.current)
			u.releaseURL = srv.URL + "/latest"

			ver, url, err := u.check(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVer, ver)
			assert.Equal(t, tt.wantURL, url != "")
		})
	}
}

func TestUpdaterCheckHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	u := testUpdater(t, "1.0.0")
	u.releaseURL = srv.URL
	_, _, err := u.check(context.Background())
	assert.EqualError(t, err, "GitHub API returned 403")
}

func TestUpdaterRun(t *testing.T) {
	srv := releaseServer(t, "v2.0.0", releaseAsset)
	u := testUpdater(t, "1.0.0")
	u.releaseURL = srv.URL + "/latest"

	u.run(context.Background())

	got, err := os.ReadFile(u.exe)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	gotOld, err := os.ReadFile(u.exe + ".old")
	require.NoError(t, err)
	assert.Equal(t, "old", string(gotOld))

	_, err = os.Stat(u.exe + ".tmp")
	assert.True(t, os.IsNotExist(err), "tmp file should not exist after apply")

	u.cleanOld()
	_, err = os.Stat(u.exe + ".old")
	assert.True(t, os.IsNotExist(err), "old binary should be removed")
}

func TestUpdaterApplyRollback(t *testing.T) {
	u := testUpdater(t, "1.0.0")

	// No .tmp file exists, so the second rename fails and the original is restored.
	err := u.apply(u.exe + ".tmp")
	assert.Error(t, err)

	got, err := os.ReadFile(u.exe)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}
