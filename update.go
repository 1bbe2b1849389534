package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	githubReleaseURL = "https://api.github.com/repos/alex-vit/nvtoggle/releases/latest"
	releaseAsset     = "nvtoggle.exe"
)

type ghRelease struct {
	TagName string    `json:"tag_name"`
	Assets  []ghAsset `json:"assets"`
}

type ghAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// updater replaces exe with the latest GitHub release. The new binary takes
// effect on next launch.
type updater struct {
	releaseURL string
	current    string
	exe        string
	client     *http.Client
	log        *zap.SugaredLogger
}

func newUpdater(log *zap.SugaredLogger) (*updater, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return &updater{
		releaseURL: githubReleaseURL,
		current:    version,
		exe:        exe,
		client:     &http.Client{Timeout: 2 * time.Minute},
		log:        log,
	}, nil
}

func (u *updater) run(ctx context.Context) {
	latestVer, url, err := u.check(ctx)
	if err != nil {
		u.log.Warnw("update: check failed", "err", err)
		return
	}
	if url == "" {
		u.log.Infow("update: none available", "current", displayVersion())
		return
	}
	u.log.Infow("update: available", "version", latestVer)
	tmpPath, err := u.download(ctx, url)
	if err != nil {
		u.log.Warnw("update: download failed", "err", err)
		return
	}
	if err := u.apply(tmpPath); err != nil {
		u.log.Warnw("update: apply failed", "err", err)
	}
}

// cleanOld removes a leftover .old file from a previous update.
func (u *updater) cleanOld() {
	old := u.exe + ".old"
	if err := os.Remove(old); err == nil {
		u.log.Infow("update: removed old binary", "path", old)
	}
}

// check queries the releases API and returns the latest version and asset
// download URL if it's newer than the current version.
func (u *updater) check(ctx context.Context) (latestVer, downloadURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.releaseURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var rel ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", err
	}

	latestVer = strings.TrimPrefix(rel.TagName, "v")
	if !isNewer(latestVer, u.current) {
		return "", "", nil // up to date
	}

	for _, a := range rel.Assets {
		if strings.EqualFold(a.Name, releaseAsset) {
			return latestVer, a.BrowserDownloadURL, nil
		}
	}
	return "", "", fmt.Errorf("no %s asset in release %s", releaseAsset, rel.TagName)
}

// download saves the new binary to a .tmp file next to exe.
func (u *updater) download(ctx context.Context, url string) (tmpPath string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned %d", resp.StatusCode)
	}

	tmpPath = u.exe + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	u.log.Infow("update: downloaded", "path", tmpPath)
	return tmpPath, nil
}

// apply swaps tmpPath in for exe, keeping the running binary as .old.
func (u *updater) apply(tmpPath string) error {
	old := u.exe + ".old"

	// Windows allows renaming a running exe but not overwriting it.
	if err := os.Rename(u.exe, old); err != nil {
		return fmt.Errorf("rename current to .old: %w", err)
	}
	if err := os.Rename(tmpPath, u.exe); err != nil {
		_ = os.Rename(old, u.exe)
		return fmt.Errorf("rename .tmp to exe: %w", err)
	}

	u.log.Infow("update: applied, new version ready on next launch")
	return nil
}

// isNewer reports whether latest is a higher semver than current.
// Versions are expected as "X.Y.Z" (no "v" prefix).
func isNewer(latest, current string) bool {
	if current == "" || current == "dev" {
		return false // dev builds don't auto-update
	}
	lp := parseSemver(latest)
	cp := parseSemver(current)
	if lp == nil || cp == nil {
		return false
	}
	for i := range 3 {
		if lp[i] > cp[i] {
			return true
		}
		if lp[i] < cp[i] {
			return false
		}
	}
	return false
}

func parseSemver(s string) []int {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return nil
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		nums[i] = n
	}
	return nums
}
