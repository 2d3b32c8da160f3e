// Package update checks released versions against the running build.
package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/hashicorp/go-version"
)

const releaseEndpoint = "https://api.github.com/repos/tinypb/tinypb-go/releases/latest"

// Check compares the running version against the newest release and returns
// the newer version string, or "" when the build is current. Network
// failures are returned so the caller can decide to stay quiet about them.
func Check(currentVersion string) (string, error) {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return "", fmt.Errorf("invalid version format: %w", err)
	}

	latestStr, err := fetchLatest()
	if err != nil {
		return "", err
	}
	latest, err := version.NewVersion(latestStr)
	if err != nil {
		return "", fmt.Errorf("invalid release version %q: %w", latestStr, err)
	}

	if current.LessThan(latest) {
		return latest.String(), nil
	}
	return "", nil
}

func fetchLatest() (string, error) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(releaseEndpoint)
	if err != nil {
		return "", fmt.Errorf("fetching latest release: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching latest release: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decoding release: %w", err)
	}
	return release.TagName, nil
}

// DownloadURL returns the release asset URL for the current platform.
func DownloadURL(v string) string {
	return fmt.Sprintf("https://github.com/tinypb/tinypb-go/releases/download/v%s/tinypb-%s-%s",
		v, runtime.GOOS, runtime.GOARCH)
}
