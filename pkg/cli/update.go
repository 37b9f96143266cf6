package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const updateRepo = "Fepozopo/tonyscale"

// githubAPI is replaced in tests.
var githubAPI = "https://api.github.com"

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// detectLatest queries the GitHub releases of repo and returns the highest
// published, non-prerelease semver release. Tags only need to contain a
// version somewhere ("tonyscale-v1.2.3" works). It returns nil when no
// release qualifies.
func detectLatest(apiBase, repo string) (*selfupdate.Release, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf("%s/repos/%s/releases", apiBase, repo))
	if err != nil {
		return nil, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var releases []struct {
		TagName    string `json:"tag_name"`
		Name       string `json:"name"`
		Draft      bool   `json:"draft"`
		Prerelease bool   `json:"prerelease"`
		HTMLURL    string `json:"html_url"`
		Assets     []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, fmt.Errorf("failed to decode github releases: %w", err)
	}

	var candidates []*selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			match = semverRe.FindString(r.Name)
		}
		if match == "" {
			continue
		}
		v, err := semver.Parse(strings.TrimPrefix(match, "v"))
		if err != nil {
			continue
		}
		rel := &selfupdate.Release{Version: v, URL: r.HTMLURL}
		for _, a := range r.Assets {
			if assetMatchesPlatform(a.Name) {
				rel.AssetURL = a.BrowserDownloadURL
				break
			}
		}
		candidates = append(candidates, rel)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Version.GT(candidates[j].Version)
	})
	return candidates[0], nil
}

// assetMatchesPlatform reports whether a release asset name mentions the
// running OS and architecture.
func assetMatchesPlatform(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, goos) && strings.Contains(n, goarch)
}

// CheckForUpdates compares Version with the latest GitHub release and, after
// confirmation on in (or immediately when assumeYes), replaces the running
// executable.
func CheckForUpdates(w io.Writer, in io.Reader, assumeYes bool) error {
	fmt.Fprintf(w, "Current version: %s\n", Version)
	latest, err := detectLatest(githubAPI, updateRepo)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if latest == nil {
		fmt.Fprintf(w, "No releases found for %s.\n", updateRepo)
		return nil
	}
	fmt.Fprintf(w, "Latest version: %s\n", latest.Version)

	current, err := semver.Parse(strings.TrimPrefix(Version, "v"))
	if err != nil {
		warnf("could not parse current version %q: %v", Version, err)
	} else if !latest.Version.GT(current) {
		fmt.Fprintf(w, "You are already running the latest version: %s.\n", current)
		return nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(w, "A new version (%s) is available but has no asset for %s/%s.\n", latest.Version, goos, goarch)
		if latest.URL != "" {
			fmt.Fprintf(w, "Download it from %s\n", latest.URL)
		}
		return nil
	}

	if !assumeYes {
		answer, err := promptLine(w, in, fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
		if err != nil {
			return fmt.Errorf("failed reading input: %w", err)
		}
		answer = strings.ToLower(answer)
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(w, "Update cancelled.")
			return nil
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	debugf("updating %s from %s", exe, latest.AssetURL)
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(w, "Updated to version %s.\n", latest.Version)
	return nil
}
