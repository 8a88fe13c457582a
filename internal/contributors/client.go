package contributors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"showcase-media/internal/logging"
)

// Client fetches contributor data from the public source-hosting API with
// plain unauthenticated GET requests. The endpoints are rate-limited by the
// provider, which is exactly the condition the service's fallback chain
// exists to survive.
type Client struct {
	httpClient *http.Client
	apiBase    string
	owner      string
	repo       string
}

// NewClient creates a Client for the given repository.
func NewClient(apiBase, owner, repo string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    apiBase,
		owner:      owner,
		repo:       repo,
	}
}

type apiContributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	HTMLURL       string `json:"html_url"`
	Contributions int    `json:"contributions"`
}

type apiStatEntry struct {
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
	Weeks []struct {
		Additions int `json:"a"`
		Deletions int `json:"d"`
	} `json:"weeks"`
}

// FetchContributors returns the raw contributor list for the repository.
func (c *Client) FetchContributors(ctx context.Context) ([]Contributor, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contributors", c.apiBase, c.owner, c.repo)

	var raw []apiContributor
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	result := make([]Contributor, 0, len(raw))
	for _, rc := range raw {
		result = append(result, Contributor{
			Login:         rc.Login,
			AvatarURL:     rc.AvatarURL,
			ProfileURL:    rc.HTMLURL,
			Contributions: rc.Contributions,
		})
	}

	return result, nil
}

// FetchStats returns per-contributor aggregate weekly additions/deletions.
// The stats endpoint returns 202 while the provider computes the data; that
// case yields an empty map rather than an error since stats are best-effort.
func (c *Client) FetchStats(ctx context.Context) (map[string]WeeklyStats, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/stats/contributors", c.apiBase, c.owner, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusAccepted {
		logging.Debug("contributor stats still computing, skipping")
		return map[string]WeeklyStats{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats request failed: %s", resp.Status)
	}

	var entries []apiStatEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}

	stats := make(map[string]WeeklyStats, len(entries))
	for _, entry := range entries {
		var total WeeklyStats
		for _, week := range entry.Weeks {
			total.Additions += week.Additions
			total.Deletions += week.Deletions
		}
		stats[entry.Author.Login] = total
	}

	return stats, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s failed: %s", url, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	return nil
}
