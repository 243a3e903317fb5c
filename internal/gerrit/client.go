package gerrit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/klimeurt/gerrit-repo-stats/internal/config"
	"golang.org/x/oauth2"
)

// xssiPrefix guards Gerrit JSON responses and must be stripped before decoding.
const xssiPrefix = ")]}'"

const projectsEndpoint = "/projects/"

// excludedProjects are Gerrit's built-in meta projects; they carry no source
// history and are left out of the report.
var excludedProjects = map[string]bool{
	"All-Projects": true,
	"All-Users":    true,
}

// Client talks to a Gerrit server's REST API
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

// NewClient creates a new Client instance. When a token is configured the
// client authenticates with it as a bearer token, otherwise HTTP Basic
// credentials are sent with each request.
func NewClient(cfg *config.Config) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	user, password := cfg.GerritUser, cfg.GerritPassword
	if cfg.GerritToken != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.GerritToken},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
		user, password = "", ""
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.GerritURL, "/"),
		user:       user,
		password:   password,
		httpClient: httpClient,
	}
}

// ListProjects fetches the full set of repository names from the Gerrit
// project-listing endpoint, sorted, with the built-in meta projects removed.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+projectsEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build projects request: %w", err)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects from %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("projects request to %s returned %s", c.baseURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects response: %w", err)
	}

	// The response is a JSON object keyed by project name, behind the XSSI prefix.
	payload := strings.TrimPrefix(string(body), xssiPrefix)
	var projects map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects response: %w", err)
	}

	names := make([]string, 0, len(projects))
	for name := range projects {
		if excludedProjects[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
