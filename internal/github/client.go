// Package github is a read-through proxy over the GitHub contents API for a
// single fixed repository laid out as numbered day folders.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound covers missing folders, files, and repository paths.
var ErrNotFound = errors.New("not found")

// UpstreamError is a non-success, non-404 response from the GitHub API.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github api returned status %d", e.Status)
}

// DayFolder is a repository directory whose name encodes a day ordinal.
type DayFolder struct {
	DayNumber  int    `json:"day_number"`
	FolderName string `json:"folder_name"`
}

// RepoFile is a Python file inside a day folder.
type RepoFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// FileContent is a fetched file with its decoded text.
type FileContent struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Content  string `json:"content"`
}

// dayPattern matches names like "Day 1", "day_12", "Day3-loops".
var dayPattern = regexp.MustCompile(`(?i)day[_\s]*(\d+)`)

// Client talks to the GitHub contents API for one repository.
type Client struct {
	// BaseURL is overridable for tests; defaults to the public API.
	BaseURL    string
	HTTPClient *http.Client

	owner string
	repo  string
	ref   string
	token string
}

// NewClient creates a client for owner/repo at the given ref. The token is
// optional and only needed for private repositories.
func NewClient(owner, repo, ref, token string) *Client {
	return &Client{
		BaseURL:    "https://api.github.com",
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		owner:      owner,
		repo:       repo,
		ref:        ref,
		token:      token,
	}
}

type contentItem struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"` // "file" or "dir"
	Content  string `json:"content,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	// Folder names may contain spaces; escape segments but keep separators.
	escaped := (&url.URL{Path: path}).EscapedPath()
	reqURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.BaseURL, c.owner, c.repo, escaped)
	if c.ref != "" {
		reqURL += "?ref=" + url.QueryEscape(c.ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, &UpstreamError{Status: resp.StatusCode}
	}
	return resp, nil
}

// contents lists a directory of the repository. Empty path is the root.
func (c *Client) contents(ctx context.Context, path string) ([]contentItem, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var items []contentItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding contents of %q: %w", path, err)
	}
	return items, nil
}

// ListDays returns all day folders sorted ascending by day number.
func (c *Client) ListDays(ctx context.Context) ([]DayFolder, error) {
	items, err := c.contents(ctx, "")
	if err != nil {
		return nil, err
	}

	days := []DayFolder{}
	for _, it := range items {
		if it.Type != "dir" {
			continue
		}
		m := dayPattern.FindStringSubmatch(it.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		days = append(days, DayFolder{DayNumber: n, FolderName: it.Name})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	return days, nil
}

// findDayFolder resolves the folder name for a specific day, anchored at a
// word boundary so day 1 does not match "day_12".
func (c *Client) findDayFolder(ctx context.Context, day int) (string, error) {
	items, err := c.contents(ctx, "")
	if err != nil {
		return "", err
	}

	re := regexp.MustCompile(fmt.Sprintf(`(?i)day[_\s]*%d\b`, day))
	for _, it := range items {
		if it.Type == "dir" && re.MatchString(it.Name) {
			return it.Name, nil
		}
	}
	return "", ErrNotFound
}

// ListDayFiles lists the Python files in the folder for the given day.
func (c *Client) ListDayFiles(ctx context.Context, day int) ([]RepoFile, error) {
	folder, err := c.findDayFolder(ctx, day)
	if err != nil {
		return nil, err
	}

	items, err := c.contents(ctx, folder)
	if err != nil {
		return nil, err
	}

	files := []RepoFile{}
	for _, it := range items {
		if it.Type == "file" && strings.HasSuffix(it.Name, ".py") {
			files = append(files, RepoFile{Filename: it.Name, Path: it.Path})
		}
	}
	return files, nil
}

// GetFile fetches and decodes one file from the folder for the given day.
func (c *Client) GetFile(ctx context.Context, day int, filename string) (*FileContent, error) {
	folder, err := c.findDayFolder(ctx, day)
	if err != nil {
		return nil, err
	}

	path := folder + "/" + filename
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var item contentItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("decoding file %q: %w", path, err)
	}

	// The contents API wraps base64 payloads in newlines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(item.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decoding content of %q: %w", path, err)
	}

	return &FileContent{Filename: filename, Path: path, Content: string(raw)}, nil
}
