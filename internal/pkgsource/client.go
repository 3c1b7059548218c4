package pkgsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hostwise/hostwise/internal/logger"
)

// Schema versions this client can speak, newest preferred.
var supportedSchemaVersions = []string{"1.4", "1.3", "1.2", "1.1", "1.0"}

const defaultRequestTimeout = 30 * time.Second

// Client talks to a REST package source.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a client for the source rooted at baseURL.
func NewClient(baseURL string, log *logger.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid package source url %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("package source url %q must be http or https", baseURL)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout},
		log:     log,
	}, nil
}

// Information fetches and validates the source's information document,
// verifying that the server speaks a schema version this client supports.
func (c *Client) Information(ctx context.Context) (*SourceInformation, error) {
	body, err := c.get(ctx, "/information")
	if err != nil {
		return nil, err
	}

	var envelope informationEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding source information: %w", err)
	}
	info := envelope.Data
	if info == nil {
		return nil, fmt.Errorf("source information has no data")
	}
	if info.SourceIdentifier == "" {
		return nil, fmt.Errorf("source information has no identifier")
	}

	if negotiateSchemaVersion(info.ServerSupportedVersions) == "" {
		return nil, fmt.Errorf("source %s supports none of the client schema versions", info.SourceIdentifier)
	}

	return info, nil
}

// Search posts a keyword query and returns the matching packages.
func (c *Client) Search(ctx context.Context, request SearchRequest) ([]SearchMatch, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	body, err := c.post(ctx, "/manifestSearch", payload)
	if err != nil {
		return nil, err
	}

	return ParseSearchResponse(body)
}

// Manifest fetches the full metadata document for one package.
func (c *Client) Manifest(ctx context.Context, packageIdentifier string) (*Manifest, error) {
	if packageIdentifier == "" {
		return nil, fmt.Errorf("package identifier is required")
	}

	body, err := c.get(ctx, "/packageManifests/"+url.PathEscape(packageIdentifier))
	if err != nil {
		return nil, err
	}

	return ParseManifest(body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(request)
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	return c.do(request)
}

func (c *Client) do(request *http.Request) ([]byte, error) {
	c.log.Debug("package source request", "method", request.Method, "url", request.URL.String())

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("package source request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading package source response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("package source returned status %d for %s", response.StatusCode, request.URL.Path)
	}

	return body, nil
}

// negotiateSchemaVersion picks the newest schema version both sides speak.
func negotiateSchemaVersion(serverVersions []string) string {
	server := make(map[string]bool, len(serverVersions))
	for _, version := range serverVersions {
		server[version] = true
	}

	for _, version := range supportedSchemaVersions {
		if server[version] {
			return version
		}
	}
	return ""
}
