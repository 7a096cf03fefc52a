package opensea

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

	"sealister/pkg/seaport"
)

const DefaultBaseURL = "https://api.opensea.io"

// Client talks to the marketplace's v2 REST API. It performs single
// synchronous requests with no retries; callers decide what a failure means.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api url parse %q: %w", baseURL, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("api url must be http(s), got %q", baseURL)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key required")
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// AccountNFTs fetches one page of the wallet's holdings on the given chain.
// Pagination is not followed; the first page is the run's working set.
func (c *Client) AccountNFTs(ctx context.Context, chain, address string) ([]NFT, error) {
	endpoint := fmt.Sprintf("%s/api/v2/chain/%s/account/%s/nfts",
		c.baseURL, url.PathEscape(chain), url.PathEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holdings query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holdings query status=%d: %s", resp.StatusCode, readAPIError(resp.Body))
	}

	var out nftsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("holdings decode: %w", err)
	}
	return out.NFTs, nil
}

// CreateListing posts one signed order. A 2xx response means the marketplace
// accepted the listing; anything else surfaces the most specific diagnostic
// available, preferring the API's own error message.
func (c *Client) CreateListing(ctx context.Context, chain string, params ListingParameters) error {
	body, err := json.Marshal(listingRequest{
		Parameters:      params,
		ProtocolAddress: strings.ToLower(seaport.ProtocolAddress),
	})
	if err != nil {
		return fmt.Errorf("listing encode: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v2/orders/%s/seaport/listings", c.baseURL, url.PathEscape(chain))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("listing post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("listing rejected status=%d: %s", resp.StatusCode, readAPIError(resp.Body))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)
}

// AssetURL builds the public view-page link for a listed token.
func AssetURL(chain, contract, identifier string) string {
	return fmt.Sprintf("https://opensea.io/assets/%s/%s/%s",
		chain, strings.ToLower(contract), identifier)
}

// readAPIError extracts the API's error message from a bounded read of the
// response body, falling back to the raw body when it is not JSON.
func readAPIError(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 8<<10))
	var e apiError
	if err := json.Unmarshal(raw, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if len(e.Errors) > 0 {
			return strings.Join(e.Errors, "; ")
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return "no error body"
}
