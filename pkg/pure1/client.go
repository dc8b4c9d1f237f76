package pure1

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/ssh"

	"github.com/x1thexxx-lgtm/fleetinv/pkg/config"
)

const (
	apiPrefix = "/api/1.latest"
	tokenPath = "/oauth2/1.0/token"

	grantTokenExchange = "urn:ietf:params:oauth:grant-type:token-exchange"
	subjectTokenType   = "urn:ietf:params:oauth:token-type:jwt"

	// pageLimit keeps drainage to a small bounded number of round trips.
	pageLimit = 500
)

// Client interacts with the Pure1 REST API.
type Client struct {
	cfg        config.Pure1Config
	baseURL    string
	httpClient *http.Client
	token      string
	tokenUntil time.Time
	mu         sync.Mutex
}

// NewClient builds a Pure1 client from credentials config.
func NewClient(cfg config.Pure1Config) *Client {
	return &Client{
		cfg:        cfg,
		baseURL:    sanitizeBaseURL(cfg.Endpoint),
		httpClient: &http.Client{},
	}
}

// GetArrays drains the arrays endpoint. filter may be empty.
func (c *Client) GetArrays(ctx context.Context, filter string) (*ArraysResponse, error) {
	status, pages, apiErrs, err := c.drain(ctx, "/arrays", filter)
	if err != nil {
		return nil, err
	}
	resp := &ArraysResponse{StatusCode: status, Errors: apiErrs}
	if status != http.StatusOK {
		return resp, nil
	}
	for _, page := range pages {
		var batch []Array
		if err := json.Unmarshal(page, &batch); err != nil {
			return nil, fmt.Errorf("decode arrays page: %w", err)
		}
		resp.Items = append(resp.Items, batch...)
	}
	return resp, nil
}

// GetArrayTags drains the array-tags endpoint, unfiltered.
func (c *Client) GetArrayTags(ctx context.Context) (*TagsResponse, error) {
	status, pages, apiErrs, err := c.drain(ctx, "/arrays/tags", "")
	if err != nil {
		return nil, err
	}
	resp := &TagsResponse{StatusCode: status, Errors: apiErrs}
	if status != http.StatusOK {
		return resp, nil
	}
	for _, page := range pages {
		var batch []Tag
		if err := json.Unmarshal(page, &batch); err != nil {
			return nil, fmt.Errorf("decode tags page: %w", err)
		}
		resp.Items = append(resp.Items, batch...)
	}
	return resp, nil
}

// GetNetworkInterfaces drains the network-interfaces endpoint with the
// given filter expression.
func (c *Client) GetNetworkInterfaces(ctx context.Context, filter string) (*NetworkInterfacesResponse, error) {
	status, pages, apiErrs, err := c.drain(ctx, "/network-interfaces", filter)
	if err != nil {
		return nil, err
	}
	resp := &NetworkInterfacesResponse{StatusCode: status, Errors: apiErrs}
	if status != http.StatusOK {
		return resp, nil
	}
	for _, page := range pages {
		var batch []NetworkInterface
		if err := json.Unmarshal(page, &batch); err != nil {
			return nil, fmt.Errorf("decode network interfaces page: %w", err)
		}
		resp.Items = append(resp.Items, batch...)
	}
	return resp, nil
}

// pageEnvelope is the response body shared by all Pure1 list endpoints.
type pageEnvelope struct {
	ContinuationToken string          `json:"continuation_token"`
	TotalItemCount    int             `json:"total_item_count"`
	Items             json.RawMessage `json:"items"`
	Errors            []APIError      `json:"errors"`
}

// drain follows continuation tokens until the result set is fully
// materialized. The upstream items sequence carries no length, so callers
// always get the complete list or a failure status, never a partial page
// view. A non-200 on any page stops drainage and surfaces that page's
// status and errors.
func (c *Client) drain(ctx context.Context, path, filter string) (int, []json.RawMessage, []APIError, error) {
	var pages []json.RawMessage
	continuation := ""
	for {
		query := url.Values{}
		query.Set("limit", fmt.Sprintf("%d", pageLimit))
		if filter != "" {
			query.Set("filter", filter)
		}
		if continuation != "" {
			query.Set("continuation_token", continuation)
		}
		status, env, err := c.getPage(ctx, path, query)
		if err != nil {
			return 0, nil, nil, err
		}
		if status != http.StatusOK {
			return status, nil, env.Errors, nil
		}
		if len(env.Items) > 0 {
			pages = append(pages, env.Items)
		}
		if env.ContinuationToken == "" {
			return http.StatusOK, pages, nil, nil
		}
		continuation = env.ContinuationToken
	}
}

func (c *Client) getPage(ctx context.Context, path string, query url.Values) (int, *pageEnvelope, error) {
	var (
		status int
		env    *pageEnvelope
	)
	operation := func() error {
		if err := c.ensureToken(ctx); err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s%s%s?%s", c.baseURL, apiPrefix, path, query.Encode()), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		decoded := &pageEnvelope{}
		if err := json.NewDecoder(resp.Body).Decode(decoded); err != nil && resp.StatusCode == http.StatusOK {
			return backoff.Permanent(fmt.Errorf("decode %s response: %w", path, err))
		}
		if retryableStatus(resp.StatusCode) {
			return fmt.Errorf("pure1 %s returned %s", path, resp.Status)
		}
		status = resp.StatusCode
		env = decoded
		return nil
	}
	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx))
	if err != nil {
		return 0, nil, err
	}
	return status, env, nil
}

// retryableStatus reports whether a response is worth retrying. Rate
// limiting and server-side failures are transient; everything else is a
// definitive answer and surfaces to the caller.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// ensureToken exchanges a self-signed JWT for a bearer token, caching it
// until shortly before expiry.
func (c *Client) ensureToken(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Until(c.tokenUntil) > 60*time.Second {
		return nil
	}
	key, err := loadPrivateKey(c.cfg.PrivateKeyFile, c.cfg.PrivateKeyPassword)
	if err != nil {
		return err
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": c.cfg.AppID,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	subject, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return fmt.Errorf("sign pure1 subject token: %w", err)
	}
	form := url.Values{}
	form.Set("grant_type", grantTokenExchange)
	form.Set("subject_token_type", subjectTokenType)
	form.Set("subject_token", subject)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pure1 token exchange failed: %s", resp.Status)
	}
	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("pure1 token exchange returned empty access token")
	}
	if payload.ExpiresIn <= 0 {
		payload.ExpiresIn = 3600
	}
	c.token = payload.AccessToken
	c.tokenUntil = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return nil
}

// loadPrivateKey reads an RSA key in PEM form, decrypting with the
// passphrase when one is configured.
func loadPrivateKey(path, password string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	var parsed interface{}
	if password != "" {
		parsed, err = ssh.ParseRawPrivateKeyWithPassphrase(data, []byte(password))
	} else {
		parsed, err = ssh.ParseRawPrivateKey(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse private key %s: %w", path, err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key %s is %T, pure1 requires RSA", path, parsed)
	}
	return key, nil
}

func sanitizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	return strings.TrimRight(trimmed, "/")
}
