package client

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

	"nearwave/internal/client/models"
	"nearwave/internal/common"
)

// HTTPClient implements API over the service's JSON interface.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPClient returns an HTTPClient for the given base URL. A zero
// timeout disables the client-level deadline; per-call contexts still apply.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.RemoteUser, error) {
	var users []models.RemoteUser
	if err := c.getJSON(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) ListFollows(ctx context.Context, followerID string) ([]models.FollowEdge, error) {
	q := url.Values{"followerId": {followerID}}
	var edges []models.FollowEdge
	if err := c.getJSON(ctx, "/follows", q, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

func (c *HTTPClient) ListAllFollows(ctx context.Context) ([]models.FollowEdge, error) {
	var edges []models.FollowEdge
	if err := c.getJSON(ctx, "/follows", nil, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

func (c *HTTPClient) CreateFollow(ctx context.Context, followerID, followedID string) (*models.FollowEdge, error) {
	body, err := json.Marshal(models.FollowRequest{FollowerID: followerID, FollowedID: followedID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal follow request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/follows", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	edge := &models.FollowEdge{}
	if err := json.NewDecoder(resp.Body).Decode(edge); err != nil {
		return nil, fmt.Errorf("failed to decode follow response: %w", err)
	}
	return edge, nil
}

func (c *HTTPClient) DeleteFollow(ctx context.Context, edgeID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/follows/"+url.PathEscape(edgeID), nil)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// checkStatus maps non-2xx responses to sentinel errors, keeping the first
// line of the body as detail.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(strings.SplitN(string(detail), "\n", 2)[0])
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, msg)
	}
}
